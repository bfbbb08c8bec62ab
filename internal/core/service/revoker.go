package service

import (
	"context"
	"sync"
	"time"
)

// MemoryRevoker keeps revoked token ids in process memory. It is used when
// Redis is disabled, so revocations do not survive a restart.
type MemoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{revoked: make(map[string]time.Time), now: time.Now}
}

func (r *MemoryRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweep()
	r.revoked[tokenID] = r.now().Add(ttl)
	return nil
}

func (r *MemoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	until, ok := r.revoked[tokenID]
	return ok && r.now().Before(until), nil
}

// sweep drops expired entries. Caller holds mu.
func (r *MemoryRevoker) sweep() {
	t := r.now()
	for id, until := range r.revoked {
		if !t.Before(until) {
			delete(r.revoked, id)
		}
	}
}
