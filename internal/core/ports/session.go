package ports

import (
	"context"
	"time"

	"github.com/taskflow/taskflow-api/internal/core/domain"
)

// TokenRevoker remembers signed-out token ids until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// SessionService signs identities in and out and resolves bearer tokens.
type SessionService interface {
	SignIn(ctx context.Context, email, password string) (string, *domain.Identity, error)
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
	SignOut(ctx context.Context, token string) error
	HasAdmin(ctx context.Context) (bool, error)
	SetupAdmin(ctx context.Context, input CreateUserInput) error
}
