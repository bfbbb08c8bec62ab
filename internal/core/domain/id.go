package domain

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a time-ordered UUIDv7 string.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Now is the UTC timestamp stamped on new records, truncated to what every
// backend stores losslessly.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
