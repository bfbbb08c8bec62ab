package ports

import (
	"context"

	"github.com/taskflow/taskflow-api/internal/core/domain"
)

// CreateUserInput carries the fields needed to provision a user.
type CreateUserInput struct {
	Email    string
	Password string
	Username string
	Role     string
}

// UserDirectory is the list of all users joined with their roles.
type UserDirectory interface {
	Load(ctx context.Context) error
	Create(ctx context.Context, input CreateUserInput) error
	Users() []domain.UserWithRole
	Loading() bool
	Stats(tasks []domain.Task) []domain.UserStats
}

// UserDirectoryFactory opens a UserDirectory bound to an identity.
type UserDirectoryFactory interface {
	Open(identity domain.Identity, toaster Toaster) UserDirectory
}

// Inbox exposes an identity's own notifications.
type Inbox interface {
	List(ctx context.Context) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// InboxFactory opens an Inbox bound to an identity.
type InboxFactory interface {
	Open(identity domain.Identity) Inbox
}
