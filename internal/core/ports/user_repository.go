package ports

import (
	"context"

	"github.com/taskflow/taskflow-api/internal/core/domain"
)

// AccountRepository stores login credentials.
type AccountRepository interface {
	// FindByEmail returns domain.ErrUserNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// Create returns domain.ErrUserExists when the email is taken.
	Create(ctx context.Context, account *domain.Account) error
}

// ProfileRepository stores display profiles.
type ProfileRepository interface {
	// List returns every profile ordered by created_at descending.
	List(ctx context.Context) ([]*domain.Profile, error)
	FindByUserIDs(ctx context.Context, userIDs []string) ([]*domain.Profile, error)
	Insert(ctx context.Context, profile *domain.Profile) error
}

// RoleRepository stores role assignments.
type RoleRepository interface {
	List(ctx context.Context) ([]*domain.RoleAssignment, error)
	UserIDsWithRole(ctx context.Context, role string) ([]string, error)
	// RoleOf returns the assigned role, or domain.RoleMember when none exists.
	RoleOf(ctx context.Context, userID string) (string, error)
	Assign(ctx context.Context, assignment *domain.RoleAssignment) error
}
