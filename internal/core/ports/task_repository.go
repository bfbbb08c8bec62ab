package ports

import (
	"context"

	"github.com/taskflow/taskflow-api/internal/core/domain"
)

// TaskFilter carries the query parameters for listing tasks.
type TaskFilter struct {
	AssignedTo string // empty = no filter (admin); non-empty = scoped to one assignee
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	// List returns matching tasks ordered by created_at descending, each with
	// the assignee's profile embedded when one exists.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)
	Insert(ctx context.Context, t *domain.Task) error
	// UpdateStatus, Update and Delete return domain.ErrTaskNotFound when no row matches id.
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error
	Update(ctx context.Context, id string, fields domain.TaskFields) error
	Delete(ctx context.Context, id string) error
}
