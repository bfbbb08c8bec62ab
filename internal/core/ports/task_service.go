package ports

import (
	"context"
	"time"

	"github.com/taskflow/taskflow-api/internal/core/domain"
)

// Toaster receives the transient user-facing outcome of a mutation.
type Toaster interface {
	Success(msg string)
	Error(msg string)
}

// CreateTaskInput carries everything needed to create a task.
type CreateTaskInput struct {
	Title       string
	Description *string
	AssignedTo  string
	Priority    string
	DueDate     *time.Time
}

// UpdateTaskInput replaces every editable field of a task.
type UpdateTaskInput struct {
	Title       string
	Description *string
	AssignedTo  string
	Priority    string
	DueDate     *time.Time
}

// TaskBoard is one identity's view of its visible tasks plus the mutations it
// may perform. Every successful mutation reloads the view.
type TaskBoard interface {
	Load(ctx context.Context, scopeToSelf bool) error
	Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	UpdateStatus(ctx context.Context, taskID string, status domain.TaskStatus) error
	Update(ctx context.Context, taskID string, input UpdateTaskInput) error
	Delete(ctx context.Context, taskID string) error
	Tasks() []domain.Task
	Loading() bool
}

// TaskBoardFactory opens a TaskBoard bound to an identity.
type TaskBoardFactory interface {
	Open(identity domain.Identity, toaster Toaster) TaskBoard
}
