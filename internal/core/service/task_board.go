package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/taskflow/taskflow-api/internal/core/domain"
	"github.com/taskflow/taskflow-api/internal/core/ports"
)

// permissionDenied is toasted when a non-admin attempts an admin-only write.
const permissionDenied = "Only admins can perform this action"

// TaskBoardDeps groups the collaborators shared by every TaskBoard.
type TaskBoardDeps struct {
	Tasks         ports.TaskRepository
	Roles         ports.RoleRepository
	Notifications ports.NotificationRepository
	Publisher     ports.NotificationPublisher
	Log           zerolog.Logger
}

// TaskBoard holds one identity's loaded task list. Mutations are checked
// against the identity before any storage call and always end with a full
// reload; the local list is never patched in place.
type TaskBoard struct {
	identity domain.Identity
	deps     TaskBoardDeps
	toaster  ports.Toaster
	log      zerolog.Logger

	mu          sync.Mutex
	tasks       []domain.Task
	loading     bool
	scopeToSelf bool
}

// NewTaskBoard returns an empty board for identity. Call Load to populate it.
func NewTaskBoard(identity domain.Identity, deps TaskBoardDeps, toaster ports.Toaster) *TaskBoard {
	if deps.Publisher == nil {
		deps.Publisher = NopPublisher{}
	}
	log := deps.Log.With().Str("user_id", identity.ID).Logger()
	if toaster == nil {
		toaster = NewLogToaster(log)
	}
	return &TaskBoard{identity: identity, deps: deps, toaster: toaster, log: log}
}

// Identity returns the identity the board is bound to.
func (b *TaskBoard) Identity() domain.Identity {
	return b.identity
}

// Tasks returns a copy of the loaded tasks.
func (b *TaskBoard) Tasks() []domain.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

// Loading reports whether a fetch is in flight.
func (b *TaskBoard) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

// Load fetches the visible tasks, newest first. Non-admins only ever see
// tasks assigned to them. On failure the previous list is kept.
func (b *TaskBoard) Load(ctx context.Context, scopeToSelf bool) error {
	if !b.identity.Authenticated() {
		return domain.ErrUnauthenticated
	}

	b.mu.Lock()
	b.loading = true
	b.scopeToSelf = scopeToSelf
	b.mu.Unlock()

	filter := ports.TaskFilter{}
	if scopeToSelf || !b.identity.IsAdmin {
		filter.AssignedTo = b.identity.ID
	}

	rows, err := b.deps.Tasks.List(ctx, filter)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = false
	if err != nil {
		b.log.Error().Err(err).Msg("error fetching tasks")
		return domain.Remote("fetch tasks", err)
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, t := range rows {
		tasks = append(tasks, *t)
	}
	b.tasks = tasks
	return nil
}

// Create inserts a new todo task assigned to input.AssignedTo and notifies
// the assignee. The notification is a separate write: if it fails the task
// still exists and the call still succeeds.
func (b *TaskBoard) Create(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	if !b.identity.Authenticated() || !b.identity.IsAdmin {
		b.toaster.Error(permissionDenied)
		return nil, domain.ErrForbidden
	}

	task := &domain.Task{
		ID:          domain.NewID(),
		Title:       input.Title,
		Description: nonEmpty(input.Description),
		Status:      domain.StatusTodo,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   b.identity.ID,
		CreatedAt:   domain.Now(),
	}

	if err := b.deps.Tasks.Insert(ctx, task); err != nil {
		b.toaster.Error("Failed to create task")
		b.log.Error().Err(err).Str("title", task.Title).Msg("failed to create task")
		return nil, domain.Remote("create task", err)
	}

	if task.AssignedTo != "" {
		if err := b.notify(ctx, task.AssignedTo, domain.AssignedMessage(task.Title), task.ID); err != nil {
			b.log.Warn().Err(err).Str("task_id", task.ID).Str("assignee", task.AssignedTo).Msg("failed to notify assignee")
		}
	}

	b.log.Info().Str("task_id", task.ID).Str("assigned_to", task.AssignedTo).Msg("task created")
	b.toaster.Success("Task created successfully")
	b.reload(ctx)
	return task, nil
}

// UpdateStatus changes the status of a task in the loaded list. Completing a
// task someone else created notifies every admin, one write per admin; a
// failure part way through stops the remaining notifications silently.
func (b *TaskBoard) UpdateStatus(ctx context.Context, taskID string, status domain.TaskStatus) error {
	if !b.identity.Authenticated() {
		return domain.ErrUnauthenticated
	}
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}

	task, ok := b.find(taskID)
	if !ok {
		b.toaster.Error("Task not found")
		return domain.ErrTaskNotFound
	}

	if err := b.deps.Tasks.UpdateStatus(ctx, taskID, status); err != nil {
		b.toaster.Error("Failed to update task status")
		b.log.Error().Err(err).Str("task_id", taskID).Msg("failed to update task status")
		return remoteOrNotFound("update task status", err)
	}

	if status.Terminal() && task.CreatedBy != b.identity.ID {
		b.notifyAdmins(ctx, task)
	}

	b.log.Info().Str("task_id", taskID).Str("status", string(status)).Msg("task status updated")
	b.toaster.Success("Task status updated")
	b.reload(ctx)
	return nil
}

// Update overwrites every editable field of a task. Optional fields left nil
// are cleared, not preserved.
func (b *TaskBoard) Update(ctx context.Context, taskID string, input ports.UpdateTaskInput) error {
	if !b.identity.Authenticated() || !b.identity.IsAdmin {
		b.toaster.Error(permissionDenied)
		return domain.ErrForbidden
	}

	fields := domain.TaskFields{
		Title:       input.Title,
		Description: nonEmpty(input.Description),
		AssignedTo:  input.AssignedTo,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
	}
	if err := b.deps.Tasks.Update(ctx, taskID, fields); err != nil {
		b.toaster.Error("Failed to update task")
		b.log.Error().Err(err).Str("task_id", taskID).Msg("failed to update task")
		return remoteOrNotFound("update task", err)
	}

	b.log.Info().Str("task_id", taskID).Msg("task updated")
	b.toaster.Success("Task updated successfully")
	b.reload(ctx)
	return nil
}

// Delete removes a task.
func (b *TaskBoard) Delete(ctx context.Context, taskID string) error {
	if !b.identity.Authenticated() || !b.identity.IsAdmin {
		b.toaster.Error(permissionDenied)
		return domain.ErrForbidden
	}

	if err := b.deps.Tasks.Delete(ctx, taskID); err != nil {
		b.toaster.Error("Failed to delete task")
		b.log.Error().Err(err).Str("task_id", taskID).Msg("failed to delete task")
		return remoteOrNotFound("delete task", err)
	}

	b.log.Info().Str("task_id", taskID).Msg("task deleted")
	b.toaster.Success("Task deleted")
	b.reload(ctx)
	return nil
}

func (b *TaskBoard) find(taskID string) (domain.Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range b.tasks {
		if t.ID == taskID {
			return t, true
		}
	}
	return domain.Task{}, false
}

// reload re-runs the last Load. Its error is already logged by Load.
func (b *TaskBoard) reload(ctx context.Context) {
	b.mu.Lock()
	scope := b.scopeToSelf
	b.mu.Unlock()
	_ = b.Load(ctx, scope)
}

func (b *TaskBoard) notifyAdmins(ctx context.Context, task domain.Task) {
	adminIDs, err := b.deps.Roles.UserIDsWithRole(ctx, domain.RoleAdmin)
	if err != nil {
		b.log.Warn().Err(err).Str("task_id", task.ID).Msg("failed to look up admins for completion notice")
		return
	}

	msg := domain.CompletedMessage(task.Title)
	seen := make(map[string]struct{}, len(adminIDs))
	for i, adminID := range adminIDs {
		if _, dup := seen[adminID]; dup {
			continue
		}
		seen[adminID] = struct{}{}
		if err := b.notify(ctx, adminID, msg, task.ID); err != nil {
			b.log.Warn().Err(err).
				Str("task_id", task.ID).
				Int("skipped", len(adminIDs)-i-1).
				Msg("completion notice interrupted")
			return
		}
	}
}

// notify persists a notification and hands it to the realtime publisher.
// Publishing is best effort.
func (b *TaskBoard) notify(ctx context.Context, userID, message, taskID string) error {
	n := &domain.Notification{
		ID:        domain.NewID(),
		UserID:    userID,
		Message:   message,
		TaskID:    &taskID,
		CreatedAt: domain.Now(),
	}
	if err := b.deps.Notifications.Insert(ctx, n); err != nil {
		return err
	}
	if err := b.deps.Publisher.Publish(ctx, *n); err != nil {
		b.log.Debug().Err(err).Str("notification_id", n.ID).Msg("realtime publish skipped")
	}
	return nil
}

func remoteOrNotFound(op string, err error) error {
	if errors.Is(err, domain.ErrTaskNotFound) {
		return domain.ErrTaskNotFound
	}
	return domain.Remote(op, err)
}

// nonEmpty maps a blank optional string to nil.
func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}
