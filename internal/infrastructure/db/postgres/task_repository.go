package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskflow/taskflow-api/internal/core/domain"
	"github.com/taskflow/taskflow-api/internal/core/ports"
)

const taskColumns = `
	t.id, t.title, t.description, t.status, t.priority, t.due_date, t.assigned_to, t.created_by, t.created_at,
	p.id, p.user_id, p.username, p.created_at`

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// List left-joins profiles so tasks whose assignee has no profile are kept.
func (r *TaskRepository) List(ctx context.Context, filter ports.TaskFilter) ([]*domain.Task, error) {
	query := `SELECT` + taskColumns + `
		FROM tasks t LEFT JOIN profiles p ON p.user_id = t.assigned_to`
	var args []any
	if filter.AssignedTo != "" {
		query += ` WHERE t.assigned_to = $1`
		args = append(args, filter.AssignedTo)
	}
	query += ` ORDER BY t.created_at DESC, t.id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var out []*domain.Task
	for rows.Next() {
		var (
			t      domain.Task
			status string
			pID    *string
			pUser  *string
			pName  *string
			pAt    *time.Time
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &status, &t.Priority, &t.DueDate, &t.AssignedTo, &t.CreatedBy, &t.CreatedAt,
			&pID, &pUser, &pName, &pAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Status = domain.TaskStatus(status)
		if pID != nil {
			t.Assignee = &domain.Profile{ID: *pID, UserID: deref(pUser), Username: deref(pName)}
			if pAt != nil {
				t.Assignee.CreatedAt = *pAt
			}
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (r *TaskRepository) Insert(ctx context.Context, t *domain.Task) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tasks (id, title, description, status, priority, due_date, assigned_to, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.Title, t.Description, string(t.Status), t.Priority, t.DueDate, t.AssignedTo, t.CreatedBy, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE tasks SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("update task status %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Update(ctx context.Context, id string, f domain.TaskFields) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE tasks SET title = $1, description = $2, assigned_to = $3, priority = $4, due_date = $5
		WHERE id = $6`,
		f.Title, f.Description, f.AssignedTo, f.Priority, f.DueDate, id)
	if err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
