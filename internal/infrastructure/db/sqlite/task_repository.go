package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/taskflow/taskflow-api/internal/core/domain"
	"github.com/taskflow/taskflow-api/internal/core/ports"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) List(ctx context.Context, filter ports.TaskFilter) ([]*domain.Task, error) {
	query := `
		SELECT t.id, t.title, t.description, t.status, t.priority, t.due_date, t.assigned_to, t.created_by, t.created_at,
		       p.id, p.user_id, p.username, p.created_at
		FROM tasks t LEFT JOIN profiles p ON p.user_id = t.assigned_to`
	var args []any
	if filter.AssignedTo != "" {
		query += ` WHERE t.assigned_to = ?`
		args = append(args, filter.AssignedTo)
	}
	query += ` ORDER BY t.created_at DESC, t.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var out []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTask(rows *sql.Rows) (*domain.Task, error) {
	var (
		t                          domain.Task
		status, created            string
		description, due           sql.NullString
		pID, pUser, pName, pCreate sql.NullString
	)
	if err := rows.Scan(&t.ID, &t.Title, &description, &status, &t.Priority, &due, &t.AssignedTo, &t.CreatedBy, &created,
		&pID, &pUser, &pName, &pCreate); err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}

	var err error
	t.Status = domain.TaskStatus(status)
	t.Description = stringPtr(description)
	if t.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("parse task created_at: %w", err)
	}
	if t.DueDate, err = parseNullTime(due); err != nil {
		return nil, fmt.Errorf("parse task due_date: %w", err)
	}
	if pID.Valid {
		t.Assignee = &domain.Profile{ID: pID.String, UserID: pUser.String, Username: pName.String}
		if pCreate.Valid {
			t.Assignee.CreatedAt, _ = parseTime(pCreate.String)
		}
	}
	return &t, nil
}

func (r *TaskRepository) Insert(ctx context.Context, t *domain.Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, status, priority, due_date, assigned_to, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, nullString(t.Description), string(t.Status), t.Priority, formatNullTime(t.DueDate),
		t.AssignedTo, t.CreatedBy, formatTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update task status %s: %w", id, err)
	}
	return requireRow(res, domain.ErrTaskNotFound)
}

func (r *TaskRepository) Update(ctx context.Context, id string, f domain.TaskFields) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, assigned_to = ?, priority = ?, due_date = ?
		WHERE id = ?`,
		f.Title, nullString(f.Description), f.AssignedTo, f.Priority, formatNullTime(f.DueDate), id)
	if err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}
	return requireRow(res, domain.ErrTaskNotFound)
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return requireRow(res, domain.ErrTaskNotFound)
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
