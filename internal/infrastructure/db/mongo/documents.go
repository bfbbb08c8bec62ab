package mongo

import (
	"time"

	"github.com/taskflow/taskflow-api/internal/core/domain"
)

const (
	collectionAccounts      = "accounts"
	collectionProfiles      = "profiles"
	collectionRoles         = "user_roles"
	collectionTasks         = "tasks"
	collectionNotifications = "notifications"
)

type accountDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (d accountDoc) toDomain() *domain.Account {
	return &domain.Account{ID: d.ID, Email: d.Email, PasswordHash: d.PasswordHash, CreatedAt: d.CreatedAt.UTC()}
}

type profileDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Username  string    `bson:"username"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d profileDoc) toDomain() *domain.Profile {
	return &domain.Profile{ID: d.ID, UserID: d.UserID, Username: d.Username, CreatedAt: d.CreatedAt.UTC()}
}

type roleDoc struct {
	ID     string `bson:"_id"`
	UserID string `bson:"user_id"`
	Role   string `bson:"role"`
}

type taskDoc struct {
	ID          string       `bson:"_id"`
	Title       string       `bson:"title"`
	Description *string      `bson:"description"`
	Status      string       `bson:"status"`
	Priority    string       `bson:"priority"`
	DueDate     *time.Time   `bson:"due_date"`
	AssignedTo  string       `bson:"assigned_to"`
	CreatedBy   string       `bson:"created_by"`
	CreatedAt   time.Time    `bson:"created_at"`
	Assignee    []profileDoc `bson:"assignee,omitempty"`
}

func newTaskDoc(t *domain.Task) taskDoc {
	return taskDoc{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		AssignedTo:  t.AssignedTo,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
	}
}

func (d taskDoc) toDomain() *domain.Task {
	t := &domain.Task{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Status:      domain.TaskStatus(d.Status),
		Priority:    d.Priority,
		AssignedTo:  d.AssignedTo,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt.UTC(),
	}
	if d.DueDate != nil {
		due := d.DueDate.UTC()
		t.DueDate = &due
	}
	if len(d.Assignee) > 0 {
		t.Assignee = d.Assignee[0].toDomain()
	}
	return t
}

type notificationDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Message   string    `bson:"message"`
	TaskID    *string   `bson:"task_id"`
	Read      bool      `bson:"read"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d notificationDoc) toDomain() *domain.Notification {
	return &domain.Notification{ID: d.ID, UserID: d.UserID, Message: d.Message, TaskID: d.TaskID, Read: d.Read, CreatedAt: d.CreatedAt.UTC()}
}
