package domain

import (
	"fmt"
	"time"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

var knownStatuses = map[TaskStatus]struct{}{
	StatusTodo:       {},
	StatusInProgress: {},
	StatusDone:       {},
}

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	_, ok := knownStatuses[s]
	return ok
}

// Terminal reports whether s is the completed state.
func (s TaskStatus) Terminal() bool {
	return s == StatusDone
}

// Priorities accepted by the API. Storage treats priority as a free-form string.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Task is the core aggregate. Assignee is populated by join-fetching reads only.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssignedTo  string     `json:"assigned_to"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	Assignee    *Profile   `json:"assigned_user,omitempty"`
}

// TaskFields is the full set of admin-editable fields. Nil optional fields
// overwrite stored values with NULL.
type TaskFields struct {
	Title       string
	Description *string
	AssignedTo  string
	Priority    string
	DueDate     *time.Time
}

// AssignedMessage is the notification text sent to a task's assignee.
func AssignedMessage(title string) string {
	return fmt.Sprintf("You have been assigned a new task: \"%s\"", title)
}

// CompletedMessage is the notification text sent to admins when a task is done.
func CompletedMessage(title string) string {
	return fmt.Sprintf("Task \"%s\" has been completed", title)
}
