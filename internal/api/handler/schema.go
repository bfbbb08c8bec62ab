package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse carries the user-facing outcome of a mutation.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string           `json:"token"`
	User  identityResponse `json:"user"`
}

type identityResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"is_admin"`
}

type setupStatusResponse struct {
	HasAdmin bool `json:"has_admin"`
}

type setupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Username string `json:"username" validate:"required"`
}

// --- Tasks ---

type createTaskRequest struct {
	Title       string  `json:"title"       validate:"required,max=200"`
	Description *string `json:"description"`
	AssignedTo  string  `json:"assigned_to" validate:"required"`
	Priority    string  `json:"priority"    validate:"omitempty,priority"`
	DueDate     *string `json:"due_date"    validate:"omitempty,duedate"`
}

// updateTaskRequest replaces every editable field; omitted optional fields are cleared.
type updateTaskRequest struct {
	Title       string  `json:"title"       validate:"required,max=200"`
	Description *string `json:"description"`
	AssignedTo  string  `json:"assigned_to" validate:"required"`
	Priority    string  `json:"priority"    validate:"required,priority"`
	DueDate     *string `json:"due_date"    validate:"omitempty,duedate"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=todo in_progress done"`
}

type assigneeResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type taskResponse struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Description  *string           `json:"description"`
	Status       string            `json:"status"`
	Priority     string            `json:"priority"`
	DueDate      *time.Time        `json:"due_date"`
	AssignedTo   string            `json:"assigned_to"`
	CreatedBy    string            `json:"created_by"`
	CreatedAt    time.Time         `json:"created_at"`
	AssignedUser *assigneeResponse `json:"assigned_user"`
}

type listTasksResponse struct {
	Data  []taskResponse `json:"data"`
	Scope string         `json:"scope"`
}

type createTaskResponse struct {
	Message string       `json:"message"`
	Task    taskResponse `json:"task"`
}

// --- Users ---

type createUserRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Username string `json:"username" validate:"required"`
	Role     string `json:"role"     validate:"required,role"`
}

type userResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type userStatsResponse struct {
	userResponse
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	ActiveTasks    int `json:"active_tasks"`
}

type listUsersResponse struct {
	Data []userResponse `json:"data"`
}

type listUserStatsResponse struct {
	Data []userStatsResponse `json:"data"`
}

// --- Notifications ---

type notificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	TaskID    *string   `json:"task_id"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type listNotificationsResponse struct {
	Data   []notificationResponse `json:"data"`
	Unread int                    `json:"unread"`
}
