package handler

import (
	"strings"
	"time"

	"github.com/taskflow/taskflow-api/internal/core/domain"
	"github.com/taskflow/taskflow-api/internal/core/ports"
)

// dueDateLayouts are the accepted due_date formats, full timestamps first.
var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDueDate(s *string) (*time.Time, bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, true
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(*s)); err == nil {
			u := t.UTC()
			return &u, true
		}
	}
	return nil, false
}

func toCreateTaskInput(req createTaskRequest) ports.CreateTaskInput {
	due, _ := parseDueDate(req.DueDate)
	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	return ports.CreateTaskInput{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Priority:    priority,
		DueDate:     due,
	}
}

func toUpdateTaskInput(req updateTaskRequest) ports.UpdateTaskInput {
	due, _ := parseDueDate(req.DueDate)
	return ports.UpdateTaskInput{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Priority:    req.Priority,
		DueDate:     due,
	}
}

func toTaskResponse(t domain.Task) taskResponse {
	resp := taskResponse{
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
	if t.Assignee != nil {
		resp.AssignedUser = &assigneeResponse{UserID: t.Assignee.UserID, Username: t.Assignee.Username}
	}
	return resp
}

func toTaskResponses(tasks []domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

func toIdentityResponse(i domain.Identity) identityResponse {
	return identityResponse{ID: i.ID, Email: i.Email, Role: i.Role(), IsAdmin: i.IsAdmin}
}

func toUserResponse(u domain.UserWithRole) userResponse {
	return userResponse{ID: u.ID, UserID: u.UserID, Username: u.Username, Role: u.Role, CreatedAt: u.CreatedAt}
}

func toUserResponses(users []domain.UserWithRole) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toUserStatsResponses(stats []domain.UserStats) []userStatsResponse {
	out := make([]userStatsResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, userStatsResponse{
			userResponse:   toUserResponse(s.UserWithRole),
			TotalTasks:     s.Total,
			CompletedTasks: s.Completed,
			ActiveTasks:    s.Active,
		})
	}
	return out
}

func toNotificationResponses(ns []domain.Notification) ([]notificationResponse, int) {
	out := make([]notificationResponse, 0, len(ns))
	unread := 0
	for _, n := range ns {
		if !n.Read {
			unread++
		}
		out = append(out, notificationResponse{ID: n.ID, Message: n.Message, TaskID: n.TaskID, Read: n.Read, CreatedAt: n.CreatedAt})
	}
	return out, unread
}
