package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/taskflow/taskflow-api/internal/core/domain"
	"github.com/taskflow/taskflow-api/internal/core/ports"
)

func TestTaskHandler_List_MemberAlwaysScoped(t *testing.T) {
	board := &stubBoard{tasks: []domain.Task{{ID: "t1", Title: "Ship report", Status: domain.StatusTodo, AssignedTo: member.ID}}}
	h := NewTaskHandler(&stubBoards{board: board})

	c, rec := newContext(http.MethodGet, "/v1/tasks?scope=all", "", member)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(board.loads) != 1 || !board.loads[0] {
		t.Fatalf("expected one self-scoped load, got %v", board.loads)
	}

	var resp listTasksResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Scope != "mine" || len(resp.Data) != 1 || resp.Data[0].Title != "Ship report" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestTaskHandler_List_AdminScopes(t *testing.T) {
	board := &stubBoard{}
	h := NewTaskHandler(&stubBoards{board: board})

	c, _ := newContext(http.MethodGet, "/v1/tasks", "", admin)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	c, _ = newContext(http.MethodGet, "/v1/tasks?scope=mine", "", admin)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(board.loads) != 2 || board.loads[0] || !board.loads[1] {
		t.Fatalf("expected loads [false true], got %v", board.loads)
	}
}

func TestTaskHandler_List_BadScope(t *testing.T) {
	h := NewTaskHandler(&stubBoards{board: &stubBoard{}})

	c, _ := newContext(http.MethodGet, "/v1/tasks?scope=everyone", "", admin)
	if err := h.List(c); httpCode(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestTaskHandler_Create(t *testing.T) {
	var got ports.CreateTaskInput
	board := &stubBoard{}
	board.createFn = func(input ports.CreateTaskInput) (*domain.Task, error) {
		got = input
		board.toaster.Success("Task created successfully")
		return &domain.Task{ID: "t1", Title: input.Title, Status: domain.StatusTodo, AssignedTo: input.AssignedTo, Priority: input.Priority, DueDate: input.DueDate}, nil
	}
	h := NewTaskHandler(&stubBoards{board: board})

	body := `{"title":" Ship report ","assigned_to":"user-1","priority":"high","due_date":"2026-11-01"}`
	c, rec := newContext(http.MethodPost, "/v1/tasks", body, admin)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.Title != "Ship report" || got.Priority != domain.PriorityHigh {
		t.Fatalf("unexpected input: %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected due date: %v", got.DueDate)
	}

	var resp createTaskResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Message != "Task created successfully" || resp.Task.ID != "t1" || resp.Task.Status != "todo" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestTaskHandler_Create_DefaultsPriority(t *testing.T) {
	var got ports.CreateTaskInput
	board := &stubBoard{createFn: func(input ports.CreateTaskInput) (*domain.Task, error) {
		got = input
		return &domain.Task{ID: "t1"}, nil
	}}
	h := NewTaskHandler(&stubBoards{board: board})

	c, _ := newContext(http.MethodPost, "/v1/tasks", `{"title":"Ship report","assigned_to":"user-1"}`, admin)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Priority != domain.PriorityMedium {
		t.Fatalf("expected medium priority, got %q", got.Priority)
	}
}

func TestTaskHandler_Create_InvalidDueDate(t *testing.T) {
	h := NewTaskHandler(&stubBoards{board: &stubBoard{}})

	c, _ := newContext(http.MethodPost, "/v1/tasks", `{"title":"x","assigned_to":"user-1","due_date":"next week"}`, admin)
	if err := h.Create(c); httpCode(err) != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestTaskHandler_Create_InvalidPriority(t *testing.T) {
	h := NewTaskHandler(&stubBoards{board: &stubBoard{}})

	c, _ := newContext(http.MethodPost, "/v1/tasks", `{"title":"x","assigned_to":"user-1","priority":"whenever"}`, admin)
	if err := h.Create(c); httpCode(err) != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestTaskHandler_Create_ForbiddenPassesThrough(t *testing.T) {
	board := &stubBoard{createFn: func(ports.CreateTaskInput) (*domain.Task, error) {
		return nil, domain.ErrForbidden
	}}
	h := NewTaskHandler(&stubBoards{board: board})

	c, _ := newContext(http.MethodPost, "/v1/tasks", `{"title":"x","assigned_to":"user-1"}`, member)
	if err := h.Create(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestTaskHandler_Create_BackendFailureUsesToast(t *testing.T) {
	board := &stubBoard{}
	board.createFn = func(ports.CreateTaskInput) (*domain.Task, error) {
		board.toaster.Error("Failed to create task")
		return nil, domain.Remote("create task", errors.New("connection reset"))
	}
	h := NewTaskHandler(&stubBoards{board: board})

	c, _ := newContext(http.MethodPost, "/v1/tasks", `{"title":"x","assigned_to":"user-1"}`, admin)
	err := h.Create(c)
	if httpCode(err) != http.StatusBadGateway {
		t.Fatalf("expected 502, got %v", err)
	}
	if msg := err.Error(); msg == "" || !strings.Contains(msg, "Failed to create task") {
		t.Fatalf("expected toast message in error, got %q", msg)
	}
}

func TestTaskHandler_Update_ClearsOmittedFields(t *testing.T) {
	var gotID string
	var got ports.UpdateTaskInput
	board := &stubBoard{updateFn: func(id string, input ports.UpdateTaskInput) error {
		gotID, got = id, input
		return nil
	}}
	h := NewTaskHandler(&stubBoards{board: board})

	c, rec := newContext(http.MethodPut, "/v1/tasks/t1", `{"title":"Ship report","assigned_to":"user-1","priority":"low"}`, admin)
	c.SetParamNames("id")
	c.SetParamValues("t1")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || gotID != "t1" {
		t.Fatalf("unexpected result: code=%d id=%q", rec.Code, gotID)
	}
	if got.Description != nil || got.DueDate != nil {
		t.Fatalf("expected omitted fields to be nil, got %+v", got)
	}
}

func TestTaskHandler_UpdateStatus_LoadsBeforeUpdating(t *testing.T) {
	var gotStatus domain.TaskStatus
	board := &stubBoard{statusFn: func(_ string, status domain.TaskStatus) error {
		gotStatus = status
		return nil
	}}
	h := NewTaskHandler(&stubBoards{board: board})

	c, rec := newContext(http.MethodPatch, "/v1/tasks/t1/status", `{"status":"done"}`, member)
	c.SetParamNames("id")
	c.SetParamValues("t1")
	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || gotStatus != domain.StatusDone {
		t.Fatalf("unexpected result: code=%d status=%q", rec.Code, gotStatus)
	}
	if !board.loadedFirst {
		t.Fatalf("expected the board to be loaded before UpdateStatus")
	}
}

func TestTaskHandler_UpdateStatus_InvalidStatus(t *testing.T) {
	h := NewTaskHandler(&stubBoards{board: &stubBoard{}})

	c, _ := newContext(http.MethodPatch, "/v1/tasks/t1/status", `{"status":"archived"}`, member)
	if err := h.UpdateStatus(c); httpCode(err) != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestTaskHandler_UpdateStatus_NotVisible(t *testing.T) {
	board := &stubBoard{statusFn: func(string, domain.TaskStatus) error { return domain.ErrTaskNotFound }}
	h := NewTaskHandler(&stubBoards{board: board})

	c, _ := newContext(http.MethodPatch, "/v1/tasks/other/status", `{"status":"done"}`, member)
	if err := h.UpdateStatus(c); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskHandler_Delete(t *testing.T) {
	var deleted string
	board := &stubBoard{}
	board.deleteFn = func(id string) error {
		deleted = id
		board.toaster.Success("Task deleted")
		return nil
	}
	h := NewTaskHandler(&stubBoards{board: board})

	c, rec := newContext(http.MethodDelete, "/v1/tasks/t1", "", admin)
	c.SetParamNames("id")
	c.SetParamValues("t1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp messageResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if deleted != "t1" || resp.Message != "Task deleted" {
		t.Fatalf("unexpected result: deleted=%q message=%q", deleted, resp.Message)
	}
}
