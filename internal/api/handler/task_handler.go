package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/taskflow-api/internal/api/metrics"
	"github.com/taskflow/taskflow-api/internal/core/domain"
	"github.com/taskflow/taskflow-api/internal/core/ports"
	"github.com/taskflow/taskflow-api/internal/core/service"
)

// TaskHandler handles HTTP requests for task operations. Each request opens
// a fresh board bound to the caller.
type TaskHandler struct {
	boards ports.TaskBoardFactory
}

func NewTaskHandler(boards ports.TaskBoardFactory) *TaskHandler {
	return &TaskHandler{boards: boards}
}

// List handles GET /v1/tasks.
//
// @Summary      List visible tasks
// @Description  Admins see every task unless scope=mine. Members only ever see their own.
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        scope  query     string  false  "mine or all"  Enums(mine, all)
// @Success      200    {object}  listTasksResponse
// @Failure      401    {object}  errorResponse
// @Failure      502    {object}  errorResponse
// @Router       /v1/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	scope := c.QueryParam("scope")
	switch scope {
	case "", "all":
		scope = "all"
	case "mine":
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "scope must be one of: mine all")
	}
	if !identity.IsAdmin {
		scope = "mine"
	}

	board := h.boards.Open(identity, nil)
	if err := board.Load(c.Request().Context(), scope == "mine"); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listTasksResponse{Data: toTaskResponses(board.Tasks()), Scope: scope})
}

// Create handles POST /v1/tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task"
// @Success      201   {object}  createTaskResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req createTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	toasts := service.NewToastRecorder()
	board := h.boards.Open(identity, toasts)
	task, err := board.Create(c.Request().Context(), toCreateTaskInput(req))
	countMutation("create", err)
	if err != nil {
		return toastFailure(err, toasts)
	}

	return c.JSON(http.StatusCreated, createTaskResponse{Message: toasts.Last(), Task: toTaskResponse(*task)})
}

// Update handles PUT /v1/tasks/:id. Optional fields left out are cleared.
//
// @Summary      Replace a task's editable fields
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task id"
// @Param        body  body      updateTaskRequest  true  "Task fields"
// @Success      200   {object}  messageResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req updateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	toasts := service.NewToastRecorder()
	board := h.boards.Open(identity, toasts)
	err = board.Update(c.Request().Context(), c.Param("id"), toUpdateTaskInput(req))
	countMutation("update", err)
	if err != nil {
		return toastFailure(err, toasts)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: toasts.Last()})
}

// UpdateStatus handles PATCH /v1/tasks/:id/status. The task must be visible
// to the caller.
//
// @Summary      Change a task's status
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Task id"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/tasks/{id}/status [patch]
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req updateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	toasts := service.NewToastRecorder()
	board := h.boards.Open(identity, toasts)
	if err := board.Load(ctx, false); err != nil {
		return err
	}

	status := domain.TaskStatus(req.Status)
	err = board.UpdateStatus(ctx, c.Param("id"), status)
	countMutation("update_status", err)
	if err != nil {
		return toastFailure(err, toasts)
	}
	if status.Terminal() {
		metrics.TasksCompletedTotal.Inc()
	}
	return c.JSON(http.StatusOK, messageResponse{Message: toasts.Last()})
}

// Delete handles DELETE /v1/tasks/:id.
//
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	toasts := service.NewToastRecorder()
	board := h.boards.Open(identity, toasts)
	err = board.Delete(c.Request().Context(), c.Param("id"))
	countMutation("delete", err)
	if err != nil {
		return toastFailure(err, toasts)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: toasts.Last()})
}

func countMutation(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrForbidden):
		result = "forbidden"
	case errors.Is(err, domain.ErrTaskNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	metrics.TaskMutationsTotal.WithLabelValues(op, result).Inc()
}

// toastFailure surfaces the user-facing toast for backend failures. Other
// errors go to the error handler unchanged.
func toastFailure(err error, toasts *service.ToastRecorder) error {
	var remote *domain.RemoteError
	if errors.As(err, &remote) {
		if msg := toasts.Last(); msg != "" {
			return echo.NewHTTPError(http.StatusBadGateway, msg).SetInternal(err)
		}
	}
	return err
}
