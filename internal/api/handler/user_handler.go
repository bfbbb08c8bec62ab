package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/taskflow-api/internal/api/metrics"
	"github.com/taskflow/taskflow-api/internal/core/ports"
	"github.com/taskflow/taskflow-api/internal/core/service"
)

// UserHandler handles HTTP requests for the user directory.
type UserHandler struct {
	directories ports.UserDirectoryFactory
	boards      ports.TaskBoardFactory
}

func NewUserHandler(directories ports.UserDirectoryFactory, boards ports.TaskBoardFactory) *UserHandler {
	return &UserHandler{directories: directories, boards: boards}
}

// List handles GET /v1/users.
//
// @Summary      List users with their roles
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listUsersResponse
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	dir := h.directories.Open(identity, nil)
	if err := dir.Load(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listUsersResponse{Data: toUserResponses(dir.Users())})
}

// Stats handles GET /v1/users/stats. Counts cover the tasks visible to the caller.
//
// @Summary      Per-user task statistics
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listUserStatsResponse
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/users/stats [get]
func (h *UserHandler) Stats(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	dir := h.directories.Open(identity, nil)
	if err := dir.Load(ctx); err != nil {
		return err
	}
	board := h.boards.Open(identity, nil)
	if err := board.Load(ctx, false); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listUserStatsResponse{Data: toUserStatsResponses(dir.Stats(board.Tasks()))})
}

// Create handles POST /v1/users.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User"
// @Success      201   {object}  messageResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	toasts := service.NewToastRecorder()
	dir := h.directories.Open(identity, toasts)
	err = dir.Create(c.Request().Context(), ports.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
		Role:     req.Role,
	})
	if err != nil {
		metrics.UsersCreatedTotal.WithLabelValues(req.Role, "error").Inc()
		return toastFailure(err, toasts)
	}

	metrics.UsersCreatedTotal.WithLabelValues(req.Role, "ok").Inc()
	return c.JSON(http.StatusCreated, messageResponse{Message: toasts.Last()})
}
