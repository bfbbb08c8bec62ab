package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/taskflow-api/internal/api/middleware"
	"github.com/taskflow/taskflow-api/internal/core/domain"
	"github.com/taskflow/taskflow-api/internal/core/ports"
)

var (
	admin  = domain.Identity{ID: "admin-1", Email: "admin@example.com", IsAdmin: true}
	member = domain.Identity{ID: "user-1", Email: "user@example.com"}
)

type stubSessions struct {
	signInFn  func(ctx context.Context, email, password string) (string, *domain.Identity, error)
	signOutFn func(ctx context.Context, token string) error
	hasAdmin  bool
	setupFn   func(ctx context.Context, input ports.CreateUserInput) error
}

func (s *stubSessions) SignIn(ctx context.Context, email, password string) (string, *domain.Identity, error) {
	return s.signInFn(ctx, email, password)
}

func (s *stubSessions) Resolve(context.Context, string) (*domain.Identity, error) {
	return nil, domain.ErrUnauthenticated
}

func (s *stubSessions) SignOut(ctx context.Context, token string) error {
	return s.signOutFn(ctx, token)
}

func (s *stubSessions) HasAdmin(context.Context) (bool, error) {
	return s.hasAdmin, nil
}

func (s *stubSessions) SetupAdmin(ctx context.Context, input ports.CreateUserInput) error {
	return s.setupFn(ctx, input)
}

// stubBoard records which identity opened it and what the handler asked for.
type stubBoard struct {
	identity domain.Identity
	toaster  ports.Toaster
	tasks    []domain.Task

	loads       []bool
	loadErr     error
	createFn    func(input ports.CreateTaskInput) (*domain.Task, error)
	updateFn    func(id string, input ports.UpdateTaskInput) error
	statusFn    func(id string, status domain.TaskStatus) error
	deleteFn    func(id string) error
	loadedFirst bool
}

func (b *stubBoard) Load(_ context.Context, scopeToSelf bool) error {
	b.loads = append(b.loads, scopeToSelf)
	return b.loadErr
}

func (b *stubBoard) Create(_ context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	return b.createFn(input)
}

func (b *stubBoard) UpdateStatus(_ context.Context, id string, status domain.TaskStatus) error {
	b.loadedFirst = len(b.loads) > 0
	return b.statusFn(id, status)
}

func (b *stubBoard) Update(_ context.Context, id string, input ports.UpdateTaskInput) error {
	return b.updateFn(id, input)
}

func (b *stubBoard) Delete(_ context.Context, id string) error {
	return b.deleteFn(id)
}

func (b *stubBoard) Tasks() []domain.Task { return b.tasks }
func (b *stubBoard) Loading() bool        { return false }

type stubBoards struct {
	board *stubBoard
}

func (f *stubBoards) Open(identity domain.Identity, toaster ports.Toaster) ports.TaskBoard {
	f.board.identity = identity
	f.board.toaster = toaster
	return f.board
}

type stubDirectory struct {
	users    []domain.UserWithRole
	loadErr  error
	createFn func(toaster ports.Toaster, input ports.CreateUserInput) error
	toaster  ports.Toaster
}

func (d *stubDirectory) Load(context.Context) error { return d.loadErr }

func (d *stubDirectory) Create(_ context.Context, input ports.CreateUserInput) error {
	return d.createFn(d.toaster, input)
}

func (d *stubDirectory) Users() []domain.UserWithRole { return d.users }
func (d *stubDirectory) Loading() bool                { return false }

func (d *stubDirectory) Stats(tasks []domain.Task) []domain.UserStats {
	out := make([]domain.UserStats, 0, len(d.users))
	for _, u := range d.users {
		s := domain.UserStats{UserWithRole: u}
		for _, t := range tasks {
			if t.AssignedTo == u.UserID {
				s.Total++
			}
		}
		out = append(out, s)
	}
	return out
}

type stubDirectories struct {
	dir *stubDirectory
}

func (f *stubDirectories) Open(_ domain.Identity, toaster ports.Toaster) ports.UserDirectory {
	f.dir.toaster = toaster
	return f.dir
}

type stubInbox struct {
	items    []domain.Notification
	markedID string
	markErr  error
}

func (i *stubInbox) List(context.Context) ([]domain.Notification, error) { return i.items, nil }

func (i *stubInbox) MarkRead(_ context.Context, id string) error {
	i.markedID = id
	return i.markErr
}

type stubInboxes struct {
	inbox  *stubInbox
	opened domain.Identity
}

func (f *stubInboxes) Open(identity domain.Identity) ports.Inbox {
	f.opened = identity
	return f.inbox
}

// newContext builds an echo context with the validator installed and, when
// identity is authenticated, the values the Auth middleware would set.
func newContext(method, target, body string, identity domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity.Authenticated() {
		c.Set(middleware.IdentityKey, identity)
		c.Set(middleware.RoleKey, identity.Role())
		c.Set(middleware.TokenKey, "tok-"+identity.ID)
	}
	return c, rec
}

func httpCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}
