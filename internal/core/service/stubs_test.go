package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskflow/taskflow-api/internal/core/domain"
	"github.com/taskflow/taskflow-api/internal/core/ports"
)

var errBackend = errors.New("backend unavailable")

type stubTaskRepo struct {
	mu       sync.Mutex
	tasks    map[string]*domain.Task
	profiles map[string]*domain.Profile

	listErr   error
	insertErr error
	writeErr  error

	lists   int
	inserts int
	writes  int
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[string]*domain.Task), profiles: make(map[string]*domain.Profile)}
}

func (r *stubTaskRepo) seed(tasks ...domain.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range tasks {
		t := tasks[i]
		r.tasks[t.ID] = &t
	}
}

func (r *stubTaskRepo) get(id string) (domain.Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return domain.Task{}, false
	}
	return *t, true
}

func (r *stubTaskRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

func (r *stubTaskRepo) List(_ context.Context, filter ports.TaskFilter) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if filter.AssignedTo != "" && t.AssignedTo != filter.AssignedTo {
			continue
		}
		c := *t
		if p, ok := r.profiles[c.AssignedTo]; ok {
			pc := *p
			c.Assignee = &pc
		}
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *stubTaskRepo) Insert(_ context.Context, t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserts++
	if r.insertErr != nil {
		return r.insertErr
	}
	c := *t
	r.tasks[t.ID] = &c
	return nil
}

func (r *stubTaskRepo) UpdateStatus(_ context.Context, id string, status domain.TaskStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if r.writeErr != nil {
		return r.writeErr
	}
	t, ok := r.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	t.Status = status
	return nil
}

func (r *stubTaskRepo) Update(_ context.Context, id string, f domain.TaskFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if r.writeErr != nil {
		return r.writeErr
	}
	t, ok := r.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	t.Title = f.Title
	t.Description = f.Description
	t.AssignedTo = f.AssignedTo
	t.Priority = f.Priority
	t.DueDate = f.DueDate
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if r.writeErr != nil {
		return r.writeErr
	}
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

type stubRoleRepo struct {
	mu          sync.Mutex
	assignments []*domain.RoleAssignment
	err         error
}

func newStubRoleRepo(admins ...string) *stubRoleRepo {
	r := &stubRoleRepo{}
	for _, id := range admins {
		r.assignments = append(r.assignments, &domain.RoleAssignment{ID: "role-" + id, UserID: id, Role: domain.RoleAdmin})
	}
	return r
}

func (r *stubRoleRepo) List(context.Context) ([]*domain.RoleAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.RoleAssignment, len(r.assignments))
	copy(out, r.assignments)
	return out, nil
}

func (r *stubRoleRepo) UserIDsWithRole(_ context.Context, role string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var ids []string
	for _, a := range r.assignments {
		if a.Role == role {
			ids = append(ids, a.UserID)
		}
	}
	return ids, nil
}

func (r *stubRoleRepo) RoleOf(_ context.Context, userID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	for _, a := range r.assignments {
		if a.UserID == userID {
			return a.Role, nil
		}
	}
	return domain.RoleMember, nil
}

func (r *stubRoleRepo) Assign(_ context.Context, a *domain.RoleAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	c := *a
	r.assignments = append(r.assignments, &c)
	return nil
}

type stubNotificationRepo struct {
	mu   sync.Mutex
	rows []*domain.Notification
	// failFrom makes every insert from the n-th (1-based) onwards fail. Zero disables.
	failFrom int
	inserts  int
	err      error
}

func (r *stubNotificationRepo) Insert(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserts++
	if r.failFrom > 0 && r.inserts >= r.failFrom {
		return errBackend
	}
	c := *n
	r.rows = append(r.rows, &c)
	return nil
}

func (r *stubNotificationRepo) ListByUser(_ context.Context, userID string) ([]*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Notification
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UserID == userID {
			c := *r.rows[i]
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, n := range r.rows {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

func (r *stubNotificationRepo) all() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Notification, 0, len(r.rows))
	for _, n := range r.rows {
		out = append(out, *n)
	}
	return out
}

type stubPublisher struct {
	mu        sync.Mutex
	published []domain.Notification
	err       error
}

func (p *stubPublisher) Publish(_ context.Context, n domain.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, n)
	return nil
}

type stubProfileRepo struct {
	profiles []*domain.Profile
	err      error
}

func (r *stubProfileRepo) List(context.Context) ([]*domain.Profile, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.Profile, len(r.profiles))
	copy(out, r.profiles)
	return out, nil
}

func (r *stubProfileRepo) FindByUserIDs(_ context.Context, ids []string) ([]*domain.Profile, error) {
	var out []*domain.Profile
	for _, p := range r.profiles {
		for _, id := range ids {
			if p.UserID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (r *stubProfileRepo) Insert(_ context.Context, p *domain.Profile) error {
	if r.err != nil {
		return r.err
	}
	r.profiles = append([]*domain.Profile{p}, r.profiles...)
	return nil
}

type stubProvisioner struct {
	calls  []ports.ProvisionRequest
	result *ports.ProvisionResult
	err    error
	// onProvision runs after a successful call, e.g. to add the new profile.
	onProvision func(ports.ProvisionRequest)
}

func (p *stubProvisioner) Provision(_ context.Context, req ports.ProvisionRequest) (*ports.ProvisionResult, error) {
	p.calls = append(p.calls, req)
	if p.err != nil || (p.result != nil && p.result.Error != "") {
		return p.result, p.err
	}
	if p.onProvision != nil {
		p.onProvision(req)
	}
	if p.result != nil {
		return p.result, nil
	}
	return &ports.ProvisionResult{UserID: "new-" + req.Username}, nil
}

type stubAccountRepo struct {
	accounts map[string]*domain.Account
	err      error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.accounts[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *a
	return &c, nil
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) error {
	if _, ok := r.accounts[a.Email]; ok {
		return domain.ErrUserExists
	}
	c := *a
	r.accounts[a.Email] = &c
	return nil
}

type failingRevoker struct{ revoked bool }

func (f failingRevoker) Revoke(context.Context, string, time.Duration) error { return errBackend }
func (f failingRevoker) IsRevoked(context.Context, string) (bool, error)   { return f.revoked, errBackend }

var (
	adminA  = domain.Identity{ID: "admin-a", Email: "a@example.com", IsAdmin: true}
	adminB  = domain.Identity{ID: "admin-b", Email: "b@example.com", IsAdmin: true}
	memberU = domain.Identity{ID: "user-u", Email: "u@example.com"}
)

type boardFixture struct {
	tasks     *stubTaskRepo
	roles     *stubRoleRepo
	notes     *stubNotificationRepo
	publisher *stubPublisher
}

func newBoardFixture(admins ...string) *boardFixture {
	return &boardFixture{
		tasks:     newStubTaskRepo(),
		roles:     newStubRoleRepo(admins...),
		notes:     &stubNotificationRepo{},
		publisher: &stubPublisher{},
	}
}

func (f *boardFixture) deps() TaskBoardDeps {
	return TaskBoardDeps{
		Tasks:         f.tasks,
		Roles:         f.roles,
		Notifications: f.notes,
		Publisher:     f.publisher,
		Log:           zerolog.Nop(),
	}
}

func (f *boardFixture) open(identity domain.Identity) (*TaskBoard, *ToastRecorder) {
	rec := NewToastRecorder()
	return NewTaskBoard(identity, f.deps(), rec), rec
}

func strPtr(s string) *string { return &s }
