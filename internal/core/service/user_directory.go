package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/taskflow/taskflow-api/internal/core/domain"
	"github.com/taskflow/taskflow-api/internal/core/ports"
)

const defaultCreateUserError = "Failed to create user"

// UserDirectoryDeps groups the collaborators shared by every UserDirectory.
type UserDirectoryDeps struct {
	Profiles    ports.ProfileRepository
	Roles       ports.RoleRepository
	Provisioner ports.UserProvisioner
	Log         zerolog.Logger
}

// UserDirectory lists every profile joined with its role. It is not scoped
// to the identity: any signed-in user sees all users.
type UserDirectory struct {
	identity domain.Identity
	deps     UserDirectoryDeps
	toaster  ports.Toaster
	log      zerolog.Logger

	mu      sync.Mutex
	users   []domain.UserWithRole
	loading bool
}

func NewUserDirectory(identity domain.Identity, deps UserDirectoryDeps, toaster ports.Toaster) *UserDirectory {
	log := deps.Log.With().Str("user_id", identity.ID).Logger()
	if toaster == nil {
		toaster = NewLogToaster(log)
	}
	return &UserDirectory{identity: identity, deps: deps, toaster: toaster, log: log}
}

// Users returns a copy of the loaded users.
func (d *UserDirectory) Users() []domain.UserWithRole {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.UserWithRole, len(d.users))
	copy(out, d.users)
	return out
}

func (d *UserDirectory) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

// Load fetches profiles newest first, then all role assignments, and joins
// them. A failed role fetch degrades every user to member. A user holding
// both roles is listed as admin.
func (d *UserDirectory) Load(ctx context.Context) error {
	if !d.identity.Authenticated() {
		return domain.ErrUnauthenticated
	}

	d.mu.Lock()
	d.loading = true
	d.mu.Unlock()

	profiles, err := d.deps.Profiles.List(ctx)
	if err != nil {
		d.mu.Lock()
		d.loading = false
		d.mu.Unlock()
		d.log.Error().Err(err).Msg("error fetching users")
		return domain.Remote("fetch users", err)
	}

	roles := make(map[string]string)
	assignments, err := d.deps.Roles.List(ctx)
	if err != nil {
		d.log.Warn().Err(err).Msg("error fetching roles")
	}
	for _, a := range assignments {
		if roles[a.UserID] == domain.RoleAdmin {
			continue
		}
		roles[a.UserID] = a.Role
	}

	users := make([]domain.UserWithRole, 0, len(profiles))
	for _, p := range profiles {
		role, ok := roles[p.UserID]
		if !ok || role == "" {
			role = domain.RoleMember
		}
		users = append(users, domain.UserWithRole{Profile: *p, Role: role})
	}

	d.mu.Lock()
	d.users = users
	d.loading = false
	d.mu.Unlock()
	return nil
}

// Create provisions a user through the create-user function. The function's
// own error message wins over a transport error.
func (d *UserDirectory) Create(ctx context.Context, input ports.CreateUserInput) error {
	if !d.identity.Authenticated() || !d.identity.IsAdmin {
		d.toaster.Error(permissionDenied)
		return domain.ErrForbidden
	}

	result, err := d.deps.Provisioner.Provision(ctx, ports.ProvisionRequest{
		Email:    input.Email,
		Password: input.Password,
		Username: input.Username,
		Role:     input.Role,
	})
	if msg, failed := provisionFailure(result, err); failed {
		d.toaster.Error(msg)
		d.log.Error().Err(err).Str("email", input.Email).Str("reason", msg).Msg("failed to create user")
		return domain.Remote("create user", errors.New(msg))
	}

	d.log.Info().Str("email", input.Email).Str("role", input.Role).Msg("user created")
	d.toaster.Success("User created successfully")
	_ = d.Load(ctx)
	return nil
}

// Stats counts, per loaded user, the assigned, completed and active tasks.
func (d *UserDirectory) Stats(tasks []domain.Task) []domain.UserStats {
	users := d.Users()
	out := make([]domain.UserStats, 0, len(users))
	for _, u := range users {
		s := domain.UserStats{UserWithRole: u}
		for _, t := range tasks {
			if t.AssignedTo != u.UserID {
				continue
			}
			s.Total++
			if t.Status == domain.StatusDone {
				s.Completed++
			} else {
				s.Active++
			}
		}
		out = append(out, s)
	}
	return out
}

func provisionFailure(result *ports.ProvisionResult, err error) (string, bool) {
	if result != nil && result.Error != "" {
		return result.Error, true
	}
	if err != nil {
		if msg := err.Error(); msg != "" {
			return msg, true
		}
		return defaultCreateUserError, true
	}
	if result == nil {
		return defaultCreateUserError, true
	}
	return "", false
}
