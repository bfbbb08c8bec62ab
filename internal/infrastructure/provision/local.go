package provision

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskflow/taskflow-api/internal/core/domain"
	"github.com/taskflow/taskflow-api/internal/core/ports"
)

const (
	minPasswordLength = 6

	msgEmailTaken    = "A user with this email address has already been registered"
	msgMissingFields = "Email and password are required"
	msgWeakPassword  = "Password should be at least 6 characters"
	msgInvalidRole   = "Invalid role"
)

// Local provisions users directly against the configured store. The three
// writes are not atomic: a failure after the account insert leaves the
// account without a profile or role.
type Local struct {
	accounts ports.AccountRepository
	profiles ports.ProfileRepository
	roles    ports.RoleRepository
	log      zerolog.Logger
}

func NewLocal(accounts ports.AccountRepository, profiles ports.ProfileRepository, roles ports.RoleRepository, log zerolog.Logger) *Local {
	return &Local{accounts: accounts, profiles: profiles, roles: roles, log: log}
}

// Provision reports validation failures and duplicate emails in the result's
// Error field; storage failures come back as err.
func (l *Local) Provision(ctx context.Context, req ports.ProvisionRequest) (*ports.ProvisionResult, error) {
	email := domain.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return &ports.ProvisionResult{Error: msgMissingFields}, nil
	}
	if len(req.Password) < minPasswordLength {
		return &ports.ProvisionResult{Error: msgWeakPassword}, nil
	}
	role := req.Role
	if role == "" {
		role = domain.RoleMember
	}
	if !domain.ValidRole(role) {
		return &ports.ProvisionResult{Error: msgInvalidRole}, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	userID := domain.NewID()
	created := domain.Now()

	err = l.accounts.Create(ctx, &domain.Account{ID: userID, Email: email, PasswordHash: string(hash), CreatedAt: created})
	if errors.Is(err, domain.ErrUserExists) {
		return &ports.ProvisionResult{Error: msgEmailTaken}, nil
	}
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	profile := &domain.Profile{ID: domain.NewID(), UserID: userID, Username: username, CreatedAt: created}
	if err := l.profiles.Insert(ctx, profile); err != nil {
		l.log.Error().Err(err).Str("user_id", userID).Msg("account created without profile")
		return nil, err
	}

	assignment := &domain.RoleAssignment{ID: domain.NewID(), UserID: userID, Role: role}
	if err := l.roles.Assign(ctx, assignment); err != nil {
		l.log.Error().Err(err).Str("user_id", userID).Msg("account created without role")
		return nil, err
	}

	l.log.Info().Str("user_id", userID).Str("role", role).Msg("user provisioned")
	return &ports.ProvisionResult{UserID: userID}, nil
}
