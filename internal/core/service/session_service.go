package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskflow/taskflow-api/internal/core/domain"
	"github.com/taskflow/taskflow-api/internal/core/ports"
)

// SessionDeps groups the collaborators of SessionService.
type SessionDeps struct {
	Accounts    ports.AccountRepository
	Roles       ports.RoleRepository
	Provisioner ports.UserProvisioner
	Revoker     ports.TokenRevoker
	Log         zerolog.Logger
}

// SessionService implements sign-in, token resolution and sign-out.
type SessionService struct {
	deps      SessionDeps
	setupMu   sync.Mutex
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewSessionService(deps SessionDeps, jwtSecret string, tokenTTL time.Duration) *SessionService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if deps.Revoker == nil {
		deps.Revoker = NewMemoryRevoker()
	}
	return &SessionService{deps: deps, jwtSecret: jwtSecret, tokenTTL: tokenTTL, now: time.Now}
}

// SignIn checks the password and returns a signed token for the identity.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (string, *domain.Identity, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.deps.Accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, domain.Remote("sign in", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	identity, err := s.identityFor(ctx, account.ID, account.Email)
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(identity)
	if err != nil {
		return "", nil, err
	}

	s.deps.Log.Info().Str("user_id", identity.ID).Bool("admin", identity.IsAdmin).Msg("signed in")
	return token, identity, nil
}

// Resolve verifies a bearer token and returns the identity it names. The
// admin flag is read from the current role assignment, not from the token.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	if claims.ID != "" {
		revoked, err := s.deps.Revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.deps.Log.Warn().Err(err).Str("user_id", claims.Subject).Msg("revocation check failed, accepting token")
		} else if revoked {
			return nil, domain.ErrUnauthenticated
		}
	}

	return s.identityFor(ctx, claims.Subject, claims.Email)
}

// SignOut revokes the token until it would have expired anyway.
func (s *SessionService) SignOut(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return domain.ErrUnauthenticated
	}
	if claims.ID == "" {
		return nil
	}

	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}

	if err := s.deps.Revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return domain.Remote("sign out", err)
	}
	s.deps.Log.Info().Str("user_id", claims.Subject).Msg("signed out")
	return nil
}

// HasAdmin reports whether any admin role assignment exists.
func (s *SessionService) HasAdmin(ctx context.Context) (bool, error) {
	ids, err := s.deps.Roles.UserIDsWithRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, domain.Remote("check admin", err)
	}
	return len(ids) > 0, nil
}

// SetupAdmin provisions the first admin. It refuses once any admin exists.
// Calls are serialized within the process; separate processes sharing one
// store can still race.
func (s *SessionService) SetupAdmin(ctx context.Context, input ports.CreateUserInput) error {
	s.setupMu.Lock()
	defer s.setupMu.Unlock()

	exists, err := s.HasAdmin(ctx)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrAdminExists
	}

	result, err := s.deps.Provisioner.Provision(ctx, ports.ProvisionRequest{
		Email:    input.Email,
		Password: input.Password,
		Username: input.Username,
		Role:     domain.RoleAdmin,
	})
	if msg, failed := provisionFailure(result, err); failed {
		return domain.Remote("setup admin", errors.New(msg))
	}

	s.deps.Log.Info().Str("email", input.Email).Msg("admin account created")
	return nil
}

func (s *SessionService) identityFor(ctx context.Context, userID, email string) (*domain.Identity, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	role, err := s.deps.Roles.RoleOf(ctx, userID)
	if err != nil {
		return nil, domain.Remote("resolve role", err)
	}
	return &domain.Identity{ID: userID, Email: email, IsAdmin: role == domain.RoleAdmin}, nil
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *SessionService) generateToken(identity *domain.Identity) (string, error) {
	issued := s.now()
	claims := sessionClaims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			ID:        domain.NewID(),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.tokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *SessionService) parse(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}
