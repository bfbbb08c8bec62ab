package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskflow/taskflow-api/internal/core/domain"
)

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var a domain.Account
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at FROM accounts WHERE email = $1`, email).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &a, nil
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		a.ID, a.Email, a.PasswordHash, a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) List(ctx context.Context) ([]*domain.Profile, error) {
	return r.query(ctx, `
		SELECT id, user_id, username, created_at FROM profiles ORDER BY created_at DESC, id DESC`)
}

func (r *ProfileRepository) FindByUserIDs(ctx context.Context, userIDs []string) ([]*domain.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	return r.query(ctx, `
		SELECT id, user_id, username, created_at FROM profiles WHERE user_id = ANY($1) ORDER BY created_at DESC`, userIDs)
}

func (r *ProfileRepository) Insert(ctx context.Context, p *domain.Profile) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (id, user_id, username, created_at) VALUES ($1, $2, $3, $4)`,
		p.ID, p.UserID, p.Username, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) query(ctx context.Context, sql string, args ...any) ([]*domain.Profile, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []*domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.ID, &p.UserID, &p.Username, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

func (r *RoleRepository) List(ctx context.Context) ([]*domain.RoleAssignment, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, user_id, role FROM user_roles`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var out []*domain.RoleAssignment
	for rows.Next() {
		var a domain.RoleAssignment
		if err := rows.Scan(&a.ID, &a.UserID, &a.Role); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *RoleRepository) UserIDsWithRole(ctx context.Context, role string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT user_id FROM user_roles WHERE role = $1`, role)
	if err != nil {
		return nil, fmt.Errorf("list role members: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan role member: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *RoleRepository) RoleOf(ctx context.Context, userID string) (string, error) {
	var isAdmin bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`,
		userID, domain.RoleAdmin).Scan(&isAdmin)
	if err != nil {
		return "", fmt.Errorf("role of %s: %w", userID, err)
	}
	if isAdmin {
		return domain.RoleAdmin, nil
	}
	return domain.RoleMember, nil
}

func (r *RoleRepository) Assign(ctx context.Context, a *domain.RoleAssignment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_roles (id, user_id, role) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, role) DO NOTHING`,
		a.ID, a.UserID, a.Role)
	if err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}
