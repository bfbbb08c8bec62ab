package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/taskflow/taskflow-api/internal/core/domain"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var (
		a       domain.Account
		created string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at FROM accounts WHERE email = ?`, email).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	if a.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("parse account created_at: %w", err)
	}
	return &a, nil
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		a.ID, a.Email, a.PasswordHash, formatTime(a.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) List(ctx context.Context) ([]*domain.Profile, error) {
	return r.query(ctx, `
		SELECT id, user_id, username, created_at FROM profiles ORDER BY created_at DESC, id DESC`)
}

func (r *ProfileRepository) FindByUserIDs(ctx context.Context, userIDs []string) ([]*domain.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(userIDs)), ",")
	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}
	return r.query(ctx, `
		SELECT id, user_id, username, created_at FROM profiles
		WHERE user_id IN (`+placeholders+`) ORDER BY created_at DESC`, args...)
}

func (r *ProfileRepository) Insert(ctx context.Context, p *domain.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, user_id, username, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.UserID, p.Username, formatTime(p.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Profile, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []*domain.Profile
	for rows.Next() {
		var (
			p       domain.Profile
			created string
		)
		if err := rows.Scan(&p.ID, &p.UserID, &p.Username, &created); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		if p.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("parse profile created_at: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

type RoleRepository struct {
	db *sql.DB
}

func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) List(ctx context.Context) ([]*domain.RoleAssignment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, user_id, role FROM user_roles`)
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
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM user_roles WHERE role = ?`, role)
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
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM user_roles WHERE user_id = ? AND role = ?`, userID, domain.RoleAdmin).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("role of %s: %w", userID, err)
	}
	if n > 0 {
		return domain.RoleAdmin, nil
	}
	return domain.RoleMember, nil
}

func (r *RoleRepository) Assign(ctx context.Context, a *domain.RoleAssignment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_roles (id, user_id, role) VALUES (?, ?, ?)
		ON CONFLICT (user_id, role) DO NOTHING`, a.ID, a.UserID, a.Role)
	if err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}
