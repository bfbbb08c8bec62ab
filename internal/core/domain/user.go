package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// ValidRole reports whether role can be assigned to a user.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember
}

// Identity is the authenticated caller. IsAdmin is derived from the caller's
// role assignment at resolution time.
type Identity struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// Authenticated reports whether the identity refers to a signed-in user.
func (i Identity) Authenticated() bool {
	return i.ID != ""
}

// Role returns the role name matching the admin flag.
func (i Identity) Role() string {
	if i.IsAdmin {
		return RoleAdmin
	}
	return RoleMember
}

// Account holds login credentials for an identity.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Profile is the display record associated one-to-one with an identity.
type Profile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// RoleAssignment binds a role to an identity.
type RoleAssignment struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// UserWithRole is a profile enriched with its role. Profiles without an
// assignment carry RoleMember.
type UserWithRole struct {
	Profile
	Role string `json:"role"`
}

// UserStats summarizes the tasks assigned to one user.
type UserStats struct {
	UserWithRole
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Active    int `json:"active"`
}
