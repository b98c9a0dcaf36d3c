package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// SeedAdminUsername is the bootstrap administrator account created at first
// startup. It cannot be deleted through the user management API.
const SeedAdminUsername = "admin"

var (
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrUserNotFound              = errors.New("user not found")
	ErrUserExists                = errors.New("user already exists")
	ErrInvalidRole               = errors.New("invalid role")
	ErrSelfDeletionForbidden     = errors.New("cannot delete own account")
	ErrProtectedAccountForbidden = errors.New("cannot delete seed administrator")
)

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// User models an account stored in the user collection. PasswordHash is never
// serialised into API responses.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the authenticated-caller snapshot embedded in tokens. It is a
// value type: once minted into a token it never re-reads the user record, so
// role changes only take effect when a new token is issued.
type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// IdentityOf builds the token snapshot for a stored user.
func IdentityOf(u *User) Identity {
	return Identity{
		Username: u.Username,
		Role:     u.Role,
		Name:     u.Name,
		Email:    u.Email,
	}
}
