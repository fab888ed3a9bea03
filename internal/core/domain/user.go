package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotAdmin           = errors.New("admin access required")
)

// User models a registered actor. Role is fixed at registration time:
// self-registration always produces a client, admins are seeded at startup.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the user row carries the admin role. The admin
// guard additionally requires an admin-flagged session; the role column alone
// never unlocks admin routes.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
