package model

import "time"

// Roles recognized by the application. Role is an open string on the wire but
// only RoleAdmin unlocks the admin surface.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account record. PasswordHash is a SHA-256 hex digest; legacy
// records may still carry a plain-text password until their next update.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user may use the admin surface.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
