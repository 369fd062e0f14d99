package users

import (
	"strings"
	"time"
)

const (
	RoleVisitor = "visitor"
	RoleCharity = "charity"
	RoleAdmin   = "admin"
)

// User is the persistent account record. ID is immutable after
// creation; Email is unique store-wide; a non-empty GoogleID is held
// by at most one user.
type User struct {
	ID             int64
	Name           string
	Email          string
	PasswordHash   string // empty means no local-password login path
	Role           string
	Verified       bool
	GoogleID       string // empty means no linked Google account
	ProfilePicture string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastLogin      time.Time // zero means never logged in
}

// NormalizeEmail lowercases and trims an address. Every email
// comparison in the system goes through this first.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Serialize is the public JSON view of an account. The password hash
// and Google subject id never leave the service.
func (u *User) Serialize() map[string]any {
	var lastLogin any
	if !u.LastLogin.IsZero() {
		lastLogin = u.LastLogin
	}
	return map[string]any{
		"id":              u.ID,
		"name":            u.Name,
		"email":           u.Email,
		"role":            u.Role,
		"is_verified":     u.Verified,
		"profile_picture": u.ProfilePicture,
		"created_at":      u.CreatedAt,
		"last_login":      lastLogin,
	}
}
