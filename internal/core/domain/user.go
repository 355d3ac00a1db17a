package domain

import (
	"strings"
	"time"
)

// Role is the privilege level of an account.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleEditor      Role = "editor"
	RoleContributor Role = "contributor"
)

// DefaultRole is assigned to every newly registered account.
const DefaultRole = RoleContributor

// Valid reports whether r is one of the fixed role values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleContributor:
		return true
	}
	return false
}

// User models a registered account.
//
// PasswordHash and the reset fields never leave the service: they are excluded
// from JSON. ResetTokenHash and ResetTokenExpiry are either both nil or both set.
type User struct {
	ID               string     `json:"id"`
	Fullname         string     `json:"fullname"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Role             Role       `json:"role"`
	IsActive         bool       `json:"is_active"`
	ResetTokenHash   *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// HasPendingReset reports whether a reset token is stored and still live at now.
func (u *User) HasPendingReset(now time.Time) bool {
	return u.ResetTokenHash != nil && u.ResetTokenExpiry != nil && u.ResetTokenExpiry.After(now)
}

// NormalizeEmail lowercases and trims an email address. Every lookup and
// write goes through it so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
