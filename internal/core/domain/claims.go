package domain

import "time"

// Identity is the subset of a user that is embedded in a session token.
type Identity struct {
	UserID   string
	Role     Role
	Email    string
	Fullname string
}

// IdentityOf extracts the token identity from a user record.
func IdentityOf(u *User) Identity {
	return Identity{
		UserID:   u.ID,
		Role:     u.Role,
		Email:    u.Email,
		Fullname: u.Fullname,
	}
}

// Claims is the decoded payload of a verified session token.
type Claims struct {
	Identity
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
