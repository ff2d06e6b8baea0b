package user

import "time"

type Role string

const (
	RoleAdmin Role = "admin" // Venue owner - sees profit, manages accounts
	RoleUser  Role = "user"  // Staff account
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID           string
	Username     string
	PasswordHash string
	Name         *string
	Role         Role
	IsActive     bool
	ExpiresAt    *time.Time
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsExpired reports whether a non-admin account is past its expiry at now.
// Admin accounts never expire.
func (u *User) IsExpired(now time.Time) bool {
	if u.IsAdmin() || u.ExpiresAt == nil {
		return false
	}
	return now.After(*u.ExpiresAt)
}

// CanEdit reports whether the account may write data at now.
func (u *User) CanEdit(now time.Time) bool {
	return u.IsActive && !u.IsExpired(now)
}
