package user

import (
	"regexp"
	"time"

	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/validator"
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9._-]{3,50}$`)

type CreateUserRequest struct {
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	Name      *string `json:"name,omitempty"`
	Role      Role    `json:"role"`
	ExpiresAt *string `json:"expires_at,omitempty"` // RFC3339
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if !usernameRegex.MatchString(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username must be 3-50 characters of letters, numbers, dots, underscores or hyphens",
		})
	}
	if len(r.Password) < 6 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 6 characters",
		})
	}
	if r.Role == "" {
		r.Role = RoleUser
	}
	if !r.Role.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be admin or user",
		})
	}
	if r.ExpiresAt != nil && *r.ExpiresAt != "" {
		if _, ok := validator.IsValidDateTime(*r.ExpiresAt); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "expires_at",
				Message: "expires_at must be an ISO8601 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateUserRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty"`
	Role        *Role   `json:"role,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	ExpiresAt   *string `json:"expires_at,omitempty"` // RFC3339
	ClearExpiry bool    `json:"clear_expiry,omitempty"`
	Password    *string `json:"password,omitempty"`

	expiresAt *time.Time
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Role != nil && !r.Role.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be admin or user",
		})
	}
	if r.ExpiresAt != nil && *r.ExpiresAt != "" {
		t, ok := validator.IsValidDateTime(*r.ExpiresAt)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "expires_at",
				Message: "expires_at must be an ISO8601 timestamp",
			})
		}
		r.expiresAt = &t
	}
	if r.Password != nil && len(*r.Password) < 6 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 6 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParsedExpiresAt is the expiry timestamp parsed by Validate.
func (r *UpdateUserRequest) ParsedExpiresAt() *time.Time {
	return r.expiresAt
}

type UserResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Name        *string    `json:"name,omitempty"`
	Role        Role       `json:"role"`
	IsActive    bool       `json:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CanEdit     bool       `json:"can_edit"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewUserResponse(u User, now time.Time) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Name:        u.Name,
		Role:        u.Role,
		IsActive:    u.IsActive,
		ExpiresAt:   u.ExpiresAt,
		CanEdit:     u.CanEdit(now),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
