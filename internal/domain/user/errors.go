package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUsernameExists          = errors.New("username already registered")
	ErrAdminPrivilegeRequired  = errors.New("admin privilege required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrAccountReadOnly         = errors.New("account has expired and is read-only")
	ErrCannotDeleteSelf        = errors.New("cannot delete your own account")
	ErrCannotDemoteSelf        = errors.New("cannot remove your own admin role or deactivate yourself")
)
