package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/attendance"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/auth"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/employee"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/report"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/ruleset"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/salary"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/user"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/jwt"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Checked first: a dangling template is also a not-found error.
	case errors.Is(err, salary.ErrInconsistentState):
		InconsistentState(w, err.Error())
	case errors.Is(err, salary.ErrInvalidInput):
		BadRequest(w, err.Error(), nil)

	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenRevoked),
		errors.Is(err, jwt.ErrMissingClaims):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrAccountExpired):
		Forbidden(w, err.Error())

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUsernameExists):
		Conflict(w, "Username already registered")
	case errors.Is(err, user.ErrAdminPrivilegeRequired),
		errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, user.ErrAccountReadOnly):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrCannotDeleteSelf),
		errors.Is(err, user.ErrCannotDemoteSelf):
		BadRequest(w, err.Error(), nil)

	// Rule set domain errors
	case errors.Is(err, ruleset.ErrTemplateNotFound):
		NotFound(w, "Template not found")
	case errors.Is(err, ruleset.ErrTemplateInUse):
		Conflict(w, "Template is still assigned to employees")
	case errors.Is(err, ruleset.ErrTemplateNameExists):
		Conflict(w, "Template name already exists")
	case errors.Is(err, ruleset.ErrTemplateForbidden):
		Forbidden(w, err.Error())
	case errors.Is(err, ruleset.ErrUnknownSettingKey):
		BadRequest(w, err.Error(), nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeNameExists):
		Conflict(w, "Employee name already exists")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrInvalidDateRange),
		errors.Is(err, report.ErrInvalidDateRange),
		errors.Is(err, report.ErrRangeTooLarge),
		errors.Is(err, report.ErrInvalidGroupBy):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
