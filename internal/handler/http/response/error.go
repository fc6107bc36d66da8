package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punctuality"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
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
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRefreshTokenRevoked),
		errors.Is(err, auth.ErrUnauthenticated):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrForbidden):
		Forbidden(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrReasonRequired):
		ReasonRequired(w, err.Error())
	case errors.Is(err, attendance.ErrInvalidAction):
		BadRequest(w, err.Error(), map[string]string{"action": "action must be one of: entry, exit, lunch_start, lunch_end"})
	case errors.Is(err, attendance.ErrDuplicateActionForDay),
		errors.Is(err, attendance.ErrDuplicateEvent):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrForbiddenEmployee):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrUnknownEmployee),
		errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, employee.ErrEmployeeExists),
		errors.Is(err, employee.ErrAlreadyInitialized):
		Conflict(w, err.Error())
	case errors.Is(err, employee.ErrCannotDeleteSelf),
		errors.Is(err, employee.ErrCannotDemoteSelf):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, employee.ErrRegistrationDisabled):
		Forbidden(w, err.Error())

	// Schedule and punctuality
	case errors.Is(err, schedule.ErrScheduleNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, punctuality.ErrNoSchedule):
		Conflict(w, err.Error())

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
