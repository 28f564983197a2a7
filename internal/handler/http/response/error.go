package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/reconciler"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
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
	// Reconciler errors are user input problems, reported against the field
	case errors.Is(err, reconciler.ErrMissingSignIn):
		ValidationError(w, map[string]string{"clock_in_time": "Sign-in time is required"})
	case errors.Is(err, reconciler.ErrSignOutBeforeSignIn):
		ValidationError(w, map[string]string{"clock_out_time": "Sign-out time must be after sign-in time"})
	case errors.Is(err, reconciler.ErrShiftTooLong):
		ValidationError(w, map[string]string{"clock_out_time": "Shift must not exceed 24 hours"})
	case errors.Is(err, reconciler.ErrInvalidTimezone):
		ValidationError(w, map[string]string{"timezone": "timezone must be a valid IANA timezone, e.g. Asia/Jakarta"})
	case errors.Is(err, reconciler.ErrInvalidCivilTime):
		ValidationError(w, map[string]string{"time": "clock times must be in HH:MM format"})
	case errors.Is(err, reconciler.ErrInvalidCivilDate):
		ValidationError(w, map[string]string{"date": "date must be a valid calendar day in YYYY-MM-DD format"})

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrCompanyIDRequired), errors.Is(err, attendance.ErrUserIDRequired):
		Unauthorized(w, err.Error())

	// Auth and user errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, user.ErrCompanyIDRequired):
		Forbidden(w, "Company membership required")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
