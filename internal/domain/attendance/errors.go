package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrUnauthorized       = errors.New("unauthorized to access this attendance record")
	ErrCompanyIDRequired  = errors.New("company_id claim is missing or invalid")
	ErrUserIDRequired     = errors.New("user_id claim is missing or invalid")
)
