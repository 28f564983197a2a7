package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// GetAttendance retrieves a single attendance record by ID
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// ListAttendance retrieves attendance records with filters (admin/manager)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// CorrectAttendanceTime replaces the sign-in/sign-out of a record with
	// wall-clock times resolved in the record's timezone
	CorrectAttendanceTime(ctx context.Context, req CorrectAttendanceTimeRequest) (AttendanceResponse, error)

	// PreviewReconcile resolves a pair without touching any record
	PreviewReconcile(ctx context.Context, req ReconcilePreviewRequest) (ReconcileResponse, error)

	DeleteAttendance(ctx context.Context, id string) error
}
