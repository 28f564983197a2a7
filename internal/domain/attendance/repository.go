package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// All methods include companyID parameter to prevent cross-company data access attacks.
type AttendanceRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Attendance, error)

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter, companyID string) ([]Attendance, int64, error)

	// UpdateTimes writes a reconciled sign-in/sign-out pair, including a NULL sign-out
	UpdateTimes(ctx context.Context, update TimesUpdate) (Attendance, error)

	UpdateStatus(ctx context.Context, id string, companyID string, status Status) error

	Delete(ctx context.Context, id string, companyID string) error

	// ListOpenSessionsStartedBefore returns records across companies that have a
	// sign-in before cutoff and no sign-out
	ListOpenSessionsStartedBefore(ctx context.Context, cutoff time.Time) ([]Attendance, error)
}
