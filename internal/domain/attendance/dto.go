package attendance

import (
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// ========================================
// CORRECTION DTOs
// ========================================

// CorrectAttendanceTimeRequest for admin/manager to fix the sign-in/sign-out of
// an existing record, e.g. when an employee forgot to clock out.
type CorrectAttendanceTimeRequest struct {
	ID           string  `json:"-"`
	Date         *string `json:"date,omitempty"`           // YYYY-MM-DD, defaults to the record's date
	ClockInTime  *string `json:"clock_in_time,omitempty"`  // HH:MM
	ClockOutTime *string `json:"clock_out_time,omitempty"` // HH:MM, omit for an open shift
	Timezone     *string `json:"timezone,omitempty"`       // IANA zone, defaults to the record's zone
}

func (r *CorrectAttendanceTimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	errs = append(errs, validateTimes(r.Date, r.ClockInTime, r.ClockOutTime, r.Timezone)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ReconcilePreviewRequest resolves a pair without a stored record.
type ReconcilePreviewRequest struct {
	Date         string  `json:"date"`
	ClockInTime  *string `json:"clock_in_time,omitempty"`
	ClockOutTime *string `json:"clock_out_time,omitempty"`
	Timezone     *string `json:"timezone,omitempty"`
}

func (r *ReconcilePreviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	}

	errs = append(errs, validateTimes(&r.Date, r.ClockInTime, r.ClockOutTime, r.Timezone)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// validateTimes checks formats only. A missing clock-in is left to the
// reconciler, which owns that rule.
func validateTimes(date, clockIn, clockOut, timezone *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if date != nil && *date != "" {
		if _, valid := validator.IsValidDate(*date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if clockIn != nil && *clockIn != "" && !validator.IsValidClockTime(*clockIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in_time",
			Message: "clock_in_time must be in HH:MM format",
		})
	}

	if clockOut != nil && *clockOut != "" && !validator.IsValidClockTime(*clockOut) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out_time",
			Message: "clock_out_time must be in HH:MM format",
		})
	}

	if timezone != nil && *timezone != "" && !validator.IsValidTimezone(*timezone) {
		errs = append(errs, validator.ValidationError{
			Field:   "timezone",
			Message: "timezone must be a valid IANA timezone, e.g. Asia/Jakarta",
		})
	}

	return errs
}

type ReconcileResponse struct {
	Date               string  `json:"date"`
	Timezone           string  `json:"timezone"`
	ClockIn            string  `json:"clock_in"`
	ClockOut           *string `json:"clock_out,omitempty"`
	ClockInLocal       string  `json:"clock_in_local"`
	ClockOutLocal      *string `json:"clock_out_local,omitempty"`
	WorkHoursInMinutes *int    `json:"work_hours_in_minutes,omitempty"`
	IsNextDayCheckout  bool    `json:"is_next_day_checkout"`
}

// ========================================
// ATTENDANCE DTOs
// ========================================

type AttendanceResponse struct {
	ID                 string   `json:"id"`
	EmployeeID         string   `json:"employee_id"`
	EmployeeName       string   `json:"employee_name"`
	Date               string   `json:"date"`
	Timezone           string   `json:"timezone"`
	ClockInTime        *string  `json:"clock_in_time,omitempty"`
	ClockOutTime       *string  `json:"clock_out_time,omitempty"`
	ClockInLocal       *string  `json:"clock_in_local,omitempty"`
	ClockOutLocal      *string  `json:"clock_out_local,omitempty"`
	WorkingHours       *float64 `json:"working_hours,omitempty"`
	WorkHoursInMinutes *int     `json:"work_hours_in_minutes,omitempty"`
	Status             string   `json:"status"`
	CorrectedBy        *string  `json:"corrected_by,omitempty"`
	CorrectedAt        *string  `json:"corrected_at,omitempty"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

type AttendanceFilter struct {
	// Search & Filter
	EmployeeID   *string `json:"employee_id,omitempty"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Date         *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status       *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, employee_name, clock_in_time, clock_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil {
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: " + strings.Join(validStatuses, ", "),
			})
		}
	}

	for field, value := range map[string]*string{"date": f.Date, "start_date": f.StartDate, "end_date": f.EndDate} {
		if value != nil && *value != "" {
			if _, valid := validator.IsValidDate(*value); !valid {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: field + " must be in YYYY-MM-DD format",
				})
			}
		}
	}

	// Sort validation
	if f.SortBy != "" {
		validSortFields := []string{"date", "employee_name", "clock_in_time", "clock_out_time", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, employee_name, clock_in_time, clock_out_time, status",
			})
		}
	} else {
		f.SortBy = "date" // Default sort
	}

	if f.SortOrder != "" {
		validSortOrders := []string{"asc", "desc"}
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), validSortOrders) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc" // Default descending (newest first)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}
