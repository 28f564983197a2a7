package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent         Status = "present"
	StatusLate            Status = "late"
	StatusAbsent          Status = "absent"
	StatusWaitingApproval Status = "waiting_approval"
	StatusNeedsCorrection Status = "needs_correction"
)

var validStatuses = []string{
	string(StatusPresent),
	string(StatusLate),
	string(StatusAbsent),
	string(StatusWaitingApproval),
	string(StatusNeedsCorrection),
}

type Attendance struct {
	ID         string
	EmployeeID string
	CompanyID  string

	// Date is the working day the record belongs to, not a timestamp.
	Date time.Time

	// Timezone is the zone the record was captured in. Nil means the
	// configured default zone applies.
	Timezone *string

	// Absolute instants, always UTC.
	ClockIn  *time.Time
	ClockOut *time.Time

	WorkHoursInMinutes *int
	Status             Status
	CorrectedBy        *string
	CorrectedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// DTO
	EmployeeName *string
}

// TimesUpdate carries a reconciled pair back to storage. A nil ClockOut
// clears the stored sign-out.
type TimesUpdate struct {
	ID                 string
	CompanyID          string
	Date               time.Time
	Timezone           *string
	ClockIn            time.Time
	ClockOut           *time.Time
	WorkHoursInMinutes *int
	Status             Status
	CorrectedBy        string
	CorrectedAt        time.Time
}
