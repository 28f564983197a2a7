// Package memory holds an in-process attendance store used for local runs and
// tests. It honours the same company scoping as the PostgreSQL repository.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/google/uuid"
)

type AttendanceRepository struct {
	mu      sync.RWMutex
	records map[string]attendance.Attendance
	now     func() time.Time
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{
		records: make(map[string]attendance.Attendance),
		now:     time.Now,
	}
}

var _ attendance.AttendanceRepository = (*AttendanceRepository)(nil)

// Create stores a record, assigning an ID and timestamps when missing.
func (r *AttendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Attendance{}, err
	}

	if att.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.Attendance{}, err
		}
		att.ID = id.String()
	}
	if att.Status == "" {
		att.Status = attendance.StatusPresent
	}
	now := r.now().UTC()
	if att.CreatedAt.IsZero() {
		att.CreatedAt = now
	}
	att.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[att.ID] = att
	return att, nil
}

func (r *AttendanceRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Attendance{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	att, ok := r.records[id]
	if !ok || att.CompanyID != companyID {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return att, nil
}

func (r *AttendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter, companyID string) ([]attendance.Attendance, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.mu.RLock()
	matched := make([]attendance.Attendance, 0, len(r.records))
	for _, att := range r.records {
		if att.CompanyID == companyID && matches(att, filter) {
			matched = append(matched, att)
		}
	}
	r.mu.RUnlock()

	sortAttendances(matched, filter.SortBy, strings.ToLower(filter.SortOrder) == "asc")

	total := int64(len(matched))
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return []attendance.Attendance{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *AttendanceRepository) UpdateTimes(ctx context.Context, update attendance.TimesUpdate) (attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Attendance{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	att, ok := r.records[update.ID]
	if !ok || att.CompanyID != update.CompanyID {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}

	clockIn := update.ClockIn
	correctedBy := update.CorrectedBy
	correctedAt := update.CorrectedAt

	att.Date = update.Date
	att.Timezone = update.Timezone
	att.ClockIn = &clockIn
	att.ClockOut = update.ClockOut
	att.WorkHoursInMinutes = update.WorkHoursInMinutes
	att.Status = update.Status
	att.CorrectedBy = &correctedBy
	att.CorrectedAt = &correctedAt
	att.UpdatedAt = r.now().UTC()

	r.records[att.ID] = att
	return att, nil
}

func (r *AttendanceRepository) UpdateStatus(ctx context.Context, id string, companyID string, status attendance.Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	att, ok := r.records[id]
	if !ok || att.CompanyID != companyID {
		return attendance.ErrAttendanceNotFound
	}
	att.Status = status
	att.UpdatedAt = r.now().UTC()
	r.records[id] = att
	return nil
}

func (r *AttendanceRepository) Delete(ctx context.Context, id string, companyID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	att, ok := r.records[id]
	if !ok || att.CompanyID != companyID {
		return attendance.ErrAttendanceNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *AttendanceRepository) ListOpenSessionsStartedBefore(ctx context.Context, cutoff time.Time) ([]attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var sessions []attendance.Attendance
	for _, att := range r.records {
		if att.ClockIn == nil || att.ClockOut != nil || att.Status == attendance.StatusNeedsCorrection {
			continue
		}
		if att.ClockIn.Before(cutoff) {
			sessions = append(sessions, att)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ClockIn.Before(*sessions[j].ClockIn)
	})
	return sessions, nil
}

func matches(att attendance.Attendance, f attendance.AttendanceFilter) bool {
	date := att.Date.Format("2006-01-02")

	if f.EmployeeID != nil && *f.EmployeeID != "" && att.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.EmployeeName != nil && *f.EmployeeName != "" {
		if att.EmployeeName == nil || !strings.Contains(strings.ToLower(*att.EmployeeName), strings.ToLower(*f.EmployeeName)) {
			return false
		}
	}
	if f.Date != nil && *f.Date != "" && date != *f.Date {
		return false
	}
	// YYYY-MM-DD compares lexically in date order
	if f.StartDate != nil && *f.StartDate != "" && date < *f.StartDate {
		return false
	}
	if f.EndDate != nil && *f.EndDate != "" && date > *f.EndDate {
		return false
	}
	if f.Status != nil && *f.Status != "" && string(att.Status) != *f.Status {
		return false
	}
	return true
}

func sortAttendances(records []attendance.Attendance, sortBy string, asc bool) {
	compare := func(a, b attendance.Attendance) int {
		switch sortBy {
		case "employee_name":
			return strings.Compare(deref(a.EmployeeName), deref(b.EmployeeName))
		case "clock_in_time":
			return compareTimes(a.ClockIn, b.ClockIn)
		case "clock_out_time":
			return compareTimes(a.ClockOut, b.ClockOut)
		case "status":
			return strings.Compare(string(a.Status), string(b.Status))
		default:
			return a.Date.Compare(b.Date)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		c := compare(records[i], records[j])
		if c == 0 {
			return records[i].ID < records[j].ID
		}
		if asc {
			return c < 0
		}
		return c > 0
	})
}

func compareTimes(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
