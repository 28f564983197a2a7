package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/reconciler"
	"github.com/go-chi/jwtauth/v5"
)

const (
	instantLayout = time.RFC3339
	localLayout   = "2006-01-02 15:04"
	dateLayout    = "2006-01-02"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	reconciler *reconciler.Reconciler
	now        func() time.Time
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time, layout string, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	format := t.In(loc).Format(layout)
	return &format
}

// claimsFromContext returns the company and user the request acts for.
func claimsFromContext(ctx context.Context) (companyID string, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", attendance.ErrCompanyIDRequired
	}

	userID, ok = claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", attendance.ErrUserIDRequired
	}

	return companyID, userID, nil
}

// parseClockTime treats a missing or blank value as "not provided".
func parseClockTime(s *string) (*reconciler.CivilTime, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := reconciler.ParseCivilTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetAttendance implements attendance.AttendanceService.
// Employees without view_all may only read their own records.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	companyID, _, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	att, err := a.AttendanceRepository.GetByID(ctx, id, companyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	_, claims, _ := jwtauth.FromContext(ctx)
	role, _ := claims["role"].(string)
	if !user.Role(role).CanViewAllAttendance() {
		employeeID, _ := claims["employee_id"].(string)
		if employeeID == "" || employeeID != att.EmployeeID {
			return attendance.AttendanceResponse{}, attendance.ErrUnauthorized
		}
	}

	return a.mapAttendanceToResponse(att), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	companyID, _, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	attendances, total, err := a.AttendanceRepository.List(ctx, filter, companyID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, a.mapAttendanceToResponse(att))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min((filter.Page)*filter.Limit, int(total)), total)
	if total == 0 || len(responses) == 0 {
		showing = fmt.Sprintf("0 of %d", total)
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}

// CorrectAttendanceTime implements attendance.AttendanceService.
// Managers use this to fix a forgotten or mistyped clock-in/clock-out. The
// times are wall-clock values in the record's zone and are resolved to UTC
// before anything is written; a rejected pair leaves the record untouched.
func (a *AttendanceServiceImpl) CorrectAttendanceTime(ctx context.Context, req attendance.CorrectAttendanceTimeRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	companyID, userID, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	existing, err := a.AttendanceRepository.GetByID(ctx, req.ID, companyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	// Zone: request override, then the record's zone, then the default
	timezone := existing.Timezone
	if req.Timezone != nil && strings.TrimSpace(*req.Timezone) != "" {
		tz := strings.TrimSpace(*req.Timezone)
		timezone = &tz
	}
	zone := ""
	if timezone != nil {
		zone = *timezone
	}

	// DATE columns come back as UTC midnight
	date := reconciler.CivilDateOf(existing.Date, time.UTC)
	if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
		date, err = reconciler.ParseCivilDate(*req.Date)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
	}

	signIn, err := parseClockTime(req.ClockInTime)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	signOut, err := parseClockTime(req.ClockOutTime)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	pair, err := a.reconciler.ReconcileAttendancePair(signIn, signOut, date, zone)
	if err != nil {
		slog.Warn("Rejected attendance correction",
			"attendance_id", existing.ID,
			"company_id", companyID,
			"corrected_by", userID,
			"date", date.String(),
			"timezone", zone,
			"error", err,
		)
		return attendance.AttendanceResponse{}, err
	}

	var workMinutes *int
	if d, ok := pair.Duration(); ok {
		minutes := int(d / time.Minute)
		workMinutes = &minutes
	}

	updated, err := a.AttendanceRepository.UpdateTimes(ctx, attendance.TimesUpdate{
		ID:                 existing.ID,
		CompanyID:          companyID,
		Date:               time.Date(date.Year, date.Month, date.Day, 0, 0, 0, 0, time.UTC),
		Timezone:           timezone,
		ClockIn:            pair.SignIn,
		ClockOut:           pair.SignOut,
		WorkHoursInMinutes: workMinutes,
		Status:             attendance.StatusWaitingApproval,
		CorrectedBy:        userID,
		CorrectedAt:        a.now().UTC(),
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Corrected attendance times",
		"attendance_id", updated.ID,
		"company_id", companyID,
		"corrected_by", userID,
		"clock_in", pair.SignIn.Format(instantLayout),
		"open_shift", pair.IsOpen(),
	)

	return a.mapAttendanceToResponse(updated), nil
}

// PreviewReconcile implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) PreviewReconcile(ctx context.Context, req attendance.ReconcilePreviewRequest) (attendance.ReconcileResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ReconcileResponse{}, err
	}

	date, err := reconciler.ParseCivilDate(req.Date)
	if err != nil {
		return attendance.ReconcileResponse{}, err
	}
	signIn, err := parseClockTime(req.ClockInTime)
	if err != nil {
		return attendance.ReconcileResponse{}, err
	}
	signOut, err := parseClockTime(req.ClockOutTime)
	if err != nil {
		return attendance.ReconcileResponse{}, err
	}

	zone := ""
	if req.Timezone != nil {
		zone = strings.TrimSpace(*req.Timezone)
	}

	pair, err := a.reconciler.ReconcileAttendancePair(signIn, signOut, date, zone)
	if err != nil {
		return attendance.ReconcileResponse{}, err
	}

	loc, err := a.reconciler.Location(zone)
	if err != nil {
		return attendance.ReconcileResponse{}, err
	}

	resp := attendance.ReconcileResponse{
		Date:         date.String(),
		Timezone:     loc.String(),
		ClockIn:      pair.SignIn.Format(instantLayout),
		ClockInLocal: pair.SignIn.In(loc).Format(localLayout),
	}
	if pair.SignOut != nil {
		resp.ClockOut = timePtrToString(pair.SignOut, instantLayout, time.UTC)
		resp.ClockOutLocal = timePtrToString(pair.SignOut, localLayout, loc)
		resp.IsNextDayCheckout = reconciler.CivilDateOf(*pair.SignOut, loc) != date
	}
	if d, ok := pair.Duration(); ok {
		minutes := int(d / time.Minute)
		resp.WorkHoursInMinutes = &minutes
	}

	return resp, nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	companyID, userID, err := claimsFromContext(ctx)
	if err != nil {
		return err
	}

	if err := a.AttendanceRepository.Delete(ctx, id, companyID); err != nil {
		return err
	}

	slog.Info("Deleted attendance", "attendance_id", id, "company_id", companyID, "deleted_by", userID)
	return nil
}

// recordLocation is the zone a stored record is displayed in. A zone that no
// longer loads falls back to the default rather than failing the read.
func (a *AttendanceServiceImpl) recordLocation(att attendance.Attendance) *time.Location {
	if att.Timezone == nil {
		return a.reconciler.DefaultZone()
	}
	loc, err := a.reconciler.Location(*att.Timezone)
	if err != nil {
		slog.Warn("Stored timezone does not load, using default", "attendance_id", att.ID, "timezone", *att.Timezone, "error", err)
		return a.reconciler.DefaultZone()
	}
	return loc
}

// mapAttendanceToResponse converts an Attendance entity to AttendanceResponse
func (a *AttendanceServiceImpl) mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	var employeeName string
	if att.EmployeeName != nil {
		employeeName = *att.EmployeeName
	}

	var workingHours *float64
	if att.WorkHoursInMinutes != nil {
		hours := float64(*att.WorkHoursInMinutes) / 60.0
		workingHours = &hours
	}

	loc := a.recordLocation(att)

	return attendance.AttendanceResponse{
		ID:                 att.ID,
		EmployeeID:         att.EmployeeID,
		EmployeeName:       employeeName,
		Date:               att.Date.UTC().Format(dateLayout),
		Timezone:           loc.String(),
		ClockInTime:        timePtrToString(att.ClockIn, instantLayout, time.UTC),
		ClockOutTime:       timePtrToString(att.ClockOut, instantLayout, time.UTC),
		ClockInLocal:       timePtrToString(att.ClockIn, localLayout, loc),
		ClockOutLocal:      timePtrToString(att.ClockOut, localLayout, loc),
		WorkingHours:       workingHours,
		WorkHoursInMinutes: att.WorkHoursInMinutes,
		Status:             string(att.Status),
		CorrectedBy:        att.CorrectedBy,
		CorrectedAt:        timePtrToString(att.CorrectedAt, instantLayout, time.UTC),
		CreatedAt:          att.CreatedAt.UTC().Format(instantLayout),
		UpdatedAt:          att.UpdatedAt.UTC().Format(instantLayout),
	}
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	rec *reconciler.Reconciler,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		reconciler:           rec,
		now:                  time.Now,
	}
}
