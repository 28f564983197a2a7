package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/reconciler"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID  = "0190a8c2-0000-7000-8000-00000000000a"
	otherCompanyID = "0190a8c2-0000-7000-8000-00000000000b"
	testManagerID  = "0190a8c2-2222-7000-8000-000000000001"
)

var fixedNow = time.Date(2026, 7, 16, 3, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

type fixture struct {
	svc  *AttendanceServiceImpl
	repo *memory.AttendanceRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	rec, err := reconciler.New("Asia/Jakarta")
	require.NoError(t, err)

	repo := memory.NewAttendanceRepository()
	svc := NewAttendanceService(repo, rec).(*AttendanceServiceImpl)
	svc.now = func() time.Time { return fixedNow }

	return fixture{svc: svc, repo: repo}
}

func (f fixture) seed(t *testing.T, companyID string, timezone *string, clockIn, clockOut *time.Time) attendance.Attendance {
	t.Helper()
	att, err := f.repo.Create(context.Background(), attendance.Attendance{
		EmployeeID:   "0190a8c2-1111-7000-8000-000000000001",
		CompanyID:    companyID,
		Date:         time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC),
		Timezone:     timezone,
		ClockIn:      clockIn,
		ClockOut:     clockOut,
		EmployeeName: strPtr("Budi Santoso"),
	})
	require.NoError(t, err)
	return att
}

func authContext(t *testing.T, companyID, userID string) context.Context {
	t.Helper()
	return roleContext(t, companyID, userID, "manager", "")
}

func roleContext(t *testing.T, companyID, userID, role, employeeID string) context.Context {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{
		"user_id":     userID,
		"employee_id": employeeID,
		"company_id":  companyID,
		"role":        role,
		"type":        "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestCorrectAttendanceTime_DayShift(t *testing.T) {
	f := newFixture(t)
	att := f.seed(t, testCompanyID, strPtr("Asia/Jakarta"), nil, nil)
	ctx := authContext(t, testCompanyID, testManagerID)

	resp, err := f.svc.CorrectAttendanceTime(ctx, attendance.CorrectAttendanceTimeRequest{
		ID:           att.ID,
		ClockInTime:  strPtr("08:00"),
		ClockOutTime: strPtr("17:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-07-15T01:00:00Z", *resp.ClockInTime)
	assert.Equal(t, "2026-07-15T10:00:00Z", *resp.ClockOutTime)
	assert.Equal(t, "2026-07-15 08:00", *resp.ClockInLocal)
	assert.Equal(t, "2026-07-15 17:00", *resp.ClockOutLocal)
	assert.Equal(t, 540, *resp.WorkHoursInMinutes)
	assert.InDelta(t, 9.0, *resp.WorkingHours, 0.001)
	assert.Equal(t, string(attendance.StatusWaitingApproval), resp.Status)
	assert.Equal(t, testManagerID, *resp.CorrectedBy)
	assert.Equal(t, "2026-07-16T03:00:00Z", *resp.CorrectedAt)
	assert.Equal(t, "Asia/Jakarta", resp.Timezone)
}

func TestCorrectAttendanceTime_NightShiftRollsOver(t *testing.T) {
	f := newFixture(t)
	att := f.seed(t, testCompanyID, strPtr("Asia/Jakarta"), nil, nil)
	ctx := authContext(t, testCompanyID, testManagerID)

	resp, err := f.svc.CorrectAttendanceTime(ctx, attendance.CorrectAttendanceTimeRequest{
		ID:           att.ID,
		ClockInTime:  strPtr("22:00"),
		ClockOutTime: strPtr("06:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-07-15T15:00:00Z", *resp.ClockInTime)
	assert.Equal(t, "2026-07-15T23:00:00Z", *resp.ClockOutTime)
	assert.Equal(t, "2026-07-16 06:00", *resp.ClockOutLocal)
	assert.Equal(t, 480, *resp.WorkHoursInMinutes)
	assert.Equal(t, "2026-07-15", resp.Date)
}

func TestCorrectAttendanceTime_OpenShiftClearsSignOut(t *testing.T) {
	f := newFixture(t)
	in := time.Date(2026, 7, 15, 1, 0, 0, 0, time.UTC)
	out := time.Date(2026, 7, 15, 10, 0, 0, 0, time.UTC)
	att := f.seed(t, testCompanyID, strPtr("Asia/Jakarta"), &in, &out)
	ctx := authContext(t, testCompanyID, testManagerID)

	resp, err := f.svc.CorrectAttendanceTime(ctx, attendance.CorrectAttendanceTimeRequest{
		ID:          att.ID,
		ClockInTime: strPtr("09:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-07-15T02:00:00Z", *resp.ClockInTime)
	assert.Nil(t, resp.ClockOutTime)
	assert.Nil(t, resp.WorkHoursInMinutes)

	stored, err := f.repo.GetByID(context.Background(), att.ID, testCompanyID)
	require.NoError(t, err)
	assert.Nil(t, stored.ClockOut)
}

func TestCorrectAttendanceTime_RejectedPairLeavesRecordUntouched(t *testing.T) {
	f := newFixture(t)
	in := time.Date(2026, 7, 15, 1, 0, 0, 0, time.UTC)
	out := time.Date(2026, 7, 15, 10, 0, 0, 0, time.UTC)
	att := f.seed(t, testCompanyID, strPtr("Asia/Jakarta"), &in, &out)
	ctx := authContext(t, testCompanyID, testManagerID)

	tests := []struct {
		name     string
		clockIn  *string
		clockOut *string
		wantErr  error
	}{
		{"sign-out before sign-in", strPtr("10:00"), strPtr("09:00"), reconciler.ErrSignOutBeforeSignIn},
		{"missing sign-in", nil, strPtr("17:00"), reconciler.ErrMissingSignIn},
		{"blank sign-in", strPtr(""), strPtr("17:00"), reconciler.ErrMissingSignIn},
		{"boundary hour does not roll over", strPtr("09:00"), strPtr("08:59"), reconciler.ErrSignOutBeforeSignIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CorrectAttendanceTime(ctx, attendance.CorrectAttendanceTimeRequest{
				ID:           att.ID,
				ClockInTime:  tt.clockIn,
				ClockOutTime: tt.clockOut,
			})
			assert.ErrorIs(t, err, tt.wantErr)

			stored, err := f.repo.GetByID(context.Background(), att.ID, testCompanyID)
			require.NoError(t, err)
			assert.True(t, in.Equal(*stored.ClockIn))
			assert.True(t, out.Equal(*stored.ClockOut))
			assert.Equal(t, attendance.StatusPresent, stored.Status)
			assert.Nil(t, stored.CorrectedBy)
		})
	}
}

func TestCorrectAttendanceTime_ZonePrecedence(t *testing.T) {
	f := newFixture(t)
	ctx := authContext(t, testCompanyID, testManagerID)

	t.Run("request override wins", func(t *testing.T) {
		att := f.seed(t, testCompanyID, strPtr("Asia/Jakarta"), nil, nil)
		resp, err := f.svc.CorrectAttendanceTime(ctx, attendance.CorrectAttendanceTimeRequest{
			ID:          att.ID,
			ClockInTime: strPtr("09:00"),
			Timezone:    strPtr("Asia/Tokyo"),
		})
		require.NoError(t, err)
		assert.Equal(t, "2026-07-15T00:00:00Z", *resp.ClockInTime)
		assert.Equal(t, "Asia/Tokyo", resp.Timezone)
	})

	t.Run("record zone beats default", func(t *testing.T) {
		att := f.seed(t, testCompanyID, strPtr("America/New_York"), nil, nil)
		resp, err := f.svc.CorrectAttendanceTime(ctx, attendance.CorrectAttendanceTimeRequest{
			ID:          att.ID,
			ClockInTime: strPtr("09:00"),
		})
		require.NoError(t, err)
		assert.Equal(t, "2026-07-15T13:00:00Z", *resp.ClockInTime)
	})

	t.Run("no zone uses default", func(t *testing.T) {
		att := f.seed(t, testCompanyID, nil, nil, nil)
		resp, err := f.svc.CorrectAttendanceTime(ctx, attendance.CorrectAttendanceTimeRequest{
			ID:          att.ID,
			ClockInTime: strPtr("09:00"),
		})
		require.NoError(t, err)
		assert.Equal(t, "2026-07-15T02:00:00Z", *resp.ClockInTime)
		assert.Equal(t, "Asia/Jakarta", resp.Timezone)
	})

	t.Run("date override", func(t *testing.T) {
		att := f.seed(t, testCompanyID, strPtr("Asia/Jakarta"), nil, nil)
		resp, err := f.svc.CorrectAttendanceTime(ctx, attendance.CorrectAttendanceTimeRequest{
			ID:          att.ID,
			Date:        strPtr("2026-07-14"),
			ClockInTime: strPtr("09:00"),
		})
		require.NoError(t, err)
		assert.Equal(t, "2026-07-14T02:00:00Z", *resp.ClockInTime)
		assert.Equal(t, "2026-07-14", resp.Date)
	})
}

func TestCorrectAttendanceTime_ValidationAndScope(t *testing.T) {
	f := newFixture(t)
	att := f.seed(t, testCompanyID, strPtr("Asia/Jakarta"), nil, nil)

	t.Run("bad formats", func(t *testing.T) {
		ctx := authContext(t, testCompanyID, testManagerID)
		_, err := f.svc.CorrectAttendanceTime(ctx, attendance.CorrectAttendanceTimeRequest{
			ID:           att.ID,
			ClockInTime:  strPtr("8am"),
			ClockOutTime: strPtr("25:00"),
			Timezone:     strPtr("Mars/Olympus"),
		})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		fields := verrs.ToMap()
		assert.Contains(t, fields, "clock_in_time")
		assert.Contains(t, fields, "clock_out_time")
		assert.Contains(t, fields, "timezone")
	})

	t.Run("other company", func(t *testing.T) {
		ctx := authContext(t, otherCompanyID, testManagerID)
		_, err := f.svc.CorrectAttendanceTime(ctx, attendance.CorrectAttendanceTimeRequest{
			ID:          att.ID,
			ClockInTime: strPtr("08:00"),
		})
		assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	})

	t.Run("no claims", func(t *testing.T) {
		_, err := f.svc.CorrectAttendanceTime(context.Background(), attendance.CorrectAttendanceTimeRequest{
			ID:          att.ID,
			ClockInTime: strPtr("08:00"),
		})
		assert.Error(t, err)
	})

	t.Run("missing user claim", func(t *testing.T) {
		ctx := authContext(t, testCompanyID, "")
		_, err := f.svc.CorrectAttendanceTime(ctx, attendance.CorrectAttendanceTimeRequest{
			ID:          att.ID,
			ClockInTime: strPtr("08:00"),
		})
		assert.ErrorIs(t, err, attendance.ErrUserIDRequired)
	})
}

func TestPreviewReconcile(t *testing.T) {
	f := newFixture(t)

	t.Run("night shift", func(t *testing.T) {
		resp, err := f.svc.PreviewReconcile(context.Background(), attendance.ReconcilePreviewRequest{
			Date:         "2026-07-15",
			ClockInTime:  strPtr("22:00"),
			ClockOutTime: strPtr("06:00"),
			Timezone:     strPtr("Asia/Jakarta"),
		})
		require.NoError(t, err)
		assert.Equal(t, "2026-07-15T15:00:00Z", resp.ClockIn)
		assert.Equal(t, "2026-07-15T23:00:00Z", *resp.ClockOut)
		assert.Equal(t, "2026-07-15 22:00", resp.ClockInLocal)
		assert.Equal(t, "2026-07-16 06:00", *resp.ClockOutLocal)
		assert.Equal(t, 480, *resp.WorkHoursInMinutes)
		assert.True(t, resp.IsNextDayCheckout)
	})

	t.Run("open shift in default zone", func(t *testing.T) {
		resp, err := f.svc.PreviewReconcile(context.Background(), attendance.ReconcilePreviewRequest{
			Date:        "2026-07-15",
			ClockInTime: strPtr("08:00"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Asia/Jakarta", resp.Timezone)
		assert.Equal(t, "2026-07-15T01:00:00Z", resp.ClockIn)
		assert.Nil(t, resp.ClockOut)
		assert.Nil(t, resp.WorkHoursInMinutes)
		assert.False(t, resp.IsNextDayCheckout)
	})

	t.Run("too long across fall back", func(t *testing.T) {
		_, err := f.svc.PreviewReconcile(context.Background(), attendance.ReconcilePreviewRequest{
			Date:         "2026-10-31",
			ClockInTime:  strPtr("03:00"),
			ClockOutTime: strPtr("02:30"),
			Timezone:     strPtr("America/New_York"),
		})
		assert.ErrorIs(t, err, reconciler.ErrShiftTooLong)
	})

	t.Run("date required", func(t *testing.T) {
		_, err := f.svc.PreviewReconcile(context.Background(), attendance.ReconcilePreviewRequest{
			ClockInTime: strPtr("08:00"),
		})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.ToMap(), "date")
	})
}

func TestListAttendance(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		f.seed(t, testCompanyID, strPtr("Asia/Jakarta"), nil, nil)
	}
	f.seed(t, otherCompanyID, nil, nil, nil)
	ctx := authContext(t, testCompanyID, testManagerID)

	resp, err := f.svc.ListAttendance(ctx, attendance.AttendanceFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.TotalCount)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, "1-2 of 3", resp.Showing)
	assert.Len(t, resp.Attendances, 2)

	resp, err = f.svc.ListAttendance(ctx, attendance.AttendanceFilter{Limit: 2, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, "3-3 of 3", resp.Showing)
	assert.Len(t, resp.Attendances, 1)

	_, err = f.svc.ListAttendance(ctx, attendance.AttendanceFilter{Limit: 500})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestGetAndDeleteAttendance(t *testing.T) {
	f := newFixture(t)
	in := time.Date(2026, 7, 15, 1, 0, 0, 0, time.UTC)
	att := f.seed(t, testCompanyID, strPtr("Asia/Jakarta"), &in, nil)
	ctx := authContext(t, testCompanyID, testManagerID)

	resp, err := f.svc.GetAttendance(ctx, att.ID)
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", resp.EmployeeName)
	assert.Equal(t, "2026-07-15 08:00", *resp.ClockInLocal)

	_, err = f.svc.GetAttendance(authContext(t, otherCompanyID, testManagerID), att.ID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	own, err := f.svc.GetAttendance(roleContext(t, testCompanyID, "user-2", "employee", att.EmployeeID), att.ID)
	require.NoError(t, err)
	assert.Equal(t, att.ID, own.ID)

	_, err = f.svc.GetAttendance(roleContext(t, testCompanyID, "user-3", "employee", "0190a8c2-1111-7000-8000-000000000099"), att.ID)
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)

	require.NoError(t, f.svc.DeleteAttendance(ctx, att.ID))
	assert.ErrorIs(t, f.svc.DeleteAttendance(ctx, att.ID), attendance.ErrAttendanceNotFound)
}
