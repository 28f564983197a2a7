package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

type AttendanceJobs struct {
	attendanceRepo   attendance.AttendanceRepository
	maxShiftDuration time.Duration
	interval         time.Duration
	now              func() time.Time
}

// NewAttendanceJobs wires the attendance maintenance jobs. maxShiftDuration
// should match the reconciler policy so that anything flagged here could never
// have been closed by a valid correction.
func NewAttendanceJobs(attendanceRepo attendance.AttendanceRepository, maxShiftDuration, interval time.Duration) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo:   attendanceRepo,
		maxShiftDuration: maxShiftDuration,
		interval:         interval,
		now:              time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) error {
	return scheduler.AddJob("flag_overlong_sessions", j.interval, j.FlagOverlongSessions)
}

// FlagOverlongSessions marks open sessions whose sign-in is older than the
// maximum shift length as needs_correction. Such a session can no longer be
// closed with a sign-out, so an administrator has to re-enter both times.
func (j *AttendanceJobs) FlagOverlongSessions(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.maxShiftDuration)

	sessions, err := j.attendanceRepo.ListOpenSessionsStartedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list open sessions: %w", err)
	}

	if len(sessions) == 0 {
		slog.Debug("Cron: No overlong attendance sessions found")
		return nil
	}

	flagged := 0
	for _, session := range sessions {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := j.attendanceRepo.UpdateStatus(ctx, session.ID, session.CompanyID, attendance.StatusNeedsCorrection); err != nil {
			slog.Error("Cron: Failed to flag attendance session",
				"attendance_id", session.ID,
				"company_id", session.CompanyID,
				"error", err,
			)
			continue
		}
		flagged++
	}

	slog.Info("Cron: Flagged overlong attendance sessions", "found", len(sessions), "flagged", flagged, "cutoff", cutoff)
	return nil
}
