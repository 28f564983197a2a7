package reconciler

import (
	"fmt"
	"strings"
	"time"
)

// CivilTime is a wall-clock time without date or zone, as typed by a user.
type CivilTime struct {
	Hour   int
	Minute int
}

// ParseCivilTime accepts "HH:MM" or "HH:MM:SS". Seconds are dropped.
func ParseCivilTime(s string) (CivilTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return CivilTime{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return CivilTime{}, fmt.Errorf("%w: %q", ErrInvalidCivilTime, s)
}

func (t CivilTime) Validate() error {
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("%w: %02d:%02d", ErrInvalidCivilTime, t.Hour, t.Minute)
	}
	return nil
}

func (t CivilTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// CivilDate is a calendar day with no zone attached.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseCivilDate parses "YYYY-MM-DD".
func ParseCivilDate(s string) (CivilDate, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return CivilDate{}, fmt.Errorf("%w: %q", ErrInvalidCivilDate, s)
	}
	return CivilDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// CivilDateOf returns the calendar day of instant as seen in loc.
// A nil loc keeps the instant's own location.
func CivilDateOf(instant time.Time, loc *time.Location) CivilDate {
	if loc != nil {
		instant = instant.In(loc)
	}
	return CivilDate{Year: instant.Year(), Month: instant.Month(), Day: instant.Day()}
}

// Validate rejects dates that time.Date would normalize, such as Feb 30.
func (d CivilDate) Validate() error {
	if d.Month < time.January || d.Month > time.December || d.Day < 1 {
		return fmt.Errorf("%w: %s", ErrInvalidCivilDate, d)
	}
	n := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	if n.Year() != d.Year || n.Month() != d.Month || n.Day() != d.Day {
		return fmt.Errorf("%w: %s", ErrInvalidCivilDate, d)
	}
	return nil
}

func (d CivilDate) AddDays(n int) CivilDate {
	return CivilDateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC), nil)
}

func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// naive places the civil date and time on the UTC timeline as if the zone had
// offset zero. It is the seed of the resolution loop and the target the
// rendered components are compared against.
func naive(t CivilTime, d CivilDate) time.Time {
	return time.Date(d.Year, d.Month, d.Day, t.Hour, t.Minute, 0, 0, time.UTC)
}

// AttendancePair is a validated sign-in/sign-out pair. SignOut is nil for an
// open shift.
type AttendancePair struct {
	SignIn  time.Time
	SignOut *time.Time
}

func (p AttendancePair) IsOpen() bool {
	return p.SignOut == nil
}

// Duration returns the shift length, false when the shift is still open.
func (p AttendancePair) Duration() (time.Duration, bool) {
	if p.SignOut == nil {
		return 0, false
	}
	return p.SignOut.Sub(p.SignIn), true
}
