// Package reconciler turns wall-clock attendance times typed by an
// administrator into absolute UTC instants and validates sign-in/sign-out
// pairs against the attendance rules.
package reconciler

import (
	"fmt"
	"strings"
	"time"

	// Embedded tz database so zone lookups work on minimal images.
	_ "time/tzdata"
)

const (
	// NightShiftHourThreshold: a sign-out that is not after sign-in and whose
	// hour is below this value is moved to the next calendar day.
	NightShiftHourThreshold = 8

	// MaxShiftDuration caps signOut - signIn.
	MaxShiftDuration = 24 * time.Hour

	maxResolveIterations = 3
)

// LoadZone resolves an IANA zone identifier.
func LoadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty zone name", ErrInvalidTimezone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// ResolveLocalTime returns the UTC instant that renders as t on d in zone.
func ResolveLocalTime(t CivilTime, d CivilDate, zone string) (time.Time, error) {
	if err := t.Validate(); err != nil {
		return time.Time{}, err
	}
	if err := d.Validate(); err != nil {
		return time.Time{}, err
	}
	loc, err := LoadZone(zone)
	if err != nil {
		return time.Time{}, err
	}
	return ResolveInLocation(t, d, loc), nil
}

// ResolveInLocation finds the instant by fixed-point iteration: render the
// current guess in loc, shift the guess by the difference between the desired
// and rendered wall clock, repeat. Fixed offsets settle after one correction;
// a DST change between guesses needs a second one. Inside a DST gap the wall
// clock does not exist and the last guess is returned.
func ResolveInLocation(t CivilTime, d CivilDate, loc *time.Location) time.Time {
	desired := naive(t, d)
	guess := desired

	for i := 0; i < maxResolveIterations; i++ {
		local := guess.In(loc)
		rendered := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), 0, 0, time.UTC)

		diff := desired.Sub(rendered)
		if diff == 0 {
			break
		}
		guess = guess.Add(diff)
	}

	return guess.UTC()
}

// Policy holds the tunable attendance rules.
type Policy struct {
	// NightShiftHourThreshold of 0 disables the rollover.
	NightShiftHourThreshold int
	MaxShiftDuration        time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		NightShiftHourThreshold: NightShiftHourThreshold,
		MaxShiftDuration:        MaxShiftDuration,
	}
}

func (p Policy) rollsOver(signOut CivilTime) bool {
	return signOut.Hour < p.NightShiftHourThreshold
}

type Option func(*Reconciler)

func WithNightShiftHourThreshold(hour int) Option {
	return func(r *Reconciler) {
		r.policy.NightShiftHourThreshold = hour
	}
}

func WithMaxShiftDuration(d time.Duration) Option {
	return func(r *Reconciler) {
		r.policy.MaxShiftDuration = d
	}
}

// Reconciler resolves attendance pairs with a fixed policy and a default zone
// used when a record carries none. It is immutable and safe for concurrent use.
type Reconciler struct {
	policy      Policy
	defaultZone *time.Location
}

func New(defaultZone string, opts ...Option) (*Reconciler, error) {
	loc, err := LoadZone(defaultZone)
	if err != nil {
		return nil, fmt.Errorf("default zone: %w", err)
	}

	r := &Reconciler{
		policy:      DefaultPolicy(),
		defaultZone: loc,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.policy.NightShiftHourThreshold < 0 || r.policy.NightShiftHourThreshold > 24 {
		return nil, fmt.Errorf("night shift hour threshold must be between 0 and 24, got %d", r.policy.NightShiftHourThreshold)
	}
	if r.policy.MaxShiftDuration <= 0 {
		return nil, fmt.Errorf("max shift duration must be positive, got %s", r.policy.MaxShiftDuration)
	}

	return r, nil
}

func (r *Reconciler) Policy() Policy {
	return r.policy
}

func (r *Reconciler) DefaultZone() *time.Location {
	return r.defaultZone
}

// Location resolves zone, falling back to the default zone when zone is empty.
func (r *Reconciler) Location(zone string) (*time.Location, error) {
	if strings.TrimSpace(zone) == "" {
		return r.defaultZone, nil
	}
	return LoadZone(zone)
}

// ReconcileAttendancePair resolves sign-in and sign-out on date in zone.
// A nil signOut yields an open shift.
func (r *Reconciler) ReconcileAttendancePair(signIn, signOut *CivilTime, date CivilDate, zone string) (AttendancePair, error) {
	if signIn == nil {
		return AttendancePair{}, ErrMissingSignIn
	}
	if err := signIn.Validate(); err != nil {
		return AttendancePair{}, err
	}
	if signOut != nil {
		if err := signOut.Validate(); err != nil {
			return AttendancePair{}, err
		}
	}
	if err := date.Validate(); err != nil {
		return AttendancePair{}, err
	}

	loc, err := r.Location(zone)
	if err != nil {
		return AttendancePair{}, err
	}

	in := ResolveInLocation(*signIn, date, loc)
	if signOut == nil {
		return AttendancePair{SignIn: in}, nil
	}

	out := ResolveInLocation(*signOut, date, loc)
	if !out.After(in) && r.policy.rollsOver(*signOut) {
		out = ResolveInLocation(*signOut, date.AddDays(1), loc)
	}

	if !out.After(in) {
		return AttendancePair{}, ErrSignOutBeforeSignIn
	}
	if out.Sub(in) > r.policy.MaxShiftDuration {
		return AttendancePair{}, ErrShiftTooLong
	}

	return AttendancePair{SignIn: in, SignOut: &out}, nil
}
