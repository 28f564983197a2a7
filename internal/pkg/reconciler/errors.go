package reconciler

import "errors"

var (
	ErrInvalidTimezone     = errors.New("invalid timezone")
	ErrMissingSignIn       = errors.New("sign-in time is required")
	ErrSignOutBeforeSignIn = errors.New("sign-out time must be after sign-in time")
	ErrShiftTooLong        = errors.New("shift duration must not exceed the maximum shift length")

	ErrInvalidCivilTime = errors.New("time must be in HH:MM format")
	ErrInvalidCivilDate = errors.New("date must be a valid YYYY-MM-DD calendar date")
)
