package reading

import "errors"

var (
	// ErrInvalidMeterReading is returned when an end value precedes its start value.
	ErrInvalidMeterReading = errors.New("reading: end value precedes start value")
	// ErrNegativeMeterValue is returned when a meter value is negative.
	ErrNegativeMeterValue = errors.New("reading: negative meter value")
	// ErrMonthFormatInvalid is returned when a month string is not YYYY-MM.
	ErrMonthFormatInvalid = errors.New("reading: month must be YYYY-MM")
	// ErrEmptyRoom is returned when a reading has no room reference.
	ErrEmptyRoom = errors.New("reading: empty room reference")
	// ErrDuplicateReading is returned when a room already has a reading for the month.
	ErrDuplicateReading = errors.New("reading: room already has a reading for this month")
	// ErrReadingNotFound is returned when a reading is not found.
	ErrReadingNotFound = errors.New("reading: not found")
)
