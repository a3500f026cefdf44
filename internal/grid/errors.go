package grid

import (
	"errors"
	"fmt"
)

// Configuration errors, returned by New and Restore.
var (
	ErrEmptyDateList = errors.New("grid: date list is empty")
	ErrInvalidWindow = errors.New("grid: invalid time window")
	ErrDuplicateDate = errors.New("grid: duplicate date")
)

// Validation errors, returned by Apply before any slot is touched.
var (
	ErrUnknownDate         = errors.New("grid: date is not part of the room")
	ErrMisalignedTime      = errors.New("grid: time is not a slot boundary of the room")
	ErrGranularityMismatch = errors.New("grid: selection granularity does not match the room")
	ErrEmptyParticipant    = errors.New("grid: participant name is empty")
)

// SelectionError ties a validation error to the selection that caused it.
type SelectionError struct {
	Selection Selection
	Err       error
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Selection)
}

func (e *SelectionError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err was raised while building a grid.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrEmptyDateList) ||
		errors.Is(err, ErrInvalidWindow) ||
		errors.Is(err, ErrDuplicateDate)
}

// IsValidationError reports whether err rejected a submission.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrUnknownDate) ||
		errors.Is(err, ErrMisalignedTime) ||
		errors.Is(err, ErrGranularityMismatch) ||
		errors.Is(err, ErrEmptyParticipant)
}
