package meetup

import "errors"

var (
	// ErrNotFound means the meetup id does not exist.
	ErrNotFound = errors.New("meetup not found")

	// ErrNotAuthorized means the caller is not the meetup's owner.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrPastMeetup blocks any mutation of a meetup whose date has passed.
	ErrPastMeetup = errors.New("past meetups cannot be changed")

	// ErrInvalidDate means the supplied date is not strictly in the future.
	ErrInvalidDate = errors.New("meetup date invalid")
)

// ValidationError wraps a schema validation failure. No store access has
// happened when one is returned.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "validation fails: " + e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// StoreError wraps a persistence failure (I/O, connectivity). Opaque to
// callers beyond its kind.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return "store failure: " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }
