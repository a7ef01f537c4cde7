package booking

import (
	"errors"
	"fmt"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrSlotConflict = errors.New("slot conflict")
)

func IsErrBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

func IsErrUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsErrNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsErrSlotConflict(err error) bool {
	return errors.Is(err, ErrSlotConflict)
}

// ConflictError carries the booked slots that overlap a rejected booking so
// callers can offer alternatives.
type ConflictError struct {
	Conflicts []Slot
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot conflict: %d overlapping booking(s)", len(e.Conflicts))
}

func (e *ConflictError) Unwrap() error {
	return ErrSlotConflict
}

// ConflictsFrom extracts the conflicting slots from an error chain, or nil.
func ConflictsFrom(err error) []Slot {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Conflicts
	}
	return nil
}
