package booking

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"hotelfront/internal/availability"
	"hotelfront/internal/domain"
)

var (
	ErrValidation              = errors.New("validation error")
	ErrNotFound                = errors.New("booking not found")
	ErrNotAvailable            = errors.New("room not available")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

// ValidationError lists every rejected input field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// AvailabilityError names the room nights that blocked a booking.
type AvailabilityError struct {
	Conflicts []availability.Conflict
}

func (e *AvailabilityError) Error() string {
	if len(e.Conflicts) == 0 {
		return "room not available: taken by a concurrent booking"
	}
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("room %d on %s (%s)", c.RoomNumber, c.Date.Format(domain.DateLayout), c.Status))
	}
	return "room not available: " + strings.Join(parts, ", ")
}

func (e *AvailabilityError) Unwrap() error { return ErrNotAvailable }

func transitionError(b *domain.Booking, action string) error {
	return fmt.Errorf("%w: cannot %s a %s booking", ErrInvalidStatusTransition, action, b.Status)
}

type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}
