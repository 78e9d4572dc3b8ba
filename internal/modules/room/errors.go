package room

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("room not found")
	// ErrOccupied is returned when housekeeping tries to move a room that a
	// checked-in guest still holds.
	ErrOccupied = errors.New("room is occupied")
)
