package room

import "errors"

var (
	// ErrEmptyRoomID is returned when a room reference has no id.
	ErrEmptyRoomID = errors.New("room: empty room id")
	// ErrEmptyNumber is returned when a room has no number.
	ErrEmptyNumber = errors.New("room: empty room number")
	// ErrNegativePrice is returned when price or deposit is negative.
	ErrNegativePrice = errors.New("room: negative price")
	// ErrRoomNotFound is returned when a room is not found.
	ErrRoomNotFound = errors.New("room: not found")
	// ErrDuplicateNumber is returned when a room number is already taken.
	ErrDuplicateNumber = errors.New("room: number already exists")
	// ErrEmptyTenant is returned when assigning a room without a tenant.
	ErrEmptyTenant = errors.New("room: empty tenant id")
)
