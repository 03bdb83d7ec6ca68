package tenant

import (
	"errors"
	"time"
)

const (
	StatusStaying  = "STAYING"
	StatusDebt     = "DEBT"
	StatusMovedOut = "MOVED_OUT"
)

var (
	// ErrEmptyName is returned when a tenant has no full name.
	ErrEmptyName = errors.New("tenant: empty full name")
	// ErrInvalidStatus is returned for an unknown tenant status.
	ErrInvalidStatus = errors.New("tenant: invalid status")
	// ErrTenantNotFound is returned when a tenant is not found.
	ErrTenantNotFound = errors.New("tenant: not found")
)

// Tenant is a person renting a room.
type Tenant struct {
	ID          string
	FullName    string
	PhoneNumber string
	RoomID      string
	MoveInDate  time.Time
	MoveOutDate time.Time
	Status      string
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidStatus reports whether value is a known tenant status.
func ValidStatus(value string) bool {
	switch value {
	case StatusStaying, StatusDebt, StatusMovedOut:
		return true
	}
	return false
}
