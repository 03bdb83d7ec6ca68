package settings

import (
	"errors"
	"time"
)

var (
	// ErrNegativePrice is returned when a unit price or fee is negative.
	ErrNegativePrice = errors.New("settings: negative price")
	// ErrSettingsNotFound is returned when no settings row exists yet.
	ErrSettingsNotFound = errors.New("settings: not found")
)

// Settings holds the per-unit prices used by invoice generation.
// Singleton, versioned by UpdatedAt. Amounts are VND.
type Settings struct {
	ElectricityUnitPrice int64
	WaterUnitPrice       int64
	GarbageCharge        int64
	IsDeleted            bool
	UpdatedAt            time.Time
}

// Validate checks the prices are non-negative.
func (s Settings) Validate() error {
	if s.ElectricityUnitPrice < 0 || s.WaterUnitPrice < 0 || s.GarbageCharge < 0 {
		return ErrNegativePrice
	}
	return nil
}
