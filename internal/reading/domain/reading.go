package reading

import "time"

// UtilityReading holds the start/end meter values of a room for one month.
// Identity: room + month; at most one non-deleted reading exists per pair.
type UtilityReading struct {
	ID               string
	RoomID           string
	Month            Month
	ElectricityStart int64
	ElectricityEnd   *int64
	WaterStart       int64
	WaterEnd         *int64
	IsDeleted        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Consumption derives the consumed quantity from a start/end meter pair.
// A nil end means the meter has not been read yet; the second return is
// false and no quantity is defined. An end below start is a rollback or
// data error and is rejected.
func Consumption(start int64, end *int64) (int64, bool, error) {
	if start < 0 {
		return 0, false, ErrNegativeMeterValue
	}
	if end == nil {
		return 0, false, nil
	}
	if *end < start {
		return 0, false, ErrInvalidMeterReading
	}
	return *end - start, true, nil
}

// NewUtilityReading validates and builds a reading. Validation happens
// here, at write time, so a rollback never reaches billing.
func NewUtilityReading(id, roomID string, month Month, electricityStart int64, electricityEnd *int64, waterStart int64, waterEnd *int64, now time.Time) (*UtilityReading, error) {
	if roomID == "" {
		return nil, ErrEmptyRoom
	}
	if _, err := ParseMonth(month.String()); err != nil {
		return nil, err
	}
	if _, _, err := Consumption(electricityStart, electricityEnd); err != nil {
		return nil, err
	}
	if _, _, err := Consumption(waterStart, waterEnd); err != nil {
		return nil, err
	}
	return &UtilityReading{
		ID:               id,
		RoomID:           roomID,
		Month:            month,
		ElectricityStart: electricityStart,
		ElectricityEnd:   electricityEnd,
		WaterStart:       waterStart,
		WaterEnd:         waterEnd,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// UpdateMeters replaces the meter values, re-validating the pairs.
func (r *UtilityReading) UpdateMeters(electricityStart int64, electricityEnd *int64, waterStart int64, waterEnd *int64, now time.Time) error {
	if _, _, err := Consumption(electricityStart, electricityEnd); err != nil {
		return err
	}
	if _, _, err := Consumption(waterStart, waterEnd); err != nil {
		return err
	}
	r.ElectricityStart = electricityStart
	r.ElectricityEnd = electricityEnd
	r.WaterStart = waterStart
	r.WaterEnd = waterEnd
	r.UpdatedAt = now
	return nil
}

// ElectricityConsumption returns the derived electricity quantity.
// The second return is false while the end meter is unread.
func (r *UtilityReading) ElectricityConsumption() (int64, bool) {
	value, known, err := Consumption(r.ElectricityStart, r.ElectricityEnd)
	if err != nil {
		return 0, false
	}
	return value, known
}

// WaterConsumption returns the derived water quantity.
func (r *UtilityReading) WaterConsumption() (int64, bool) {
	value, known, err := Consumption(r.WaterStart, r.WaterEnd)
	if err != nil {
		return 0, false
	}
	return value, known
}

// Complete reports whether both meters have been read for the period.
func (r *UtilityReading) Complete() bool {
	return r.ElectricityEnd != nil && r.WaterEnd != nil
}
