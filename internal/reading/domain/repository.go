package reading

import "context"

// Repository persists utility readings.
type Repository interface {
	Create(ctx context.Context, r *UtilityReading) error
	Update(ctx context.Context, r *UtilityReading) error
	GetByID(ctx context.Context, id string) (*UtilityReading, error)
	// FindByRoomAndMonth returns nil without error when no reading exists.
	FindByRoomAndMonth(ctx context.Context, roomID string, month Month) (*UtilityReading, error)
	ListByMonth(ctx context.Context, month Month) ([]UtilityReading, error)
	SoftDelete(ctx context.Context, id string) error
}
