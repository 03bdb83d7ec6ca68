package room

import "context"

// Repository persists rooms.
type Repository interface {
	Create(ctx context.Context, r *Room) error
	Update(ctx context.Context, r *Room) error
	GetByID(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context) ([]Room, error)
	// ListBillable returns occupied, non-deleted rooms.
	ListBillable(ctx context.Context) ([]Room, error)
	SoftDelete(ctx context.Context, id string) error
}
