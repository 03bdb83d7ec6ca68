package tenant

import "context"

// Repository persists tenants.
type Repository interface {
	Create(ctx context.Context, t *Tenant) error
	Update(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id string) (*Tenant, error)
	List(ctx context.Context) ([]Tenant, error)
	SoftDelete(ctx context.Context, id string) error
}
