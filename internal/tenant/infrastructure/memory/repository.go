package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	tenant "nhatro-cloud/internal/tenant/domain"
)

// TenantRepository is an in-memory tenant store for tests and tooling.
type TenantRepository struct {
	mu   sync.RWMutex
	data map[string]tenant.Tenant
}

// NewTenantRepository constructs a repository.
func NewTenantRepository() *TenantRepository {
	return &TenantRepository{data: make(map[string]tenant.Tenant)}
}

// Create inserts a tenant.
func (r *TenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	_ = ctx
	if t == nil {
		return tenant.ErrTenantNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[t.ID] = *t
	return nil
}

// Update overwrites a stored tenant.
func (r *TenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	_ = ctx
	if t == nil {
		return tenant.ErrTenantNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[t.ID]; !ok {
		return tenant.ErrTenantNotFound
	}
	r.data[t.ID] = *t
	return nil
}

// GetByID fetches a tenant, nil when absent or deleted.
func (r *TenantRepository) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.data[id]
	if !ok || t.IsDeleted {
		return nil, nil
	}
	copy := t
	return &copy, nil
}

// List returns the non-deleted tenants ordered by full name.
func (r *TenantRepository) List(ctx context.Context) ([]tenant.Tenant, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []tenant.Tenant
	for _, t := range r.data {
		if !t.IsDeleted {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FullName < result[j].FullName })
	return result, nil
}

// SoftDelete marks a tenant deleted.
func (r *TenantRepository) SoftDelete(ctx context.Context, id string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.data[id]
	if !ok {
		return tenant.ErrTenantNotFound
	}
	t.IsDeleted = true
	t.UpdatedAt = time.Now().UTC()
	r.data[id] = t
	return nil
}
