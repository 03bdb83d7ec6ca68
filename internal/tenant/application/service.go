package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	tenant "nhatro-cloud/internal/tenant/domain"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// TenantInput carries the mutable tenant fields.
type TenantInput struct {
	FullName    string
	PhoneNumber string
	RoomID      string
	MoveInDate  time.Time
	MoveOutDate time.Time
	Status      string
}

// TenantService manages tenant records.
type TenantService struct {
	repo  tenant.Repository
	clock Clock
}

// NewTenantService constructs a tenant service.
func NewTenantService(repo tenant.Repository, clock Clock) (*TenantService, error) {
	if repo == nil {
		return nil, errors.New("tenant service: nil repository")
	}
	if clock == nil {
		return nil, errors.New("tenant service: nil clock")
	}
	return &TenantService{repo: repo, clock: clock}, nil
}

// Create validates and stores a tenant. Status defaults to STAYING.
func (s *TenantService) Create(ctx context.Context, input TenantInput) (*tenant.Tenant, error) {
	if input.Status == "" {
		input.Status = tenant.StatusStaying
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()
	t := &tenant.Tenant{
		ID:          newTenantID(),
		FullName:    input.FullName,
		PhoneNumber: input.PhoneNumber,
		RoomID:      input.RoomID,
		MoveInDate:  input.MoveInDate,
		MoveOutDate: input.MoveOutDate,
		Status:      input.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update replaces the mutable fields of a tenant.
func (s *TenantService) Update(ctx context.Context, id string, input TenantInput) (*tenant.Tenant, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	t, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	t.FullName = input.FullName
	t.PhoneNumber = input.PhoneNumber
	t.RoomID = input.RoomID
	t.MoveInDate = input.MoveInDate
	t.MoveOutDate = input.MoveOutDate
	t.Status = input.Status
	t.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get loads one tenant.
func (s *TenantService) Get(ctx context.Context, id string) (*tenant.Tenant, error) {
	return s.get(ctx, id)
}

// List returns all non-deleted tenants.
func (s *TenantService) List(ctx context.Context) ([]tenant.Tenant, error) {
	return s.repo.List(ctx)
}

// Remove soft-deletes a tenant.
func (s *TenantService) Remove(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *TenantService) get(ctx context.Context, id string) (*tenant.Tenant, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, tenant.ErrTenantNotFound
	}
	return t, nil
}

func validateInput(input TenantInput) error {
	if input.FullName == "" {
		return tenant.ErrEmptyName
	}
	if !tenant.ValidStatus(input.Status) {
		return tenant.ErrInvalidStatus
	}
	return nil
}

func newTenantID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return "tenant-" + hex.EncodeToString(buf)
}
