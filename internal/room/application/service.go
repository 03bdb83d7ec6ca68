package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	room "nhatro-cloud/internal/room/domain"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// RoomInput carries the mutable room fields of a create or update.
type RoomInput struct {
	Number        string
	Price         int64
	Deposit       int64
	IsDepositPaid bool
}

// RoomService manages the room inventory and its occupancy state.
type RoomService struct {
	repo  room.Repository
	clock Clock
}

// NewRoomService constructs a room service.
func NewRoomService(repo room.Repository, clock Clock) (*RoomService, error) {
	if repo == nil {
		return nil, errors.New("room service: nil repository")
	}
	if clock == nil {
		return nil, errors.New("room service: nil clock")
	}
	return &RoomService{repo: repo, clock: clock}, nil
}

// Create validates and stores a new vacant room.
func (s *RoomService) Create(ctx context.Context, input RoomInput) (*room.Room, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()
	rm := &room.Room{
		ID:            newRoomID(),
		Number:        input.Number,
		Status:        room.StatusAvailable,
		Price:         input.Price,
		Deposit:       input.Deposit,
		IsDepositPaid: input.IsDepositPaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

// Update replaces the mutable fields of a room. Occupancy state is not
// touched here; that goes through AssignTenant and ReleaseTenant.
func (s *RoomService) Update(ctx context.Context, id string, input RoomInput) (*room.Room, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	rm, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	rm.Number = input.Number
	rm.Price = input.Price
	rm.Deposit = input.Deposit
	rm.IsDepositPaid = input.IsDepositPaid
	rm.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

// AssignTenant moves a tenant in and marks the room FULL. Billing picks
// the room up from the next generation run onward.
func (s *RoomService) AssignTenant(ctx context.Context, id, tenantID string, moveIn time.Time, headcount int) (*room.Room, error) {
	if tenantID == "" {
		return nil, room.ErrEmptyTenant
	}
	rm, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	rm.TenantID = tenantID
	rm.Status = room.StatusFull
	rm.MoveInDate = moveIn
	rm.MoveOutDate = time.Time{}
	if headcount > 0 {
		rm.CurrentTenants = headcount
	} else {
		rm.CurrentTenants = 1
	}
	rm.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

// ReleaseTenant moves the tenant out and returns the room to AVAILABLE.
func (s *RoomService) ReleaseTenant(ctx context.Context, id string, moveOut time.Time) (*room.Room, error) {
	rm, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	rm.TenantID = ""
	rm.Status = room.StatusAvailable
	rm.MoveOutDate = moveOut
	rm.CurrentTenants = 0
	rm.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

// Get loads one room.
func (s *RoomService) Get(ctx context.Context, id string) (*room.Room, error) {
	return s.get(ctx, id)
}

// List returns all non-deleted rooms.
func (s *RoomService) List(ctx context.Context) ([]room.Room, error) {
	return s.repo.List(ctx)
}

// Remove soft-deletes a room.
func (s *RoomService) Remove(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *RoomService) get(ctx context.Context, id string) (*room.Room, error) {
	if id == "" {
		return nil, room.ErrEmptyRoomID
	}
	rm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rm == nil {
		return nil, room.ErrRoomNotFound
	}
	return rm, nil
}

func validateInput(input RoomInput) error {
	if input.Number == "" {
		return room.ErrEmptyNumber
	}
	if input.Price < 0 || input.Deposit < 0 {
		return room.ErrNegativePrice
	}
	return nil
}

func newRoomID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return "room-" + hex.EncodeToString(buf)
}
