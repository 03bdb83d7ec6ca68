package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	room "nhatro-cloud/internal/room/domain"
)

// RoomRepository is an in-memory room store for tests and tooling.
type RoomRepository struct {
	mu   sync.RWMutex
	data map[string]room.Room
}

// NewRoomRepository constructs a repository.
func NewRoomRepository() *RoomRepository {
	return &RoomRepository{data: make(map[string]room.Room)}
}

// Create inserts a room, enforcing number uniqueness.
func (r *RoomRepository) Create(ctx context.Context, rm *room.Room) error {
	_ = ctx
	if rm == nil {
		return room.ErrRoomNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.data {
		if !existing.IsDeleted && existing.Number == rm.Number {
			return room.ErrDuplicateNumber
		}
	}
	r.data[rm.ID] = *rm
	return nil
}

// Update overwrites a stored room.
func (r *RoomRepository) Update(ctx context.Context, rm *room.Room) error {
	_ = ctx
	if rm == nil {
		return room.ErrRoomNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[rm.ID]; !ok {
		return room.ErrRoomNotFound
	}
	r.data[rm.ID] = *rm
	return nil
}

// GetByID fetches a room, nil when absent or deleted.
func (r *RoomRepository) GetByID(ctx context.Context, id string) (*room.Room, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm, ok := r.data[id]
	if !ok || rm.IsDeleted {
		return nil, nil
	}
	copy := rm
	return &copy, nil
}

// List returns all non-deleted rooms ordered by number.
func (r *RoomRepository) List(ctx context.Context) ([]room.Room, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []room.Room
	for _, rm := range r.data {
		if !rm.IsDeleted {
			result = append(result, rm)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

// ListBillable returns occupied, non-deleted rooms ordered by number.
func (r *RoomRepository) ListBillable(ctx context.Context) ([]room.Room, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var result []room.Room
	for _, rm := range all {
		if rm.Occupied() {
			result = append(result, rm)
		}
	}
	return result, nil
}

// SoftDelete marks a room deleted.
func (r *RoomRepository) SoftDelete(ctx context.Context, id string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	rm, ok := r.data[id]
	if !ok {
		return room.ErrRoomNotFound
	}
	rm.IsDeleted = true
	rm.UpdatedAt = time.Now().UTC()
	r.data[id] = rm
	return nil
}
