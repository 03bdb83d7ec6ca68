package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	reading "nhatro-cloud/internal/reading/domain"
)

// ReadingRepository is an in-memory reading store for tests and tooling.
type ReadingRepository struct {
	mu   sync.RWMutex
	data map[string]reading.UtilityReading
}

// NewReadingRepository constructs a repository.
func NewReadingRepository() *ReadingRepository {
	return &ReadingRepository{data: make(map[string]reading.UtilityReading)}
}

// Create inserts a reading, enforcing (room, month) uniqueness.
func (r *ReadingRepository) Create(ctx context.Context, rd *reading.UtilityReading) error {
	_ = ctx
	if rd == nil {
		return reading.ErrReadingNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.data {
		if !existing.IsDeleted && existing.RoomID == rd.RoomID && existing.Month == rd.Month {
			return reading.ErrDuplicateReading
		}
	}
	r.data[rd.ID] = *rd
	return nil
}

// Update overwrites a stored reading.
func (r *ReadingRepository) Update(ctx context.Context, rd *reading.UtilityReading) error {
	_ = ctx
	if rd == nil {
		return reading.ErrReadingNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[rd.ID]; !ok {
		return reading.ErrReadingNotFound
	}
	r.data[rd.ID] = *rd
	return nil
}

// GetByID fetches a reading, nil when absent or deleted.
func (r *ReadingRepository) GetByID(ctx context.Context, id string) (*reading.UtilityReading, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	rd, ok := r.data[id]
	if !ok || rd.IsDeleted {
		return nil, nil
	}
	copy := rd
	return &copy, nil
}

// FindByRoomAndMonth returns nil without error when absent.
func (r *ReadingRepository) FindByRoomAndMonth(ctx context.Context, roomID string, month reading.Month) (*reading.UtilityReading, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rd := range r.data {
		if !rd.IsDeleted && rd.RoomID == roomID && rd.Month == month {
			copy := rd
			return &copy, nil
		}
	}
	return nil, nil
}

// ListByMonth returns the month's readings ordered by room id.
func (r *ReadingRepository) ListByMonth(ctx context.Context, month reading.Month) ([]reading.UtilityReading, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []reading.UtilityReading
	for _, rd := range r.data {
		if !rd.IsDeleted && rd.Month == month {
			result = append(result, rd)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RoomID < result[j].RoomID })
	return result, nil
}

// SoftDelete marks a reading deleted.
func (r *ReadingRepository) SoftDelete(ctx context.Context, id string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	rd, ok := r.data[id]
	if !ok {
		return reading.ErrReadingNotFound
	}
	rd.IsDeleted = true
	rd.UpdatedAt = time.Now().UTC()
	r.data[id] = rd
	return nil
}
