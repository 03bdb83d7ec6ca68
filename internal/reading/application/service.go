package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"nhatro-cloud/internal/observability/metrics"
	reading "nhatro-cloud/internal/reading/domain"
	room "nhatro-cloud/internal/room/domain"
)

// RoomLookup resolves room references at the service boundary.
type RoomLookup interface {
	GetByID(ctx context.Context, id string) (*room.Room, error)
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// MeterValues carries one submission of start/end pairs. A nil end means
// the meter has not been read yet.
type MeterValues struct {
	ElectricityStart int64
	ElectricityEnd   *int64
	WaterStart       int64
	WaterEnd         *int64
}

// ReadingService records and maintains monthly utility readings.
type ReadingService struct {
	repo  reading.Repository
	rooms RoomLookup
	clock Clock
}

// NewReadingService constructs a reading service.
func NewReadingService(repo reading.Repository, rooms RoomLookup, clock Clock) (*ReadingService, error) {
	if repo == nil {
		return nil, errors.New("reading service: nil repository")
	}
	if rooms == nil {
		return nil, errors.New("reading service: nil room lookup")
	}
	if clock == nil {
		return nil, errors.New("reading service: nil clock")
	}
	return &ReadingService{repo: repo, rooms: rooms, clock: clock}, nil
}

// Record validates and stores a new reading for a room and month. The
// room reference is resolved here, once; a reading for a room that does
// not exist is refused.
func (s *ReadingService) Record(ctx context.Context, ref room.Ref, monthValue string, values MeterValues) (*reading.UtilityReading, error) {
	result := metrics.ResultSuccess
	defer func() { metrics.IncReadingWrite(result) }()

	month, err := reading.ParseMonth(monthValue)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	resolved, err := ref.Resolve(func(id string) (room.Room, error) {
		rm, err := s.rooms.GetByID(ctx, id)
		if err != nil {
			return room.Room{}, err
		}
		if rm == nil {
			return room.Room{}, room.ErrRoomNotFound
		}
		return *rm, nil
	})
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	existing, err := s.repo.FindByRoomAndMonth(ctx, resolved.ID, month)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if existing != nil {
		result = metrics.ResultError
		return nil, reading.ErrDuplicateReading
	}

	rd, err := reading.NewUtilityReading(newReadingID(), resolved.ID, month,
		values.ElectricityStart, values.ElectricityEnd,
		values.WaterStart, values.WaterEnd, s.clock.Now().UTC())
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if err := s.repo.Create(ctx, rd); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	return rd, nil
}

// Amend replaces the meter values of an existing reading, re-running the
// same validation as the initial write.
func (s *ReadingService) Amend(ctx context.Context, id string, values MeterValues) (*reading.UtilityReading, error) {
	result := metrics.ResultSuccess
	defer func() { metrics.IncReadingWrite(result) }()

	rd, err := s.repo.GetByID(ctx, id)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if rd == nil {
		result = metrics.ResultError
		return nil, reading.ErrReadingNotFound
	}
	err = rd.UpdateMeters(values.ElectricityStart, values.ElectricityEnd,
		values.WaterStart, values.WaterEnd, s.clock.Now().UTC())
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if err := s.repo.Update(ctx, rd); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	return rd, nil
}

// Get loads one reading by id.
func (s *ReadingService) Get(ctx context.Context, id string) (*reading.UtilityReading, error) {
	rd, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rd == nil {
		return nil, reading.ErrReadingNotFound
	}
	return rd, nil
}

// MonthReadings lists all readings of a month.
func (s *ReadingService) MonthReadings(ctx context.Context, monthValue string) ([]reading.UtilityReading, error) {
	month, err := reading.ParseMonth(monthValue)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByMonth(ctx, month)
}

// Remove soft-deletes a reading.
func (s *ReadingService) Remove(ctx context.Context, id string) error {
	result := metrics.ResultSuccess
	defer func() { metrics.IncReadingWrite(result) }()
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		result = metrics.ResultError
		return err
	}
	return nil
}

func newReadingID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return "urd-" + hex.EncodeToString(buf)
}
