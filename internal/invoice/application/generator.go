package application

import (
	"context"
	"errors"
	"time"

	invoice "nhatro-cloud/internal/invoice/domain"
	"nhatro-cloud/internal/observability/metrics"
	reading "nhatro-cloud/internal/reading/domain"
	room "nhatro-cloud/internal/room/domain"
	settings "nhatro-cloud/internal/settings/domain"
)

// RoomDirectory lists the rooms billable for a month.
type RoomDirectory interface {
	ListBillable(ctx context.Context) ([]room.Room, error)
}

// ReadingLedger looks up a room's utility reading for a month.
type ReadingLedger interface {
	FindByRoomAndMonth(ctx context.Context, roomID string, month reading.Month) (*reading.UtilityReading, error)
}

// SettingsSource returns the current pricing settings.
type SettingsSource interface {
	Current(ctx context.Context) (settings.Settings, error)
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// RoomResult records the outcome of one room within a generation run.
type RoomResult struct {
	RoomID   string `json:"roomId"`
	RoomName string `json:"roomName"`
	Reason   string `json:"reason,omitempty"`
}

// BatchResult reports what one generation run did per room. A missing
// reading blocks that room only; the rest of the batch proceeds.
type BatchResult struct {
	Month   reading.Month `json:"month"`
	Created []RoomResult  `json:"created"`
	Skipped []RoomResult  `json:"skipped"`
	Failed  []RoomResult  `json:"failed"`
}

// Generator produces one pending invoice per billable room for a month.
type Generator struct {
	rooms    RoomDirectory
	readings ReadingLedger
	settings SettingsSource
	repo     invoice.Repository
	dueDay   int
	clock    Clock
}

// NewGenerator constructs a generator. dueDay is the day of the
// following month on which invoices fall due.
func NewGenerator(rooms RoomDirectory, readings ReadingLedger, settingsSource SettingsSource, repo invoice.Repository, dueDay int, clock Clock) (*Generator, error) {
	if rooms == nil {
		return nil, errors.New("invoice generator: nil room directory")
	}
	if readings == nil {
		return nil, errors.New("invoice generator: nil reading ledger")
	}
	if settingsSource == nil {
		return nil, errors.New("invoice generator: nil settings source")
	}
	if repo == nil {
		return nil, errors.New("invoice generator: nil repository")
	}
	if dueDay < 1 || dueDay > 28 {
		return nil, errors.New("invoice generator: due day out of range")
	}
	if clock == nil {
		return nil, errors.New("invoice generator: nil clock")
	}
	return &Generator{rooms: rooms, readings: readings, settings: settingsSource, repo: repo, dueDay: dueDay, clock: clock}, nil
}

// GenerateMonth runs one batch for the month. Re-running is idempotent:
// rooms with an existing non-deleted invoice are skipped, never
// overwritten. Settings are snapshotted once so a concurrent settings
// update cannot split the batch across two price lists. Callers must
// serialize concurrent runs for the same month; the repository's
// uniqueness on (room, month) backstops the race.
func (g *Generator) GenerateMonth(ctx context.Context, monthValue string) (*BatchResult, error) {
	start := g.clock.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveGenerateMonth(result, g.clock.Now().Sub(start))
	}()

	month, err := reading.ParseMonth(monthValue)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	snapshot, err := g.settings.Current(ctx)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if err := snapshot.Validate(); err != nil {
		result = metrics.ResultError
		return nil, err
	}

	billable, err := g.rooms.ListBillable(ctx)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	batch := &BatchResult{Month: month}
	dueDate := g.dueDate(month)
	now := g.clock.Now()

	for _, rm := range billable {
		outcome, reason, err := g.generateRoom(ctx, rm, month, snapshot, dueDate, now)
		entry := RoomResult{RoomID: rm.ID, RoomName: rm.Number, Reason: reason}
		switch outcome {
		case metrics.RoomOutcomeCreated:
			batch.Created = append(batch.Created, entry)
		case metrics.RoomOutcomeSkipped:
			batch.Skipped = append(batch.Skipped, entry)
		default:
			if err != nil && entry.Reason == "" {
				entry.Reason = err.Error()
			}
			batch.Failed = append(batch.Failed, entry)
		}
		metrics.AddGenerateRoomOutcome(outcome, 1)
	}
	return batch, nil
}

func (g *Generator) generateRoom(ctx context.Context, rm room.Room, month reading.Month, snapshot settings.Settings, dueDate, now time.Time) (string, string, error) {
	existing, err := g.repo.FindByRoomAndMonth(ctx, rm.ID, month)
	if err != nil {
		return metrics.RoomOutcomeFailed, "", err
	}
	if existing != nil {
		return metrics.RoomOutcomeSkipped, "already billed", nil
	}

	rd, err := g.readings.FindByRoomAndMonth(ctx, rm.ID, month)
	if err != nil {
		return metrics.RoomOutcomeFailed, "", err
	}
	// Billing zero for unread meters would silently undercharge, so a
	// missing or incomplete reading blocks this room and is reported.
	if rd == nil || !rd.Complete() {
		return metrics.RoomOutcomeMissingReading, invoice.ErrMissingUtilityReading.Error(), invoice.ErrMissingUtilityReading
	}

	electricity, _ := rd.ElectricityConsumption()
	water, _ := rd.WaterConsumption()

	inv, err := invoice.New(
		rm.ID,
		rm.Number,
		month,
		rm.Price,
		electricity*snapshot.ElectricityUnitPrice,
		water*snapshot.WaterUnitPrice,
		snapshot.GarbageCharge,
		dueDate,
		now,
	)
	if err != nil {
		return metrics.RoomOutcomeFailed, "", err
	}

	if err := g.repo.Create(ctx, inv); err != nil {
		if errors.Is(err, invoice.ErrDuplicateInvoice) {
			// Lost a race with a concurrent run; the room is billed either way.
			return metrics.RoomOutcomeSkipped, "already billed", nil
		}
		return metrics.RoomOutcomeFailed, "", err
	}
	return metrics.RoomOutcomeCreated, "", nil
}

// dueDate places the deadline on dueDay of the month after the billed one.
func (g *Generator) dueDate(month reading.Month) time.Time {
	return month.Next().Start().AddDate(0, 0, g.dueDay-1)
}
