package application

import (
	"context"
	"errors"
	"testing"
	"time"

	reading "nhatro-cloud/internal/reading/domain"
	readingmemory "nhatro-cloud/internal/reading/infrastructure/memory"
	room "nhatro-cloud/internal/room/domain"
	roommemory "nhatro-cloud/internal/room/infrastructure/memory"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func int64Ptr(v int64) *int64 { return &v }

func newService(t *testing.T) (*ReadingService, *roommemory.RoomRepository) {
	t.Helper()
	rooms := roommemory.NewRoomRepository()
	err := rooms.Create(context.Background(), &room.Room{
		ID:       "room-1",
		Number:   "101",
		Status:   room.StatusFull,
		TenantID: "tenant-1",
		Price:    3000000,
	})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	svc, err := NewReadingService(readingmemory.NewReadingRepository(), rooms,
		fixedClock{now: time.Date(2026, time.March, 31, 18, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, rooms
}

func TestRecord_StoresReading(t *testing.T) {
	svc, _ := newService(t)
	rd, err := svc.Record(context.Background(), room.RefByID("room-1"), "2026-03", MeterValues{
		ElectricityStart: 100,
		ElectricityEnd:   int64Ptr(130),
		WaterStart:       10,
		WaterEnd:         int64Ptr(13),
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rd.RoomID != "room-1" || rd.Month.String() != "2026-03" {
		t.Fatalf("unexpected reading: %+v", rd)
	}
	if got, known := rd.ElectricityConsumption(); !known || got != 30 {
		t.Fatalf("electricity consumption: got %d known=%v", got, known)
	}
}

func TestRecord_UnknownRoom(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Record(context.Background(), room.RefByID("room-404"), "2026-03", MeterValues{})
	if !errors.Is(err, room.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestRecord_RejectsRollbackAtWriteTime(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Record(context.Background(), room.RefByID("room-1"), "2026-03", MeterValues{
		ElectricityStart: 130,
		ElectricityEnd:   int64Ptr(100),
		WaterStart:       10,
		WaterEnd:         int64Ptr(13),
	})
	if !errors.Is(err, reading.ErrInvalidMeterReading) {
		t.Fatalf("expected ErrInvalidMeterReading, got %v", err)
	}
}

func TestRecord_DuplicateMonth(t *testing.T) {
	svc, _ := newService(t)
	values := MeterValues{ElectricityStart: 100, WaterStart: 10}
	if _, err := svc.Record(context.Background(), room.RefByID("room-1"), "2026-03", values); err != nil {
		t.Fatalf("first record: %v", err)
	}
	_, err := svc.Record(context.Background(), room.RefByID("room-1"), "2026-03", values)
	if !errors.Is(err, reading.ErrDuplicateReading) {
		t.Fatalf("expected ErrDuplicateReading, got %v", err)
	}
}

func TestRecord_InlineRefSkipsLookup(t *testing.T) {
	svc, rooms := newService(t)
	// The inline record is trusted as-is; no lookup happens.
	if err := rooms.SoftDelete(context.Background(), "room-1"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	_, err := svc.Record(context.Background(), room.RefInline(room.Room{ID: "room-1", Number: "101"}), "2026-04", MeterValues{
		ElectricityStart: 130,
		WaterStart:       13,
	})
	if err != nil {
		t.Fatalf("record with inline ref: %v", err)
	}
}

func TestAmend_Revalidates(t *testing.T) {
	svc, _ := newService(t)
	rd, err := svc.Record(context.Background(), room.RefByID("room-1"), "2026-03", MeterValues{
		ElectricityStart: 100,
		WaterStart:       10,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	_, err = svc.Amend(context.Background(), rd.ID, MeterValues{
		ElectricityStart: 100,
		ElectricityEnd:   int64Ptr(90),
		WaterStart:       10,
	})
	if !errors.Is(err, reading.ErrInvalidMeterReading) {
		t.Fatalf("expected ErrInvalidMeterReading, got %v", err)
	}

	got, err := svc.Amend(context.Background(), rd.ID, MeterValues{
		ElectricityStart: 100,
		ElectricityEnd:   int64Ptr(130),
		WaterStart:       10,
		WaterEnd:         int64Ptr(13),
	})
	if err != nil {
		t.Fatalf("amend: %v", err)
	}
	if !got.Complete() {
		t.Fatalf("reading should be complete after both ends are read")
	}
}

func TestRemove_ThenGoneFromMonth(t *testing.T) {
	svc, _ := newService(t)
	rd, err := svc.Record(context.Background(), room.RefByID("room-1"), "2026-03", MeterValues{
		ElectricityStart: 100,
		WaterStart:       10,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := svc.Remove(context.Background(), rd.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	list, err := svc.MonthReadings(context.Background(), "2026-03")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("removed reading still listed: %+v", list)
	}
}
