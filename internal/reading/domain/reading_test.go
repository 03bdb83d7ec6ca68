package reading

import (
	"errors"
	"testing"
	"time"
)

func int64Ptr(v int64) *int64 { return &v }

func TestConsumption(t *testing.T) {
	cases := []struct {
		name      string
		start     int64
		end       *int64
		want      int64
		wantKnown bool
		wantErr   error
	}{
		{name: "normal delta", start: 100, end: int64Ptr(130), want: 30, wantKnown: true},
		{name: "zero delta", start: 50, end: int64Ptr(50), want: 0, wantKnown: true},
		{name: "zero start zero end", start: 0, end: int64Ptr(0), want: 0, wantKnown: true},
		{name: "unread meter", start: 100, end: nil, wantKnown: false},
		{name: "rollback rejected", start: 50, end: int64Ptr(40), wantErr: ErrInvalidMeterReading},
		{name: "negative start rejected", start: -1, end: int64Ptr(10), wantErr: ErrNegativeMeterValue},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, known, err := Consumption(tc.start, tc.end)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if known != tc.wantKnown {
				t.Fatalf("expected known=%v, got %v", tc.wantKnown, known)
			}
			if known && got != tc.want {
				t.Fatalf("expected consumption %d, got %d", tc.want, got)
			}
		})
	}
}

func TestNewUtilityReading_RejectsRollbackAtWriteTime(t *testing.T) {
	now := time.Now().UTC()
	_, err := NewUtilityReading("r-1", "room-1", "2026-03", 50, int64Ptr(40), 10, int64Ptr(13), now)
	if !errors.Is(err, ErrInvalidMeterReading) {
		t.Fatalf("expected ErrInvalidMeterReading, got %v", err)
	}
}

func TestNewUtilityReading_AllowsUnreadEnd(t *testing.T) {
	now := time.Now().UTC()
	r, err := NewUtilityReading("r-1", "room-1", "2026-03", 100, nil, 10, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Complete() {
		t.Fatal("reading with unread meters must not be complete")
	}
	if _, known := r.ElectricityConsumption(); known {
		t.Fatal("consumption must be unknown while end is unread")
	}
}

func TestUpdateMeters_RejectsRollback(t *testing.T) {
	now := time.Now().UTC()
	r, err := NewUtilityReading("r-1", "room-1", "2026-03", 100, nil, 10, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.UpdateMeters(100, int64Ptr(90), 10, int64Ptr(13), now); !errors.Is(err, ErrInvalidMeterReading) {
		t.Fatalf("expected ErrInvalidMeterReading, got %v", err)
	}
	// The failed update must not have touched the reading.
	if r.ElectricityEnd != nil {
		t.Fatal("failed update must leave meters untouched")
	}
}

func TestParseMonth(t *testing.T) {
	cases := []struct {
		value string
		ok    bool
	}{
		{"2026-01", true},
		{"2026-12", true},
		{"2026-13", false},
		{"2026-1", false},
		{"202601", false},
		{"", false},
		{"2026-01-02", false},
	}
	for _, tc := range cases {
		_, err := ParseMonth(tc.value)
		if tc.ok && err != nil {
			t.Fatalf("ParseMonth(%q): unexpected error %v", tc.value, err)
		}
		if !tc.ok && !errors.Is(err, ErrMonthFormatInvalid) {
			t.Fatalf("ParseMonth(%q): expected ErrMonthFormatInvalid, got %v", tc.value, err)
		}
	}
}

func TestMonthNext(t *testing.T) {
	m, err := ParseMonth("2026-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Next().String() != "2027-01" {
		t.Fatalf("expected 2027-01, got %s", m.Next())
	}
}
