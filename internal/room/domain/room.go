package room

import "time"

const (
	StatusAvailable = "AVAILABLE"
	StatusFull      = "FULL"
)

// Room is a rentable unit. Price and Deposit are monthly VND amounts.
type Room struct {
	ID             string
	Number         string
	Status         string
	TenantID       string
	Price          int64
	Deposit        int64
	IsDepositPaid  bool
	CurrentTenants int
	MoveInDate     time.Time
	MoveOutDate    time.Time
	IsDeleted      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Occupied reports whether the room is billable for a month: it has a
// tenant assigned. Mid-month move-in/out is billed as a full month.
func (r Room) Occupied() bool {
	return !r.IsDeleted && r.TenantID != "" && r.Status == StatusFull
}

// Ref points at a room either by id or with the loaded record. Upstream
// data historically carried both shapes; resolution happens once at the
// data-access boundary, never in business logic.
type Ref struct {
	id     string
	inline *Room
}

// RefByID builds a reference carrying only the room id.
func RefByID(id string) Ref { return Ref{id: id} }

// RefInline builds a reference carrying a loaded room.
func RefInline(r Room) Ref { return Ref{id: r.ID, inline: &r} }

// ID returns the referenced room id.
func (ref Ref) ID() string { return ref.id }

// Room returns the inline record when present.
func (ref Ref) Room() (Room, bool) {
	if ref.inline == nil {
		return Room{}, false
	}
	return *ref.inline, true
}

// Resolve returns the inline record or loads it through the lookup.
func (ref Ref) Resolve(lookup func(id string) (Room, error)) (Room, error) {
	if ref.inline != nil {
		return *ref.inline, nil
	}
	if ref.id == "" {
		return Room{}, ErrEmptyRoomID
	}
	return lookup(ref.id)
}
