package domain

import (
	"time"

	"github.com/uptrace/bun"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBusy      SlotStatus = "busy"
)

// VenueTimeSlot is the bookable state of one venue's instance of one time
// slot on one calendar date. Rows are materialized when a day is opened for
// booking and flip available -> busy when a booking commits. A busy row stays
// busy; release is handled elsewhere.
type VenueTimeSlot struct {
	bun.BaseModel `bun:"table:venue_time_slots"`

	ID           int64      `bun:"id,pk,autoincrement" json:"id"`
	VenueID      int64      `bun:"venue_id,notnull" json:"venueId"`
	TimeSlotID   int64      `bun:"time_slot_id,notnull" json:"timeSlotId"`
	SlotDate     time.Time  `bun:"slot_date,notnull" json:"slotDate"`
	Status       SlotStatus `bun:"status,notnull" json:"status"`
	ActualNumber int        `bun:"actual_number,notnull" json:"actualNumber"`
}

// LockedCell identifies a (venue, time slot) pair that is busy on some date.
// The calendar UI joins these against the time-slot catalog.
type LockedCell struct {
	VenueID    int64 `json:"venueId"`
	TimeSlotID int64 `json:"timeSlotId"`
}
