package domain

import (
	"time"

	"github.com/uptrace/bun"
)

type VenueStatus string

const (
	VenueStatusOpen   VenueStatus = "open"
	VenueStatusClosed VenueStatus = "closed"
)

// Venue is administrative reference data. The booking path reads it for
// pricing and never mutates it.
type Venue struct {
	bun.BaseModel `bun:"table:venues"`

	ID        int64       `bun:"id,pk,autoincrement" json:"id"`
	Name      string      `bun:"name,notnull" json:"name"`
	Subname   string      `bun:"subname" json:"subname"`
	Capacity  int         `bun:"capacity,notnull" json:"capacity"`
	Status    VenueStatus `bun:"status,notnull" json:"status"`
	Price     int64       `bun:"price,notnull" json:"price"`
	CreatedAt time.Time   `bun:"created_at,nullzero,notnull,default:now()" json:"createdAt"`
}

// TimeSlot is a canonical recurring daily window. Only the time-of-day
// component of BeginTime/EndTime is meaningful; the stored date part is a
// fixed reference day.
type TimeSlot struct {
	bun.BaseModel `bun:"table:time_slots"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	BeginTime time.Time `bun:"begin_time,notnull" json:"beginTime"`
	EndTime   time.Time `bun:"end_time,notnull" json:"endTime"`
}
