package store

import (
	"context"
	"time"

	"github.com/mdsxf1029/Sports-reservation-backend-sub000/internal/domain"
)

// BookingRepository is the storage surface for the booking core. Read
// methods are advisory point-in-time snapshots; every mutation goes through
// InBookingTx so the check-and-flip on a venue_time_slots row is indivisible
// with respect to concurrent callers.
type BookingRepository interface {
	ListTimeSlots(ctx context.Context) ([]domain.TimeSlot, error)
	ListVenues(ctx context.Context) ([]domain.Venue, error)
	LockedCells(ctx context.Context, day time.Time) ([]domain.LockedCell, error)
	CheckSlot(ctx context.Context, venueID, timeSlotID int64, day time.Time) (domain.SlotStatus, error)

	// OpenDay materializes available venue_time_slots rows for every open
	// venue and every time slot on the given date. Idempotent; returns the
	// number of rows created.
	OpenDay(ctx context.Context, day time.Time) (int64, error)

	// InBookingTx runs fn inside one database transaction. If fn returns an
	// error every write performed through the BookingTx is discarded.
	InBookingTx(ctx context.Context, fn func(ctx context.Context, tx BookingTx) error) error
}

// BookingTx is the transaction-scoped surface used by the booking
// coordinator. LockVenueSlot takes a row-level exclusive lock, so a slot
// observed available stays available until this transaction ends.
type BookingTx interface {
	GetTimeSlot(ctx context.Context, id int64) (domain.TimeSlot, error)
	GetVenue(ctx context.Context, id int64) (domain.Venue, error)
	LockVenueSlot(ctx context.Context, venueID, timeSlotID int64, day time.Time) (domain.VenueTimeSlot, error)
	MarkSlotBusy(ctx context.Context, slotID int64) error

	CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	CreateUserAppointment(ctx context.Context, rel domain.UserAppointment) error
	CreateVenueAppointment(ctx context.Context, rel domain.VenueAppointment) error
	CreateBill(ctx context.Context, bill domain.Bill) (domain.Bill, error)
}

// AvailabilityCache holds per-day snapshots of locked cells. A miss is not
// an error; the caller falls through to the repository.
type AvailabilityCache interface {
	GetLockedCells(ctx context.Context, day time.Time) ([]domain.LockedCell, bool, error)
	SetLockedCells(ctx context.Context, day time.Time, cells []domain.LockedCell) error
	InvalidateDay(ctx context.Context, day time.Time) error
}
