package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/mdsxf1029/Sports-reservation-backend-sub000/internal/domain"
	"github.com/mdsxf1029/Sports-reservation-backend-sub000/internal/store"
)

type BookingRepo struct {
	db *bun.DB
}

func NewBookingRepo(db *bun.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

type bookingTx struct {
	tx bun.Tx
}

func (r *BookingRepo) ListTimeSlots(ctx context.Context) ([]domain.TimeSlot, error) {
	var rows []domain.TimeSlot
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("begin_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	var rows []domain.Venue
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) LockedCells(ctx context.Context, day time.Time) ([]domain.LockedCell, error) {
	var rows []domain.VenueTimeSlot
	err := r.db.NewSelect().
		Model(&rows).
		Column("venue_id", "time_slot_id").
		Where("slot_date = ?", normalizeDay(day)).
		Where("status = ?", domain.SlotStatusBusy).
		OrderExpr("venue_id ASC, time_slot_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.LockedCell, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.LockedCell{VenueID: row.VenueID, TimeSlotID: row.TimeSlotID})
	}
	return out, nil
}

func (r *BookingRepo) CheckSlot(ctx context.Context, venueID, timeSlotID int64, day time.Time) (domain.SlotStatus, error) {
	var row domain.VenueTimeSlot
	err := r.db.NewSelect().
		Model(&row).
		Where("venue_id = ?", venueID).
		Where("time_slot_id = ?", timeSlotID).
		Where("slot_date = ?", normalizeDay(day)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", store.ErrNotFound
		}
		return "", err
	}
	return row.Status, nil
}

func (r *BookingRepo) OpenDay(ctx context.Context, day time.Time) (int64, error) {
	res, err := r.db.NewRaw(
		`INSERT INTO venue_time_slots (venue_id, time_slot_id, slot_date, status, actual_number)
		 SELECT v.id, t.id, ?, ?, 0
		 FROM venues v CROSS JOIN time_slots t
		 WHERE v.status = ?
		 ON CONFLICT (venue_id, time_slot_id, slot_date) DO NOTHING`,
		normalizeDay(day), domain.SlotStatusAvailable, domain.VenueStatusOpen,
	).Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *BookingRepo) InBookingTx(ctx context.Context, fn func(ctx context.Context, tx store.BookingTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, bookingTx{tx: tx})
	})
}

func (r bookingTx) GetTimeSlot(ctx context.Context, id int64) (domain.TimeSlot, error) {
	var row domain.TimeSlot
	err := r.tx.NewSelect().
		Model(&row).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TimeSlot{}, store.ErrNotFound
		}
		return domain.TimeSlot{}, err
	}
	return row, nil
}

func (r bookingTx) GetVenue(ctx context.Context, id int64) (domain.Venue, error) {
	var row domain.Venue
	err := r.tx.NewSelect().
		Model(&row).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Venue{}, store.ErrNotFound
		}
		return domain.Venue{}, err
	}
	return row, nil
}

// LockVenueSlot loads the availability row under FOR UPDATE. Concurrent
// transactions targeting the same (venue, time slot, date) serialize here,
// so at most one of them can observe the row available.
func (r bookingTx) LockVenueSlot(ctx context.Context, venueID, timeSlotID int64, day time.Time) (domain.VenueTimeSlot, error) {
	var row domain.VenueTimeSlot
	err := r.tx.NewSelect().
		Model(&row).
		Where("venue_id = ?", venueID).
		Where("time_slot_id = ?", timeSlotID).
		Where("slot_date = ?", normalizeDay(day)).
		For("UPDATE").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.VenueTimeSlot{}, store.ErrNotFound
		}
		return domain.VenueTimeSlot{}, err
	}
	return row, nil
}

func (r bookingTx) MarkSlotBusy(ctx context.Context, slotID int64) error {
	res, err := r.tx.NewUpdate().
		Model((*domain.VenueTimeSlot)(nil)).
		Set("status = ?", domain.SlotStatusBusy).
		Set("actual_number = actual_number + 1").
		Where("id = ?", slotID).
		Where("status = ?", domain.SlotStatusAvailable).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrSlotTaken
	}
	return nil
}

func (r bookingTx) CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	_, err := r.tx.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		return domain.Appointment{}, err
	}
	return m, nil
}

func (r bookingTx) CreateUserAppointment(ctx context.Context, rel domain.UserAppointment) error {
	_, err := r.tx.NewInsert().Model(&rel).Exec(ctx)
	return err
}

func (r bookingTx) CreateVenueAppointment(ctx context.Context, rel domain.VenueAppointment) error {
	_, err := r.tx.NewInsert().Model(&rel).Exec(ctx)
	return err
}

func (r bookingTx) CreateBill(ctx context.Context, bill domain.Bill) (domain.Bill, error) {
	m := bill
	_, err := r.tx.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		return domain.Bill{}, err
	}
	return m, nil
}

// normalizeDay truncates t to midnight UTC so every caller addresses a slot
// date with the same canonical value.
func normalizeDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
