package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mdsxf1029/Sports-reservation-backend-sub000/internal/domain"
	"github.com/mdsxf1029/Sports-reservation-backend-sub000/internal/store"
)

const dateLayout = "2006-01-02"

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// ConflictError reports that one item of a batch targeted a slot that is
// already busy. The whole batch was discarded.
type ConflictError struct {
	Index      int
	VenueID    int64
	TimeSlotID int64
	Date       string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot venue=%d time_slot=%d date=%s is already taken (item %d)",
		e.VenueID, e.TimeSlotID, e.Date, e.Index)
}

func (e *ConflictError) Unwrap() error {
	return store.ErrSlotTaken
}

// NotFoundError reports that one item referenced an unknown time slot or an
// availability row that was never opened. The whole batch was discarded.
type NotFoundError struct {
	Index      int
	What       string
	VenueID    int64
	TimeSlotID int64
	Date       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found for venue=%d time_slot=%d date=%s (item %d)",
		e.What, e.VenueID, e.TimeSlotID, e.Date, e.Index)
}

func (e *NotFoundError) Unwrap() error {
	return store.ErrNotFound
}

type Service struct {
	repo              store.BookingRepository
	cache             store.AvailabilityCache
	defaultBillAmount int64
}

// NewService builds the booking coordinator. cache may be nil when Redis is
// not configured.
func NewService(repo store.BookingRepository, cache store.AvailabilityCache, defaultBillAmount int64) *Service {
	return &Service{repo: repo, cache: cache, defaultBillAmount: defaultBillAmount}
}

type ConfirmItem struct {
	VenueID    int64
	TimeSlotID int64
	Date       string
	Status     string
}

type ConfirmInput struct {
	UserID int64
	Items  []ConfirmItem
}

type ConfirmResult struct {
	Appointments []domain.Appointment
}

type confirmItem struct {
	venueID    int64
	timeSlotID int64
	day        time.Time
	status     domain.AppointmentStatus
}

// Confirm validates a batch of slot selections and commits them as one
// atomic unit. Items are processed in request order and the first failure
// aborts the whole batch; on success every item has produced exactly one
// Appointment, UserAppointment, VenueAppointment and Bill, and the targeted
// availability rows are busy.
func (s *Service) Confirm(ctx context.Context, in ConfirmInput) (ConfirmResult, error) {
	if in.UserID <= 0 {
		return ConfirmResult{}, validationError("user_id must be positive")
	}
	if len(in.Items) == 0 {
		return ConfirmResult{}, validationError("items must not be empty")
	}

	items := make([]confirmItem, 0, len(in.Items))
	for i, raw := range in.Items {
		if raw.VenueID <= 0 {
			return ConfirmResult{}, validationError("item %d: venue_id must be positive", i)
		}
		if raw.TimeSlotID <= 0 {
			return ConfirmResult{}, validationError("item %d: time_slot_id must be positive", i)
		}
		day, err := parseDate(raw.Date)
		if err != nil {
			return ConfirmResult{}, validationError("item %d: date must be YYYY-MM-DD", i)
		}

		status := domain.AppointmentStatus(strings.TrimSpace(raw.Status))
		if status == "" {
			status = domain.AppointmentStatusUpcoming
		}
		if !domain.ValidAppointmentStatus(status) {
			return ConfirmResult{}, validationError("item %d: unknown status %q", i, raw.Status)
		}

		items = append(items, confirmItem{
			venueID:    raw.VenueID,
			timeSlotID: raw.TimeSlotID,
			day:        day,
			status:     status,
		})
	}

	applyTime := time.Now().UTC()
	var created []domain.Appointment

	err := s.repo.InBookingTx(ctx, func(ctx context.Context, tx store.BookingTx) error {
		created = created[:0]
		for i, item := range items {
			appt, err := s.confirmOne(ctx, tx, in.UserID, i, item, applyTime)
			if err != nil {
				return err
			}
			created = append(created, appt)
		}
		return nil
	})
	if err != nil {
		return ConfirmResult{}, err
	}

	s.invalidateDays(ctx, items)

	return ConfirmResult{Appointments: created}, nil
}

func (s *Service) confirmOne(ctx context.Context, tx store.BookingTx, userID int64, index int, item confirmItem, applyTime time.Time) (domain.Appointment, error) {
	dateStr := item.day.Format(dateLayout)

	slot, err := tx.GetTimeSlot(ctx, item.timeSlotID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Appointment{}, &NotFoundError{
				Index: index, What: "time slot",
				VenueID: item.venueID, TimeSlotID: item.timeSlotID, Date: dateStr,
			}
		}
		return domain.Appointment{}, err
	}

	cell, err := tx.LockVenueSlot(ctx, item.venueID, item.timeSlotID, item.day)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Appointment{}, &NotFoundError{
				Index: index, What: "venue time slot",
				VenueID: item.venueID, TimeSlotID: item.timeSlotID, Date: dateStr,
			}
		}
		return domain.Appointment{}, err
	}
	if cell.Status != domain.SlotStatusAvailable {
		return domain.Appointment{}, &ConflictError{
			Index: index, VenueID: item.venueID, TimeSlotID: item.timeSlotID, Date: dateStr,
		}
	}

	appt, err := tx.CreateAppointment(ctx, domain.Appointment{
		Status:    item.status,
		ApplyTime: applyTime,
		BeginTime: combineDateAndTime(item.day, slot.BeginTime),
		EndTime:   combineDateAndTime(item.day, slot.EndTime),
	})
	if err != nil {
		return domain.Appointment{}, err
	}

	if err := tx.MarkSlotBusy(ctx, cell.ID); err != nil {
		return domain.Appointment{}, err
	}

	if err := tx.CreateUserAppointment(ctx, domain.UserAppointment{
		AppointmentID: appt.ID,
		UserID:        userID,
	}); err != nil {
		return domain.Appointment{}, err
	}
	if err := tx.CreateVenueAppointment(ctx, domain.VenueAppointment{
		AppointmentID: appt.ID,
		VenueID:       item.venueID,
	}); err != nil {
		return domain.Appointment{}, err
	}

	venue, err := tx.GetVenue(ctx, item.venueID)
	if err != nil {
		return domain.Appointment{}, err
	}
	if _, err := tx.CreateBill(ctx, domain.Bill{
		AppointmentID: appt.ID,
		UserID:        userID,
		Status:        domain.BillStatusPending,
		Amount:        s.billAmount(venue),
	}); err != nil {
		return domain.Appointment{}, err
	}

	return appt, nil
}

func (s *Service) billAmount(venue domain.Venue) int64 {
	if venue.Price > 0 {
		return venue.Price
	}
	return s.defaultBillAmount
}

// invalidateDays drops the locked-cells cache for every day touched by a
// committed batch. Cache failures are not booking failures.
func (s *Service) invalidateDays(ctx context.Context, items []confirmItem) {
	if s.cache == nil {
		return
	}
	seen := make(map[time.Time]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.day]; ok {
			continue
		}
		seen[item.day] = struct{}{}
		_ = s.cache.InvalidateDay(ctx, item.day)
	}
}

// combineDateAndTime builds an absolute timestamp from a calendar date and
// the time-of-day component of a canonical slot time.
func combineDateAndTime(day, clock time.Time) time.Time {
	c := clock.UTC()
	return time.Date(day.Year(), day.Month(), day.Day(),
		c.Hour(), c.Minute(), c.Second(), 0, time.UTC)
}

func parseDate(s string) (time.Time, error) {
	day, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return day.UTC(), nil
}
