package availability

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

// CheckResult is the advisory answer for one (venue, time slot, date) cell.
type CheckResult string

const (
	CheckAvailable CheckResult = "available"
	CheckBusy      CheckResult = "busy"
	CheckNotFound  CheckResult = "not_found"
)

type Service struct {
	repo  store.BookingRepository
	cache store.AvailabilityCache
}

// NewService builds the availability read service. cache may be nil.
func NewService(repo store.BookingRepository, cache store.AvailabilityCache) *Service {
	return &Service{repo: repo, cache: cache}
}

func (s *Service) ListTimeSlots(ctx context.Context) ([]domain.TimeSlot, error) {
	return s.repo.ListTimeSlots(ctx)
}

func (s *Service) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	return s.repo.ListVenues(ctx)
}

// LockedCells returns every (venue, time slot) pair that is busy on the
// given date. The result is a snapshot and may be stale by the time the
// caller acts on it; the booking path re-validates under lock.
func (s *Service) LockedCells(ctx context.Context, date string) ([]domain.LockedCell, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, validationError("date must be YYYY-MM-DD")
	}

	if s.cache != nil {
		if cells, ok, err := s.cache.GetLockedCells(ctx, day); err == nil && ok {
			return cells, nil
		}
	}

	cells, err := s.repo.LockedCells(ctx, day)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetLockedCells(ctx, day, cells)
	}
	return cells, nil
}

// Check is a pre-flight probe for UI responsiveness only; it takes no locks
// and must not be relied on for correctness.
func (s *Service) Check(ctx context.Context, venueID, timeSlotID int64, date string) (CheckResult, error) {
	if venueID <= 0 {
		return "", validationError("venue_id must be positive")
	}
	if timeSlotID <= 0 {
		return "", validationError("time_slot_id must be positive")
	}
	day, err := parseDate(date)
	if err != nil {
		return "", validationError("date must be YYYY-MM-DD")
	}

	status, err := s.repo.CheckSlot(ctx, venueID, timeSlotID, day)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return CheckNotFound, nil
		}
		return "", err
	}
	if status == domain.SlotStatusBusy {
		return CheckBusy, nil
	}
	return CheckAvailable, nil
}

// OpenDay materializes available cells for every open venue and time slot on
// the given date. Idempotent; returns how many new cells were created.
func (s *Service) OpenDay(ctx context.Context, date string) (int64, error) {
	day, err := parseDate(date)
	if err != nil {
		return 0, validationError("date must be YYYY-MM-DD")
	}

	created, err := s.repo.OpenDay(ctx, day)
	if err != nil {
		return 0, err
	}

	if s.cache != nil && created > 0 {
		_ = s.cache.InvalidateDay(ctx, day)
	}
	return created, nil
}

func parseDate(s string) (time.Time, error) {
	day, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return day.UTC(), nil
}
