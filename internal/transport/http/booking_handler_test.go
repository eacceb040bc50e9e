package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdsxf1029/Sports-reservation-backend-sub000/internal/auth"
	"github.com/mdsxf1029/Sports-reservation-backend-sub000/internal/domain"
	"github.com/mdsxf1029/Sports-reservation-backend-sub000/internal/service/availability"
	"github.com/mdsxf1029/Sports-reservation-backend-sub000/internal/service/booking"
)

const testSecret = "test-secret"

type stubBookingService struct {
	confirmFn func(ctx context.Context, in booking.ConfirmInput) (booking.ConfirmResult, error)

	gotInput booking.ConfirmInput
}

func (s *stubBookingService) Confirm(ctx context.Context, in booking.ConfirmInput) (booking.ConfirmResult, error) {
	s.gotInput = in
	if s.confirmFn == nil {
		return booking.ConfirmResult{}, nil
	}
	return s.confirmFn(ctx, in)
}

type stubAvailabilityService struct {
	openDayFn func(ctx context.Context, date string) (int64, error)
}

func (s *stubAvailabilityService) ListTimeSlots(ctx context.Context) ([]domain.TimeSlot, error) {
	return nil, nil
}

func (s *stubAvailabilityService) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	return nil, nil
}

func (s *stubAvailabilityService) LockedCells(ctx context.Context, date string) ([]domain.LockedCell, error) {
	return []domain.LockedCell{{VenueID: 5, TimeSlotID: 1}}, nil
}

func (s *stubAvailabilityService) Check(ctx context.Context, venueID, timeSlotID int64, date string) (availability.CheckResult, error) {
	return availability.CheckAvailable, nil
}

func (s *stubAvailabilityService) OpenDay(ctx context.Context, date string) (int64, error) {
	if s.openDayFn == nil {
		return 0, nil
	}
	return s.openDayFn(ctx, date)
}

func newTestRouter(t *testing.T, bookingSvc bookingService, availabilitySvc availabilityService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return InitRoutes(
		RouterConfig{JWTSecret: testSecret, RequestTimeout: 5 * time.Second},
		NewAvailabilityHandler(availabilitySvc, nil),
		NewBookingHandler(bookingSvc, nil),
	)
}

func bearerToken(t *testing.T, userID int64, role string) string {
	t.Helper()
	token, err := auth.CreateAccessToken(testSecret, userID, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestConfirmEndpoint_RequiresAuth(t *testing.T) {
	router := newTestRouter(t, &stubBookingService{}, &stubAvailabilityService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/confirm",
		strings.NewReader(`{"items":[{"venueId":5,"timeSlotId":1,"date":"2024-06-01"}]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestConfirmEndpoint_Success(t *testing.T) {
	svc := &stubBookingService{
		confirmFn: func(ctx context.Context, in booking.ConfirmInput) (booking.ConfirmResult, error) {
			return booking.ConfirmResult{Appointments: []domain.Appointment{{
				Status:    domain.AppointmentStatusUpcoming,
				BeginTime: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
			}}}, nil
		},
	}
	router := newTestRouter(t, svc, &stubAvailabilityService{})

	body := `{"date":"2024-06-01","items":[{"venueId":5,"timeSlotId":1,"date":"2024-06-01","status":"upcoming"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/confirm", strings.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, 7, auth.RoleUser))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	assert.Equal(t, int64(7), svc.gotInput.UserID)
	require.Len(t, svc.gotInput.Items, 1)
	assert.Equal(t, int64(5), svc.gotInput.Items[0].VenueID)
	assert.Equal(t, "2024-06-01", svc.gotInput.Items[0].Date)
}

func TestConfirmEndpoint_ItemInheritsBatchDate(t *testing.T) {
	svc := &stubBookingService{}
	router := newTestRouter(t, svc, &stubAvailabilityService{})

	body := `{"date":"2024-06-01","items":[{"venueId":5,"timeSlotId":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/confirm", strings.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, 7, auth.RoleUser))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, svc.gotInput.Items, 1)
	assert.Equal(t, "2024-06-01", svc.gotInput.Items[0].Date)
}

func TestConfirmEndpoint_ConflictMapsTo409(t *testing.T) {
	svc := &stubBookingService{
		confirmFn: func(ctx context.Context, in booking.ConfirmInput) (booking.ConfirmResult, error) {
			return booking.ConfirmResult{}, &booking.ConflictError{
				Index: 0, VenueID: 5, TimeSlotID: 1, Date: "2024-06-01",
			}
		},
	}
	router := newTestRouter(t, svc, &stubAvailabilityService{})

	body := `{"items":[{"venueId":5,"timeSlotId":1,"date":"2024-06-01"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/confirm", strings.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, 7, auth.RoleUser))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "venue=5")
}

func TestConfirmEndpoint_ValidationMapsTo400(t *testing.T) {
	svc := &stubBookingService{
		confirmFn: func(ctx context.Context, in booking.ConfirmInput) (booking.ConfirmResult, error) {
			return booking.ConfirmResult{}, svcValidationError()
		},
	}
	router := newTestRouter(t, svc, &stubAvailabilityService{})

	body := `{"items":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/confirm", strings.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, 7, auth.RoleUser))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// svcValidationError obtains a *booking.ValidationError through the service's
// own validation path since the type is not constructible from outside.
func svcValidationError() error {
	svc := booking.NewService(nil, nil, 0)
	_, err := svc.Confirm(context.Background(), booking.ConfirmInput{UserID: 7})
	return err
}

func TestOpenDayEndpoint_RequiresAdminRole(t *testing.T) {
	router := newTestRouter(t, &stubBookingService{}, &stubAvailabilityService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/days/open",
		strings.NewReader(`{"date":"2024-06-01"}`))
	req.Header.Set("Authorization", bearerToken(t, 7, auth.RoleUser))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOpenDayEndpoint_AdminSucceeds(t *testing.T) {
	availabilitySvc := &stubAvailabilityService{
		openDayFn: func(ctx context.Context, date string) (int64, error) {
			return 13, nil
		},
	}
	router := newTestRouter(t, &stubBookingService{}, availabilitySvc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/days/open",
		strings.NewReader(`{"date":"2024-06-01"}`))
	req.Header.Set("Authorization", bearerToken(t, 1, auth.RoleAdmin))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Created int64 `json:"created"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(13), resp.Data.Created)
}

func TestLockedCellsEndpoint_PublicRead(t *testing.T) {
	router := newTestRouter(t, &stubBookingService{}, &stubAvailabilityService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability/locked-cells?date=2024-06-01", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool                `json:"success"`
		Data    []domain.LockedCell `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, int64(5), resp.Data[0].VenueID)
}
