package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mdsxf1029/Sports-reservation-backend-sub000/internal/service/booking"
	"github.com/mdsxf1029/Sports-reservation-backend-sub000/internal/store"
)

type bookingService interface {
	Confirm(ctx context.Context, in booking.ConfirmInput) (booking.ConfirmResult, error)
}

type BookingHandler struct {
	svc bookingService
	log *slog.Logger
}

func NewBookingHandler(svc bookingService, log *slog.Logger) *BookingHandler {
	if log == nil {
		log = slog.Default()
	}
	return &BookingHandler{
		svc: svc,
		log: log.With(slog.String("component", "http.booking")),
	}
}

type confirmItemRequest struct {
	VenueID    int64  `json:"venueId"`
	TimeSlotID int64  `json:"timeSlotId"`
	Date       string `json:"date"`
	Status     string `json:"status"`
}

type confirmRequest struct {
	Date  string               `json:"date"`
	Items []confirmItemRequest `json:"items"`
}

func (h *BookingHandler) Confirm(c *gin.Context) {
	log := h.log.With(slog.String("handler", "Confirm"))

	userID, ok := requestUserID(c)
	if !ok {
		log.Warn("confirm without resolved identity")
		c.JSON(http.StatusUnauthorized, errorBody("authorization required"))
		return
	}

	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request body", slog.Any("err", err), slog.Int64("user_id", userID))
		c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	items := make([]booking.ConfirmItem, 0, len(req.Items))
	for _, item := range req.Items {
		date := item.Date
		if date == "" {
			date = req.Date
		}
		items = append(items, booking.ConfirmItem{
			VenueID:    item.VenueID,
			TimeSlotID: item.TimeSlotID,
			Date:       date,
			Status:     item.Status,
		})
	}

	result, err := h.svc.Confirm(c.Request.Context(), booking.ConfirmInput{
		UserID: userID,
		Items:  items,
	})
	if err != nil {
		var conflictErr *booking.ConflictError
		if errors.As(err, &conflictErr) {
			log.Info("booking conflict",
				slog.Int64("user_id", userID),
				slog.Int64("venue_id", conflictErr.VenueID),
				slog.Int64("time_slot_id", conflictErr.TimeSlotID),
				slog.String("date", conflictErr.Date),
			)
			c.JSON(http.StatusConflict, errorBody(conflictErr.Error()))
			return
		}
		var notFoundErr *booking.NotFoundError
		if errors.As(err, &notFoundErr) {
			log.Info("booking target not found", slog.Any("err", err), slog.Int64("user_id", userID))
			c.JSON(http.StatusNotFound, errorBody(notFoundErr.Error()))
			return
		}
		var vErr *booking.ValidationError
		if errors.As(err, &vErr) {
			log.Warn("invalid request", slog.Any("err", err), slog.Int64("user_id", userID))
			c.JSON(http.StatusBadRequest, errorBody(vErr.Error()))
			return
		}
		if errors.Is(err, store.ErrSlotTaken) {
			c.JSON(http.StatusConflict, errorBody("slot already taken"))
			return
		}
		log.Error("booking confirm failed", slog.Any("err", err), slog.Int64("user_id", userID))
		c.JSON(http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	log.Info("booking confirmed",
		slog.Int64("user_id", userID),
		slog.Int("items", len(result.Appointments)),
	)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.Appointments,
	})
}
