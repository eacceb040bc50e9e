package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mdsxf1029/Sports-reservation-backend-sub000/internal/domain"
	"github.com/mdsxf1029/Sports-reservation-backend-sub000/internal/service/availability"
)

type availabilityService interface {
	ListTimeSlots(ctx context.Context) ([]domain.TimeSlot, error)
	ListVenues(ctx context.Context) ([]domain.Venue, error)
	LockedCells(ctx context.Context, date string) ([]domain.LockedCell, error)
	Check(ctx context.Context, venueID, timeSlotID int64, date string) (availability.CheckResult, error)
	OpenDay(ctx context.Context, date string) (int64, error)
}

type AvailabilityHandler struct {
	svc availabilityService
	log *slog.Logger
}

func NewAvailabilityHandler(svc availabilityService, log *slog.Logger) *AvailabilityHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AvailabilityHandler{
		svc: svc,
		log: log.With(slog.String("component", "http.availability")),
	}
}

func (h *AvailabilityHandler) ListTimeSlots(c *gin.Context) {
	slots, err := h.svc.ListTimeSlots(c.Request.Context())
	if err != nil {
		h.log.Error("time slots list failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": slots})
}

func (h *AvailabilityHandler) ListVenues(c *gin.Context) {
	venues, err := h.svc.ListVenues(c.Request.Context())
	if err != nil {
		h.log.Error("venues list failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": venues})
}

func (h *AvailabilityHandler) LockedCells(c *gin.Context) {
	cells, err := h.svc.LockedCells(c.Request.Context(), c.Query("date"))
	if err != nil {
		var vErr *availability.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, errorBody(vErr.Error()))
			return
		}
		h.log.Error("locked cells failed", slog.Any("err", err), slog.String("date", c.Query("date")))
		c.JSON(http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": cells})
}

func (h *AvailabilityHandler) Check(c *gin.Context) {
	venueID, err := strconv.ParseInt(c.Query("venueId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("venueId must be an integer"))
		return
	}
	timeSlotID, err := strconv.ParseInt(c.Query("timeSlotId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("timeSlotId must be an integer"))
		return
	}

	result, err := h.svc.Check(c.Request.Context(), venueID, timeSlotID, c.Query("date"))
	if err != nil {
		var vErr *availability.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, errorBody(vErr.Error()))
			return
		}
		h.log.Error("slot check failed", slog.Any("err", err),
			slog.Int64("venue_id", venueID), slog.Int64("time_slot_id", timeSlotID))
		c.JSON(http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"status": result}})
}

type openDayRequest struct {
	Date string `json:"date" binding:"required"`
}

func (h *AvailabilityHandler) OpenDay(c *gin.Context) {
	var req openDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("date is required"))
		return
	}

	created, err := h.svc.OpenDay(c.Request.Context(), req.Date)
	if err != nil {
		var vErr *availability.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, errorBody(vErr.Error()))
			return
		}
		h.log.Error("open day failed", slog.Any("err", err), slog.String("date", req.Date))
		c.JSON(http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	h.log.Info("day opened", slog.String("date", req.Date), slog.Int64("created", created))
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"created": created}})
}
