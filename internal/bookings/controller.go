package bookings

import (
	"errors"
	"net/http"

	"tourops/internal/inventory"
	"tourops/internal/shared/middleware"
	"tourops/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// PlaceHold reserves inventory for a stay.
// POST /api/v1/bookings/hold
func (c *Controller) PlaceHold(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	var req HoldRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	result, err := c.service.PlaceHold(ctx.Request.Context(), orgID, req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to place hold", nil, err.Error())
		return
	}

	if result.Status == StatusRejected {
		response.RespondJSON(ctx, "success", http.StatusConflict, "No supplier can cover the requested stay", result, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Hold placed successfully", result, nil)
}

// ConfirmBooking converts a held booking into a confirmed one.
// POST /api/v1/bookings/:ref/confirm
func (c *Controller) ConfirmBooking(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	bookingRef := ctx.Param("ref")

	booking, err := c.service.ConfirmBooking(ctx.Request.Context(), orgID, bookingRef)
	if err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, inventory.ErrHoldNotFound):
			statusCode = http.StatusNotFound
		case errors.Is(err, inventory.ErrHoldExpired):
			statusCode = http.StatusGone
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to confirm booking", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking confirmed successfully", booking, nil)
}

// CancelHold releases a held booking back to inventory.
// POST /api/v1/bookings/:ref/cancel
func (c *Controller) CancelHold(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	bookingRef := ctx.Param("ref")

	booking, err := c.service.CancelHold(ctx.Request.Context(), orgID, bookingRef)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrBookingNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to cancel booking", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", booking, nil)
}

// GetBooking returns one booking by reference.
// GET /api/v1/bookings/:ref
func (c *Controller) GetBooking(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), orgID, ctx.Param("ref"))
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrBookingNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to get booking", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// ListBookings returns the org's bookings, newest first.
// GET /api/v1/bookings
func (c *Controller) ListBookings(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.ListBookings(ctx.Request.Context(), orgID, query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list bookings", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", result, nil)
}
