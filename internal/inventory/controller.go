package inventory

import (
	"errors"
	"net/http"
	"time"

	"tourops/internal/shared/middleware"
	"tourops/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// SetAllocations creates or updates allocation buckets over a date range.
// POST /api/v1/allocations
func (c *Controller) SetAllocations(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	var req SetAllocationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	count, err := c.service.SetAllocations(ctx.Request.Context(), orgID, req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to set allocations", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Allocations updated successfully",
		gin.H{"buckets": count}, nil)
}

// GetCalendar returns the per-date ledger view for one variant/supplier pair.
// GET /api/v1/availability/calendar?variant_id=...&supplier_id=...&from=...&to=...
func (c *Controller) GetCalendar(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	var query CalendarQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	variantID, _ := uuid.Parse(query.VariantID)
	supplierID, _ := uuid.Parse(query.SupplierID)
	from, _ := time.Parse(dateLayout, query.From)
	to, _ := time.Parse(dateLayout, query.To)

	if !from.Before(to) {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "from must precede to", nil, nil)
		return
	}

	days, err := c.service.GetCalendar(ctx.Request.Context(), orgID, variantID, supplierID, from, to)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrBucketNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to load calendar", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Calendar retrieved successfully", days, nil)
}
