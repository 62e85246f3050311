package rates

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"tourops/internal/shared/middleware"
	"tourops/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type Controller struct {
	resolver Resolver
}

func NewController(resolver Resolver) *Controller {
	return &Controller{resolver: resolver}
}

type rateQuery struct {
	variantID uuid.UUID
	date      time.Time
	partySize int
}

func parseRateQuery(ctx *gin.Context) (*rateQuery, string) {
	variantID, err := uuid.Parse(ctx.Query("variant_id"))
	if err != nil {
		return nil, "variant_id query parameter is required"
	}

	date, err := time.Parse(dateLayout, ctx.Query("date"))
	if err != nil {
		return nil, "date query parameter must be YYYY-MM-DD"
	}

	partySize := 0
	if raw := ctx.Query("party_size"); raw != "" {
		partySize, err = strconv.Atoi(raw)
		if err != nil || partySize < 0 {
			return nil, "party_size must be a non-negative integer"
		}
	}

	return &rateQuery{variantID: variantID, date: date, partySize: partySize}, ""
}

// GetMasterRate resolves the selling rate for one variant-night.
// GET /api/v1/rates/master?variant_id=...&date=2026-07-01&party_size=2
func (c *Controller) GetMasterRate(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	query, errMsg := parseRateQuery(ctx)
	if errMsg != "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, errMsg, nil, nil)
		return
	}

	master, err := c.resolver.ResolveMasterRate(ctx.Request.Context(), orgID, query.variantID, query.date, query.partySize)
	if err != nil {
		if errors.Is(err, ErrNoRate) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "No applicable rate for this date", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to resolve rate", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Master rate resolved successfully", master, nil)
}

// GetSupplierRates lists every supplier's rate for one variant-night.
// GET /api/v1/rates/suppliers?variant_id=...&date=2026-07-01&party_size=2
func (c *Controller) GetSupplierRates(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	query, errMsg := parseRateQuery(ctx)
	if errMsg != "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, errMsg, nil, nil)
		return
	}

	rates, err := c.resolver.ResolveSupplierRates(ctx.Request.Context(), orgID, query.variantID, query.date, query.partySize)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to resolve supplier rates", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Supplier rates resolved successfully", rates, nil)
}
