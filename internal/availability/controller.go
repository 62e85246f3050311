package availability

import (
	"net/http"
	"time"

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

// Search runs the availability search for the authenticated org.
// GET /api/v1/availability/search?check_in=...&check_out=...&adults=2
func (c *Controller) Search(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	var query SearchQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	checkIn, _ := time.Parse(dateLayout, query.CheckIn)
	checkOut, _ := time.Parse(dateLayout, query.CheckOut)
	if !checkIn.Before(checkOut) {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "check_in must precede check_out", nil, nil)
		return
	}

	params := SearchParams{
		OrgID:        orgID,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		Adults:       query.Adults,
		Children:     query.Children,
		Destination:  query.Destination,
		ProductTypes: query.ProductTypes,
	}

	results, err := c.service.Search(ctx.Request.Context(), params)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Search failed", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Search completed successfully", SearchResponse{
		CheckIn:  query.CheckIn,
		CheckOut: query.CheckOut,
		Results:  results,
	}, nil)
}
