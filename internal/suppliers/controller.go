package suppliers

import (
	"errors"
	"net/http"

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

// SUPPLIERS

func (c *Controller) CreateSupplier(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	var req CreateSupplierRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	supplier, err := c.service.CreateSupplier(ctx.Request.Context(), orgID, req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to create supplier", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Supplier created successfully", supplier, nil)
}

func (c *Controller) GetSupplier(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid supplier ID", nil, err.Error())
		return
	}

	supplier, err := c.service.GetSupplier(ctx.Request.Context(), orgID, id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrSupplierNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to get supplier", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Supplier retrieved successfully", supplier, nil)
}

func (c *Controller) ListSuppliers(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	activeOnly := ctx.Query("active_only") == "true"

	suppliers, err := c.service.ListSuppliers(ctx.Request.Context(), orgID, activeOnly)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list suppliers", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Suppliers retrieved successfully", suppliers, nil)
}

func (c *Controller) UpdateSupplier(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid supplier ID", nil, err.Error())
		return
	}

	var req UpdateSupplierRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	supplier, err := c.service.UpdateSupplier(ctx.Request.Context(), orgID, id, req)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrSupplierNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to update supplier", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Supplier updated successfully", supplier, nil)
}

func (c *Controller) DeleteSupplier(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid supplier ID", nil, err.Error())
		return
	}

	if err := c.service.DeleteSupplier(ctx.Request.Context(), orgID, id); err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrSupplierNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to delete supplier", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Supplier deleted successfully", nil, nil)
}

// RATE PLANS

func (c *Controller) CreateRatePlan(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	var req CreateRatePlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	plan, err := c.service.CreateRatePlan(ctx.Request.Context(), orgID, req)
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, ErrSupplierNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to create rate plan", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Rate plan created successfully", plan, nil)
}

func (c *Controller) GetRatePlan(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid rate plan ID", nil, err.Error())
		return
	}

	plan, err := c.service.GetRatePlan(ctx.Request.Context(), orgID, id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrRatePlanNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to get rate plan", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Rate plan retrieved successfully", plan, nil)
}

func (c *Controller) ListRatePlans(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	variantID, err := uuid.Parse(ctx.Query("variant_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "variant_id query parameter is required", nil, err.Error())
		return
	}

	plans, err := c.service.ListRatePlansByVariant(ctx.Request.Context(), orgID, variantID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list rate plans", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Rate plans retrieved successfully", plans, nil)
}

func (c *Controller) DeleteRatePlan(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid rate plan ID", nil, err.Error())
		return
	}

	if err := c.service.DeleteRatePlan(ctx.Request.Context(), orgID, id); err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrRatePlanNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to delete rate plan", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Rate plan deleted successfully", nil, nil)
}
