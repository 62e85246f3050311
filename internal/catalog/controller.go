package catalog

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

// PRODUCTS

func (c *Controller) CreateProduct(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	var req CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	product, err := c.service.CreateProduct(ctx.Request.Context(), orgID, req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to create product", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Product created successfully", product, nil)
}

func (c *Controller) GetProduct(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid product ID", nil, err.Error())
		return
	}

	detail, err := c.service.GetProduct(ctx.Request.Context(), orgID, id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrProductNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to get product", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Product retrieved successfully", detail, nil)
}

func (c *Controller) ListProducts(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	var query ProductListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.ListProducts(ctx.Request.Context(), orgID, query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list products", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Products retrieved successfully", result, nil)
}

func (c *Controller) UpdateProduct(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid product ID", nil, err.Error())
		return
	}

	var req UpdateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	product, err := c.service.UpdateProduct(ctx.Request.Context(), orgID, id, req)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrProductNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to update product", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Product updated successfully", product, nil)
}

func (c *Controller) DeleteProduct(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid product ID", nil, err.Error())
		return
	}

	if err := c.service.DeleteProduct(ctx.Request.Context(), orgID, id); err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrProductNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to delete product", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Product deleted successfully", nil, nil)
}

// VARIANTS

func (c *Controller) CreateVariant(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	productID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid product ID", nil, err.Error())
		return
	}

	var req CreateVariantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	variant, err := c.service.CreateVariant(ctx.Request.Context(), orgID, productID, req)
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, ErrProductNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to create variant", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Variant created successfully", variant, nil)
}

func (c *Controller) UpdateVariant(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid variant ID", nil, err.Error())
		return
	}

	var req UpdateVariantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	variant, err := c.service.UpdateVariant(ctx.Request.Context(), orgID, id, req)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrVariantNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to update variant", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Variant updated successfully", variant, nil)
}

func (c *Controller) DeleteVariant(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid variant ID", nil, err.Error())
		return
	}

	if err := c.service.DeleteVariant(ctx.Request.Context(), orgID, id); err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrVariantNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to delete variant", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Variant deleted successfully", nil, nil)
}

// TAXES

func (c *Controller) CreateTax(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	productID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid product ID", nil, err.Error())
		return
	}

	var req CreateTaxRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	tax, err := c.service.CreateTax(ctx.Request.Context(), orgID, productID, req)
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, ErrProductNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to create tax", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Tax created successfully", tax, nil)
}

func (c *Controller) DeleteTax(ctx *gin.Context) {
	orgID, ok := middleware.GetOrgID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Organization not found in context", nil, nil)
		return
	}

	id, err := uuid.Parse(ctx.Param("taxId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid tax ID", nil, err.Error())
		return
	}

	if err := c.service.DeleteTax(ctx.Request.Context(), orgID, id); err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete tax", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Tax deleted successfully", nil, nil)
}
