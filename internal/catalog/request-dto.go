package catalog

type CreateProductRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=255"`
	Description string `json:"description" binding:"max=2000"`
	ProductType string `json:"product_type" binding:"required,oneof=hotel ticket transfer tour"`
	Destination string `json:"destination" binding:"max=255"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Destination *string `json:"destination" binding:"omitempty,max=255"`
	Active      *bool   `json:"active"`
}

type CreateVariantRequest struct {
	Name   string `json:"name" binding:"required,min=2,max=255"`
	MaxPax int    `json:"max_pax" binding:"omitempty,min=1,max=100"`
}

type UpdateVariantRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=2,max=255"`
	MaxPax *int    `json:"max_pax" binding:"omitempty,min=1,max=100"`
	Active *bool   `json:"active"`
}

type CreateTaxRequest struct {
	Name      string  `json:"name" binding:"required,min=2,max=255"`
	RateType  string  `json:"rate_type" binding:"required,oneof=percentage fixed"`
	CalcBase  string  `json:"calc_base" binding:"required"`
	Value     float64 `json:"value" binding:"required,min=0"`
	Inclusive bool    `json:"inclusive"`
}

type ProductListQuery struct {
	Page        int    `form:"page" binding:"omitempty,min=1"`
	Limit       int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search      string `form:"search"`
	ProductType string `form:"product_type" binding:"omitempty,oneof=hotel ticket transfer tour"`
	Destination string `form:"destination"`
	ActiveOnly  bool   `form:"active_only"`
}
