package suppliers

import "github.com/google/uuid"

type CreateSupplierRequest struct {
	Name   string `json:"name" binding:"required,min=2,max=255"`
	Status string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type UpdateSupplierRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=2,max=255"`
	Status *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type CreateSeasonRequest struct {
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
	DowMask   string `json:"dow_mask" binding:"omitempty,len=7"`
	MinStay   int    `json:"min_stay" binding:"omitempty,min=0"`
	MaxStay   int    `json:"max_stay" binding:"omitempty,min=0"`
}

type CreateOccupancyRequest struct {
	MinOccupancy    int     `json:"min_occupancy" binding:"required,min=1"`
	MaxOccupancy    int     `json:"max_occupancy" binding:"required,min=1"`
	PricingModel    string  `json:"pricing_model" binding:"required,oneof=fixed base_plus_pax per_person"`
	BaseAmount      float64 `json:"base_amount" binding:"min=0"`
	PerPersonAmount float64 `json:"per_person_amount" binding:"omitempty,min=0"`
}

type CreateRatePlanRequest struct {
	SupplierID     uuid.UUID                `json:"supplier_id" binding:"required"`
	VariantID      uuid.UUID                `json:"variant_id" binding:"required"`
	ValidFrom      string                   `json:"valid_from" binding:"required,datetime=2006-01-02"`
	ValidTo        string                   `json:"valid_to" binding:"required,datetime=2006-01-02"`
	Currency       string                   `json:"currency" binding:"required,len=3"`
	InventoryModel string                   `json:"inventory_model" binding:"required,oneof=committed on_request freesale"`
	Preferred      bool                     `json:"preferred"`
	Priority       int                      `json:"priority"`
	BaseCost       float64                  `json:"base_cost" binding:"min=0"`
	BasePrice      float64                  `json:"base_price" binding:"min=0"`
	Seasons        []CreateSeasonRequest    `json:"seasons" binding:"omitempty,dive"`
	Occupancies    []CreateOccupancyRequest `json:"occupancies" binding:"omitempty,dive"`
}
