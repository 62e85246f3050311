package inventory

import "github.com/google/uuid"

// SetAllocationRequest creates or updates allocation buckets for every date
// in [start_date, end_date]. Quantity null means freesale.
type SetAllocationRequest struct {
	VariantID  uuid.UUID `json:"variant_id" binding:"required"`
	SupplierID uuid.UUID `json:"supplier_id" binding:"required"`
	StartDate  string    `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate    string    `json:"end_date" binding:"required,datetime=2006-01-02"`
	Quantity   *int      `json:"quantity" binding:"omitempty,min=0"`
	UnitCost   float64   `json:"unit_cost" binding:"omitempty,min=0"`
	Currency   string    `json:"currency" binding:"omitempty,len=3"`
	StopSell   bool      `json:"stop_sell"`
	Blackout   bool      `json:"blackout"`
}

type CalendarQuery struct {
	VariantID  string `form:"variant_id" binding:"required,uuid"`
	SupplierID string `form:"supplier_id" binding:"required,uuid"`
	From       string `form:"from" binding:"required,datetime=2006-01-02"`
	To         string `form:"to" binding:"required,datetime=2006-01-02"`
}
