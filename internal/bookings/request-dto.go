package bookings

import "github.com/google/uuid"

// HoldRequest asks for quantity units of a variant across a stay window
type HoldRequest struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	CheckIn   string    `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut  string    `json:"check_out" binding:"required,datetime=2006-01-02"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
	Adults    int       `json:"adults" binding:"required,min=1"`
	Children  int       `json:"children" binding:"omitempty,min=0"`
}

type BookingListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status string `form:"status" binding:"omitempty,oneof=REQUESTED HELD CONFIRMED RELEASED EXPIRED REJECTED"`
}
