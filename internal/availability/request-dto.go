package availability

import (
	"time"

	"github.com/google/uuid"
)

// SearchQuery is the HTTP query surface of the availability search
type SearchQuery struct {
	CheckIn      string   `form:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut     string   `form:"check_out" binding:"required,datetime=2006-01-02"`
	Adults       int      `form:"adults" binding:"required,min=1"`
	Children     int      `form:"children" binding:"omitempty,min=0"`
	Destination  string   `form:"destination"`
	ProductTypes []string `form:"product_types"`
}

// SearchParams is the resolved internal form
type SearchParams struct {
	OrgID        uuid.UUID
	CheckIn      time.Time
	CheckOut     time.Time
	Adults       int
	Children     int
	Destination  string
	ProductTypes []string
}

// PartySize is adults + children; occupancy brackets count both
func (p SearchParams) PartySize() int {
	return p.Adults + p.Children
}

// Nights is the number of occupied nights in [CheckIn, CheckOut)
func (p SearchParams) Nights() int {
	return int(p.CheckOut.Sub(p.CheckIn).Hours() / 24)
}
