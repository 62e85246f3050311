package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Status is the booking lifecycle state.
// Requested -> Held -> Confirmed; Held -> Released (cancel) or Expired
// (sweep); Requested -> Rejected when no supplier qualifies.
type Status string

const (
	StatusRequested Status = "REQUESTED"
	StatusHeld      Status = "HELD"
	StatusConfirmed Status = "CONFIRMED"
	StatusReleased  Status = "RELEASED"
	StatusExpired   Status = "EXPIRED"
	StatusRejected  Status = "REJECTED"
)

// Booking is one reservation attempt and its outcome. BookingRef is the
// handle the ledger tracks holds under; it is unique per org.
type Booking struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrgID      uuid.UUID `json:"org_id" gorm:"type:uuid;not null;index"`
	BookingRef string    `json:"booking_ref" gorm:"not null;size:32"`
	VariantID  uuid.UUID `json:"variant_id" gorm:"type:uuid;not null;index"`
	SupplierID uuid.UUID `json:"supplier_id" gorm:"type:uuid"`
	CheckIn    time.Time `json:"check_in" gorm:"type:date;not null"`
	CheckOut   time.Time `json:"check_out" gorm:"type:date;not null"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	Adults     int       `json:"adults" gorm:"not null"`
	Children   int       `json:"children" gorm:"default:0"`
	Status     Status    `json:"status" gorm:"type:varchar(20);not null;index"`
	TotalPrice float64   `json:"total_price" gorm:"not null;default:0"`
	Currency   string    `json:"currency" gorm:"type:char(3);not null;default:'USD'"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// PartySize counts everyone occupying the unit
func (b *Booking) PartySize() int {
	return b.Adults + b.Children
}

// Candidate is a supplier the selection step judged able to cover the stay
type Candidate struct {
	SupplierID   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	RatePlanID   uuid.UUID `json:"rate_plan_id"`
	Priority     int       `json:"priority"`
	CostPrice    float64   `json:"cost_price"`
	SellPrice    float64   `json:"sell_price"`
	Currency     string    `json:"currency"`
}

func (Booking) TableName() string {
	return "bookings"
}
