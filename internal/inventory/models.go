package inventory

import (
	"time"

	"github.com/google/uuid"
)

// UnlimitedAvailable is the reported availability of a freesale bucket
// (quantity NULL). Large enough to never lose a min() against real stock.
const UnlimitedAvailable = 1 << 30

// AllocationBucket is one night of inventory for a (variant, supplier) pair.
// quantity NULL means freesale: holds are never blocked on stock.
// Counters only move through guarded conditional updates; the row is never
// read-modified-written.
type AllocationBucket struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrgID      uuid.UUID `json:"org_id" gorm:"type:uuid;not null;index"`
	VariantID  uuid.UUID `json:"variant_id" gorm:"type:uuid;not null;index"`
	SupplierID uuid.UUID `json:"supplier_id" gorm:"type:uuid;not null;index"`
	Date       time.Time `json:"date" gorm:"type:date;not null"`
	Quantity   *int      `json:"quantity"`
	Booked     int       `json:"booked" gorm:"not null;default:0"`
	Held       int       `json:"held" gorm:"not null;default:0"`
	UnitCost   float64   `json:"unit_cost" gorm:"not null;default:0"`
	Currency   string    `json:"currency" gorm:"type:char(3);not null;default:'USD'"`
	StopSell   bool      `json:"stop_sell" gorm:"default:false"`
	Blackout   bool      `json:"blackout" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Available returns the sellable count: quantity - booked - held, or
// UnlimitedAvailable for freesale. Stop-sell and blackout report zero.
func (b *AllocationBucket) Available() int {
	if b.StopSell || b.Blackout {
		return 0
	}
	if b.Quantity == nil {
		return UnlimitedAvailable
	}
	avail := *b.Quantity - b.Booked - b.Held
	if avail < 0 {
		return 0
	}
	return avail
}

// AllocationHold reserves quantity units of one bucket under a booking
// reference until expires_at. Commit converts it to booked; release or the
// expiry sweep returns it to the pool.
type AllocationHold struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrgID      uuid.UUID `json:"org_id" gorm:"type:uuid;not null;index:idx_allocation_holds_booking_ref"`
	BucketID   uuid.UUID `json:"bucket_id" gorm:"type:uuid;not null;index"`
	BookingRef string    `json:"booking_ref" gorm:"not null;size:32;index:idx_allocation_holds_booking_ref"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// DayAvailability is one date of the ledger view returned by GetAvailability
type DayAvailability struct {
	Date      time.Time `json:"date"`
	Quantity  *int      `json:"quantity"`
	Booked    int       `json:"booked"`
	Held      int       `json:"held"`
	Available int       `json:"available"`
	StopSell  bool      `json:"stop_sell"`
	Blackout  bool      `json:"blackout"`
}

// ExpiredHold identifies a hold the sweep released, so booking records can be
// marked expired
type ExpiredHold struct {
	OrgID      uuid.UUID
	BookingRef string
}

func (AllocationBucket) TableName() string {
	return "allocation_buckets"
}

func (AllocationHold) TableName() string {
	return "allocation_holds"
}
