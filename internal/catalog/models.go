package catalog

import (
	"time"

	"github.com/google/uuid"
)

type ProductType string

const (
	ProductTypeHotel    ProductType = "hotel"
	ProductTypeTicket   ProductType = "ticket"
	ProductTypeTransfer ProductType = "transfer"
	ProductTypeTour     ProductType = "tour"
)

func (t ProductType) Valid() bool {
	switch t {
	case ProductTypeHotel, ProductTypeTicket, ProductTypeTransfer, ProductTypeTour:
		return true
	}
	return false
}

// Product is a sellable catalog entry owned by one organization
type Product struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrgID       uuid.UUID   `json:"org_id" gorm:"type:uuid;not null;index"`
	Name        string      `json:"name" gorm:"not null;size:255"`
	Description string      `json:"description" gorm:"type:text"`
	ProductType ProductType `json:"product_type" gorm:"type:varchar(20);not null;index"`
	Destination string      `json:"destination" gorm:"size:255;index"`
	Active      bool        `json:"active" gorm:"default:true"`

	Variants []ProductVariant `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Taxes    []ProductTax     `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// ProductVariant is the unit that rates and inventory attach to
// (e.g. "Deluxe Room", "VIP Ticket"). Identity is immutable; name and
// attributes are editable by catalog editors.
type ProductVariant struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrgID     uuid.UUID `json:"org_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	MaxPax    int       `json:"max_pax" gorm:"default:0"` // 0 = no cap
	Active    bool      `json:"active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type TaxRateType string

const (
	TaxRateTypePercentage TaxRateType = "percentage"
	TaxRateTypeFixed      TaxRateType = "fixed"
)

type TaxCalcBase string

const (
	TaxCalcPerPersonPerNight TaxCalcBase = "per_person_per_night"
	TaxCalcPerBooking        TaxCalcBase = "per_booking"
)

// ProductTax is a tax or fee applied to a product's sell price.
// Exclusive taxes add to the total; inclusive taxes are informational.
type ProductTax struct {
	ID        uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrgID     uuid.UUID   `json:"org_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID   `json:"product_id" gorm:"type:uuid;not null;index"`
	Name      string      `json:"name" gorm:"not null;size:255"`
	RateType  TaxRateType `json:"rate_type" gorm:"type:varchar(20);not null"`
	CalcBase  TaxCalcBase `json:"calc_base" gorm:"type:varchar(30);not null"`
	Value     float64     `json:"value" gorm:"not null;check:value >= 0"`
	Inclusive bool        `json:"inclusive" gorm:"default:false"`
	Active    bool        `json:"active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// VariantCandidate is the flattened product/variant row the availability
// search fans out over
type VariantCandidate struct {
	VariantID   uuid.UUID   `json:"variant_id"`
	ProductID   uuid.UUID   `json:"product_id"`
	VariantName string      `json:"variant_name"`
	ProductName string      `json:"product_name"`
	ProductType ProductType `json:"product_type"`
	Destination string      `json:"destination"`
}

// TableName specifies the table name for GORM
func (Product) TableName() string {
	return "products"
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

func (ProductTax) TableName() string {
	return "product_taxes"
}
