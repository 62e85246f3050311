package suppliers

import (
	"time"

	"github.com/google/uuid"
)

type SupplierStatus string

const (
	SupplierActive   SupplierStatus = "active"
	SupplierInactive SupplierStatus = "inactive"
)

type InventoryModel string

const (
	InventoryCommitted InventoryModel = "committed"
	InventoryOnRequest InventoryModel = "on_request"
	InventoryFreesale  InventoryModel = "freesale"
)

func (m InventoryModel) Valid() bool {
	switch m {
	case InventoryCommitted, InventoryOnRequest, InventoryFreesale:
		return true
	}
	return false
}

type PricingModel string

const (
	PricingFixed       PricingModel = "fixed"
	PricingBasePlusPax PricingModel = "base_plus_pax"
	PricingPerPerson   PricingModel = "per_person"
)

func (m PricingModel) Valid() bool {
	switch m {
	case PricingFixed, PricingBasePlusPax, PricingPerPerson:
		return true
	}
	return false
}

// Supplier is a contracted inventory source (hotel chain, ticket wholesaler,
// transfer operator) for one organization
type Supplier struct {
	ID     uuid.UUID      `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrgID  uuid.UUID      `json:"org_id" gorm:"type:uuid;not null;index"`
	Name   string         `json:"name" gorm:"not null;size:255"`
	Status SupplierStatus `json:"status" gorm:"type:varchar(20);not null;default:'active'"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// RatePlan ties a supplier to a product variant for a validity window.
// preferred marks the plan eligible as the selling (master) rate; priority
// breaks ties between plans valid on the same date.
type RatePlan struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrgID          uuid.UUID      `json:"org_id" gorm:"type:uuid;not null;index"`
	SupplierID     uuid.UUID      `json:"supplier_id" gorm:"type:uuid;not null;index"`
	VariantID      uuid.UUID      `json:"variant_id" gorm:"type:uuid;not null;index"`
	ValidFrom      time.Time      `json:"valid_from" gorm:"type:date;not null"`
	ValidTo        time.Time      `json:"valid_to" gorm:"type:date;not null"`
	Currency       string         `json:"currency" gorm:"type:char(3);not null"`
	InventoryModel InventoryModel `json:"inventory_model" gorm:"type:varchar(20);not null"`
	Preferred      bool           `json:"preferred" gorm:"default:false"`
	Priority       int            `json:"priority" gorm:"default:0"`
	BaseCost       float64        `json:"base_cost" gorm:"not null;check:base_cost >= 0"`
	BasePrice      float64        `json:"base_price" gorm:"not null;check:base_price >= 0"`

	Supplier    *Supplier       `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Seasons     []RateSeason    `json:"seasons" gorm:"foreignKey:RatePlanID;constraint:OnDelete:CASCADE"`
	Occupancies []RateOccupancy `json:"occupancies" gorm:"foreignKey:RatePlanID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// RateSeason restricts a plan to a date band. DowMask is a 7-char string of
// '1'/'0' flags, Monday first, e.g. "1111100" = weekdays only.
type RateSeason struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrgID      uuid.UUID `json:"org_id" gorm:"type:uuid;not null;index"`
	RatePlanID uuid.UUID `json:"rate_plan_id" gorm:"type:uuid;not null;index"`
	StartDate  time.Time `json:"start_date" gorm:"type:date;not null"`
	EndDate    time.Time `json:"end_date" gorm:"type:date;not null"`
	DowMask    string    `json:"dow_mask" gorm:"type:char(7);not null;default:'1111111'"`
	MinStay    int       `json:"min_stay" gorm:"default:0"`
	MaxStay    int       `json:"max_stay" gorm:"default:0"` // 0 = no cap

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// AppliesTo reports whether the season covers the given date.
// time.Weekday starts at Sunday; the mask starts at Monday.
func (s RateSeason) AppliesTo(date time.Time) bool {
	if date.Before(s.StartDate) || date.After(s.EndDate) {
		return false
	}
	if len(s.DowMask) != 7 {
		return true
	}
	idx := (int(date.Weekday()) + 6) % 7
	return s.DowMask[idx] == '1'
}

// AllowsStay checks the stay-length bounds. nights == 0 means the caller has
// no stay context and the bounds are skipped.
func (s RateSeason) AllowsStay(nights int) bool {
	if nights <= 0 {
		return true
	}
	if s.MinStay > 0 && nights < s.MinStay {
		return false
	}
	if s.MaxStay > 0 && nights > s.MaxStay {
		return false
	}
	return true
}

// RateOccupancy prices a plan for a party-size bracket
type RateOccupancy struct {
	ID              uuid.UUID    `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrgID           uuid.UUID    `json:"org_id" gorm:"type:uuid;not null;index"`
	RatePlanID      uuid.UUID    `json:"rate_plan_id" gorm:"type:uuid;not null;index"`
	MinOccupancy    int          `json:"min_occupancy" gorm:"not null"`
	MaxOccupancy    int          `json:"max_occupancy" gorm:"not null"`
	PricingModel    PricingModel `json:"pricing_model" gorm:"type:varchar(20);not null"`
	BaseAmount      float64      `json:"base_amount" gorm:"not null;check:base_amount >= 0"`
	PerPersonAmount float64      `json:"per_person_amount" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Covers reports whether partySize falls inside the bracket
func (o RateOccupancy) Covers(partySize int) bool {
	return partySize >= o.MinOccupancy && partySize <= o.MaxOccupancy
}

// PriceFor computes the nightly sell price for a party under this bracket
func (o RateOccupancy) PriceFor(partySize int) float64 {
	switch o.PricingModel {
	case PricingFixed:
		return o.BaseAmount
	case PricingBasePlusPax:
		extra := partySize - o.MinOccupancy
		if extra < 0 {
			extra = 0
		}
		return o.BaseAmount + o.PerPersonAmount*float64(extra)
	case PricingPerPerson:
		return o.PerPersonAmount * float64(partySize)
	}
	return o.BaseAmount
}

func (Supplier) TableName() string {
	return "suppliers"
}

func (RatePlan) TableName() string {
	return "rate_plans"
}

func (RateSeason) TableName() string {
	return "rate_seasons"
}

func (RateOccupancy) TableName() string {
	return "rate_occupancies"
}
