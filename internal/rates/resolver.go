package rates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourops/internal/suppliers"

	"github.com/google/uuid"
)

// ErrNoRate means no preferred rate plan covers the requested date and party
var ErrNoRate = errors.New("no applicable rate")

// MasterRate is the selling rate for one variant-night: the winning
// preferred plan priced for the party size.
type MasterRate struct {
	RatePlanID     uuid.UUID                `json:"rate_plan_id"`
	SupplierID     uuid.UUID                `json:"supplier_id"`
	SupplierName   string                   `json:"supplier_name"`
	Currency       string                   `json:"currency"`
	Price          float64                  `json:"price"`
	Cost           float64                  `json:"cost"`
	Priority       int                      `json:"priority"`
	InventoryModel suppliers.InventoryModel `json:"inventory_model"`
}

// SupplierRate is one supplier's buying/selling terms for a variant-night,
// used by supplier selection to rank candidates.
type SupplierRate struct {
	RatePlanID     uuid.UUID                `json:"rate_plan_id"`
	SupplierID     uuid.UUID                `json:"supplier_id"`
	SupplierName   string                   `json:"supplier_name"`
	Currency       string                   `json:"currency"`
	CostPrice      float64                  `json:"cost_price"`
	SellPrice      float64                  `json:"sell_price"`
	Priority       int                      `json:"priority"`
	Preferred      bool                     `json:"preferred"`
	InventoryModel suppliers.InventoryModel `json:"inventory_model"`
}

// PlanFinder is the slice of the suppliers repository the resolver needs
type PlanFinder interface {
	FindPlansForDate(ctx context.Context, orgID, variantID uuid.UUID, date time.Time, preferredOnly bool) ([]suppliers.RatePlan, error)
}

type Resolver interface {
	// ResolveMasterRate picks the selling rate for a single night with no
	// stay-length context
	ResolveMasterRate(ctx context.Context, orgID, variantID uuid.UUID, date time.Time, partySize int) (*MasterRate, error)

	// ResolveMasterRateForStay additionally enforces season min/max stay
	ResolveMasterRateForStay(ctx context.Context, orgID, variantID uuid.UUID, date time.Time, partySize, nights int) (*MasterRate, error)

	// ResolveSupplierRates returns every supplier's rate for the night,
	// ordered priority desc. partySize 0 leaves occupancy unresolved and
	// prices fall back to the plan's base cost/price.
	ResolveSupplierRates(ctx context.Context, orgID, variantID uuid.UUID, date time.Time, partySize int) ([]SupplierRate, error)
}

type resolver struct {
	plans PlanFinder
}

func NewResolver(plans PlanFinder) Resolver {
	return &resolver{plans: plans}
}

func (r *resolver) ResolveMasterRate(ctx context.Context, orgID, variantID uuid.UUID, date time.Time, partySize int) (*MasterRate, error) {
	return r.ResolveMasterRateForStay(ctx, orgID, variantID, date, partySize, 0)
}

func (r *resolver) ResolveMasterRateForStay(ctx context.Context, orgID, variantID uuid.UUID, date time.Time, partySize, nights int) (*MasterRate, error) {
	plans, err := r.plans.FindPlansForDate(ctx, orgID, variantID, date, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load rate plans: %w", err)
	}

	// Plans arrive priority desc, newest first; the first applicable one wins
	for i := range plans {
		plan := &plans[i]
		if !seasonApplies(plan, date, nights) {
			continue
		}
		price, ok := priceForParty(plan, partySize)
		if !ok {
			continue
		}
		master := &MasterRate{
			RatePlanID:     plan.ID,
			SupplierID:     plan.SupplierID,
			Currency:       plan.Currency,
			Price:          price,
			Cost:           plan.BaseCost,
			Priority:       plan.Priority,
			InventoryModel: plan.InventoryModel,
		}
		if plan.Supplier != nil {
			master.SupplierName = plan.Supplier.Name
		}
		return master, nil
	}

	return nil, ErrNoRate
}

func (r *resolver) ResolveSupplierRates(ctx context.Context, orgID, variantID uuid.UUID, date time.Time, partySize int) ([]SupplierRate, error) {
	plans, err := r.plans.FindPlansForDate(ctx, orgID, variantID, date, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load rate plans: %w", err)
	}

	rates := make([]SupplierRate, 0, len(plans))
	seen := make(map[uuid.UUID]bool)

	for i := range plans {
		plan := &plans[i]
		if !seasonApplies(plan, date, 0) {
			continue
		}
		// One rate per supplier: the highest-priority applicable plan
		if seen[plan.SupplierID] {
			continue
		}

		sell := plan.BasePrice
		if partySize > 0 {
			price, ok := priceForParty(plan, partySize)
			if !ok {
				continue
			}
			sell = price
		}

		rate := SupplierRate{
			RatePlanID:     plan.ID,
			SupplierID:     plan.SupplierID,
			Currency:       plan.Currency,
			CostPrice:      plan.BaseCost,
			SellPrice:      sell,
			Priority:       plan.Priority,
			Preferred:      plan.Preferred,
			InventoryModel: plan.InventoryModel,
		}
		if plan.Supplier != nil {
			rate.SupplierName = plan.Supplier.Name
		}
		rates = append(rates, rate)
		seen[plan.SupplierID] = true
	}

	return rates, nil
}

// seasonApplies checks the plan's season rules for the date. A plan with no
// seasons applies to its whole validity window.
func seasonApplies(plan *suppliers.RatePlan, date time.Time, nights int) bool {
	if len(plan.Seasons) == 0 {
		return true
	}
	for _, season := range plan.Seasons {
		if season.AppliesTo(date) && season.AllowsStay(nights) {
			return true
		}
	}
	return false
}

// priceForParty resolves the occupancy bracket for the party size. When
// brackets overlap the one with the lowest min_occupancy wins. A plan with no
// brackets sells at base_price regardless of party size.
func priceForParty(plan *suppliers.RatePlan, partySize int) (float64, bool) {
	if len(plan.Occupancies) == 0 {
		return plan.BasePrice, true
	}
	if partySize <= 0 {
		return plan.BasePrice, true
	}

	var best *suppliers.RateOccupancy
	for i := range plan.Occupancies {
		occ := &plan.Occupancies[i]
		if !occ.Covers(partySize) {
			continue
		}
		if best == nil || occ.MinOccupancy < best.MinOccupancy {
			best = occ
		}
	}
	if best == nil {
		return 0, false
	}
	return best.PriceFor(partySize), true
}
