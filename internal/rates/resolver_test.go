package rates

import (
	"context"
	"errors"
	"testing"
	"time"

	"tourops/internal/suppliers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlanFinder struct {
	plans []suppliers.RatePlan
	err   error
}

func (f *fakePlanFinder) FindPlansForDate(ctx context.Context, orgID, variantID uuid.UUID, date time.Time, preferredOnly bool) ([]suppliers.RatePlan, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !preferredOnly {
		return f.plans, nil
	}
	var preferred []suppliers.RatePlan
	for _, p := range f.plans {
		if p.Preferred {
			preferred = append(preferred, p)
		}
	}
	return preferred, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func plan(supplierName string, priority int, preferred bool, basePrice float64) suppliers.RatePlan {
	return suppliers.RatePlan{
		ID:             uuid.New(),
		SupplierID:     uuid.New(),
		Currency:       "EUR",
		InventoryModel: suppliers.InventoryCommitted,
		Preferred:      preferred,
		Priority:       priority,
		BaseCost:       basePrice * 0.7,
		BasePrice:      basePrice,
		Supplier:       &suppliers.Supplier{Name: supplierName},
	}
}

func TestResolveMasterRateHighestPriorityWins(t *testing.T) {
	// FindPlansForDate orders priority desc; the resolver trusts that order
	high := plan("Direct", 200, true, 120)
	low := plan("Bedbank", 100, true, 110)
	finder := &fakePlanFinder{plans: []suppliers.RatePlan{high, low}}

	r := NewResolver(finder)
	master, err := r.ResolveMasterRate(context.Background(), uuid.New(), uuid.New(), date(2026, time.September, 10), 2)

	require.NoError(t, err)
	assert.Equal(t, high.ID, master.RatePlanID)
	assert.Equal(t, high.SupplierID, master.SupplierID)
	assert.Equal(t, "Direct", master.SupplierName)
	assert.Equal(t, 120.0, master.Price)
	assert.Equal(t, 200, master.Priority)
}

func TestResolveMasterRateNoPreferredPlans(t *testing.T) {
	finder := &fakePlanFinder{plans: []suppliers.RatePlan{plan("Bedbank", 100, false, 110)}}

	r := NewResolver(finder)
	_, err := r.ResolveMasterRate(context.Background(), uuid.New(), uuid.New(), date(2026, time.September, 10), 2)

	assert.ErrorIs(t, err, ErrNoRate)
}

func TestResolveMasterRateSeasonFiltering(t *testing.T) {
	p := plan("Direct", 100, true, 120)
	p.Seasons = []suppliers.RateSeason{
		{
			StartDate: date(2026, time.June, 1),
			EndDate:   date(2026, time.August, 31),
			DowMask:   "1111111",
		},
	}
	finder := &fakePlanFinder{plans: []suppliers.RatePlan{p}}
	r := NewResolver(finder)

	master, err := r.ResolveMasterRate(context.Background(), uuid.New(), uuid.New(), date(2026, time.July, 15), 2)
	require.NoError(t, err)
	assert.Equal(t, p.ID, master.RatePlanID)

	_, err = r.ResolveMasterRate(context.Background(), uuid.New(), uuid.New(), date(2026, time.October, 15), 2)
	assert.ErrorIs(t, err, ErrNoRate)
}

func TestResolveMasterRateMinStayEnforced(t *testing.T) {
	p := plan("Direct", 100, true, 120)
	p.Seasons = []suppliers.RateSeason{
		{
			StartDate: date(2026, time.January, 1),
			EndDate:   date(2026, time.December, 31),
			DowMask:   "1111111",
			MinStay:   3,
		},
	}
	finder := &fakePlanFinder{plans: []suppliers.RatePlan{p}}
	r := NewResolver(finder)

	_, err := r.ResolveMasterRateForStay(context.Background(), uuid.New(), uuid.New(), date(2026, time.July, 15), 2, 2)
	assert.ErrorIs(t, err, ErrNoRate)

	master, err := r.ResolveMasterRateForStay(context.Background(), uuid.New(), uuid.New(), date(2026, time.July, 15), 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 120.0, master.Price)

	// Single-night resolution carries no stay context and skips the bound
	master, err = r.ResolveMasterRate(context.Background(), uuid.New(), uuid.New(), date(2026, time.July, 15), 2)
	require.NoError(t, err)
	assert.Equal(t, 120.0, master.Price)
}

func TestResolveMasterRateOverlappingBrackets(t *testing.T) {
	// Overlapping brackets: the one with the lowest min_occupancy wins
	p := plan("Direct", 100, true, 120)
	p.Occupancies = []suppliers.RateOccupancy{
		{MinOccupancy: 2, MaxOccupancy: 4, PricingModel: suppliers.PricingFixed, BaseAmount: 180},
		{MinOccupancy: 1, MaxOccupancy: 3, PricingModel: suppliers.PricingFixed, BaseAmount: 150},
	}
	finder := &fakePlanFinder{plans: []suppliers.RatePlan{p}}
	r := NewResolver(finder)

	master, err := r.ResolveMasterRate(context.Background(), uuid.New(), uuid.New(), date(2026, time.July, 15), 3)
	require.NoError(t, err)
	assert.Equal(t, 150.0, master.Price)

	master, err = r.ResolveMasterRate(context.Background(), uuid.New(), uuid.New(), date(2026, time.July, 15), 4)
	require.NoError(t, err)
	assert.Equal(t, 180.0, master.Price)
}

func TestResolveMasterRatePartyOutsideBrackets(t *testing.T) {
	p := plan("Direct", 100, true, 120)
	p.Occupancies = []suppliers.RateOccupancy{
		{MinOccupancy: 1, MaxOccupancy: 2, PricingModel: suppliers.PricingFixed, BaseAmount: 120},
	}
	finder := &fakePlanFinder{plans: []suppliers.RatePlan{p}}
	r := NewResolver(finder)

	_, err := r.ResolveMasterRate(context.Background(), uuid.New(), uuid.New(), date(2026, time.July, 15), 5)
	assert.ErrorIs(t, err, ErrNoRate)
}

func TestResolveMasterRateNoBracketsSellsAtBase(t *testing.T) {
	p := plan("Direct", 100, true, 120)
	finder := &fakePlanFinder{plans: []suppliers.RatePlan{p}}
	r := NewResolver(finder)

	master, err := r.ResolveMasterRate(context.Background(), uuid.New(), uuid.New(), date(2026, time.July, 15), 6)
	require.NoError(t, err)
	assert.Equal(t, 120.0, master.Price)
}

func TestResolveSupplierRatesOnePerSupplier(t *testing.T) {
	supplierID := uuid.New()
	high := plan("Direct", 200, true, 130)
	high.SupplierID = supplierID
	low := plan("Direct", 100, false, 110)
	low.SupplierID = supplierID
	other := plan("Bedbank", 50, false, 140)

	finder := &fakePlanFinder{plans: []suppliers.RatePlan{high, low, other}}
	r := NewResolver(finder)

	ratesOut, err := r.ResolveSupplierRates(context.Background(), uuid.New(), uuid.New(), date(2026, time.July, 15), 2)
	require.NoError(t, err)
	require.Len(t, ratesOut, 2)

	assert.Equal(t, high.ID, ratesOut[0].RatePlanID)
	assert.Equal(t, 130.0, ratesOut[0].SellPrice)
	assert.Equal(t, other.SupplierID, ratesOut[1].SupplierID)
}

func TestResolveSupplierRatesZeroPartyFallsBackToBase(t *testing.T) {
	p := plan("Direct", 100, true, 120)
	p.Occupancies = []suppliers.RateOccupancy{
		{MinOccupancy: 2, MaxOccupancy: 4, PricingModel: suppliers.PricingFixed, BaseAmount: 999},
	}
	finder := &fakePlanFinder{plans: []suppliers.RatePlan{p}}
	r := NewResolver(finder)

	ratesOut, err := r.ResolveSupplierRates(context.Background(), uuid.New(), uuid.New(), date(2026, time.July, 15), 0)
	require.NoError(t, err)
	require.Len(t, ratesOut, 1)
	assert.Equal(t, 120.0, ratesOut[0].SellPrice)
}

func TestResolverPropagatesStoreErrors(t *testing.T) {
	finder := &fakePlanFinder{err: errors.New("connection refused")}
	r := NewResolver(finder)

	_, err := r.ResolveMasterRate(context.Background(), uuid.New(), uuid.New(), date(2026, time.July, 15), 2)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoRate)
}
