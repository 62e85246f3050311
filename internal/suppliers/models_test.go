package suppliers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRateSeasonAppliesTo(t *testing.T) {
	season := RateSeason{
		StartDate: date(2026, time.June, 1),
		EndDate:   date(2026, time.August, 31),
		DowMask:   "1111111",
	}

	assert.True(t, season.AppliesTo(date(2026, time.June, 1)))
	assert.True(t, season.AppliesTo(date(2026, time.August, 31)))
	assert.False(t, season.AppliesTo(date(2026, time.May, 31)))
	assert.False(t, season.AppliesTo(date(2026, time.September, 1)))
}

func TestRateSeasonDowMask(t *testing.T) {
	// Weekdays only, Monday first
	season := RateSeason{
		StartDate: date(2026, time.January, 1),
		EndDate:   date(2026, time.December, 31),
		DowMask:   "1111100",
	}

	monday := date(2026, time.August, 31)
	assert.Equal(t, time.Monday, monday.Weekday())
	assert.True(t, season.AppliesTo(monday))

	friday := date(2026, time.September, 4)
	assert.Equal(t, time.Friday, friday.Weekday())
	assert.True(t, season.AppliesTo(friday))

	saturday := date(2026, time.September, 5)
	assert.Equal(t, time.Saturday, saturday.Weekday())
	assert.False(t, season.AppliesTo(saturday))

	sunday := date(2026, time.September, 6)
	assert.Equal(t, time.Sunday, sunday.Weekday())
	assert.False(t, season.AppliesTo(sunday))
}

func TestRateSeasonMalformedMaskAppliesEverywhere(t *testing.T) {
	season := RateSeason{
		StartDate: date(2026, time.January, 1),
		EndDate:   date(2026, time.December, 31),
		DowMask:   "10",
	}
	assert.True(t, season.AppliesTo(date(2026, time.September, 5)))
}

func TestRateSeasonAllowsStay(t *testing.T) {
	season := RateSeason{MinStay: 2, MaxStay: 7}

	assert.False(t, season.AllowsStay(1))
	assert.True(t, season.AllowsStay(2))
	assert.True(t, season.AllowsStay(7))
	assert.False(t, season.AllowsStay(8))

	// No stay context skips the bounds
	assert.True(t, season.AllowsStay(0))

	unbounded := RateSeason{}
	assert.True(t, unbounded.AllowsStay(1))
	assert.True(t, unbounded.AllowsStay(30))
}

func TestRateOccupancyCovers(t *testing.T) {
	occ := RateOccupancy{MinOccupancy: 2, MaxOccupancy: 4}

	assert.False(t, occ.Covers(1))
	assert.True(t, occ.Covers(2))
	assert.True(t, occ.Covers(4))
	assert.False(t, occ.Covers(5))
}

func TestRateOccupancyPriceFor(t *testing.T) {
	fixed := RateOccupancy{
		MinOccupancy: 1, MaxOccupancy: 2,
		PricingModel: PricingFixed, BaseAmount: 120,
	}
	assert.Equal(t, 120.0, fixed.PriceFor(1))
	assert.Equal(t, 120.0, fixed.PriceFor(2))

	basePlusPax := RateOccupancy{
		MinOccupancy: 2, MaxOccupancy: 4,
		PricingModel: PricingBasePlusPax, BaseAmount: 200, PerPersonAmount: 45,
	}
	assert.Equal(t, 200.0, basePlusPax.PriceFor(2))
	assert.Equal(t, 245.0, basePlusPax.PriceFor(3))
	assert.Equal(t, 290.0, basePlusPax.PriceFor(4))

	perPerson := RateOccupancy{
		MinOccupancy: 1, MaxOccupancy: 8,
		PricingModel: PricingPerPerson, PerPersonAmount: 55,
	}
	assert.Equal(t, 55.0, perPerson.PriceFor(1))
	assert.Equal(t, 440.0, perPerson.PriceFor(8))
}

func TestModelValidation(t *testing.T) {
	assert.True(t, InventoryCommitted.Valid())
	assert.True(t, InventoryOnRequest.Valid())
	assert.True(t, InventoryFreesale.Valid())
	assert.False(t, InventoryModel("allotment").Valid())

	assert.True(t, PricingFixed.Valid())
	assert.True(t, PricingBasePlusPax.Valid())
	assert.True(t, PricingPerPerson.Valid())
	assert.False(t, PricingModel("dynamic").Valid())
}
