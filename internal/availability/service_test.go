package availability

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"tourops/internal/catalog"
	"tourops/internal/inventory"
	"tourops/internal/rates"
	"tourops/pkg/cache"
	"tourops/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCache is an in-memory cache.Service
type fakeCache struct {
	entries  map[string][]byte
	patterns []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, ok := f.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = data
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.entries, key)
	return nil
}

func (f *fakeCache) DeletePattern(ctx context.Context, pattern string) error {
	f.patterns = append(f.patterns, pattern)
	f.entries = make(map[string][]byte)
	return nil
}

func (f *fakeCache) Exists(ctx context.Context, key string) bool {
	_, ok := f.entries[key]
	return ok
}

func (f *fakeCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := f.Get(ctx, key, dest); err == nil {
		return nil
	}
	data, err := fetcher()
	if err != nil {
		return err
	}
	if err := f.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	return f.Get(ctx, key, dest)
}

func (f *fakeCache) Ping(ctx context.Context) error { return nil }

type fakeCatalog struct {
	candidates []catalog.VariantCandidate
	taxes      map[uuid.UUID][]catalog.ProductTax
}

func (f *fakeCatalog) ListActiveVariantCandidates(ctx context.Context, orgID uuid.UUID, productTypes []catalog.ProductType, destination string) ([]catalog.VariantCandidate, error) {
	return f.candidates, nil
}

func (f *fakeCatalog) GetActiveTaxesByProductID(ctx context.Context, orgID, productID uuid.UUID) ([]catalog.ProductTax, error) {
	return f.taxes[productID], nil
}

type fakeLedger struct {
	buckets []inventory.AllocationBucket
	err     error
}

func (f *fakeLedger) GetWindowBuckets(ctx context.Context, orgID uuid.UUID, variantIDs []uuid.UUID, from, to time.Time) ([]inventory.AllocationBucket, error) {
	return f.buckets, f.err
}

type fakeRates struct {
	// price per variant; zero price means no rate
	prices map[uuid.UUID]float64
	err    error
}

func (f *fakeRates) ResolveMasterRateForStay(ctx context.Context, orgID, variantID uuid.UUID, date time.Time, partySize, nights int) (*rates.MasterRate, error) {
	if f.err != nil {
		return nil, f.err
	}
	price, ok := f.prices[variantID]
	if !ok {
		return nil, rates.ErrNoRate
	}
	return &rates.MasterRate{
		SupplierID: uuid.New(),
		Currency:   "EUR",
		Price:      price,
	}, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int {
	return &v
}

func bucket(variantID, supplierID uuid.UUID, day time.Time, qty *int, booked, held int) inventory.AllocationBucket {
	return inventory.AllocationBucket{
		ID:         uuid.New(),
		VariantID:  variantID,
		SupplierID: supplierID,
		Date:       day,
		Quantity:   qty,
		Booked:     booked,
		Held:       held,
	}
}

func searchParams(orgID uuid.UUID, nights int) SearchParams {
	checkIn := date(2026, time.September, 10)
	return SearchParams{
		OrgID:    orgID,
		CheckIn:  checkIn,
		CheckOut: checkIn.AddDate(0, 0, nights),
		Adults:   2,
	}
}

func TestSearchFullWindow(t *testing.T) {
	orgID := uuid.New()
	variantID := uuid.New()
	productID := uuid.New()
	supplierID := uuid.New()

	checkIn := date(2026, time.September, 10)
	var buckets []inventory.AllocationBucket
	for day := 0; day < 3; day++ {
		buckets = append(buckets, bucket(variantID, supplierID, checkIn.AddDate(0, 0, day), intPtr(10), 0, 0))
	}

	svc := NewService(
		&fakeCatalog{candidates: []catalog.VariantCandidate{
			{VariantID: variantID, ProductID: productID, ProductName: "Grand Marina", VariantName: "Standard Double", ProductType: catalog.ProductTypeHotel},
		}},
		&fakeLedger{buckets: buckets},
		&fakeRates{prices: map[uuid.UUID]float64{variantID: 150}},
		newFakeCache(),
	)

	results, err := svc.Search(context.Background(), searchParams(orgID, 2))
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, variantID, r.VariantID)
	assert.Equal(t, 2, r.Nights)
	assert.Equal(t, 10, r.MinAvailable)
	assert.Equal(t, 300.0, r.RoomTotal)
	assert.Equal(t, 300.0, r.Total)
	assert.Len(t, r.NightlyRates, 2)
}

func TestSearchMinAvailableAcrossWindow(t *testing.T) {
	orgID := uuid.New()
	variantID := uuid.New()
	supplierID := uuid.New()

	checkIn := date(2026, time.September, 10)
	buckets := []inventory.AllocationBucket{
		bucket(variantID, supplierID, checkIn, intPtr(10), 0, 0),
		bucket(variantID, supplierID, checkIn.AddDate(0, 0, 1), intPtr(10), 6, 1),
	}

	svc := NewService(
		&fakeCatalog{candidates: []catalog.VariantCandidate{{VariantID: variantID, ProductID: uuid.New()}}},
		&fakeLedger{buckets: buckets},
		&fakeRates{prices: map[uuid.UUID]float64{variantID: 100}},
		newFakeCache(),
	)

	results, err := svc.Search(context.Background(), searchParams(orgID, 2))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].MinAvailable)
}

func TestSearchBestSingleSupplierPerDate(t *testing.T) {
	// Two suppliers with 4 and 6 units: a hold can only claim one supplier's
	// stock, so the variant reports 6, not 10
	orgID := uuid.New()
	variantID := uuid.New()

	checkIn := date(2026, time.September, 10)
	buckets := []inventory.AllocationBucket{
		bucket(variantID, uuid.New(), checkIn, intPtr(4), 0, 0),
		bucket(variantID, uuid.New(), checkIn, intPtr(6), 0, 0),
	}

	svc := NewService(
		&fakeCatalog{candidates: []catalog.VariantCandidate{{VariantID: variantID, ProductID: uuid.New()}}},
		&fakeLedger{buckets: buckets},
		&fakeRates{prices: map[uuid.UUID]float64{variantID: 100}},
		newFakeCache(),
	)

	results, err := svc.Search(context.Background(), searchParams(orgID, 1))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 6, results[0].MinAvailable)
}

func TestSearchExcludesCandidateWithGap(t *testing.T) {
	orgID := uuid.New()
	gapped := uuid.New()
	solid := uuid.New()
	supplierID := uuid.New()

	checkIn := date(2026, time.September, 10)
	buckets := []inventory.AllocationBucket{
		// gapped variant only covers the first night
		bucket(gapped, supplierID, checkIn, intPtr(5), 0, 0),
		bucket(solid, supplierID, checkIn, intPtr(5), 0, 0),
		bucket(solid, supplierID, checkIn.AddDate(0, 0, 1), intPtr(5), 0, 0),
	}

	svc := NewService(
		&fakeCatalog{candidates: []catalog.VariantCandidate{
			{VariantID: gapped, ProductID: uuid.New()},
			{VariantID: solid, ProductID: uuid.New()},
		}},
		&fakeLedger{buckets: buckets},
		&fakeRates{prices: map[uuid.UUID]float64{gapped: 80, solid: 100}},
		newFakeCache(),
	)

	results, err := svc.Search(context.Background(), searchParams(orgID, 2))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, solid, results[0].VariantID)
}

func TestSearchExcludesCandidateWithoutRate(t *testing.T) {
	orgID := uuid.New()
	unpriced := uuid.New()
	supplierID := uuid.New()

	checkIn := date(2026, time.September, 10)
	buckets := []inventory.AllocationBucket{
		bucket(unpriced, supplierID, checkIn, intPtr(5), 0, 0),
	}

	svc := NewService(
		&fakeCatalog{candidates: []catalog.VariantCandidate{{VariantID: unpriced, ProductID: uuid.New()}}},
		&fakeLedger{buckets: buckets},
		&fakeRates{prices: map[uuid.UUID]float64{}},
		newFakeCache(),
	)

	results, err := svc.Search(context.Background(), searchParams(orgID, 1))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchStoreErrorAborts(t *testing.T) {
	svc := NewService(
		&fakeCatalog{candidates: []catalog.VariantCandidate{{VariantID: uuid.New(), ProductID: uuid.New()}}},
		&fakeLedger{err: errors.New("connection refused")},
		&fakeRates{},
		newFakeCache(),
	)

	_, err := svc.Search(context.Background(), searchParams(uuid.New(), 1))
	assert.Error(t, err)
}

func TestSearchSortsByTotalThenAvailability(t *testing.T) {
	orgID := uuid.New()
	cheap := uuid.New()
	pricey := uuid.New()
	scarce := uuid.New()
	supplierID := uuid.New()

	checkIn := date(2026, time.September, 10)
	buckets := []inventory.AllocationBucket{
		bucket(cheap, supplierID, checkIn, intPtr(3), 0, 0),
		bucket(pricey, supplierID, checkIn, intPtr(5), 0, 0),
		// same price as cheap but less stock: loses the tie-break
		bucket(scarce, supplierID, checkIn, intPtr(1), 0, 0),
	}

	svc := NewService(
		&fakeCatalog{candidates: []catalog.VariantCandidate{
			{VariantID: pricey, ProductID: uuid.New()},
			{VariantID: scarce, ProductID: uuid.New()},
			{VariantID: cheap, ProductID: uuid.New()},
		}},
		&fakeLedger{buckets: buckets},
		&fakeRates{prices: map[uuid.UUID]float64{cheap: 90, pricey: 200, scarce: 90}},
		newFakeCache(),
	)

	results, err := svc.Search(context.Background(), searchParams(orgID, 1))
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, cheap, results[0].VariantID)
	assert.Equal(t, scarce, results[1].VariantID)
	assert.Equal(t, pricey, results[2].VariantID)
}

func TestSearchCacheRoundTrip(t *testing.T) {
	orgID := uuid.New()
	variantID := uuid.New()
	supplierID := uuid.New()

	checkIn := date(2026, time.September, 10)
	ledger := &fakeLedger{buckets: []inventory.AllocationBucket{
		bucket(variantID, supplierID, checkIn, intPtr(5), 0, 0),
	}}

	svc := NewService(
		&fakeCatalog{candidates: []catalog.VariantCandidate{{VariantID: variantID, ProductID: uuid.New()}}},
		ledger,
		&fakeRates{prices: map[uuid.UUID]float64{variantID: 100}},
		newFakeCache(),
	)

	params := searchParams(orgID, 1)
	first, err := svc.Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Stock changes are invisible until invalidation: the cached result is
	// served as-is
	ledger.buckets = nil
	second, err := svc.Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Total, second[0].Total)

	require.NoError(t, svc.InvalidateForOrg(context.Background(), orgID))
	third, err := svc.Search(context.Background(), params)
	require.NoError(t, err)
	assert.Empty(t, third)
}

func TestSearchRejectsInvalidWindow(t *testing.T) {
	svc := NewService(&fakeCatalog{}, &fakeLedger{}, &fakeRates{}, newFakeCache())

	params := searchParams(uuid.New(), 1)
	params.CheckOut = params.CheckIn
	_, err := svc.Search(context.Background(), params)
	assert.Error(t, err)
}

func TestSearchRejectsInvalidProductType(t *testing.T) {
	svc := NewService(&fakeCatalog{}, &fakeLedger{}, &fakeRates{}, newFakeCache())

	params := searchParams(uuid.New(), 1)
	params.ProductTypes = []string{"cruise"}
	_, err := svc.Search(context.Background(), params)
	assert.Error(t, err)
}

func TestApplyTaxes(t *testing.T) {
	s := &service{log: logger.GetDefault()}

	taxes := []catalog.ProductTax{
		{Name: "VAT", RateType: catalog.TaxRateTypePercentage, Value: 10},
		{Name: "Included Levy", RateType: catalog.TaxRateTypePercentage, Value: 10, Inclusive: true},
		{Name: "City Tax", RateType: catalog.TaxRateTypeFixed, CalcBase: catalog.TaxCalcPerPersonPerNight, Value: 2},
		{Name: "Resort Fee", RateType: catalog.TaxRateTypeFixed, CalcBase: catalog.TaxCalcPerBooking, Value: 15},
	}

	lines, total := s.applyTaxes(context.Background(), taxes, 220, 2, 2)
	require.Len(t, lines, 4)

	assert.InDelta(t, 22.0, lines[0].Amount, 0.001)
	// Inclusive: the portion embedded in 220, not added on top
	assert.InDelta(t, 20.0, lines[1].Amount, 0.001)
	assert.True(t, lines[1].Inclusive)
	assert.InDelta(t, 8.0, lines[2].Amount, 0.001)
	assert.InDelta(t, 15.0, lines[3].Amount, 0.001)

	// 22 + 8 + 15; the inclusive line contributes nothing
	assert.InDelta(t, 45.0, total, 0.001)
}

func TestApplyTaxesUnknownCalcBase(t *testing.T) {
	s := &service{log: logger.GetDefault()}

	taxes := []catalog.ProductTax{
		{Name: "Mystery", RateType: catalog.TaxRateTypeFixed, CalcBase: "per_unit", Value: 5},
	}

	lines, total := s.applyTaxes(context.Background(), taxes, 100, 2, 1)
	require.Len(t, lines, 1)
	assert.Equal(t, 0.0, lines[0].Amount)
	assert.Equal(t, 0.0, total)
}
