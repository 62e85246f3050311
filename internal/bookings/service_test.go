package bookings

import (
	"context"
	"testing"
	"time"

	"tourops/internal/inventory"
	"tourops/internal/rates"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	bookings map[string]*Booking
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[string]*Booking)}
}

func (f *fakeRepo) CreateBooking(ctx context.Context, booking *Booking) error {
	copied := *booking
	f.bookings[booking.BookingRef] = &copied
	return nil
}

func (f *fakeRepo) GetBookingByRef(ctx context.Context, orgID uuid.UUID, bookingRef string) (*Booking, error) {
	b, ok := f.bookings[bookingRef]
	if !ok {
		return nil, ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeRepo) ListBookings(ctx context.Context, orgID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	var out []Booking
	for _, b := range f.bookings {
		if query.Status != "" && string(b.Status) != query.Status {
			continue
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) UpdateBookingStatus(ctx context.Context, orgID uuid.UUID, bookingRef string, status Status) error {
	b, ok := f.bookings[bookingRef]
	if !ok {
		return ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeRepo) UpdateBookingStatusIf(ctx context.Context, orgID uuid.UUID, bookingRef string, expected, next Status) (bool, error) {
	b, ok := f.bookings[bookingRef]
	if !ok || b.Status != expected {
		return false, nil
	}
	b.Status = next
	return true, nil
}

type fakeLedger struct {
	buckets []inventory.AllocationBucket

	placeErr   error
	commitErr  error
	releaseErr error

	holds    map[string]bool
	released []string
}

func newFakeLedger(buckets []inventory.AllocationBucket) *fakeLedger {
	return &fakeLedger{buckets: buckets, holds: make(map[string]bool)}
}

func (f *fakeLedger) GetWindowBuckets(ctx context.Context, orgID uuid.UUID, variantIDs []uuid.UUID, from, to time.Time) ([]inventory.AllocationBucket, error) {
	return f.buckets, nil
}

func (f *fakeLedger) PlaceHold(ctx context.Context, orgID, variantID, supplierID uuid.UUID, from, to time.Time, qty int, bookingRef string) error {
	if f.placeErr != nil {
		return f.placeErr
	}
	f.holds[bookingRef] = true
	return nil
}

func (f *fakeLedger) CommitHold(ctx context.Context, orgID uuid.UUID, bookingRef string) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	if !f.holds[bookingRef] {
		return inventory.ErrHoldNotFound
	}
	delete(f.holds, bookingRef)
	return nil
}

func (f *fakeLedger) ReleaseHold(ctx context.Context, orgID uuid.UUID, bookingRef string, reason string) (bool, error) {
	if f.releaseErr != nil {
		return false, f.releaseErr
	}
	if !f.holds[bookingRef] {
		return false, nil
	}
	delete(f.holds, bookingRef)
	f.released = append(f.released, bookingRef)
	return true, nil
}

type fakeResolver struct {
	supplierRates []rates.SupplierRate
	masterPrice   float64
	masterErr     error
}

func (f *fakeResolver) ResolveSupplierRates(ctx context.Context, orgID, variantID uuid.UUID, date time.Time, partySize int) ([]rates.SupplierRate, error) {
	return f.supplierRates, nil
}

func (f *fakeResolver) ResolveMasterRateForStay(ctx context.Context, orgID, variantID uuid.UUID, date time.Time, partySize, nights int) (*rates.MasterRate, error) {
	if f.masterErr != nil {
		return nil, f.masterErr
	}
	return &rates.MasterRate{Price: f.masterPrice, Currency: "EUR"}, nil
}

type capturingPublisher struct {
	events []BookingEvent
}

func (p *capturingPublisher) PublishBookingEvent(event *BookingEvent) error {
	p.events = append(p.events, *event)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int {
	return &v
}

func stayBuckets(variantID, supplierID uuid.UUID, from time.Time, days int, qty *int) []inventory.AllocationBucket {
	var out []inventory.AllocationBucket
	for i := 0; i < days; i++ {
		out = append(out, inventory.AllocationBucket{
			ID:         uuid.New(),
			VariantID:  variantID,
			SupplierID: supplierID,
			Date:       from.AddDate(0, 0, i),
			Quantity:   qty,
		})
	}
	return out
}

func supplierRate(supplierID uuid.UUID, name string, priority int, sell float64) rates.SupplierRate {
	return rates.SupplierRate{
		RatePlanID:   uuid.New(),
		SupplierID:   supplierID,
		SupplierName: name,
		Currency:     "EUR",
		CostPrice:    sell * 0.7,
		SellPrice:    sell,
		Priority:     priority,
	}
}

func newTestService(repo Repository, ledger Ledger, resolver RateSource, publisher EventPublisher) *service {
	svc := NewService(repo, ledger, resolver, publisher, 15*time.Minute).(*service)
	svc.now = func() time.Time { return date(2026, time.September, 1) }
	return svc
}

// SUPPLIER SELECTION

func TestChooseSupplierHighestPriorityCoveringWindow(t *testing.T) {
	variantID := uuid.New()
	preferred := uuid.New()
	backup := uuid.New()
	from := date(2026, time.September, 10)
	to := from.AddDate(0, 0, 3)

	// preferred runs dry on the second night; backup covers the stay
	buckets := stayBuckets(variantID, preferred, from, 1, intPtr(5))
	buckets = append(buckets, stayBuckets(variantID, backup, from, 3, intPtr(5))...)

	ledger := newFakeLedger(buckets)
	resolver := &fakeResolver{supplierRates: []rates.SupplierRate{
		supplierRate(preferred, "Direct", 200, 120),
		supplierRate(backup, "Bedbank", 100, 140),
	}}

	svc := newTestService(newFakeRepo(), ledger, resolver, nil)
	candidate, err := svc.ChooseSupplierForStay(context.Background(), uuid.New(), variantID, from, to, 2, 2)

	require.NoError(t, err)
	require.NotNil(t, candidate)
	assert.Equal(t, backup, candidate.SupplierID)
	assert.Equal(t, "Bedbank", candidate.SupplierName)
}

func TestChooseSupplierPrefersHigherPriority(t *testing.T) {
	variantID := uuid.New()
	preferred := uuid.New()
	backup := uuid.New()
	from := date(2026, time.September, 10)
	to := from.AddDate(0, 0, 2)

	buckets := stayBuckets(variantID, preferred, from, 2, intPtr(5))
	buckets = append(buckets, stayBuckets(variantID, backup, from, 2, intPtr(5))...)

	resolver := &fakeResolver{supplierRates: []rates.SupplierRate{
		supplierRate(preferred, "Direct", 200, 120),
		supplierRate(backup, "Bedbank", 100, 140),
	}}

	svc := newTestService(newFakeRepo(), newFakeLedger(buckets), resolver, nil)
	candidate, err := svc.ChooseSupplierForStay(context.Background(), uuid.New(), variantID, from, to, 2, 2)

	require.NoError(t, err)
	require.NotNil(t, candidate)
	assert.Equal(t, preferred, candidate.SupplierID)
}

func TestChooseSupplierFreesaleAlwaysCovers(t *testing.T) {
	variantID := uuid.New()
	freesale := uuid.New()
	from := date(2026, time.September, 10)
	to := from.AddDate(0, 0, 2)

	buckets := stayBuckets(variantID, freesale, from, 2, nil)

	resolver := &fakeResolver{supplierRates: []rates.SupplierRate{
		supplierRate(freesale, "Bedbank", 100, 140),
	}}

	svc := newTestService(newFakeRepo(), newFakeLedger(buckets), resolver, nil)
	candidate, err := svc.ChooseSupplierForStay(context.Background(), uuid.New(), variantID, from, to, 50, 2)

	require.NoError(t, err)
	require.NotNil(t, candidate)
	assert.Equal(t, freesale, candidate.SupplierID)
}

func TestChooseSupplierNoneQualifies(t *testing.T) {
	variantID := uuid.New()
	supplierID := uuid.New()
	from := date(2026, time.September, 10)
	to := from.AddDate(0, 0, 1)

	buckets := stayBuckets(variantID, supplierID, from, 1, intPtr(1))

	resolver := &fakeResolver{supplierRates: []rates.SupplierRate{
		supplierRate(supplierID, "Direct", 200, 120),
	}}

	svc := newTestService(newFakeRepo(), newFakeLedger(buckets), resolver, nil)
	candidate, err := svc.ChooseSupplierForStay(context.Background(), uuid.New(), variantID, from, to, 2, 2)

	require.NoError(t, err)
	assert.Nil(t, candidate)
}

// STATE MACHINE

func holdRequest(variantID uuid.UUID) HoldRequest {
	return HoldRequest{
		VariantID: variantID,
		CheckIn:   "2026-09-10",
		CheckOut:  "2026-09-12",
		Quantity:  2,
		Adults:    2,
	}
}

func TestPlaceHoldHappyPath(t *testing.T) {
	orgID := uuid.New()
	variantID := uuid.New()
	supplierID := uuid.New()
	from := date(2026, time.September, 10)

	repo := newFakeRepo()
	ledger := newFakeLedger(stayBuckets(variantID, supplierID, from, 2, intPtr(5)))
	resolver := &fakeResolver{
		supplierRates: []rates.SupplierRate{supplierRate(supplierID, "Direct", 200, 120)},
		masterPrice:   120,
	}
	publisher := &capturingPublisher{}

	svc := newTestService(repo, ledger, resolver, publisher)
	resp, err := svc.PlaceHold(context.Background(), orgID, holdRequest(variantID))

	require.NoError(t, err)
	assert.Equal(t, StatusHeld, resp.Status)
	assert.NotEmpty(t, resp.BookingRef)
	// 2 nights x 120 x 2 units
	assert.Equal(t, 480.0, resp.TotalPrice)
	assert.Equal(t, "EUR", resp.Currency)
	require.NotNil(t, resp.ExpiresAt)
	assert.Equal(t, date(2026, time.September, 1).Add(15*time.Minute), *resp.ExpiresAt)

	stored, err := repo.GetBookingByRef(context.Background(), orgID, resp.BookingRef)
	require.NoError(t, err)
	assert.Equal(t, StatusHeld, stored.Status)
	assert.Equal(t, supplierID, stored.SupplierID)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, EventBookingHeld, publisher.events[0].EventType)
	assert.True(t, ledger.holds[resp.BookingRef])
}

func TestPlaceHoldRejectedWhenNoSupplier(t *testing.T) {
	orgID := uuid.New()
	variantID := uuid.New()

	repo := newFakeRepo()
	publisher := &capturingPublisher{}
	svc := newTestService(repo, newFakeLedger(nil), &fakeResolver{}, publisher)

	resp, err := svc.PlaceHold(context.Background(), orgID, holdRequest(variantID))

	require.NoError(t, err)
	assert.Equal(t, StatusRejected, resp.Status)
	assert.Nil(t, resp.Supplier)

	stored, err := repo.GetBookingByRef(context.Background(), orgID, resp.BookingRef)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, stored.Status)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, EventBookingRejected, publisher.events[0].EventType)
}

func TestPlaceHoldRejectedWhenRaceLost(t *testing.T) {
	orgID := uuid.New()
	variantID := uuid.New()
	supplierID := uuid.New()
	from := date(2026, time.September, 10)

	ledger := newFakeLedger(stayBuckets(variantID, supplierID, from, 2, intPtr(5)))
	ledger.placeErr = inventory.ErrInsufficientInventory

	resolver := &fakeResolver{
		supplierRates: []rates.SupplierRate{supplierRate(supplierID, "Direct", 200, 120)},
		masterPrice:   120,
	}

	svc := newTestService(newFakeRepo(), ledger, resolver, nil)
	resp, err := svc.PlaceHold(context.Background(), orgID, holdRequest(variantID))

	require.NoError(t, err)
	assert.Equal(t, StatusRejected, resp.Status)
}

func TestPlaceHoldRejectedWhenNoRate(t *testing.T) {
	orgID := uuid.New()
	variantID := uuid.New()
	supplierID := uuid.New()
	from := date(2026, time.September, 10)

	ledger := newFakeLedger(stayBuckets(variantID, supplierID, from, 2, intPtr(5)))
	resolver := &fakeResolver{
		supplierRates: []rates.SupplierRate{supplierRate(supplierID, "Direct", 200, 120)},
		masterErr:     rates.ErrNoRate,
	}

	svc := newTestService(newFakeRepo(), ledger, resolver, nil)
	resp, err := svc.PlaceHold(context.Background(), orgID, holdRequest(variantID))

	require.NoError(t, err)
	assert.Equal(t, StatusRejected, resp.Status)
}

func TestPlaceHoldInvalidWindow(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakeLedger(nil), &fakeResolver{}, nil)

	req := holdRequest(uuid.New())
	req.CheckOut = req.CheckIn
	_, err := svc.PlaceHold(context.Background(), uuid.New(), req)
	assert.Error(t, err)
}

func placeHeldBooking(t *testing.T, svc *service, orgID, variantID uuid.UUID) string {
	t.Helper()
	resp, err := svc.PlaceHold(context.Background(), orgID, holdRequest(variantID))
	require.NoError(t, err)
	require.Equal(t, StatusHeld, resp.Status)
	return resp.BookingRef
}

func TestConfirmBooking(t *testing.T) {
	orgID := uuid.New()
	variantID := uuid.New()
	supplierID := uuid.New()
	from := date(2026, time.September, 10)

	repo := newFakeRepo()
	ledger := newFakeLedger(stayBuckets(variantID, supplierID, from, 2, intPtr(5)))
	resolver := &fakeResolver{
		supplierRates: []rates.SupplierRate{supplierRate(supplierID, "Direct", 200, 120)},
		masterPrice:   120,
	}
	publisher := &capturingPublisher{}

	svc := newTestService(repo, ledger, resolver, publisher)
	ref := placeHeldBooking(t, svc, orgID, variantID)

	booking, err := svc.ConfirmBooking(context.Background(), orgID, ref)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, booking.Status)

	last := publisher.events[len(publisher.events)-1]
	assert.Equal(t, EventBookingConfirmed, last.EventType)

	// A second confirm finds no live holds
	_, err = svc.ConfirmBooking(context.Background(), orgID, ref)
	assert.ErrorIs(t, err, inventory.ErrHoldNotFound)
}

func TestConfirmExpiredHold(t *testing.T) {
	orgID := uuid.New()
	variantID := uuid.New()
	supplierID := uuid.New()
	from := date(2026, time.September, 10)

	repo := newFakeRepo()
	ledger := newFakeLedger(stayBuckets(variantID, supplierID, from, 2, intPtr(5)))
	resolver := &fakeResolver{
		supplierRates: []rates.SupplierRate{supplierRate(supplierID, "Direct", 200, 120)},
		masterPrice:   120,
	}

	svc := newTestService(repo, ledger, resolver, nil)
	ref := placeHeldBooking(t, svc, orgID, variantID)

	ledger.commitErr = inventory.ErrHoldExpired
	_, err := svc.ConfirmBooking(context.Background(), orgID, ref)
	assert.ErrorIs(t, err, inventory.ErrHoldExpired)

	stored, err := repo.GetBookingByRef(context.Background(), orgID, ref)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, stored.Status)
}

func TestCancelHoldIdempotent(t *testing.T) {
	orgID := uuid.New()
	variantID := uuid.New()
	supplierID := uuid.New()
	from := date(2026, time.September, 10)

	repo := newFakeRepo()
	ledger := newFakeLedger(stayBuckets(variantID, supplierID, from, 2, intPtr(5)))
	resolver := &fakeResolver{
		supplierRates: []rates.SupplierRate{supplierRate(supplierID, "Direct", 200, 120)},
		masterPrice:   120,
	}
	publisher := &capturingPublisher{}

	svc := newTestService(repo, ledger, resolver, publisher)
	ref := placeHeldBooking(t, svc, orgID, variantID)

	booking, err := svc.CancelHold(context.Background(), orgID, ref)
	require.NoError(t, err)
	assert.Equal(t, StatusReleased, booking.Status)
	assert.Equal(t, []string{ref}, ledger.released)

	// Second cancel is a no-op: no state change, no duplicate event
	eventsBefore := len(publisher.events)
	booking, err = svc.CancelHold(context.Background(), orgID, ref)
	require.NoError(t, err)
	assert.Equal(t, StatusReleased, booking.Status)
	assert.Len(t, publisher.events, eventsBefore)
	assert.Len(t, ledger.released, 1)
}

func TestHandleExpiredHold(t *testing.T) {
	orgID := uuid.New()
	variantID := uuid.New()
	supplierID := uuid.New()
	from := date(2026, time.September, 10)

	repo := newFakeRepo()
	ledger := newFakeLedger(stayBuckets(variantID, supplierID, from, 2, intPtr(5)))
	resolver := &fakeResolver{
		supplierRates: []rates.SupplierRate{supplierRate(supplierID, "Direct", 200, 120)},
		masterPrice:   120,
	}
	publisher := &capturingPublisher{}

	svc := newTestService(repo, ledger, resolver, publisher)
	ref := placeHeldBooking(t, svc, orgID, variantID)

	svc.HandleExpiredHold(context.Background(), orgID, ref)

	stored, err := repo.GetBookingByRef(context.Background(), orgID, ref)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, stored.Status)

	last := publisher.events[len(publisher.events)-1]
	assert.Equal(t, EventBookingExpired, last.EventType)

	// Already expired: nothing further happens
	eventsBefore := len(publisher.events)
	svc.HandleExpiredHold(context.Background(), orgID, ref)
	assert.Len(t, publisher.events, eventsBefore)
}

func TestGetBookingNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakeLedger(nil), &fakeResolver{}, nil)

	_, err := svc.GetBooking(context.Background(), uuid.New(), "BK-MISSING")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
