package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tourops/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	upserted  []AllocationBucket
	days      []DayAvailability
	holdCalls []holdCall

	commitErr  error
	released   []string
	releaseHit bool
	swept      []ExpiredHold
}

type holdCall struct {
	qty       int
	ref       string
	expiresAt time.Time
}

func (f *fakeRepo) UpsertBuckets(ctx context.Context, buckets []AllocationBucket) error {
	f.upserted = append(f.upserted, buckets...)
	return nil
}

func (f *fakeRepo) GetAvailability(ctx context.Context, orgID, variantID, supplierID uuid.UUID, from, to time.Time) ([]DayAvailability, error) {
	return f.days, nil
}

func (f *fakeRepo) GetWindowBuckets(ctx context.Context, orgID uuid.UUID, variantIDs []uuid.UUID, from, to time.Time) ([]AllocationBucket, error) {
	return nil, nil
}

func (f *fakeRepo) PlaceHold(ctx context.Context, orgID, variantID, supplierID uuid.UUID, from, to time.Time, qty int, bookingRef string, expiresAt time.Time) ([]uuid.UUID, error) {
	f.holdCalls = append(f.holdCalls, holdCall{qty: qty, ref: bookingRef, expiresAt: expiresAt})
	return []uuid.UUID{uuid.New()}, nil
}

func (f *fakeRepo) CommitHold(ctx context.Context, orgID uuid.UUID, bookingRef string, now time.Time) error {
	return f.commitErr
}

func (f *fakeRepo) ReleaseHold(ctx context.Context, orgID uuid.UUID, bookingRef string) (bool, error) {
	f.released = append(f.released, bookingRef)
	return f.releaseHit, nil
}

func (f *fakeRepo) SweepExpired(ctx context.Context, now time.Time) ([]ExpiredHold, error) {
	return f.swept, nil
}

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

type recordingInvalidator struct {
	mu   sync.Mutex
	orgs []uuid.UUID
}

func (r *recordingInvalidator) InvalidateForOrg(ctx context.Context, orgID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orgs = append(r.orgs, orgID)
	return nil
}

type recordingExpiryHandler struct {
	refs []string
}

func (r *recordingExpiryHandler) HandleExpiredHold(ctx context.Context, orgID uuid.UUID, bookingRef string) {
	r.refs = append(r.refs, bookingRef)
}

func newTestService(repo Repository) (*service, *recordingInvalidator) {
	svc := NewService(repo, newFakeCache(), 15*time.Minute).(*service)
	svc.now = func() time.Time {
		return time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	}
	inv := &recordingInvalidator{}
	svc.SetInvalidator(inv)
	return svc, inv
}

func TestSetAllocationsInclusiveRange(t *testing.T) {
	repo := &fakeRepo{}
	svc, inv := newTestService(repo)
	orgID := uuid.New()

	count, err := svc.SetAllocations(context.Background(), orgID, SetAllocationRequest{
		VariantID:  uuid.New(),
		SupplierID: uuid.New(),
		StartDate:  "2026-09-10",
		EndDate:    "2026-09-12",
		Quantity:   intPtr(10),
	})

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.Len(t, repo.upserted, 3)
	assert.Equal(t, "USD", repo.upserted[0].Currency)
	assert.Equal(t, []uuid.UUID{orgID}, inv.orgs)
}

func TestSetAllocationsRejectsReversedRange(t *testing.T) {
	svc, _ := newTestService(&fakeRepo{})

	_, err := svc.SetAllocations(context.Background(), uuid.New(), SetAllocationRequest{
		VariantID:  uuid.New(),
		SupplierID: uuid.New(),
		StartDate:  "2026-09-12",
		EndDate:    "2026-09-10",
	})
	assert.Error(t, err)
}

func TestPlaceHoldExpiresAfterTTL(t *testing.T) {
	repo := &fakeRepo{}
	svc, inv := newTestService(repo)
	orgID := uuid.New()

	from := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
	err := svc.PlaceHold(context.Background(), orgID, uuid.New(), uuid.New(), from, from.AddDate(0, 0, 2), 2, "BK-TEST0001")

	require.NoError(t, err)
	require.Len(t, repo.holdCalls, 1)
	assert.Equal(t, svc.now().Add(15*time.Minute), repo.holdCalls[0].expiresAt)
	assert.Len(t, inv.orgs, 1)
}

func TestPlaceHoldValidation(t *testing.T) {
	svc, _ := newTestService(&fakeRepo{})
	from := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)

	err := svc.PlaceHold(context.Background(), uuid.New(), uuid.New(), uuid.New(), from, from.AddDate(0, 0, 1), 0, "BK-X")
	assert.Error(t, err)

	err = svc.PlaceHold(context.Background(), uuid.New(), uuid.New(), uuid.New(), from, from, 1, "BK-X")
	assert.Error(t, err)
}

func TestCommitHoldInvalidatesOnExpiry(t *testing.T) {
	// The repo releases expired holds as a commit side effect, so the caches
	// must drop even though the commit failed
	repo := &fakeRepo{commitErr: ErrHoldExpired}
	svc, inv := newTestService(repo)

	err := svc.CommitHold(context.Background(), uuid.New(), "BK-TEST0001")
	assert.ErrorIs(t, err, ErrHoldExpired)
	assert.Len(t, inv.orgs, 1)
}

func TestReleaseHoldNoOpSkipsInvalidation(t *testing.T) {
	repo := &fakeRepo{releaseHit: false}
	svc, inv := newTestService(repo)

	released, err := svc.ReleaseHold(context.Background(), uuid.New(), "BK-GONE", "cancelled")
	require.NoError(t, err)
	assert.False(t, released)
	assert.Empty(t, inv.orgs)
}

func TestSweepNotifiesHandlerPerRef(t *testing.T) {
	orgA := uuid.New()
	orgB := uuid.New()
	repo := &fakeRepo{swept: []ExpiredHold{
		{OrgID: orgA, BookingRef: "BK-A1"},
		{OrgID: orgA, BookingRef: "BK-A2"},
		{OrgID: orgB, BookingRef: "BK-B1"},
	}}

	svc, inv := newTestService(repo)
	handler := &recordingExpiryHandler{}
	svc.SetExpiryHandler(handler)

	count, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, []string{"BK-A1", "BK-A2", "BK-B1"}, handler.refs)
	// One invalidation per org, not per ref
	assert.Len(t, inv.orgs, 2)
}

// guardedRepo implements the ledger's check-and-increment contract in memory:
// a hold succeeds only if every night has quantity - booked - held >= qty, all
// nights or none
type guardedRepo struct {
	fakeRepo
	mu       sync.Mutex
	capacity map[string]int
	held     map[string]int
}

func newGuardedRepo() *guardedRepo {
	return &guardedRepo{
		capacity: make(map[string]int),
		held:     make(map[string]int),
	}
}

func (g *guardedRepo) setCapacity(d time.Time, qty int) {
	g.capacity[d.Format(dateLayout)] = qty
}

func (g *guardedRepo) PlaceHold(ctx context.Context, orgID, variantID, supplierID uuid.UUID, from, to time.Time, qty int, bookingRef string, expiresAt time.Time) ([]uuid.UUID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		if g.capacity[key]-g.held[key] < qty {
			return nil, ErrInsufficientInventory
		}
	}
	var ids []uuid.UUID
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		g.held[d.Format(dateLayout)] += qty
		ids = append(ids, uuid.New())
	}
	return ids, nil
}

func TestConcurrentHoldsNeverOversell(t *testing.T) {
	repo := newGuardedRepo()
	from := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 2)
	repo.setCapacity(from, 10)
	repo.setCapacity(from.AddDate(0, 0, 1), 10)

	svc, _ := newTestService(repo)
	orgID, variantID, supplierID := uuid.New(), uuid.New(), uuid.New()

	var wg sync.WaitGroup
	var succeeded int64
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ref := fmt.Sprintf("BK-%08d", n)
			if err := svc.PlaceHold(context.Background(), orgID, variantID, supplierID, from, to, 1, ref); err == nil {
				atomic.AddInt64(&succeeded, 1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(10), succeeded)
	for key, held := range repo.held {
		assert.LessOrEqual(t, held, repo.capacity[key])
	}
}

func TestConcurrentHoldsAllOrNothing(t *testing.T) {
	// The second night is the bottleneck: losers must not leave the first
	// night partially held
	repo := newGuardedRepo()
	from := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 2)
	repo.setCapacity(from, 20)
	repo.setCapacity(from.AddDate(0, 0, 1), 3)

	svc, _ := newTestService(repo)
	orgID, variantID, supplierID := uuid.New(), uuid.New(), uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 15; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ref := fmt.Sprintf("BK-%08d", n)
			_ = svc.PlaceHold(context.Background(), orgID, variantID, supplierID, from, to, 1, ref)
		}(i)
	}
	wg.Wait()

	night1 := repo.held[from.Format(dateLayout)]
	night2 := repo.held[from.AddDate(0, 0, 1).Format(dateLayout)]
	assert.Equal(t, 3, night2)
	assert.Equal(t, night2, night1)
}

func TestGetCalendarCaches(t *testing.T) {
	repo := &fakeRepo{days: []DayAvailability{
		{Date: time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC), Available: 5},
	}}
	svc, _ := newTestService(repo)

	orgID, variantID, supplierID := uuid.New(), uuid.New(), uuid.New()
	from := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	first, err := svc.GetCalendar(context.Background(), orgID, variantID, supplierID, from, to)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Served from cache even after the repo view changes
	repo.days = nil
	second, err := svc.GetCalendar(context.Background(), orgID, variantID, supplierID, from, to)
	require.NoError(t, err)
	assert.Len(t, second, 1)
}
