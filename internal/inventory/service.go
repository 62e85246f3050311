package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourops/internal/shared/constants"
	"tourops/pkg/cache"
	"tourops/pkg/logger"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Invalidator drops cached availability for an org. The ledger calls it
// synchronously after every successful mutation, before returning, so search
// never serves counts the mutation already changed.
type Invalidator interface {
	InvalidateForOrg(ctx context.Context, orgID uuid.UUID) error
}

// ExpiryHandler is notified for each booking reference the sweep released
type ExpiryHandler interface {
	HandleExpiredHold(ctx context.Context, orgID uuid.UUID, bookingRef string)
}

type Service interface {
	// Allocation setup (admin)
	SetAllocations(ctx context.Context, orgID uuid.UUID, req SetAllocationRequest) (int, error)

	// Ledger views
	GetCalendar(ctx context.Context, orgID, variantID, supplierID uuid.UUID, from, to time.Time) ([]DayAvailability, error)
	GetWindowBuckets(ctx context.Context, orgID uuid.UUID, variantIDs []uuid.UUID, from, to time.Time) ([]AllocationBucket, error)

	// Hold lifecycle
	PlaceHold(ctx context.Context, orgID, variantID, supplierID uuid.UUID, from, to time.Time, qty int, bookingRef string) error
	CommitHold(ctx context.Context, orgID uuid.UUID, bookingRef string) error
	ReleaseHold(ctx context.Context, orgID uuid.UUID, bookingRef string, reason string) (bool, error)
	SweepExpired(ctx context.Context) (int, error)

	// Wiring hooks, called once at startup
	SetInvalidator(inv Invalidator)
	SetExpiryHandler(h ExpiryHandler)
}

type service struct {
	repo    Repository
	cache   cache.Service
	log     *logger.Logger
	holdTTL time.Duration

	invalidator   Invalidator
	expiryHandler ExpiryHandler

	now func() time.Time
}

func NewService(repo Repository, cacheService cache.Service, holdTTL time.Duration) Service {
	return &service{
		repo:    repo,
		cache:   cacheService,
		log:     logger.GetDefault(),
		holdTTL: holdTTL,
		now:     time.Now,
	}
}

func (s *service) SetInvalidator(inv Invalidator) {
	s.invalidator = inv
}

func (s *service) SetExpiryHandler(h ExpiryHandler) {
	s.expiryHandler = h
}

// SetAllocations upserts one bucket per date in the inclusive range
func (s *service) SetAllocations(ctx context.Context, orgID uuid.UUID, req SetAllocationRequest) (int, error) {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return 0, fmt.Errorf("invalid end_date: %w", err)
	}
	if end.Before(start) {
		return 0, fmt.Errorf("end_date must not precede start_date")
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	var buckets []AllocationBucket
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		buckets = append(buckets, AllocationBucket{
			ID:         uuid.New(),
			OrgID:      orgID,
			VariantID:  req.VariantID,
			SupplierID: req.SupplierID,
			Date:       d,
			Quantity:   req.Quantity,
			UnitCost:   req.UnitCost,
			Currency:   currency,
			StopSell:   req.StopSell,
			Blackout:   req.Blackout,
		})
	}

	if err := s.repo.UpsertBuckets(ctx, buckets); err != nil {
		return 0, fmt.Errorf("failed to upsert allocations: %w", err)
	}

	s.invalidate(ctx, orgID)
	return len(buckets), nil
}

func (s *service) GetCalendar(ctx context.Context, orgID, variantID, supplierID uuid.UUID, from, to time.Time) ([]DayAvailability, error) {
	cacheKey := constants.BuildCalendarKey(orgID, variantID, supplierID, from.Format(dateLayout), to.Format(dateLayout))

	var cached []DayAvailability
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	days, err := s.repo.GetAvailability(ctx, orgID, variantID, supplierID, from, to)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, days, constants.TTL_CALENDAR); err != nil {
		s.log.WarnWithContext(ctx, "failed to cache calendar", map[string]interface{}{"error": err})
	}
	return days, nil
}

func (s *service) GetWindowBuckets(ctx context.Context, orgID uuid.UUID, variantIDs []uuid.UUID, from, to time.Time) ([]AllocationBucket, error) {
	return s.repo.GetWindowBuckets(ctx, orgID, variantIDs, from, to)
}

func (s *service) PlaceHold(ctx context.Context, orgID, variantID, supplierID uuid.UUID, from, to time.Time, qty int, bookingRef string) error {
	if qty <= 0 {
		return fmt.Errorf("hold quantity must be positive")
	}
	if !from.Before(to) {
		return fmt.Errorf("hold window must span at least one night")
	}

	expiresAt := s.now().Add(s.holdTTL)
	if _, err := s.repo.PlaceHold(ctx, orgID, variantID, supplierID, from, to, qty, bookingRef, expiresAt); err != nil {
		return err
	}

	nights := int(to.Sub(from).Hours() / 24)
	s.log.LogHoldPlaced(ctx, orgID.String(), bookingRef, nights, qty)
	s.invalidate(ctx, orgID)
	return nil
}

func (s *service) CommitHold(ctx context.Context, orgID uuid.UUID, bookingRef string) error {
	err := s.repo.CommitHold(ctx, orgID, bookingRef, s.now())
	if err != nil {
		// An expired hold was released as a side effect, so caches are stale
		if errors.Is(err, ErrHoldExpired) {
			s.invalidate(ctx, orgID)
		}
		return err
	}

	s.log.LogHoldCommitted(ctx, orgID.String(), bookingRef)
	s.invalidate(ctx, orgID)
	return nil
}

func (s *service) ReleaseHold(ctx context.Context, orgID uuid.UUID, bookingRef string, reason string) (bool, error) {
	released, err := s.repo.ReleaseHold(ctx, orgID, bookingRef)
	if err != nil {
		return false, err
	}
	if released {
		s.log.LogHoldReleased(ctx, orgID.String(), bookingRef, reason)
		s.invalidate(ctx, orgID)
	}
	return released, nil
}

func (s *service) SweepExpired(ctx context.Context) (int, error) {
	start := s.now()
	swept, err := s.repo.SweepExpired(ctx, start)
	if err != nil {
		return len(swept), err
	}

	orgs := make(map[uuid.UUID]bool)
	for _, e := range swept {
		s.log.LogHoldReleased(ctx, e.OrgID.String(), e.BookingRef, "expired")
		if s.expiryHandler != nil {
			s.expiryHandler.HandleExpiredHold(ctx, e.OrgID, e.BookingRef)
		}
		orgs[e.OrgID] = true
	}
	for orgID := range orgs {
		s.invalidate(ctx, orgID)
	}

	s.log.LogSweepCompleted(ctx, len(swept), time.Since(start))
	return len(swept), nil
}

func (s *service) invalidate(ctx context.Context, orgID uuid.UUID) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateForOrg(ctx, orgID); err != nil {
		s.log.WarnWithContext(ctx, "failed to invalidate availability caches", map[string]interface{}{"org_id": orgID.String(), "error": err})
	}
}
