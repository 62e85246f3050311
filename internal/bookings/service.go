package bookings

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"tourops/internal/inventory"
	"tourops/internal/rates"
	"tourops/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrBookingNotFound = errors.New("booking not found")

const dateLayout = "2006-01-02"

// Ledger is the slice of the inventory service the state machine drives
type Ledger interface {
	GetWindowBuckets(ctx context.Context, orgID uuid.UUID, variantIDs []uuid.UUID, from, to time.Time) ([]inventory.AllocationBucket, error)
	PlaceHold(ctx context.Context, orgID, variantID, supplierID uuid.UUID, from, to time.Time, qty int, bookingRef string) error
	CommitHold(ctx context.Context, orgID uuid.UUID, bookingRef string) error
	ReleaseHold(ctx context.Context, orgID uuid.UUID, bookingRef string, reason string) (bool, error)
}

// RateSource resolves supplier terms and selling prices
type RateSource interface {
	ResolveSupplierRates(ctx context.Context, orgID, variantID uuid.UUID, date time.Time, partySize int) ([]rates.SupplierRate, error)
	ResolveMasterRateForStay(ctx context.Context, orgID, variantID uuid.UUID, date time.Time, partySize, nights int) (*rates.MasterRate, error)
}

type Service interface {
	// Supplier selection
	SelectSupplier(ctx context.Context, orgID, variantID uuid.UUID, date time.Time, qty int) (*Candidate, error)
	ChooseSupplierForStay(ctx context.Context, orgID, variantID uuid.UUID, from, to time.Time, qty, partySize int) (*Candidate, error)

	// State machine
	PlaceHold(ctx context.Context, orgID uuid.UUID, req HoldRequest) (*HoldResponse, error)
	ConfirmBooking(ctx context.Context, orgID uuid.UUID, bookingRef string) (*Booking, error)
	CancelHold(ctx context.Context, orgID uuid.UUID, bookingRef string) (*Booking, error)

	// Reads
	GetBooking(ctx context.Context, orgID uuid.UUID, bookingRef string) (*Booking, error)
	ListBookings(ctx context.Context, orgID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error)

	// HandleExpiredHold marks the booking expired after the sweep released
	// its inventory (implements inventory.ExpiryHandler)
	HandleExpiredHold(ctx context.Context, orgID uuid.UUID, bookingRef string)
}

type service struct {
	repo      Repository
	ledger    Ledger
	resolver  RateSource
	publisher EventPublisher
	log       *logger.Logger
	holdTTL   time.Duration

	now func() time.Time
}

func NewService(repo Repository, ledger Ledger, resolver RateSource, publisher EventPublisher, holdTTL time.Duration) Service {
	return &service{
		repo:      repo,
		ledger:    ledger,
		resolver:  resolver,
		publisher: publisher,
		log:       logger.GetDefault(),
		holdTTL:   holdTTL,
		now:       time.Now,
	}
}

// SUPPLIER SELECTION

// SelectSupplier picks the highest-priority supplier able to cover qty units
// on one night. Returns nil when no supplier qualifies.
func (s *service) SelectSupplier(ctx context.Context, orgID, variantID uuid.UUID, date time.Time, qty int) (*Candidate, error) {
	return s.ChooseSupplierForStay(ctx, orgID, variantID, date, date.AddDate(0, 0, 1), qty, 0)
}

// ChooseSupplierForStay applies the single-night filter across every night of
// the window: one supplier must cover the whole stay.
func (s *service) ChooseSupplierForStay(ctx context.Context, orgID, variantID uuid.UUID, from, to time.Time, qty, partySize int) (*Candidate, error) {
	supplierRates, err := s.resolver.ResolveSupplierRates(ctx, orgID, variantID, from, partySize)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve supplier rates: %w", err)
	}
	if len(supplierRates) == 0 {
		return nil, nil
	}

	buckets, err := s.ledger.GetWindowBuckets(ctx, orgID, []uuid.UUID{variantID}, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load allocation window: %w", err)
	}

	// available-by-supplier-by-date, sell flags already folded in
	avail := make(map[uuid.UUID]map[string]int)
	for i := range buckets {
		b := &buckets[i]
		dates, ok := avail[b.SupplierID]
		if !ok {
			dates = make(map[string]int)
			avail[b.SupplierID] = dates
		}
		dates[b.Date.Format(dateLayout)] = b.Available()
	}

	// supplierRates arrive priority desc; first full-window fit wins
	for _, rate := range supplierRates {
		dates, ok := avail[rate.SupplierID]
		if !ok {
			continue
		}
		covers := true
		for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
			if dates[d.Format(dateLayout)] < qty {
				covers = false
				break
			}
		}
		if !covers {
			continue
		}
		return &Candidate{
			SupplierID:   rate.SupplierID,
			SupplierName: rate.SupplierName,
			RatePlanID:   rate.RatePlanID,
			Priority:     rate.Priority,
			CostPrice:    rate.CostPrice,
			SellPrice:    rate.SellPrice,
			Currency:     rate.Currency,
		}, nil
	}

	return nil, nil
}

// STATE MACHINE

// PlaceHold drives Requested -> Held (or Rejected): choose a supplier for the
// whole stay, price it, reserve the inventory, persist the booking.
func (s *service) PlaceHold(ctx context.Context, orgID uuid.UUID, req HoldRequest) (*HoldResponse, error) {
	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		return nil, fmt.Errorf("invalid check_in: %w", err)
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("invalid check_out: %w", err)
	}
	if !checkIn.Before(checkOut) {
		return nil, fmt.Errorf("check_in must precede check_out")
	}

	bookingRef, err := generateBookingRef()
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking ref: %w", err)
	}

	booking := &Booking{
		ID:         uuid.New(),
		OrgID:      orgID,
		BookingRef: bookingRef,
		VariantID:  req.VariantID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Quantity:   req.Quantity,
		Adults:     req.Adults,
		Children:   req.Children,
		Status:     StatusRequested,
	}

	partySize := req.Adults + req.Children
	candidate, err := s.ChooseSupplierForStay(ctx, orgID, req.VariantID, checkIn, checkOut, req.Quantity, partySize)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return s.reject(ctx, booking)
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	total := 0.0
	currency := candidate.Currency
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		master, err := s.resolver.ResolveMasterRateForStay(ctx, orgID, req.VariantID, d, partySize, nights)
		if err != nil {
			if errors.Is(err, rates.ErrNoRate) {
				return s.reject(ctx, booking)
			}
			return nil, fmt.Errorf("failed to price stay: %w", err)
		}
		total += master.Price * float64(req.Quantity)
		currency = master.Currency
	}
	booking.TotalPrice = total
	booking.Currency = currency
	booking.SupplierID = candidate.SupplierID

	err = s.ledger.PlaceHold(ctx, orgID, req.VariantID, candidate.SupplierID, checkIn, checkOut, req.Quantity, bookingRef)
	if err != nil {
		// A concurrent hold can win the race after selection; that is a
		// rejection, not a server error
		if errors.Is(err, inventory.ErrInsufficientInventory) || errors.Is(err, inventory.ErrBucketNotFound) {
			return s.reject(ctx, booking)
		}
		return nil, err
	}

	booking.Status = StatusHeld
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		// Undo the reservation; the booking row is the source of truth
		if _, relErr := s.ledger.ReleaseHold(ctx, orgID, bookingRef, "booking persist failed"); relErr != nil {
			s.log.ErrorWithContext(ctx, "failed to release hold after persist failure", relErr, map[string]interface{}{"booking_ref": bookingRef})
		}
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	s.publish(EventBookingHeld, booking)

	expiresAt := s.now().Add(s.holdTTL)
	return &HoldResponse{
		BookingRef: bookingRef,
		Status:     StatusHeld,
		Supplier:   candidate,
		TotalPrice: total,
		Currency:   currency,
		ExpiresAt:  &expiresAt,
	}, nil
}

func (s *service) reject(ctx context.Context, booking *Booking) (*HoldResponse, error) {
	booking.Status = StatusRejected
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to persist rejected booking: %w", err)
	}
	s.publish(EventBookingRejected, booking)
	return &HoldResponse{
		BookingRef: booking.BookingRef,
		Status:     StatusRejected,
	}, nil
}

// ConfirmBooking drives Held -> Confirmed. A second confirm finds no live
// holds and fails with inventory.ErrHoldNotFound.
func (s *service) ConfirmBooking(ctx context.Context, orgID uuid.UUID, bookingRef string) (*Booking, error) {
	err := s.ledger.CommitHold(ctx, orgID, bookingRef)
	if err != nil {
		if errors.Is(err, inventory.ErrHoldExpired) {
			if _, updErr := s.repo.UpdateBookingStatusIf(ctx, orgID, bookingRef, StatusHeld, StatusExpired); updErr != nil {
				s.log.ErrorWithContext(ctx, "failed to mark booking expired", updErr, map[string]interface{}{"booking_ref": bookingRef})
			}
		}
		return nil, err
	}

	changed, err := s.repo.UpdateBookingStatusIf(ctx, orgID, bookingRef, StatusHeld, StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	if !changed {
		return nil, fmt.Errorf("booking %s is not in HELD state", bookingRef)
	}

	booking, err := s.GetBooking(ctx, orgID, bookingRef)
	if err != nil {
		return nil, err
	}

	s.publish(EventBookingConfirmed, booking)
	return booking, nil
}

// CancelHold drives Held -> Released. Idempotent: cancelling an already
// released booking is a no-op.
func (s *service) CancelHold(ctx context.Context, orgID uuid.UUID, bookingRef string) (*Booking, error) {
	released, err := s.ledger.ReleaseHold(ctx, orgID, bookingRef, "cancelled")
	if err != nil {
		return nil, err
	}

	if released {
		if _, err := s.repo.UpdateBookingStatusIf(ctx, orgID, bookingRef, StatusHeld, StatusReleased); err != nil {
			return nil, fmt.Errorf("failed to update booking status: %w", err)
		}
	}

	booking, err := s.GetBooking(ctx, orgID, bookingRef)
	if err != nil {
		return nil, err
	}

	if released {
		s.publish(EventBookingReleased, booking)
	}
	return booking, nil
}

// HandleExpiredHold is called by the inventory sweep after it released the
// hold rows for a booking reference
func (s *service) HandleExpiredHold(ctx context.Context, orgID uuid.UUID, bookingRef string) {
	changed, err := s.repo.UpdateBookingStatusIf(ctx, orgID, bookingRef, StatusHeld, StatusExpired)
	if err != nil {
		s.log.ErrorWithContext(ctx, "failed to mark booking expired", err, map[string]interface{}{"booking_ref": bookingRef})
		return
	}
	if !changed {
		return
	}
	if booking, err := s.GetBooking(ctx, orgID, bookingRef); err == nil {
		s.publish(EventBookingExpired, booking)
	}
}

// READS

func (s *service) GetBooking(ctx context.Context, orgID uuid.UUID, bookingRef string) (*Booking, error) {
	booking, err := s.repo.GetBookingByRef(ctx, orgID, bookingRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (s *service) ListBookings(ctx context.Context, orgID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	bookings, totalCount, err := s.repo.ListBookings(ctx, orgID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	totalPages := int((totalCount + int64(query.Limit) - 1) / int64(query.Limit))
	return &PaginatedBookings{
		Bookings:   bookings,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *service) publish(eventType string, booking *Booking) {
	if s.publisher == nil {
		return
	}
	event := &BookingEvent{
		EventType:  eventType,
		OrgID:      booking.OrgID,
		BookingRef: booking.BookingRef,
		VariantID:  booking.VariantID,
		SupplierID: booking.SupplierID,
		Status:     booking.Status,
		OccurredAt: s.now(),
	}
	if err := s.publisher.PublishBookingEvent(event); err != nil {
		s.log.WarnWithContext(context.Background(), "failed to publish booking event", map[string]interface{}{
			"event_type": eventType, "booking_ref": booking.BookingRef, "error": err,
		})
	}
}

// generateBookingRef produces a short per-org-unique handle like BK-3F9A2C41
func generateBookingRef() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "BK-" + strings.ToUpper(hex.EncodeToString(buf)), nil
}
