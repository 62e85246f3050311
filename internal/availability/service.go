package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"tourops/internal/catalog"
	"tourops/internal/inventory"
	"tourops/internal/rates"
	"tourops/internal/shared/constants"
	"tourops/pkg/cache"
	"tourops/pkg/logger"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// CatalogSource is the slice of the catalog repository search needs
type CatalogSource interface {
	ListActiveVariantCandidates(ctx context.Context, orgID uuid.UUID, productTypes []catalog.ProductType, destination string) ([]catalog.VariantCandidate, error)
	GetActiveTaxesByProductID(ctx context.Context, orgID, productID uuid.UUID) ([]catalog.ProductTax, error)
}

// LedgerView reads live allocation counts across suppliers
type LedgerView interface {
	GetWindowBuckets(ctx context.Context, orgID uuid.UUID, variantIDs []uuid.UUID, from, to time.Time) ([]inventory.AllocationBucket, error)
}

// RateSource prices a variant-night for a party and stay length
type RateSource interface {
	ResolveMasterRateForStay(ctx context.Context, orgID, variantID uuid.UUID, date time.Time, partySize, nights int) (*rates.MasterRate, error)
}

type Service interface {
	Search(ctx context.Context, params SearchParams) ([]Result, error)

	// InvalidateForOrg drops every cached availability entry for the org.
	// Called synchronously by the ledger after each mutation.
	InvalidateForOrg(ctx context.Context, orgID uuid.UUID) error
}

type service struct {
	catalog  CatalogSource
	ledger   LedgerView
	resolver RateSource
	cache    cache.Service
	log      *logger.Logger
}

func NewService(catalogSource CatalogSource, ledger LedgerView, resolver RateSource, cacheService cache.Service) Service {
	return &service{
		catalog:  catalogSource,
		ledger:   ledger,
		resolver: resolver,
		cache:    cacheService,
		log:      logger.GetDefault(),
	}
}

func (s *service) Search(ctx context.Context, params SearchParams) ([]Result, error) {
	start := time.Now()

	if !params.CheckIn.Before(params.CheckOut) {
		return nil, fmt.Errorf("check_in must precede check_out")
	}

	cacheKey := constants.BuildSearchKey(
		params.OrgID,
		params.CheckIn.Format(dateLayout),
		params.CheckOut.Format(dateLayout),
		params.Adults, params.Children,
		params.ProductTypes, params.Destination,
	)

	var cached []Result
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		s.log.LogSearch(ctx, params.OrgID.String(), len(cached), true, time.Since(start))
		return cached, nil
	}

	results, err := s.search(ctx, params)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, results, constants.TTL_SEARCH_RESULTS); err != nil {
		s.log.WarnWithContext(ctx, "failed to cache search results", map[string]interface{}{"error": err})
	}

	s.log.LogSearch(ctx, params.OrgID.String(), len(results), false, time.Since(start))
	return results, nil
}

func (s *service) search(ctx context.Context, params SearchParams) ([]Result, error) {
	types := make([]catalog.ProductType, 0, len(params.ProductTypes))
	for _, t := range params.ProductTypes {
		pt := catalog.ProductType(t)
		if !pt.Valid() {
			return nil, fmt.Errorf("invalid product type: %s", t)
		}
		types = append(types, pt)
	}

	candidates, err := s.catalog.ListActiveVariantCandidates(ctx, params.OrgID, types, params.Destination)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	if len(candidates) == 0 {
		return []Result{}, nil
	}

	variantIDs := make([]uuid.UUID, len(candidates))
	for i, c := range candidates {
		variantIDs[i] = c.VariantID
	}

	buckets, err := s.ledger.GetWindowBuckets(ctx, params.OrgID, variantIDs, params.CheckIn, params.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("failed to load allocation window: %w", err)
	}

	// Best single-supplier availability per variant-date. A booking uses one
	// supplier for the whole stay, so summing across suppliers would report
	// stock no single hold can claim.
	bestAvail := make(map[uuid.UUID]map[string]int)
	for i := range buckets {
		b := &buckets[i]
		avail := b.Available()
		if avail <= 0 {
			continue
		}
		dates, ok := bestAvail[b.VariantID]
		if !ok {
			dates = make(map[string]int)
			bestAvail[b.VariantID] = dates
		}
		key := b.Date.Format(dateLayout)
		if avail > dates[key] {
			dates[key] = avail
		}
	}

	taxCache := make(map[uuid.UUID][]catalog.ProductTax)
	nights := params.Nights()
	results := make([]Result, 0, len(candidates))

	for _, cand := range candidates {
		result, ok, err := s.buildResult(ctx, params, cand, bestAvail[cand.VariantID], nights, taxCache)
		if err != nil {
			return nil, err
		}
		if ok {
			results = append(results, *result)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Total != results[j].Total {
			return results[i].Total < results[j].Total
		}
		return results[i].MinAvailable > results[j].MinAvailable
	})

	return results, nil
}

// buildResult prices one candidate for the full window. A candidate missing
// stock or a rate on any night is excluded, not an error.
func (s *service) buildResult(ctx context.Context, params SearchParams, cand catalog.VariantCandidate, avail map[string]int, nights int, taxCache map[uuid.UUID][]catalog.ProductTax) (*Result, bool, error) {
	minAvailable := inventory.UnlimitedAvailable
	for d := params.CheckIn; d.Before(params.CheckOut); d = d.AddDate(0, 0, 1) {
		dayAvail, ok := avail[d.Format(dateLayout)]
		if !ok || dayAvail <= 0 {
			return nil, false, nil
		}
		if dayAvail < minAvailable {
			minAvailable = dayAvail
		}
	}

	partySize := params.PartySize()
	var nightly []NightlyRate
	var roomTotal float64
	currency := ""

	for d := params.CheckIn; d.Before(params.CheckOut); d = d.AddDate(0, 0, 1) {
		master, err := s.resolver.ResolveMasterRateForStay(ctx, params.OrgID, cand.VariantID, d, partySize, nights)
		if err != nil {
			if errors.Is(err, rates.ErrNoRate) || errors.Is(err, inventory.ErrBucketNotFound) {
				return nil, false, nil
			}
			return nil, false, fmt.Errorf("failed to resolve rate for %s: %w", cand.VariantID, err)
		}
		if currency == "" {
			currency = master.Currency
		}
		nightly = append(nightly, NightlyRate{
			Date:       d.Format(dateLayout),
			Price:      master.Price,
			SupplierID: master.SupplierID,
		})
		roomTotal += master.Price
	}

	taxes, ok := taxCache[cand.ProductID]
	if !ok {
		var err error
		taxes, err = s.catalog.GetActiveTaxesByProductID(ctx, params.OrgID, cand.ProductID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load taxes: %w", err)
		}
		taxCache[cand.ProductID] = taxes
	}

	taxLines, taxTotal := s.applyTaxes(ctx, taxes, roomTotal, partySize, nights)

	return &Result{
		ProductID:    cand.ProductID,
		VariantID:    cand.VariantID,
		ProductName:  cand.ProductName,
		VariantName:  cand.VariantName,
		ProductType:  string(cand.ProductType),
		Destination:  cand.Destination,
		Currency:     currency,
		Nights:       nights,
		MinAvailable: minAvailable,
		NightlyRates: nightly,
		RoomTotal:    roomTotal,
		TaxTotal:     taxTotal,
		Taxes:        taxLines,
		Total:        roomTotal + taxTotal,
	}, true, nil
}

// applyTaxes computes tax lines for a priced stay. Exclusive taxes add to the
// total; inclusive ones only report the embedded portion. An unrecognized
// calc base contributes zero and logs a warning.
func (s *service) applyTaxes(ctx context.Context, taxes []catalog.ProductTax, roomTotal float64, partySize, nights int) ([]TaxLine, float64) {
	var lines []TaxLine
	var total float64

	for _, tax := range taxes {
		var amount float64
		switch tax.RateType {
		case catalog.TaxRateTypePercentage:
			if tax.Inclusive {
				amount = roomTotal * tax.Value / (100 + tax.Value)
			} else {
				amount = roomTotal * tax.Value / 100
			}
		case catalog.TaxRateTypeFixed:
			switch tax.CalcBase {
			case catalog.TaxCalcPerPersonPerNight:
				amount = tax.Value * float64(partySize) * float64(nights)
			case catalog.TaxCalcPerBooking:
				amount = tax.Value
			default:
				s.log.WarnWithContext(ctx, "unknown tax calc base, contributing zero", map[string]interface{}{
					"tax": tax.Name, "calc_base": string(tax.CalcBase),
				})
			}
		}

		lines = append(lines, TaxLine{Name: tax.Name, Amount: amount, Inclusive: tax.Inclusive})
		if !tax.Inclusive {
			total += amount
		}
	}

	return lines, total
}

func (s *service) InvalidateForOrg(ctx context.Context, orgID uuid.UUID) error {
	return s.cache.DeletePattern(ctx, constants.BuildAvailabilityInvalidationPattern(orgID))
}
