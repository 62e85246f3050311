package constants

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for the tourops backend.
// Pattern: tourops:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Static Data (Long TTL: rarely changes)
const (
	TTL_STATIC_LONG  = 24 * time.Hour // 24 hours - for very stable data
	TTL_STATIC_SHORT = 6 * time.Hour  // 6 hours - for user profiles
)

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // 2 hours - for product/supplier details
	TTL_SEMI_STATIC_SHORT  = 1 * time.Hour    // 1 hour - for catalog listings
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // 15 minutes - for rate plan listings
)

// Dynamic Data (Short TTL: changes frequently)
const (
	TTL_DYNAMIC_SHORT = 5 * time.Minute // 5 minutes - for availability search results
	TTL_DYNAMIC_QUICK = 2 * time.Minute // 2 minutes - for allocation calendars
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "tourops"
)

// ================== CATALOG MODULE ==================

const (
	CACHE_KEY_PRODUCTS_LIST  = CACHE_PREFIX + ":catalog:products:org:" // + org-id:page:X:limit:Y
	CACHE_KEY_PRODUCT_DETAIL = CACHE_PREFIX + ":catalog:detail:uuid:"  // + product-id
)

const (
	TTL_PRODUCTS_LIST  = TTL_SEMI_STATIC_SHORT  // 1 hour
	TTL_PRODUCT_DETAIL = TTL_SEMI_STATIC_MEDIUM // 2 hours
)

// ================== AVAILABILITY MODULE ==================

const (
	// Search results, keyed by canonical search parameters
	CACHE_KEY_SEARCH = CACHE_PREFIX + ":availability:search:org:" // + org-id:<canonical params>

	// Per-variant allocation calendar views
	CACHE_KEY_CALENDAR = CACHE_PREFIX + ":availability:calendar:org:" // + org-id:variant:...:supplier:...
)

const (
	TTL_SEARCH_RESULTS = TTL_DYNAMIC_SHORT // 5 minutes
	TTL_CALENDAR       = TTL_DYNAMIC_QUICK // 2 minutes
)

// ================== AUTH MODULE ==================

const (
	CACHE_KEY_USER_PROFILE = CACHE_PREFIX + ":auth:user:profile:uuid:" // + user-id
)

const (
	TTL_USER_PROFILE = TTL_STATIC_SHORT // 6 hours
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	// All availability data for one organization. Deleted synchronously after
	// every hold commit/release and every allocation mutation.
	PATTERN_INVALIDATE_AVAILABILITY_ORG = CACHE_PREFIX + ":availability:*:org:" // + org-id + *

	PATTERN_INVALIDATE_CATALOG_ORG = CACHE_PREFIX + ":catalog:*:org:" // + org-id + *
)

// ================== HELPER FUNCTIONS ==================

// BuildSearchKey constructs the canonical cache key for an availability search.
// All optional filters are normalized (sorted, lowercased) so two equivalent
// searches hit the same entry.
func BuildSearchKey(orgID uuid.UUID, checkIn, checkOut string, adults, children int, productTypes []string, destination string) string {
	types := append([]string(nil), productTypes...)
	for i := range types {
		types[i] = strings.ToLower(strings.TrimSpace(types[i]))
	}
	sort.Strings(types)

	return CACHE_KEY_SEARCH + orgID.String() +
		":ci:" + checkIn +
		":co:" + checkOut +
		fmt.Sprintf(":ad:%d:ch:%d", adults, children) +
		":types:" + strings.Join(types, ",") +
		":dest:" + strings.ToLower(strings.TrimSpace(destination))
}

// BuildCalendarKey constructs the cache key for an allocation calendar view
func BuildCalendarKey(orgID, variantID, supplierID uuid.UUID, from, to string) string {
	return CACHE_KEY_CALENDAR + orgID.String() +
		":variant:" + variantID.String() +
		":supplier:" + supplierID.String() +
		":from:" + from + ":to:" + to
}

// BuildAvailabilityInvalidationPattern returns the glob matching every cached
// availability entry for an organization
func BuildAvailabilityInvalidationPattern(orgID uuid.UUID) string {
	return PATTERN_INVALIDATE_AVAILABILITY_ORG + orgID.String() + "*"
}

// BuildCatalogInvalidationPattern returns the glob matching every cached
// catalog entry for an organization
func BuildCatalogInvalidationPattern(orgID uuid.UUID) string {
	return PATTERN_INVALIDATE_CATALOG_ORG + orgID.String() + "*"
}

func BuildProductDetailKey(productID string) string {
	return CACHE_KEY_PRODUCT_DETAIL + productID
}

func BuildProductsListKey(orgID uuid.UUID, page, limit int) string {
	return CACHE_KEY_PRODUCTS_LIST + orgID.String() + fmt.Sprintf(":page:%d:limit:%d", page, limit)
}
