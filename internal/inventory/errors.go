package inventory

import "errors"

var (
	// ErrBucketNotFound means a date in the requested range has no
	// allocation bucket for the (variant, supplier) pair
	ErrBucketNotFound = errors.New("allocation bucket not found")

	// ErrInsufficientInventory means a guarded update matched a bucket but
	// the remaining capacity (or a stop-sell/blackout flag) blocked it
	ErrInsufficientInventory = errors.New("insufficient inventory")

	// ErrInvariantViolation means a mutation would have driven a counter
	// negative or pushed booked+held past quantity; the transaction was
	// rolled back
	ErrInvariantViolation = errors.New("inventory invariant violation")

	// ErrHoldNotFound means no live hold rows match the booking reference
	ErrHoldNotFound = errors.New("hold not found")

	// ErrHoldExpired means the hold outlived its TTL before commit; the
	// inventory has been released
	ErrHoldExpired = errors.New("hold expired")
)
