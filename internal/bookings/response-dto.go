package bookings

import "time"

// HoldResponse reports the outcome of a hold attempt. Status is HELD with a
// supplier and price, or REJECTED with no hold placed.
type HoldResponse struct {
	BookingRef string     `json:"booking_ref"`
	Status     Status     `json:"status"`
	Supplier   *Candidate `json:"supplier,omitempty"`
	TotalPrice float64    `json:"total_price"`
	Currency   string     `json:"currency"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

type PaginatedBookings struct {
	Bookings   []Booking `json:"bookings"`
	TotalCount int64     `json:"total_count"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"total_pages"`
}
