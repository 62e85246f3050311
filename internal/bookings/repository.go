package bookings

import (
	"context"
	"time"

	"tourops/internal/shared/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateBooking(ctx context.Context, booking *Booking) error
	GetBookingByRef(ctx context.Context, orgID uuid.UUID, bookingRef string) (*Booking, error)
	ListBookings(ctx context.Context, orgID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	UpdateBookingStatus(ctx context.Context, orgID uuid.UUID, bookingRef string, status Status) error

	// UpdateBookingStatusIf transitions only from the expected status,
	// reporting whether a row changed
	UpdateBookingStatusIf(ctx context.Context, orgID uuid.UUID, bookingRef string, expected, next Status) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBooking(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) GetBookingByRef(ctx context.Context, orgID uuid.UUID, bookingRef string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Scopes(scope.OrgScope(orgID)).
		Where("booking_ref = ?", bookingRef).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ListBookings(ctx context.Context, orgID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	baseQuery := r.db.WithContext(ctx).
		Model(&Booking{}).
		Scopes(scope.OrgScope(orgID))

	if query.Status != "" {
		baseQuery = baseQuery.Where("status = ?", query.Status)
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}

func (r *repository) UpdateBookingStatus(ctx context.Context, orgID uuid.UUID, bookingRef string, status Status) error {
	return r.db.WithContext(ctx).
		Model(&Booking{}).
		Scopes(scope.OrgScope(orgID)).
		Where("booking_ref = ?", bookingRef).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *repository) UpdateBookingStatusIf(ctx context.Context, orgID uuid.UUID, bookingRef string, expected, next Status) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Booking{}).
		Scopes(scope.OrgScope(orgID)).
		Where("booking_ref = ? AND status = ?", bookingRef, expected).
		Updates(map[string]interface{}{
			"status":     next,
			"updated_at": time.Now(),
		})
	return res.RowsAffected > 0, res.Error
}
