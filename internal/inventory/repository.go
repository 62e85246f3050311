package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourops/internal/shared/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Allocation setup
	UpsertBuckets(ctx context.Context, buckets []AllocationBucket) error
	GetAvailability(ctx context.Context, orgID, variantID, supplierID uuid.UUID, from, to time.Time) ([]DayAvailability, error)

	// Search/selection support: every bucket for the given variants in the
	// window, all suppliers
	GetWindowBuckets(ctx context.Context, orgID uuid.UUID, variantIDs []uuid.UUID, from, to time.Time) ([]AllocationBucket, error)

	// Hold lifecycle
	PlaceHold(ctx context.Context, orgID, variantID, supplierID uuid.UUID, from, to time.Time, qty int, bookingRef string, expiresAt time.Time) ([]uuid.UUID, error)
	CommitHold(ctx context.Context, orgID uuid.UUID, bookingRef string, now time.Time) error
	ReleaseHold(ctx context.Context, orgID uuid.UUID, bookingRef string) (bool, error)
	SweepExpired(ctx context.Context, now time.Time) ([]ExpiredHold, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// UpsertBuckets creates or refreshes allocation rows. Counters (booked, held)
// are never touched by the upsert; only capacity and flags change.
func (r *repository) UpsertBuckets(ctx context.Context, buckets []AllocationBucket) error {
	if len(buckets) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "org_id"}, {Name: "variant_id"}, {Name: "supplier_id"}, {Name: "date"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"quantity", "unit_cost", "currency", "stop_sell", "blackout", "updated_at",
			}),
		}).
		Create(&buckets).Error
}

func (r *repository) GetAvailability(ctx context.Context, orgID, variantID, supplierID uuid.UUID, from, to time.Time) ([]DayAvailability, error) {
	var buckets []AllocationBucket
	err := r.db.WithContext(ctx).
		Scopes(scope.OrgScope(orgID)).
		Where("variant_id = ? AND supplier_id = ?", variantID, supplierID).
		Where("date >= ? AND date < ?", from, to).
		Order("date ASC").
		Find(&buckets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load allocation buckets: %w", err)
	}

	byDate := make(map[string]*AllocationBucket, len(buckets))
	for i := range buckets {
		byDate[buckets[i].Date.Format("2006-01-02")] = &buckets[i]
	}

	var days []DayAvailability
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		bucket, ok := byDate[d.Format("2006-01-02")]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrBucketNotFound, d.Format("2006-01-02"))
		}
		days = append(days, DayAvailability{
			Date:      bucket.Date,
			Quantity:  bucket.Quantity,
			Booked:    bucket.Booked,
			Held:      bucket.Held,
			Available: bucket.Available(),
			StopSell:  bucket.StopSell,
			Blackout:  bucket.Blackout,
		})
	}
	return days, nil
}

func (r *repository) GetWindowBuckets(ctx context.Context, orgID uuid.UUID, variantIDs []uuid.UUID, from, to time.Time) ([]AllocationBucket, error) {
	var buckets []AllocationBucket
	err := r.db.WithContext(ctx).
		Scopes(scope.OrgScope(orgID)).
		Where("variant_id IN ?", variantIDs).
		Where("date >= ? AND date < ?", from, to).
		Order("variant_id, supplier_id, date").
		Find(&buckets).Error
	return buckets, err
}

// PlaceHold reserves qty units per night in [from, to) inside one
// transaction. Each night is a guarded conditional update; any blocked night
// rolls back every prior night, so the hold is all-or-nothing.
func (r *repository) PlaceHold(ctx context.Context, orgID, variantID, supplierID uuid.UUID, from, to time.Time, qty int, bookingRef string, expiresAt time.Time) ([]uuid.UUID, error) {
	var holdIDs []uuid.UUID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
			res := tx.Model(&AllocationBucket{}).
				Where("org_id = ? AND variant_id = ? AND supplier_id = ? AND date = ?", orgID, variantID, supplierID, d).
				Where("stop_sell = false AND blackout = false").
				Where("quantity IS NULL OR quantity - booked - held >= ?", qty).
				Update("held", gorm.Expr("held + ?", qty))
			if res.Error != nil {
				return fmt.Errorf("failed to reserve inventory: %w", res.Error)
			}

			if res.RowsAffected == 0 {
				return classifyBlockedNight(tx, orgID, variantID, supplierID, d, qty)
			}

			var bucketID uuid.UUID
			err := tx.Model(&AllocationBucket{}).
				Select("id").
				Where("org_id = ? AND variant_id = ? AND supplier_id = ? AND date = ?", orgID, variantID, supplierID, d).
				Scan(&bucketID).Error
			if err != nil {
				return fmt.Errorf("failed to load bucket id: %w", err)
			}

			hold := AllocationHold{
				ID:         uuid.New(),
				OrgID:      orgID,
				BucketID:   bucketID,
				BookingRef: bookingRef,
				Quantity:   qty,
				ExpiresAt:  expiresAt,
			}
			if err := tx.Create(&hold).Error; err != nil {
				return fmt.Errorf("failed to create hold row: %w", err)
			}
			holdIDs = append(holdIDs, hold.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return holdIDs, nil
}

// classifyBlockedNight explains a zero-row guarded update: missing bucket,
// sell flags, or plain shortage.
func classifyBlockedNight(tx *gorm.DB, orgID, variantID, supplierID uuid.UUID, date time.Time, qty int) error {
	var bucket AllocationBucket
	err := tx.
		Where("org_id = ? AND variant_id = ? AND supplier_id = ? AND date = ?", orgID, variantID, supplierID, date).
		First(&bucket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, date.Format("2006-01-02"))
	}
	if err != nil {
		return fmt.Errorf("failed to inspect bucket: %w", err)
	}
	if bucket.StopSell {
		return fmt.Errorf("%w: %s is stop-sold", ErrInsufficientInventory, date.Format("2006-01-02"))
	}
	if bucket.Blackout {
		return fmt.Errorf("%w: %s is blacked out", ErrInsufficientInventory, date.Format("2006-01-02"))
	}
	return fmt.Errorf("%w: %s has %d available, requested %d",
		ErrInsufficientInventory, date.Format("2006-01-02"), bucket.Available(), qty)
}

// CommitHold converts every hold row under the booking reference to booked
// inventory and deletes the holds. A reference with no live holds fails with
// ErrHoldNotFound, so a second commit of the same reference hard-fails.
func (r *repository) CommitHold(ctx context.Context, orgID uuid.UUID, bookingRef string, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var holds []AllocationHold
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("org_id = ? AND booking_ref = ?", orgID, bookingRef).
			Find(&holds).Error
		if err != nil {
			return fmt.Errorf("failed to lock holds: %w", err)
		}
		if len(holds) == 0 {
			return ErrHoldNotFound
		}

		// An expired-but-unswept hold is released here rather than committed
		for _, hold := range holds {
			if hold.ExpiresAt.Before(now) {
				if err := releaseHoldsTx(tx, holds); err != nil {
					return err
				}
				return ErrHoldExpired
			}
		}

		for _, hold := range holds {
			res := tx.Model(&AllocationBucket{}).
				Where("id = ? AND held >= ?", hold.BucketID, hold.Quantity).
				Updates(map[string]interface{}{
					"booked": gorm.Expr("booked + ?", hold.Quantity),
					"held":   gorm.Expr("held - ?", hold.Quantity),
				})
			if res.Error != nil {
				return fmt.Errorf("failed to commit hold: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: bucket %s held counter below hold quantity", ErrInvariantViolation, hold.BucketID)
			}
		}

		if err := tx.Where("org_id = ? AND booking_ref = ?", orgID, bookingRef).
			Delete(&AllocationHold{}).Error; err != nil {
			return fmt.Errorf("failed to delete hold rows: %w", err)
		}
		return nil
	})
}

// ReleaseHold returns held inventory to the pool. Idempotent: a reference
// with no live holds is a no-op and reports released=false.
func (r *repository) ReleaseHold(ctx context.Context, orgID uuid.UUID, bookingRef string) (bool, error) {
	released := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var holds []AllocationHold
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("org_id = ? AND booking_ref = ?", orgID, bookingRef).
			Find(&holds).Error
		if err != nil {
			return fmt.Errorf("failed to lock holds: %w", err)
		}
		if len(holds) == 0 {
			return nil
		}
		if err := releaseHoldsTx(tx, holds); err != nil {
			return err
		}
		released = true
		return nil
	})
	return released, err
}

// releaseHoldsTx decrements held counters and deletes the hold rows inside
// the caller's transaction
func releaseHoldsTx(tx *gorm.DB, holds []AllocationHold) error {
	for _, hold := range holds {
		res := tx.Model(&AllocationBucket{}).
			Where("id = ? AND held >= ?", hold.BucketID, hold.Quantity).
			Update("held", gorm.Expr("held - ?", hold.Quantity))
		if res.Error != nil {
			return fmt.Errorf("failed to release hold: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: bucket %s held counter below hold quantity", ErrInvariantViolation, hold.BucketID)
		}
	}
	ids := make([]uuid.UUID, len(holds))
	for i, hold := range holds {
		ids[i] = hold.ID
	}
	if err := tx.Where("id IN ?", ids).Delete(&AllocationHold{}).Error; err != nil {
		return fmt.Errorf("failed to delete hold rows: %w", err)
	}
	return nil
}

// SweepExpired releases every hold with expires_at < now, grouped by booking
// reference so each group releases atomically. Safe to run alongside live
// traffic: each group locks its own rows.
func (r *repository) SweepExpired(ctx context.Context, now time.Time) ([]ExpiredHold, error) {
	var expired []ExpiredHold
	err := r.db.WithContext(ctx).
		Model(&AllocationHold{}).
		Select("DISTINCT org_id, booking_ref").
		Where("expires_at < ?", now).
		Scan(&expired).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find expired holds: %w", err)
	}

	var swept []ExpiredHold
	for _, e := range expired {
		released, err := r.ReleaseHold(ctx, e.OrgID, e.BookingRef)
		if err != nil {
			return swept, fmt.Errorf("failed to sweep %s: %w", e.BookingRef, err)
		}
		if released {
			swept = append(swept, e)
		}
	}
	return swept, nil
}
