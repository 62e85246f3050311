package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// One allocation bucket per organization/variant/supplier/date
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_allocation_bucket
		ON allocation_buckets (org_id, variant_id, supplier_id, date);
	`).Error
	if err != nil {
		return err
	}

	// Counters may never go negative and may never exceed committed stock.
	// The guarded UPDATEs enforce this in-transaction; the check constraint is
	// the backstop that turns any bypass into a transaction failure.
	err = db.Exec(`
		ALTER TABLE allocation_buckets
		DROP CONSTRAINT IF EXISTS chk_bucket_counters;
	`).Error
	if err != nil {
		return err
	}
	err = db.Exec(`
		ALTER TABLE allocation_buckets
		ADD CONSTRAINT chk_bucket_counters
		CHECK (booked >= 0 AND held >= 0 AND (quantity IS NULL OR booked + held <= quantity));
	`).Error
	if err != nil {
		return err
	}

	// Hold lookups run by booking reference and by expiry
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_allocation_holds_booking_ref
		ON allocation_holds (org_id, booking_ref);
	`).Error
	if err != nil {
		return err
	}
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_allocation_holds_expires_at
		ON allocation_holds (expires_at);
	`).Error
	if err != nil {
		return err
	}

	// Booking references are unique per organization
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_booking_ref
		ON bookings (org_id, booking_ref);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
