package database

import (
	"tourops/internal/auth"
	"tourops/internal/bookings"
	"tourops/internal/catalog"
	"tourops/internal/inventory"
	"tourops/internal/suppliers"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&auth.User{},
		&catalog.Product{},
		&catalog.ProductVariant{},
		&catalog.ProductTax{},
		&suppliers.Supplier{},
		&suppliers.RatePlan{},
		&suppliers.RateSeason{},
		&suppliers.RateOccupancy{},
		&inventory.AllocationBucket{},
		&inventory.AllocationHold{},
		&bookings.Booking{},
	)
}
