package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"tourops/internal/auth"
	"tourops/internal/catalog"
	"tourops/internal/inventory"
	"tourops/internal/shared/config"
	"tourops/internal/shared/database"
	"tourops/internal/suppliers"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db    *database.DB
	orgID uuid.UUID
}

func main() {
	fmt.Println("🌱 Starting TourOps Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db, orgID: uuid.New()}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Printf("\n🎉 Seeding completed! Org ID: %s\n", seeder.orgID)
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Delete in reverse dependency order
	tables := []string{
		"allocation_holds",
		"allocation_buckets",
		"bookings",
		"rate_occupancies",
		"rate_seasons",
		"rate_plans",
		"suppliers",
		"product_taxes",
		"product_variants",
		"products",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	variantIDs, err := s.SeedCatalog()
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	supplierIDs, err := s.SeedSuppliers()
	if err != nil {
		return fmt.Errorf("failed to seed suppliers: %w", err)
	}

	if err := s.SeedRatePlans(variantIDs, supplierIDs); err != nil {
		return fmt.Errorf("failed to seed rate plans: %w", err)
	}

	if err := s.SeedAllocations(variantIDs, supplierIDs); err != nil {
		return fmt.Errorf("failed to seed allocations: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates 1 admin and 1 agent for the seed org
func (s *Seeder) SeedUsers() error {
	fmt.Println("  👤 Seeding users...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty12"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		firstName string
		lastName  string
		email     string
		role      auth.Role
	}{
		{"Admin", "User", "admin@tourops.dev", auth.RoleAdmin},
		{"Agent", "User", "agent@tourops.dev", auth.RoleAgent},
	}

	for _, userData := range usersData {
		user := auth.User{
			ID:        uuid.New(),
			OrgID:     s.orgID,
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			Password:  string(hashedPassword),
			Role:      userData.role,
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return nil
}

// SeedCatalog creates products, variants and taxes
func (s *Seeder) SeedCatalog() (map[string]uuid.UUID, error) {
	fmt.Println("  🏨 Seeding catalog...")

	variantIDs := make(map[string]uuid.UUID)

	hotel := catalog.Product{
		ID:          uuid.New(),
		OrgID:       s.orgID,
		Name:        "Grand Marina Hotel",
		Description: "Beachfront hotel in the marina district",
		ProductType: catalog.ProductTypeHotel,
		Destination: "Lisbon",
		Active:      true,
	}
	if err := s.db.PostgreSQL.Create(&hotel).Error; err != nil {
		return nil, err
	}

	hotelVariants := []struct {
		key    string
		name   string
		maxPax int
	}{
		{"standard", "Standard Double", 2},
		{"deluxe", "Deluxe Sea View", 4},
	}
	for _, v := range hotelVariants {
		variant := catalog.ProductVariant{
			ID:        uuid.New(),
			OrgID:     s.orgID,
			ProductID: hotel.ID,
			Name:      v.name,
			MaxPax:    v.maxPax,
			Active:    true,
		}
		if err := s.db.PostgreSQL.Create(&variant).Error; err != nil {
			return nil, err
		}
		variantIDs[v.key] = variant.ID
		fmt.Printf("    ✅ Created variant: %s / %s\n", hotel.Name, v.name)
	}

	taxes := []catalog.ProductTax{
		{
			ID: uuid.New(), OrgID: s.orgID, ProductID: hotel.ID,
			Name: "VAT", RateType: catalog.TaxRateTypePercentage,
			CalcBase: catalog.TaxCalcPerBooking, Value: 10, Active: true,
		},
		{
			ID: uuid.New(), OrgID: s.orgID, ProductID: hotel.ID,
			Name: "City Tax", RateType: catalog.TaxRateTypeFixed,
			CalcBase: catalog.TaxCalcPerPersonPerNight, Value: 2, Active: true,
		},
	}
	for i := range taxes {
		if err := s.db.PostgreSQL.Create(&taxes[i]).Error; err != nil {
			return nil, err
		}
	}

	tour := catalog.Product{
		ID:          uuid.New(),
		OrgID:       s.orgID,
		Name:        "Sintra Day Tour",
		Description: "Full-day guided tour of Sintra palaces",
		ProductType: catalog.ProductTypeTour,
		Destination: "Lisbon",
		Active:      true,
	}
	if err := s.db.PostgreSQL.Create(&tour).Error; err != nil {
		return nil, err
	}
	tourVariant := catalog.ProductVariant{
		ID:        uuid.New(),
		OrgID:     s.orgID,
		ProductID: tour.ID,
		Name:      "Group Ticket",
		MaxPax:    8,
		Active:    true,
	}
	if err := s.db.PostgreSQL.Create(&tourVariant).Error; err != nil {
		return nil, err
	}
	variantIDs["tour"] = tourVariant.ID
	fmt.Printf("    ✅ Created variant: %s / %s\n", tour.Name, tourVariant.Name)

	return variantIDs, nil
}

// SeedSuppliers creates inventory sources
func (s *Seeder) SeedSuppliers() (map[string]uuid.UUID, error) {
	fmt.Println("  🚚 Seeding suppliers...")

	supplierIDs := make(map[string]uuid.UUID)

	suppliersData := []struct {
		key  string
		name string
	}{
		{"direct", "Marina Hotels Direct"},
		{"wholesaler", "Iberia Bedbank"},
		{"tours", "Sintra Tours Co"},
	}

	for _, sd := range suppliersData {
		supplier := suppliers.Supplier{
			ID:     uuid.New(),
			OrgID:  s.orgID,
			Name:   sd.name,
			Status: suppliers.SupplierActive,
		}
		if err := s.db.PostgreSQL.Create(&supplier).Error; err != nil {
			return nil, err
		}
		supplierIDs[sd.key] = supplier.ID
		fmt.Printf("    ✅ Created supplier: %s\n", sd.name)
	}

	return supplierIDs, nil
}

// SeedRatePlans creates rate plans with seasons and occupancy brackets
func (s *Seeder) SeedRatePlans(variantIDs, supplierIDs map[string]uuid.UUID) error {
	fmt.Println("  💰 Seeding rate plans...")

	today := time.Now().UTC().Truncate(24 * time.Hour)
	validFrom := today
	validTo := today.AddDate(1, 0, 0)

	plans := []suppliers.RatePlan{
		{
			// Preferred direct contract for the standard room
			ID: uuid.New(), OrgID: s.orgID,
			SupplierID: supplierIDs["direct"], VariantID: variantIDs["standard"],
			ValidFrom: validFrom, ValidTo: validTo,
			Currency: "EUR", InventoryModel: suppliers.InventoryCommitted,
			Preferred: true, Priority: 100,
			BaseCost: 80, BasePrice: 120,
			Seasons: []suppliers.RateSeason{
				{
					ID: uuid.New(), OrgID: s.orgID,
					StartDate: validFrom, EndDate: validTo,
					DowMask: "1111111", MinStay: 1,
				},
			},
			Occupancies: []suppliers.RateOccupancy{
				{
					ID: uuid.New(), OrgID: s.orgID,
					MinOccupancy: 1, MaxOccupancy: 2,
					PricingModel: suppliers.PricingFixed, BaseAmount: 120,
				},
			},
		},
		{
			// Backup wholesaler for the same room, lower priority
			ID: uuid.New(), OrgID: s.orgID,
			SupplierID: supplierIDs["wholesaler"], VariantID: variantIDs["standard"],
			ValidFrom: validFrom, ValidTo: validTo,
			Currency: "EUR", InventoryModel: suppliers.InventoryFreesale,
			Preferred: false, Priority: 50,
			BaseCost: 95, BasePrice: 140,
			Occupancies: []suppliers.RateOccupancy{
				{
					ID: uuid.New(), OrgID: s.orgID,
					MinOccupancy: 1, MaxOccupancy: 2,
					PricingModel: suppliers.PricingFixed, BaseAmount: 140,
				},
			},
		},
		{
			// Deluxe room priced per bracket: base for 2, extra pax on top
			ID: uuid.New(), OrgID: s.orgID,
			SupplierID: supplierIDs["direct"], VariantID: variantIDs["deluxe"],
			ValidFrom: validFrom, ValidTo: validTo,
			Currency: "EUR", InventoryModel: suppliers.InventoryCommitted,
			Preferred: true, Priority: 100,
			BaseCost: 130, BasePrice: 200,
			Occupancies: []suppliers.RateOccupancy{
				{
					ID: uuid.New(), OrgID: s.orgID,
					MinOccupancy: 1, MaxOccupancy: 2,
					PricingModel: suppliers.PricingFixed, BaseAmount: 200,
				},
				{
					ID: uuid.New(), OrgID: s.orgID,
					MinOccupancy: 3, MaxOccupancy: 4,
					PricingModel: suppliers.PricingBasePlusPax,
					BaseAmount:   200, PerPersonAmount: 45,
				},
			},
		},
		{
			// Tour priced per person
			ID: uuid.New(), OrgID: s.orgID,
			SupplierID: supplierIDs["tours"], VariantID: variantIDs["tour"],
			ValidFrom: validFrom, ValidTo: validTo,
			Currency: "EUR", InventoryModel: suppliers.InventoryCommitted,
			Preferred: true, Priority: 100,
			BaseCost: 30, BasePrice: 55,
			Occupancies: []suppliers.RateOccupancy{
				{
					ID: uuid.New(), OrgID: s.orgID,
					MinOccupancy: 1, MaxOccupancy: 8,
					PricingModel: suppliers.PricingPerPerson, PerPersonAmount: 55,
				},
			},
		},
	}

	for i := range plans {
		for j := range plans[i].Seasons {
			plans[i].Seasons[j].RatePlanID = plans[i].ID
		}
		for j := range plans[i].Occupancies {
			plans[i].Occupancies[j].RatePlanID = plans[i].ID
		}
		if err := s.db.PostgreSQL.Create(&plans[i]).Error; err != nil {
			return err
		}
	}

	fmt.Printf("    ✅ Created %d rate plans\n", len(plans))
	return nil
}

// SeedAllocations creates 60 days of allocation buckets per variant/supplier
func (s *Seeder) SeedAllocations(variantIDs, supplierIDs map[string]uuid.UUID) error {
	fmt.Println("  📅 Seeding allocations...")

	today := time.Now().UTC().Truncate(24 * time.Hour)

	allocations := []struct {
		variant  string
		supplier string
		quantity *int
		unitCost float64
	}{
		{"standard", "direct", intPtr(10), 80},
		{"standard", "wholesaler", nil, 95}, // freesale
		{"deluxe", "direct", intPtr(4), 130},
		{"tour", "tours", intPtr(16), 30},
	}

	created := 0
	for _, a := range allocations {
		for day := 0; day < 60; day++ {
			bucket := inventory.AllocationBucket{
				ID:         uuid.New(),
				OrgID:      s.orgID,
				VariantID:  variantIDs[a.variant],
				SupplierID: supplierIDs[a.supplier],
				Date:       today.AddDate(0, 0, day),
				Quantity:   a.quantity,
				UnitCost:   a.unitCost,
				Currency:   "EUR",
			}
			if err := s.db.PostgreSQL.Create(&bucket).Error; err != nil {
				return err
			}
			created++
		}
	}

	fmt.Printf("    ✅ Created %d allocation buckets\n", created)
	return nil
}

func intPtr(v int) *int {
	return &v
}
