package suppliers

import (
	"context"
	"time"

	"tourops/internal/shared/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Suppliers
	CreateSupplier(ctx context.Context, supplier *Supplier) error
	GetSupplierByID(ctx context.Context, orgID, id uuid.UUID) (*Supplier, error)
	ListSuppliers(ctx context.Context, orgID uuid.UUID, activeOnly bool) ([]Supplier, error)
	UpdateSupplier(ctx context.Context, orgID, id uuid.UUID, updates map[string]interface{}) error
	DeleteSupplier(ctx context.Context, orgID, id uuid.UUID) error

	// Rate plans
	CreateRatePlan(ctx context.Context, plan *RatePlan) error
	GetRatePlanByID(ctx context.Context, orgID, id uuid.UUID) (*RatePlan, error)
	ListRatePlansByVariant(ctx context.Context, orgID, variantID uuid.UUID) ([]RatePlan, error)
	DeleteRatePlan(ctx context.Context, orgID, id uuid.UUID) error

	// Resolver queries
	FindPlansForDate(ctx context.Context, orgID, variantID uuid.UUID, date time.Time, preferredOnly bool) ([]RatePlan, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// SUPPLIERS

func (r *repository) CreateSupplier(ctx context.Context, supplier *Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *repository) GetSupplierByID(ctx context.Context, orgID, id uuid.UUID) (*Supplier, error) {
	var supplier Supplier
	err := r.db.WithContext(ctx).
		Scopes(scope.OrgScope(orgID)).
		Where("id = ?", id).
		First(&supplier).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *repository) ListSuppliers(ctx context.Context, orgID uuid.UUID, activeOnly bool) ([]Supplier, error) {
	var suppliers []Supplier
	query := r.db.WithContext(ctx).Scopes(scope.OrgScope(orgID))
	if activeOnly {
		query = query.Where("status = ?", SupplierActive)
	}
	err := query.Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}

func (r *repository) UpdateSupplier(ctx context.Context, orgID, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&Supplier{}).
		Scopes(scope.OrgScope(orgID)).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteSupplier(ctx context.Context, orgID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(scope.OrgScope(orgID)).
		Delete(&Supplier{}, "id = ?", id).Error
}

// RATE PLANS

func (r *repository) CreateRatePlan(ctx context.Context, plan *RatePlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *repository) GetRatePlanByID(ctx context.Context, orgID, id uuid.UUID) (*RatePlan, error) {
	var plan RatePlan
	err := r.db.WithContext(ctx).
		Scopes(scope.OrgScope(orgID)).
		Preload("Seasons").
		Preload("Occupancies").
		Preload("Supplier").
		Where("id = ?", id).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *repository) ListRatePlansByVariant(ctx context.Context, orgID, variantID uuid.UUID) ([]RatePlan, error) {
	var plans []RatePlan
	err := r.db.WithContext(ctx).
		Scopes(scope.OrgScope(orgID)).
		Preload("Seasons").
		Preload("Occupancies").
		Preload("Supplier").
		Where("variant_id = ?", variantID).
		Order("priority DESC, created_at DESC").
		Find(&plans).Error
	return plans, err
}

func (r *repository) DeleteRatePlan(ctx context.Context, orgID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(scope.OrgScope(orgID)).
		Delete(&RatePlan{}, "id = ?", id).Error
}

// FindPlansForDate returns plans whose validity window covers the date, joined
// to active suppliers only, ordered for tie-breaking (priority desc, newest
// first). Season and occupancy filtering happens in the resolver.
func (r *repository) FindPlansForDate(ctx context.Context, orgID, variantID uuid.UUID, date time.Time, preferredOnly bool) ([]RatePlan, error) {
	var plans []RatePlan

	query := r.db.WithContext(ctx).
		Joins("JOIN suppliers s ON s.id = rate_plans.supplier_id AND s.status = ?", SupplierActive).
		Where("rate_plans.org_id = ?", orgID).
		Where("rate_plans.variant_id = ?", variantID).
		Where("rate_plans.valid_from <= ? AND rate_plans.valid_to >= ?", date, date).
		Preload("Seasons").
		Preload("Occupancies").
		Preload("Supplier")

	if preferredOnly {
		query = query.Where("rate_plans.preferred = true")
	}

	err := query.
		Order("rate_plans.priority DESC, rate_plans.created_at DESC").
		Find(&plans).Error
	return plans, err
}
