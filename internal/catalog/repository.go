package catalog

import (
	"context"

	"tourops/internal/shared/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Product CRUD
	CreateProduct(ctx context.Context, product *Product) error
	GetProductByID(ctx context.Context, orgID, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context, orgID uuid.UUID, query ProductListQuery) ([]Product, int64, error)
	UpdateProduct(ctx context.Context, orgID, id uuid.UUID, updates map[string]interface{}) error
	DeleteProduct(ctx context.Context, orgID, id uuid.UUID) error

	// Variant CRUD
	CreateVariant(ctx context.Context, variant *ProductVariant) error
	GetVariantByID(ctx context.Context, orgID, id uuid.UUID) (*ProductVariant, error)
	GetVariantsByProductID(ctx context.Context, orgID, productID uuid.UUID) ([]ProductVariant, error)
	UpdateVariant(ctx context.Context, orgID, id uuid.UUID, updates map[string]interface{}) error
	DeleteVariant(ctx context.Context, orgID, id uuid.UUID) error

	// Tax CRUD
	CreateTax(ctx context.Context, tax *ProductTax) error
	GetActiveTaxesByProductID(ctx context.Context, orgID, productID uuid.UUID) ([]ProductTax, error)
	DeleteTax(ctx context.Context, orgID, id uuid.UUID) error

	// Search support
	ListActiveVariantCandidates(ctx context.Context, orgID uuid.UUID, productTypes []ProductType, destination string) ([]VariantCandidate, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// PRODUCT CRUD

func (r *repository) CreateProduct(ctx context.Context, product *Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) GetProductByID(ctx context.Context, orgID, id uuid.UUID) (*Product, error) {
	var product Product
	err := r.db.WithContext(ctx).
		Scopes(scope.OrgScope(orgID)).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) ListProducts(ctx context.Context, orgID uuid.UUID, query ProductListQuery) ([]Product, int64, error) {
	var products []Product
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	baseQuery := r.db.WithContext(ctx).
		Model(&Product{}).
		Scopes(scope.OrgScope(orgID))

	if query.ProductType != "" {
		baseQuery = baseQuery.Where("product_type = ?", query.ProductType)
	}
	if query.Destination != "" {
		baseQuery = baseQuery.Where("LOWER(destination) = LOWER(?)", query.Destination)
	}
	if query.Search != "" {
		baseQuery = baseQuery.Where("name ILIKE ?", "%"+query.Search+"%")
	}
	if query.ActiveOnly {
		baseQuery = baseQuery.Where("active = true")
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&products).Error

	return products, totalCount, err
}

func (r *repository) UpdateProduct(ctx context.Context, orgID, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&Product{}).
		Scopes(scope.OrgScope(orgID)).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteProduct(ctx context.Context, orgID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(scope.OrgScope(orgID)).
		Delete(&Product{}, "id = ?", id).Error
}

// VARIANT CRUD

func (r *repository) CreateVariant(ctx context.Context, variant *ProductVariant) error {
	return r.db.WithContext(ctx).Create(variant).Error
}

func (r *repository) GetVariantByID(ctx context.Context, orgID, id uuid.UUID) (*ProductVariant, error) {
	var variant ProductVariant
	err := r.db.WithContext(ctx).
		Scopes(scope.OrgScope(orgID)).
		Where("id = ?", id).
		First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *repository) GetVariantsByProductID(ctx context.Context, orgID, productID uuid.UUID) ([]ProductVariant, error) {
	var variants []ProductVariant
	err := r.db.WithContext(ctx).
		Scopes(scope.OrgScope(orgID)).
		Where("product_id = ?", productID).
		Order("name ASC").
		Find(&variants).Error
	return variants, err
}

func (r *repository) UpdateVariant(ctx context.Context, orgID, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&ProductVariant{}).
		Scopes(scope.OrgScope(orgID)).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteVariant(ctx context.Context, orgID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(scope.OrgScope(orgID)).
		Delete(&ProductVariant{}, "id = ?", id).Error
}

// TAX CRUD

func (r *repository) CreateTax(ctx context.Context, tax *ProductTax) error {
	return r.db.WithContext(ctx).Create(tax).Error
}

func (r *repository) GetActiveTaxesByProductID(ctx context.Context, orgID, productID uuid.UUID) ([]ProductTax, error) {
	var taxes []ProductTax
	err := r.db.WithContext(ctx).
		Scopes(scope.OrgScope(orgID)).
		Where("product_id = ? AND active = true", productID).
		Find(&taxes).Error
	return taxes, err
}

func (r *repository) DeleteTax(ctx context.Context, orgID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(scope.OrgScope(orgID)).
		Delete(&ProductTax{}, "id = ?", id).Error
}

// SEARCH SUPPORT

func (r *repository) ListActiveVariantCandidates(ctx context.Context, orgID uuid.UUID, productTypes []ProductType, destination string) ([]VariantCandidate, error) {
	var candidates []VariantCandidate

	query := r.db.WithContext(ctx).
		Table("product_variants pv").
		Joins("JOIN products p ON p.id = pv.product_id").
		Where("pv.org_id = ? AND p.org_id = ?", orgID, orgID).
		Where("pv.active = true AND p.active = true").
		Select("pv.id AS variant_id, p.id AS product_id, pv.name AS variant_name, p.name AS product_name, p.product_type, p.destination")

	if len(productTypes) > 0 {
		query = query.Where("p.product_type IN ?", productTypes)
	}
	if destination != "" {
		query = query.Where("LOWER(p.destination) = LOWER(?)", destination)
	}

	err := query.Order("p.name ASC, pv.name ASC").Scan(&candidates).Error
	return candidates, err
}
