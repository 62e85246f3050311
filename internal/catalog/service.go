package catalog

import (
	"context"
	"errors"
	"fmt"

	"tourops/internal/shared/constants"
	"tourops/pkg/cache"
	"tourops/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")
var ErrVariantNotFound = errors.New("variant not found")

type Service interface {
	// Products
	CreateProduct(ctx context.Context, orgID uuid.UUID, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, orgID, id uuid.UUID) (*ProductDetailResponse, error)
	ListProducts(ctx context.Context, orgID uuid.UUID, query ProductListQuery) (*PaginatedProducts, error)
	UpdateProduct(ctx context.Context, orgID, id uuid.UUID, req UpdateProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, orgID, id uuid.UUID) error

	// Variants
	CreateVariant(ctx context.Context, orgID, productID uuid.UUID, req CreateVariantRequest) (*ProductVariant, error)
	UpdateVariant(ctx context.Context, orgID, id uuid.UUID, req UpdateVariantRequest) (*ProductVariant, error)
	DeleteVariant(ctx context.Context, orgID, id uuid.UUID) error

	// Taxes
	CreateTax(ctx context.Context, orgID, productID uuid.UUID, req CreateTaxRequest) (*ProductTax, error)
	DeleteTax(ctx context.Context, orgID, id uuid.UUID) error
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
		log:   logger.GetDefault(),
	}
}

// PRODUCTS

func (s *service) CreateProduct(ctx context.Context, orgID uuid.UUID, req CreateProductRequest) (*Product, error) {
	productType := ProductType(req.ProductType)
	if !productType.Valid() {
		return nil, fmt.Errorf("invalid product type: %s", req.ProductType)
	}

	product := &Product{
		ID:          uuid.New(),
		OrgID:       orgID,
		Name:        req.Name,
		Description: req.Description,
		ProductType: productType,
		Destination: req.Destination,
		Active:      true,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.invalidateProductCaches(ctx, orgID, product.ID)
	return product, nil
}

func (s *service) GetProduct(ctx context.Context, orgID, id uuid.UUID) (*ProductDetailResponse, error) {
	cacheKey := constants.BuildProductDetailKey(id.String())

	var cached ProductDetailResponse
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	product, err := s.repo.GetProductByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	variants, err := s.repo.GetVariantsByProductID(ctx, orgID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get variants: %w", err)
	}

	taxes, err := s.repo.GetActiveTaxesByProductID(ctx, orgID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get taxes: %w", err)
	}

	detail := &ProductDetailResponse{
		Product:  *product,
		Variants: variants,
		Taxes:    taxes,
	}

	if err := s.cache.Set(ctx, cacheKey, detail, constants.TTL_PRODUCT_DETAIL); err != nil {
		s.log.WarnWithContext(ctx, "failed to cache product detail", map[string]interface{}{"error": err})
	}

	return detail, nil
}

func (s *service) ListProducts(ctx context.Context, orgID uuid.UUID, query ProductListQuery) (*PaginatedProducts, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	products, totalCount, err := s.repo.ListProducts(ctx, orgID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	totalPages := int((totalCount + int64(query.Limit) - 1) / int64(query.Limit))

	return &PaginatedProducts{
		Products:   products,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *service) UpdateProduct(ctx context.Context, orgID, id uuid.UUID, req UpdateProductRequest) (*Product, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Destination != nil {
		updates["destination"] = *req.Destination
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateProduct(ctx, orgID, id, updates); err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	product, err := s.repo.GetProductByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	s.invalidateProductCaches(ctx, orgID, id)
	return product, nil
}

func (s *service) DeleteProduct(ctx context.Context, orgID, id uuid.UUID) error {
	if _, err := s.repo.GetProductByID(ctx, orgID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to get product: %w", err)
	}

	if err := s.repo.DeleteProduct(ctx, orgID, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.invalidateProductCaches(ctx, orgID, id)
	return nil
}

// VARIANTS

func (s *service) CreateVariant(ctx context.Context, orgID, productID uuid.UUID, req CreateVariantRequest) (*ProductVariant, error) {
	if _, err := s.repo.GetProductByID(ctx, orgID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	variant := &ProductVariant{
		ID:        uuid.New(),
		OrgID:     orgID,
		ProductID: productID,
		Name:      req.Name,
		MaxPax:    req.MaxPax,
		Active:    true,
	}

	if err := s.repo.CreateVariant(ctx, variant); err != nil {
		return nil, fmt.Errorf("failed to create variant: %w", err)
	}

	s.invalidateProductCaches(ctx, orgID, productID)
	return variant, nil
}

func (s *service) UpdateVariant(ctx context.Context, orgID, id uuid.UUID, req UpdateVariantRequest) (*ProductVariant, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.MaxPax != nil {
		updates["max_pax"] = *req.MaxPax
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateVariant(ctx, orgID, id, updates); err != nil {
			return nil, fmt.Errorf("failed to update variant: %w", err)
		}
	}

	variant, err := s.repo.GetVariantByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to get variant: %w", err)
	}

	s.invalidateProductCaches(ctx, orgID, variant.ProductID)
	return variant, nil
}

func (s *service) DeleteVariant(ctx context.Context, orgID, id uuid.UUID) error {
	variant, err := s.repo.GetVariantByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVariantNotFound
		}
		return fmt.Errorf("failed to get variant: %w", err)
	}

	if err := s.repo.DeleteVariant(ctx, orgID, id); err != nil {
		return fmt.Errorf("failed to delete variant: %w", err)
	}

	s.invalidateProductCaches(ctx, orgID, variant.ProductID)
	return nil
}

// TAXES

func (s *service) CreateTax(ctx context.Context, orgID, productID uuid.UUID, req CreateTaxRequest) (*ProductTax, error) {
	if _, err := s.repo.GetProductByID(ctx, orgID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	calcBase := TaxCalcBase(req.CalcBase)
	if calcBase != TaxCalcPerPersonPerNight && calcBase != TaxCalcPerBooking {
		return nil, fmt.Errorf("invalid calc base: %s", req.CalcBase)
	}

	tax := &ProductTax{
		ID:        uuid.New(),
		OrgID:     orgID,
		ProductID: productID,
		Name:      req.Name,
		RateType:  TaxRateType(req.RateType),
		CalcBase:  calcBase,
		Value:     req.Value,
		Inclusive: req.Inclusive,
		Active:    true,
	}

	if err := s.repo.CreateTax(ctx, tax); err != nil {
		return nil, fmt.Errorf("failed to create tax: %w", err)
	}

	s.invalidateProductCaches(ctx, orgID, productID)
	return tax, nil
}

func (s *service) DeleteTax(ctx context.Context, orgID, id uuid.UUID) error {
	if err := s.repo.DeleteTax(ctx, orgID, id); err != nil {
		return fmt.Errorf("failed to delete tax: %w", err)
	}
	s.invalidateAllProductCaches(ctx, orgID)
	return nil
}

// Catalog edits change what search returns, so the cached search results
// for the org are dropped along with the product detail entry.
func (s *service) invalidateProductCaches(ctx context.Context, orgID, productID uuid.UUID) {
	key := constants.BuildProductDetailKey(productID.String())
	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.WarnWithContext(ctx, "failed to invalidate cache key", map[string]interface{}{"key": key, "error": err})
	}
	pattern := constants.BuildAvailabilityInvalidationPattern(orgID)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		s.log.WarnWithContext(ctx, "failed to invalidate search caches", map[string]interface{}{"pattern": pattern, "error": err})
	}
}

func (s *service) invalidateAllProductCaches(ctx context.Context, orgID uuid.UUID) {
	pattern := constants.BuildCatalogInvalidationPattern(orgID)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		s.log.WarnWithContext(ctx, "failed to invalidate product caches", map[string]interface{}{"pattern": pattern, "error": err})
	}
	searchPattern := constants.BuildAvailabilityInvalidationPattern(orgID)
	if err := s.cache.DeletePattern(ctx, searchPattern); err != nil {
		s.log.WarnWithContext(ctx, "failed to invalidate search caches", map[string]interface{}{"pattern": searchPattern, "error": err})
	}
}
