package suppliers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourops/internal/shared/constants"
	"tourops/pkg/cache"
	"tourops/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSupplierNotFound = errors.New("supplier not found")
var ErrRatePlanNotFound = errors.New("rate plan not found")

const dateLayout = "2006-01-02"

type Service interface {
	// Suppliers
	CreateSupplier(ctx context.Context, orgID uuid.UUID, req CreateSupplierRequest) (*Supplier, error)
	GetSupplier(ctx context.Context, orgID, id uuid.UUID) (*Supplier, error)
	ListSuppliers(ctx context.Context, orgID uuid.UUID, activeOnly bool) ([]Supplier, error)
	UpdateSupplier(ctx context.Context, orgID, id uuid.UUID, req UpdateSupplierRequest) (*Supplier, error)
	DeleteSupplier(ctx context.Context, orgID, id uuid.UUID) error

	// Rate plans
	CreateRatePlan(ctx context.Context, orgID uuid.UUID, req CreateRatePlanRequest) (*RatePlan, error)
	GetRatePlan(ctx context.Context, orgID, id uuid.UUID) (*RatePlan, error)
	ListRatePlansByVariant(ctx context.Context, orgID, variantID uuid.UUID) ([]RatePlan, error)
	DeleteRatePlan(ctx context.Context, orgID, id uuid.UUID) error
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

// SUPPLIERS

func (s *service) CreateSupplier(ctx context.Context, orgID uuid.UUID, req CreateSupplierRequest) (*Supplier, error) {
	status := SupplierActive
	if req.Status != "" {
		status = SupplierStatus(req.Status)
	}

	supplier := &Supplier{
		ID:     uuid.New(),
		OrgID:  orgID,
		Name:   req.Name,
		Status: status,
	}

	if err := s.repo.CreateSupplier(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return supplier, nil
}

func (s *service) GetSupplier(ctx context.Context, orgID, id uuid.UUID) (*Supplier, error) {
	supplier, err := s.repo.GetSupplierByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return supplier, nil
}

func (s *service) ListSuppliers(ctx context.Context, orgID uuid.UUID, activeOnly bool) ([]Supplier, error) {
	suppliers, err := s.repo.ListSuppliers(ctx, orgID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}

func (s *service) UpdateSupplier(ctx context.Context, orgID, id uuid.UUID, req UpdateSupplierRequest) (*Supplier, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateSupplier(ctx, orgID, id, updates); err != nil {
			return nil, fmt.Errorf("failed to update supplier: %w", err)
		}
		// Deactivating a supplier changes what search and selection return
		s.invalidateAvailability(ctx, orgID)
	}

	return s.GetSupplier(ctx, orgID, id)
}

func (s *service) DeleteSupplier(ctx context.Context, orgID, id uuid.UUID) error {
	if _, err := s.GetSupplier(ctx, orgID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteSupplier(ctx, orgID, id); err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	s.invalidateAvailability(ctx, orgID)
	return nil
}

// RATE PLANS

func (s *service) CreateRatePlan(ctx context.Context, orgID uuid.UUID, req CreateRatePlanRequest) (*RatePlan, error) {
	if _, err := s.GetSupplier(ctx, orgID, req.SupplierID); err != nil {
		return nil, err
	}

	validFrom, err := time.Parse(dateLayout, req.ValidFrom)
	if err != nil {
		return nil, fmt.Errorf("invalid valid_from: %w", err)
	}
	validTo, err := time.Parse(dateLayout, req.ValidTo)
	if err != nil {
		return nil, fmt.Errorf("invalid valid_to: %w", err)
	}
	if validTo.Before(validFrom) {
		return nil, fmt.Errorf("valid_to must not precede valid_from")
	}

	model := InventoryModel(req.InventoryModel)
	if !model.Valid() {
		return nil, fmt.Errorf("invalid inventory model: %s", req.InventoryModel)
	}

	plan := &RatePlan{
		ID:             uuid.New(),
		OrgID:          orgID,
		SupplierID:     req.SupplierID,
		VariantID:      req.VariantID,
		ValidFrom:      validFrom,
		ValidTo:        validTo,
		Currency:       req.Currency,
		InventoryModel: model,
		Preferred:      req.Preferred,
		Priority:       req.Priority,
		BaseCost:       req.BaseCost,
		BasePrice:      req.BasePrice,
	}

	for _, sr := range req.Seasons {
		start, err := time.Parse(dateLayout, sr.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid season start_date: %w", err)
		}
		end, err := time.Parse(dateLayout, sr.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid season end_date: %w", err)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("season end_date must not precede start_date")
		}
		mask := sr.DowMask
		if mask == "" {
			mask = "1111111"
		}
		plan.Seasons = append(plan.Seasons, RateSeason{
			ID:         uuid.New(),
			OrgID:      orgID,
			RatePlanID: plan.ID,
			StartDate:  start,
			EndDate:    end,
			DowMask:    mask,
			MinStay:    sr.MinStay,
			MaxStay:    sr.MaxStay,
		})
	}

	for _, or := range req.Occupancies {
		if or.MaxOccupancy < or.MinOccupancy {
			return nil, fmt.Errorf("occupancy max must not precede min")
		}
		pm := PricingModel(or.PricingModel)
		if !pm.Valid() {
			return nil, fmt.Errorf("invalid pricing model: %s", or.PricingModel)
		}
		plan.Occupancies = append(plan.Occupancies, RateOccupancy{
			ID:              uuid.New(),
			OrgID:           orgID,
			RatePlanID:      plan.ID,
			MinOccupancy:    or.MinOccupancy,
			MaxOccupancy:    or.MaxOccupancy,
			PricingModel:    pm,
			BaseAmount:      or.BaseAmount,
			PerPersonAmount: or.PerPersonAmount,
		})
	}

	if err := s.repo.CreateRatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create rate plan: %w", err)
	}

	s.invalidateAvailability(ctx, orgID)
	return plan, nil
}

func (s *service) GetRatePlan(ctx context.Context, orgID, id uuid.UUID) (*RatePlan, error) {
	plan, err := s.repo.GetRatePlanByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatePlanNotFound
		}
		return nil, fmt.Errorf("failed to get rate plan: %w", err)
	}
	return plan, nil
}

func (s *service) ListRatePlansByVariant(ctx context.Context, orgID, variantID uuid.UUID) ([]RatePlan, error) {
	plans, err := s.repo.ListRatePlansByVariant(ctx, orgID, variantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate plans: %w", err)
	}
	return plans, nil
}

func (s *service) DeleteRatePlan(ctx context.Context, orgID, id uuid.UUID) error {
	if _, err := s.GetRatePlan(ctx, orgID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteRatePlan(ctx, orgID, id); err != nil {
		return fmt.Errorf("failed to delete rate plan: %w", err)
	}
	s.invalidateAvailability(ctx, orgID)
	return nil
}

func (s *service) invalidateAvailability(ctx context.Context, orgID uuid.UUID) {
	pattern := constants.BuildAvailabilityInvalidationPattern(orgID)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		s.log.WarnWithContext(ctx, "failed to invalidate availability caches", map[string]interface{}{"pattern": pattern, "error": err})
	}
}
