package persistence

import (
	"context"
	"errors"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPlanRepository implements billing.PlanRepository using GORM
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GormPlanRepository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// FindByKey resolves a plan by its short code
func (r *GormPlanRepository) FindByKey(ctx context.Context, key billing.PlanKey) (*billing.Plan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).First(&model, "key = ?", string(key)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByID resolves a plan by ID
func (r *GormPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Plan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists the full plan catalog
func (r *GormPlanRepository) FindAll(ctx context.Context) ([]*billing.Plan, error) {
	var planModels []models.PlanModel
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&planModels).Error; err != nil {
		return nil, err
	}

	plans := make([]*billing.Plan, len(planModels))
	for i := range planModels {
		plans[i] = planModels[i].ToDomain()
	}
	return plans, nil
}

// FindAllFeatures lists the feature reference rows
func (r *GormPlanRepository) FindAllFeatures(ctx context.Context) ([]*billing.Feature, error) {
	var featureModels []models.FeatureModel
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&featureModels).Error; err != nil {
		return nil, err
	}

	features := make([]*billing.Feature, len(featureModels))
	for i := range featureModels {
		features[i] = featureModels[i].ToDomain()
	}
	return features, nil
}

// FindFeatureKeys lists the feature keys enabled for a plan
func (r *GormPlanRepository) FindFeatureKeys(ctx context.Context, planID uuid.UUID) ([]billing.FeatureKey, error) {
	var featureModels []models.PlanFeatureModel
	if err := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("feature_key ASC").
		Find(&featureModels).Error; err != nil {
		return nil, err
	}

	keys := make([]billing.FeatureKey, len(featureModels))
	for i, model := range featureModels {
		keys[i] = billing.FeatureKey(model.FeatureKey)
	}
	return keys, nil
}

// FindMonthlyLimit returns the monthly limit for a plan/feature pair, or nil
// when no limit row exists (unlimited)
func (r *GormPlanRepository) FindMonthlyLimit(ctx context.Context, planID uuid.UUID, featureKey billing.FeatureKey) (*int, error) {
	var model models.FeatureLimitModel
	if err := r.db.WithContext(ctx).
		Where("plan_id = ? AND feature_key = ?", planID, string(featureKey)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	limit := model.LimitPerMonth
	return &limit, nil
}

// Ensure GormPlanRepository implements PlanRepository
var _ billing.PlanRepository = (*GormPlanRepository)(nil)
