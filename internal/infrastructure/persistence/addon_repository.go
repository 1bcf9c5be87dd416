package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAddonRepository implements billing.AddonRepository using GORM
type GormAddonRepository struct {
	db *gorm.DB
}

// NewGormAddonRepository creates a new GormAddonRepository
func NewGormAddonRepository(db *gorm.DB) *GormAddonRepository {
	return &GormAddonRepository{db: db}
}

// FindQuantity returns the addon quantity for a company/feature pair,
// 0 when no grant exists
func (r *GormAddonRepository) FindQuantity(ctx context.Context, companyID uuid.UUID, featureKey billing.FeatureKey) (int, error) {
	var model models.SubscriptionAddonModel
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND feature_key = ?", companyID, string(featureKey)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return model.Quantity, nil
}

// FindFeatureKeys lists the features a company holds addons for
func (r *GormAddonRepository) FindFeatureKeys(ctx context.Context, companyID uuid.UUID) ([]billing.FeatureKey, error) {
	var addonModels []models.SubscriptionAddonModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("feature_key ASC").
		Find(&addonModels).Error; err != nil {
		return nil, err
	}

	keys := make([]billing.FeatureKey, len(addonModels))
	for i, model := range addonModels {
		keys[i] = billing.FeatureKey(model.FeatureKey)
	}
	return keys, nil
}

// Upsert creates or overwrites a grant
func (r *GormAddonRepository) Upsert(ctx context.Context, addon *billing.SubscriptionAddon) error {
	now := time.Now().UTC()
	model := &models.SubscriptionAddonModel{
		CompanyID:  addon.CompanyID,
		FeatureKey: string(addon.FeatureKey),
		Quantity:   addon.Quantity,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "company_id"}, {Name: "feature_key"}},
		DoUpdates: clause.Assignments(map[string]any{"quantity": addon.Quantity, "updated_at": now}),
	}).Create(model).Error
}

// Ensure GormAddonRepository implements AddonRepository
var _ billing.AddonRepository = (*GormAddonRepository)(nil)
