package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSubscriptionRepository implements billing.SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// FindActiveByCompany returns the company's active subscription with plan
// key/name resolved. A missing subscription or a dangling plan reference
// both yield shared.ErrNotFound so entitlement checks fail closed.
func (r *GormSubscriptionRepository) FindActiveByCompany(ctx context.Context, companyID uuid.UUID) (*billing.Subscription, error) {
	var model models.SubscriptionModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND status = ?", companyID, string(billing.SubscriptionStatusActive)).
		Order("started_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	var plan models.PlanModel
	if err := r.db.WithContext(ctx).First(&plan, "id = ?", model.PlanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	sub := model.ToDomain()
	sub.PlanKey = billing.PlanKey(plan.Key)
	sub.PlanName = plan.Name
	return sub, nil
}

// Create inserts a new subscription row
func (r *GormSubscriptionRepository) Create(ctx context.Context, sub *billing.Subscription) error {
	model := models.SubscriptionModelFromDomain(sub)
	return r.db.WithContext(ctx).Create(model).Error
}

// Replace atomically ends current (when non-nil) and inserts next in one
// transaction
func (r *GormSubscriptionRepository) Replace(ctx context.Context, current *billing.Subscription, next *billing.Subscription) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if current != nil {
			now := time.Now().UTC()
			result := tx.Model(&models.SubscriptionModel{}).
				Where("id = ? AND status = ?", current.ID, string(billing.SubscriptionStatusActive)).
				Updates(map[string]any{
					"status":     string(billing.SubscriptionStatusEnded),
					"ended_at":   now,
					"updated_at": now,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.ErrConcurrencyConflict
			}
		}
		return tx.Create(models.SubscriptionModelFromDomain(next)).Error
	})
}

// SetAllowOverage updates the overage flag on a subscription
func (r *GormSubscriptionRepository) SetAllowOverage(ctx context.Context, subscriptionID uuid.UUID, allow bool) error {
	result := r.db.WithContext(ctx).Model(&models.SubscriptionModel{}).
		Where("id = ?", subscriptionID).
		Updates(map[string]any{
			"allow_overage": allow,
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSubscriptionRepository implements SubscriptionRepository
var _ billing.SubscriptionRepository = (*GormSubscriptionRepository)(nil)
