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

// GormUsageLedger implements billing.UsageLedger using GORM.
//
// The check-and-increment hot path never separates the limit check from the
// increment: the allow decision is folded into the WHERE clause of a single
// UPDATE, so two concurrent reservations can never both pass a check against
// the same stale counter. Under READ COMMITTED the second UPDATE re-evaluates
// its condition against the committed row after the first one's lock is
// released.
type GormUsageLedger struct {
	db *gorm.DB
}

// NewGormUsageLedger creates a new GormUsageLedger
func NewGormUsageLedger(db *gorm.DB) *GormUsageLedger {
	return &GormUsageLedger{db: db}
}

// CheckAndIncrement atomically reserves amount units against the company's
// monthly limit for the current UTC month
func (l *GormUsageLedger) CheckAndIncrement(ctx context.Context, companyID uuid.UUID, featureKey billing.FeatureKey, amount int) (*billing.Reservation, error) {
	if err := billing.ValidateAmount(amount); err != nil {
		return nil, err
	}

	ym := billing.CurrentYearMonth()
	res := &billing.Reservation{
		FeatureKey: featureKey,
		YearMonth:  ym,
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sub models.SubscriptionModel
		if err := tx.
			Where("company_id = ? AND status = ?", companyID, string(billing.SubscriptionStatusActive)).
			Order("started_at DESC").
			First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return billing.ErrNoActiveSubscription
			}
			return err
		}
		res.AllowOverage = sub.AllowOverage

		var limitRow models.FeatureLimitModel
		var limit *int
		if err := tx.
			Where("plan_id = ? AND feature_key = ?", sub.PlanID, string(featureKey)).
			First(&limitRow).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		} else {
			v := limitRow.LimitPerMonth
			limit = &v
		}
		res.LimitPerMonth = limit

		addonQty := 0
		var addon models.SubscriptionAddonModel
		if err := tx.
			Where("company_id = ? AND feature_key = ?", companyID, string(featureKey)).
			First(&addon).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		} else {
			addonQty = addon.Quantity
		}

		now := time.Now().UTC()

		// The allow decision lives in the WHERE clause so check and
		// increment are one statement.
		guardedUpdate := func() (*gorm.DB, error) {
			q := tx.Model(&models.MonthlyUsageModel{}).
				Where("company_id = ? AND feature_key = ? AND year_month = ?",
					companyID, string(featureKey), ym.String())
			if limit != nil && !sub.AllowOverage {
				q = q.Where("used + ? <= ?", amount, *limit+addonQty)
			}
			result := q.Updates(map[string]any{
				"used":       gorm.Expr("used + ?", amount),
				"updated_at": now,
			})
			return result, result.Error
		}

		result, err := guardedUpdate()
		if err != nil {
			return err
		}
		res.Allowed = result.RowsAffected == 1

		if !res.Allowed {
			// Either the counter row does not exist yet or the guard failed.
			// A denied reservation must not materialize a row, so the first
			// reservation of the month inserts only when it is admitted.
			var existing models.MonthlyUsageModel
			err := tx.
				Where("company_id = ? AND feature_key = ? AND year_month = ?",
					companyID, string(featureKey), ym.String()).
				First(&existing).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if errors.Is(err, gorm.ErrRecordNotFound) &&
				(limit == nil || sub.AllowOverage || amount <= *limit+addonQty) {
				insert := tx.Clauses(clause.OnConflict{DoNothing: true}).
					Create(&models.MonthlyUsageModel{
						CompanyID:  companyID,
						FeatureKey: string(featureKey),
						YearMonth:  ym.String(),
						Used:       amount,
						UpdatedAt:  now,
					})
				if insert.Error != nil {
					return insert.Error
				}
				if insert.RowsAffected == 1 {
					res.Allowed = true
				} else {
					// Lost the insert race; the guard re-evaluates against
					// the row the winner committed.
					result, err := guardedUpdate()
					if err != nil {
						return err
					}
					res.Allowed = result.RowsAffected == 1
				}
			}
		}

		var row models.MonthlyUsageModel
		if err := tx.
			Where("company_id = ? AND feature_key = ? AND year_month = ?",
				companyID, string(featureKey), ym.String()).
			First(&row).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			// Denied before any usage this month; no row was written.
		}
		res.Used = row.Used

		// Overage is measured against the plan limit alone, addons only
		// widen the admission window.
		if limit != nil {
			nextUsed := row.Used
			if !res.Allowed {
				nextUsed = row.Used + amount
			}
			if over := nextUsed - *limit; over > 0 {
				res.WillOverageBy = over
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Decrement compensates a prior reservation, flooring the counter at zero.
// A missing row is reported as used = 0, not an error.
func (l *GormUsageLedger) Decrement(ctx context.Context, companyID uuid.UUID, featureKey billing.FeatureKey, amount int) (*billing.MonthlyUsage, error) {
	if err := billing.ValidateAmount(amount); err != nil {
		return nil, err
	}

	ym := billing.CurrentYearMonth()

	if err := l.db.WithContext(ctx).Model(&models.MonthlyUsageModel{}).
		Where("company_id = ? AND feature_key = ? AND year_month = ?",
			companyID, string(featureKey), ym.String()).
		Updates(map[string]any{
			"used":       gorm.Expr("CASE WHEN used > ? THEN used - ? ELSE 0 END", amount, amount),
			"updated_at": time.Now().UTC(),
		}).Error; err != nil {
		return nil, err
	}

	return l.CurrentUsage(ctx, companyID, featureKey, ym)
}

// CurrentUsage reads the counter for the given month, used = 0 when no row
// exists yet
func (l *GormUsageLedger) CurrentUsage(ctx context.Context, companyID uuid.UUID, featureKey billing.FeatureKey, ym billing.YearMonth) (*billing.MonthlyUsage, error) {
	var row models.MonthlyUsageModel
	err := l.db.WithContext(ctx).
		Where("company_id = ? AND feature_key = ? AND year_month = ?",
			companyID, string(featureKey), ym.String()).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &billing.MonthlyUsage{
				CompanyID:  companyID,
				FeatureKey: featureKey,
				YearMonth:  ym,
				Used:       0,
			}, nil
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// Ensure GormUsageLedger implements UsageLedger
var _ billing.UsageLedger = (*GormUsageLedger)(nil)
