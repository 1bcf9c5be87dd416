package billing

import (
	"context"
	"errors"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FeatureUsageDTO describes one feature's quota position for the current month
type FeatureUsageDTO struct {
	FeatureKey    string `json:"feature_key"`
	Used          int    `json:"used"`
	LimitPerMonth *int   `json:"limit_per_month"`
	AddonQuantity int    `json:"addon_quantity"`
	Remaining     *int   `json:"remaining,omitempty"`
}

// BillingStatusDTO is the aggregate billing view for a company
type BillingStatusDTO struct {
	CompanyID    uuid.UUID         `json:"company_id"`
	PlanKey      string            `json:"plan_key"`
	PlanName     string            `json:"plan_name"`
	AllowOverage bool              `json:"allow_overage"`
	YearMonth    string            `json:"year_month"`
	Features     []string          `json:"features"`
	Usage        []FeatureUsageDTO `json:"usage"`
}

// EntitlementService resolves what a company is allowed to do: which features
// its plan and addons enable and where each feature stands against its
// monthly limit.
type EntitlementService struct {
	planRepo  billing.PlanRepository
	subRepo   billing.SubscriptionRepository
	addonRepo billing.AddonRepository
	ledger    billing.UsageLedger
	logger    *zap.Logger
}

// NewEntitlementService creates a new EntitlementService
func NewEntitlementService(
	planRepo billing.PlanRepository,
	subRepo billing.SubscriptionRepository,
	addonRepo billing.AddonRepository,
	ledger billing.UsageLedger,
	logger *zap.Logger,
) *EntitlementService {
	return &EntitlementService{
		planRepo:  planRepo,
		subRepo:   subRepo,
		addonRepo: addonRepo,
		ledger:    ledger,
		logger:    logger,
	}
}

// GetActiveSubscription returns the company's active subscription or
// billing.ErrNoActiveSubscription when there is none
func (s *EntitlementService) GetActiveSubscription(ctx context.Context, companyID uuid.UUID) (*billing.Subscription, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID cannot be empty")
	}

	sub, err := s.subRepo.FindActiveByCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, billing.ErrNoActiveSubscription
		}
		s.logger.Error("Failed to find active subscription",
			zap.String("company_id", companyID.String()),
			zap.Error(err))
		return nil, err
	}
	return sub, nil
}

// GetEnabledFeatures returns the union of plan features and addon features
// for the company. Without an active subscription the set is empty, even if
// addon grants exist: addons extend a subscription, they do not stand alone.
func (s *EntitlementService) GetEnabledFeatures(ctx context.Context, companyID uuid.UUID) (billing.FeatureSet, error) {
	sub, err := s.GetActiveSubscription(ctx, companyID)
	if err != nil {
		if errors.Is(err, billing.ErrNoActiveSubscription) {
			return billing.NewFeatureSet(), nil
		}
		return nil, err
	}

	planKeys, err := s.planRepo.FindFeatureKeys(ctx, sub.PlanID)
	if err != nil {
		s.logger.Error("Failed to load plan features",
			zap.String("plan_id", sub.PlanID.String()),
			zap.Error(err))
		return nil, err
	}
	addonKeys, err := s.addonRepo.FindFeatureKeys(ctx, companyID)
	if err != nil {
		s.logger.Error("Failed to load addon features",
			zap.String("company_id", companyID.String()),
			zap.Error(err))
		return nil, err
	}

	set := billing.NewFeatureSet(planKeys...)
	for _, k := range addonKeys {
		set.Add(k)
	}
	return set, nil
}

// HasFeature reports whether the company is entitled to the feature
func (s *EntitlementService) HasFeature(ctx context.Context, companyID uuid.UUID, key billing.FeatureKey) (bool, error) {
	features, err := s.GetEnabledFeatures(ctx, companyID)
	if err != nil {
		return false, err
	}
	return features.Has(key), nil
}

// RequireFeature returns a FEATURE_NOT_ENABLED domain error unless the
// company is entitled to the feature
func (s *EntitlementService) RequireFeature(ctx context.Context, companyID uuid.UUID, key billing.FeatureKey) error {
	ok, err := s.HasFeature(ctx, companyID, key)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Debug("Feature not enabled",
			zap.String("company_id", companyID.String()),
			zap.String("feature_key", key.String()))
		return billing.NewFeatureNotEnabledError(key)
	}
	return nil
}

// CheckLimit reports the decision a reservation of the given amount would
// take, without mutating the ledger. The answer is advisory: a concurrent
// reservation can invalidate it before the caller acts on it.
func (s *EntitlementService) CheckLimit(ctx context.Context, companyID uuid.UUID, key billing.FeatureKey, amount int) (*billing.Reservation, error) {
	if err := billing.ValidateAmount(amount); err != nil {
		return nil, err
	}

	sub, err := s.GetActiveSubscription(ctx, companyID)
	if err != nil {
		return nil, err
	}

	ym := billing.CurrentYearMonth()
	limit, err := s.planRepo.FindMonthlyLimit(ctx, sub.PlanID, key)
	if err != nil {
		return nil, err
	}
	usage, err := s.ledger.CurrentUsage(ctx, companyID, key, ym)
	if err != nil {
		return nil, err
	}

	res := &billing.Reservation{
		Allowed:       true,
		FeatureKey:    key,
		YearMonth:     ym,
		Used:          usage.Used,
		LimitPerMonth: limit,
		AllowOverage:  sub.AllowOverage,
	}
	if limit == nil {
		return res, nil
	}

	addonQty, err := s.addonRepo.FindQuantity(ctx, companyID, key)
	if err != nil {
		return nil, err
	}

	nextUsed := usage.Used + amount
	if overage := nextUsed - *limit; overage > 0 {
		res.WillOverageBy = overage
	}
	if nextUsed > *limit+addonQty && !sub.AllowOverage {
		res.Allowed = false
	}
	return res, nil
}

// GetStatus assembles the company's plan, enabled features and current-month
// quota position per feature
func (s *EntitlementService) GetStatus(ctx context.Context, companyID uuid.UUID) (*BillingStatusDTO, error) {
	sub, err := s.GetActiveSubscription(ctx, companyID)
	if err != nil {
		return nil, err
	}

	planKeys, err := s.planRepo.FindFeatureKeys(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}
	addonKeys, err := s.addonRepo.FindFeatureKeys(ctx, companyID)
	if err != nil {
		return nil, err
	}
	set := billing.NewFeatureSet(planKeys...)
	for _, k := range addonKeys {
		set.Add(k)
	}

	ym := billing.CurrentYearMonth()
	status := &BillingStatusDTO{
		CompanyID:    companyID,
		PlanKey:      sub.PlanKey.String(),
		PlanName:     sub.PlanName,
		AllowOverage: sub.AllowOverage,
		YearMonth:    ym.String(),
	}
	for _, k := range set.Keys() {
		status.Features = append(status.Features, k.String())
	}

	for _, key := range planKeys {
		limit, err := s.planRepo.FindMonthlyLimit(ctx, sub.PlanID, key)
		if err != nil {
			return nil, err
		}
		if limit == nil {
			continue
		}
		usage, err := s.ledger.CurrentUsage(ctx, companyID, key, ym)
		if err != nil {
			return nil, err
		}
		addonQty, err := s.addonRepo.FindQuantity(ctx, companyID, key)
		if err != nil {
			return nil, err
		}
		remaining := *limit + addonQty - usage.Used
		if remaining < 0 {
			remaining = 0
		}
		status.Usage = append(status.Usage, FeatureUsageDTO{
			FeatureKey:    key.String(),
			Used:          usage.Used,
			LimitPerMonth: limit,
			AddonQuantity: addonQty,
			Remaining:     &remaining,
		})
	}
	return status, nil
}
