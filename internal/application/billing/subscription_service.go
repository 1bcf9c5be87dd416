package billing

import (
	"context"
	"errors"
	"time"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Upgrade actions
const (
	UpgradeActionUpgraded = "upgraded"
	UpgradeActionNoop     = "noop"
)

// UpgradePlanInput is a request to move a company onto a plan
type UpgradePlanInput struct {
	CompanyID    uuid.UUID
	PlanKey      billing.PlanKey
	AllowOverage bool
}

// SubscriptionSummary describes the subscription a plan change left active
type SubscriptionSummary struct {
	ID           uuid.UUID `json:"id"`
	Status       string    `json:"status"`
	StartedAt    time.Time `json:"started_at"`
	AllowOverage bool      `json:"allow_overage"`
}

// PlanSummary identifies the plan of that subscription
type PlanSummary struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// UpgradePlanResult reports what the upgrade did
type UpgradePlanResult struct {
	Action       string              `json:"action"`
	Subscription SubscriptionSummary `json:"subscription"`
	Plan         PlanSummary         `json:"plan"`
}

func newUpgradePlanResult(action string, sub *billing.Subscription, plan *billing.Plan) *UpgradePlanResult {
	return &UpgradePlanResult{
		Action: action,
		Subscription: SubscriptionSummary{
			ID:           sub.ID,
			Status:       string(sub.Status),
			StartedAt:    sub.StartedAt,
			AllowOverage: sub.AllowOverage,
		},
		Plan: PlanSummary{
			Key:  plan.Key.String(),
			Name: plan.Name,
		},
	}
}

// SubscriptionService manages the plan lifecycle of companies
type SubscriptionService struct {
	planRepo billing.PlanRepository
	subRepo  billing.SubscriptionRepository
	logger   *zap.Logger
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(
	planRepo billing.PlanRepository,
	subRepo billing.SubscriptionRepository,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		planRepo: planRepo,
		subRepo:  subRepo,
		logger:   logger,
	}
}

// UpgradePlan moves the company onto the given plan. When the company is
// already on that plan only the overage flag is synced (action "noop").
// Otherwise the current subscription is ended and a new one created in a
// single transaction, so the company always keeps exactly one active
// subscription. Usage counters are untouched: they are keyed by company and
// month, not by subscription, so mid-month usage carries over to the new plan.
func (s *SubscriptionService) UpgradePlan(ctx context.Context, input UpgradePlanInput) (*UpgradePlanResult, error) {
	if input.CompanyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID cannot be empty")
	}

	// The plan catalog in the database is authoritative; any key it resolves
	// is upgradable, not just the seeded tiers.
	plan, err := s.planRepo.FindByKey(ctx, input.PlanKey)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, billing.NewPlanNotFoundError(input.PlanKey)
		}
		return nil, err
	}

	current, err := s.subRepo.FindActiveByCompany(ctx, input.CompanyID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if current != nil && current.PlanID == plan.ID {
		if current.AllowOverage != input.AllowOverage {
			if err := s.subRepo.SetAllowOverage(ctx, current.ID, input.AllowOverage); err != nil {
				return nil, err
			}
			current.AllowOverage = input.AllowOverage
		}
		s.logger.Info("Plan unchanged, overage flag synced",
			zap.String("company_id", input.CompanyID.String()),
			zap.String("plan_key", plan.Key.String()),
			zap.Bool("allow_overage", input.AllowOverage))
		return newUpgradePlanResult(UpgradeActionNoop, current, plan), nil
	}

	next := billing.NewSubscription(input.CompanyID, plan.ID, input.AllowOverage)
	if err := s.subRepo.Replace(ctx, current, next); err != nil {
		s.logger.Error("Plan upgrade failed",
			zap.String("company_id", input.CompanyID.String()),
			zap.String("plan_key", plan.Key.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Plan upgraded",
		zap.String("company_id", input.CompanyID.String()),
		zap.String("plan_key", plan.Key.String()),
		zap.Bool("allow_overage", input.AllowOverage))
	return newUpgradePlanResult(UpgradeActionUpgraded, next, plan), nil
}

// SetAllowOverage flips the overage flag on the company's active
// subscription. Companies without an active subscription get
// billing.ErrNoActiveSubscription.
func (s *SubscriptionService) SetAllowOverage(ctx context.Context, companyID uuid.UUID, allow bool) (*billing.Subscription, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID cannot be empty")
	}

	sub, err := s.subRepo.FindActiveByCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, billing.ErrNoActiveSubscription
		}
		return nil, err
	}

	if sub.AllowOverage != allow {
		if err := s.subRepo.SetAllowOverage(ctx, sub.ID, allow); err != nil {
			return nil, err
		}
		sub.AllowOverage = allow
	}

	s.logger.Info("Overage flag updated",
		zap.String("company_id", companyID.String()),
		zap.Bool("allow_overage", allow))
	return sub, nil
}

// ListPlans returns the plan catalog
func (s *SubscriptionService) ListPlans(ctx context.Context) ([]*billing.Plan, error) {
	return s.planRepo.FindAll(ctx)
}

// ListFeatures returns the feature reference catalog
func (s *SubscriptionService) ListFeatures(ctx context.Context) ([]*billing.Feature, error) {
	return s.planRepo.FindAllFeatures(ctx)
}
