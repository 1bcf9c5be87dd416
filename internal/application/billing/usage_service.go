package billing

import (
	"context"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReserveUsageInput is a request to consume quota units
type ReserveUsageInput struct {
	CompanyID  uuid.UUID
	FeatureKey billing.FeatureKey
	Amount     int // defaults to 1 when zero
}

// UsageService wraps the usage ledger with input validation and logging. The
// allow/deny decision itself lives in the ledger so it stays atomic with the
// increment.
type UsageService struct {
	ledger billing.UsageLedger
	logger *zap.Logger
}

// NewUsageService creates a new UsageService
func NewUsageService(ledger billing.UsageLedger, logger *zap.Logger) *UsageService {
	return &UsageService{ledger: ledger, logger: logger}
}

// Reserve atomically checks the company's monthly limit and, when within
// quota (or overage is allowed), consumes the units. A denied reservation is
// returned with Allowed=false, not as an error.
func (s *UsageService) Reserve(ctx context.Context, input ReserveUsageInput) (*billing.Reservation, error) {
	if input.CompanyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID cannot be empty")
	}
	if input.FeatureKey == "" {
		return nil, shared.NewDomainError("INVALID_FEATURE", "Feature key cannot be empty")
	}
	amount := input.Amount
	if amount == 0 {
		amount = 1
	}
	if err := billing.ValidateAmount(amount); err != nil {
		return nil, err
	}

	res, err := s.ledger.CheckAndIncrement(ctx, input.CompanyID, input.FeatureKey, amount)
	if err != nil {
		s.logger.Error("Usage reservation failed",
			zap.String("company_id", input.CompanyID.String()),
			zap.String("feature_key", input.FeatureKey.String()),
			zap.Int("amount", amount),
			zap.Error(err))
		return nil, err
	}

	if !res.Allowed {
		s.logger.Info("Usage reservation denied",
			zap.String("company_id", input.CompanyID.String()),
			zap.String("feature_key", input.FeatureKey.String()),
			zap.Int("used", res.Used),
			zap.Int("will_overage_by", res.WillOverageBy))
	}
	return res, nil
}

// Release compensates a prior reservation, e.g. after a downstream send
// failed. Clamped at zero, so releasing more than was reserved is harmless.
func (s *UsageService) Release(ctx context.Context, companyID uuid.UUID, featureKey billing.FeatureKey, amount int) (*billing.MonthlyUsage, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID cannot be empty")
	}
	if amount == 0 {
		amount = 1
	}
	if err := billing.ValidateAmount(amount); err != nil {
		return nil, err
	}

	usage, err := s.ledger.Decrement(ctx, companyID, featureKey, amount)
	if err != nil {
		s.logger.Error("Usage release failed",
			zap.String("company_id", companyID.String()),
			zap.String("feature_key", featureKey.String()),
			zap.Error(err))
		return nil, err
	}
	return usage, nil
}

// CurrentMonthUsage reads the counter for the current UTC month
func (s *UsageService) CurrentMonthUsage(ctx context.Context, companyID uuid.UUID, featureKey billing.FeatureKey) (*billing.MonthlyUsage, error) {
	return s.ledger.CurrentUsage(ctx, companyID, featureKey, billing.CurrentYearMonth())
}
