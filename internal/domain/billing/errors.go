package billing

import (
	"fmt"

	"github.com/backoffice/backend/internal/domain/shared"
)

// Billing error codes
const (
	ErrCodeFeatureNotEnabled    = "FEATURE_NOT_ENABLED"
	ErrCodePlanNotFound         = "PLAN_NOT_FOUND"
	ErrCodeNoActiveSubscription = "NO_ACTIVE_SUBSCRIPTION"
)

// NewFeatureNotEnabledError reports that the company's plan and addons do not
// include the requested feature
func NewFeatureNotEnabledError(key FeatureKey) *shared.DomainError {
	return shared.NewDomainError(ErrCodeFeatureNotEnabled, fmt.Sprintf("Feature not enabled: %s", key))
}

// NewPlanNotFoundError reports an unknown plan key on an upgrade request
func NewPlanNotFoundError(key PlanKey) *shared.DomainError {
	return shared.NewDomainError(ErrCodePlanNotFound, fmt.Sprintf("Plan not found: %s", key))
}

// ErrNoActiveSubscription is returned by operations that require an active
// subscription (e.g. enabling overage) when the company has none
var ErrNoActiveSubscription = shared.NewDomainError(ErrCodeNoActiveSubscription, "No active subscription")
