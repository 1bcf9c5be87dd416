package billing

import (
	"context"

	"github.com/google/uuid"
)

// PlanKey identifies a plan tier by a stable short code (e.g. "mini_erp").
type PlanKey string

// Plan tiers offered to companies.
const (
	PlanMiniERP PlanKey = "mini_erp"
	PlanFullERP PlanKey = "full_erp"
)

// String returns the string representation of the plan key
func (k PlanKey) String() string {
	return string(k)
}

// Plan is an immutable reference row identifying a tier
type Plan struct {
	ID   uuid.UUID
	Key  PlanKey
	Name string
}

// PlanFeature enables a feature for a plan. Presence means enabled; there is
// no quantity on the grant itself.
type PlanFeature struct {
	PlanID     uuid.UUID
	FeatureKey FeatureKey
}

// FeatureLimit caps monthly usage of a feature under a plan. A missing row
// means no limit is defined, which is treated as unlimited, not zero.
type FeatureLimit struct {
	PlanID        uuid.UUID
	FeatureKey    FeatureKey
	LimitPerMonth int
}

// PlanRepository provides read access to the static plan catalog
type PlanRepository interface {
	// FindByKey resolves a plan by its short code
	FindByKey(ctx context.Context, key PlanKey) (*Plan, error)

	// FindByID resolves a plan by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Plan, error)

	// FindAll lists the full catalog
	FindAll(ctx context.Context) ([]*Plan, error)

	// FindAllFeatures lists the feature reference rows
	FindAllFeatures(ctx context.Context) ([]*Feature, error)

	// FindFeatureKeys lists the feature keys enabled for a plan
	FindFeatureKeys(ctx context.Context, planID uuid.UUID) ([]FeatureKey, error)

	// FindMonthlyLimit returns the monthly limit for a plan/feature pair,
	// or nil when no limit row is defined (unlimited)
	FindMonthlyLimit(ctx context.Context, planID uuid.UUID, featureKey FeatureKey) (*int, error)
}
