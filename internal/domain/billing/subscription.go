package billing

import (
	"context"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SubscriptionStatus is the lifecycle state of a subscription
type SubscriptionStatus string

const (
	// SubscriptionStatusActive marks the single current subscription of a company
	SubscriptionStatusActive SubscriptionStatus = "active"

	// SubscriptionStatusEnded marks a superseded subscription; rows are never hard-deleted
	SubscriptionStatusEnded SubscriptionStatus = "ended"
)

// Subscription is the time-bounded association between a company and a plan.
// Invariant: at most one active subscription per company. The transition
// protocol (end old, create new) is enforced by SubscriptionRepository.Replace,
// not by a database constraint, so plan transitions for one company must not
// run concurrently.
type Subscription struct {
	shared.BaseEntity
	CompanyID    uuid.UUID
	PlanID       uuid.UUID
	Status       SubscriptionStatus
	StartedAt    time.Time
	EndedAt      *time.Time
	AllowOverage bool

	// Plan key/name resolved from the joined plan row; populated on reads
	PlanKey  PlanKey
	PlanName string
}

// NewSubscription creates an active subscription starting now
func NewSubscription(companyID, planID uuid.UUID, allowOverage bool) *Subscription {
	return &Subscription{
		BaseEntity:   shared.NewBaseEntity(),
		CompanyID:    companyID,
		PlanID:       planID,
		Status:       SubscriptionStatusActive,
		StartedAt:    time.Now().UTC(),
		AllowOverage: allowOverage,
	}
}

// IsActive reports whether the subscription is the company's current one
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

// End marks the subscription as superseded
func (s *Subscription) End() {
	now := time.Now().UTC()
	s.Status = SubscriptionStatusEnded
	s.EndedAt = &now
	s.UpdatedAt = now
}

// SubscriptionAddon grants extra monthly quota for one feature on top of the
// plan limit. Addons are keyed by company, not subscription, so they survive
// plan swaps.
type SubscriptionAddon struct {
	CompanyID  uuid.UUID
	FeatureKey FeatureKey
	Quantity   int
}

// SubscriptionRepository persists subscription lifecycle state
type SubscriptionRepository interface {
	// FindActiveByCompany returns the company's active subscription with the
	// plan key/name resolved, or shared.ErrNotFound when the company has no
	// active subscription. A dangling plan reference also yields
	// shared.ErrNotFound: entitlement resolution fails closed.
	FindActiveByCompany(ctx context.Context, companyID uuid.UUID) (*Subscription, error)

	// Create inserts a new subscription row
	Create(ctx context.Context, sub *Subscription) error

	// Replace atomically ends current (when non-nil) and inserts next in one
	// transaction, so a company is never left without an active subscription
	// by a partial failure.
	Replace(ctx context.Context, current *Subscription, next *Subscription) error

	// SetAllowOverage updates the overage flag on a subscription
	SetAllowOverage(ctx context.Context, subscriptionID uuid.UUID, allow bool) error
}

// AddonRepository persists per-company quota grants
type AddonRepository interface {
	// FindQuantity returns the addon quantity for a company/feature pair,
	// 0 when no grant exists
	FindQuantity(ctx context.Context, companyID uuid.UUID, featureKey FeatureKey) (int, error)

	// FindFeatureKeys lists the features a company holds addons for
	FindFeatureKeys(ctx context.Context, companyID uuid.UUID) ([]FeatureKey, error)

	// Upsert creates or overwrites a grant
	Upsert(ctx context.Context, addon *SubscriptionAddon) error
}
