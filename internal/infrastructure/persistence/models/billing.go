package models

import (
	"time"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/google/uuid"
)

// PlanModel maps the plan catalog table
type PlanModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key"`
	Key  string    `gorm:"size:50;not null;uniqueIndex"`
	Name string    `gorm:"size:100;not null"`
}

// TableName returns the table name for PlanModel
func (PlanModel) TableName() string {
	return "plans"
}

// ToDomain converts PlanModel to domain Plan
func (m *PlanModel) ToDomain() *billing.Plan {
	return &billing.Plan{
		ID:   m.ID,
		Key:  billing.PlanKey(m.Key),
		Name: m.Name,
	}
}

// FeatureModel maps the feature reference table describing each gateable
// capability
type FeatureModel struct {
	Key         string `gorm:"size:100;primaryKey"`
	Description string `gorm:"not null;default:''"`
}

// TableName returns the table name for FeatureModel
func (FeatureModel) TableName() string {
	return "features"
}

// ToDomain converts FeatureModel to domain Feature
func (m *FeatureModel) ToDomain() *billing.Feature {
	return &billing.Feature{
		Key:         billing.FeatureKey(m.Key),
		Description: m.Description,
	}
}

// PlanFeatureModel maps the plan feature grant table. Presence of a row
// means the feature is enabled for the plan.
type PlanFeatureModel struct {
	PlanID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	FeatureKey string    `gorm:"size:100;primaryKey"`
}

// TableName returns the table name for PlanFeatureModel
func (PlanFeatureModel) TableName() string {
	return "plan_features"
}

// FeatureLimitModel maps the per-plan monthly limit table. A feature
// without a row here is unlimited.
type FeatureLimitModel struct {
	PlanID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FeatureKey    string    `gorm:"size:100;primaryKey"`
	LimitPerMonth int       `gorm:"not null"`
}

// TableName returns the table name for FeatureLimitModel
func (FeatureLimitModel) TableName() string {
	return "feature_limits"
}

// SubscriptionModel maps the subscription lifecycle table
type SubscriptionModel struct {
	BaseModel
	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_subscriptions_company_status"`
	PlanID       uuid.UUID  `gorm:"type:uuid;not null"`
	Status       string     `gorm:"size:20;not null;index:idx_subscriptions_company_status"`
	StartedAt    time.Time  `gorm:"not null"`
	EndedAt      *time.Time ``
	AllowOverage bool       `gorm:"not null;default:false"`
}

// TableName returns the table name for SubscriptionModel
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// ToDomain converts SubscriptionModel to domain Subscription
func (m *SubscriptionModel) ToDomain() *billing.Subscription {
	return &billing.Subscription{
		BaseEntity:   m.BaseModel.ToDomain(),
		CompanyID:    m.CompanyID,
		PlanID:       m.PlanID,
		Status:       billing.SubscriptionStatus(m.Status),
		StartedAt:    m.StartedAt,
		EndedAt:      m.EndedAt,
		AllowOverage: m.AllowOverage,
	}
}

// SubscriptionModelFromDomain converts a domain Subscription to its model
func SubscriptionModelFromDomain(s *billing.Subscription) *SubscriptionModel {
	m := &SubscriptionModel{
		CompanyID:    s.CompanyID,
		PlanID:       s.PlanID,
		Status:       string(s.Status),
		StartedAt:    s.StartedAt,
		EndedAt:      s.EndedAt,
		AllowOverage: s.AllowOverage,
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}

// SubscriptionAddonModel maps per-company quota grants. Addons are keyed by
// company so they survive plan swaps.
type SubscriptionAddonModel struct {
	CompanyID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	FeatureKey string    `gorm:"size:100;primaryKey"`
	Quantity   int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for SubscriptionAddonModel
func (SubscriptionAddonModel) TableName() string {
	return "subscription_addons"
}

// ToDomain converts SubscriptionAddonModel to domain SubscriptionAddon
func (m *SubscriptionAddonModel) ToDomain() *billing.SubscriptionAddon {
	return &billing.SubscriptionAddon{
		CompanyID:  m.CompanyID,
		FeatureKey: billing.FeatureKey(m.FeatureKey),
		Quantity:   m.Quantity,
	}
}

// MonthlyUsageModel maps the per-company/feature/month usage counter.
// Rows are created lazily; an absent row means zero usage.
type MonthlyUsageModel struct {
	CompanyID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	FeatureKey string    `gorm:"size:100;primaryKey"`
	YearMonth  string    `gorm:"size:7;primaryKey;column:year_month"`
	Used       int       `gorm:"not null;default:0"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for MonthlyUsageModel
func (MonthlyUsageModel) TableName() string {
	return "monthly_usage"
}

// ToDomain converts MonthlyUsageModel to domain MonthlyUsage
func (m *MonthlyUsageModel) ToDomain() *billing.MonthlyUsage {
	return &billing.MonthlyUsage{
		CompanyID:  m.CompanyID,
		FeatureKey: billing.FeatureKey(m.FeatureKey),
		YearMonth:  billing.YearMonth(m.YearMonth),
		Used:       m.Used,
	}
}
