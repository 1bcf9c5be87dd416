package billing

import (
	"context"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockPlanRepository struct {
	mock.Mock
}

func (m *mockPlanRepository) FindByKey(ctx context.Context, key billing.PlanKey) (*billing.Plan, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Plan), args.Error(1)
}

func (m *mockPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Plan), args.Error(1)
}

func (m *mockPlanRepository) FindAll(ctx context.Context) ([]*billing.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Plan), args.Error(1)
}

func (m *mockPlanRepository) FindAllFeatures(ctx context.Context) ([]*billing.Feature, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Feature), args.Error(1)
}

func (m *mockPlanRepository) FindFeatureKeys(ctx context.Context, planID uuid.UUID) ([]billing.FeatureKey, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.FeatureKey), args.Error(1)
}

func (m *mockPlanRepository) FindMonthlyLimit(ctx context.Context, planID uuid.UUID, featureKey billing.FeatureKey) (*int, error) {
	args := m.Called(ctx, planID, featureKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int), args.Error(1)
}

type mockSubscriptionRepository struct {
	mock.Mock
}

func (m *mockSubscriptionRepository) FindActiveByCompany(ctx context.Context, companyID uuid.UUID) (*billing.Subscription, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, sub *billing.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *mockSubscriptionRepository) Replace(ctx context.Context, current *billing.Subscription, next *billing.Subscription) error {
	args := m.Called(ctx, current, next)
	return args.Error(0)
}

func (m *mockSubscriptionRepository) SetAllowOverage(ctx context.Context, subscriptionID uuid.UUID, allow bool) error {
	args := m.Called(ctx, subscriptionID, allow)
	return args.Error(0)
}

type mockAddonRepository struct {
	mock.Mock
}

func (m *mockAddonRepository) FindQuantity(ctx context.Context, companyID uuid.UUID, featureKey billing.FeatureKey) (int, error) {
	args := m.Called(ctx, companyID, featureKey)
	return args.Int(0), args.Error(1)
}

func (m *mockAddonRepository) FindFeatureKeys(ctx context.Context, companyID uuid.UUID) ([]billing.FeatureKey, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.FeatureKey), args.Error(1)
}

func (m *mockAddonRepository) Upsert(ctx context.Context, addon *billing.SubscriptionAddon) error {
	args := m.Called(ctx, addon)
	return args.Error(0)
}

type mockUsageLedger struct {
	mock.Mock
}

func (m *mockUsageLedger) CheckAndIncrement(ctx context.Context, companyID uuid.UUID, featureKey billing.FeatureKey, amount int) (*billing.Reservation, error) {
	args := m.Called(ctx, companyID, featureKey, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Reservation), args.Error(1)
}

func (m *mockUsageLedger) Decrement(ctx context.Context, companyID uuid.UUID, featureKey billing.FeatureKey, amount int) (*billing.MonthlyUsage, error) {
	args := m.Called(ctx, companyID, featureKey, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.MonthlyUsage), args.Error(1)
}

func (m *mockUsageLedger) CurrentUsage(ctx context.Context, companyID uuid.UUID, featureKey billing.FeatureKey, ym billing.YearMonth) (*billing.MonthlyUsage, error) {
	args := m.Called(ctx, companyID, featureKey, ym)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.MonthlyUsage), args.Error(1)
}
