package handler

import (
	"context"
	"sync"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/messaging"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Map-backed fakes for the billing and messaging repositories.

type fakePlanRepo struct {
	plans    []*billing.Plan
	features map[uuid.UUID][]billing.FeatureKey
	limits   map[uuid.UUID]map[billing.FeatureKey]int
	catalog  []*billing.Feature
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{
		features: make(map[uuid.UUID][]billing.FeatureKey),
		limits:   make(map[uuid.UUID]map[billing.FeatureKey]int),
	}
}

func (r *fakePlanRepo) addPlan(key billing.PlanKey, name string, features []billing.FeatureKey, limits map[billing.FeatureKey]int) *billing.Plan {
	plan := &billing.Plan{ID: uuid.New(), Key: key, Name: name}
	r.plans = append(r.plans, plan)
	r.features[plan.ID] = features
	r.limits[plan.ID] = limits
	for _, k := range features {
		r.addFeature(k, "")
	}
	return plan
}

func (r *fakePlanRepo) addFeature(key billing.FeatureKey, description string) {
	for _, f := range r.catalog {
		if f.Key == key {
			if description != "" {
				f.Description = description
			}
			return
		}
	}
	r.catalog = append(r.catalog, &billing.Feature{Key: key, Description: description})
}

func (r *fakePlanRepo) FindByKey(_ context.Context, key billing.PlanKey) (*billing.Plan, error) {
	for _, p := range r.plans {
		if p.Key == key {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakePlanRepo) FindByID(_ context.Context, id uuid.UUID) (*billing.Plan, error) {
	for _, p := range r.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakePlanRepo) FindAll(_ context.Context) ([]*billing.Plan, error) {
	return r.plans, nil
}

func (r *fakePlanRepo) FindAllFeatures(_ context.Context) ([]*billing.Feature, error) {
	return r.catalog, nil
}

func (r *fakePlanRepo) FindFeatureKeys(_ context.Context, planID uuid.UUID) ([]billing.FeatureKey, error) {
	return r.features[planID], nil
}

func (r *fakePlanRepo) FindMonthlyLimit(_ context.Context, planID uuid.UUID, featureKey billing.FeatureKey) (*int, error) {
	if limits, ok := r.limits[planID]; ok {
		if limit, ok := limits[featureKey]; ok {
			v := limit
			return &v, nil
		}
	}
	return nil, nil
}

type fakeSubRepo struct {
	active map[uuid.UUID]*billing.Subscription // by company
	plans  *fakePlanRepo
}

func newFakeSubRepo(plans *fakePlanRepo) *fakeSubRepo {
	return &fakeSubRepo{
		active: make(map[uuid.UUID]*billing.Subscription),
		plans:  plans,
	}
}

func (r *fakeSubRepo) subscribe(companyID uuid.UUID, plan *billing.Plan, allowOverage bool) *billing.Subscription {
	sub := billing.NewSubscription(companyID, plan.ID, allowOverage)
	sub.PlanKey = plan.Key
	sub.PlanName = plan.Name
	r.active[companyID] = sub
	return sub
}

func (r *fakeSubRepo) FindActiveByCompany(_ context.Context, companyID uuid.UUID) (*billing.Subscription, error) {
	if sub, ok := r.active[companyID]; ok {
		return sub, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSubRepo) Create(_ context.Context, sub *billing.Subscription) error {
	r.resolvePlan(sub)
	r.active[sub.CompanyID] = sub
	return nil
}

func (r *fakeSubRepo) Replace(_ context.Context, current *billing.Subscription, next *billing.Subscription) error {
	if current != nil {
		current.End()
		delete(r.active, current.CompanyID)
	}
	r.resolvePlan(next)
	r.active[next.CompanyID] = next
	return nil
}

func (r *fakeSubRepo) SetAllowOverage(_ context.Context, subscriptionID uuid.UUID, allow bool) error {
	for _, sub := range r.active {
		if sub.ID == subscriptionID {
			sub.AllowOverage = allow
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *fakeSubRepo) resolvePlan(sub *billing.Subscription) {
	for _, p := range r.plans.plans {
		if p.ID == sub.PlanID {
			sub.PlanKey = p.Key
			sub.PlanName = p.Name
			return
		}
	}
}

type fakeAddonRepo struct {
	grants map[uuid.UUID]map[billing.FeatureKey]int
}

func newFakeAddonRepo() *fakeAddonRepo {
	return &fakeAddonRepo{grants: make(map[uuid.UUID]map[billing.FeatureKey]int)}
}

func (r *fakeAddonRepo) FindQuantity(_ context.Context, companyID uuid.UUID, featureKey billing.FeatureKey) (int, error) {
	return r.grants[companyID][featureKey], nil
}

func (r *fakeAddonRepo) FindFeatureKeys(_ context.Context, companyID uuid.UUID) ([]billing.FeatureKey, error) {
	keys := make([]billing.FeatureKey, 0, len(r.grants[companyID]))
	for k := range r.grants[companyID] {
		keys = append(keys, k)
	}
	return keys, nil
}

func (r *fakeAddonRepo) Upsert(_ context.Context, addon *billing.SubscriptionAddon) error {
	if r.grants[addon.CompanyID] == nil {
		r.grants[addon.CompanyID] = make(map[billing.FeatureKey]int)
	}
	r.grants[addon.CompanyID][addon.FeatureKey] = addon.Quantity
	return nil
}

// fakeLedger reimplements the ledger decision rule in memory
type fakeLedger struct {
	mu    sync.Mutex
	subs  *fakeSubRepo
	plans *fakePlanRepo
	addon *fakeAddonRepo
	used  map[uuid.UUID]map[billing.FeatureKey]int
}

func newFakeLedger(subs *fakeSubRepo, plans *fakePlanRepo, addons *fakeAddonRepo) *fakeLedger {
	return &fakeLedger{
		subs:  subs,
		plans: plans,
		addon: addons,
		used:  make(map[uuid.UUID]map[billing.FeatureKey]int),
	}
}

func (l *fakeLedger) CheckAndIncrement(ctx context.Context, companyID uuid.UUID, featureKey billing.FeatureKey, amount int) (*billing.Reservation, error) {
	if err := billing.ValidateAmount(amount); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	sub, ok := l.subs.active[companyID]
	if !ok {
		return nil, billing.ErrNoActiveSubscription
	}

	var limit *int
	if limits, ok := l.plans.limits[sub.PlanID]; ok {
		if v, ok := limits[featureKey]; ok {
			limit = &v
		}
	}
	addonQty := l.addon.grants[companyID][featureKey]
	used := l.used[companyID][featureKey]

	res := &billing.Reservation{
		FeatureKey:    featureKey,
		YearMonth:     billing.CurrentYearMonth(),
		LimitPerMonth: limit,
		AllowOverage:  sub.AllowOverage,
	}

	allowed := limit == nil || used+amount <= *limit+addonQty || sub.AllowOverage
	res.Allowed = allowed
	nextUsed := used + amount
	if allowed {
		if l.used[companyID] == nil {
			l.used[companyID] = make(map[billing.FeatureKey]int)
		}
		l.used[companyID][featureKey] = nextUsed
		res.Used = nextUsed
	} else {
		res.Used = used
	}
	if limit != nil && nextUsed > *limit {
		res.WillOverageBy = nextUsed - *limit
	}
	return res, nil
}

func (l *fakeLedger) Decrement(_ context.Context, companyID uuid.UUID, featureKey billing.FeatureKey, amount int) (*billing.MonthlyUsage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	used := l.used[companyID][featureKey] - amount
	if used < 0 {
		used = 0
	}
	if l.used[companyID] == nil {
		l.used[companyID] = make(map[billing.FeatureKey]int)
	}
	l.used[companyID][featureKey] = used
	return &billing.MonthlyUsage{
		CompanyID:  companyID,
		FeatureKey: featureKey,
		YearMonth:  billing.CurrentYearMonth(),
		Used:       used,
	}, nil
}

func (l *fakeLedger) CurrentUsage(_ context.Context, companyID uuid.UUID, featureKey billing.FeatureKey, ym billing.YearMonth) (*billing.MonthlyUsage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return &billing.MonthlyUsage{
		CompanyID:  companyID,
		FeatureKey: featureKey,
		YearMonth:  ym,
		Used:       l.used[companyID][featureKey],
	}, nil
}

type fakeMessageRepo struct {
	messages []*messaging.Message
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *messaging.Message) error {
	r.messages = append(r.messages, msg)
	return nil
}

func (r *fakeMessageRepo) FindByID(_ context.Context, id uuid.UUID) (*messaging.Message, error) {
	for _, m := range r.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeMessageRepo) FindByCompany(_ context.Context, companyID uuid.UUID, limit int) ([]*messaging.Message, error) {
	var result []*messaging.Message
	for i := len(r.messages) - 1; i >= 0 && len(result) < limit; i-- {
		if r.messages[i].CompanyID == companyID {
			result = append(result, r.messages[i])
		}
	}
	return result, nil
}

type fakeProvider struct {
	err   error
	calls int
}

func (p *fakeProvider) Send(_ context.Context, _, _ string) (*messaging.ProviderReceipt, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &messaging.ProviderReceipt{ProviderMessageID: "wamid.test"}, nil
}
