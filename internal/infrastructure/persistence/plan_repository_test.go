package persistence

import (
	"context"
	"testing"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupBillingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive and serializes
	// concurrent access the way tests expect.
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.PlanModel{},
		&models.FeatureModel{},
		&models.PlanFeatureModel{},
		&models.FeatureLimitModel{},
		&models.SubscriptionModel{},
		&models.SubscriptionAddonModel{},
		&models.MonthlyUsageModel{},
	)
	require.NoError(t, err)

	return db
}

func seedPlan(t *testing.T, db *gorm.DB, key billing.PlanKey, name string) uuid.UUID {
	t.Helper()
	plan := models.PlanModel{ID: uuid.New(), Key: string(key), Name: name}
	require.NoError(t, db.Create(&plan).Error)
	return plan.ID
}

func seedFeature(t *testing.T, db *gorm.DB, key billing.FeatureKey, description string) {
	t.Helper()
	require.NoError(t, db.Create(&models.FeatureModel{Key: string(key), Description: description}).Error)
}

func seedPlanFeature(t *testing.T, db *gorm.DB, planID uuid.UUID, key billing.FeatureKey) {
	t.Helper()
	require.NoError(t, db.Create(&models.PlanFeatureModel{PlanID: planID, FeatureKey: string(key)}).Error)
}

func seedFeatureLimit(t *testing.T, db *gorm.DB, planID uuid.UUID, key billing.FeatureKey, limit int) {
	t.Helper()
	require.NoError(t, db.Create(&models.FeatureLimitModel{
		PlanID:        planID,
		FeatureKey:    string(key),
		LimitPerMonth: limit,
	}).Error)
}

func TestGormPlanRepository_FindByKey(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormPlanRepository(db)
	ctx := context.Background()

	planID := seedPlan(t, db, billing.PlanMiniERP, "Mini ERP")

	t.Run("finds existing plan", func(t *testing.T) {
		plan, err := repo.FindByKey(ctx, billing.PlanMiniERP)
		require.NoError(t, err)
		assert.Equal(t, planID, plan.ID)
		assert.Equal(t, billing.PlanMiniERP, plan.Key)
		assert.Equal(t, "Mini ERP", plan.Name)
	})

	t.Run("returns ErrNotFound for unknown key", func(t *testing.T) {
		_, err := repo.FindByKey(ctx, billing.PlanKey("enterprise"))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormPlanRepository_FindAll(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormPlanRepository(db)

	seedPlan(t, db, billing.PlanMiniERP, "Mini ERP")
	seedPlan(t, db, billing.PlanFullERP, "Full ERP")

	plans, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 2)
	// ordered by key
	assert.Equal(t, billing.PlanFullERP, plans[0].Key)
	assert.Equal(t, billing.PlanMiniERP, plans[1].Key)
}

func TestGormPlanRepository_FindAllFeatures(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormPlanRepository(db)

	seedFeature(t, db, billing.FeatureWhatsAppMessages, "Outbound WhatsApp messages, metered per month")
	seedFeature(t, db, billing.FeatureOrders, "Order management")

	features, err := repo.FindAllFeatures(context.Background())
	require.NoError(t, err)
	require.Len(t, features, 2)
	// ordered by key
	assert.Equal(t, billing.FeatureOrders, features[0].Key)
	assert.Equal(t, "Order management", features[0].Description)
	assert.Equal(t, billing.FeatureWhatsAppMessages, features[1].Key)
}

func TestGormPlanRepository_FindFeatureKeys(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormPlanRepository(db)
	ctx := context.Background()

	planID := seedPlan(t, db, billing.PlanFullERP, "Full ERP")
	seedPlanFeature(t, db, planID, billing.FeatureWhatsAppMessages)
	seedPlanFeature(t, db, planID, billing.FeatureOrders)

	keys, err := repo.FindFeatureKeys(ctx, planID)
	require.NoError(t, err)
	assert.Equal(t, []billing.FeatureKey{billing.FeatureOrders, billing.FeatureWhatsAppMessages}, keys)

	t.Run("empty for plan without features", func(t *testing.T) {
		keys, err := repo.FindFeatureKeys(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, keys)
	})
}

func TestGormPlanRepository_FindMonthlyLimit(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormPlanRepository(db)
	ctx := context.Background()

	planID := seedPlan(t, db, billing.PlanMiniERP, "Mini ERP")
	seedFeatureLimit(t, db, planID, billing.FeatureWhatsAppMessages, 1000)

	t.Run("returns configured limit", func(t *testing.T) {
		limit, err := repo.FindMonthlyLimit(ctx, planID, billing.FeatureWhatsAppMessages)
		require.NoError(t, err)
		require.NotNil(t, limit)
		assert.Equal(t, 1000, *limit)
	})

	t.Run("missing limit row means unlimited, not zero", func(t *testing.T) {
		limit, err := repo.FindMonthlyLimit(ctx, planID, billing.FeatureOrders)
		require.NoError(t, err)
		assert.Nil(t, limit)
	})
}
