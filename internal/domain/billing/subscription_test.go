package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewSubscription(t *testing.T) {
	companyID := uuid.New()
	planID := uuid.New()

	sub := NewSubscription(companyID, planID, true)

	assert.NotEqual(t, uuid.Nil, sub.ID)
	assert.Equal(t, companyID, sub.CompanyID)
	assert.Equal(t, planID, sub.PlanID)
	assert.Equal(t, SubscriptionStatusActive, sub.Status)
	assert.True(t, sub.AllowOverage)
	assert.True(t, sub.IsActive())
	assert.Nil(t, sub.EndedAt)
	assert.False(t, sub.StartedAt.IsZero())
}

func TestSubscriptionEnd(t *testing.T) {
	sub := NewSubscription(uuid.New(), uuid.New(), false)

	sub.End()

	assert.Equal(t, SubscriptionStatusEnded, sub.Status)
	assert.False(t, sub.IsActive())
	assert.NotNil(t, sub.EndedAt)
}
