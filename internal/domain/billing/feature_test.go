package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeatureSet(t *testing.T) {
	s := NewFeatureSet(FeatureOrders, FeatureProducts)

	assert.True(t, s.Has(FeatureOrders))
	assert.False(t, s.Has(FeatureWhatsAppMessages))

	s.Add(FeatureWhatsAppMessages)
	assert.True(t, s.Has(FeatureWhatsAppMessages))

	// Add is idempotent
	s.Add(FeatureOrders)
	assert.Len(t, s.Keys(), 3)
}

func TestFeatureNotEnabledError(t *testing.T) {
	err := NewFeatureNotEnabledError(FeatureWhatsAppMessages)
	assert.Equal(t, ErrCodeFeatureNotEnabled, err.Code)
	assert.Contains(t, err.Error(), "whatsapp_messages")
}
