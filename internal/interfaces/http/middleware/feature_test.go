package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubFeatureGate struct {
	enabled bool
	err     error
}

func (g *stubFeatureGate) HasFeature(_ context.Context, _ uuid.UUID, _ billing.FeatureKey) (bool, error) {
	return g.enabled, g.err
}

func featureGateRouter(gate FeatureGate) *gin.Engine {
	router := gin.New()
	router.Use(CompanyScope())
	router.POST("/messages/send",
		RequireFeature(gate, billing.FeatureWhatsAppMessages, zap.NewNop()),
		func(c *gin.Context) {
			c.String(http.StatusOK, "sent")
		})
	return router
}

func TestRequireFeature_Enabled(t *testing.T) {
	router := featureGateRouter(&stubFeatureGate{enabled: true})

	req := httptest.NewRequest("POST", "/messages/send", nil)
	req.Header.Set(CompanyHeaderKey, uuid.NewString())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireFeature_Denied(t *testing.T) {
	router := featureGateRouter(&stubFeatureGate{enabled: false})

	req := httptest.NewRequest("POST", "/messages/send", nil)
	req.Header.Set(CompanyHeaderKey, uuid.NewString())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FEATURE_NOT_ENABLED")
	assert.Contains(t, w.Body.String(), "Whatsapp Messages")
}

func TestRequireFeature_CheckErrorFailsClosed(t *testing.T) {
	router := featureGateRouter(&stubFeatureGate{err: errors.New("db down")})

	req := httptest.NewRequest("POST", "/messages/send", nil)
	req.Header.Set(CompanyHeaderKey, uuid.NewString())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireFeature_NoCompanyContext(t *testing.T) {
	router := gin.New()
	router.POST("/messages/send",
		RequireFeature(&stubFeatureGate{enabled: true}, billing.FeatureWhatsAppMessages, zap.NewNop()),
		func(c *gin.Context) {
			c.String(http.StatusOK, "sent")
		})

	req := httptest.NewRequest("POST", "/messages/send", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
