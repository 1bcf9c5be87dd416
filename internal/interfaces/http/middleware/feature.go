package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FeatureGate reports whether a company is entitled to a feature
type FeatureGate interface {
	HasFeature(ctx context.Context, companyID uuid.UUID, key billing.FeatureKey) (bool, error)
}

// RequireFeature creates middleware that rejects requests from companies
// whose plan (plus addons) does not enable the feature. Must run after
// CompanyScope. Verification errors fail closed.
func RequireFeature(gate FeatureGate, key billing.FeatureKey, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID, err := GetCompanyUUID(c)
		if err != nil || companyID == uuid.Nil {
			respondUnauthorized(c, "Company identification required")
			return
		}

		enabled, err := gate.HasFeature(c.Request.Context(), companyID, key)
		if err != nil {
			logger.Error("Feature check failed",
				zap.String("company_id", companyID.String()),
				zap.String("feature", key.String()),
				zap.Error(err))
			abortFeatureDenied(c, key, "Failed to verify feature access")
			return
		}

		if !enabled {
			logger.Info("Feature access denied",
				zap.String("company_id", companyID.String()),
				zap.String("feature", key.String()))
			abortFeatureDenied(c, key, "")
			return
		}

		c.Next()
	}
}

func abortFeatureDenied(c *gin.Context, key billing.FeatureKey, customMessage string) {
	message := customMessage
	if message == "" {
		message = fmt.Sprintf("The %s feature is not available in your current plan. Please upgrade to access this feature.",
			formatFeatureName(key))
	}
	c.AbortWithStatusJSON(http.StatusForbidden,
		dto.NewErrorResponse(dto.ErrCodeFeatureNotEnabled, message))
}

// formatFeatureName converts a feature key to a human-readable name
func formatFeatureName(key billing.FeatureKey) string {
	name := strings.ReplaceAll(key.String(), "_", " ")
	words := strings.Fields(name)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
