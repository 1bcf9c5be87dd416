package middleware

import (
	"net/http"
	"strings"

	"github.com/backoffice/backend/internal/infrastructure/logger"
	"github.com/backoffice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Company scope context keys
const (
	CompanyIDKey     = "company_id"
	CompanyHeaderKey = "X-Company-ID"
)

// CompanyScopeConfig holds configuration for the company scope middleware
type CompanyScopeConfig struct {
	// SkipPaths are paths that don't require company context (e.g., health check)
	SkipPaths []string
	// Required determines if company context is mandatory
	Required bool
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultCompanyScopeConfig returns default company scope configuration
func DefaultCompanyScopeConfig() CompanyScopeConfig {
	return CompanyScopeConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready", "/api/v1/health"},
		Required:  true,
	}
}

// CompanyScope extracts the calling company from the X-Company-ID header.
// Auth session handling lives in front of this service; the header carries
// the already-authenticated company.
func CompanyScope() gin.HandlerFunc {
	return CompanyScopeWithConfig(DefaultCompanyScopeConfig())
}

// CompanyScopeWithConfig returns company scope middleware with custom configuration
func CompanyScopeWithConfig(cfg CompanyScopeConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		companyID := c.GetHeader(CompanyHeaderKey)
		if companyID == "" {
			if cfg.Required {
				respondUnauthorized(c, "Company identification required")
				return
			}
			c.Next()
			return
		}

		if _, err := uuid.Parse(companyID); err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("Rejected malformed company ID",
					zap.String("company_id", companyID))
			}
			respondUnauthorized(c, "Invalid company ID format")
			return
		}

		c.Set(CompanyIDKey, companyID)

		ctx := c.Request.Context()
		ctx, _ = logger.WithCompanyID(ctx, logger.FromContext(ctx), companyID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// respondUnauthorized sends an unauthorized response
func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, message))
}

// GetCompanyID retrieves the company ID from gin.Context
func GetCompanyID(c *gin.Context) string {
	if companyID, exists := c.Get(CompanyIDKey); exists {
		if id, ok := companyID.(string); ok {
			return id
		}
	}
	return ""
}

// GetCompanyUUID retrieves the company ID as UUID from gin.Context
func GetCompanyUUID(c *gin.Context) (uuid.UUID, error) {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(companyID)
}
