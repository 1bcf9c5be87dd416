package handler

import (
	appbilling "github.com/backoffice/backend/internal/application/billing"
	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BillingHandler exposes the entitlement, usage and subscription surface
type BillingHandler struct {
	BaseHandler
	entitlements  *appbilling.EntitlementService
	subscriptions *appbilling.SubscriptionService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(
	entitlements *appbilling.EntitlementService,
	subscriptions *appbilling.SubscriptionService,
) *BillingHandler {
	return &BillingHandler{
		entitlements:  entitlements,
		subscriptions: subscriptions,
	}
}

// RegisterRoutes registers billing routes
func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bg := rg.Group("/billing")
	{
		bg.GET("/status", h.GetStatus)
		bg.GET("/plans", h.ListPlans)
		bg.GET("/features", h.ListFeatures)
		bg.POST("/upgrade", h.UpgradePlan)
		bg.POST("/allow-overage", h.SetAllowOverage)
		bg.POST("/usage/check", h.CheckUsage)
	}
}

// GetStatus returns the company's plan, enabled features and quota position
func (h *BillingHandler) GetStatus(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Company identification required")
		return
	}

	status, err := h.entitlements.GetStatus(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// ListPlans returns the plan catalog
func (h *BillingHandler) ListPlans(c *gin.Context) {
	plans, err := h.subscriptions.ListPlans(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		resp = append(resp, dto.PlanResponse{
			Key:  p.Key.String(),
			Name: p.Name,
		})
	}
	h.Success(c, resp)
}

// ListFeatures returns the feature reference catalog with descriptions
func (h *BillingHandler) ListFeatures(c *gin.Context) {
	features, err := h.subscriptions.ListFeatures(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]dto.FeatureResponse, 0, len(features))
	for _, f := range features {
		resp = append(resp, dto.FeatureResponse{
			Key:         f.Key.String(),
			Description: f.Description,
		})
	}
	h.Success(c, resp)
}

// UpgradePlan moves the company onto the requested plan
func (h *BillingHandler) UpgradePlan(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Company identification required")
		return
	}

	var req dto.UpgradePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	result, err := h.subscriptions.UpgradePlan(c.Request.Context(), appbilling.UpgradePlanInput{
		CompanyID:    companyID,
		PlanKey:      billing.PlanKey(req.PlanKey),
		AllowOverage: req.AllowOverage,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SetAllowOverage flips the overage opt-in on the active subscription
func (h *BillingHandler) SetAllowOverage(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Company identification required")
		return
	}

	var req dto.AllowOverageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	sub, err := h.subscriptions.SetAllowOverage(c.Request.Context(), companyID, *req.AllowOverage)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"plan_key":      sub.PlanKey.String(),
		"allow_overage": sub.AllowOverage,
	})
}

// CheckUsage reports whether a reservation would be admitted right now,
// without consuming quota
func (h *BillingHandler) CheckUsage(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Company identification required")
		return
	}

	var req dto.UsageCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	key := billing.FeatureKey(req.FeatureKey)
	amount := req.Amount
	if amount == 0 {
		amount = 1
	}

	res, err := h.entitlements.CheckLimit(c.Request.Context(), companyID, key, amount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}
