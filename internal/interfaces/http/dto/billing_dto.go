package dto

// UpgradePlanRequest moves the calling company onto a plan
type UpgradePlanRequest struct {
	PlanKey      string `json:"plan_key" binding:"required"`
	AllowOverage bool   `json:"allow_overage"`
}

// AllowOverageRequest flips the overage opt-in on the active subscription
type AllowOverageRequest struct {
	AllowOverage *bool `json:"allow_overage" binding:"required"`
}

// UsageCheckRequest asks whether a reservation of Amount units would be
// admitted right now. Amount defaults to 1.
type UsageCheckRequest struct {
	FeatureKey string `json:"feature_key" binding:"required"`
	Amount     int    `json:"amount" binding:"omitempty,min=1"`
}

// SendMessageRequest delivers one outbound WhatsApp message
type SendMessageRequest struct {
	Recipient string `json:"recipient" binding:"required"`
	Body      string `json:"body" binding:"required"`
}

// MessageHistoryRequest lists recent outbound messages
type MessageHistoryRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}

// PlanResponse is one entry of the plan catalog
type PlanResponse struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// FeatureResponse is one entry of the feature reference catalog
type FeatureResponse struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}

// MessageResponse is one outbound message in the history listing
type MessageResponse struct {
	ID         string `json:"id"`
	Channel    string `json:"channel"`
	Recipient  string `json:"recipient"`
	Status     string `json:"status"`
	ProviderID string `json:"provider_id,omitempty"`
	FailReason string `json:"fail_reason,omitempty"`
	SentAt     string `json:"sent_at,omitempty"`
	CreatedAt  string `json:"created_at"`
}
