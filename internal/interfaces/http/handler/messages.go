package handler

import (
	"time"

	appmessaging "github.com/backoffice/backend/internal/application/messaging"
	"github.com/backoffice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// MessageHandler exposes the outbound message surface
type MessageHandler struct {
	BaseHandler
	send *appmessaging.SendService
	gate []gin.HandlerFunc
}

// NewMessageHandler creates a new message handler. Optional gate middleware
// (e.g. a feature gate) is applied to the whole message group.
func NewMessageHandler(send *appmessaging.SendService, gate ...gin.HandlerFunc) *MessageHandler {
	return &MessageHandler{send: send, gate: gate}
}

// RegisterRoutes registers message routes
func (h *MessageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	mg := rg.Group("/messages", h.gate...)
	{
		mg.POST("/send", h.Send)
		mg.GET("", h.List)
	}
}

// Send delivers one WhatsApp message under quota control. A quota denial is
// a 200 with status "denied" and the reservation details, not an error.
func (h *MessageHandler) Send(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Company identification required")
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	result, err := h.send.Send(c.Request.Context(), appmessaging.SendMessageInput{
		CompanyID: companyID,
		Recipient: req.Recipient,
		Body:      req.Body,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// List returns the company's recent outbound messages, newest first
func (h *MessageHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Company identification required")
		return
	}

	var req dto.MessageHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	messages, err := h.send.History(c.Request.Context(), companyID, req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		entry := dto.MessageResponse{
			ID:         m.ID.String(),
			Channel:    string(m.Channel),
			Recipient:  m.Recipient,
			Status:     string(m.Status),
			ProviderID: m.ProviderID,
			FailReason: m.FailReason,
			CreatedAt:  m.CreatedAt.UTC().Format(time.RFC3339),
		}
		if m.SentAt != nil {
			entry.SentAt = m.SentAt.UTC().Format(time.RFC3339)
		}
		resp = append(resp, entry)
	}
	h.Success(c, resp)
}
