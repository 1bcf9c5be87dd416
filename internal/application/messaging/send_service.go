package messaging

import (
	"context"
	"fmt"

	appbilling "github.com/backoffice/backend/internal/application/billing"
	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/messaging"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SendMessageInput is a request to deliver one outbound message
type SendMessageInput struct {
	CompanyID uuid.UUID
	Recipient string
	Body      string
}

// SendMessageResult reports the delivery outcome together with the quota
// position after the send
type SendMessageResult struct {
	MessageID   uuid.UUID            `json:"message_id"`
	Status      string               `json:"status"`
	Reservation *billing.Reservation `json:"reservation"`
}

// SendService delivers outbound messages under quota control. Each send
// reserves one usage unit up front; when the provider rejects the message the
// reservation is released so failed sends do not burn quota.
type SendService struct {
	entitlements *appbilling.EntitlementService
	usage        *appbilling.UsageService
	provider     messaging.MessageProvider
	messageRepo  messaging.MessageRepository
	logger       *zap.Logger
}

// NewSendService creates a new SendService
func NewSendService(
	entitlements *appbilling.EntitlementService,
	usage *appbilling.UsageService,
	provider messaging.MessageProvider,
	messageRepo messaging.MessageRepository,
	logger *zap.Logger,
) *SendService {
	return &SendService{
		entitlements: entitlements,
		usage:        usage,
		provider:     provider,
		messageRepo:  messageRepo,
		logger:       logger,
	}
}

// Send validates entitlement, reserves quota, delivers through the provider
// and records the attempt. On provider failure the reservation is released
// and the failed attempt recorded. A denied reservation surfaces as a result
// with Status "denied" and the reservation details, so the caller can offer
// an upgrade or overage opt-in.
func (s *SendService) Send(ctx context.Context, input SendMessageInput) (*SendMessageResult, error) {
	if input.Recipient == "" {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Recipient cannot be empty")
	}
	if input.Body == "" {
		return nil, shared.NewDomainError("INVALID_BODY", "Message body cannot be empty")
	}

	if err := s.entitlements.RequireFeature(ctx, input.CompanyID, billing.FeatureWhatsAppMessages); err != nil {
		return nil, err
	}

	res, err := s.usage.Reserve(ctx, appbilling.ReserveUsageInput{
		CompanyID:  input.CompanyID,
		FeatureKey: billing.FeatureWhatsAppMessages,
		Amount:     1,
	})
	if err != nil {
		return nil, err
	}
	if !res.Allowed {
		return &SendMessageResult{Status: "denied", Reservation: res}, nil
	}

	msg := messaging.NewMessage(input.CompanyID, messaging.ChannelWhatsApp, input.Recipient, input.Body)

	receipt, sendErr := s.provider.Send(ctx, input.Recipient, input.Body)
	if sendErr != nil {
		s.logger.Warn("Provider send failed, releasing reservation",
			zap.String("company_id", input.CompanyID.String()),
			zap.String("message_id", msg.ID.String()),
			zap.Error(sendErr))
		if _, relErr := s.usage.Release(ctx, input.CompanyID, billing.FeatureWhatsAppMessages, 1); relErr != nil {
			// The unit stays consumed; log loudly so it can be reconciled
			s.logger.Error("Failed to release reservation after send failure",
				zap.String("company_id", input.CompanyID.String()),
				zap.Error(relErr))
		}
		msg.MarkFailed(sendErr.Error())
		if err := s.messageRepo.Create(ctx, msg); err != nil {
			s.logger.Error("Failed to record failed message", zap.Error(err))
		}
		return nil, fmt.Errorf("provider send failed: %w", sendErr)
	}

	msg.MarkSent(receipt.ProviderMessageID)
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		s.logger.Error("Failed to record sent message",
			zap.String("message_id", msg.ID.String()),
			zap.Error(err))
		return nil, err
	}

	return &SendMessageResult{
		MessageID:   msg.ID,
		Status:      string(messaging.MessageStatusSent),
		Reservation: res,
	}, nil
}

// History lists the company's recent outbound messages, newest first
func (s *SendService) History(ctx context.Context, companyID uuid.UUID, limit int) ([]*messaging.Message, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID cannot be empty")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.messageRepo.FindByCompany(ctx, companyID, limit)
}
