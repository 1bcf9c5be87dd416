package messaging

import (
	"context"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MessageChannel is the delivery channel for an outbound message
type MessageChannel string

const (
	// ChannelWhatsApp delivers through the WhatsApp provider
	ChannelWhatsApp MessageChannel = "whatsapp"
)

// MessageStatus is the delivery lifecycle state of an outbound message
type MessageStatus string

const (
	MessageStatusSent   MessageStatus = "sent"
	MessageStatusFailed MessageStatus = "failed"
)

// Message is a record of one outbound message attempt. Each successful send
// consumes one quota unit; failed provider sends are recorded but do not
// consume quota because the reservation is compensated.
type Message struct {
	shared.BaseEntity
	CompanyID  uuid.UUID
	Channel    MessageChannel
	Recipient  string
	Body       string
	Status     MessageStatus
	ProviderID string
	FailReason string
	SentAt     *time.Time
}

// NewMessage creates an outbound message record pending delivery
func NewMessage(companyID uuid.UUID, channel MessageChannel, recipient, body string) *Message {
	return &Message{
		BaseEntity: shared.NewBaseEntity(),
		CompanyID:  companyID,
		Channel:    channel,
		Recipient:  recipient,
		Body:       body,
	}
}

// MarkSent records a successful provider delivery
func (m *Message) MarkSent(providerID string) {
	now := time.Now().UTC()
	m.Status = MessageStatusSent
	m.ProviderID = providerID
	m.SentAt = &now
	m.UpdatedAt = now
}

// MarkFailed records a provider delivery failure
func (m *Message) MarkFailed(reason string) {
	m.Status = MessageStatusFailed
	m.FailReason = reason
	m.UpdatedAt = time.Now().UTC()
}

// MessageRepository persists outbound message records
type MessageRepository interface {
	Create(ctx context.Context, msg *Message) error
	FindByID(ctx context.Context, id uuid.UUID) (*Message, error)
	FindByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]*Message, error)
}

// ProviderReceipt is the provider acknowledgement for a delivered message
type ProviderReceipt struct {
	ProviderMessageID string
}

// MessageProvider is the outbound delivery port. Implementations wrap a
// concrete messaging vendor API.
type MessageProvider interface {
	Send(ctx context.Context, recipient, body string) (*ProviderReceipt, error)
}
