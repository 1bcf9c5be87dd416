package models

import (
	"time"

	"github.com/backoffice/backend/internal/domain/messaging"
	"github.com/google/uuid"
)

// MessageModel maps the outbound message record table
type MessageModel struct {
	BaseModel
	CompanyID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Channel    string     `gorm:"size:20;not null"`
	Recipient  string     `gorm:"size:50;not null"`
	Body       string     `gorm:"type:text;not null"`
	Status     string     `gorm:"size:20;not null"`
	ProviderID string     `gorm:"size:100"`
	FailReason string     `gorm:"type:text"`
	SentAt     *time.Time ``
}

// TableName returns the table name for MessageModel
func (MessageModel) TableName() string {
	return "outbound_messages"
}

// ToDomain converts MessageModel to domain Message
func (m *MessageModel) ToDomain() *messaging.Message {
	return &messaging.Message{
		BaseEntity: m.BaseModel.ToDomain(),
		CompanyID:  m.CompanyID,
		Channel:    messaging.MessageChannel(m.Channel),
		Recipient:  m.Recipient,
		Body:       m.Body,
		Status:     messaging.MessageStatus(m.Status),
		ProviderID: m.ProviderID,
		FailReason: m.FailReason,
		SentAt:     m.SentAt,
	}
}

// MessageModelFromDomain converts a domain Message to its model
func MessageModelFromDomain(msg *messaging.Message) *MessageModel {
	m := &MessageModel{
		CompanyID:  msg.CompanyID,
		Channel:    string(msg.Channel),
		Recipient:  msg.Recipient,
		Body:       msg.Body,
		Status:     string(msg.Status),
		ProviderID: msg.ProviderID,
		FailReason: msg.FailReason,
		SentAt:     msg.SentAt,
	}
	m.FromDomainBaseEntity(msg.BaseEntity)
	return m
}
