package messaging

import (
	"context"
	"fmt"

	"github.com/backoffice/backend/internal/domain/messaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LogProvider is a development provider that logs messages instead of
// delivering them. Every send succeeds and returns a synthetic receipt.
type LogProvider struct {
	logger *zap.Logger
}

// NewLogProvider creates a new LogProvider
func NewLogProvider(logger *zap.Logger) *LogProvider {
	return &LogProvider{logger: logger.Named("message-provider")}
}

// Send logs the message and returns a synthetic receipt
func (p *LogProvider) Send(ctx context.Context, recipient, body string) (*messaging.ProviderReceipt, error) {
	id := fmt.Sprintf("log-%s", uuid.NewString())
	p.logger.Info("Outbound message (log provider)",
		zap.String("recipient", recipient),
		zap.Int("body_length", len(body)),
		zap.String("provider_message_id", id))
	return &messaging.ProviderReceipt{ProviderMessageID: id}, nil
}

// Ensure LogProvider implements MessageProvider
var _ messaging.MessageProvider = (*LogProvider)(nil)
