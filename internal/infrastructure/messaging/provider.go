package messaging

import (
	"fmt"

	"github.com/backoffice/backend/internal/domain/messaging"
	"github.com/backoffice/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewProvider builds the outbound message provider selected by configuration
func NewProvider(cfg *config.MessagingConfig, logger *zap.Logger) (messaging.MessageProvider, error) {
	switch cfg.Provider {
	case "log":
		return NewLogProvider(logger), nil
	case "whatsapp":
		return NewWhatsAppProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown messaging provider: %q", cfg.Provider)
	}
}
