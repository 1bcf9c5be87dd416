package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/backoffice/backend/internal/domain/messaging"
	"github.com/backoffice/backend/internal/infrastructure/config"
)

const whatsappSendPath = "/v1/messages"

// WhatsAppProvider delivers messages through the WhatsApp gateway HTTP API.
type WhatsAppProvider struct {
	config     *config.MessagingConfig
	httpClient *http.Client
}

// NewWhatsAppProvider creates a new WhatsApp provider adapter
func NewWhatsAppProvider(cfg *config.MessagingConfig) (*WhatsAppProvider, error) {
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("whatsapp: api_base_url is required")
	}
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("whatsapp: api_token is required")
	}

	return &WhatsAppProvider{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.SendTimeout,
		},
	}, nil
}

type whatsappSendRequest struct {
	To     string `json:"to"`
	Body   string `json:"body"`
	Sender string `json:"sender,omitempty"`
}

type whatsappSendResponse struct {
	MessageID string `json:"message_id"`
}

type whatsappErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Send posts the message to the gateway and returns its receipt
func (p *WhatsAppProvider) Send(ctx context.Context, recipient, body string) (*messaging.ProviderReceipt, error) {
	reqBody, err := json.Marshal(whatsappSendRequest{
		To:     recipient,
		Body:   body,
		Sender: p.config.SenderID,
	})
	if err != nil {
		return nil, fmt.Errorf("whatsapp: failed to marshal request: %w", err)
	}

	respBody, err := p.doRequest(ctx, http.MethodPost, whatsappSendPath, reqBody)
	if err != nil {
		return nil, err
	}

	var respData whatsappSendResponse
	if err := json.Unmarshal(respBody, &respData); err != nil {
		return nil, fmt.Errorf("whatsapp: failed to parse response: %w", err)
	}
	if respData.MessageID == "" {
		return nil, fmt.Errorf("whatsapp: response is missing message_id")
	}

	return &messaging.ProviderReceipt{ProviderMessageID: respData.MessageID}, nil
}

func (p *WhatsAppProvider) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	url := strings.TrimSuffix(p.config.APIBaseURL, "/") + path

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp whatsappErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Code != "" {
			return nil, fmt.Errorf("whatsapp: gateway error %s: %s", errResp.Code, errResp.Message)
		}
		return nil, fmt.Errorf("whatsapp: gateway returned status %d", resp.StatusCode)
	}

	return respBody, nil
}

// Ensure WhatsAppProvider implements MessageProvider
var _ messaging.MessageProvider = (*WhatsAppProvider)(nil)
