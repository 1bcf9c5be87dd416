package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/backoffice/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func whatsappTestConfig(baseURL string) *config.MessagingConfig {
	return &config.MessagingConfig{
		Provider:    "whatsapp",
		APIBaseURL:  baseURL,
		APIToken:    "test-token",
		SenderID:    "biz-42",
		SendTimeout: 5 * time.Second,
	}
}

func TestWhatsAppProvider_Send_Success(t *testing.T) {
	var gotAuth string
	var gotReq whatsappSendRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(whatsappSendResponse{MessageID: "wamid.ABC123"})
	}))
	defer server.Close()

	provider, err := NewWhatsAppProvider(whatsappTestConfig(server.URL))
	require.NoError(t, err)

	receipt, err := provider.Send(context.Background(), "+15551234567", "hello")
	require.NoError(t, err)
	assert.Equal(t, "wamid.ABC123", receipt.ProviderMessageID)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "+15551234567", gotReq.To)
	assert.Equal(t, "hello", gotReq.Body)
	assert.Equal(t, "biz-42", gotReq.Sender)
}

func TestWhatsAppProvider_Send_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(whatsappErrorResponse{Code: "INVALID_RECIPIENT", Message: "not a phone number"})
	}))
	defer server.Close()

	provider, err := NewWhatsAppProvider(whatsappTestConfig(server.URL))
	require.NoError(t, err)

	receipt, err := provider.Send(context.Background(), "bogus", "hello")
	assert.Error(t, err)
	assert.Nil(t, receipt)
	assert.Contains(t, err.Error(), "INVALID_RECIPIENT")
}

func TestWhatsAppProvider_Send_MissingMessageID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	provider, err := NewWhatsAppProvider(whatsappTestConfig(server.URL))
	require.NoError(t, err)

	receipt, err := provider.Send(context.Background(), "+15551234567", "hello")
	assert.Error(t, err)
	assert.Nil(t, receipt)
}

func TestNewWhatsAppProvider_RequiresCredentials(t *testing.T) {
	cfg := whatsappTestConfig("https://gateway.example.com")
	cfg.APIToken = ""
	_, err := NewWhatsAppProvider(cfg)
	assert.Error(t, err)

	cfg = whatsappTestConfig("")
	_, err = NewWhatsAppProvider(cfg)
	assert.Error(t, err)
}
