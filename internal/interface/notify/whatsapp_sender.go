package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"arrivalcard-service/internal/domain/repository"
	"arrivalcard-service/pkg/logger"
)

// WhatsAppNotifier sends messages through the external WhatsApp service
type WhatsAppNotifier struct {
	logger      logger.Logger
	baseURL     string
	bearerToken string
	client      *http.Client
}

// NewWhatsAppNotifier creates a new WhatsApp notifier
func NewWhatsAppNotifier(baseURL, bearerToken string, logger logger.Logger) repository.Notifier {
	return &WhatsAppNotifier{
		logger:      logger,
		baseURL:     baseURL,
		bearerToken: bearerToken,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

type whatsAppMessage struct {
	Phone   string `json:"phone"`
	Type    string `json:"type"`
	Message struct {
		Text string `json:"text"`
	} `json:"message"`
}

// Send delivers one text message. The subject is an email concern and
// is ignored here.
func (n *WhatsAppNotifier) Send(ctx context.Context, recipient, _ string, body string) error {
	msg := whatsAppMessage{
		Phone: recipient,
		Type:  "text",
	}
	msg.Message.Text = body

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/messages", n.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+n.bearerToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return fmt.Errorf("WhatsApp service returned status %d: %v", resp.StatusCode, errorBody)
	}

	var response struct {
		Success bool `json:"success"`
		Error   struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !response.Success {
		return fmt.Errorf("failed to send message: %s (code: %s)", response.Error.Message, response.Error.Code)
	}

	n.logger.Info("WhatsApp message sent", "to", recipient)

	return nil
}
