// internal/pkg/whatsapp/client.go
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/your-org/gardenops-backend/internal/config"
)

// Client sends messages through the WhatsApp Business Cloud API
type Client struct {
	config *config.Config
	client *http.Client
}

// NewClient creates a new WhatsApp client
func NewClient(cfg *config.Config) *Client {
	return &Client{
		config: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// textMessageRequest is the Cloud API payload for a plain text message
type textMessageRequest struct {
	MessagingProduct string      `json:"messaging_product"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Text             textPayload `json:"text"`
}

type textPayload struct {
	Body string `json:"body"`
}

// SendText delivers a plain text message to a phone number in E.164
// format. Satisfies the notifier's WhatsApp channel.
func (c *Client) SendText(ctx context.Context, phone, body string) error {
	wa := c.config.External.WhatsApp
	if wa.PhoneNumberID == "" || wa.AccessToken == "" {
		return fmt.Errorf("WhatsApp configuration incomplete: missing phone number ID or access token")
	}

	reqData := textMessageRequest{
		MessagingProduct: "whatsapp",
		To:               phone,
		Type:             "text",
		Text:             textPayload{Body: body},
	}

	jsonData, err := json.Marshal(reqData)
	if err != nil {
		return fmt.Errorf("failed to marshal WhatsApp request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", wa.APIBaseURL, wa.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create WhatsApp request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+wa.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send WhatsApp request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("WhatsApp API returned status %d", resp.StatusCode)
	}

	return nil
}
