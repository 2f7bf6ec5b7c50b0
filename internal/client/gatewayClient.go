package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"jansan-commerce/internal/config"
	"jansan-commerce/internal/model"
)

// GatewayClient talks to the card payment provider's REST API.
type GatewayClient interface {
	CreatePaymentIntent(ctx context.Context, params CreateIntentParams) (*model.GatewayIntent, error)
	GetPaymentIntent(ctx context.Context, intentID string) (*model.GatewayIntent, error)
	CreateRefund(ctx context.Context, intentID, reason string) (*model.GatewayRefund, error)
	ConstructWebhookEvent(body []byte, sigHeader string) (*model.GatewayWebhookEvent, error)
}

type CreateIntentParams struct {
	Amount       int64             `json:"amount"` // paise
	Currency     string            `json:"currency"`
	ReceiptEmail string            `json:"receipt_email"`
	Metadata     map[string]string `json:"metadata"`
}

type gatewayClientImpl struct {
	httpClient    *http.Client
	baseApiURL    string
	secretKey     string
	webhookSecret string
}

func NewGatewayClient(cfg *config.Gateway) GatewayClient {
	return &gatewayClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:    cfg.BaseApiURL,
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
	}
}

func (c *gatewayClientImpl) CreatePaymentIntent(ctx context.Context, params CreateIntentParams) (*model.GatewayIntent, error) {
	var intent model.GatewayIntent
	if err := c.post(ctx, "/v1/payment_intents", params, &intent); err != nil {
		return nil, fmt.Errorf("gateway create payment intent: %w", err)
	}
	return &intent, nil
}

func (c *gatewayClientImpl) GetPaymentIntent(ctx context.Context, intentID string) (*model.GatewayIntent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/v1/payment_intents/%s", c.baseApiURL, intentID), nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway get payment intent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gateway error %d: %s", resp.StatusCode, string(b))
	}

	var intent model.GatewayIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}
	return &intent, nil
}

func (c *gatewayClientImpl) CreateRefund(ctx context.Context, intentID, reason string) (*model.GatewayRefund, error) {
	payload := map[string]interface{}{
		"payment_intent": intentID,
		"reason":         "requested_by_customer",
		"metadata":       map[string]string{"reason": reason},
	}

	var refund model.GatewayRefund
	if err := c.post(ctx, "/v1/refunds", payload, &refund); err != nil {
		return nil, fmt.Errorf("gateway create refund: %w", err)
	}
	return &refund, nil
}

// ConstructWebhookEvent verifies the signature over the raw body and only
// then parses the event envelope.
func (c *gatewayClientImpl) ConstructWebhookEvent(body []byte, sigHeader string) (*model.GatewayWebhookEvent, error) {
	if err := VerifyWebhookSignature(body, sigHeader, c.webhookSecret, signatureTolerance); err != nil {
		return nil, err
	}

	var event model.GatewayWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}
	return &event, nil
}

func (c *gatewayClientImpl) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gateway error %d: %s", resp.StatusCode, string(b))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	return nil
}
