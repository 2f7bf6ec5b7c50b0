package model

import "encoding/json"

// Wire types for the card payment gateway API and its webhook payloads.

type GatewayError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type GatewayIntent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Status       string            `json:"status"` // requires_payment_method, processing, succeeded, canceled
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	LatestCharge string            `json:"latest_charge"`
	ReceiptEmail string            `json:"receipt_email"`
	Metadata     map[string]string `json:"metadata"`

	LastPaymentError *GatewayError `json:"last_payment_error"`
}

type GatewayCharge struct {
	ID             string `json:"id"`
	PaymentIntent  string `json:"payment_intent"`
	Amount         int64  `json:"amount"`
	AmountRefunded int64  `json:"amount_refunded"`
	Refunded       bool   `json:"refunded"`
}

type GatewayDispute struct {
	ID     string `json:"id"`
	Charge string `json:"charge"`
	Reason string `json:"reason"`
	Amount int64  `json:"amount"`
}

type GatewayRefund struct {
	ID            string `json:"id"`
	PaymentIntent string `json:"payment_intent"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
}

// GatewayWebhookEvent is the envelope the gateway posts to our webhook
// endpoint. Object stays raw so each event type decodes its own shape.
type GatewayWebhookEvent struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	CreatedAt int64  `json:"created"`
	Data      struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}
