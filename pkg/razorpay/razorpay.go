// Package razorpay is a minimal client for the payment gateway's order and
// verification endpoints, covering the UPI checkout path: create a gateway
// order, let the client-side widget collect the payment, then verify the
// signature the widget hands back.
package razorpay

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// Config holds gateway credentials and endpoint.
type Config struct {
	BaseURL   string // defaults to the production API
	KeyID     string
	KeySecret string
}

// Client talks to the payment gateway.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

// GatewayOrder is the gateway's reply to order creation, forwarded to the
// client-side widget as-is plus the public key id.
type GatewayOrder struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"` // minor currency units
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

// PaymentProof is what the widget hands back after the customer pays.
type PaymentProof struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// NewClient creates a gateway client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.razorpay.com"
	}
	return &Client{
		baseURL:    baseURL,
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
		httpClient: &http.Client{},
	}
}

// CreateOrder registers an order with the gateway. The amount is converted
// to minor units (paise) as the gateway requires.
func (c *Client) CreateOrder(amount decimal.Decimal, currency, receipt string, notes map[string]string) (*GatewayOrder, error) {
	payload := map[string]interface{}{
		"amount":   amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		payload["notes"] = notes
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode gateway order: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error struct {
				Description string `json:"description"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Error.Description != "" {
			return nil, fmt.Errorf("gateway rejected order: %s", errBody.Error.Description)
		}
		return nil, fmt.Errorf("gateway rejected order with status %d", resp.StatusCode)
	}

	var created struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	return &GatewayOrder{
		OrderID:  created.ID,
		Amount:   created.Amount,
		Currency: created.Currency,
		KeyID:    c.keyID,
	}, nil
}

// VerifyPayment checks the widget-supplied signature against
// HMAC-SHA256(orderID|paymentID, keySecret). A mismatch means the payment
// cannot be trusted.
func (c *Client) VerifyPayment(proof PaymentProof) (bool, error) {
	if proof.OrderID == "" || proof.PaymentID == "" || proof.Signature == "" {
		return false, fmt.Errorf("incomplete payment proof")
	}
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(proof.OrderID + "|" + proof.PaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(proof.Signature)), nil
}
