package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client calls the Razorpay Orders API with basic auth.
type Client struct {
	config     Config
	httpClient *http.Client
}

func NewClient(config Config) (*Client, error) {
	if config.KeyID == "" || config.KeySecret == "" {
		return nil, ErrMissingCredentials
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.razorpay.com/v1"
	}
	if config.Currency == "" {
		config.Currency = "INR"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

// CreateOrder registers a new gateway order for the given amount in minor
// units. The returned order ID is handed to the frontend checkout widget.
func (c *Client) CreateOrder(ctx context.Context, amount int64, receipt string) (*OrderResponse, error) {
	reqBody := OrderRequest{
		Amount:         amount,
		Currency:       c.config.Currency,
		Receipt:        receipt,
		PaymentCapture: 1,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.config.KeyID, c.config.KeySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var wrapper struct {
			Error APIError `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&wrapper); err == nil {
			apiErr.Code = wrapper.Error.Code
			apiErr.Description = wrapper.Error.Description
		}
		return nil, apiErr
	}

	var order OrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}

	return &order, nil
}

// VerifyCallback checks the callback signature against the configured secret.
func (c *Client) VerifyCallback(cb Callback) error {
	if !VerifySignature(cb.GatewayOrderID, cb.PaymentID, cb.Signature, c.config.KeySecret) {
		return ErrInvalidSignature
	}
	return nil
}
