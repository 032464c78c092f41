package razorpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		KeyID:     "test-key-id",
		KeySecret: "test-key-secret",
		BaseURL:   server.URL,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("missing credentials", func(t *testing.T) {
		_, err := NewClient(Config{})
		assert.ErrorIs(t, err, ErrMissingCredentials)
	})

	t.Run("defaults applied", func(t *testing.T) {
		client, err := NewClient(Config{KeyID: "id", KeySecret: "secret"})
		require.NoError(t, err)
		assert.Equal(t, "https://api.razorpay.com/v1", client.config.BaseURL)
		assert.Equal(t, "INR", client.config.Currency)
	})
}

func TestCreateOrder(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/orders", r.URL.Path)

			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "test-key-id", user)
			assert.Equal(t, "test-key-secret", pass)

			var req OrderRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, int64(149900), req.Amount)
			assert.Equal(t, "INR", req.Currency)
			assert.Equal(t, 1, req.PaymentCapture)

			json.NewEncoder(w).Encode(OrderResponse{
				ID:       "order_ABC123",
				Entity:   "order",
				Amount:   req.Amount,
				Currency: req.Currency,
				Receipt:  req.Receipt,
				Status:   "created",
			})
		})

		order, err := client.CreateOrder(context.Background(), 149900, "order-42")
		require.NoError(t, err)
		assert.Equal(t, "order_ABC123", order.ID)
		assert.Equal(t, int64(149900), order.Amount)
	})

	t.Run("api error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount must be at least 100"}}`))
		})

		_, err := client.CreateOrder(context.Background(), 1, "order-1")
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, "BAD_REQUEST_ERROR", apiErr.Code)
	})
}

func TestVerifyCallback(t *testing.T) {
	client, err := NewClient(Config{KeyID: "id", KeySecret: "test-key-secret"})
	require.NoError(t, err)

	cb := Callback{
		GatewayOrderID: "order_ABC123",
		PaymentID:      "pay_XYZ789",
		Signature:      sign("order_ABC123", "pay_XYZ789", "test-key-secret"),
	}
	assert.NoError(t, client.VerifyCallback(cb))

	cb.Signature = "bogus"
	assert.ErrorIs(t, client.VerifyCallback(cb), ErrInvalidSignature)
}
