package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/urbanoshop/urbano-backend/internal/app/model"
	"github.com/urbanoshop/urbano-backend/internal/app/repository"
	"github.com/urbanoshop/urbano-backend/internal/db"
	"github.com/urbanoshop/urbano-backend/pkg/payment/razorpay"
)

const testKeySecret = "test-key-secret"

type paymentFixture struct {
	db       *gorm.DB
	service  PaymentService
	cartRepo repository.CartRepository
	user     *model.User
	order    *model.Order
}

func setupPaymentService(t *testing.T, gatewayURL string) *paymentFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	user := &model.User{Email: "buyer@example.com", PasswordHash: "hash", Name: "Buyer"}
	require.NoError(t, testDB.Create(user).Error)

	product := &model.Product{Title: "Field Jacket", Slug: "field-jacket", Price: 1499.50}
	require.NoError(t, testDB.Create(product).Error)

	order := &model.Order{
		UserID: user.ID, Fullname: "Buyer", Phone: "1", Address: "a", City: "c",
		TotalPrice:     1499.50,
		PaymentMethod:  model.PaymentMethodRazorpay,
		Status:         model.OrderStatusPlaced,
		DeliveryMethod: model.DeliveryStandard,
		DeliveryDays:   5,
		Items: []model.OrderItem{
			{ProductID: product.ID, Quantity: 1, Price: 1499.50},
		},
	}
	require.NoError(t, testDB.Create(order).Error)

	cartRepo := repository.NewCartRepository(testDB)
	require.NoError(t, cartRepo.Upsert(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1}))

	var client *razorpay.Client
	if gatewayURL != "" {
		client, err = razorpay.NewClient(razorpay.Config{
			KeyID: "test-key-id", KeySecret: testKeySecret, BaseURL: gatewayURL,
		})
		require.NoError(t, err)
	}

	service := NewPaymentService(
		client, "test-key-id", testKeySecret, "INR",
		repository.NewOrderRepository(testDB), cartRepo,
	)

	return &paymentFixture{db: testDB, service: service, cartRepo: cartRepo, user: user, order: order}
}

func signCallback(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testKeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaymentService_InitiatePayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req razorpay.OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		// 1499.50 rupees become 149950 paise.
		assert.Equal(t, int64(149950), req.Amount)

		json.NewEncoder(w).Encode(razorpay.OrderResponse{
			ID: "order_GW1", Amount: req.Amount, Currency: req.Currency, Status: "created",
		})
	}))
	defer server.Close()

	f := setupPaymentService(t, server.URL)

	checkout, err := f.service.InitiatePayment(context.Background(), f.order)
	require.NoError(t, err)
	assert.Equal(t, "order_GW1", checkout.GatewayOrderID)
	assert.Equal(t, int64(149950), checkout.Amount)
	assert.Equal(t, "INR", checkout.Currency)
	assert.Equal(t, f.order.ID, checkout.OrderID)

	// The gateway order ID is stored for the callback to find.
	var stored model.Order
	require.NoError(t, f.db.First(&stored, f.order.ID).Error)
	assert.Equal(t, "order_GW1", stored.GatewayOrderID)
}

func TestPaymentService_InitiatePayment_NotGatewayOrder(t *testing.T) {
	f := setupPaymentService(t, "")
	f.order.PaymentMethod = model.PaymentMethodCOD

	_, err := f.service.InitiatePayment(context.Background(), f.order)
	assert.ErrorIs(t, err, ErrPaymentNotRequired)
}

func TestPaymentService_InitiatePayment_GatewayNotConfigured(t *testing.T) {
	// Credentials absent at startup leaves the service without a client; a
	// razorpay order must fail cleanly, not panic.
	f := setupPaymentService(t, "")

	_, err := f.service.InitiatePayment(context.Background(), f.order)
	assert.ErrorIs(t, err, razorpay.ErrMissingCredentials)

	var stored model.Order
	require.NoError(t, f.db.First(&stored, f.order.ID).Error)
	assert.Empty(t, stored.GatewayOrderID)
}

func TestPaymentService_HandleCallback(t *testing.T) {
	ctx := context.Background()

	prepare := func(t *testing.T) *paymentFixture {
		f := setupPaymentService(t, "")
		f.order.GatewayOrderID = "order_GW1"
		require.NoError(t, f.db.Save(f.order).Error)
		return f
	}

	t.Run("valid signature settles the order", func(t *testing.T) {
		f := prepare(t)

		order, err := f.service.HandleCallback(ctx, razorpay.Callback{
			GatewayOrderID: "order_GW1",
			PaymentID:      "pay_1",
			Signature:      signCallback("order_GW1", "pay_1"),
		})
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusPaid, order.Status)
		assert.True(t, order.IsPaid)
		assert.Equal(t, "pay_1", order.PaymentID)

		items, err := f.cartRepo.FindByUserID(f.user.ID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("replay is a no-op", func(t *testing.T) {
		f := prepare(t)
		cb := razorpay.Callback{
			GatewayOrderID: "order_GW1",
			PaymentID:      "pay_1",
			Signature:      signCallback("order_GW1", "pay_1"),
		}

		_, err := f.service.HandleCallback(ctx, cb)
		require.NoError(t, err)

		order, err := f.service.HandleCallback(ctx, cb)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusPaid, order.Status)
	})

	t.Run("forged replay of a settled order is rejected", func(t *testing.T) {
		f := prepare(t)

		_, err := f.service.HandleCallback(ctx, razorpay.Callback{
			GatewayOrderID: "order_GW1",
			PaymentID:      "pay_1",
			Signature:      signCallback("order_GW1", "pay_1"),
		})
		require.NoError(t, err)

		_, err = f.service.HandleCallback(ctx, razorpay.Callback{
			GatewayOrderID: "order_GW1",
			PaymentID:      "pay_other",
			Signature:      "forged",
		})
		assert.ErrorIs(t, err, ErrPaymentVerificationFailed)

		// The settled order is untouched.
		var stored model.Order
		require.NoError(t, f.db.First(&stored, f.order.ID).Error)
		assert.Equal(t, model.OrderStatusPaid, stored.Status)
		assert.True(t, stored.IsPaid)
		assert.Equal(t, "pay_1", stored.PaymentID)
	})

	t.Run("bad signature marks the order failed", func(t *testing.T) {
		f := prepare(t)

		_, err := f.service.HandleCallback(ctx, razorpay.Callback{
			GatewayOrderID: "order_GW1",
			PaymentID:      "pay_1",
			Signature:      "forged",
		})
		assert.ErrorIs(t, err, ErrPaymentVerificationFailed)

		var stored model.Order
		require.NoError(t, f.db.First(&stored, f.order.ID).Error)
		assert.Equal(t, model.OrderStatusFailed, stored.Status)
		assert.False(t, stored.IsPaid)

		// The cart survives a failed payment.
		items, err := f.cartRepo.FindByUserID(f.user.ID)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("unknown gateway order", func(t *testing.T) {
		f := prepare(t)

		_, err := f.service.HandleCallback(ctx, razorpay.Callback{
			GatewayOrderID: "order_UNKNOWN",
			PaymentID:      "pay_1",
			Signature:      signCallback("order_UNKNOWN", "pay_1"),
		})
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}
