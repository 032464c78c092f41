package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/urbanoshop/urbano-backend/internal/app/model"
	"github.com/urbanoshop/urbano-backend/internal/app/repository"
	"github.com/urbanoshop/urbano-backend/pkg/logger"
	"github.com/urbanoshop/urbano-backend/pkg/payment/razorpay"
)

var (
	ErrPaymentVerificationFailed = errors.New("payment signature verification failed")
	ErrPaymentNotRequired        = errors.New("order does not use the payment gateway")
)

// GatewayCheckout is what the frontend needs to open the payment widget.
type GatewayCheckout struct {
	GatewayOrderID string  `json:"gateway_order_id"`
	Amount         int64   `json:"amount"`
	Currency       string  `json:"currency"`
	KeyID          string  `json:"key_id"`
	OrderID        uint    `json:"order_id"`
	Total          float64 `json:"total"`
}

type PaymentService interface {
	InitiatePayment(ctx context.Context, order *model.Order) (*GatewayCheckout, error)
	HandleCallback(ctx context.Context, cb razorpay.Callback) (*model.Order, error)
}

type paymentService struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
	currency  string
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
}

func NewPaymentService(
	client *razorpay.Client,
	keyID, keySecret, currency string,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
) PaymentService {
	return &paymentService{
		client:    client,
		keyID:     keyID,
		keySecret: keySecret,
		currency:  currency,
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
	}
}

// minorUnits converts a price to the currency's smallest unit, rounding to
// the nearest whole.
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// InitiatePayment registers a gateway order for a razorpay purchase and
// stores the gateway order ID for the callback to find.
func (s *paymentService) InitiatePayment(ctx context.Context, order *model.Order) (*GatewayCheckout, error) {
	if order.PaymentMethod != model.PaymentMethodRazorpay {
		return nil, ErrPaymentNotRequired
	}
	if s.client == nil {
		// Credentials were never configured; the server starts anyway so
		// COD checkout keeps working.
		logger.Error("Payment gateway not configured", razorpay.ErrMissingCredentials, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, razorpay.ErrMissingCredentials
	}

	gatewayOrder, err := s.client.CreateOrder(ctx, minorUnits(order.TotalPrice), orderReceipt(order.ID))
	if err != nil {
		logger.Error("Failed to create gateway order", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, err
	}

	order.GatewayOrderID = gatewayOrder.ID
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	logger.Info("Gateway order created", map[string]interface{}{
		"order_id":         order.ID,
		"gateway_order_id": gatewayOrder.ID,
		"amount":           gatewayOrder.Amount,
	})

	return &GatewayCheckout{
		GatewayOrderID: gatewayOrder.ID,
		Amount:         gatewayOrder.Amount,
		Currency:       s.currency,
		KeyID:          s.keyID,
		OrderID:        order.ID,
		Total:          order.TotalPrice,
	}, nil
}

func orderReceipt(orderID uint) string {
	return fmt.Sprintf("order_rcpt_%d", orderID)
}

// HandleCallback settles a gateway payment. A correctly signed replay of an
// already-settled callback returns the order unchanged. A bad signature marks
// an unpaid order failed and is reported to the caller; a settled order is
// never mutated.
func (s *paymentService) HandleCallback(ctx context.Context, cb razorpay.Callback) (*model.Order, error) {
	order, err := s.orderRepo.FindByGatewayOrderID(cb.GatewayOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Payment callback for unknown gateway order", map[string]interface{}{
				"gateway_order_id": cb.GatewayOrderID,
			})
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !razorpay.VerifySignature(cb.GatewayOrderID, cb.PaymentID, cb.Signature, s.keySecret) {
		// A settled order is never touched by a bad callback.
		if !order.IsPaid {
			order.Status = model.OrderStatusFailed
			order.PaymentID = cb.PaymentID
			if updateErr := s.orderRepo.Update(order); updateErr != nil {
				logger.Error("Failed to mark order failed", updateErr, map[string]interface{}{
					"order_id": order.ID,
				})
			}
		}
		logger.Warn("Payment signature verification failed", map[string]interface{}{
			"order_id":         order.ID,
			"gateway_order_id": cb.GatewayOrderID,
		})
		return nil, ErrPaymentVerificationFailed
	}

	if order.IsPaid {
		logger.Info("Payment callback replayed, ignoring", map[string]interface{}{
			"order_id":         order.ID,
			"gateway_order_id": cb.GatewayOrderID,
		})
		return order, nil
	}

	order.Status = model.OrderStatusPaid
	order.IsPaid = true
	order.PaymentID = cb.PaymentID
	order.GatewaySignature = cb.Signature
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	// The cart is kept through a gateway checkout so an abandoned payment
	// loses nothing. Settled now, so it goes.
	if err := s.cartRepo.DeleteByUserID(order.UserID); err != nil {
		logger.Error("Failed to clear cart after payment", err, map[string]interface{}{
			"order_id": order.ID,
			"user_id":  order.UserID,
		})
	}

	logger.Info("Payment settled", map[string]interface{}{
		"order_id":   order.ID,
		"payment_id": cb.PaymentID,
	})
	return order, nil
}
