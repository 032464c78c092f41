package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/urbanoshop/urbano-backend/internal/app/model"
	"github.com/urbanoshop/urbano-backend/internal/app/repository"
	"github.com/urbanoshop/urbano-backend/pkg/logger"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrInvalidDeliveryMethod = errors.New("invalid delivery method")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
	ErrOrderNotCancellable   = errors.New("paid orders cannot be cancelled")
)

const (
	standardDeliveryDays = 5
	expressDeliveryDays  = 2
)

// CreateOrderInput is the checkout form. An empty delivery method means
// standard; anything else unrecognized is rejected.
type CreateOrderInput struct {
	Fullname       string
	Phone          string
	Address        string
	City           string
	State          string
	Pincode        string
	PaymentMethod  model.PaymentMethod
	DeliveryMethod model.DeliveryMethod
}

// CheckoutSummary is the review-before-purchase view: the cart priced live
// plus the delivery options.
type CheckoutSummary struct {
	Items      []model.CartItem `json:"items"`
	TotalItems int              `json:"total_items"`
	Total      float64          `json:"total"`
}

type OrderService interface {
	GetCheckoutSummary(userID uint) (*CheckoutSummary, error)
	CreateOrder(userID uint, input CreateOrderInput) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrder(userID, orderID uint) (*model.Order, error)
	CancelOrder(userID, orderID uint) (*model.Order, error)
}

type orderService struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	// sandbox marks orders paid at creation without touching the gateway.
	sandbox bool
}

func NewOrderService(db *gorm.DB, orderRepo repository.OrderRepository, cartRepo repository.CartRepository, sandbox bool) OrderService {
	return &orderService{db: db, orderRepo: orderRepo, cartRepo: cartRepo, sandbox: sandbox}
}

func (s *orderService) GetCheckoutSummary(userID uint) (*CheckoutSummary, error) {
	items, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	summary := &CheckoutSummary{Items: items}
	for i := range items {
		summary.Total += items[i].Subtotal()
		summary.TotalItems += items[i].Quantity
	}
	return summary, nil
}

func deliveryDays(method model.DeliveryMethod) (model.DeliveryMethod, int, error) {
	switch method {
	case "", model.DeliveryStandard:
		return model.DeliveryStandard, standardDeliveryDays, nil
	case model.DeliveryExpress:
		return model.DeliveryExpress, expressDeliveryDays, nil
	default:
		return "", 0, ErrInvalidDeliveryMethod
	}
}

// CreateOrder turns the user's cart into an order with prices frozen at this
// moment. COD and sandbox orders clear the cart in the same transaction; a
// gateway order keeps the cart until the payment callback confirms.
func (s *orderService) CreateOrder(userID uint, input CreateOrderInput) (*model.Order, error) {
	delivery, days, err := deliveryDays(input.DeliveryMethod)
	if err != nil {
		logger.Warn("Checkout rejected: unknown delivery method", map[string]interface{}{
			"user_id": userID,
			"method":  input.DeliveryMethod,
		})
		return nil, err
	}

	method := input.PaymentMethod
	if method != model.PaymentMethodCOD && method != model.PaymentMethodRazorpay {
		return nil, ErrInvalidPaymentMethod
	}

	items, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := &model.Order{
		UserID:         userID,
		Fullname:       input.Fullname,
		Phone:          input.Phone,
		Address:        input.Address,
		City:           input.City,
		State:          input.State,
		Pincode:        input.Pincode,
		PaymentMethod:  method,
		Status:         model.OrderStatusPlaced,
		DeliveryMethod: delivery,
		DeliveryDays:   days,
	}

	clearCart := method == model.PaymentMethodCOD
	if method == model.PaymentMethodRazorpay && s.sandbox {
		order.PaymentMethod = model.PaymentMethodSandbox
		order.Status = model.OrderStatusPaid
		order.IsPaid = true
		clearCart = true
	}

	for i := range items {
		item := &items[i]
		order.Items = append(order.Items, model.OrderItem{
			ProductID: item.ProductID,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
		})
		order.TotalPrice += item.Subtotal()
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
			return err
		}
		if clearCart {
			return s.cartRepo.WithTx(tx).DeleteByUserID(userID)
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Order created", map[string]interface{}{
		"order_id":       order.ID,
		"user_id":        userID,
		"total":          order.TotalPrice,
		"payment_method": order.PaymentMethod,
	})
	return order, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	return s.orderRepo.FindByUserID(userID)
}

func (s *orderService) GetOrder(userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// CancelOrder cancels an unpaid order. Cancelling twice is a no-op; paid
// orders are refused.
func (s *orderService) CancelOrder(userID, orderID uint) (*model.Order, error) {
	order, err := s.GetOrder(userID, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == model.OrderStatusCancelled {
		return order, nil
	}
	if !order.Cancellable() {
		return nil, ErrOrderNotCancellable
	}

	now := time.Now()
	order.Status = model.OrderStatusCancelled
	order.CancelledAt = &now
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	logger.Info("Order cancelled", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  userID,
	})
	return order, nil
}
