package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/urbanoshop/urbano-backend/internal/app/model"
	"github.com/urbanoshop/urbano-backend/internal/app/service"
	apperrors "github.com/urbanoshop/urbano-backend/internal/errors"
	"github.com/urbanoshop/urbano-backend/internal/middleware"
)

type OrderController struct {
	orderService   service.OrderService
	paymentService service.PaymentService
}

func NewOrderController(orderService service.OrderService, paymentService service.PaymentService) *OrderController {
	return &OrderController{orderService: orderService, paymentService: paymentService}
}

type CreateOrderRequest struct {
	Fullname       string               `json:"fullname" binding:"required"`
	Phone          string               `json:"phone" binding:"required"`
	Address        string               `json:"address" binding:"required"`
	City           string               `json:"city" binding:"required"`
	State          string               `json:"state"`
	Pincode        string               `json:"pincode"`
	PaymentMethod  model.PaymentMethod  `json:"payment_method" binding:"required"`
	DeliveryMethod model.DeliveryMethod `json:"delivery_method"`
}

// Checkout returns the review-before-purchase summary
// GET /api/v1/checkout
func (ctrl *OrderController) Checkout(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	summary, err := ctrl.orderService.GetCheckoutSummary(userID)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			apperrors.BadRequest(c, apperrors.CartEmpty, "Your cart is empty")
			return
		}
		apperrors.InternalError(c, "Failed to load checkout")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CreateOrder places an order from the cart. Razorpay orders additionally
// return the gateway checkout payload.
// POST /api/v1/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request payload")
		return
	}

	order, err := ctrl.orderService.CreateOrder(userID, service.CreateOrderInput{
		Fullname:       req.Fullname,
		Phone:          req.Phone,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		Pincode:        req.Pincode,
		PaymentMethod:  req.PaymentMethod,
		DeliveryMethod: req.DeliveryMethod,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.BadRequest(c, apperrors.OrderEmptyCart, "Your cart is empty")
		case errors.Is(err, service.ErrInvalidDeliveryMethod):
			apperrors.BadRequest(c, apperrors.OrderInvalidDelivery, "Unknown delivery method")
		case errors.Is(err, service.ErrInvalidPaymentMethod):
			apperrors.BadRequest(c, apperrors.OrderInvalidPayment, "Unknown payment method")
		default:
			log.Error("Failed to create order", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "Failed to place order")
		}
		return
	}

	response := gin.H{"order": order}

	if order.PaymentMethod == model.PaymentMethodRazorpay {
		checkout, err := ctrl.paymentService.InitiatePayment(c.Request.Context(), order)
		if err != nil {
			log.Error("Failed to initiate gateway payment", err, map[string]interface{}{
				"order_id": order.ID,
			})
			apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.PaymentGatewayError, "Payment gateway is unavailable, please try again")
			return
		}
		response["payment"] = checkout
	}

	c.JSON(http.StatusCreated, response)
}

// ListOrders returns the user's order history, newest first
// GET /api/v1/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		apperrors.InternalError(c, "Failed to load orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder returns one of the user's orders
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.GetOrder(userID, uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		apperrors.InternalError(c, "Failed to load order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder cancels an unpaid order
// POST /api/v1/orders/:id/cancel
func (ctrl *OrderController) CancelOrder(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.CancelOrder(userID, uint(orderID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrOrderNotCancellable):
			apperrors.Conflict(c, apperrors.OrderNotCancellable, "Paid orders cannot be cancelled")
		default:
			apperrors.InternalError(c, "Failed to cancel order")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
