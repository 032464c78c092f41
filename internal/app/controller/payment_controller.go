package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urbanoshop/urbano-backend/internal/app/service"
	apperrors "github.com/urbanoshop/urbano-backend/internal/errors"
	"github.com/urbanoshop/urbano-backend/internal/middleware"
	"github.com/urbanoshop/urbano-backend/pkg/payment/razorpay"
)

type PaymentController struct {
	paymentService service.PaymentService
}

func NewPaymentController(paymentService service.PaymentService) *PaymentController {
	return &PaymentController{paymentService: paymentService}
}

// Callback settles a gateway payment. The route is public: the caller is
// authenticated by the HMAC signature, not by a session.
// POST /api/v1/payments/callback
func (ctrl *PaymentController) Callback(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var cb razorpay.Callback
	if err := c.ShouldBindJSON(&cb); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid callback payload")
		return
	}

	order, err := ctrl.paymentService.HandleCallback(c.Request.Context(), cb)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "No order matches this payment")
		case errors.Is(err, service.ErrPaymentVerificationFailed):
			apperrors.RespondWithError(c, http.StatusBadRequest, apperrors.PaymentVerificationFailed, "Payment verification failed")
		default:
			log.Error("Payment callback failed", err, map[string]interface{}{
				"gateway_order_id": cb.GatewayOrderID,
			})
			apperrors.InternalError(c, "Failed to process payment")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}
