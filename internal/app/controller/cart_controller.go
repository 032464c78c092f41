package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urbanoshop/urbano-backend/internal/app/service"
	apperrors "github.com/urbanoshop/urbano-backend/internal/errors"
	"github.com/urbanoshop/urbano-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{cartService: cartService}
}

type AddToCartRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type RemoveCartRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size"`
}

// identityFrom resolves the cart owner: the authenticated user when a token
// was presented, the visitor session otherwise.
func identityFrom(c *gin.Context) service.Identity {
	identity := service.Identity{SessionID: middleware.GetSessionID(c)}
	if userID, ok := middleware.GetUserID(c); ok {
		identity.UserID = &userID
	}
	return identity
}

// GetCart returns the cart with live pricing
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	view, err := ctrl.cartService.ViewCart(c.Request.Context(), identityFrom(c))
	if err != nil {
		log.Error("Failed to fetch cart", err)
		apperrors.InternalError(c, "Failed to load cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       view.Items,
		"count":       len(view.Items),
		"total_items": view.TotalItems,
		"total":       view.Total,
	})
}

// AddToCart adds a product line
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request payload")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	err := ctrl.cartService.AddToCart(c.Request.Context(), identityFrom(c), req.ProductID, req.Size, req.Quantity)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"message": "Item added to cart"})
	case errors.Is(err, service.ErrSizeRequired):
		// The quantity is stashed; the client re-submits with a size.
		apperrors.RespondWithError(c, http.StatusUnprocessableEntity, apperrors.CartSizeRequired, "Please select a size for this product")
	case errors.Is(err, service.ErrInvalidSize):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "This size is not offered for this product")
	case errors.Is(err, service.ErrInvalidQuantity):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Quantity must be at least 1")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	default:
		log.Error("Failed to add to cart", err, map[string]interface{}{
			"product_id": req.ProductID,
		})
		apperrors.InternalError(c, "Failed to add item to cart")
	}
}

// UpdateItem sets a line's quantity
// PUT /api/v1/cart
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request payload")
		return
	}

	err := ctrl.cartService.UpdateQuantity(c.Request.Context(), identityFrom(c), req.ProductID, req.Size, req.Quantity)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
	case errors.Is(err, service.ErrCartItemNotFound):
		apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
	case errors.Is(err, service.ErrInvalidQuantity):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Quantity must be at least 1")
	default:
		apperrors.InternalError(c, "Failed to update cart")
	}
}

// RemoveItem deletes a line; removing a missing line succeeds
// DELETE /api/v1/cart
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	var req RemoveCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request payload")
		return
	}

	if err := ctrl.cartService.RemoveFromCart(c.Request.Context(), identityFrom(c), req.ProductID, req.Size); err != nil {
		apperrors.InternalError(c, "Failed to remove item from cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
}

// ClearCart empties the cart
// DELETE /api/v1/cart/all
func (ctrl *CartController) ClearCart(c *gin.Context) {
	if err := ctrl.cartService.ClearCart(c.Request.Context(), identityFrom(c)); err != nil {
		apperrors.InternalError(c, "Failed to clear cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
