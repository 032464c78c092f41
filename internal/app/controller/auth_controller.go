package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urbanoshop/urbano-backend/internal/app/service"
	apperrors "github.com/urbanoshop/urbano-backend/internal/errors"
	"github.com/urbanoshop/urbano-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
	cartService service.CartService
}

func NewAuthController(authService service.AuthService, cartService service.CartService) *AuthController {
	return &AuthController{authService: authService, cartService: cartService}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Register creates a new account
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request payload")
		return
	}

	user, err := ctrl.authService.Register(req.Email, req.Password, req.Name, req.Phone)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "An account with this email already exists")
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.InternalError(c, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login signs a user in and merges any guest cart into their account cart
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request payload")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.Unauthorized(c, "Invalid email or password")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.InternalError(c, "Failed to sign in")
		return
	}

	if sessionID := middleware.GetSessionID(c); sessionID != "" {
		if err := ctrl.cartService.MergeGuestCart(c.Request.Context(), sessionID, user.ID); err != nil {
			// Sign-in still succeeds; the session cart just stays behind.
			log.Warn("Guest cart merge failed", map[string]interface{}{
				"user_id": user.ID,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Refresh exchanges a refresh token for a fresh pair
// POST /api/v1/auth/refresh
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request payload")
		return
	}

	tokens, err := ctrl.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		apperrors.Unauthorized(c, "Invalid or expired refresh token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Profile returns the signed-in user
// GET /api/v1/auth/me
func (ctrl *AuthController) Profile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	user, err := ctrl.authService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Account not found")
			return
		}
		apperrors.InternalError(c, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
