package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/urbanoshop/urbano-backend/internal/app/service"
	apperrors "github.com/urbanoshop/urbano-backend/internal/errors"
	"github.com/urbanoshop/urbano-backend/internal/middleware"
)

type ContactController struct {
	contactService service.ContactService
}

func NewContactController(contactService service.ContactService) *ContactController {
	return &ContactController{contactService: contactService}
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// Submit stores a contact message and notifies the shop inbox
// POST /api/v1/contact
func (ctrl *ContactController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Name, email and message are required")
		return
	}

	msg, err := ctrl.contactService.SubmitMessage(req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		log.Error("Failed to store contact message", err)
		apperrors.InternalError(c, "Failed to submit message")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Thanks for reaching out, we will get back to you soon",
		"id":      msg.ID,
	})
}

// List returns stored messages (admin)
// GET /api/v1/admin/contact-messages
func (ctrl *ContactController) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := ctrl.contactService.ListMessages(limit, offset)
	if err != nil {
		apperrors.InternalError(c, "Failed to load messages")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"count":    len(messages),
	})
}
