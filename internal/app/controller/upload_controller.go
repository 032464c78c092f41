package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/urbanoshop/urbano-backend/internal/errors"
	"github.com/urbanoshop/urbano-backend/internal/middleware"
	"github.com/urbanoshop/urbano-backend/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(s *storage.S3Storage) *UploadController {
	return &UploadController{storage: s}
}

type PresignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// Presign issues a direct-upload URL for a product image (admin)
// POST /api/v1/admin/uploads/presign
func (ctrl *UploadController) Presign(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Filename and content type are required")
		return
	}

	if err := storage.ValidateImageType(req.ContentType); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only JPEG, PNG, WebP and GIF images are allowed")
		return
	}

	upload, err := ctrl.storage.PresignUpload(c.Request.Context(), req.Filename, req.ContentType, "products")
	if err != nil {
		log.Error("Failed to presign upload", err)
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.UploadFailed, "Failed to prepare upload")
		return
	}

	c.JSON(http.StatusOK, upload)
}
