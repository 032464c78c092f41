package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/urbanoshop/urbano-backend/internal/app/service"
	apperrors "github.com/urbanoshop/urbano-backend/internal/errors"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// List returns all categories
// GET /api/v1/categories
func (ctrl *CategoryController) List(c *gin.Context) {
	categories, err := ctrl.categoryService.List()
	if err != nil {
		apperrors.InternalError(c, "Failed to load categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Get returns one category by slug
// GET /api/v1/categories/:slug
func (ctrl *CategoryController) Get(c *gin.Context) {
	category, err := ctrl.categoryService.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		apperrors.InternalError(c, "Failed to load category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// Create adds a category (admin)
// POST /api/v1/admin/categories
func (ctrl *CategoryController) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request payload")
		return
	}

	category, err := ctrl.categoryService.Create(req.Name)
	if err != nil {
		info := apperrors.ParseError(err, "category")
		apperrors.RespondWithError(c, info.HTTPStatus(), info.Code, info.Message)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// Rename changes a category's display name (admin)
// PUT /api/v1/admin/categories/:id
func (ctrl *CategoryController) Rename(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request payload")
		return
	}

	category, err := ctrl.categoryService.Rename(uint(id), req.Name)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		apperrors.InternalError(c, "Failed to update category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// Delete removes a category (admin)
// DELETE /api/v1/admin/categories/:id
func (ctrl *CategoryController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
		return
	}

	if err := ctrl.categoryService.Delete(uint(id)); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		apperrors.InternalError(c, "Failed to delete category")
		return
	}
	c.Status(http.StatusNoContent)
}
