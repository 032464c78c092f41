package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/urbanoshop/urbano-backend/internal/app/model"
	"github.com/urbanoshop/urbano-backend/internal/app/repository"
	"github.com/urbanoshop/urbano-backend/internal/app/service"
	apperrors "github.com/urbanoshop/urbano-backend/internal/errors"
	"github.com/urbanoshop/urbano-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

type ProductRequest struct {
	Title            string           `json:"title" binding:"required"`
	Brand            string           `json:"brand"`
	CategoryID       *uint            `json:"category_id"`
	Sizes            string           `json:"sizes"`
	Price            float64          `json:"price" binding:"required,gt=0"`
	OldPrice         *float64         `json:"old_price"`
	ShortDescription string           `json:"short_description"`
	Features         string           `json:"features"`
	Tag              model.ProductTag `json:"tag"`
	IsFeatured       bool             `json:"is_featured"`
}

func (req ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Title:            req.Title,
		Brand:            req.Brand,
		CategoryID:       req.CategoryID,
		Sizes:            req.Sizes,
		Price:            req.Price,
		OldPrice:         req.OldPrice,
		ShortDescription: req.ShortDescription,
		Features:         req.Features,
		Tag:              req.Tag,
		IsFeatured:       req.IsFeatured,
	}
}

// filterFromQuery builds the listing filter from query parameters shared by
// every listing endpoint.
func filterFromQuery(c *gin.Context) repository.ProductFilter {
	filter := repository.ProductFilter{
		CategorySlug: c.Query("category"),
		Brand:        c.Query("brand"),
		Search:       c.Query("q"),
		Sort:         c.Query("sort"),
	}

	if tag := c.Query("tag"); tag != "" {
		filter.Tag = model.ProductTag(tag)
	}
	if v := c.Query("min_price"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &price
		}
	}
	if v := c.Query("max_price"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &price
		}
	}
	if v := c.Query("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if v := c.Query("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil && offset > 0 {
			filter.Offset = offset
		}
	}
	return filter
}

func (ctrl *ProductController) respondWithList(c *gin.Context, filter repository.ProductFilter) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.productService.List(filter)
	if err != nil {
		log.Error("Failed to list products", err)
		apperrors.InternalError(c, "Failed to load products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// List returns products matching query filters
// GET /api/v1/products
func (ctrl *ProductController) List(c *gin.Context) {
	ctrl.respondWithList(c, filterFromQuery(c))
}

// BestSellers returns the current best-seller set
// GET /api/v1/products/best-sellers
func (ctrl *ProductController) BestSellers(c *gin.Context) {
	filter := filterFromQuery(c)
	filter.BestSellerOnly = true
	ctrl.respondWithList(c, filter)
}

// NewArrivals returns the latest additions
// GET /api/v1/products/new-arrivals
func (ctrl *ProductController) NewArrivals(c *gin.Context) {
	filter := filterFromQuery(c)
	filter.Sort = ""
	if filter.Limit == 0 {
		filter.Limit = 12
	}
	ctrl.respondWithList(c, filter)
}

// OnSale returns marked-down products
// GET /api/v1/products/on-sale
func (ctrl *ProductController) OnSale(c *gin.Context) {
	filter := filterFromQuery(c)
	filter.OnSaleOnly = true
	if filter.Sort == "" {
		filter.Sort = "discount"
	}
	ctrl.respondWithList(c, filter)
}

// Featured returns curated featured products
// GET /api/v1/products/featured
func (ctrl *ProductController) Featured(c *gin.Context) {
	filter := filterFromQuery(c)
	filter.FeaturedOnly = true
	ctrl.respondWithList(c, filter)
}

// Collection returns products for a curated tag
// GET /api/v1/collections/:tag
func (ctrl *ProductController) Collection(c *gin.Context) {
	tag := model.ProductTag(c.Param("tag"))
	switch tag {
	case model.TagSummer, model.TagWorkspace, model.TagGifts:
	default:
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Collection not found")
		return
	}

	filter := filterFromQuery(c)
	filter.Tag = tag
	ctrl.respondWithList(c, filter)
}

// Brands returns the distinct brand list
// GET /api/v1/brands
func (ctrl *ProductController) Brands(c *gin.Context) {
	brands, err := ctrl.productService.ListBrands()
	if err != nil {
		apperrors.InternalError(c, "Failed to load brands")
		return
	}
	c.JSON(http.StatusOK, gin.H{"brands": brands})
}

// Brand returns products for one brand
// GET /api/v1/brands/:brand
func (ctrl *ProductController) Brand(c *gin.Context) {
	filter := filterFromQuery(c)
	filter.Brand = c.Param("brand")
	ctrl.respondWithList(c, filter)
}

// Search searches products by title, brand and description
// GET /api/v1/products/search
func (ctrl *ProductController) Search(c *gin.Context) {
	filter := filterFromQuery(c)
	if filter.Search == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Search query is required")
		return
	}
	ctrl.respondWithList(c, filter)
}

// Get returns one product by slug, with derived discount and size fields
// GET /api/v1/products/:slug
func (ctrl *ProductController) Get(c *gin.Context) {
	product, err := ctrl.productService.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.InternalError(c, "Failed to load product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product":             product,
		"discount_percentage": product.DiscountPercentage(),
		"sizes":               product.SizeList(),
	})
}

// Create adds a product (admin)
// POST /api/v1/admin/products
func (ctrl *ProductController) Create(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request payload")
		return
	}

	product, err := ctrl.productService.Create(req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		info := apperrors.ParseError(err, "product")
		apperrors.RespondWithError(c, info.HTTPStatus(), info.Code, info.Message)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// Update modifies a product (admin)
// PUT /api/v1/admin/products/:id
func (ctrl *ProductController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request payload")
		return
	}

	product, err := ctrl.productService.Update(uint(id), req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		apperrors.InternalError(c, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// Delete removes a product and its images (admin)
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.productService.Delete(uint(id)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.InternalError(c, "Failed to delete product")
		return
	}
	c.Status(http.StatusNoContent)
}

type AddImageRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// AddImage attaches an uploaded image URL to a product (admin)
// POST /api/v1/admin/products/:id/images
func (ctrl *ProductController) AddImage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req AddImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request payload")
		return
	}

	image, err := ctrl.productService.AddImage(uint(id), req.URL)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.InternalError(c, "Failed to add image")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"image": image})
}
