package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/urbanoshop/urbano-backend/internal/app/model"
	"github.com/urbanoshop/urbano-backend/pkg/logger"
)

// ProductFilter narrows and orders product listings. Zero values mean "no
// constraint". All filtering and ordering happens in SQL.
type ProductFilter struct {
	CategoryID     *uint
	CategorySlug   string
	Tag            model.ProductTag
	Brand          string
	Search         string
	BestSellerOnly bool
	FeaturedOnly   bool
	OnSaleOnly     bool
	MinPrice       *float64
	MaxPrice       *float64
	Sort           string // low_to_high, high_to_low, discount, newest
	Limit          int
	Offset         int
}

// BestSellerRank is a product's sold quantity over a window, used by the
// scheduled best-seller refresh.
type BestSellerRank struct {
	ProductID uint
	Sold      int
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindWithFilter(filter ProductFilter) ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
	ListBrands() ([]string, error)
	AddImage(image *model.ProductImage) error
	DeleteImage(imageID uint) error
	TopSellingSince(since time.Time, limit int) ([]BestSellerRank, error)
	SetBestSellers(productIDs []uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"title": product.Title,
			"slug":  product.Slug,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, error) {
	query := r.db.Model(&model.Product{}).
		Preload("Category").
		Preload("Images")

	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.Tag != "" {
		query = query.Where("products.tag = ?", filter.Tag)
	}
	if filter.Brand != "" {
		query = query.Where("products.brand = ?", filter.Brand)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"products.title LIKE ? OR products.brand LIKE ? OR products.short_description LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.BestSellerOnly {
		query = query.Where("products.is_best_seller = ?", true)
	}
	if filter.FeaturedOnly {
		query = query.Where("products.is_featured = ?", true)
	}
	if filter.OnSaleOnly {
		query = query.Where("products.old_price IS NOT NULL AND products.old_price > products.price")
	}
	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}

	switch filter.Sort {
	case "low_to_high":
		query = query.Order("products.price ASC")
	case "high_to_low":
		query = query.Order("products.price DESC")
	case "discount":
		// Markdown ratio computed in SQL so pagination stays correct.
		query = query.Order(
			"CASE WHEN products.old_price IS NOT NULL AND products.old_price > products.price " +
				"THEN (products.old_price - products.price) / products.old_price ELSE 0 END DESC",
		)
	default:
		query = query.Order("products.created_at DESC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products in database", err)
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").Preload("Images").First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").Preload("Images").
		Where("slug = ?", slug).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Product{}, id).Error
	})
}

func (r *productRepository) ListBrands() ([]string, error) {
	var brands []string
	err := r.db.Model(&model.Product{}).
		Distinct("brand").
		Where("brand <> ''").
		Order("brand ASC").
		Pluck("brand", &brands).Error
	if err != nil {
		logger.Error("Failed to list brands from database", err)
		return nil, err
	}
	return brands, nil
}

func (r *productRepository) AddImage(image *model.ProductImage) error {
	return r.db.Create(image).Error
}

func (r *productRepository) DeleteImage(imageID uint) error {
	return r.db.Delete(&model.ProductImage{}, imageID).Error
}

func (r *productRepository) TopSellingSince(since time.Time, limit int) ([]BestSellerRank, error) {
	var ranks []BestSellerRank
	err := r.db.Model(&model.OrderItem{}).
		Select("order_items.product_id AS product_id, SUM(order_items.quantity) AS sold").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.status <> ?", since, model.OrderStatusCancelled).
		Group("order_items.product_id").
		Order("sold DESC").
		Limit(limit).
		Scan(&ranks).Error
	if err != nil {
		logger.Error("Failed to compute top selling products", err)
		return nil, err
	}
	return ranks, nil
}

// SetBestSellers replaces the best-seller flag set atomically.
func (r *productRepository) SetBestSellers(productIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Product{}).
			Where("is_best_seller = ?", true).
			Update("is_best_seller", false).Error; err != nil {
			return err
		}
		if len(productIDs) == 0 {
			return nil
		}
		return tx.Model(&model.Product{}).
			Where("id IN ?", productIDs).
			Update("is_best_seller", true).Error
	})
}
