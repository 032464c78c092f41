package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/urbanoshop/urbano-backend/internal/app/model"
	"github.com/urbanoshop/urbano-backend/internal/app/repository"
	"github.com/urbanoshop/urbano-backend/pkg/logger"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

const (
	bestSellerWindowDays = 30
	bestSellerCount      = 8
)

// ProductInput carries the admin-supplied fields for creating or updating a
// product. The slug is derived from the title on creation and never changes
// afterwards.
type ProductInput struct {
	Title            string
	Brand            string
	CategoryID       *uint
	Sizes            string
	Price            float64
	OldPrice         *float64
	ShortDescription string
	Features         string
	Tag              model.ProductTag
	IsFeatured       bool
}

type ProductService interface {
	List(filter repository.ProductFilter) ([]model.Product, error)
	GetByID(id uint) (*model.Product, error)
	GetBySlug(productSlug string) (*model.Product, error)
	ListBrands() ([]string, error)
	Create(input ProductInput) (*model.Product, error)
	Update(id uint, input ProductInput) (*model.Product, error)
	Delete(id uint) error
	AddImage(productID uint, url string) (*model.ProductImage, error)
	RemoveImage(imageID uint) error
	RefreshBestSellers() error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{productRepo: productRepo, categoryRepo: categoryRepo}
}

func (s *productService) List(filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindWithFilter(filter)
}

func (s *productService) GetByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) GetBySlug(productSlug string) (*model.Product, error) {
	product, err := s.productRepo.FindBySlug(productSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) ListBrands() ([]string, error) {
	return s.productRepo.ListBrands()
}

func (s *productService) Create(input ProductInput) (*model.Product, error) {
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
	}

	productSlug, err := s.uniqueSlug(input.Title)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Title:            input.Title,
		Slug:             productSlug,
		Brand:            input.Brand,
		CategoryID:       input.CategoryID,
		Sizes:            input.Sizes,
		Price:            input.Price,
		OldPrice:         input.OldPrice,
		ShortDescription: input.ShortDescription,
		Features:         input.Features,
		Tag:              input.Tag,
		IsFeatured:       input.IsFeatured,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return product, nil
}

// uniqueSlug slugifies the title, appending a numeric suffix on collision.
func (s *productService) uniqueSlug(title string) (string, error) {
	base := slug.Make(title)
	candidate := base
	for i := 2; ; i++ {
		_, err := s.productRepo.FindBySlug(candidate)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *productService) Update(id uint, input ProductInput) (*model.Product, error) {
	product, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
	}

	product.Title = input.Title
	product.Brand = input.Brand
	product.CategoryID = input.CategoryID
	product.Sizes = input.Sizes
	product.Price = input.Price
	product.OldPrice = input.OldPrice
	product.ShortDescription = input.ShortDescription
	product.Features = input.Features
	product.Tag = input.Tag
	product.IsFeatured = input.IsFeatured

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.productRepo.Delete(id)
}

func (s *productService) AddImage(productID uint, url string) (*model.ProductImage, error) {
	if _, err := s.GetByID(productID); err != nil {
		return nil, err
	}

	image := &model.ProductImage{ProductID: productID, URL: url}
	if err := s.productRepo.AddImage(image); err != nil {
		return nil, err
	}
	return image, nil
}

func (s *productService) RemoveImage(imageID uint) error {
	return s.productRepo.DeleteImage(imageID)
}

// RefreshBestSellers recomputes the best-seller flags from sold quantities
// over the trailing window. Cancelled orders do not count.
func (s *productService) RefreshBestSellers() error {
	since := time.Now().AddDate(0, 0, -bestSellerWindowDays)

	ranks, err := s.productRepo.TopSellingSince(since, bestSellerCount)
	if err != nil {
		return err
	}

	ids := make([]uint, 0, len(ranks))
	for _, rank := range ranks {
		ids = append(ids, rank.ProductID)
	}

	if err := s.productRepo.SetBestSellers(ids); err != nil {
		logger.Error("Failed to refresh best sellers", err)
		return err
	}

	logger.Info("Best sellers refreshed", map[string]interface{}{
		"count": len(ids),
	})
	return nil
}
