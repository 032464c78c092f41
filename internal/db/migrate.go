package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/urbanoshop/urbano-backend/internal/app/model"
	"github.com/urbanoshop/urbano-backend/pkg/logger"
)

// Migrate runs auto-migration for all models and seeds the fixed categories.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.ProductImage{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.ContactMessage{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := seedCategories(db); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	logger.Info("Database migration completed")
	return nil
}

// seedCategories creates the storefront's fixed category set if missing.
// Existing rows are left untouched so slugs stay stable.
func seedCategories(db *gorm.DB) error {
	categories := []model.Category{
		{Name: "Clothing", Slug: "clothing"},
		{Name: "Footwear", Slug: "footwear"},
		{Name: "Accessories", Slug: "accessories"},
		{Name: "Home & Living", Slug: "home-living"},
	}

	for _, category := range categories {
		var existing model.Category
		err := db.Where("slug = ?", category.Slug).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&category).Error; err != nil {
			return err
		}
	}
	return nil
}
