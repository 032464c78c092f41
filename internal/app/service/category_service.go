package service

import (
	"errors"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/urbanoshop/urbano-backend/internal/app/model"
	"github.com/urbanoshop/urbano-backend/internal/app/repository"
)

type CategoryService interface {
	List() ([]model.Category, error)
	GetBySlug(categorySlug string) (*model.Category, error)
	Create(name string) (*model.Category, error)
	Rename(id uint, name string) (*model.Category, error)
	Delete(id uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *categoryService) GetBySlug(categorySlug string) (*model.Category, error) {
	category, err := s.categoryRepo.FindBySlug(categorySlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Create(name string) (*model.Category, error) {
	category := &model.Category{Name: name, Slug: slug.Make(name)}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Rename changes the display name only. The slug is frozen at creation so
// stored links keep working.
func (s *categoryService) Rename(id uint, name string) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	category.Name = name
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Delete(id uint) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return s.categoryRepo.Delete(id)
}
