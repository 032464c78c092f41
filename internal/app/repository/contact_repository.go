package repository

import (
	"gorm.io/gorm"

	"github.com/urbanoshop/urbano-backend/internal/app/model"
	"github.com/urbanoshop/urbano-backend/pkg/logger"
)

type ContactRepository interface {
	Create(message *model.ContactMessage) error
	FindAll(limit, offset int) ([]model.ContactMessage, error)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(message *model.ContactMessage) error {
	if err := r.db.Create(message).Error; err != nil {
		logger.Error("Failed to store contact message in database", err, map[string]interface{}{
			"email": message.Email,
		})
		return err
	}
	return nil
}

func (r *contactRepository) FindAll(limit, offset int) ([]model.ContactMessage, error) {
	var messages []model.ContactMessage
	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
