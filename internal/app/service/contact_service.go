package service

import (
	"fmt"

	"github.com/urbanoshop/urbano-backend/internal/app/model"
	"github.com/urbanoshop/urbano-backend/internal/app/repository"
	"github.com/urbanoshop/urbano-backend/pkg/logger"
	"github.com/urbanoshop/urbano-backend/pkg/mailer"
)

type ContactService interface {
	SubmitMessage(name, email, subject, message string) (*model.ContactMessage, error)
	ListMessages(limit, offset int) ([]model.ContactMessage, error)
}

type contactService struct {
	contactRepo repository.ContactRepository
	mailer      mailer.Mailer
	shopEmail   string
}

func NewContactService(contactRepo repository.ContactRepository, m mailer.Mailer, shopEmail string) ContactService {
	return &contactService{contactRepo: contactRepo, mailer: m, shopEmail: shopEmail}
}

// SubmitMessage stores the message, then notifies the shop inbox. The store
// is the source of truth; a failed notification is logged and swallowed.
func (s *contactService) SubmitMessage(name, email, subject, message string) (*model.ContactMessage, error) {
	record := &model.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
	}
	if err := s.contactRepo.Create(record); err != nil {
		return nil, err
	}

	body := fmt.Sprintf("From: %s <%s>\n\n%s", name, email, message)
	mailSubject := subject
	if mailSubject == "" {
		mailSubject = "New contact message"
	}
	if err := s.mailer.Send(s.shopEmail, mailSubject, body); err != nil {
		logger.Warn("Contact notification email failed", map[string]interface{}{
			"message_id": record.ID,
		})
	}

	logger.Info("Contact message received", map[string]interface{}{
		"message_id": record.ID,
		"email":      email,
	})
	return record, nil
}

func (s *contactService) ListMessages(limit, offset int) ([]model.ContactMessage, error) {
	return s.contactRepo.FindAll(limit, offset)
}
