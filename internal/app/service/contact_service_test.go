package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanoshop/urbano-backend/internal/app/repository"
	"github.com/urbanoshop/urbano-backend/internal/db"
)

type recordingMailer struct {
	to, subject, body string
	err               error
	sent              int
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.sent++
	m.to, m.subject, m.body = to, subject, body
	return m.err
}

func setupContactService(t *testing.T, m *recordingMailer) (ContactService, *recordingMailer) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	service := NewContactService(repository.NewContactRepository(testDB), m, "shop@urbano.shop")
	return service, m
}

func TestContactService_SubmitMessage(t *testing.T) {
	service, m := setupContactService(t, &recordingMailer{})

	msg, err := service.SubmitMessage("Asha", "asha@example.com", "Sizing question", "Does the shirt run small?")
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)

	assert.Equal(t, 1, m.sent)
	assert.Equal(t, "shop@urbano.shop", m.to)
	assert.Equal(t, "Sizing question", m.subject)
	assert.Contains(t, m.body, "asha@example.com")
}

func TestContactService_SubmitMessage_MailFailureIsSwallowed(t *testing.T) {
	service, _ := setupContactService(t, &recordingMailer{err: errors.New("smtp down")})

	msg, err := service.SubmitMessage("Asha", "asha@example.com", "", "Hello")
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)

	// The message is durable even though the notification failed.
	messages, err := service.ListMessages(10, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Hello", messages[0].Message)
}

func TestContactService_SubmitMessage_DefaultSubject(t *testing.T) {
	service, m := setupContactService(t, &recordingMailer{})

	_, err := service.SubmitMessage("Asha", "asha@example.com", "", "Hi")
	require.NoError(t, err)
	assert.Equal(t, "New contact message", m.subject)
}
