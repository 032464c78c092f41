package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/urbanoshop/urbano-backend/config"
)

// Mailer sends notification emails. Implementations should treat delivery as
// best effort; callers never fail a request because mail could not be sent.
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer returns a Mailer backed by a plain-auth SMTP relay.
func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s\r\n",
		m.cfg.From, to, subject, body,
	))

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// NoopMailer discards all messages. Used when SMTP is not configured.
type NoopMailer struct{}

func (NoopMailer) Send(to, subject, body string) error {
	return nil
}
