package services

import (
	"context"
	"fmt"
	"log"

	"lizze-booking-server/config"
)

// Attachment is a file carried by an email. Content is base64-encoded.
type Attachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// Email is one outgoing message, backend-agnostic.
type Email struct {
	ToEmail     string
	ToName      string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
}

// Mailer is the transactional email backend. Implementations: Brevo HTTP API,
// direct SMTP, and a logged mock when neither is configured.
type Mailer interface {
	Send(ctx context.Context, email *Email) error
}

// NewMailer selects a backend from configuration. An unconfigured backend
// degrades to the mock so a dev environment still shows what would be sent.
func NewMailer(cfg config.MailConfig) Mailer {
	switch cfg.Provider {
	case "smtp":
		if cfg.SMTPUser == "" || cfg.SMTPPassword == "" {
			log.Println("⚠️ EMAIL_HOST_USER/EMAIL_HOST_PASSWORD not set, using mock mailer")
			return &MockMailer{}
		}
		return NewSMTPMailer(cfg)
	case "brevo":
		if cfg.BrevoAPIKey == "" {
			log.Println("⚠️ BREVO_API_KEY not set, using mock mailer")
			return &MockMailer{}
		}
		return NewBrevoMailer(cfg)
	default:
		log.Printf("⚠️ Unknown MAIL_PROVIDER %q, using mock mailer", cfg.Provider)
		return &MockMailer{}
	}
}

// MockMailer logs the message instead of delivering it.
type MockMailer struct{}

func (m *MockMailer) Send(_ context.Context, email *Email) error {
	fmt.Printf("\n--- MOCK EMAIL ---\nTo: %s <%s>\nSubject: %s\nBody:\n%s\nAttachments: %d\n-------------------\n",
		email.ToName, email.ToEmail, email.Subject, email.TextBody, len(email.Attachments))
	return nil
}
