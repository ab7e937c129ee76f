package services

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"lizze-booking-server/config"
)

// SMTPMailer submits messages directly over SMTP with STARTTLS (the
// net/smtp default when the server offers it).
type SMTPMailer struct {
	cfg config.MailConfig
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(_ context.Context, email *Email) error {
	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)

	msg := m.buildMessage(email)
	if err := smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{email.ToEmail}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	return nil
}

// buildMessage assembles a MIME multipart message with an HTML body and
// base64 attachments.
func (m *SMTPMailer) buildMessage(email *Email) string {
	const boundary = "lizze-mail-boundary"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", m.cfg.FromName, m.cfg.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", email.ToEmail)
	fmt.Fprintf(&b, "Subject: %s\r\n", email.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(email.HTMLBody)
	b.WriteString("\r\n")

	for _, att := range email.Attachments {
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		b.WriteString("Content-Type: application/octet-stream\r\n")
		b.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n\r\n", att.Filename)

		// RFC 2045 wants base64 lines capped at 76 chars
		content := att.Content
		for len(content) > 76 {
			b.WriteString(content[:76])
			b.WriteString("\r\n")
			content = content[76:]
		}
		b.WriteString(content)
		b.WriteString("\r\n")
	}

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return b.String()
}
