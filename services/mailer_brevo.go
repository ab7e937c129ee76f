package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"lizze-booking-server/config"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

// ---- Brevo payloads ----

type brevoParty struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoEmail struct {
	Sender      brevoParty   `json:"sender"`
	To          []brevoParty `json:"to"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent,omitempty"`
	TextContent string       `json:"textContent,omitempty"`
	Attachments []Attachment `json:"attachment,omitempty"`
}

// BrevoMailer sends through the Brevo transactional email HTTP API.
type BrevoMailer struct {
	cfg    config.MailConfig
	client *http.Client
}

func NewBrevoMailer(cfg config.MailConfig) *BrevoMailer {
	return &BrevoMailer{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (m *BrevoMailer) Send(ctx context.Context, email *Email) error {
	payload := brevoEmail{
		Sender:      brevoParty{Name: m.cfg.FromName, Email: m.cfg.FromEmail},
		To:          []brevoParty{{Name: email.ToName, Email: email.ToEmail}},
		Subject:     email.Subject,
		HTMLContent: email.HTMLBody,
		TextContent: email.TextBody,
		Attachments: email.Attachments,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal brevo payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPI, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to build brevo request: %w", err)
	}
	req.Header.Set("api-key", m.cfg.BrevoAPIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email via Brevo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("brevo API error: %s", resp.Status)
	}
	return nil
}
