package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"lizze-booking-server/config"
	"lizze-booking-server/models"
	"lizze-booking-server/utils"
)

// NotificationKind names the fixed email renderings the workflow can send.
type NotificationKind string

const (
	NewBookingAdmin             NotificationKind = "new_booking_admin"
	BookingAcknowledgedCustomer NotificationKind = "booking_acknowledged_customer"
	PaymentVerifiedCustomer     NotificationKind = "payment_verified_customer"
	BookingConfirmedCustomer    NotificationKind = "booking_confirmed_customer"
)

// Notifier renders booking notifications and pushes them through the
// configured Mailer. Every method returns the send error to the caller; the
// workflow decides whether that error is fatal (it never is).
type Notifier struct {
	mailer Mailer
	mail   config.MailConfig
	site   config.SiteConfig
	money  config.BookingConfig

	// fetch pulls attachment bytes from storage URLs; swapped out in tests
	fetch func(ctx context.Context, url string) ([]byte, error)
}

func NewNotifier(mailer Mailer, cfg *config.Config) *Notifier {
	return &Notifier{
		mailer: mailer,
		mail:   cfg.Mail,
		site:   cfg.Site,
		money:  cfg.Booking,
		fetch:  fetchURL,
	}
}

func fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (n *Notifier) fee(b *models.Booking) string {
	return utils.FormatFee(n.money.CurrencySymbol, b.Fee)
}

func (n *Notifier) date(b *models.Booking) string {
	return b.Date.Format("2006-01-02")
}

// ConfirmURL builds the customer confirmation link from the booking's token.
func (n *Notifier) ConfirmURL(b *models.Booking) string {
	return n.site.BaseURL + "/confirm/" + b.ConfirmationToken
}

// Notify sends the given kind of notification for a booking.
func (n *Notifier) Notify(ctx context.Context, kind NotificationKind, b *models.Booking) error {
	switch kind {
	case NewBookingAdmin:
		return n.sendAdminNewBooking(ctx, b)
	case BookingAcknowledgedCustomer:
		return n.sendCustomerAcknowledgment(ctx, b)
	case PaymentVerifiedCustomer:
		return n.sendVerificationReceipt(ctx, b)
	case BookingConfirmedCustomer:
		return n.sendBookingConfirmed(ctx, b)
	default:
		return fmt.Errorf("unknown notification kind %q", kind)
	}
}

func (n *Notifier) sendAdminNewBooking(ctx context.Context, b *models.Booking) error {
	proofLine := "<p><strong>Payment Proof:</strong> not uploaded</p>"
	if b.PaymentProofURL != nil && *b.PaymentProofURL != "" {
		proofLine = fmt.Sprintf(`<p><strong>Payment Proof:</strong> <a href="%s">view</a></p>`, *b.PaymentProofURL)
	}

	html := fmt.Sprintf(`
		<h3>New Booking Received</h3>
		<p><strong>Name:</strong> %s</p>
		<p><strong>Email:</strong> %s</p>
		<p><strong>Service:</strong> %s</p>
		<p><strong>Date:</strong> %s</p>
		<p><strong>Fee:</strong> %s</p>
		<p><strong>Payment Method:</strong> %s</p>
		<p><strong>Reference:</strong> %s</p>
		%s
		<p>Verify and send confirmation to the customer:</p>
		<p><a href="%s">%s</a></p>
	`, b.Name, b.Email, b.ServiceLabel(), n.date(b), n.fee(b), b.PaymentMethod.Label(),
		b.Reference, proofLine, n.ConfirmURL(b), n.ConfirmURL(b))

	return n.mailer.Send(ctx, &Email{
		ToEmail:  n.mail.AdminEmail,
		Subject:  fmt.Sprintf("📥 New Booking from %s - %s", b.Name, n.site.Name),
		HTMLBody: html,
		TextBody: fmt.Sprintf("New booking: %s, %s on %s, fee %s", b.Name, b.ServiceLabel(), n.date(b), n.fee(b)),
	})
}

func (n *Notifier) sendCustomerAcknowledgment(ctx context.Context, b *models.Booking) error {
	html := fmt.Sprintf(`
		<h3>Hi %s,</h3>
		<p>Thank you for booking with %s!</p>
		<p><strong>Service:</strong> %s</p>
		<p><strong>Date:</strong> %s</p>
		<p><strong>Booking Fee:</strong> %s</p>
		<p><strong>Reference:</strong> %s</p>
		<p>We look forward to seeing you.</p>
	`, b.Name, n.site.Name, b.ServiceLabel(), n.date(b), n.fee(b), b.Reference)

	return n.mailer.Send(ctx, &Email{
		ToEmail:  b.Email,
		ToName:   b.Name,
		Subject:  fmt.Sprintf("Your Booking Confirmation - %s", n.site.Name),
		HTMLBody: html,
		TextBody: fmt.Sprintf("Hi %s, your booking for %s on %s is received. Reference: %s", b.Name, b.ServiceLabel(), n.date(b), b.Reference),
	})
}

func (n *Notifier) sendVerificationReceipt(ctx context.Context, b *models.Booking) error {
	html := fmt.Sprintf(`
		<h3>Hi %s,</h3>
		<p>Your payment for <strong>%s</strong> has been successfully verified.</p>
		<p><strong>Appointment Date:</strong> %s</p>
		<p><strong>Fee:</strong> %s</p>
		<p><strong>Reference:</strong> %s</p>
		<p>Attached is your proof of verification.</p>
		<p>We look forward to seeing you!</p>
		<p>With love,<br>%s 💖</p>
	`, b.Name, b.ServiceLabel(), n.date(b), n.fee(b), b.Reference, n.site.Name)

	email := &Email{
		ToEmail:  b.Email,
		ToName:   b.Name,
		Subject:  fmt.Sprintf("✅ Payment Verified - %s", n.site.Name),
		HTMLBody: html,
		TextBody: fmt.Sprintf("Hi %s, your payment for %s is verified. Reference: %s", b.Name, b.ServiceLabel(), b.Reference),
	}

	if b.VerificationSlipURL != nil && *b.VerificationSlipURL != "" {
		data, err := n.fetch(ctx, *b.VerificationSlipURL)
		if err != nil {
			return fmt.Errorf("failed to load verification slip: %w", err)
		}
		email.Attachments = append(email.Attachments, Attachment{
			Filename: path.Base(*b.VerificationSlipURL),
			Content:  base64.StdEncoding.EncodeToString(data),
		})
	}

	return n.mailer.Send(ctx, email)
}

func (n *Notifier) sendBookingConfirmed(ctx context.Context, b *models.Booking) error {
	html := fmt.Sprintf(`
		<h3>Hi %s,</h3>
		<p>Your booking for <strong>%s</strong> on %s is confirmed!</p>
		<p><strong>Fee:</strong> %s</p>
		<p><strong>Payment Method:</strong> %s</p>
		<p><strong>Reference:</strong> %s</p>
		<p>Thank you,<br>%s</p>
	`, b.Name, b.ServiceLabel(), n.date(b), n.fee(b), b.PaymentMethod.Label(), b.Reference, n.site.Name)

	return n.mailer.Send(ctx, &Email{
		ToEmail:  b.Email,
		ToName:   b.Name,
		Subject:  fmt.Sprintf("Booking Confirmation - %s", n.site.Name),
		HTMLBody: html,
		TextBody: fmt.Sprintf("Hi %s, your booking for %s on %s is confirmed!", b.Name, b.ServiceLabel(), n.date(b)),
	})
}
