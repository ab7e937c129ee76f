package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/mail"
	"strings"
	"time"

	"lizze-booking-server/config"
	"lizze-booking-server/database"
	"lizze-booking-server/models"
	"lizze-booking-server/utils"
)

// ErrNotFound is returned for unknown references, ids and tokens.
var ErrNotFound = errors.New("booking not found")

// ErrNotEligible is returned when a verification receipt is requested for a
// booking that is not paid+verified+slipped.
var ErrNotEligible = errors.New("booking not eligible (check paid, verified, and slip)")

// ValidationError marks a rejected submission. The handler re-shows the form
// with the message; no booking row is created.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// EventSink receives booking lifecycle events for the realtime admin feed.
type EventSink interface {
	PublishBookingEvent(event string, booking *models.Booking)
}

const (
	EventBookingCreated  = "booking_created"
	EventBookingVerified = "booking_verified"
)

// referenceRetries bounds the collision-retry loop for reference codes and
// confirmation tokens.
const referenceRetries = 5

// BookingService orchestrates the booking lifecycle: submission, staff
// review with the one-shot verification receipt, and token confirmation.
type BookingService struct {
	repo     database.BookingRepository
	notifier *Notifier
	storage  FileStorage
	events   EventSink
	cfg      *config.Config
	now      func() time.Time
}

func NewBookingService(repo database.BookingRepository, notifier *Notifier, storage FileStorage, events EventSink, cfg *config.Config) *BookingService {
	return &BookingService{
		repo:     repo,
		notifier: notifier,
		storage:  storage,
		events:   events,
		cfg:      cfg,
		now:      time.Now,
	}
}

// SubmitInput carries the booking form fields plus the optional payment
// proof upload.
type SubmitInput struct {
	Name          string
	Email         string
	Service       string
	CustomDetails string
	Date          string
	Fee           string
	PaymentMethod string

	ProofFile     multipart.File
	ProofFilename string
}

// Submit validates a booking submission, persists it and fires the admin
// alert plus the customer acknowledgment. Email and feed failures are logged
// and never undo the created row.
func (s *BookingService) Submit(ctx context.Context, in SubmitInput) (*models.Booking, error) {
	booking, err := s.buildBooking(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := s.assignIdentifiers(ctx, booking); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, err
	}
	log.Printf("📥 Booking %s created for %s (%s)", booking.Reference, booking.Name, booking.ServiceLabel())

	// Best effort from here on. The booking row is the source of truth.
	if err := s.notifier.Notify(ctx, NewBookingAdmin, booking); err != nil {
		log.Printf("❌ Failed to send admin notification for booking %s: %v", booking.Reference, err)
	}
	if err := s.notifier.Notify(ctx, BookingAcknowledgedCustomer, booking); err != nil {
		log.Printf("❌ Failed to send customer acknowledgment for booking %s: %v", booking.Reference, err)
	}
	s.publish(EventBookingCreated, booking)

	return booking, nil
}

func (s *BookingService) buildBooking(ctx context.Context, in SubmitInput) (*models.Booking, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name is required")
	}

	email := strings.TrimSpace(in.Email)
	addr, err := mail.ParseAddress(email)
	// Require a bare address; display-name forms are not a form value.
	if err != nil || addr.Address != email {
		return nil, invalid("a valid email address is required")
	}

	if !models.IsValidService(in.Service) {
		return nil, invalid("unknown service %q", in.Service)
	}

	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, invalid("invalid date %q, expected YYYY-MM-DD", in.Date)
	}
	// Compare calendar dates in the server's zone; the parsed form value is
	// midnight UTC, so truncating the clock on the UTC epoch would reject
	// same-day bookings in zones behind UTC.
	y, m, d := s.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil, invalid("appointment date cannot be in the past")
	}

	var fee float64
	if strings.TrimSpace(in.Fee) == "" {
		fee = models.ServiceDefaultFee(in.Service, s.cfg.Booking.DefaultFee)
	} else {
		fee, err = utils.ParseFee(in.Fee)
		if err != nil {
			return nil, invalid("invalid fee: %v", err)
		}
	}

	method := models.PaymentMethod(in.PaymentMethod)
	if in.PaymentMethod == "" {
		method = models.PaymentMethodManual
	} else if !models.IsValidPaymentMethod(method) {
		return nil, invalid("unknown payment method %q", in.PaymentMethod)
	}

	booking := &models.Booking{
		Name:          name,
		Email:         email,
		Service:       in.Service,
		CustomDetails: strings.TrimSpace(in.CustomDetails),
		Date:          date,
		Fee:           fee,
		PaymentMethod: method,
	}

	// Proof upload happens before the row is committed; a storage failure
	// means no booking.
	if in.ProofFile != nil {
		stored, err := s.storage.Store(ctx, in.ProofFile, in.ProofFilename, FolderPaymentProofs)
		if err != nil {
			return nil, invalid("failed to store payment proof: %v", err)
		}
		booking.PaymentProofURL = &stored.URL
		booking.PaymentProofID = &stored.PublicID
	}

	return booking, nil
}

// assignIdentifiers draws the reference code and confirmation token, retrying
// on collision so uniqueness is guaranteed, not merely probable.
func (s *BookingService) assignIdentifiers(ctx context.Context, booking *models.Booking) error {
	for i := 0; i < referenceRetries; i++ {
		ref, err := utils.GenerateReferenceCode()
		if err != nil {
			return err
		}
		exists, err := s.repo.ReferenceExists(ctx, ref)
		if err != nil {
			return err
		}
		if !exists {
			booking.Reference = ref
			break
		}
	}
	if booking.Reference == "" {
		return fmt.Errorf("failed to generate a unique reference after %d attempts", referenceRetries)
	}

	for i := 0; i < referenceRetries; i++ {
		token := utils.GenerateConfirmationToken()
		exists, err := s.repo.TokenExists(ctx, token)
		if err != nil {
			return err
		}
		if !exists {
			booking.ConfirmationToken = token
			break
		}
	}
	if booking.ConfirmationToken == "" {
		return fmt.Errorf("failed to generate a unique confirmation token after %d attempts", referenceRetries)
	}
	return nil
}

// ReviewInput is a staff update to a booking. Nil fields are left untouched.
type ReviewInput struct {
	Paid              *bool
	PaymentVerified   *bool
	VerificationNotes *string

	SlipFile     multipart.File
	SlipFilename string
}

// ReviewResult reports what the save did beyond persisting fields.
type ReviewResult struct {
	Booking     *models.Booking `json:"booking"`
	ReceiptSent bool            `json:"receipt_sent"`
	Eligible    bool            `json:"eligible"`
}

// Review applies a staff update. The verification receipt is edge-triggered:
// it goes out at most once per booking, on the save that first makes the
// booking paid+verified with a slip on file. The receipt_sent latch is
// claimed with a conditional update, so concurrent reviewers cannot
// double-send.
func (s *BookingService) Review(ctx context.Context, id uint, in ReviewInput) (*ReviewResult, error) {
	booking, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Paid != nil {
		booking.Paid = *in.Paid
	}
	if in.PaymentVerified != nil {
		booking.PaymentVerified = *in.PaymentVerified
	}
	if in.VerificationNotes != nil {
		booking.VerificationNotes = in.VerificationNotes
	}
	if in.SlipFile != nil {
		stored, err := s.storage.Store(ctx, in.SlipFile, in.SlipFilename, FolderVerificationSlips)
		if err != nil {
			return nil, fmt.Errorf("failed to store verification slip: %w", err)
		}
		booking.VerificationSlipURL = &stored.URL
		booking.VerificationSlipID = &stored.PublicID
	}

	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, err
	}

	result := &ReviewResult{Booking: booking, Eligible: booking.ReceiptEligible()}
	if !result.Eligible {
		return result, nil
	}

	won, err := s.repo.ClaimReceiptSend(ctx, booking.ID)
	if err != nil {
		log.Printf("❌ Failed to claim receipt send for booking %s: %v", booking.Reference, err)
		return result, nil
	}
	if !won {
		// Receipt already went out on an earlier save.
		return result, nil
	}
	booking.ReceiptSent = true

	if err := s.notifier.Notify(ctx, PaymentVerifiedCustomer, booking); err != nil {
		log.Printf("❌ Failed to send verification receipt for booking %s: %v", booking.Reference, err)
	} else {
		result.ReceiptSent = true
		log.Printf("✅ Verification receipt sent for booking %s", booking.Reference)
	}
	s.publish(EventBookingVerified, booking)

	return result, nil
}

// ResendReceipt re-sends the verification receipt for one booking, subject to
// the same eligibility guard as Review but ignoring the one-shot latch. This
// is the manual recovery path for lost emails.
func (s *BookingService) ResendReceipt(ctx context.Context, id uint) error {
	booking, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	if !booking.ReceiptEligible() {
		return ErrNotEligible
	}
	if err := s.notifier.Notify(ctx, PaymentVerifiedCustomer, booking); err != nil {
		return fmt.Errorf("failed to send verification receipt: %w", err)
	}
	return nil
}

// ResendFailure is one failed row of a bulk resend.
type ResendFailure struct {
	ID     uint   `json:"id"`
	Reason string `json:"reason"`
}

// ResendReport aggregates a bulk resend.
type ResendReport struct {
	Sent     int             `json:"sent"`
	Failures []ResendFailure `json:"failures"`
}

// BulkResendReceipts runs the guarded resend for each id, collecting per-row
// outcomes instead of stopping at the first failure.
func (s *BookingService) BulkResendReceipts(ctx context.Context, ids []uint) *ResendReport {
	report := &ResendReport{}
	for _, id := range ids {
		if err := s.ResendReceipt(ctx, id); err != nil {
			report.Failures = append(report.Failures, ResendFailure{ID: id, Reason: err.Error()})
			continue
		}
		report.Sent++
	}
	return report
}

// BulkMarkVerified sets payment_verified for the given bookings without
// sending emails; bulk correction is assumed already-communicated.
func (s *BookingService) BulkMarkVerified(ctx context.Context, ids []uint) (int64, error) {
	return s.repo.MarkVerified(ctx, ids)
}

// Confirm handles the customer confirmation link. Unknown tokens are a hard
// not-found; a matched token re-sends the final confirmation email, so
// revisiting the link is harmless.
func (s *BookingService) Confirm(ctx context.Context, token string) (*models.Booking, error) {
	booking, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.notifier.Notify(ctx, BookingConfirmedCustomer, booking); err != nil {
		log.Printf("❌ Failed to send confirmation email for booking %s: %v", booking.Reference, err)
	}
	return booking, nil
}

// GetByReference loads one booking by its public reference code.
func (s *BookingService) GetByReference(ctx context.Context, reference string) (*models.Booking, error) {
	booking, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

// List returns bookings matching the filter, newest appointment first.
func (s *BookingService) List(ctx context.Context, filter database.BookingFilter) ([]models.Booking, error) {
	return s.repo.List(ctx, filter)
}

// GetByID loads one booking by storage id.
func (s *BookingService) GetByID(ctx context.Context, id uint) (*models.Booking, error) {
	return s.getByID(ctx, id)
}

func (s *BookingService) getByID(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) publish(event string, booking *models.Booking) {
	if s.events != nil {
		s.events.PublishBookingEvent(event, booking)
	}
}
