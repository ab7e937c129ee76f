package models

import (
	"time"
)

type PaymentMethod string

const (
	PaymentMethodManual   PaymentMethod = "manual"
	PaymentMethodPaystack PaymentMethod = "paystack"
)

var paymentMethodLabels = map[PaymentMethod]string{
	PaymentMethodManual:   "Manual Transfer",
	PaymentMethodPaystack: "Paystack (Online)",
}

// IsValidPaymentMethod reports whether m is one of the accepted methods.
func IsValidPaymentMethod(m PaymentMethod) bool {
	_, ok := paymentMethodLabels[m]
	return ok
}

// Label returns the human-readable name of the payment method.
func (m PaymentMethod) Label() string {
	if label, ok := paymentMethodLabels[m]; ok {
		return label
	}
	return string(m)
}

type Booking struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	Name          string        `json:"name" gorm:"size:100;not null"`
	Email         string        `json:"email" gorm:"size:255;not null;index"`
	Service       string        `json:"service" gorm:"size:20;not null"`
	CustomDetails string        `json:"custom_details" gorm:"type:text"`
	Date          time.Time     `json:"date" gorm:"not null"`
	Fee           float64       `json:"fee" gorm:"type:decimal(10,2);not null"`
	PaymentMethod PaymentMethod `json:"payment_method" gorm:"type:varchar(10);default:'manual';check:payment_method IN ('manual','paystack')"`

	// Customer-asserted vs staff-asserted payment state. Paid is what the
	// customer claims; PaymentVerified is what staff confirmed.
	Paid                bool    `json:"paid" gorm:"default:false"`
	PaymentVerified     bool    `json:"payment_verified" gorm:"default:false"`
	PaymentProofURL     *string `json:"payment_proof_url" gorm:"size:500"`
	PaymentProofID      *string `json:"-" gorm:"size:255"`
	VerificationNotes   *string `json:"verification_notes" gorm:"type:text"`
	VerificationSlipURL *string `json:"verification_slip_url" gorm:"size:500"`
	VerificationSlipID  *string `json:"-" gorm:"size:255"`

	// ReceiptSent latches the one-shot verification receipt so repeated
	// saves (or two staff racing on the same row) cannot resend it.
	ReceiptSent bool `json:"receipt_sent" gorm:"default:false"`

	Reference         string    `json:"reference" gorm:"size:16;uniqueIndex;not null"`
	ConfirmationToken string    `json:"-" gorm:"size:36;uniqueIndex;not null"`
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// ServiceLabel returns the display name of the booked service.
func (b *Booking) ServiceLabel() string {
	return ServiceLabel(b.Service)
}

// HasVerificationSlip reports whether staff attached a verification slip.
func (b *Booking) HasVerificationSlip() bool {
	return b.VerificationSlipURL != nil && *b.VerificationSlipURL != ""
}

// IsConfirmed is the derived confirmation flag: the customer said they paid,
// staff verified the payment, and a verification slip is on file.
func (b *Booking) IsConfirmed() bool {
	return b.Paid && b.PaymentVerified && b.HasVerificationSlip()
}

// ReceiptEligible reports whether the verification receipt may be sent for
// this booking. Same condition as IsConfirmed; named separately because it
// guards an email, not a display flag.
func (b *Booking) ReceiptEligible() bool {
	return b.IsConfirmed()
}

// BookingResponse is the admin list/detail projection of a Booking, with the
// derived flag and display labels already resolved.
type BookingResponse struct {
	ID                  uint      `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	Service             string    `json:"service"`
	ServiceLabel        string    `json:"service_label"`
	CustomDetails       string    `json:"custom_details,omitempty"`
	Date                string    `json:"date"`
	Fee                 float64   `json:"fee"`
	PaymentMethod       string    `json:"payment_method"`
	PaymentMethodLabel  string    `json:"payment_method_label"`
	Paid                bool      `json:"paid"`
	PaymentVerified     bool      `json:"payment_verified"`
	IsConfirmed         bool      `json:"is_confirmed"`
	PaymentProofURL     *string   `json:"payment_proof_url,omitempty"`
	VerificationSlipURL *string   `json:"verification_slip_url,omitempty"`
	VerificationNotes   *string   `json:"verification_notes,omitempty"`
	Reference           string    `json:"reference"`
	CreatedAt           time.Time `json:"created_at"`
}

// ToResponse converts a Booking to its admin-facing projection.
func (b *Booking) ToResponse() BookingResponse {
	return BookingResponse{
		ID:                  b.ID,
		Name:                b.Name,
		Email:               b.Email,
		Service:             b.Service,
		ServiceLabel:        b.ServiceLabel(),
		CustomDetails:       b.CustomDetails,
		Date:                b.Date.Format("2006-01-02"),
		Fee:                 b.Fee,
		PaymentMethod:       string(b.PaymentMethod),
		PaymentMethodLabel:  b.PaymentMethod.Label(),
		Paid:                b.Paid,
		PaymentVerified:     b.PaymentVerified,
		IsConfirmed:         b.IsConfirmed(),
		PaymentProofURL:     b.PaymentProofURL,
		VerificationSlipURL: b.VerificationSlipURL,
		VerificationNotes:   b.VerificationNotes,
		Reference:           b.Reference,
		CreatedAt:           b.CreatedAt,
	}
}
