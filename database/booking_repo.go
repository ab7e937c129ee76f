package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"lizze-booking-server/models"
)

// ErrNotFound is returned when a booking lookup matches no row.
var ErrNotFound = errors.New("booking not found")

// BookingFilter narrows admin list queries. Nil pointer fields mean
// "don't filter on this".
type BookingFilter struct {
	Service         string
	Email           string
	Paid            *bool
	PaymentVerified *bool
	Date            *time.Time
	Search          string
}

// BookingRepository is the persistence contract the booking workflow runs
// against. The production implementation is GORM over Postgres; tests use an
// in-memory fake.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	Update(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id uint) (*models.Booking, error)
	GetByReference(ctx context.Context, reference string) (*models.Booking, error)
	GetByToken(ctx context.Context, token string) (*models.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]models.Booking, error)
	ReferenceExists(ctx context.Context, reference string) (bool, error)
	TokenExists(ctx context.Context, token string) (bool, error)

	// ClaimReceiptSend flips receipt_sent false→true and reports whether this
	// caller won the flip. Exactly one of any set of concurrent callers gets
	// true for a given booking.
	ClaimReceiptSend(ctx context.Context, id uint) (bool, error)

	// MarkVerified sets payment_verified=true for the given ids and returns
	// how many rows changed.
	MarkVerified(ctx context.Context, ids []uint) (int64, error)
}

// GormBookingRepository implements BookingRepository on the shared GORM handle.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository returns the production repository bound to db.
func NewBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *GormBookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	// receipt_sent is owned by ClaimReceiptSend; writing a possibly stale
	// value here would reopen the one-shot latch under concurrent reviews.
	if err := r.db.WithContext(ctx).Omit("receipt_sent").Save(booking).Error; err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	return nil
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load booking %d: %w", id, err)
	}
	return &booking, nil
}

func (r *GormBookingRepository) GetByReference(ctx context.Context, reference string) (*models.Booking, error) {
	return r.getBy(ctx, "reference = ?", reference)
}

func (r *GormBookingRepository) GetByToken(ctx context.Context, token string) (*models.Booking, error) {
	return r.getBy(ctx, "confirmation_token = ?", token)
}

func (r *GormBookingRepository) getBy(ctx context.Context, query string, arg string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Where(query, arg).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	return &booking, nil
}

func (r *GormBookingRepository) List(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	q := r.db.WithContext(ctx).Model(&models.Booking{})

	if filter.Service != "" {
		q = q.Where("service = ?", filter.Service)
	}
	if filter.Email != "" {
		q = q.Where("email = ?", filter.Email)
	}
	if filter.Paid != nil {
		q = q.Where("paid = ?", *filter.Paid)
	}
	if filter.PaymentVerified != nil {
		q = q.Where("payment_verified = ?", *filter.PaymentVerified)
	}
	if filter.Date != nil {
		q = q.Where("date = ?", *filter.Date)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ? OR reference ILIKE ?", like, like, like)
	}

	var bookings []models.Booking
	if err := q.Order("date DESC, id DESC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (r *GormBookingRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	return r.exists(ctx, "reference = ?", reference)
}

func (r *GormBookingRepository) TokenExists(ctx context.Context, token string) (bool, error) {
	return r.exists(ctx, "confirmation_token = ?", token)
}

func (r *GormBookingRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Booking{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return count > 0, nil
}

func (r *GormBookingRepository) ClaimReceiptSend(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND receipt_sent = ?", id, false).
		Update("receipt_sent", true)
	if res.Error != nil {
		return false, fmt.Errorf("failed to claim receipt send for booking %d: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *GormBookingRepository) MarkVerified(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id IN ?", ids).
		Update("payment_verified", true)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark bookings verified: %w", res.Error)
	}
	return res.RowsAffected, nil
}
