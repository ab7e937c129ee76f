package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"lizze-booking-server/config"
	"lizze-booking-server/database"
	"lizze-booking-server/models"
	"lizze-booking-server/services"
)

type stubMailer struct{}

func (stubMailer) Send(_ context.Context, _ *services.Email) error { return nil }

// stubRepo is the minimal in-memory BookingRepository the public handlers need.
type stubRepo struct {
	mu       sync.Mutex
	seq      uint
	bookings map[uint]*models.Booking
}

func newStubRepo() *stubRepo {
	return &stubRepo{bookings: make(map[uint]*models.Booking)}
}

func (r *stubRepo) Create(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	b.ID = r.seq
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *stubRepo) Update(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *stubRepo) GetByID(_ context.Context, id uint) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, database.ErrNotFound
}

func (r *stubRepo) GetByReference(_ context.Context, ref string) (*models.Booking, error) {
	return r.find(func(b *models.Booking) bool { return b.Reference == ref })
}

func (r *stubRepo) GetByToken(_ context.Context, token string) (*models.Booking, error) {
	return r.find(func(b *models.Booking) bool { return b.ConfirmationToken == token })
}

func (r *stubRepo) find(match func(*models.Booking) bool) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if match(b) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *stubRepo) List(_ context.Context, filter database.BookingFilter) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if filter.Email != "" && b.Email != filter.Email {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *stubRepo) ReferenceExists(_ context.Context, ref string) (bool, error) {
	_, err := r.GetByReference(context.Background(), ref)
	return err == nil, nil
}

func (r *stubRepo) TokenExists(_ context.Context, token string) (bool, error) {
	_, err := r.GetByToken(context.Background(), token)
	return err == nil, nil
}

func (r *stubRepo) ClaimReceiptSend(_ context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.ReceiptSent {
		return false, nil
	}
	b.ReceiptSent = true
	return true, nil
}

func (r *stubRepo) MarkVerified(_ context.Context, ids []uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if b, ok := r.bookings[id]; ok {
			b.PaymentVerified = true
			n++
		}
	}
	return n, nil
}

func newTestRouter() (*gin.Engine, *stubRepo) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Mail:    config.MailConfig{AdminEmail: "admin@lashify.test", FromEmail: "noreply@lashify.test"},
		Site:    config.SiteConfig{Name: "Lashify Artistry", BaseURL: "http://test.local"},
		Booking: config.BookingConfig{DefaultFee: 5000, CurrencySymbol: "₦"},
	}
	repo := newStubRepo()
	notifier := services.NewNotifier(stubMailer{}, cfg)
	svc := services.NewBookingService(repo, notifier, services.UnconfiguredStorage{}, nil, cfg)

	router := gin.New()
	RegisterBookingRoutes(router, svc)
	return router, repo
}

func postBookingForm(t *testing.T, router *gin.Engine, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/create-booking", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validForm() map[string]string {
	return map[string]string{
		"name":           "Jane Doe",
		"email":          "jane@x.com",
		"service":        "manicure",
		"date":           time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		"fee":            "5000",
		"payment_method": "manual",
	}
}

func TestCreateBookingHandler(t *testing.T) {
	router, repo := newTestRouter()

	w := postBookingForm(t, router, validForm())
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success   bool   `json:"success"`
		Reference string `json:"reference"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if !resp.Success || len(resp.Reference) != 16 {
		t.Errorf("response = %+v, want success with 16-char reference", resp)
	}

	if _, err := repo.GetByReference(context.Background(), resp.Reference); err != nil {
		t.Errorf("created booking not found by reference: %v", err)
	}
}

func TestCreateBookingHandlerValidation(t *testing.T) {
	router, repo := newTestRouter()

	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{"malformed fee", func(f map[string]string) { f["fee"] = "abc" }},
		{"unknown service", func(f map[string]string) { f["service"] = "haircut" }},
		{"missing name", func(f map[string]string) { f["name"] = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(form)
			w := postBookingForm(t, router, form)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body: %s", w.Code, w.Body.String())
			}
		})
	}

	if n, _ := repo.List(context.Background(), database.BookingFilter{}); len(n) != 0 {
		t.Errorf("rejected submissions left %d rows behind", len(n))
	}
}

func TestBookingSuccessHandler(t *testing.T) {
	router, _ := newTestRouter()

	w := postBookingForm(t, router, validForm())
	var created struct {
		Reference string `json:"reference"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/booking-success/"+created.Reference, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/booking-success/NOSUCHREFERENCE1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown reference status = %d, want 404", w.Code)
	}
}

func TestMyBookingsHandlerFiltersByEmail(t *testing.T) {
	router, _ := newTestRouter()

	postBookingForm(t, router, validForm())
	other := validForm()
	other["email"] = "someone@else.com"
	postBookingForm(t, router, other)

	req := httptest.NewRequest(http.MethodGet, "/my-bookings?email=jane@x.com", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Bookings []models.BookingResponse `json:"bookings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Bookings) != 1 || resp.Bookings[0].Email != "jane@x.com" {
		t.Errorf("bookings = %+v, want only jane@x.com", resp.Bookings)
	}
}

func TestConfirmHandlerUnknownToken(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/confirm/no-such-token", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
