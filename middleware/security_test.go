package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doRequest(router *gin.Engine, method, path, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doRequest(router, http.MethodGet, "/ping", "10.0.0.1:1111")

	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"X-XSS-Protection":       "1; mode=block",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for name, want := range headers {
		if got := w.Header().Get(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestRateLimitBookingSubmission(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware())
	router.POST("/create-booking", func(c *gin.Context) { c.Status(http.StatusCreated) })

	// The submission budget is a burst of 5 per IP.
	for i := 0; i < 5; i++ {
		if w := doRequest(router, http.MethodPost, "/create-booking", "10.1.0.1:2222"); w.Code != http.StatusCreated {
			t.Fatalf("request %d status = %d, want %d", i+1, w.Code, http.StatusCreated)
		}
	}
	if w := doRequest(router, http.MethodPost, "/create-booking", "10.1.0.1:2222"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("over-budget status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}

	// A different client IP has its own bucket.
	if w := doRequest(router, http.MethodPost, "/create-booking", "10.1.0.2:2222"); w.Code != http.StatusCreated {
		t.Errorf("fresh IP status = %d, want %d", w.Code, http.StatusCreated)
	}
}

func TestAuthRateLimit(t *testing.T) {
	router := gin.New()
	router.POST("/login", AuthRateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusUnauthorized)
	})

	// 5 attempts pass through, the 6th is throttled before the handler.
	for i := 0; i < 5; i++ {
		if w := doRequest(router, http.MethodPost, "/login", "10.2.0.1:3333"); w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d status = %d, want %d", i+1, w.Code, http.StatusUnauthorized)
		}
	}
	if w := doRequest(router, http.MethodPost, "/login", "10.2.0.1:3333"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("throttled status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter()
	rl.GetLimiter("stale", rate.Every(time.Second), 1)
	rl.GetLimiter("fresh", rate.Every(time.Second), 1)

	rl.mutex.Lock()
	rl.lastSeen["stale"] = time.Now().Add(-2 * time.Hour)
	rl.mutex.Unlock()

	rl.Cleanup()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	if _, ok := rl.limiters["stale"]; ok {
		t.Error("idle limiter survived cleanup")
	}
	if _, ok := rl.limiters["fresh"]; !ok {
		t.Error("active limiter removed by cleanup")
	}
}
