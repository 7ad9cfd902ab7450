package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"dnstool/propagation/internal/middleware"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(middleware.SecurityHeaders())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	checks := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for header, want := range checks {
		if got := w.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
}

func TestRecovery_ReturnsJSONError(t *testing.T) {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":false`) {
		t.Errorf("expected ok:false body, got %s", w.Body.String())
	}
}

func TestRateLimiter_WindowLimit(t *testing.T) {
	limiter := middleware.NewInMemoryRateLimiter()

	for i := 0; i < middleware.RateLimitMaxRequests; i++ {
		domain := fmt.Sprintf("domain%d.example.com", i)
		if result := limiter.CheckAndRecord("198.51.100.1", domain); !result.Allowed {
			t.Fatalf("request %d should be allowed: %+v", i, result)
		}
	}

	result := limiter.CheckAndRecord("198.51.100.1", "another.example.com")
	if result.Allowed {
		t.Fatal("request past the limit should be denied")
	}
	if result.Reason != "rate_limit" || result.WaitSeconds < 1 {
		t.Errorf("unexpected denial: %+v", result)
	}

	if other := limiter.CheckAndRecord("198.51.100.2", "fresh.example.com"); !other.Allowed {
		t.Errorf("other IPs should be unaffected: %+v", other)
	}
}

func TestRateLimiter_AntiRepeat(t *testing.T) {
	limiter := middleware.NewInMemoryRateLimiter()

	if result := limiter.CheckAndRecord("198.51.100.3", "example.com"); !result.Allowed {
		t.Fatalf("first check should be allowed: %+v", result)
	}

	result := limiter.CheckAndRecord("198.51.100.3", "EXAMPLE.com")
	if result.Allowed {
		t.Fatal("immediate re-check of the same domain should be denied")
	}
	if result.Reason != "anti_repeat" {
		t.Errorf("expected anti_repeat, got %q", result.Reason)
	}

	if other := limiter.CheckAndRecord("198.51.100.3", "other.example.com"); !other.Allowed {
		t.Errorf("different domain should be allowed: %+v", other)
	}
}

func TestCheckRateLimit_OnlyGuardsPost(t *testing.T) {
	limiter := middleware.NewInMemoryRateLimiter()

	router := gin.New()
	router.GET("/check", middleware.CheckRateLimit(limiter), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/check", middleware.CheckRateLimit(limiter), func(c *gin.Context) { c.Status(http.StatusOK) })

	postCheck := func() *httptest.ResponseRecorder {
		form := url.Values{}
		form.Set("domain", "example.com")
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/check", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		router.ServeHTTP(w, req)
		return w
	}

	if w := postCheck(); w.Code != http.StatusOK {
		t.Fatalf("first POST should pass, got %d", w.Code)
	}
	if w := postCheck(); w.Code != http.StatusTooManyRequests {
		t.Fatalf("repeat POST should hit anti-repeat, got %d", w.Code)
	}

	// GETs are never limited.
	for i := 0; i < middleware.RateLimitMaxRequests+2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/check?domain=example.com", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("GET %d should pass, got %d", i, w.Code)
		}
	}
}
