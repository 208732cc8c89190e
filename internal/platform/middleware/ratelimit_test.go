package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestTokenBucket_Exhaustion(t *testing.T) {
	bucket := newTokenBucket(0, 3)
	for i := 0; i < 3; i++ {
		if !bucket.allow() {
			t.Fatalf("expected request %d to be allowed", i)
		}
	}
	if bucket.allow() {
		t.Error("expected bucket to be exhausted")
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 2})

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	var lastErr error
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		lastErr = mw(handler)(c)
	}

	if lastErr == nil {
		t.Fatal("expected third request to be rate limited")
	}
	httpErr, ok := lastErr.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %v", lastErr)
	}
}

func TestRateLimit_TenantScopedKey(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	do := func(tenant string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("tenant_id", tenant)
		return mw(handler)(c)
	}

	if err := do("tenant_burns"); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if err := do("tenant_burns"); err == nil {
		t.Fatal("expected tenant_burns bucket to be exhausted")
	}
	// Another tenant from the same terminal gets its own bucket.
	if err := do("tenant_plastics"); err != nil {
		t.Errorf("tenant_plastics should not share tenant_burns's bucket: %v", err)
	}
}

func TestDefaultRateLimitConfig(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	if cfg.RequestsPerSecond != 50 || cfg.BurstSize != 100 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestRateLimiterStore_PerKey(t *testing.T) {
	store := newRateLimiterStore(RateLimitConfig{RequestsPerSecond: 0, BurstSize: 1})

	if !store.getBucket("a").allow() {
		t.Fatal("expected first request for key a")
	}
	if store.getBucket("a").allow() {
		t.Error("expected key a to be exhausted")
	}
	if !store.getBucket("b").allow() {
		t.Error("expected key b to have its own bucket")
	}
}
