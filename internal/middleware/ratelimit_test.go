package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/linkup/backend/internal/session"
	"github.com/labstack/echo/v4"
)

func TestLimiterStore_AllowAndCleanup(t *testing.T) {
	// allow 5 events immediately then the 6th should be rejected
	s := NewLimiterStore(5, 5, time.Hour)
	defer s.Stop()

	key := "user:alice"
	for i := 0; i < 5; i++ {
		if !s.Allow(key) {
			t.Fatalf("expected allow at iteration %d", i)
		}
	}
	if s.Allow(key) {
		t.Fatalf("expected limiter to block after burst consumed")
	}
	if !s.Allow("user:bob") {
		t.Fatalf("keys must be limited independently")
	}

	s.evictIdle(time.Now().Add(time.Minute))
	s.mu.Lock()
	remaining := len(s.clients)
	s.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected idle entries to be evicted, %d left", remaining)
	}
	if !s.Allow(key) {
		t.Fatalf("evicted key must start with a fresh burst")
	}
}

func TestRateLimitMiddlewareKeysByPrincipal(t *testing.T) {
	store := NewLimiterStore(1, 1, time.Hour)
	defer store.Stop()

	e := echo.New()
	handler := RateLimit(store)(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	call := func(p session.Principal) int {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
		session.Set(c, p)
		if err := handler(c); err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				return he.Code
			}
			t.Fatalf("unexpected error %v", err)
		}
		return rec.Code
	}

	alice := session.Principal{UserID: "alice"}
	if code := call(alice); code != http.StatusNoContent {
		t.Fatalf("first call: expected 204, got %d", code)
	}
	if code := call(alice); code != http.StatusTooManyRequests {
		t.Fatalf("second call: expected 429, got %d", code)
	}
	if code := call(session.Principal{UserID: "bob"}); code != http.StatusNoContent {
		t.Fatalf("other user: expected 204, got %d", code)
	}
}
