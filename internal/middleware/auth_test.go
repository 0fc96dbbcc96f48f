package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/linkup/backend/internal/session"
	"github.com/labstack/echo/v4"
)

func newAuthServer(v TokenVerifier) *echo.Echo {
	e := echo.New()
	whoami := func(c echo.Context) error {
		return c.String(http.StatusOK, session.FromContext(c).UserID)
	}
	e.GET("/private", whoami, RequireAuth(v))
	e.GET("/public", whoami, OptionalAuth(v))
	return e
}

func TestAuthMiddleware(t *testing.T) {
	verifier := NewJWTVerifier("test-secret")
	token, err := verifier.Sign(session.Principal{UserID: "alice", DisplayName: "Alice"}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	expired, err := verifier.Sign(session.Principal{UserID: "alice"}, -time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	forged, err := NewJWTVerifier("other-secret").Sign(session.Principal{UserID: "mallory"}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	e := newAuthServer(verifier)

	tests := []struct {
		name     string
		path     string
		header   string
		wantCode int
		wantBody string
	}{
		{"private without token", "/private", "", http.StatusUnauthorized, ""},
		{"private with token", "/private", "Bearer " + token, http.StatusOK, "alice"},
		{"private with expired token", "/private", "Bearer " + expired, http.StatusUnauthorized, ""},
		{"private with forged token", "/private", "Bearer " + forged, http.StatusUnauthorized, ""},
		{"private with malformed header", "/private", "Token " + token, http.StatusUnauthorized, ""},
		{"private with query token", "/private?token=" + token, "", http.StatusOK, "alice"},
		{"public anonymous", "/public", "", http.StatusOK, ""},
		{"public with token", "/public", "Bearer " + token, http.StatusOK, "alice"},
		{"public with bad token", "/public", "Bearer nope", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d (%s)", tt.wantCode, rec.Code, rec.Body.String())
			}
			if tt.wantCode == http.StatusOK && rec.Body.String() != tt.wantBody {
				t.Fatalf("expected principal %q, got %q", tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestJWTVerifierCarriesClaims(t *testing.T) {
	verifier := NewJWTVerifier("test-secret")
	token, err := verifier.Sign(session.Principal{UserID: "u1", DisplayName: "Sam", Email: "sam@example.com"}, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	p, err := verifier.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if p.UserID != "u1" || p.DisplayName != "Sam" || p.Email != "sam@example.com" {
		t.Fatalf("unexpected principal %+v", p)
	}
}
