package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestFromContextDefaultsToAnonymous(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	p := FromContext(c)
	if !p.IsAnonymous() {
		t.Fatalf("expected anonymous principal, got %+v", p)
	}

	Set(c, Principal{UserID: "u1", DisplayName: "Ada"})
	p = FromContext(c)
	if p.UserID != "u1" || p.DisplayName != "Ada" {
		t.Fatalf("unexpected principal %+v", p)
	}
	if p.IsAnonymous() {
		t.Fatal("principal with a user id must not be anonymous")
	}
}
