package validators

import (
	"strings"
	"testing"

	"github.com/anonto42/linkup/backend/internal/models"
)

func TestValidateRatingRequest(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&models.CreateRatingRequest{ToUserID: "u1", Stars: 5}); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	err := v.Validate(&models.CreateRatingRequest{Stars: 9})
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "ToUserID is required") || !strings.Contains(msg, "Stars must be at most 5") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestValidateDecision(t *testing.T) {
	v := NewValidator()
	if err := v.Validate(&models.DecideLinkUpRequest{Status: "maybe"}); err == nil || !strings.Contains(err.Error(), "must be one of") {
		t.Fatalf("expected oneof failure, got %v", err)
	}
	if err := v.Validate(&models.DecideLinkUpRequest{Status: "accepted"}); err != nil {
		t.Fatalf("expected valid decision, got %v", err)
	}
}
