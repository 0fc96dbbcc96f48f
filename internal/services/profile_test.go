package services

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/session"
)

func TestUpsertProfileAppliesDefaultsAndMerges(t *testing.T) {
	ctx := context.Background()
	_, store := newMemoryStore()
	svc := NewProfileService(store.Profiles)

	age := 29
	profile, err := svc.Upsert(ctx, alice, models.UpsertProfileRequest{
		ContactValue: "555-0100",
		InterestTags: []string{"Music", " Music ", "", "Food"},
		Age:          &age,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if profile.DisplayName != "Alice" || profile.ContactChannel != models.ContactChannelPhone || profile.Gender != models.GenderPreferNotToSay {
		t.Fatalf("expected defaults, got %+v", profile)
	}
	if len(profile.InterestTags) != 2 {
		t.Fatalf("expected cleaned tags, got %v", profile.InterestTags)
	}

	profile, err = svc.Upsert(ctx, alice, models.UpsertProfileRequest{Bio: "Beach person", ContactChannel: "instagram"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if profile.ContactValue != "555-0100" || profile.Age == nil || *profile.Age != 29 || len(profile.InterestTags) != 2 {
		t.Fatalf("merge dropped existing fields: %+v", profile)
	}
	if profile.Bio != "Beach person" || profile.ContactChannel != models.ContactChannelInstagram {
		t.Fatalf("merge did not apply new fields: %+v", profile)
	}

	own, err := svc.Get(ctx, alice)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if own.ContactValue != "555-0100" {
		t.Fatalf("own profile must include contact, got %+v", own)
	}

	public, err := svc.PublicProfile(ctx, alice.UserID)
	if err != nil {
		t.Fatalf("public: %v", err)
	}
	if public.ContactValue != "" || public.ContactChannel != "" || public.Bio != "Beach person" {
		t.Fatalf("public profile must strip contact only, got %+v", public)
	}
}

func TestProfileRequiresPrincipal(t *testing.T) {
	ctx := context.Background()
	_, store := newMemoryStore()
	svc := NewProfileService(store.Profiles)

	if _, err := svc.Get(ctx, session.Anonymous); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.Upsert(ctx, session.Anonymous, models.UpsertProfileRequest{}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.Get(ctx, alice); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first save, got %v", err)
	}
}
