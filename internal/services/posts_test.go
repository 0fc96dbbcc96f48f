package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/session"
)

func newPostService(t *testing.T) (*EventPostService, time.Time) {
	t.Helper()
	_, store := newMemoryStore()
	svc := NewEventPostService(store)
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, now
}

func TestCreateEventPostCopiesProfile(t *testing.T) {
	ctx := context.Background()
	svc, now := newPostService(t)
	if err := svc.profiles.UpsertProfile(ctx, &models.UserProfile{
		UserID:       owner.UserID,
		DisplayName:  "Olive",
		InterestTags: []string{"Music", "Food"},
	}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	post, err := svc.Create(ctx, owner, CreateEventPostInput{
		PlaceName:   "  Devon House ",
		MeetupTime:  now.Add(48 * time.Hour),
		Description: "Ice cream",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.ID == "" || post.OwnerDisplayName != "Olive" || post.LocationKey != "Devon House" {
		t.Fatalf("unexpected post %+v", post)
	}
	if post.MaxParticipants != models.DefaultMaxParticipants || post.CurrentInterestedCount != 0 {
		t.Fatalf("expected default capacity and zero count, got %+v", post)
	}
	if len(post.InterestTags) != 2 || post.InterestTags[0] != "Music" {
		t.Fatalf("expected profile interests on post, got %v", post.InterestTags)
	}

	if _, err := NewProfileService(svc.profiles).Upsert(ctx, owner, models.UpsertProfileRequest{InterestTags: []string{"Chess"}}); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	stored, err := svc.Get(ctx, post.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.InterestTags[0] != "Music" {
		t.Fatalf("post interests must not follow profile edits, got %v", stored.InterestTags)
	}
}

func TestCreateEventPostValidation(t *testing.T) {
	ctx := context.Background()
	svc, now := newPostService(t)

	_, err := svc.Create(ctx, alice, CreateEventPostInput{PlaceName: " ", MeetupTime: now.Add(-time.Minute)})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Problems) != 3 {
		t.Fatalf("expected place, time and interests problems, got %v", verr.Problems)
	}

	if _, err := svc.Create(ctx, session.Anonymous, CreateEventPostInput{}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	if err := svc.profiles.UpsertProfile(ctx, &models.UserProfile{UserID: alice.UserID, InterestTags: []string{"Food"}}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	_, err = svc.Create(ctx, alice, CreateEventPostInput{PlaceName: "Negril", MeetupTime: now.Add(time.Hour), MaxParticipants: -5})
	if !errors.As(err, &verr) || len(verr.Problems) != 1 {
		t.Fatalf("expected a single capacity problem, got %v", err)
	}
}

func TestCreateEventPostDisplayNameFallback(t *testing.T) {
	tests := []struct {
		name    string
		who     session.Principal
		profile string
		want    string
	}{
		{"profile name", session.Principal{UserID: "u1", DisplayName: "Token"}, "Profile", "Profile"},
		{"token name", session.Principal{UserID: "u2", DisplayName: "Token"}, "", "Token"},
		{"email local part", session.Principal{UserID: "u3", Email: "sam@example.com"}, "", "sam"},
		{"anonymous", session.Principal{UserID: "u4"}, "", anonymousName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, now := newPostService(t)
			if err := svc.profiles.UpsertProfile(ctx, &models.UserProfile{UserID: tt.who.UserID, DisplayName: tt.profile, InterestTags: []string{"Food"}}); err != nil {
				t.Fatalf("seed profile: %v", err)
			}
			post, err := svc.Create(ctx, tt.who, CreateEventPostInput{PlaceName: "Negril", MeetupTime: now.Add(time.Hour), MaxParticipants: models.UnlimitedParticipants})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if post.OwnerDisplayName != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, post.OwnerDisplayName)
			}
			if !post.IsUnlimited() {
				t.Fatalf("expected unlimited post, got %d", post.MaxParticipants)
			}
		})
	}
}

func TestUpdateAndDeleteAreOwnerOnly(t *testing.T) {
	ctx := context.Background()
	svc, now := newPostService(t)
	post := &models.EventPost{OwnerUserID: owner.UserID, LocationKey: "Negril", PlaceName: "Negril", MeetupTime: now.Add(time.Hour), MaxParticipants: 2}
	if err := svc.posts.CreateEventPost(ctx, post); err != nil {
		t.Fatalf("seed: %v", err)
	}

	desc := "Bring sunscreen"
	if _, err := svc.Update(ctx, alice, post.ID, UpdateEventPostInput{Description: &desc}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	zero := 0
	var verr *ValidationError
	if _, err := svc.Update(ctx, owner, post.ID, UpdateEventPostInput{MaxParticipants: &zero}); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for zero capacity, got %v", err)
	}

	updated, err := svc.Update(ctx, owner, post.ID, UpdateEventPostInput{Description: &desc})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != desc || updated.MaxParticipants != 2 {
		t.Fatalf("unexpected update result %+v", updated)
	}

	if err := svc.Delete(ctx, alice, post.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, owner, post.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, post.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDescriptionLimitCountsCharacters(t *testing.T) {
	ctx := context.Background()
	svc, now := newPostService(t)
	if err := svc.profiles.UpsertProfile(ctx, &models.UserProfile{UserID: owner.UserID, InterestTags: []string{"Food"}}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	accented := strings.Repeat("é", 500)
	post, err := svc.Create(ctx, owner, CreateEventPostInput{PlaceName: "Negril", MeetupTime: now.Add(time.Hour), Description: "  " + accented + "  "})
	if err != nil {
		t.Fatalf("500 two-byte characters must be accepted, got %v", err)
	}
	if post.Description != accented {
		t.Fatalf("expected the trimmed description to be stored")
	}

	tooLong := strings.Repeat("é", 501)
	var verr *ValidationError
	if _, err := svc.Create(ctx, owner, CreateEventPostInput{PlaceName: "Negril", MeetupTime: now.Add(time.Hour), Description: tooLong}); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for 501 characters, got %v", err)
	}

	edited := strings.Repeat("ü", 300)
	if _, err := svc.Update(ctx, owner, post.ID, UpdateEventPostInput{Description: &edited}); err != nil {
		t.Fatalf("300 two-byte characters must be accepted on update, got %v", err)
	}
	if _, err := svc.Update(ctx, owner, post.ID, UpdateEventPostInput{Description: &tooLong}); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for 501 characters on update, got %v", err)
	}
}

func TestUpdateCapacityCannotDropBelowAccepted(t *testing.T) {
	ctx := context.Background()
	svc, now := newPostService(t)
	post := &models.EventPost{OwnerUserID: owner.UserID, LocationKey: "Negril", PlaceName: "Negril",
		MeetupTime: now.Add(time.Hour), MaxParticipants: 3, CurrentInterestedCount: 2}
	if err := svc.posts.CreateEventPost(ctx, post); err != nil {
		t.Fatalf("seed: %v", err)
	}

	one := 1
	var verr *ValidationError
	if _, err := svc.Update(ctx, owner, post.ID, UpdateEventPostInput{MaxParticipants: &one}); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if stored, _ := svc.Get(ctx, post.ID); stored.MaxParticipants != 3 {
		t.Fatalf("rejected update must not be stored, got max %d", stored.MaxParticipants)
	}

	for _, capacity := range []int{2, models.UnlimitedParticipants} {
		capacity := capacity
		updated, err := svc.Update(ctx, owner, post.ID, UpdateEventPostInput{MaxParticipants: &capacity})
		if err != nil {
			t.Fatalf("capacity %d: %v", capacity, err)
		}
		if updated.MaxParticipants != capacity {
			t.Fatalf("expected max %d, got %d", capacity, updated.MaxParticipants)
		}
	}
}

func TestMyEventsSplitsOwnedAndJoined(t *testing.T) {
	ctx := context.Background()
	svc, now := newPostService(t)

	create := func(ownerID string, at time.Time) *models.EventPost {
		p := &models.EventPost{OwnerUserID: ownerID, LocationKey: "Negril", PlaceName: "Negril", MeetupTime: at, MaxParticipants: 2}
		if err := svc.posts.CreateEventPost(ctx, p); err != nil {
			t.Fatalf("seed: %v", err)
		}
		return p
	}
	ownedSoon := create(alice.UserID, now.Add(time.Hour))
	ownedPast := create(alice.UserID, now.Add(-time.Hour))
	joinedLater := create(owner.UserID, now.Add(3*time.Hour))
	pendingOnly := create(owner.UserID, now.Add(2*time.Hour))

	for _, r := range []struct {
		post   string
		status models.LinkUpStatus
	}{
		{joinedLater.ID, models.LinkUpStatusAccepted},
		{pendingOnly.ID, models.LinkUpStatusPending},
	} {
		req := &models.LinkUpRequest{FromUserID: alice.UserID, ToUserID: owner.UserID, EventPostID: r.post, Status: r.status}
		if err := svc.requests.CreateLinkUpRequest(ctx, req); err != nil {
			t.Fatalf("seed request: %v", err)
		}
	}

	events, err := svc.MyEvents(ctx, alice)
	if err != nil {
		t.Fatalf("my events: %v", err)
	}
	if len(events.Upcoming) != 2 || events.Upcoming[0].ID != ownedSoon.ID || events.Upcoming[1].ID != joinedLater.ID {
		t.Fatalf("unexpected upcoming %+v", events.Upcoming)
	}
	if len(events.Past) != 1 || events.Past[0].ID != ownedPast.ID {
		t.Fatalf("unexpected past %+v", events.Past)
	}
}
