package services

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/internal/session"
)

var (
	owner = session.Principal{UserID: "owner-1", DisplayName: "Olive"}
	alice = session.Principal{UserID: "alice-1", DisplayName: "Alice"}
	bob   = session.Principal{UserID: "bob-1", DisplayName: "Bob"}
)

func newMemoryStore() (*repositories.MemoryStore, *repositories.Store) {
	mem := repositories.NewMemoryStore()
	return mem, mem.Store()
}

func seedPost(t *testing.T, store *repositories.Store, post models.EventPost) models.EventPost {
	t.Helper()
	if post.OwnerUserID == "" {
		post.OwnerUserID = owner.UserID
	}
	if post.LocationKey == "" {
		post.LocationKey = "Kingston"
		post.PlaceName = "Kingston"
	}
	if post.MeetupTime.IsZero() {
		post.MeetupTime = time.Now().Add(24 * time.Hour)
	}
	if err := store.Posts.CreateEventPost(context.Background(), &post); err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return post
}

func seedProfile(t *testing.T, store *repositories.Store, profile models.UserProfile) {
	t.Helper()
	if err := store.Profiles.UpsertProfile(context.Background(), &profile); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

func mustPost(t *testing.T, store *repositories.Store, id string) *models.EventPost {
	t.Helper()
	post, err := store.Posts.GetEventPostByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get post %s: %v", id, err)
	}
	return post
}
