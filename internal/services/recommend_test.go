package services

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/session"
)

func TestRankByInterests(t *testing.T) {
	posts := []models.EventPost{
		{ID: "a", InterestTags: []string{"Music"}},
		{ID: "b", InterestTags: []string{"Hiking"}},
		{ID: "c", InterestTags: []string{"Music", "Food"}},
		{ID: "d", InterestTags: []string{"Food"}},
		{ID: "e", InterestTags: nil},
	}

	ranked := RankByInterests(posts, []string{"Music", "Food"})

	want := []string{"c", "a", "d"}
	if len(ranked) != len(want) {
		t.Fatalf("expected %d posts, got %d", len(want), len(ranked))
	}
	for i, id := range want {
		if ranked[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, ranked[i].ID)
		}
	}
}

func TestRankByInterestsMatchesExactly(t *testing.T) {
	ranked := RankByInterests([]models.EventPost{{ID: "a", InterestTags: []string{"music"}}}, []string{"Music"})
	if len(ranked) != 0 {
		t.Fatalf("tags are compared exactly, got %+v", ranked)
	}
}

func TestRecommendForAnonymousViewer(t *testing.T) {
	ctx := context.Background()
	_, store := newMemoryStore()
	svc := NewRecommendationService(store)
	now := time.Now()
	svc.now = func() time.Time { return now }

	sports := seedPost(t, store, models.EventPost{MeetupTime: now.Add(2 * time.Hour), InterestTags: []string{"Sports"}})
	knitting := seedPost(t, store, models.EventPost{MeetupTime: now.Add(time.Hour), InterestTags: []string{"Knitting"}})
	musicFood := seedPost(t, store, models.EventPost{MeetupTime: now.Add(3 * time.Hour), InterestTags: []string{"Music", "Food"}})
	gaming := seedPost(t, store, models.EventPost{MeetupTime: now.Add(4 * time.Hour), InterestTags: []string{"Gaming"}})
	seedPost(t, store, models.EventPost{MeetupTime: now.Add(-time.Hour), InterestTags: []string{"Sports", "Music", "Food"}})

	recs, err := svc.Recommend(ctx, session.Anonymous)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if recs.Personalized {
		t.Fatal("anonymous viewer must get the popular list")
	}

	want := []string{musicFood.ID, sports.ID, gaming.ID}
	if len(recs.Posts) != len(want) {
		t.Fatalf("expected %d posts, got %+v", len(want), recs.Posts)
	}
	for i, id := range want {
		if recs.Posts[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, recs.Posts[i].ID)
		}
	}
	for _, p := range recs.Posts {
		if p.ID == knitting.ID {
			t.Fatal("zero-overlap post must be excluded")
		}
	}
}

func TestRecommendUsesProfileInterests(t *testing.T) {
	ctx := context.Background()
	_, store := newMemoryStore()
	svc := NewRecommendationService(store)

	seedProfile(t, store, models.UserProfile{UserID: alice.UserID, InterestTags: []string{"Knitting"}})
	knitting := seedPost(t, store, models.EventPost{InterestTags: []string{"Knitting"}})
	seedPost(t, store, models.EventPost{InterestTags: []string{"Sports"}})

	recs, err := svc.Recommend(ctx, alice)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if !recs.Personalized {
		t.Fatal("expected personalized ranking")
	}
	if len(recs.Posts) != 1 || recs.Posts[0].ID != knitting.ID {
		t.Fatalf("unexpected recommendations %+v", recs.Posts)
	}

	recs, err = svc.Recommend(ctx, bob)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if recs.Personalized || len(recs.Posts) != 1 || recs.Posts[0].InterestTags[0] != "Sports" {
		t.Fatalf("viewer without profile must fall back to popular interests, got %+v", recs)
	}
}
