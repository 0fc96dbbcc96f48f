package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
)

// waitForState reads states until one satisfies match or the timeout expires
func waitForState(t *testing.T, sub *Subscription, match func(FeedState) bool) FeedState {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case state, ok := <-sub.States():
			if !ok {
				t.Fatal("state channel closed before the expected state arrived")
			}
			if match(state) {
				return state
			}
		case <-timeout:
			t.Fatal("timed out waiting for feed state")
		}
	}
}

func withStatus(status FeedStatus) func(FeedState) bool {
	return func(s FeedState) bool { return s.Status == status }
}

func TestSubscribeDeliversNewestFirst(t *testing.T) {
	_, store := newMemoryStore()
	svc := NewFeedService(store.Posts)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	older := seedPost(t, store, models.EventPost{LocationKey: "Negril", PlaceName: "Negril", CreatedAt: base})
	newer := seedPost(t, store, models.EventPost{LocationKey: "Negril", PlaceName: "Negril", CreatedAt: base.Add(time.Minute)})
	seedPost(t, store, models.EventPost{LocationKey: "Ocho Rios", PlaceName: "Ocho Rios", CreatedAt: base.Add(2 * time.Minute)})

	sub, err := svc.Subscribe(context.Background(), "Negril")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	state := waitForState(t, sub, withStatus(FeedReady))
	if len(state.Posts) != 2 || state.Posts[0].ID != newer.ID || state.Posts[1].ID != older.ID {
		t.Fatalf("expected newest first for Negril only, got %+v", state.Posts)
	}

	latest := seedPost(t, store, models.EventPost{LocationKey: "Negril", PlaceName: "Negril", CreatedAt: base.Add(time.Hour)})
	state = waitForState(t, sub, func(s FeedState) bool { return s.Status == FeedReady && len(s.Posts) == 3 })
	if state.Posts[0].ID != latest.ID {
		t.Fatalf("expected new post at the top, got %s", state.Posts[0].ID)
	}
}

func TestSubscribeStartsLoadingThenEmpty(t *testing.T) {
	_, store := newMemoryStore()
	svc := NewFeedService(store.Posts)

	sub, err := svc.Subscribe(context.Background(), "Port Antonio")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	first := <-sub.States()
	if first.Status != FeedLoading && first.Status != FeedEmpty {
		t.Fatalf("expected loading or empty first, got %s", first.Status)
	}
	state := first
	if first.Status == FeedLoading {
		state = waitForState(t, sub, withStatus(FeedEmpty))
	}
	if state.Posts == nil || len(state.Posts) != 0 {
		t.Fatalf("empty state must carry an empty list, got %+v", state.Posts)
	}
}

func TestSubscribeRequiresLocation(t *testing.T) {
	_, store := newMemoryStore()
	svc := NewFeedService(store.Posts)
	if _, err := svc.Subscribe(context.Background(), "  "); !errors.Is(err, ErrLocationRequired) {
		t.Fatalf("expected ErrLocationRequired, got %v", err)
	}
}

func TestFeedSwitchKeepsOneSubscription(t *testing.T) {
	_, store := newMemoryStore()
	svc := NewFeedService(store.Posts)
	feed := svc.NewFeed()
	defer feed.Close()

	first, err := feed.Switch(context.Background(), "Negril")
	if err != nil {
		t.Fatalf("switch: %v", err)
	}
	second, err := feed.Switch(context.Background(), "Kingston")
	if err != nil {
		t.Fatalf("switch: %v", err)
	}

	select {
	case <-first.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("previous subscription was not cancelled")
	}
	for range first.States() {
	}
	if feed.Current() != second || second.Location() != "Kingston" {
		t.Fatal("feed must hold only the latest subscription")
	}

	feed.Close()
	if feed.Current() != nil {
		t.Fatal("closed feed must not hold a subscription")
	}
	select {
	case <-second.Done():
	default:
		t.Fatal("close must cancel the active subscription")
	}
	second.Close()
}

// failingPosts reports an error as the only snapshot of every watch
type failingPosts struct {
	repositories.EventPostRepository
	err error
}

func (f failingPosts) WatchLocation(ctx context.Context, location string) (<-chan repositories.Snapshot, error) {
	ch := make(chan repositories.Snapshot, 1)
	ch <- repositories.Snapshot{Err: f.err}
	close(ch)
	return ch, nil
}

func TestSubscribeErrorIsTerminal(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"index building", repositories.ErrIndexRequired, SettingUpMessage},
		{"store failure", errors.New("unavailable"), "Something went wrong loading posts, please try again"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFeedService(failingPosts{err: tt.err})
			sub, err := svc.Subscribe(context.Background(), "Negril")
			if err != nil {
				t.Fatalf("subscribe: %v", err)
			}
			defer sub.Close()

			state := waitForState(t, sub, withStatus(FeedError))
			if !errors.Is(state.Err, tt.err) || state.Message != tt.message {
				t.Fatalf("unexpected error state %+v", state)
			}
			select {
			case _, ok := <-sub.States():
				if ok {
					t.Fatal("no state may follow an error")
				}
			case <-time.After(2 * time.Second):
				t.Fatal("state channel not closed after error")
			}
		})
	}
}

func TestUserMessageHidesStoreDetails(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"location required", fmt.Errorf("switch: %w", ErrLocationRequired), ErrLocationRequired.Error()},
		{"index building", fmt.Errorf("watch: %w", ErrIndexRequired), SettingUpMessage},
		{"store failure", errors.New("rpc error: code = Unavailable desc = 10.0.0.7:443"), "Something went wrong loading posts, please try again"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Fatalf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
