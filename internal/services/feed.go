package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
)

// FeedStatus describes what a feed subscriber should render
type FeedStatus string

const (
	FeedLoading FeedStatus = "loading"
	FeedReady   FeedStatus = "ready"
	FeedEmpty   FeedStatus = "empty"
	FeedError   FeedStatus = "error"
)

// FeedState is one full rendering of a location feed
type FeedState struct {
	Status   FeedStatus         `json:"status"`
	Location string             `json:"location"`
	Posts    []models.EventPost `json:"posts"`
	Message  string             `json:"message,omitempty"`
	Err      error              `json:"-"`
}

// FeedService opens live location feeds
type FeedService struct {
	posts repositories.EventPostRepository
}

// NewFeedService creates a new FeedService
func NewFeedService(posts repositories.EventPostRepository) *FeedService {
	return &FeedService{posts: posts}
}

// Subscription is a cancellable live query over the posts of one location.
// States delivers loading first, then ready or empty after every change.
// An error state is the last one delivered; the channel is closed afterwards
// and no retry is attempted.
type Subscription struct {
	location string
	states   chan FeedState
	cancel   context.CancelFunc
	done     chan struct{}
	once     sync.Once
}

// Subscribe opens a live feed for location
func (s *FeedService) Subscribe(ctx context.Context, location string) (*Subscription, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrLocationRequired
	}

	ctx, cancel := context.WithCancel(ctx)
	snapshots, err := s.posts.WatchLocation(ctx, location)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to watch location %q: %w", location, err)
	}

	sub := &Subscription{
		location: location,
		states:   make(chan FeedState, 1),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	sub.states <- FeedState{Status: FeedLoading, Location: location, Posts: []models.EventPost{}}
	go sub.run(ctx, snapshots)
	return sub, nil
}

// Location returns the location the subscription watches
func (sub *Subscription) Location() string {
	return sub.location
}

// States returns the stream of feed states
func (sub *Subscription) States() <-chan FeedState {
	return sub.states
}

// Close cancels the live query and waits until no more states are produced.
// It is safe to call more than once.
func (sub *Subscription) Close() {
	sub.once.Do(sub.cancel)
	<-sub.done
}

// Done is closed once the subscription has stopped
func (sub *Subscription) Done() <-chan struct{} {
	return sub.done
}

func (sub *Subscription) run(ctx context.Context, snapshots <-chan repositories.Snapshot) {
	defer close(sub.done)
	defer close(sub.states)

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			state := stateFromSnapshot(sub.location, snap)
			sub.publish(state)
			if state.Status == FeedError {
				return
			}
		}
	}
}

// publish keeps only the newest undelivered state
func (sub *Subscription) publish(state FeedState) {
	select {
	case sub.states <- state:
		return
	default:
	}
	select {
	case <-sub.states:
	default:
	}
	sub.states <- state
}

func stateFromSnapshot(location string, snap repositories.Snapshot) FeedState {
	if snap.Err != nil {
		return FeedState{
			Status:   FeedError,
			Location: location,
			Posts:    []models.EventPost{},
			Message:  UserMessage(snap.Err),
			Err:      snap.Err,
		}
	}
	if len(snap.Posts) == 0 {
		return FeedState{Status: FeedEmpty, Location: location, Posts: []models.EventPost{}}
	}
	return FeedState{Status: FeedReady, Location: location, Posts: snap.Posts}
}

// UserMessage turns a feed error into the text shown to users. Store details
// never reach the client.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrLocationRequired):
		return ErrLocationRequired.Error()
	case errors.Is(err, ErrIndexRequired):
		return SettingUpMessage
	}
	return "Something went wrong loading posts, please try again"
}

// Feed holds at most one active subscription, as a single client view does
type Feed struct {
	service *FeedService
	mu      sync.Mutex
	current *Subscription
}

// NewFeed creates a Feed without an active subscription
func (s *FeedService) NewFeed() *Feed {
	return &Feed{service: s}
}

// Switch closes the active subscription, if any, and opens one for location
func (f *Feed) Switch(ctx context.Context, location string) (*Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.current != nil {
		f.current.Close()
		f.current = nil
	}
	sub, err := f.service.Subscribe(ctx, location)
	if err != nil {
		return nil, err
	}
	f.current = sub
	return sub, nil
}

// Current returns the active subscription or nil
func (f *Feed) Current() *Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Close tears down the active subscription
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.current != nil {
		f.current.Close()
		f.current = nil
	}
}
