package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/internal/session"
)

const (
	anonymousName        = "Anonymous"
	maxDescriptionLength = 500
)

// CreateEventPostInput carries the fields an owner fills in for a new post
type CreateEventPostInput struct {
	PlaceName       string
	MeetupTime      time.Time
	MaxParticipants int
	Description     string
}

// UpdateEventPostInput carries the fields an owner may change; nil leaves a field as is
type UpdateEventPostInput struct {
	MeetupTime      *time.Time
	MaxParticipants *int
	Description     *string
}

// MyEvents splits the caller's owned and joined events around the current time
type MyEvents struct {
	Upcoming []models.EventPost `json:"upcoming"`
	Past     []models.EventPost `json:"past"`
}

// EventPostService manages the lifecycle of event posts
type EventPostService struct {
	posts    repositories.EventPostRepository
	requests repositories.LinkUpRequestRepository
	profiles repositories.UserProfileRepository
	now      func() time.Time
}

// NewEventPostService creates a new EventPostService
func NewEventPostService(store *repositories.Store) *EventPostService {
	return &EventPostService{
		posts:    store.Posts,
		requests: store.Requests,
		profiles: store.Profiles,
		now:      time.Now,
	}
}

// Create validates and stores a new post. The owner's display name and
// interests are copied onto the post and are not kept in sync afterwards.
func (s *EventPostService) Create(ctx context.Context, p session.Principal, in CreateEventPostInput) (*models.EventPost, error) {
	if p.IsAnonymous() {
		return nil, ErrUnauthenticated
	}

	profile, err := s.profiles.GetProfile(ctx, p.UserID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	verr := &ValidationError{}
	place := strings.TrimSpace(in.PlaceName)
	if place == "" {
		verr.add("please select a place")
	}
	if in.MeetupTime.IsZero() {
		verr.add("please choose a meetup date and time")
	} else if !in.MeetupTime.After(s.now()) {
		verr.add("meetup time must be in the future")
	}
	if profile == nil || len(profile.InterestTags) == 0 {
		verr.add("please add interests in your profile before creating a post")
	}
	if in.MaxParticipants < models.UnlimitedParticipants {
		verr.add("max participants must be -1 (unlimited) or at least 1")
	}
	if descriptionTooLong(in.Description) {
		verr.add("description must be at most 500 characters")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	maxParticipants := in.MaxParticipants
	if maxParticipants == 0 {
		maxParticipants = models.DefaultMaxParticipants
	}
	tags := make([]string, len(profile.InterestTags))
	copy(tags, profile.InterestTags)

	post := &models.EventPost{
		OwnerUserID:      p.UserID,
		OwnerDisplayName: displayNameFor(profile, p),
		LocationKey:      place,
		PlaceName:        place,
		MeetupTime:       in.MeetupTime,
		MaxParticipants:  maxParticipants,
		InterestTags:     tags,
		Description:      strings.TrimSpace(in.Description),
	}
	if err := s.posts.CreateEventPost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create event post: %w", err)
	}
	return post, nil
}

// descriptionTooLong counts characters of the trimmed description, not bytes
func descriptionTooLong(description string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(description)) > maxDescriptionLength
}

// displayNameFor picks the profile name, then the token name, then the
// email's local part, falling back to Anonymous.
func displayNameFor(profile *models.UserProfile, p session.Principal) string {
	if profile != nil && strings.TrimSpace(profile.DisplayName) != "" {
		return profile.DisplayName
	}
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if local, _, ok := strings.Cut(p.Email, "@"); ok && local != "" {
		return local
	}
	return anonymousName
}

// Get returns a single post
func (s *EventPostService) Get(ctx context.Context, id string) (*models.EventPost, error) {
	post, err := s.posts.GetEventPostByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load event post: %w", err)
	}
	return post, nil
}

// ListByLocation returns the posts at a location, newest first
func (s *EventPostService) ListByLocation(ctx context.Context, location string) ([]models.EventPost, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrLocationRequired
	}
	posts, err := s.posts.ListByLocation(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// Update changes the editable fields of a post owned by the caller
func (s *EventPostService) Update(ctx context.Context, p session.Principal, id string, in UpdateEventPostInput) (*models.EventPost, error) {
	post, err := s.ownedPost(ctx, p, id)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	if in.MeetupTime != nil {
		if !in.MeetupTime.After(s.now()) {
			verr.add("meetup time must be in the future")
		}
		post.MeetupTime = *in.MeetupTime
	}
	if in.MaxParticipants != nil {
		switch capacity := *in.MaxParticipants; {
		case capacity == 0 || capacity < models.UnlimitedParticipants:
			verr.add("max participants must be -1 (unlimited) or at least 1")
		case capacity != models.UnlimitedParticipants && capacity < post.CurrentInterestedCount:
			verr.add(fmt.Sprintf("max participants cannot be lower than the %d already accepted", post.CurrentInterestedCount))
		}
		post.MaxParticipants = *in.MaxParticipants
	}
	if in.Description != nil {
		if descriptionTooLong(*in.Description) {
			verr.add("description must be at most 500 characters")
		}
		post.Description = strings.TrimSpace(*in.Description)
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	if err := s.posts.UpdateEventPost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update event post: %w", err)
	}
	return post, nil
}

// Delete removes a post owned by the caller
func (s *EventPostService) Delete(ctx context.Context, p session.Principal, id string) error {
	if _, err := s.ownedPost(ctx, p, id); err != nil {
		return err
	}
	if err := s.posts.DeleteEventPost(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event post: %w", err)
	}
	return nil
}

func (s *EventPostService) ownedPost(ctx context.Context, p session.Principal, id string) (*models.EventPost, error) {
	if p.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	post, err := s.posts.GetEventPostByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load event post: %w", err)
	}
	if post.OwnerUserID != p.UserID {
		return nil, ErrForbidden
	}
	return post, nil
}

// MyEvents returns the posts the caller owns or was accepted into, split
// into upcoming (soonest first) and past (most recent first).
func (s *EventPostService) MyEvents(ctx context.Context, p session.Principal) (MyEvents, error) {
	if p.IsAnonymous() {
		return MyEvents{}, ErrUnauthenticated
	}
	owned, err := s.posts.ListByOwner(ctx, p.UserID)
	if err != nil {
		return MyEvents{}, fmt.Errorf("failed to list owned posts: %w", err)
	}
	accepted, err := s.requests.ListByRequester(ctx, p.UserID, models.LinkUpStatusAccepted)
	if err != nil {
		return MyEvents{}, fmt.Errorf("failed to list accepted requests: %w", err)
	}
	joinedIDs := make([]string, 0, len(accepted))
	for _, r := range accepted {
		joinedIDs = append(joinedIDs, r.EventPostID)
	}
	joined, err := s.posts.ListByIDs(ctx, uniqueStrings(joinedIDs))
	if err != nil {
		return MyEvents{}, fmt.Errorf("failed to list joined posts: %w", err)
	}

	now := s.now()
	seen := make(map[string]struct{}, len(owned)+len(joined))
	events := MyEvents{Upcoming: []models.EventPost{}, Past: []models.EventPost{}}
	for _, post := range append(owned, joined...) {
		if _, ok := seen[post.ID]; ok {
			continue
		}
		seen[post.ID] = struct{}{}
		if post.MeetupTime.After(now) {
			events.Upcoming = append(events.Upcoming, post)
		} else {
			events.Past = append(events.Past, post)
		}
	}
	sort.SliceStable(events.Upcoming, func(i, j int) bool {
		return events.Upcoming[i].MeetupTime.Before(events.Upcoming[j].MeetupTime)
	})
	sort.SliceStable(events.Past, func(i, j int) bool {
		return events.Past[i].MeetupTime.After(events.Past[j].MeetupTime)
	})
	return events, nil
}
