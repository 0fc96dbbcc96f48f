package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/internal/session"
)

// ProfileService reads and upserts user profiles
type ProfileService struct {
	profiles repositories.UserProfileRepository
	now      func() time.Time
}

// NewProfileService creates a new ProfileService
func NewProfileService(profiles repositories.UserProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles, now: time.Now}
}

// Get returns the caller's own profile, contact details included
func (s *ProfileService) Get(ctx context.Context, p session.Principal) (*models.UserProfile, error) {
	if p.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	profile, err := s.profiles.GetProfile(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

// Upsert merges the non-empty input fields into the caller's profile,
// creating it on first save.
func (s *ProfileService) Upsert(ctx context.Context, p session.Principal, in models.UpsertProfileRequest) (*models.UserProfile, error) {
	if p.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	profile, err := s.profiles.GetProfile(ctx, p.UserID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		profile = &models.UserProfile{UserID: p.UserID}
	case err != nil:
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if v := strings.TrimSpace(in.DisplayName); v != "" {
		profile.DisplayName = v
	}
	if in.ContactChannel != "" {
		profile.ContactChannel = models.ContactChannel(in.ContactChannel)
	}
	if v := strings.TrimSpace(in.ContactValue); v != "" {
		profile.ContactValue = v
	}
	if in.InterestTags != nil {
		profile.InterestTags = cleanTags(in.InterestTags)
	}
	if in.PhotoURL != "" {
		profile.PhotoURL = in.PhotoURL
	}
	if in.Age != nil {
		age := *in.Age
		profile.Age = &age
	}
	if in.Location != "" {
		profile.Location = strings.TrimSpace(in.Location)
	}
	if in.Bio != "" {
		profile.Bio = strings.TrimSpace(in.Bio)
	}
	if in.Gender != "" {
		profile.Gender = in.Gender
	}
	if in.Occupation != "" {
		profile.Occupation = strings.TrimSpace(in.Occupation)
	}
	if in.Languages != nil {
		profile.Languages = cleanTags(in.Languages)
	}

	if profile.DisplayName == "" {
		profile.DisplayName = displayNameFor(nil, p)
	}
	if profile.ContactChannel == "" {
		profile.ContactChannel = models.ContactChannelPhone
	}
	if profile.Gender == "" {
		profile.Gender = models.GenderPreferNotToSay
	}
	profile.UpdatedAt = s.now()

	if err := s.profiles.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}

// PublicProfile returns another user's profile without contact details
func (s *ProfileService) PublicProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	public := profile.Public()
	return &public, nil
}

// cleanTags trims tags and drops empties and duplicates, keeping first-seen order
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
