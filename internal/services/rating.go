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

// SubmitRatingInput carries one participant's rating of another for an event
type SubmitRatingInput struct {
	EventPostID string
	ToUserID    string
	Stars       int
	Comment     string
	IsAnonymous bool
}

// RatingSummary is the derived view of a user's rating aggregates
type RatingSummary struct {
	UserID       string  `json:"user_id"`
	TotalRatings int64   `json:"total_ratings"`
	Average      float64 `json:"average"`
	HasRatings   bool    `json:"has_ratings"`
}

// RatingService records one rating per rater per event and keeps the rated
// user's running totals.
type RatingService struct {
	posts    repositories.EventPostRepository
	ratings  repositories.RatingRepository
	profiles repositories.UserProfileRepository
	now      func() time.Time
}

// NewRatingService creates a new RatingService
func NewRatingService(store *repositories.Store) *RatingService {
	return &RatingService{
		posts:    store.Posts,
		ratings:  store.Ratings,
		profiles: store.Profiles,
		now:      time.Now,
	}
}

// Submit stores a rating and folds it into the rated user's aggregates.
// The existence check, the rating write and the aggregate update are three
// separate steps; backends with create-if-absent writes close the duplicate window.
func (s *RatingService) Submit(ctx context.Context, p session.Principal, in SubmitRatingInput) (*models.Rating, error) {
	if p.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	if in.Stars < 1 || in.Stars > 5 {
		return nil, ErrInvalidStars
	}
	if in.ToUserID == p.UserID {
		return nil, ErrSelfRating
	}
	if _, err := s.posts.GetEventPostByID(ctx, in.EventPostID); err != nil {
		return nil, fmt.Errorf("failed to load event post: %w", err)
	}

	id := models.RatingID(in.EventPostID, p.UserID)
	if _, err := s.ratings.GetRating(ctx, id); err == nil {
		return nil, ErrAlreadyRated
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing rating: %w", err)
	}

	rating := &models.Rating{
		ID:           id,
		FromUserID:   p.UserID,
		FromUserName: s.raterName(ctx, p, in.IsAnonymous),
		ToUserID:     in.ToUserID,
		EventPostID:  in.EventPostID,
		Stars:        in.Stars,
		Comment:      strings.TrimSpace(in.Comment),
		IsAnonymous:  in.IsAnonymous,
		CreatedAt:    s.now(),
	}
	if err := s.ratings.CreateRating(ctx, rating); err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			return nil, ErrAlreadyRated
		}
		return nil, fmt.Errorf("failed to save rating: %w", err)
	}
	if err := s.ratings.IncrementRatingStats(ctx, in.ToUserID, in.Stars); err != nil {
		return rating, fmt.Errorf("rating saved but totals not updated: %w", err)
	}
	return rating, nil
}

func (s *RatingService) raterName(ctx context.Context, p session.Principal, anonymous bool) string {
	if anonymous {
		return models.AnonymousRaterName
	}
	if profile, err := s.profiles.GetProfile(ctx, p.UserID); err == nil && profile.DisplayName != "" {
		return profile.DisplayName
	}
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return anonymousName
}

// Stats returns a user's rating count and average
func (s *RatingService) Stats(ctx context.Context, userID string) (RatingSummary, error) {
	stats, err := s.ratings.GetRatingStats(ctx, userID)
	if err != nil {
		return RatingSummary{}, fmt.Errorf("failed to load rating stats: %w", err)
	}
	return RatingSummary{
		UserID:       userID,
		TotalRatings: stats.TotalRatings,
		Average:      stats.Average(),
		HasRatings:   stats.TotalRatings > 0,
	}, nil
}

// ListForUser returns the ratings a user received, newest first.
// Anonymous ratings never reveal who left them.
func (s *RatingService) ListForUser(ctx context.Context, userID string) ([]models.Rating, error) {
	ratings, err := s.ratings.ListRatingsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	for i := range ratings {
		if ratings[i].IsAnonymous {
			ratings[i].FromUserID = ""
			ratings[i].FromUserName = models.AnonymousRaterName
		}
	}
	return ratings, nil
}
