package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/internal/session"
)

// PopularInterests stand in for the interests of viewers who have none
var PopularInterests = []string{"Sports", "Music", "Food", "Movies", "Gaming"}

// RecommendationLimit caps how many upcoming posts are considered
const RecommendationLimit = 50

// Recommendations is a ranked list of upcoming posts
type Recommendations struct {
	Posts        []models.EventPost `json:"posts"`
	Interests    []string           `json:"interests"`
	Personalized bool               `json:"personalized"`
}

// RecommendationService ranks upcoming posts by shared interests
type RecommendationService struct {
	posts    repositories.EventPostRepository
	profiles repositories.UserProfileRepository
	now      func() time.Time
}

// NewRecommendationService creates a new RecommendationService
func NewRecommendationService(store *repositories.Store) *RecommendationService {
	return &RecommendationService{posts: store.Posts, profiles: store.Profiles, now: time.Now}
}

// Recommend ranks the next upcoming posts for the viewer. Anonymous viewers
// and viewers without interests are ranked against PopularInterests.
func (s *RecommendationService) Recommend(ctx context.Context, p session.Principal) (Recommendations, error) {
	interests, personalized, err := s.viewerInterests(ctx, p)
	if err != nil {
		return Recommendations{}, err
	}
	posts, err := s.posts.ListUpcoming(ctx, s.now(), RecommendationLimit)
	if err != nil {
		return Recommendations{}, fmt.Errorf("failed to list upcoming posts: %w", err)
	}
	return Recommendations{
		Posts:        RankByInterests(posts, interests),
		Interests:    interests,
		Personalized: personalized,
	}, nil
}

func (s *RecommendationService) viewerInterests(ctx context.Context, p session.Principal) ([]string, bool, error) {
	if p.IsAnonymous() {
		return PopularInterests, false, nil
	}
	profile, err := s.profiles.GetProfile(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return PopularInterests, false, nil
		}
		return nil, false, fmt.Errorf("failed to load profile: %w", err)
	}
	if len(profile.InterestTags) == 0 {
		return PopularInterests, false, nil
	}
	return profile.InterestTags, true, nil
}

// RankByInterests orders posts by how many of their tags appear in interests,
// most first, and drops posts that share none. Equal counts keep their input order.
func RankByInterests(posts []models.EventPost, interests []string) []models.EventPost {
	wanted := make(map[string]struct{}, len(interests))
	for _, tag := range interests {
		wanted[tag] = struct{}{}
	}

	type scored struct {
		post    models.EventPost
		overlap int
	}
	candidates := make([]scored, 0, len(posts))
	for _, post := range posts {
		overlap := 0
		for _, tag := range post.InterestTags {
			if _, ok := wanted[tag]; ok {
				overlap++
			}
		}
		if overlap > 0 {
			candidates = append(candidates, scored{post: post, overlap: overlap})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].overlap > candidates[j].overlap
	})

	ranked := make([]models.EventPost, len(candidates))
	for i, c := range candidates {
		ranked[i] = c.post
	}
	return ranked
}
