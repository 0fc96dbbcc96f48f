package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/google/uuid"
)

// MemoryStore keeps every collection in process. It backs development mode
// and the service tests, and implements all four repository interfaces.
type MemoryStore struct {
	mu       sync.RWMutex
	posts    map[string]*models.EventPost
	seq      map[string]int64
	nextSeq  int64
	requests map[string]*models.LinkUpRequest
	profiles map[string]*models.UserProfile
	ratings  map[string]*models.Rating
	stats    map[string]*models.RatingStats
	watchers map[*memoryWatcher]struct{}
}

type memoryWatcher struct {
	location string
	ch       chan Snapshot
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts:    make(map[string]*models.EventPost),
		seq:      make(map[string]int64),
		requests: make(map[string]*models.LinkUpRequest),
		profiles: make(map[string]*models.UserProfile),
		ratings:  make(map[string]*models.Rating),
		stats:    make(map[string]*models.RatingStats),
		watchers: make(map[*memoryWatcher]struct{}),
	}
}

// Store exposes the MemoryStore through the Store bundle
func (s *MemoryStore) Store() *Store {
	return &Store{Posts: s, Requests: s, Profiles: s, Ratings: s}
}

// --- event posts ---

func (s *MemoryStore) CreateEventPost(ctx context.Context, post *models.EventPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if _, ok := s.posts[post.ID]; ok {
		return ErrAlreadyExists
	}
	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	s.nextSeq++
	s.seq[post.ID] = s.nextSeq
	s.posts[post.ID] = clonePost(post)
	s.notifyLocked(post.LocationKey)
	return nil
}

func (s *MemoryStore) GetEventPostByID(ctx context.Context, id string) (*models.EventPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clonePost(post), nil
}

func (s *MemoryStore) UpdateEventPost(ctx context.Context, post *models.EventPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.posts[post.ID]
	if !ok {
		return ErrNotFound
	}
	previousLocation := existing.LocationKey
	post.UpdatedAt = time.Now()
	existing.LocationKey = post.LocationKey
	existing.PlaceName = post.PlaceName
	existing.MeetupTime = post.MeetupTime
	existing.MaxParticipants = post.MaxParticipants
	existing.Description = post.Description
	existing.UpdatedAt = post.UpdatedAt
	s.notifyLocked(previousLocation)
	if post.LocationKey != previousLocation {
		s.notifyLocked(post.LocationKey)
	}
	return nil
}

func (s *MemoryStore) DeleteEventPost(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.posts, id)
	delete(s.seq, id)
	s.notifyLocked(post.LocationKey)
	return nil
}

func (s *MemoryStore) IncrementInterestedCount(ctx context.Context, id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return ErrNotFound
	}
	post.CurrentInterestedCount += delta
	post.UpdatedAt = time.Now()
	s.notifyLocked(post.LocationKey)
	return nil
}

func (s *MemoryStore) ListByLocation(ctx context.Context, location string) ([]models.EventPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listByLocationLocked(location), nil
}

func (s *MemoryStore) listByLocationLocked(location string) []models.EventPost {
	posts := make([]models.EventPost, 0)
	for _, p := range s.posts {
		if p.LocationKey == location {
			posts = append(posts, *clonePost(p))
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return s.seq[posts[i].ID] > s.seq[posts[j].ID]
	})
	return posts
}

func (s *MemoryStore) ListUpcoming(ctx context.Context, after time.Time, limit int) ([]models.EventPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]models.EventPost, 0)
	for _, p := range s.posts {
		if p.MeetupTime.After(after) {
			posts = append(posts, *clonePost(p))
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].MeetupTime.Equal(posts[j].MeetupTime) {
			return posts[i].MeetupTime.Before(posts[j].MeetupTime)
		}
		return s.seq[posts[i].ID] < s.seq[posts[j].ID]
	})
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (s *MemoryStore) ListByOwner(ctx context.Context, ownerUserID string) ([]models.EventPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]models.EventPost, 0)
	for _, p := range s.posts {
		if p.OwnerUserID == ownerUserID {
			posts = append(posts, *clonePost(p))
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].MeetupTime.After(posts[j].MeetupTime)
	})
	return posts, nil
}

func (s *MemoryStore) ListByIDs(ctx context.Context, ids []string) ([]models.EventPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]models.EventPost, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.posts[id]; ok {
			posts = append(posts, *clonePost(p))
		}
	}
	return posts, nil
}

func (s *MemoryStore) WatchLocation(ctx context.Context, location string) (<-chan Snapshot, error) {
	w := &memoryWatcher{location: location, ch: make(chan Snapshot, 1)}

	s.mu.Lock()
	s.watchers[w] = struct{}{}
	w.ch <- Snapshot{Posts: s.listByLocationLocked(location)}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, w)
		close(w.ch)
		s.mu.Unlock()
	}()
	return w.ch, nil
}

// notifyLocked pushes a fresh snapshot to every watcher of location.
// Watchers hold at most one pending snapshot; a newer one replaces it.
func (s *MemoryStore) notifyLocked(location string) {
	for w := range s.watchers {
		if w.location != location {
			continue
		}
		snap := Snapshot{Posts: s.listByLocationLocked(location)}
		select {
		case w.ch <- snap:
		default:
			select {
			case <-w.ch:
			default:
			}
			w.ch <- snap
		}
	}
}

// --- link-up requests ---

func (s *MemoryStore) CreateLinkUpRequest(ctx context.Context, req *models.LinkUpRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	now := time.Now()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	req.UpdatedAt = now
	copied := *req
	s.requests[req.ID] = &copied
	return nil
}

func (s *MemoryStore) GetLinkUpRequestByID(ctx context.Context, id string) (*models.LinkUpRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *req
	return &copied, nil
}

func (s *MemoryStore) FindByRequesterAndEvent(ctx context.Context, fromUserID, eventPostID string) (*models.LinkUpRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *models.LinkUpRequest
	for _, req := range s.requests {
		if req.FromUserID != fromUserID || req.EventPostID != eventPostID {
			continue
		}
		if found == nil || req.CreatedAt.Before(found.CreatedAt) {
			found = req
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	copied := *found
	return &copied, nil
}

func (s *MemoryStore) ListIncoming(ctx context.Context, toUserID string, status models.LinkUpStatus) ([]models.LinkUpRequest, error) {
	return s.filterRequests(func(r *models.LinkUpRequest) bool {
		return r.ToUserID == toUserID && r.Status == status
	}), nil
}

func (s *MemoryStore) ListByRequester(ctx context.Context, fromUserID string, status models.LinkUpStatus) ([]models.LinkUpRequest, error) {
	return s.filterRequests(func(r *models.LinkUpRequest) bool {
		return r.FromUserID == fromUserID && r.Status == status
	}), nil
}

func (s *MemoryStore) ListByEvent(ctx context.Context, eventPostID string, status models.LinkUpStatus) ([]models.LinkUpRequest, error) {
	return s.filterRequests(func(r *models.LinkUpRequest) bool {
		return r.EventPostID == eventPostID && r.Status == status
	}), nil
}

func (s *MemoryStore) filterRequests(keep func(*models.LinkUpRequest) bool) []models.LinkUpRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	requests := make([]models.LinkUpRequest, 0)
	for _, r := range s.requests {
		if keep(r) {
			requests = append(requests, *r)
		}
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests
}

func (s *MemoryStore) TransitionStatus(ctx context.Context, id string, from, to models.LinkUpStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return ErrNotFound
	}
	if req.Status != from {
		return ErrStatusConflict
	}
	req.Status = to
	req.UpdatedAt = time.Now()
	return nil
}

// --- profiles ---

func (s *MemoryStore) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *MemoryStore) UpsertProfile(ctx context.Context, profile *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile.UpdatedAt = time.Now()
	copied := *profile
	s.profiles[profile.UserID] = &copied
	return nil
}

func (s *MemoryStore) GetProfiles(ctx context.Context, userIDs []string) (map[string]models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make(map[string]models.UserProfile, len(userIDs))
	for _, id := range userIDs {
		if p, ok := s.profiles[id]; ok {
			profiles[id] = *p
		}
	}
	return profiles, nil
}

// --- ratings ---

func (s *MemoryStore) GetRating(ctx context.Context, id string) (*models.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.ratings[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *MemoryStore) CreateRating(ctx context.Context, rating *models.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ratings[rating.ID]; ok {
		return ErrAlreadyExists
	}
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now()
	}
	copied := *rating
	s.ratings[rating.ID] = &copied
	return nil
}

func (s *MemoryStore) ListRatingsForUser(ctx context.Context, toUserID string) ([]models.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ratings := make([]models.Rating, 0)
	for _, r := range s.ratings {
		if r.ToUserID == toUserID {
			ratings = append(ratings, *r)
		}
	}
	sort.Slice(ratings, func(i, j int) bool {
		return ratings[i].CreatedAt.After(ratings[j].CreatedAt)
	})
	return ratings, nil
}

func (s *MemoryStore) IncrementRatingStats(ctx context.Context, userID string, stars int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stats[userID]
	if !ok {
		st = &models.RatingStats{UserID: userID}
		s.stats[userID] = st
	}
	st.TotalRatings++
	st.TotalRatingSum += int64(stars)
	return nil
}

func (s *MemoryStore) GetRatingStats(ctx context.Context, userID string) (*models.RatingStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.stats[userID]
	if !ok {
		return &models.RatingStats{UserID: userID}, nil
	}
	copied := *st
	return &copied, nil
}

func clonePost(p *models.EventPost) *models.EventPost {
	copied := *p
	if p.InterestTags != nil {
		copied.InterestTags = append([]string(nil), p.InterestTags...)
	}
	return &copied
}
