package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a document does not exist
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists is returned by create-if-absent writes that hit an existing document
	ErrAlreadyExists = errors.New("document already exists")
	// ErrStatusConflict is returned when a status transition finds an unexpected current status
	ErrStatusConflict = errors.New("document status changed concurrently")
	// ErrIndexRequired is returned while the store is still building a composite index
	ErrIndexRequired = errors.New("composite index required")
)

// Snapshot is one full, ordered result set delivered by a live query.
// A snapshot carrying Err is the last one delivered.
type Snapshot struct {
	Posts []models.EventPost
	Err   error
}

// EventPostRepository defines the interface for event post data operations
type EventPostRepository interface {
	CreateEventPost(ctx context.Context, post *models.EventPost) error
	GetEventPostByID(ctx context.Context, id string) (*models.EventPost, error)
	UpdateEventPost(ctx context.Context, post *models.EventPost) error
	DeleteEventPost(ctx context.Context, id string) error
	IncrementInterestedCount(ctx context.Context, id string, delta int) error
	ListByLocation(ctx context.Context, location string) ([]models.EventPost, error)
	ListUpcoming(ctx context.Context, after time.Time, limit int) ([]models.EventPost, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]models.EventPost, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.EventPost, error)
	// WatchLocation streams full snapshots of the posts at location, newest first.
	// The channel is closed when ctx is cancelled or after a snapshot with Err.
	WatchLocation(ctx context.Context, location string) (<-chan Snapshot, error)
}

// LinkUpRequestRepository defines the interface for link-up request data operations
type LinkUpRequestRepository interface {
	CreateLinkUpRequest(ctx context.Context, req *models.LinkUpRequest) error
	GetLinkUpRequestByID(ctx context.Context, id string) (*models.LinkUpRequest, error)
	FindByRequesterAndEvent(ctx context.Context, fromUserID, eventPostID string) (*models.LinkUpRequest, error)
	ListIncoming(ctx context.Context, toUserID string, status models.LinkUpStatus) ([]models.LinkUpRequest, error)
	ListByRequester(ctx context.Context, fromUserID string, status models.LinkUpStatus) ([]models.LinkUpRequest, error)
	ListByEvent(ctx context.Context, eventPostID string, status models.LinkUpStatus) ([]models.LinkUpRequest, error)
	// TransitionStatus moves a request from one status to another and
	// returns ErrStatusConflict when the stored status is not from.
	TransitionStatus(ctx context.Context, id string, from, to models.LinkUpStatus) error
}

// UserProfileRepository defines the interface for user profile data operations
type UserProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	UpsertProfile(ctx context.Context, profile *models.UserProfile) error
	GetProfiles(ctx context.Context, userIDs []string) (map[string]models.UserProfile, error)
}

// RatingRepository defines the interface for rating data operations
type RatingRepository interface {
	GetRating(ctx context.Context, id string) (*models.Rating, error)
	CreateRating(ctx context.Context, rating *models.Rating) error
	ListRatingsForUser(ctx context.Context, toUserID string) ([]models.Rating, error)
	IncrementRatingStats(ctx context.Context, userID string, stars int) error
	GetRatingStats(ctx context.Context, userID string) (*models.RatingStats, error)
}

// Store bundles the repositories a backend provides
type Store struct {
	Posts    EventPostRepository
	Requests LinkUpRequestRepository
	Profiles UserProfileRepository
	Ratings  RatingRepository
}

// NewDatabaseStore keeps event posts in MongoDB and everything else in PostgreSQL
func NewDatabaseStore(db *gorm.DB, mongoDB *mongo.Database) *Store {
	return &Store{
		Posts:    NewMongoEventPostRepository(mongoDB),
		Requests: NewPostgresLinkUpRequestRepository(db),
		Profiles: NewPostgresUserProfileRepository(db),
		Ratings:  NewPostgresRatingRepository(db),
	}
}
