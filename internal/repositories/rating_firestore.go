package repositories

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"github.com/anonto42/linkup/backend/internal/models"
)

// FirestoreRatingRepository implements RatingRepository for Firestore.
// Ratings live in the ratings collection; aggregates are fields of users/<uid>.
type FirestoreRatingRepository struct {
	ratings *firestore.CollectionRef
	users   *firestore.CollectionRef
}

// NewFirestoreRatingRepository creates a new FirestoreRatingRepository
func NewFirestoreRatingRepository(client *firestore.Client) *FirestoreRatingRepository {
	return &FirestoreRatingRepository{
		ratings: client.Collection(RatingsCollection),
		users:   client.Collection(UsersCollection),
	}
}

// GetRating retrieves a rating by its deterministic ID
func (r *FirestoreRatingRepository) GetRating(ctx context.Context, id string) (*models.Rating, error) {
	doc, err := r.ratings.Doc(id).Get(ctx)
	if err != nil {
		return nil, translateFirestoreError(err)
	}
	return decodeRating(doc)
}

// CreateRating creates the rating document only if it does not exist yet
func (r *FirestoreRatingRepository) CreateRating(ctx context.Context, rating *models.Rating) error {
	_, err := r.ratings.Doc(rating.ID).Create(ctx, rating)
	return translateFirestoreError(err)
}

// ListRatingsForUser retrieves the ratings a user received, newest first
func (r *FirestoreRatingRepository) ListRatingsForUser(ctx context.Context, toUserID string) ([]models.Rating, error) {
	ratings := make([]models.Rating, 0)
	q := r.ratings.Where("toUserId", "==", toUserID).OrderBy("createdAt", firestore.Desc)
	err := collectDocuments(q.Documents(ctx), func(doc *firestore.DocumentSnapshot) error {
		rating, err := decodeRating(doc)
		if err != nil {
			return err
		}
		ratings = append(ratings, *rating)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// IncrementRatingStats adds one rating to the user's aggregates, creating the document if needed
func (r *FirestoreRatingRepository) IncrementRatingStats(ctx context.Context, userID string, stars int) error {
	_, err := r.users.Doc(userID).Set(ctx, map[string]interface{}{
		"totalRatings":   firestore.Increment(1),
		"totalRatingSum": firestore.Increment(stars),
	}, firestore.MergeAll)
	return translateFirestoreError(err)
}

// GetRatingStats retrieves a user's aggregates; unrated users get zero values
func (r *FirestoreRatingRepository) GetRatingStats(ctx context.Context, userID string) (*models.RatingStats, error) {
	stats := &models.RatingStats{UserID: userID}
	doc, err := r.users.Doc(userID).Get(ctx)
	if err != nil {
		err = translateFirestoreError(err)
		if errors.Is(err, ErrNotFound) {
			return stats, nil
		}
		return nil, err
	}
	if err := doc.DataTo(stats); err != nil {
		return nil, err
	}
	stats.UserID = userID
	return stats, nil
}

func decodeRating(doc *firestore.DocumentSnapshot) (*models.Rating, error) {
	var rating models.Rating
	if err := doc.DataTo(&rating); err != nil {
		return nil, err
	}
	rating.ID = doc.Ref.ID
	return &rating, nil
}
