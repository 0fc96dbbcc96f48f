package repositories

import (
	"context"

	"github.com/anonto42/linkup/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresRatingRepository implements RatingRepository for PostgreSQL
type PostgresRatingRepository struct {
	db *gorm.DB
}

// NewPostgresRatingRepository creates a new PostgresRatingRepository
func NewPostgresRatingRepository(db *gorm.DB) *PostgresRatingRepository {
	return &PostgresRatingRepository{db: db}
}

// GetRating retrieves a rating by its deterministic ID
func (r *PostgresRatingRepository) GetRating(ctx context.Context, id string) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.WithContext(ctx).First(&rating, "id = ?", id).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &rating, nil
}

// CreateRating inserts a rating; the primary key rejects a second rating with the same ID
func (r *PostgresRatingRepository) CreateRating(ctx context.Context, rating *models.Rating) error {
	return translateGormError(r.db.WithContext(ctx).Create(rating).Error)
}

// ListRatingsForUser retrieves the ratings a user received, newest first
func (r *PostgresRatingRepository) ListRatingsForUser(ctx context.Context, toUserID string) ([]models.Rating, error) {
	ratings := make([]models.Rating, 0)
	if err := r.db.WithContext(ctx).Where("to_user_id = ?", toUserID).Order("created_at DESC").Find(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

// IncrementRatingStats adds one rating of the given stars to the user's aggregates
func (r *PostgresRatingRepository) IncrementRatingStats(ctx context.Context, userID string, stars int) error {
	stats := models.RatingStats{UserID: userID, TotalRatings: 1, TotalRatingSum: int64(stars)}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_ratings":    gorm.Expr("users.total_ratings + ?", 1),
			"total_rating_sum": gorm.Expr("users.total_rating_sum + ?", stars),
		}),
	}).Create(&stats).Error
}

// GetRatingStats retrieves a user's aggregates; unrated users get zero values
func (r *PostgresRatingRepository) GetRatingStats(ctx context.Context, userID string) (*models.RatingStats, error) {
	var stats models.RatingStats
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&stats).Error
	if err != nil {
		return nil, err
	}
	stats.UserID = userID
	return &stats, nil
}
