package repositories

import (
	"context"

	"github.com/anonto42/linkup/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresUserProfileRepository implements UserProfileRepository for PostgreSQL
type PostgresUserProfileRepository struct {
	db *gorm.DB
}

// NewPostgresUserProfileRepository creates a new PostgresUserProfileRepository
func NewPostgresUserProfileRepository(db *gorm.DB) *PostgresUserProfileRepository {
	return &PostgresUserProfileRepository{db: db}
}

// GetProfile retrieves a profile by user ID
func (r *PostgresUserProfileRepository) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &profile, nil
}

// UpsertProfile inserts the profile or overwrites every column of the existing row
func (r *PostgresUserProfileRepository) UpsertProfile(ctx context.Context, profile *models.UserProfile) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(profile).Error
}

// GetProfiles retrieves several profiles at once, keyed by user ID
func (r *PostgresUserProfileRepository) GetProfiles(ctx context.Context, userIDs []string) (map[string]models.UserProfile, error) {
	profiles := make(map[string]models.UserProfile, len(userIDs))
	if len(userIDs) == 0 {
		return profiles, nil
	}
	var rows []models.UserProfile
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		profiles[p.UserID] = p
	}
	return profiles, nil
}
