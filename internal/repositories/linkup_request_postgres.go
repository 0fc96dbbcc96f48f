package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostgresLinkUpRequestRepository implements LinkUpRequestRepository for PostgreSQL
type PostgresLinkUpRequestRepository struct {
	db *gorm.DB
}

// NewPostgresLinkUpRequestRepository creates a new PostgresLinkUpRequestRepository
func NewPostgresLinkUpRequestRepository(db *gorm.DB) *PostgresLinkUpRequestRepository {
	return &PostgresLinkUpRequestRepository{db: db}
}

// CreateLinkUpRequest creates a new link-up request. Duplicates are not
// rejected here; callers check FindByRequesterAndEvent first.
func (r *PostgresLinkUpRequestRepository) CreateLinkUpRequest(ctx context.Context, req *models.LinkUpRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(req).Error
}

// GetLinkUpRequestByID retrieves a link-up request by ID
func (r *PostgresLinkUpRequestRepository) GetLinkUpRequestByID(ctx context.Context, id string) (*models.LinkUpRequest, error) {
	var req models.LinkUpRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &req, nil
}

// FindByRequesterAndEvent retrieves the earliest request a user made for an event
func (r *PostgresLinkUpRequestRepository) FindByRequesterAndEvent(ctx context.Context, fromUserID, eventPostID string) (*models.LinkUpRequest, error) {
	var req models.LinkUpRequest
	err := r.db.WithContext(ctx).
		Where("event_post_id = ? AND from_user_id = ?", eventPostID, fromUserID).
		Order("created_at ASC").
		First(&req).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return &req, nil
}

// ListIncoming retrieves the requests addressed to an event owner with the given status
func (r *PostgresLinkUpRequestRepository) ListIncoming(ctx context.Context, toUserID string, status models.LinkUpStatus) ([]models.LinkUpRequest, error) {
	return r.list(ctx, "to_user_id = ? AND status = ?", toUserID, status)
}

// ListByRequester retrieves the requests a user sent with the given status
func (r *PostgresLinkUpRequestRepository) ListByRequester(ctx context.Context, fromUserID string, status models.LinkUpStatus) ([]models.LinkUpRequest, error) {
	return r.list(ctx, "from_user_id = ? AND status = ?", fromUserID, status)
}

// ListByEvent retrieves the requests for an event with the given status
func (r *PostgresLinkUpRequestRepository) ListByEvent(ctx context.Context, eventPostID string, status models.LinkUpStatus) ([]models.LinkUpRequest, error) {
	return r.list(ctx, "event_post_id = ? AND status = ?", eventPostID, status)
}

func (r *PostgresLinkUpRequestRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.LinkUpRequest, error) {
	requests := make([]models.LinkUpRequest, 0)
	if err := r.db.WithContext(ctx).Where(query, args...).Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// TransitionStatus updates the status only while it still equals from
func (r *PostgresLinkUpRequestRepository) TransitionStatus(ctx context.Context, id string, from, to models.LinkUpStatus) error {
	res := r.db.WithContext(ctx).Model(&models.LinkUpRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetLinkUpRequestByID(ctx, id); err != nil {
			return err
		}
		return ErrStatusConflict
	}
	return nil
}

func translateGormError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyExists
	}
	return err
}
