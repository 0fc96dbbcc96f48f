package repositories

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/anonto42/linkup/backend/internal/models"
)

// FirestoreLinkUpRequestRepository implements LinkUpRequestRepository for Firestore
type FirestoreLinkUpRequestRepository struct {
	collection *firestore.CollectionRef
	client     *firestore.Client
}

// NewFirestoreLinkUpRequestRepository creates a new FirestoreLinkUpRequestRepository
func NewFirestoreLinkUpRequestRepository(client *firestore.Client) *FirestoreLinkUpRequestRepository {
	return &FirestoreLinkUpRequestRepository{
		collection: client.Collection(LinkUpRequestsCollection),
		client:     client,
	}
}

// CreateLinkUpRequest stores a new request under a generated document ID
func (r *FirestoreLinkUpRequestRepository) CreateLinkUpRequest(ctx context.Context, req *models.LinkUpRequest) error {
	ref := r.collection.NewDoc()
	now := time.Now()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	req.UpdatedAt = now
	if _, err := ref.Create(ctx, req); err != nil {
		return translateFirestoreError(err)
	}
	req.ID = ref.ID
	return nil
}

// GetLinkUpRequestByID retrieves a request by document ID
func (r *FirestoreLinkUpRequestRepository) GetLinkUpRequestByID(ctx context.Context, id string) (*models.LinkUpRequest, error) {
	doc, err := r.collection.Doc(id).Get(ctx)
	if err != nil {
		return nil, translateFirestoreError(err)
	}
	return decodeLinkUpRequest(doc)
}

// FindByRequesterAndEvent retrieves the request a user made for an event
func (r *FirestoreLinkUpRequestRepository) FindByRequesterAndEvent(ctx context.Context, fromUserID, eventPostID string) (*models.LinkUpRequest, error) {
	requests, err := r.query(ctx, r.collection.
		Where("eventPostId", "==", eventPostID).
		Where("fromUserId", "==", fromUserID).
		Limit(1))
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, ErrNotFound
	}
	return &requests[0], nil
}

// ListIncoming retrieves the requests addressed to an event owner with the given status, newest first
func (r *FirestoreLinkUpRequestRepository) ListIncoming(ctx context.Context, toUserID string, status models.LinkUpStatus) ([]models.LinkUpRequest, error) {
	return r.query(ctx, r.collection.
		Where("toUserId", "==", toUserID).
		Where("status", "==", string(status)).
		OrderBy("createdAt", firestore.Desc))
}

// ListByRequester retrieves the requests a user sent with the given status
func (r *FirestoreLinkUpRequestRepository) ListByRequester(ctx context.Context, fromUserID string, status models.LinkUpStatus) ([]models.LinkUpRequest, error) {
	return r.query(ctx, r.collection.
		Where("fromUserId", "==", fromUserID).
		Where("status", "==", string(status)))
}

// ListByEvent retrieves the requests for an event with the given status
func (r *FirestoreLinkUpRequestRepository) ListByEvent(ctx context.Context, eventPostID string, status models.LinkUpStatus) ([]models.LinkUpRequest, error) {
	return r.query(ctx, r.collection.
		Where("eventPostId", "==", eventPostID).
		Where("status", "==", string(status)))
}

// TransitionStatus reads and rewrites the status inside a transaction so a
// request cannot leave pending twice.
func (r *FirestoreLinkUpRequestRepository) TransitionStatus(ctx context.Context, id string, from, to models.LinkUpStatus) error {
	ref := r.collection.Doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		current, err := doc.DataAt("status")
		if err != nil {
			return err
		}
		if s, _ := current.(string); models.LinkUpStatus(s) != from {
			return ErrStatusConflict
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: string(to)},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
	return translateFirestoreError(err)
}

func (r *FirestoreLinkUpRequestRepository) query(ctx context.Context, q firestore.Query) ([]models.LinkUpRequest, error) {
	requests := make([]models.LinkUpRequest, 0)
	err := collectDocuments(q.Documents(ctx), func(doc *firestore.DocumentSnapshot) error {
		req, err := decodeLinkUpRequest(doc)
		if err != nil {
			return err
		}
		requests = append(requests, *req)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func decodeLinkUpRequest(doc *firestore.DocumentSnapshot) (*models.LinkUpRequest, error) {
	var req models.LinkUpRequest
	if err := doc.DataTo(&req); err != nil {
		return nil, err
	}
	req.ID = doc.Ref.ID
	return &req, nil
}
