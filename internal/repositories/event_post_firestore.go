package repositories

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/anonto42/linkup/backend/internal/models"
	"google.golang.org/api/iterator"
)

// FirestoreEventPostRepository implements EventPostRepository for Firestore
type FirestoreEventPostRepository struct {
	collection *firestore.CollectionRef
	client     *firestore.Client
}

// NewFirestoreEventPostRepository creates a new FirestoreEventPostRepository
func NewFirestoreEventPostRepository(client *firestore.Client) *FirestoreEventPostRepository {
	return &FirestoreEventPostRepository{
		collection: client.Collection(EventPostsCollection),
		client:     client,
	}
}

// CreateEventPost creates a new event post with a generated document ID
func (r *FirestoreEventPostRepository) CreateEventPost(ctx context.Context, post *models.EventPost) error {
	ref := r.collection.NewDoc()
	if post.ID != "" {
		ref = r.collection.Doc(post.ID)
	}
	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	if _, err := ref.Create(ctx, post); err != nil {
		return translateFirestoreError(err)
	}
	post.ID = ref.ID
	return nil
}

// GetEventPostByID retrieves an event post by document ID
func (r *FirestoreEventPostRepository) GetEventPostByID(ctx context.Context, id string) (*models.EventPost, error) {
	doc, err := r.collection.Doc(id).Get(ctx)
	if err != nil {
		return nil, translateFirestoreError(err)
	}
	return decodeEventPost(doc)
}

// UpdateEventPost updates the editable fields of an event post
func (r *FirestoreEventPostRepository) UpdateEventPost(ctx context.Context, post *models.EventPost) error {
	post.UpdatedAt = time.Now()
	_, err := r.collection.Doc(post.ID).Update(ctx, []firestore.Update{
		{Path: "locationKey", Value: post.LocationKey},
		{Path: "placeName", Value: post.PlaceName},
		{Path: "meetupTime", Value: post.MeetupTime},
		{Path: "maxParticipants", Value: post.MaxParticipants},
		{Path: "description", Value: post.Description},
		{Path: "updatedAt", Value: post.UpdatedAt},
	})
	return translateFirestoreError(err)
}

// DeleteEventPost deletes an event post; deleting a missing post reports ErrNotFound
func (r *FirestoreEventPostRepository) DeleteEventPost(ctx context.Context, id string) error {
	_, err := r.collection.Doc(id).Delete(ctx, firestore.Exists)
	return translateFirestoreError(err)
}

// IncrementInterestedCount adjusts the interested counter server-side
func (r *FirestoreEventPostRepository) IncrementInterestedCount(ctx context.Context, id string, delta int) error {
	_, err := r.collection.Doc(id).Update(ctx, []firestore.Update{
		{Path: "currentInterestedCount", Value: firestore.Increment(delta)},
		{Path: "updatedAt", Value: time.Now()},
	})
	return translateFirestoreError(err)
}

func (r *FirestoreEventPostRepository) locationQuery(location string) firestore.Query {
	return r.collection.
		Where("locationKey", "==", location).
		OrderBy("createdAt", firestore.Desc)
}

// ListByLocation retrieves the posts at a location, newest first
func (r *FirestoreEventPostRepository) ListByLocation(ctx context.Context, location string) ([]models.EventPost, error) {
	return r.query(ctx, r.locationQuery(location))
}

// ListUpcoming retrieves posts whose meetup time is after the given instant, soonest first
func (r *FirestoreEventPostRepository) ListUpcoming(ctx context.Context, after time.Time, limit int) ([]models.EventPost, error) {
	q := r.collection.Where("meetupTime", ">", after).OrderBy("meetupTime", firestore.Asc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return r.query(ctx, q)
}

// ListByOwner retrieves the posts created by a user, latest meetup first
func (r *FirestoreEventPostRepository) ListByOwner(ctx context.Context, ownerUserID string) ([]models.EventPost, error) {
	return r.query(ctx, r.collection.Where("ownerUserId", "==", ownerUserID).OrderBy("meetupTime", firestore.Desc))
}

// ListByIDs retrieves the posts with the given IDs; missing IDs are skipped
func (r *FirestoreEventPostRepository) ListByIDs(ctx context.Context, ids []string) ([]models.EventPost, error) {
	posts := make([]models.EventPost, 0, len(ids))
	if len(ids) == 0 {
		return posts, nil
	}
	refs := make([]*firestore.DocumentRef, len(ids))
	for i, id := range ids {
		refs[i] = r.collection.Doc(id)
	}
	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, translateFirestoreError(err)
	}
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		post, err := decodeEventPost(doc)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, nil
}

func (r *FirestoreEventPostRepository) query(ctx context.Context, q firestore.Query) ([]models.EventPost, error) {
	posts := make([]models.EventPost, 0)
	err := collectDocuments(q.Documents(ctx), func(doc *firestore.DocumentSnapshot) error {
		post, err := decodeEventPost(doc)
		if err != nil {
			return err
		}
		posts = append(posts, *post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// WatchLocation attaches a snapshot listener to the location query. Every
// query snapshot is delivered in full; a listener error ends the watch.
func (r *FirestoreEventPostRepository) WatchLocation(ctx context.Context, location string) (<-chan Snapshot, error) {
	snapshots := r.locationQuery(location).Snapshots(ctx)

	out := make(chan Snapshot, 1)
	go func() {
		defer close(out)
		defer snapshots.Stop()

		for {
			qs, err := snapshots.Next()
			if err != nil {
				if ctx.Err() == nil && !errors.Is(err, iterator.Done) {
					send(ctx, out, Snapshot{Err: translateFirestoreError(err)})
				}
				return
			}
			posts := make([]models.EventPost, 0, qs.Size)
			err = collectDocuments(qs.Documents, func(doc *firestore.DocumentSnapshot) error {
				post, err := decodeEventPost(doc)
				if err != nil {
					return err
				}
				posts = append(posts, *post)
				return nil
			})
			if err != nil {
				send(ctx, out, Snapshot{Err: err})
				return
			}
			if !send(ctx, out, Snapshot{Posts: posts}) {
				return
			}
		}
	}()
	return out, nil
}

func decodeEventPost(doc *firestore.DocumentSnapshot) (*models.EventPost, error) {
	var post models.EventPost
	if err := doc.DataTo(&post); err != nil {
		return nil, err
	}
	post.ID = doc.Ref.ID
	return &post, nil
}
