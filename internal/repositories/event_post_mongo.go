package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoEventPostRepository implements EventPostRepository for MongoDB
type MongoEventPostRepository struct {
	collection *mongo.Collection
}

// NewMongoEventPostRepository creates a new MongoEventPostRepository
func NewMongoEventPostRepository(db *mongo.Database) *MongoEventPostRepository {
	return &MongoEventPostRepository{collection: db.Collection("eventPosts")}
}

// EnsureIndexes creates the composite indexes the feed and recommendation queries rely on
func (r *MongoEventPostRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "location_key", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "meetup_time", Value: 1}}},
		{Keys: bson.D{{Key: "owner_user_id", Value: 1}, {Key: "meetup_time", Value: -1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create event post indexes: %w", err)
	}
	return nil
}

// CreateEventPost creates a new event post in MongoDB
func (r *MongoEventPostRepository) CreateEventPost(ctx context.Context, post *models.EventPost) error {
	if post.ID == "" {
		post.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, post)
	if mongo.IsDuplicateKeyError(err) {
		return ErrAlreadyExists
	}
	return err
}

// GetEventPostByID retrieves an event post by ID from MongoDB
func (r *MongoEventPostRepository) GetEventPostByID(ctx context.Context, id string) (*models.EventPost, error) {
	var post models.EventPost
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// UpdateEventPost updates the editable fields of an event post
func (r *MongoEventPostRepository) UpdateEventPost(ctx context.Context, post *models.EventPost) error {
	post.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"location_key":     post.LocationKey,
			"place_name":       post.PlaceName,
			"meetup_time":      post.MeetupTime,
			"max_participants": post.MaxParticipants,
			"description":      post.Description,
			"updated_at":       post.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": post.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteEventPost deletes an event post by ID from MongoDB
func (r *MongoEventPostRepository) DeleteEventPost(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementInterestedCount adjusts the interested counter of an event post
func (r *MongoEventPostRepository) IncrementInterestedCount(ctx context.Context, id string, delta int) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"current_interested_count": delta},
		"$set": bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByLocation retrieves the posts at a location, newest first
func (r *MongoEventPostRepository) ListByLocation(ctx context.Context, location string) ([]models.EventPost, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	return r.find(ctx, bson.M{"location_key": location}, findOptions)
}

// ListUpcoming retrieves posts whose meetup time is after the given instant, soonest first
func (r *MongoEventPostRepository) ListUpcoming(ctx context.Context, after time.Time, limit int) ([]models.EventPost, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "meetup_time", Value: 1}})
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{"meetup_time": bson.M{"$gt": after}}, findOptions)
}

// ListByOwner retrieves the posts created by a user, latest meetup first
func (r *MongoEventPostRepository) ListByOwner(ctx context.Context, ownerUserID string) ([]models.EventPost, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "meetup_time", Value: -1}})
	return r.find(ctx, bson.M{"owner_user_id": ownerUserID}, findOptions)
}

// ListByIDs retrieves the posts with the given IDs; missing IDs are skipped
func (r *MongoEventPostRepository) ListByIDs(ctx context.Context, ids []string) ([]models.EventPost, error) {
	if len(ids) == 0 {
		return []models.EventPost{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

func (r *MongoEventPostRepository) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.EventPost, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := make([]models.EventPost, 0)
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// WatchLocation re-reads the location whenever the collection's change stream
// reports a write and delivers the result as a full snapshot. Change streams
// need a replica set; without one the first snapshot carries the error.
func (r *MongoEventPostRepository) WatchLocation(ctx context.Context, location string) (<-chan Snapshot, error) {
	stream, err := r.collection.Watch(ctx, mongo.Pipeline{}, options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, err
	}

	out := make(chan Snapshot, 1)
	go func() {
		defer close(out)
		defer stream.Close(context.Background())

		if !r.deliver(ctx, out, location) {
			return
		}
		for stream.Next(ctx) {
			if !r.deliver(ctx, out, location) {
				return
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			send(ctx, out, Snapshot{Err: err})
		}
	}()
	return out, nil
}

func (r *MongoEventPostRepository) deliver(ctx context.Context, out chan Snapshot, location string) bool {
	posts, err := r.ListByLocation(ctx, location)
	if err != nil {
		if ctx.Err() == nil {
			send(ctx, out, Snapshot{Err: err})
		}
		return false
	}
	return send(ctx, out, Snapshot{Posts: posts})
}

// send replaces any snapshot the consumer has not read yet, since only the
// latest full snapshot matters. It must only be called by the channel's producer.
func send(ctx context.Context, out chan Snapshot, snap Snapshot) bool {
	select {
	case <-ctx.Done():
		return false
	default:
	}
	select {
	case out <- snap:
		return true
	default:
	}
	select {
	case <-out:
	default:
	}
	select {
	case out <- snap:
		return true
	case <-ctx.Done():
		return false
	}
}
