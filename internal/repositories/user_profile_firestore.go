package repositories

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/anonto42/linkup/backend/internal/models"
)

// FirestoreUserProfileRepository implements UserProfileRepository for Firestore.
// Profiles are keyed by the user's auth UID.
type FirestoreUserProfileRepository struct {
	collection *firestore.CollectionRef
	client     *firestore.Client
}

// NewFirestoreUserProfileRepository creates a new FirestoreUserProfileRepository
func NewFirestoreUserProfileRepository(client *firestore.Client) *FirestoreUserProfileRepository {
	return &FirestoreUserProfileRepository{
		collection: client.Collection(UserProfilesCollection),
		client:     client,
	}
}

// GetProfile retrieves a profile by user ID
func (r *FirestoreUserProfileRepository) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	doc, err := r.collection.Doc(userID).Get(ctx)
	if err != nil {
		return nil, translateFirestoreError(err)
	}
	var profile models.UserProfile
	if err := doc.DataTo(&profile); err != nil {
		return nil, err
	}
	profile.UserID = doc.Ref.ID
	return &profile, nil
}

// UpsertProfile writes the whole profile document
func (r *FirestoreUserProfileRepository) UpsertProfile(ctx context.Context, profile *models.UserProfile) error {
	_, err := r.collection.Doc(profile.UserID).Set(ctx, profile)
	return translateFirestoreError(err)
}

// GetProfiles retrieves several profiles in one round trip, keyed by user ID
func (r *FirestoreUserProfileRepository) GetProfiles(ctx context.Context, userIDs []string) (map[string]models.UserProfile, error) {
	profiles := make(map[string]models.UserProfile, len(userIDs))
	if len(userIDs) == 0 {
		return profiles, nil
	}
	refs := make([]*firestore.DocumentRef, len(userIDs))
	for i, id := range userIDs {
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
		var profile models.UserProfile
		if err := doc.DataTo(&profile); err != nil {
			return nil, err
		}
		profile.UserID = doc.Ref.ID
		profiles[profile.UserID] = profile
	}
	return profiles, nil
}
