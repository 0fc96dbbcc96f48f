package repositories

import (
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore collection names
const (
	EventPostsCollection     = "eventPosts"
	LinkUpRequestsCollection = "linkUpRequests"
	UserProfilesCollection   = "userProfiles"
	RatingsCollection        = "ratings"
	UsersCollection          = "users"
)

// NewFirestoreStore wires every repository to the given Firestore client
func NewFirestoreStore(client *firestore.Client) *Store {
	return &Store{
		Posts:    NewFirestoreEventPostRepository(client),
		Requests: NewFirestoreLinkUpRequestRepository(client),
		Profiles: NewFirestoreUserProfileRepository(client),
		Ratings:  NewFirestoreRatingRepository(client),
	}
}

// translateFirestoreError maps gRPC status codes onto the repository sentinels.
// A missing composite index is reported as FailedPrecondition.
func translateFirestoreError(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.FailedPrecondition:
		return ErrIndexRequired
	}
	return err
}

// collectDocuments drains a document iterator, decoding each document with decode
func collectDocuments(iter *firestore.DocumentIterator, decode func(*firestore.DocumentSnapshot) error) error {
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return translateFirestoreError(err)
		}
		if err := decode(doc); err != nil {
			return err
		}
	}
}
