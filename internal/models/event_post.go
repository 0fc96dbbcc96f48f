package models

import "time"

// UnlimitedParticipants marks an event post without a participant cap
const UnlimitedParticipants = -1

// DefaultMaxParticipants is applied when a post is created without a cap
const DefaultMaxParticipants = 2

// EventPost is a user's announcement that they will be at a place at a given time
type EventPost struct {
	ID                     string    `json:"id" bson:"_id,omitempty" firestore:"-"`
	OwnerUserID            string    `json:"owner_user_id" bson:"owner_user_id" firestore:"ownerUserId"`
	OwnerDisplayName       string    `json:"owner_display_name" bson:"owner_display_name" firestore:"ownerDisplayName"`
	LocationKey            string    `json:"location_key" bson:"location_key" firestore:"locationKey"`
	PlaceName              string    `json:"place_name" bson:"place_name" firestore:"placeName"`
	MeetupTime             time.Time `json:"meetup_time" bson:"meetup_time" firestore:"meetupTime"`
	MaxParticipants        int       `json:"max_participants" bson:"max_participants" firestore:"maxParticipants"`
	CurrentInterestedCount int       `json:"current_interested_count" bson:"current_interested_count" firestore:"currentInterestedCount"`
	InterestTags           []string  `json:"interest_tags" bson:"interest_tags" firestore:"interestTags"`
	Description            string    `json:"description,omitempty" bson:"description,omitempty" firestore:"description,omitempty"`
	CreatedAt              time.Time `json:"created_at" bson:"created_at" firestore:"createdAt"`
	UpdatedAt              time.Time `json:"updated_at" bson:"updated_at" firestore:"updatedAt"`
}

// IsUnlimited reports whether the post accepts any number of participants
func (p *EventPost) IsUnlimited() bool {
	return p.MaxParticipants == UnlimitedParticipants
}

// IsFull reports whether the advisory capacity has been reached
func (p *EventPost) IsFull() bool {
	return !p.IsUnlimited() && p.CurrentInterestedCount >= p.MaxParticipants
}

// CreateEventPostRequest defines the request body for creating an event post
type CreateEventPostRequest struct {
	PlaceName       string    `json:"place_name" validate:"max=200"`
	MeetupTime      time.Time `json:"meetup_time"`
	MaxParticipants int       `json:"max_participants" validate:"min=-1,max=1000"`
	Description     string    `json:"description,omitempty" validate:"max=500"`
}

// UpdateEventPostRequest defines the fields an owner may edit after creation
type UpdateEventPostRequest struct {
	MeetupTime      *time.Time `json:"meetup_time,omitempty"`
	MaxParticipants *int       `json:"max_participants,omitempty" validate:"omitempty,min=-1,max=1000"`
	Description     *string    `json:"description,omitempty" validate:"omitempty,max=500"`
}
