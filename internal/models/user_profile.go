package models

import (
	"time"

	"gorm.io/datatypes"
)

// ContactChannel tells requesters how to reach a user once a link-up is accepted
type ContactChannel string

const (
	ContactChannelPhone     ContactChannel = "phone"
	ContactChannelInstagram ContactChannel = "instagram"
	ContactChannelOther     ContactChannel = "other"
)

const (
	GenderMale           = "male"
	GenderFemale         = "female"
	GenderOther          = "other"
	GenderPreferNotToSay = "prefer_not_to_say"
)

// UserProfile is the public-facing profile of a user, keyed by their auth UID
type UserProfile struct {
	UserID         string                      `json:"user_id" gorm:"primaryKey;size:128" firestore:"userId"`
	DisplayName    string                      `json:"display_name" gorm:"size:100" firestore:"displayName"`
	ContactChannel ContactChannel              `json:"contact_channel,omitempty" gorm:"type:varchar(20)" firestore:"contactChannel"`
	ContactValue   string                      `json:"contact_value,omitempty" gorm:"size:200" firestore:"contactValue"`
	InterestTags   datatypes.JSONSlice[string] `json:"interest_tags" gorm:"type:jsonb" firestore:"interestTags"`
	PhotoURL       string                      `json:"photo_url,omitempty" firestore:"photoUrl,omitempty"`
	Age            *int                        `json:"age,omitempty" firestore:"age,omitempty"`
	Location       string                      `json:"location,omitempty" firestore:"location,omitempty"`
	Bio            string                      `json:"bio,omitempty" gorm:"type:text" firestore:"bio,omitempty"`
	Gender         string                      `json:"gender,omitempty" gorm:"type:varchar(20)" firestore:"gender,omitempty"`
	Occupation     string                      `json:"occupation,omitempty" firestore:"occupation,omitempty"`
	Languages      datatypes.JSONSlice[string] `json:"languages,omitempty" gorm:"type:jsonb" firestore:"languages,omitempty"`
	UpdatedAt      time.Time                   `json:"updated_at" firestore:"updatedAt"`
}

// Public returns a copy of the profile without contact details
func (p UserProfile) Public() UserProfile {
	p.ContactChannel = ""
	p.ContactValue = ""
	return p
}

// UpsertProfileRequest defines the request body for creating or updating the caller's profile
type UpsertProfileRequest struct {
	DisplayName    string   `json:"display_name,omitempty" validate:"omitempty,max=100"`
	ContactChannel string   `json:"contact_channel,omitempty" validate:"omitempty,oneof=phone instagram other"`
	ContactValue   string   `json:"contact_value,omitempty" validate:"omitempty,max=200"`
	InterestTags   []string `json:"interest_tags,omitempty" validate:"omitempty,max=30,dive,min=1,max=50"`
	PhotoURL       string   `json:"photo_url,omitempty" validate:"omitempty,url"`
	Age            *int     `json:"age,omitempty" validate:"omitempty,min=0,max=150"`
	Location       string   `json:"location,omitempty" validate:"omitempty,max=200"`
	Bio            string   `json:"bio,omitempty" validate:"omitempty,max=1000"`
	Gender         string   `json:"gender,omitempty" validate:"omitempty,oneof=male female other prefer_not_to_say"`
	Occupation     string   `json:"occupation,omitempty" validate:"omitempty,max=100"`
	Languages      []string `json:"languages,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
}
