package models

import "time"

// AnonymousRaterName replaces the rater's name on anonymous ratings
const AnonymousRaterName = "Anonymous"

// Rating is a one-time star rating left by one participant of an event for another
type Rating struct {
	ID           string    `json:"id" gorm:"primaryKey;size:300" firestore:"-" dynamodbav:"id"`
	FromUserID   string    `json:"from_user_id,omitempty" gorm:"size:128;not null" firestore:"fromUserId" dynamodbav:"fromUserId"`
	FromUserName string    `json:"from_user_name" gorm:"size:100" firestore:"fromUserName" dynamodbav:"fromUserName"`
	ToUserID     string    `json:"to_user_id" gorm:"size:128;not null;index:idx_rating_to_created,priority:1" firestore:"toUserId" dynamodbav:"toUserId"`
	EventPostID  string    `json:"event_post_id" gorm:"size:128;not null" firestore:"eventPostId" dynamodbav:"eventPostId"`
	Stars        int       `json:"stars" firestore:"stars" dynamodbav:"stars"`
	Comment      string    `json:"comment" gorm:"type:text" firestore:"comment" dynamodbav:"comment"`
	IsAnonymous  bool      `json:"is_anonymous" firestore:"isAnonymous" dynamodbav:"isAnonymous"`
	CreatedAt    time.Time `json:"created_at" gorm:"index:idx_rating_to_created,priority:2" firestore:"createdAt" dynamodbav:"createdAt"`
}

// RatingID returns the deterministic id that limits a rater to one rating per event
func RatingID(eventPostID, fromUserID string) string {
	return eventPostID + "_" + fromUserID
}

// RatingStats holds the running rating aggregates of a user
type RatingStats struct {
	UserID         string `json:"user_id" gorm:"primaryKey;size:128" firestore:"userId" dynamodbav:"userId"`
	TotalRatings   int64  `json:"total_ratings" firestore:"totalRatings" dynamodbav:"totalRatings"`
	TotalRatingSum int64  `json:"total_rating_sum" firestore:"totalRatingSum" dynamodbav:"totalRatingSum"`
}

// TableName keeps the aggregates in the users table
func (RatingStats) TableName() string {
	return "users"
}

// Average derives the mean rating; zero when the user has not been rated
func (s RatingStats) Average() float64 {
	if s.TotalRatings == 0 {
		return 0
	}
	return float64(s.TotalRatingSum) / float64(s.TotalRatings)
}

// CreateRatingRequest defines the request body for rating another participant
type CreateRatingRequest struct {
	ToUserID    string `json:"to_user_id" validate:"required"`
	Stars       int    `json:"stars" validate:"required,min=1,max=5"`
	Comment     string `json:"comment,omitempty" validate:"max=1000"`
	IsAnonymous bool   `json:"is_anonymous"`
}
