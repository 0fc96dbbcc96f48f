package models

import "time"

// LinkUpStatus is the lifecycle state of a link-up request
type LinkUpStatus string

const (
	// LinkUpStatusNone is never stored; it describes the absence of a request
	LinkUpStatusNone     LinkUpStatus = "none"
	LinkUpStatusPending  LinkUpStatus = "pending"
	LinkUpStatusAccepted LinkUpStatus = "accepted"
	LinkUpStatusDeclined LinkUpStatus = "declined"
)

// IsTerminal reports whether no further transition is possible
func (s LinkUpStatus) IsTerminal() bool {
	return s == LinkUpStatusAccepted || s == LinkUpStatusDeclined
}

// LinkUpRequest represents one user asking to join another user's event post
type LinkUpRequest struct {
	ID          string       `json:"id" gorm:"primaryKey;size:64" firestore:"-" dynamodbav:"id"`
	FromUserID  string       `json:"from_user_id" gorm:"size:128;not null;index:idx_linkup_event_from,priority:2;index:idx_linkup_from_status,priority:1" firestore:"fromUserId"`
	ToUserID    string       `json:"to_user_id" gorm:"size:128;not null;index:idx_linkup_to_status,priority:1;index:idx_linkup_to_created,priority:1" firestore:"toUserId"`
	EventPostID string       `json:"event_post_id" gorm:"size:128;not null;index:idx_linkup_event_from,priority:1" firestore:"eventPostId"`
	Status      LinkUpStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index:idx_linkup_to_status,priority:2;index:idx_linkup_from_status,priority:2" firestore:"status"`
	CreatedAt   time.Time    `json:"created_at" gorm:"index:idx_linkup_to_created,priority:2" firestore:"createdAt"`
	UpdatedAt   time.Time    `json:"updated_at" firestore:"updatedAt"`
}

// DecideLinkUpRequest defines the request body for accepting/declining a link-up request
type DecideLinkUpRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted declined"`
}
