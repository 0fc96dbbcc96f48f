package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/internal/session"
)

// RequestReason explains why a link-up request was not created
type RequestReason string

const (
	ReasonAlreadyRequested RequestReason = "already_requested"
	ReasonCapacityFull     RequestReason = "capacity_full"
	ReasonOwnEvent         RequestReason = "own_event"
)

// RequestOutcome reports the result of a link-up request. A request that is
// not allowed is a no-op, not an error.
type RequestOutcome struct {
	Created bool                  `json:"created"`
	Reason  RequestReason         `json:"reason,omitempty"`
	Request *models.LinkUpRequest `json:"request,omitempty"`
}

// RequestView is the requester's view of their link-up with an event
type RequestView struct {
	EventPostID    string                `json:"event_post_id"`
	Status         models.LinkUpStatus   `json:"status"`
	RequestID      string                `json:"request_id,omitempty"`
	IsOwner        bool                  `json:"is_owner"`
	IsFull         bool                  `json:"is_full"`
	ContactChannel models.ContactChannel `json:"contact_channel,omitempty"`
	ContactValue   string                `json:"contact_value,omitempty"`
}

// IncomingRequest is a pending request enriched for the event owner
type IncomingRequest struct {
	models.LinkUpRequest
	FromDisplayName string    `json:"from_display_name"`
	PlaceName       string    `json:"place_name"`
	MeetupTime      time.Time `json:"meetup_time"`
}

// Participant is an accepted requester as seen by the event owner
type Participant struct {
	UserID         string                `json:"user_id"`
	DisplayName    string                `json:"display_name"`
	ContactChannel models.ContactChannel `json:"contact_channel,omitempty"`
	ContactValue   string                `json:"contact_value,omitempty"`
	RequestID      string                `json:"request_id"`
	AcceptedAt     time.Time             `json:"accepted_at"`
}

// LinkUpService runs the link-up request lifecycle:
// none -> pending -> accepted | declined.
//
// Existence and capacity checks happen before the write and are not atomic
// with it, so concurrent submissions can create duplicate pending requests
// and concurrent accepts can push the interested count past the cap.
type LinkUpService struct {
	posts    repositories.EventPostRepository
	requests repositories.LinkUpRequestRepository
	profiles repositories.UserProfileRepository
}

// NewLinkUpService creates a new LinkUpService
func NewLinkUpService(store *repositories.Store) *LinkUpService {
	return &LinkUpService{
		posts:    store.Posts,
		requests: store.Requests,
		profiles: store.Profiles,
	}
}

// Request asks to join an event. It is only allowed while the caller has no
// request of any status for the event.
func (s *LinkUpService) Request(ctx context.Context, p session.Principal, eventPostID string) (RequestOutcome, error) {
	if p.IsAnonymous() {
		return RequestOutcome{}, ErrUnauthenticated
	}
	post, err := s.posts.GetEventPostByID(ctx, eventPostID)
	if err != nil {
		return RequestOutcome{}, fmt.Errorf("failed to load event post: %w", err)
	}
	if post.OwnerUserID == p.UserID {
		return RequestOutcome{Reason: ReasonOwnEvent}, nil
	}

	existing, err := s.requests.FindByRequesterAndEvent(ctx, p.UserID, eventPostID)
	switch {
	case err == nil:
		return RequestOutcome{Reason: ReasonAlreadyRequested, Request: existing}, nil
	case !errors.Is(err, repositories.ErrNotFound):
		return RequestOutcome{}, fmt.Errorf("failed to check existing request: %w", err)
	}

	if post.IsFull() {
		return RequestOutcome{Reason: ReasonCapacityFull}, nil
	}

	req := &models.LinkUpRequest{
		FromUserID:  p.UserID,
		ToUserID:    post.OwnerUserID,
		EventPostID: post.ID,
		Status:      models.LinkUpStatusPending,
	}
	if err := s.requests.CreateLinkUpRequest(ctx, req); err != nil {
		return RequestOutcome{}, fmt.Errorf("failed to create link-up request: %w", err)
	}
	return RequestOutcome{Created: true, Request: req}, nil
}

// Decide accepts or declines a pending request on behalf of the event owner.
// Accepting moves the request first and then bumps the event's interested
// count; the two writes are not atomic.
func (s *LinkUpService) Decide(ctx context.Context, p session.Principal, requestID string, decision models.LinkUpStatus) (*models.LinkUpRequest, error) {
	if p.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	if decision != models.LinkUpStatusAccepted && decision != models.LinkUpStatusDeclined {
		return nil, ErrInvalidDecision
	}

	req, err := s.requests.GetLinkUpRequestByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load link-up request: %w", err)
	}
	post, err := s.posts.GetEventPostByID(ctx, req.EventPostID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event post: %w", err)
	}
	if post.OwnerUserID != p.UserID {
		return nil, ErrForbidden
	}
	if req.Status != models.LinkUpStatusPending {
		return nil, ErrNotPending
	}

	if err := s.requests.TransitionStatus(ctx, req.ID, models.LinkUpStatusPending, decision); err != nil {
		if errors.Is(err, repositories.ErrStatusConflict) {
			return nil, ErrNotPending
		}
		return nil, fmt.Errorf("failed to update link-up request: %w", err)
	}
	req.Status = decision

	if decision == models.LinkUpStatusAccepted {
		if err := s.posts.IncrementInterestedCount(ctx, post.ID, 1); err != nil {
			return req, fmt.Errorf("request accepted but interested count not updated: %w", err)
		}
	}
	return req, nil
}

// Status returns the caller's view of their request for an event. The
// owner's contact details are only included once the request is accepted.
func (s *LinkUpService) Status(ctx context.Context, p session.Principal, eventPostID string) (RequestView, error) {
	post, err := s.posts.GetEventPostByID(ctx, eventPostID)
	if err != nil {
		return RequestView{}, fmt.Errorf("failed to load event post: %w", err)
	}
	view := RequestView{
		EventPostID: post.ID,
		Status:      models.LinkUpStatusNone,
		IsOwner:     !p.IsAnonymous() && post.OwnerUserID == p.UserID,
		IsFull:      post.IsFull(),
	}
	if p.IsAnonymous() || view.IsOwner {
		return view, nil
	}

	req, err := s.requests.FindByRequesterAndEvent(ctx, p.UserID, eventPostID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return view, nil
		}
		return RequestView{}, fmt.Errorf("failed to load link-up request: %w", err)
	}
	view.Status = req.Status
	view.RequestID = req.ID

	if req.Status == models.LinkUpStatusAccepted {
		owner, err := s.profiles.GetProfile(ctx, post.OwnerUserID)
		switch {
		case err == nil:
			view.ContactChannel = owner.ContactChannel
			view.ContactValue = owner.ContactValue
		case !errors.Is(err, repositories.ErrNotFound):
			return RequestView{}, fmt.Errorf("failed to load owner profile: %w", err)
		}
	}
	return view, nil
}

// Incoming lists the pending requests addressed to the caller, newest first
func (s *LinkUpService) Incoming(ctx context.Context, p session.Principal) ([]IncomingRequest, error) {
	if p.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	requests, err := s.requests.ListIncoming(ctx, p.UserID, models.LinkUpStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list incoming requests: %w", err)
	}

	userIDs := make([]string, 0, len(requests))
	postIDs := make([]string, 0, len(requests))
	for _, r := range requests {
		userIDs = append(userIDs, r.FromUserID)
		postIDs = append(postIDs, r.EventPostID)
	}
	profiles, err := s.profiles.GetProfiles(ctx, uniqueStrings(userIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load requester profiles: %w", err)
	}
	posts, err := s.posts.ListByIDs(ctx, uniqueStrings(postIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load event posts: %w", err)
	}
	postsByID := make(map[string]models.EventPost, len(posts))
	for _, post := range posts {
		postsByID[post.ID] = post
	}

	incoming := make([]IncomingRequest, 0, len(requests))
	for _, r := range requests {
		item := IncomingRequest{LinkUpRequest: r, FromDisplayName: anonymousName}
		if profile, ok := profiles[r.FromUserID]; ok && profile.DisplayName != "" {
			item.FromDisplayName = profile.DisplayName
		}
		if post, ok := postsByID[r.EventPostID]; ok {
			item.PlaceName = post.PlaceName
			item.MeetupTime = post.MeetupTime
		}
		incoming = append(incoming, item)
	}
	return incoming, nil
}

// Participants lists the accepted requesters of an event with their contact
// details. Only the event owner may call it.
func (s *LinkUpService) Participants(ctx context.Context, p session.Principal, eventPostID string) ([]Participant, error) {
	if p.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	post, err := s.posts.GetEventPostByID(ctx, eventPostID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event post: %w", err)
	}
	if post.OwnerUserID != p.UserID {
		return nil, ErrForbidden
	}

	accepted, err := s.requests.ListByEvent(ctx, eventPostID, models.LinkUpStatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("failed to list accepted requests: %w", err)
	}
	userIDs := make([]string, 0, len(accepted))
	for _, r := range accepted {
		userIDs = append(userIDs, r.FromUserID)
	}
	profiles, err := s.profiles.GetProfiles(ctx, uniqueStrings(userIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load participant profiles: %w", err)
	}

	participants := make([]Participant, 0, len(accepted))
	for _, r := range accepted {
		participant := Participant{
			UserID:      r.FromUserID,
			DisplayName: anonymousName,
			RequestID:   r.ID,
			AcceptedAt:  r.UpdatedAt,
		}
		if profile, ok := profiles[r.FromUserID]; ok {
			if profile.DisplayName != "" {
				participant.DisplayName = profile.DisplayName
			}
			participant.ContactChannel = profile.ContactChannel
			participant.ContactValue = profile.ContactValue
		}
		participants = append(participants, participant)
	}
	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].AcceptedAt.Before(participants[j].AcceptedAt)
	})
	return participants, nil
}

// JoinedEvents lists the events the caller was accepted into
func (s *LinkUpService) JoinedEvents(ctx context.Context, p session.Principal) ([]models.EventPost, error) {
	if p.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	accepted, err := s.requests.ListByRequester(ctx, p.UserID, models.LinkUpStatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("failed to list accepted requests: %w", err)
	}
	ids := make([]string, 0, len(accepted))
	for _, r := range accepted {
		ids = append(ids, r.EventPostID)
	}
	posts, err := s.posts.ListByIDs(ctx, uniqueStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load joined events: %w", err)
	}
	return posts, nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
