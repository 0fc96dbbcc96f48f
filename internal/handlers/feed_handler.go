package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/anonto42/linkup/backend/internal/session"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	feedWriteTimeout = 10 * time.Second
	feedPongTimeout  = 60 * time.Second
	feedPingInterval = 50 * time.Second
)

// FeedHandler serves the live location feed and recommendations
type FeedHandler struct {
	feeds           *services.FeedService
	recommendations *services.RecommendationService
	upgrader        websocket.Upgrader
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feeds *services.FeedService, recommendations *services.RecommendationService) *FeedHandler {
	return &FeedHandler{
		feeds:           feeds,
		recommendations: recommendations,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// RegisterFeedRoutes registers feed routes
func (h *FeedHandler) RegisterFeedRoutes(public *echo.Group) {
	public.GET("/feed/live", h.LiveFeed)
	public.GET("/recommendations", h.GetRecommendations)
}

// switchLocation is the only message a feed client sends
type switchLocation struct {
	Location string `json:"location"`
}

// LiveFeed upgrades to a WebSocket and streams feed states for one location
// at a time. Sending {"location": "..."} replaces the active subscription.
func (h *FeedHandler) LiveFeed(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := c.Request().Context()
	feed := h.feeds.NewFeed()
	defer feed.Close()

	done := make(chan struct{})
	defer close(done)
	switches := make(chan string)
	go readSwitches(conn, switches, done)

	var states <-chan services.FeedState
	subscribe := func(location string) bool {
		sub, err := feed.Switch(ctx, location)
		if err != nil {
			states = nil
			if !errors.Is(err, services.ErrLocationRequired) {
				c.Logger().Errorf("live feed %q: %v", location, err)
			}
			return writeFeedState(conn, services.FeedState{
				Status:   services.FeedError,
				Location: location,
				Message:  services.UserMessage(err),
			}) == nil
		}
		states = sub.States()
		return true
	}

	if location := c.QueryParam("location"); location != "" {
		if !subscribe(location) {
			return nil
		}
	}

	ping := time.NewTicker(feedPingInterval)
	defer ping.Stop()

	for {
		select {
		case location, ok := <-switches:
			if !ok {
				return nil
			}
			if !subscribe(location) {
				return nil
			}
		case state, ok := <-states:
			if !ok {
				states = nil
				continue
			}
			if err := writeFeedState(conn, state); err != nil {
				return nil
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(feedWriteTimeout)); err != nil {
				return nil
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// readSwitches forwards location changes until the client goes away
func readSwitches(conn *websocket.Conn, out chan<- string, done <-chan struct{}) {
	defer close(out)
	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(feedPongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(feedPongTimeout))
	})
	for {
		var msg switchLocation
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(feedPongTimeout))
		select {
		case out <- msg.Location:
		case <-done:
			return
		}
	}
}

func writeFeedState(conn *websocket.Conn, state services.FeedState) error {
	_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
	return conn.WriteJSON(state)
}

// GetRecommendations ranks upcoming posts by the caller's interests
func (h *FeedHandler) GetRecommendations(c echo.Context) error {
	recs, err := h.recommendations.Recommend(c.Request().Context(), session.FromContext(c))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, recs)
}
