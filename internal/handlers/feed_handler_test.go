package handlers

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// unwatchablePosts fails to open any live query
type unwatchablePosts struct {
	repositories.EventPostRepository
}

func (unwatchablePosts) WatchLocation(context.Context, string) (<-chan repositories.Snapshot, error) {
	return nil, errors.New("dial tcp 10.0.0.7:443: connection refused (project linkup-prod)")
}

func dialLiveFeed(t *testing.T, posts repositories.EventPostRepository, query string) *websocket.Conn {
	t.Helper()
	store := repositories.NewMemoryStore().Store()
	h := NewFeedHandler(services.NewFeedService(posts), services.NewRecommendationService(store))

	e := echo.New()
	h.RegisterFeedRoutes(e.Group("/api/v1"))
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/feed/live" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFeedState(t *testing.T, conn *websocket.Conn) services.FeedState {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var state services.FeedState
	if err := conn.ReadJSON(&state); err != nil {
		t.Fatalf("read: %v", err)
	}
	return state
}

func TestLiveFeedHidesStoreErrors(t *testing.T) {
	conn := dialLiveFeed(t, unwatchablePosts{}, "?location=Negril")

	state := readFeedState(t, conn)
	if state.Status != services.FeedError || state.Location != "Negril" {
		t.Fatalf("expected an error state for Negril, got %+v", state)
	}
	if strings.Contains(state.Message, "10.0.0.7") || strings.Contains(state.Message, "linkup-prod") {
		t.Fatalf("store details leaked to the client: %q", state.Message)
	}
	if state.Message != services.UserMessage(errors.New("any store error")) {
		t.Fatalf("expected the generic message, got %q", state.Message)
	}
}

func TestLiveFeedReportsMissingLocation(t *testing.T) {
	conn := dialLiveFeed(t, repositories.NewMemoryStore(), "")

	if err := conn.WriteJSON(map[string]string{"location": "  "}); err != nil {
		t.Fatalf("write: %v", err)
	}
	state := readFeedState(t, conn)
	if state.Status != services.FeedError || state.Message != services.ErrLocationRequired.Error() {
		t.Fatalf("expected the location-required message, got %+v", state)
	}
}
