package handlers

import (
	"net/http"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/anonto42/linkup/backend/internal/session"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to event posts
type PostHandler struct {
	posts *services.EventPostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.EventPostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// RegisterPostRoutes registers event post routes
func (h *PostHandler) RegisterPostRoutes(public, private *echo.Group, limit echo.MiddlewareFunc) {
	public.GET("/posts", h.GetPosts)
	public.GET("/posts/:id", h.GetPost)
	private.POST("/posts", h.CreatePost, limit)
	private.PUT("/posts/:id", h.UpdatePost)
	private.DELETE("/posts/:id", h.DeletePost)
	private.GET("/me/events", h.GetMyEvents)
}

// CreatePost creates a new event post for the caller
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreateEventPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.posts.Create(c.Request().Context(), session.FromContext(c), services.CreateEventPostInput{
		PlaceName:       req.PlaceName,
		MeetupTime:      req.MeetupTime,
		MaxParticipants: req.MaxParticipants,
		Description:     req.Description,
	})
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves an event post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.posts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// GetPosts lists the posts at a location, newest first
func (h *PostHandler) GetPosts(c echo.Context) error {
	posts, err := h.posts.ListByLocation(c.Request().Context(), c.QueryParam("location"))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, posts)
}

// UpdatePost edits a post owned by the caller
func (h *PostHandler) UpdatePost(c echo.Context) error {
	var req models.UpdateEventPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.posts.Update(c.Request().Context(), session.FromContext(c), c.Param("id"), services.UpdateEventPostInput{
		MeetupTime:      req.MeetupTime,
		MaxParticipants: req.MaxParticipants,
		Description:     req.Description,
	})
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post owned by the caller
func (h *PostHandler) DeletePost(c echo.Context) error {
	if err := h.posts.Delete(c.Request().Context(), session.FromContext(c), c.Param("id")); err != nil {
		return toHTTPError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetMyEvents lists the caller's owned and joined events
func (h *PostHandler) GetMyEvents(c echo.Context) error {
	events, err := h.posts.MyEvents(c.Request().Context(), session.FromContext(c))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, events)
}
