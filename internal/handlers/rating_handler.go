package handlers

import (
	"net/http"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/anonto42/linkup/backend/internal/session"
	"github.com/labstack/echo/v4"
)

// RatingHandler handles HTTP requests related to ratings
type RatingHandler struct {
	ratings *services.RatingService
}

// NewRatingHandler creates a new RatingHandler
func NewRatingHandler(ratings *services.RatingService) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

// RegisterRatingRoutes registers rating routes
func (h *RatingHandler) RegisterRatingRoutes(public, private *echo.Group, limit echo.MiddlewareFunc) {
	private.POST("/posts/:id/ratings", h.RateParticipant, limit)
	public.GET("/users/:id/ratings", h.GetRatingsForUser)
	public.GET("/users/:id/rating", h.GetRatingSummary)
}

// RateParticipant records the caller's rating of another participant of an event
func (h *RatingHandler) RateParticipant(c echo.Context) error {
	var req models.CreateRatingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	rating, err := h.ratings.Submit(c.Request().Context(), session.FromContext(c), services.SubmitRatingInput{
		EventPostID: c.Param("id"),
		ToUserID:    req.ToUserID,
		Stars:       req.Stars,
		Comment:     req.Comment,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, rating)
}

// GetRatingsForUser lists the ratings a user received, newest first
func (h *RatingHandler) GetRatingsForUser(c echo.Context) error {
	ratings, err := h.ratings.ListForUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, ratings)
}

// GetRatingSummary returns a user's rating count and average
func (h *RatingHandler) GetRatingSummary(c echo.Context) error {
	summary, err := h.ratings.Stats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
