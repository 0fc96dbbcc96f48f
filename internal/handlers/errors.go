package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// toHTTPError maps service errors onto HTTP responses. Unexpected errors are
// logged and hidden behind a generic message.
func toHTTPError(c echo.Context, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{
			"message":  "Invalid input",
			"problems": verr.Problems,
		})
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, "Please sign in first")
	case errors.Is(err, services.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "You are not allowed to do that")
	case errors.Is(err, services.ErrInvalidDecision),
		errors.Is(err, services.ErrInvalidStars),
		errors.Is(err, services.ErrSelfRating),
		errors.Is(err, services.ErrLocationRequired):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrAlreadyRated):
		return echo.NewHTTPError(http.StatusConflict, "You have already rated this user for this event")
	case errors.Is(err, services.ErrNotPending):
		return echo.NewHTTPError(http.StatusConflict, "This request has already been answered")
	case errors.Is(err, services.ErrIndexRequired):
		return echo.NewHTTPError(http.StatusServiceUnavailable, services.SettingUpMessage)
	}
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong, please try again")
}

// bindAndValidate decodes the request body into req and runs the registered validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
