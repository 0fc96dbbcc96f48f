package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/linkup/backend/internal/session"
	"github.com/labstack/echo/v4"
)

var errNoToken = errors.New("authorization header is missing")

// TokenVerifier turns a bearer token into the principal it was issued to
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (session.Principal, error)
}

// RequireAuth rejects requests without a valid bearer token
func RequireAuth(v TokenVerifier) echo.MiddlewareFunc {
	return authenticate(v, true)
}

// OptionalAuth lets anonymous requests through but still rejects invalid tokens
func OptionalAuth(v TokenVerifier) echo.MiddlewareFunc {
	return authenticate(v, false)
}

func authenticate(v TokenVerifier, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c.Request())
			if errors.Is(err, errNoToken) && !required {
				session.Set(c, session.Anonymous)
				return next(c)
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			principal, err := v.Verify(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}
			session.Set(c, principal)
			return next(c)
		}
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
// Browsers cannot set headers on WebSocket upgrades, so a token query parameter is accepted too.
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if token := r.URL.Query().Get("token"); token != "" {
			return token, nil
		}
		return "", errNoToken
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", errors.New("authorization header must be in Bearer format")
	}
	return parts[1], nil
}
