package session

import "github.com/labstack/echo/v4"

// contextKey is the echo context key the auth middleware stores the principal under
const contextKey = "principal"

// Principal identifies the caller of an operation. It is passed explicitly
// into every service call.
type Principal struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Anonymous is the principal of an unauthenticated caller
var Anonymous = Principal{}

// IsAnonymous reports whether the principal carries no identity
func (p Principal) IsAnonymous() bool {
	return p.UserID == ""
}

// Set stores the principal on the request context
func Set(c echo.Context, p Principal) {
	c.Set(contextKey, p)
}

// FromContext returns the principal stored by the auth middleware, or Anonymous
func FromContext(c echo.Context) Principal {
	if p, ok := c.Get(contextKey).(Principal); ok {
		return p
	}
	return Anonymous
}
