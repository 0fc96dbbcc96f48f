package services

import (
	"errors"
	"strings"

	"github.com/anonto42/linkup/backend/internal/repositories"
)

var (
	// ErrNotFound is re-exported so callers can match missing documents without importing repositories
	ErrNotFound = repositories.ErrNotFound
	// ErrIndexRequired is re-exported for the transient "setting up" condition
	ErrIndexRequired = repositories.ErrIndexRequired

	ErrUnauthenticated  = errors.New("sign in required")
	ErrForbidden        = errors.New("not allowed")
	ErrNotPending       = errors.New("request is no longer pending")
	ErrInvalidDecision  = errors.New("decision must be accepted or declined")
	ErrAlreadyRated     = errors.New("already rated")
	ErrInvalidStars     = errors.New("stars must be between 1 and 5")
	ErrSelfRating       = errors.New("cannot rate yourself")
	ErrLocationRequired = errors.New("location is required")
)

// SettingUpMessage is shown while the store is still building an index
const SettingUpMessage = "We're setting things up, please try again in a moment"

// ValidationError lists every problem found in an input
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) add(problem string) {
	e.Problems = append(e.Problems, problem)
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}
