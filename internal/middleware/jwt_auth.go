package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/linkup/backend/internal/session"
	"github.com/golang-jwt/jwt/v4"
)

// Claims are the HS256 token claims used in local development; Subject is the user ID
type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier verifies HS256 tokens signed with a shared secret
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for tokens signed with secret
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify parses the token and returns the principal named by its subject
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (session.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return session.Anonymous, err
	}
	if !token.Valid || claims.Subject == "" {
		return session.Anonymous, errors.New("invalid token")
	}
	return session.Principal{UserID: claims.Subject, DisplayName: claims.Name, Email: claims.Email}, nil
}

// Sign issues a token for the principal that expires after ttl
func (v *JWTVerifier) Sign(p session.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:  p.DisplayName,
		Email: p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
