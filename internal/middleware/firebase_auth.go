package middleware

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/linkup/backend/internal/session"
)

// FirebaseVerifier verifies Firebase ID tokens
type FirebaseVerifier struct {
	authClient *auth.Client
}

// NewFirebaseVerifier creates a verifier backed by the Firebase Auth client
func NewFirebaseVerifier(authClient *auth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{authClient: authClient}
}

// Verify checks the ID token signature and expiry and reads the user's name and email claims
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (session.Principal, error) {
	token, err := v.authClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		return session.Anonymous, fmt.Errorf("invalid or expired ID token: %w", err)
	}
	principal := session.Principal{UserID: token.UID}
	if name, ok := token.Claims["name"].(string); ok {
		principal.DisplayName = name
	}
	if email, ok := token.Claims["email"].(string); ok {
		principal.Email = email
	}
	return principal, nil
}
