package ports

import (
	"context"

	"github.com/google/uuid"
)

// AuthClaims is the verified identity attached to each request.
// The subject is the actor id used for every role-gated deal check.
type AuthClaims struct {
	UserID uuid.UUID
	Role   string
}

// TokenVerifier validates platform-issued bearer tokens.
// This service only verifies; token issuance belongs to the auth service.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (AuthClaims, error)
}
