// Package auth provides authentication services for the application,
// covering JWT issuance and validation and password verification.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Claims represents the validated contents of a JWT in a form independent
// of the underlying JWT library.
type Claims struct {
	// UserID is the unique identifier of the authenticated user.
	UserID uuid.UUID `json:"uid,omitempty"`

	// TokenType distinguishes access tokens from refresh tokens.
	TokenType string `json:"type,omitempty"`

	// Subject identifies the principal that is the subject of the token.
	Subject string `json:"sub,omitempty"`

	// IssuedAt is when the token was issued.
	IssuedAt time.Time `json:"iat,omitempty"`

	// ExpiresAt is when the token expires.
	ExpiresAt time.Time `json:"exp,omitempty"`

	// ID is a unique identifier for this specific token.
	ID string `json:"jti,omitempty"`
}

// JWTService defines operations for generating and validating JWTs.
type JWTService interface {
	// GenerateToken creates a signed access token for the given user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken verifies an access token and returns its claims.
	// It returns ErrExpiredToken, ErrTokenNotYetValid, ErrWrongTokenType,
	// or ErrInvalidToken when validation fails.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed refresh token for the given
	// user. Refresh tokens have a longer lifetime than access tokens and
	// may only be used to obtain new token pairs.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateRefreshToken verifies a refresh token and returns its claims.
	// It returns ErrExpiredRefreshToken, ErrWrongTokenType, or
	// ErrInvalidRefreshToken when validation fails.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}
