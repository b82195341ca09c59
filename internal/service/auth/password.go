package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier defines the interface for comparing a password against
// a stored hash.
type PasswordVerifier interface {
	// Compare checks whether the plaintext password matches the hash.
	// It returns nil on a match and an error otherwise.
	Compare(ctx context.Context, hashedPassword, password string) error
}

// BcryptVerifier implements PasswordVerifier using bcrypt.
type BcryptVerifier struct{}

var _ PasswordVerifier = (*BcryptVerifier)(nil)

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare checks the plaintext password against the bcrypt hash.
func (v *BcryptVerifier) Compare(_ context.Context, hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
