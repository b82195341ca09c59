package auth

import "errors"

// Token validation errors returned by JWTService implementations. Callers
// branch on these with errors.Is to decide the HTTP status and message.
var (
	// ErrInvalidToken indicates the token failed signature verification or
	// is otherwise structurally unusable.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the access token's expiry has passed.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the access token's NotBefore time is in
	// the future beyond the allowed clock skew.
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates no token was supplied where one is required.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrExpiredRefreshToken indicates the refresh token's expiry has passed
	// and the user must authenticate again.
	ErrExpiredRefreshToken = errors.New("refresh token has expired")

	// ErrInvalidRefreshToken indicates the refresh token failed validation.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrWrongTokenType indicates a token of one type was presented where the
	// other type is required, such as an access token at the refresh endpoint.
	ErrWrongTokenType = errors.New("wrong token type")
)
