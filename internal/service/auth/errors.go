package auth

import "errors"

// Token service errors. The verifier collapses all of them into
// domain.ErrInvalidCredential before they leave this package.
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrTokenRevoked indicates the token ID is on the revocation list
	ErrTokenRevoked = errors.New("authentication token has been revoked")

	// ErrMissingSubject indicates a token carried neither userId nor sub
	ErrMissingSubject = errors.New("authentication token has no subject")
)
