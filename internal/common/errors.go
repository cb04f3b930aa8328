// Package common defines shared constants and sentinel errors used across
// hushdrop components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Validation errors: rejected before anything is persisted and before
	// any ledger entry is written.
	ErrValidation = errors.New("validation error")

	// Repository-level errors.
	ErrNotFound       = errors.New("not found")
	ErrTokenCollision = errors.New("token collision")

	// Lifecycle errors. ErrGone covers expired, revoked and
	// viewed-to-exhaustion secrets; callers never learn which.
	ErrGone = errors.New("gone")

	// ErrContentUnavailable is returned when stored ciphertext cannot be
	// decrypted. Tampered and absent content are deliberately
	// indistinguishable.
	ErrContentUnavailable = errors.New("content unavailable")

	// ErrOwnership is returned for a revocation attempt from an address
	// other than the creator's.
	ErrOwnership = errors.New("not the creator")

	// Auth errors (invalid or malformed admin token).
	ErrInvalidToken = errors.New("invalid token")
)
