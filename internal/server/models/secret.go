// Package models defines the persisted entities of the secret store.
package models

import "time"

// Secret is one shareable encrypted payload, addressed by an unguessable
// URL-safe token instead of its primary id.
//
// Ciphertext and IV are base64-encoded and written exactly once, at
// creation; they are never mutated afterwards. ViewCount only moves up,
// only via a successful view, and never exceeds MaxViews. Revoked is
// terminal: it is set either by the view that exhausts MaxViews or by the
// creator, and never cleared.
type Secret struct {
	ID          string
	Token       string
	Ciphertext  string
	IV          string
	ExpiresAt   time.Time
	CreatedByIP string
	MaxViews    int
	ViewCount   int
	Revoked     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
