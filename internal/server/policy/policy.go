// Package policy holds the lifecycle predicates for secrets. The read path
// and the purge sweep both answer their questions here, so "can be viewed"
// and "can be purged" cannot drift apart.
package policy

import (
	"time"

	"github.com/hushdrop/hushdrop/internal/server/models"
)

// IsViewable reports whether the secret may still be served: not revoked,
// not past its expiry, and not viewed to exhaustion.
func IsViewable(s *models.Secret, now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt) && s.ViewCount < s.MaxViews
}

// ShouldPurge reports whether the secret is terminal and may be physically
// deleted. Terminal records have completed all their mutations, so the
// sweep can never race an in-flight view.
func ShouldPurge(s *models.Secret, now time.Time) bool {
	return s.Revoked || !now.Before(s.ExpiresAt)
}
