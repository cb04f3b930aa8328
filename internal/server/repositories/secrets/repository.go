package secrets

import (
	"context"
	"time"

	"github.com/hushdrop/hushdrop/internal/server/models"
)

// ViewResult carries the post-state of an atomic view: the new view count
// and whether that view was the one that exhausted the limit.
type ViewResult struct {
	ViewCount int
	Revoked   bool
}

// Repository is the persistence contract for secrets. Lookups that find
// nothing return (nil, nil); errors are reserved for storage failures.
type Repository interface {
	// Create persists a new secret. A token collision with an existing row
	// is reported as common.ErrTokenCollision so the caller can regenerate.
	Create(ctx context.Context, s *models.Secret) error

	// FindActive returns the secret only if it is currently viewable:
	// not revoked, not expired at now, views remaining.
	FindActive(ctx context.Context, token string, now time.Time) (*models.Secret, error)

	// FindAny looks a secret up regardless of expiry and view count.
	// With includeRevoked=false a revoked secret is treated as absent;
	// this is the lookup used for owner-initiated revocation.
	FindAny(ctx context.Context, token string, includeRevoked bool) (*models.Secret, error)

	// RecordView atomically increments the view count and flips the secret
	// to revoked when the limit is reached, in a single guarded statement.
	// If the secret is no longer viewable at execution time it returns
	// common.ErrGone and changes nothing.
	RecordView(ctx context.Context, id string, now time.Time) (*ViewResult, error)

	// Revoke marks the secret revoked. It reports whether this call was
	// the one that performed the transition; false means someone else
	// already had.
	Revoke(ctx context.Context, id string, now time.Time) (bool, error)

	// PurgeExpired deletes every secret that is revoked or past its
	// expiry, cascading to its access log entries, and returns the number
	// of secrets removed.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)

	// ListByCreator returns up to limit secrets created from ip, newest
	// first.
	ListByCreator(ctx context.Context, ip string, limit int) ([]*models.Secret, error)
}
