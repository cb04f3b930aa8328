package accesslogs

import (
	"context"

	"github.com/hushdrop/hushdrop/internal/server/models"
)

// Repository is the append-only contract for the access ledger. Entries are
// never updated or deleted directly; linked entries disappear only through
// the cascade when their secret is purged.
type Repository interface {
	// Record appends one entry.
	Record(ctx context.Context, e *models.AccessLogEntry) error

	// Recent returns up to limit entries, newest first, with the owning
	// secret's token attached where the secret still exists.
	Recent(ctx context.Context, limit int) ([]*models.AccessLogEntry, error)
}
