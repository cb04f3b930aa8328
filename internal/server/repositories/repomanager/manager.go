package repomanager

import (
	"context"
	"database/sql"

	"github.com/hushdrop/hushdrop/internal/dbx"
	"github.com/hushdrop/hushdrop/internal/server/repositories/accesslogs"
	"github.com/hushdrop/hushdrop/internal/server/repositories/secrets"
)

// RepositoryManager vends repositories bound to an arbitrary DBTX, so the
// same wiring serves plain queries and multi-statement transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Secrets(db dbx.DBTX) secrets.Repository
	AccessLogs(db dbx.DBTX) accesslogs.Repository
}
