// Package accesslogs provides the PostgreSQL-backed repository for the
// append-only access ledger.
package accesslogs

import (
	"context"
	"fmt"

	"github.com/hushdrop/hushdrop/internal/dbx"
	"github.com/hushdrop/hushdrop/internal/server/models"
)

// PostgresRepository implements ledger storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Record(ctx context.Context, e *models.AccessLogEntry) error {
	query := `
		INSERT INTO access_logs (id, secret_id, ip_address, user_agent, action, details, accessed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.SecretID, e.IPAddress, e.UserAgent, e.Action, e.Details,
		e.AccessedAt, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]*models.AccessLogEntry, error) {
	query := `
		SELECT l.id, l.secret_id, s.token, l.ip_address, l.user_agent, l.action, l.details, l.accessed_at, l.created_at, l.updated_at
		FROM access_logs l
		LEFT JOIN secrets s ON s.id = l.secret_id
		ORDER BY l.accessed_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select access logs: %w", err)
	}
	defer rows.Close()

	var result []*models.AccessLogEntry
	for rows.Next() {
		var item models.AccessLogEntry
		if err := rows.Scan(
			&item.ID, &item.SecretID, &item.SecretToken, &item.IPAddress,
			&item.UserAgent, &item.Action, &item.Details, &item.AccessedAt,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
