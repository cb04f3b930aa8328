// Package secrets provides the PostgreSQL-backed repository for secret
// persistence, including the atomic view accounting.
package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hushdrop/hushdrop/internal/common"
	"github.com/hushdrop/hushdrop/internal/dbx"
	"github.com/hushdrop/hushdrop/internal/server/models"
)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

const selectColumns = `id, token, ciphertext, iv, expires_at, created_by_ip, max_views, view_count, revoked, created_at, updated_at`

// PostgresRepository implements secret storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Secret) error {
	query := `
		INSERT INTO secrets (id, token, ciphertext, iv, expires_at, created_by_ip, max_views, view_count, revoked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Token, s.Ciphertext, s.IV, s.ExpiresAt, s.CreatedByIP,
		s.MaxViews, s.ViewCount, s.Revoked, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return common.ErrTokenCollision
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindActive(ctx context.Context, token string, now time.Time) (*models.Secret, error) {
	query := `SELECT ` + selectColumns + ` FROM secrets
		WHERE token=$1 AND revoked=FALSE AND expires_at > $2 AND view_count < max_views`
	return r.queryOne(ctx, query, token, now)
}

func (r *PostgresRepository) FindAny(ctx context.Context, token string, includeRevoked bool) (*models.Secret, error) {
	query := `SELECT ` + selectColumns + ` FROM secrets WHERE token=$1`
	if !includeRevoked {
		query += ` AND revoked=FALSE`
	}
	return r.queryOne(ctx, query, token)
}

// RecordView performs the increment-compare-revoke sequence as one guarded
// UPDATE, so concurrent viewers of a maxViews=1 secret cannot both succeed:
// the row-level write lock serializes them and the WHERE clause turns the
// loser into zero affected rows.
func (r *PostgresRepository) RecordView(ctx context.Context, id string, now time.Time) (*ViewResult, error) {
	query := `
		UPDATE secrets
		SET view_count = view_count + 1,
			revoked = (view_count + 1 >= max_views),
			updated_at = $2
		WHERE id=$1 AND revoked=FALSE AND expires_at > $2 AND view_count < max_views
		RETURNING view_count, revoked;
	`
	res := &ViewResult{}
	err := r.db.QueryRowContext(ctx, query, id, now).Scan(&res.ViewCount, &res.Revoked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrGone
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return res, nil
}

func (r *PostgresRepository) Revoke(ctx context.Context, id string, now time.Time) (bool, error) {
	query := `UPDATE secrets SET revoked=TRUE, updated_at=$2 WHERE id=$1 AND revoked=FALSE;`
	res, err := r.db.ExecContext(ctx, query, id, now)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM secrets WHERE revoked=TRUE OR expires_at <= $1;`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) ListByCreator(ctx context.Context, ip string, limit int) ([]*models.Secret, error) {
	query := `SELECT ` + selectColumns + ` FROM secrets
		WHERE created_by_ip=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, ip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select secrets: %w", err)
	}
	defer rows.Close()

	var result []*models.Secret
	for rows.Next() {
		item, err := scanSecret(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.Secret, error) {
	row := r.db.QueryRowContext(ctx, query, args...)
	item, err := scanSecret(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSecret(s scanner) (*models.Secret, error) {
	var item models.Secret
	var ciphertext, iv sql.NullString
	if err := s.Scan(
		&item.ID, &item.Token, &ciphertext, &iv, &item.ExpiresAt,
		&item.CreatedByIP, &item.MaxViews, &item.ViewCount, &item.Revoked,
		&item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	item.Ciphertext = ciphertext.String
	item.IV = iv.String
	return &item, nil
}
