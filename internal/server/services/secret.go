// Package services implements the application core: creating, viewing,
// revoking and sweeping secrets, with every access attempt recorded in the
// append-only ledger.
package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hushdrop/hushdrop/internal/common"
	"github.com/hushdrop/hushdrop/internal/cryptox"
	"github.com/hushdrop/hushdrop/internal/dbx"
	"github.com/hushdrop/hushdrop/internal/logging"
	sc "github.com/hushdrop/hushdrop/internal/server/config"
	"github.com/hushdrop/hushdrop/internal/server/models"
	"github.com/hushdrop/hushdrop/internal/server/policy"
	"github.com/hushdrop/hushdrop/internal/server/repositories/repomanager"
)

const (
	// tokenBytes is the number of random bytes per token; 32 bytes gives
	// 256 bits of entropy, which makes collision and guessing negligible.
	tokenBytes = 32

	// creatorListLimit caps the "recent secrets for this creator" listing.
	creatorListLimit = 10

	// DefaultRecentLogLimit is used when a ledger listing does not specify
	// its own limit.
	DefaultRecentLogLimit = 100
)

// SecretService orchestrates the secret store, the lifecycle policy, the
// crypto engine and the access ledger.
type SecretService struct {
	db  *sql.DB
	rm  repomanager.RepositoryManager
	cfg *sc.Config
	key []byte
	log logging.Logger

	// now is the clock source; replaceable in tests.
	now func() time.Time
}

// NewSecretService wires a service over the given database handle and
// repository manager. key must be a 32-byte AES key.
func NewSecretService(db *sql.DB, rm repomanager.RepositoryManager, cfg *sc.Config, key []byte, log logging.Logger) *SecretService {
	return &SecretService{
		db:  db,
		rm:  rm,
		cfg: cfg,
		key: key,
		log: log,
		now: time.Now,
	}
}

// CreateSecret validates the request, encrypts the plaintext and persists a
// new secret, then records a `created` ledger entry. A token collision
// (cryptographically unlikely) is retried once with a fresh token.
func (s *SecretService) CreateSecret(ctx context.Context, plaintext string, maxViews int, expiresAt *time.Time, creatorIP, userAgent string) (*models.Secret, error) {
	if maxViews <= 0 {
		return nil, fmt.Errorf("%w: max views must be greater than zero", common.ErrValidation)
	}
	if plaintext == "" {
		return nil, fmt.Errorf("%w: content is required", common.ErrValidation)
	}

	now := s.now()
	exp := now.Add(s.cfg.DefaultSecretTTL)
	if expiresAt != nil {
		exp = *expiresAt
	}

	ciphertext, iv, err := cryptox.Encrypt([]byte(plaintext), s.key)
	if err != nil {
		return nil, fmt.Errorf("encrypt error: %w", err)
	}

	secret := &models.Secret{
		ID:          uuid.NewString(),
		Ciphertext:  base64.StdEncoding.EncodeToString(ciphertext),
		IV:          base64.StdEncoding.EncodeToString(iv),
		ExpiresAt:   exp,
		CreatedByIP: creatorIP,
		MaxViews:    maxViews,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	repo := s.rm.Secrets(s.db)
	for attempt := 0; ; attempt++ {
		secret.Token, err = common.MakeURLSafeToken(tokenBytes)
		if err != nil {
			return nil, fmt.Errorf("token generation error: %w", err)
		}
		err = repo.Create(ctx, secret)
		if errors.Is(err, common.ErrTokenCollision) && attempt == 0 {
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}

	s.logAccess(ctx, s.db, &secret.ID, models.ActionCreated, creatorIP, userAgent, nil)

	return secret, nil
}

// ViewSecret is the consuming read. On success the caller receives the
// plaintext exactly once; the view is accounted atomically together with
// its ledger entry, so once the limit is hit no later call can succeed.
// The returned buffer should be wiped by the caller when done.
func (s *SecretService) ViewSecret(ctx context.Context, token, ip, userAgent string) ([]byte, error) {
	now := s.now()

	secret, err := s.rm.Secrets(s.db).FindActive(ctx, token, now)
	if err != nil {
		return nil, err
	}
	if secret == nil {
		details := fmt.Sprintf("Attempted to access non-existent secret: %s", token)
		s.logAccess(ctx, s.db, nil, models.ActionFailedAttempt, ip, userAgent, &details)
		return nil, common.ErrNotFound
	}

	// FindActive already filtered, but the policy check is authoritative.
	if !policy.IsViewable(secret, now) {
		s.logFailedKnown(ctx, secret.ID, ip, userAgent)
		return nil, common.ErrGone
	}

	plaintext, decErr := s.decryptContent(secret)

	// The increment and its ledger entry commit together: a secret can
	// only reach the terminal state with its final audit record in place.
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := s.rm.Secrets(tx).RecordView(ctx, secret.ID, now)
		if err != nil {
			return err
		}
		action := models.ActionViewed
		var details *string
		if res.Revoked {
			action = models.ActionRevoked
			d := fmt.Sprintf("Secret revoked after %d views", secret.MaxViews)
			details = &d
		}
		return s.recordEntry(ctx, tx, &secret.ID, action, ip, userAgent, details)
	})
	if errors.Is(err, common.ErrGone) {
		// Lost the race to a concurrent viewer or revoker.
		common.WipeByteArray(plaintext)
		s.logFailedKnown(ctx, secret.ID, ip, userAgent)
		return nil, common.ErrGone
	}
	if err != nil {
		common.WipeByteArray(plaintext)
		return nil, err
	}

	if decErr != nil {
		return nil, decErr
	}
	return plaintext, nil
}

// RevokeSecret marks a secret revoked on behalf of its creator. The
// requester address must match the recorded creator address; on mismatch
// nothing is mutated and nothing is logged as a revocation.
func (s *SecretService) RevokeSecret(ctx context.Context, token, requesterIP, userAgent string) error {
	secret, err := s.rm.Secrets(s.db).FindAny(ctx, token, false)
	if err != nil {
		return err
	}
	if secret == nil {
		details := fmt.Sprintf("Attempted to revoke non-existent secret: %s", token)
		s.logAccess(ctx, s.db, nil, models.ActionFailedAttempt, requesterIP, userAgent, &details)
		return common.ErrNotFound
	}

	if secret.CreatedByIP != requesterIP {
		return common.ErrOwnership
	}

	transitioned, err := s.rm.Secrets(s.db).Revoke(ctx, secret.ID, s.now())
	if err != nil {
		return err
	}
	if !transitioned {
		// Someone else revoked it first; do not re-log.
		return common.ErrGone
	}

	details := "Secret manually revoked by creator"
	s.logAccess(ctx, s.db, &secret.ID, models.ActionManuallyRevoked, requesterIP, userAgent, &details)

	return nil
}

// ListRecentForCreator returns the requester's most recently created
// secrets, newest first.
func (s *SecretService) ListRecentForCreator(ctx context.Context, ip string) ([]*models.Secret, error) {
	return s.rm.Secrets(s.db).ListByCreator(ctx, ip, creatorListLimit)
}

// RecentAccessLog returns the newest ledger entries, most recent first.
// A non-positive limit falls back to DefaultRecentLogLimit.
func (s *SecretService) RecentAccessLog(ctx context.Context, limit int) ([]*models.AccessLogEntry, error) {
	if limit <= 0 {
		limit = DefaultRecentLogLimit
	}
	return s.rm.AccessLogs(s.db).Recent(ctx, limit)
}

// RunExpirySweep deletes every secret that is revoked or past its expiry,
// together with its linked ledger entries, and returns the number removed.
// Repeated invocation is idempotent.
func (s *SecretService) RunExpirySweep(ctx context.Context) (int64, error) {
	count, err := s.rm.Secrets(s.db).PurgeExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	s.log.Info(ctx, "cleaned up expired secrets", "count", count)
	return count, nil
}

// decryptContent decodes and decrypts the stored payload. Absent, corrupt
// and tampered content all collapse into ErrContentUnavailable; callers
// never learn which it was.
func (s *SecretService) decryptContent(secret *models.Secret) ([]byte, error) {
	if secret.Ciphertext == "" || secret.IV == "" {
		return nil, common.ErrContentUnavailable
	}
	ciphertext, err := base64.StdEncoding.DecodeString(secret.Ciphertext)
	if err != nil {
		return nil, common.ErrContentUnavailable
	}
	iv, err := base64.StdEncoding.DecodeString(secret.IV)
	if err != nil {
		return nil, common.ErrContentUnavailable
	}
	plaintext, err := cryptox.Decrypt(ciphertext, iv, s.key)
	if err != nil {
		return nil, common.ErrContentUnavailable
	}
	return plaintext, nil
}

// recordEntry appends one ledger entry using the given handle (plain or
// transactional) and propagates storage errors to the caller.
func (s *SecretService) recordEntry(ctx context.Context, db dbx.DBTX, secretID *string, action, ip, userAgent string, details *string) error {
	now := s.now()
	return s.rm.AccessLogs(db).Record(ctx, &models.AccessLogEntry{
		ID:         uuid.NewString(),
		SecretID:   secretID,
		IPAddress:  ip,
		UserAgent:  userAgent,
		Action:     action,
		Details:    details,
		AccessedAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// logAccess is the best-effort variant of recordEntry: the write is
// attempted synchronously but a failure only produces an error log, never
// a failure of the enclosing operation.
func (s *SecretService) logAccess(ctx context.Context, db dbx.DBTX, secretID *string, action, ip, userAgent string, details *string) {
	if err := s.recordEntry(ctx, db, secretID, action, ip, userAgent, details); err != nil {
		s.log.Error(ctx, "access log write failed", "action", action, "error", err.Error())
	}
}

func (s *SecretService) logFailedKnown(ctx context.Context, secretID, ip, userAgent string) {
	details := "Secret already viewed or expired"
	s.logAccess(ctx, s.db, &secretID, models.ActionFailedAttemptKnown, ip, userAgent, &details)
}
