package models

import "time"

// Access actions recorded in the ledger. The set is closed; note that
// ActionFailedAttemptKnown intentionally differs from ActionFailedAttempt
// only by the space, matching the historical log format: the underscored
// form means the token resolved to nothing, the spaced form means the
// secret exists but was not viewable.
const (
	ActionCreated            = "created"
	ActionViewed             = "viewed"
	ActionRevoked            = "revoked"
	ActionManuallyRevoked    = "manually_revoked"
	ActionFailedAttempt      = "failed_attempt"
	ActionFailedAttemptKnown = "failed attempt"
)

// AccessLogEntry is one append-only audit record. SecretID is nil only for
// lookups of tokens that resolved to no secret; linked entries share their
// secret's deletion lifecycle via the FK cascade.
type AccessLogEntry struct {
	ID          string
	SecretID    *string
	SecretToken *string // filled on reads that join the owning secret
	IPAddress   string
	UserAgent   string
	Action      string
	Details     *string
	AccessedAt  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
