package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"auditgate/internal/admission/models"
	"auditgate/internal/attempts"
	"auditgate/pkg/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_attempts (
    id             UUID PRIMARY KEY,
    occurred_at    TIMESTAMPTZ NOT NULL,
    business_name  TEXT NOT NULL,
    location       TEXT NOT NULL,
    business_key   TEXT NOT NULL,
    source_address TEXT NOT NULL,
    user_agent     TEXT NOT NULL DEFAULT '',
    browser        TEXT NOT NULL DEFAULT '',
    is_bot         BOOLEAN NOT NULL DEFAULT FALSE,
    allowed        BOOLEAN NOT NULL,
    reason         TEXT NOT NULL DEFAULT '',
    is_admin       BOOLEAN NOT NULL DEFAULT FALSE,
    is_bypass      BOOLEAN NOT NULL DEFAULT FALSE,
    is_lead        BOOLEAN NOT NULL DEFAULT FALSE,
    fail_closed    BOOLEAN NOT NULL DEFAULT FALSE,
    request_id     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS audit_attempts_leads_idx
    ON audit_attempts (occurred_at DESC) WHERE is_lead;
`

// Store persists attempt entries in PostgreSQL through a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the audit_attempts table if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure audit_attempts schema: %w", err)
	}
	return nil
}

// Append inserts entry. Re-delivery of the same entry is ignored.
func (s *Store) Append(ctx context.Context, e attempts.Entry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_attempts (
			id, occurred_at, business_name, location, business_key, source_address,
			user_agent, browser, is_bot, allowed, reason, is_admin, is_bypass,
			is_lead, fail_closed, request_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO NOTHING
	`,
		uuid.UUID(e.ID), e.Timestamp, e.BusinessName, e.Location, e.BusinessKey.String(), e.SourceAddress,
		e.UserAgent, e.Browser, e.IsBot, e.Allowed, string(e.Reason), e.IsAdmin, e.IsBypass,
		e.IsLead, e.FailClosed, e.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// ListLeads returns the most recent lead entries, newest first.
func (s *Store) ListLeads(ctx context.Context, limit int) ([]attempts.Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, occurred_at, business_name, location, business_key, source_address,
		       user_agent, browser, is_bot, allowed, reason, is_admin, is_bypass,
		       is_lead, fail_closed, request_id
		FROM audit_attempts
		WHERE is_lead
		ORDER BY occurred_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}

	entries, err := pgx.CollectRows(rows, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("collect leads: %w", err)
	}
	return entries, nil
}

// Ping reports whether the pool can reach the database.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func scanEntry(row pgx.CollectableRow) (attempts.Entry, error) {
	var (
		e      attempts.Entry
		id     uuid.UUID
		key    string
		reason string
	)
	err := row.Scan(
		&id, &e.Timestamp, &e.BusinessName, &e.Location, &key, &e.SourceAddress,
		&e.UserAgent, &e.Browser, &e.IsBot, &e.Allowed, &reason, &e.IsAdmin, &e.IsBypass,
		&e.IsLead, &e.FailClosed, &e.RequestID,
	)
	if err != nil {
		return attempts.Entry{}, err
	}
	e.ID = domain.AttemptID(id)
	e.BusinessKey = domain.BusinessKey(key)
	e.Reason = models.Reason(reason)
	return e, nil
}
