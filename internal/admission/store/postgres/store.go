package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"auditgate/internal/admission/models"
	"auditgate/pkg/domain"
	"auditgate/pkg/platform/sentinel"
	"auditgate/pkg/requestcontext"
)

//go:embed schema.sql
var schemaSQL string

// uniqueViolation is the SQLSTATE postgres reports for a duplicate key.
const uniqueViolation = "23505"

// PostgresRecordStore persists audit records in PostgreSQL. The unique index
// on business_key makes InsertIfAbsent the single point where a second audit
// for the same business is refused.
type PostgresRecordStore struct {
	db *sql.DB
}

func NewPostgresRecordStore(db *sql.DB) *PostgresRecordStore {
	return &PostgresRecordStore{db: db}
}

// EnsureSchema creates the audit_records table and its indexes if missing.
func (s *PostgresRecordStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure audit_records schema: %w", err)
	}
	return nil
}

func (s *PostgresRecordStore) HistoryByBusinessKey(ctx context.Context, key domain.BusinessKey, limit int) ([]models.AuditRecord, error) {
	query := `
		SELECT id, business_key, business_name, location, source_address, visibility_score, created_at
		FROM audit_records
		WHERE business_key = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, key.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("query audit history: %w", translate(err))
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *PostgresRecordStore) RecordsBySourceAddress(ctx context.Context, address string, window time.Duration) ([]models.AuditRecord, error) {
	cutoff := requestcontext.Now(ctx).Add(-window)
	query := `
		SELECT id, business_key, business_name, location, source_address, visibility_score, created_at
		FROM audit_records
		WHERE source_address = $1 AND created_at >= $2
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, address, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query audits by source address: %w", translate(err))
	}
	defer rows.Close()
	return scanRecords(rows)
}

// InsertIfAbsent returns sentinel.ErrConflict when the business key exists.
func (s *PostgresRecordStore) InsertIfAbsent(ctx context.Context, record models.AuditRecord) error {
	query := `
		INSERT INTO audit_records (id, business_key, business_name, location, source_address, visibility_score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (business_key) DO NOTHING
	`
	var score sql.NullFloat64
	if record.VisibilityScore != nil {
		score = sql.NullFloat64{Float64: *record.VisibilityScore, Valid: true}
	}
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(record.ID),
		record.BusinessKey.String(),
		record.BusinessName,
		record.Location,
		record.SourceAddress,
		score,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", translate(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	if n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *PostgresRecordStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func scanRecords(rows *sql.Rows) ([]models.AuditRecord, error) {
	var records []models.AuditRecord
	for rows.Next() {
		var (
			rec   models.AuditRecord
			id    uuid.UUID
			key   string
			score sql.NullFloat64
		)
		if err := rows.Scan(&id, &key, &rec.BusinessName, &rec.Location, &rec.SourceAddress, &score, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		rec.ID = domain.AuditRecordID(id)
		rec.BusinessKey = domain.BusinessKey(key)
		if score.Valid {
			v := score.Float64
			rec.VisibilityScore = &v
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit records: %w", err)
	}
	return records, nil
}

// translate maps driver errors onto sentinel facts where one applies.
func translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", sentinel.ErrConflict, pqErr.Constraint)
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	}
	return err
}
