package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"auditgate/internal/admission/models"
	"auditgate/pkg/domain"
	"auditgate/pkg/platform/sentinel"
	"auditgate/pkg/requestcontext"
)

// SQLiteRecordStore persists audit records in an embedded SQLite database
// opened by internal/platform/sqlite. Timestamps are stored as UTC unix
// milliseconds.
type SQLiteRecordStore struct {
	db *sql.DB
}

func NewSQLiteRecordStore(db *sql.DB) *SQLiteRecordStore {
	return &SQLiteRecordStore{db: db}
}

func (s *SQLiteRecordStore) HistoryByBusinessKey(ctx context.Context, key domain.BusinessKey, limit int) ([]models.AuditRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, business_key, business_name, location, source_address, visibility_score, created_at_ms
FROM audit_records
WHERE business_key = ?
ORDER BY created_at_ms DESC
LIMIT ?;
`, key.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("HistoryByBusinessKey query: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *SQLiteRecordStore) RecordsBySourceAddress(ctx context.Context, address string, window time.Duration) ([]models.AuditRecord, error) {
	cutoffMs := requestcontext.Now(ctx).Add(-window).UTC().UnixMilli()
	rows, err := s.db.QueryContext(ctx, `
SELECT id, business_key, business_name, location, source_address, visibility_score, created_at_ms
FROM audit_records
WHERE source_address = ? AND created_at_ms >= ?
ORDER BY created_at_ms DESC;
`, address, cutoffMs)
	if err != nil {
		return nil, fmt.Errorf("RecordsBySourceAddress query: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// InsertIfAbsent returns sentinel.ErrConflict when the business key exists.
func (s *SQLiteRecordStore) InsertIfAbsent(ctx context.Context, record models.AuditRecord) error {
	var score any
	if record.VisibilityScore != nil {
		score = *record.VisibilityScore
	}
	res, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO audit_records(
  id, business_key, business_name, location, source_address, visibility_score, created_at_ms
) VALUES (?, ?, ?, ?, ?, ?, ?);
`,
		record.ID.String(), record.BusinessKey.String(), record.BusinessName, record.Location,
		record.SourceAddress, score, record.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("InsertIfAbsent insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("InsertIfAbsent rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *SQLiteRecordStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func scanRecords(rows *sql.Rows) ([]models.AuditRecord, error) {
	var out []models.AuditRecord
	for rows.Next() {
		var (
			rec       models.AuditRecord
			id, key   string
			score     sql.NullFloat64
			createdMs int64
		)
		if err := rows.Scan(&id, &key, &rec.BusinessName, &rec.Location, &rec.SourceAddress, &score, &createdMs); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse audit record id %q: %w", id, err)
		}
		rec.ID = domain.AuditRecordID(parsed)
		rec.BusinessKey = domain.BusinessKey(key)
		rec.CreatedAt = time.UnixMilli(createdMs).UTC()
		if score.Valid {
			v := score.Float64
			rec.VisibilityScore = &v
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit records: %w", err)
	}
	return out, nil
}
