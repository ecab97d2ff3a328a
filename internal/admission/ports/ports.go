package ports

//go:generate mockgen -source=ports.go -destination=../mocks/mocks.go -package=mocks RecordStore,RecordWriter,TokenVerifier,AttemptLogger

import (
	"context"
	"time"

	"auditgate/internal/admission/models"
	"auditgate/internal/bypass"
	"auditgate/pkg/domain"
)

// RecordStore is the read side of the audit-record store. Both queries return
// records newest first.
type RecordStore interface {
	HistoryByBusinessKey(ctx context.Context, key domain.BusinessKey, limit int) ([]models.AuditRecord, error)
	RecordsBySourceAddress(ctx context.Context, address string, window time.Duration) ([]models.AuditRecord, error)
}

// RecordWriter persists completed audits. InsertIfAbsent returns
// sentinel.ErrConflict when a record for the business key already exists.
type RecordWriter interface {
	InsertIfAbsent(ctx context.Context, record models.AuditRecord) error
}

// TokenVerifier checks bypass tokens.
type TokenVerifier interface {
	Verify(token string) bypass.VerifyResult
}

// AttemptLogger receives every decision. Implementations must not block the
// caller or report errors.
type AttemptLogger interface {
	LogAttempt(ctx context.Context, attempt models.Attempt)
}
