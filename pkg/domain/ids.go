package domain

import (
	"github.com/google/uuid"

	dErrors "auditgate/pkg/domain-errors"
)

// AuditRecordID identifies a completed audit.
type AuditRecordID uuid.UUID

// AttemptID identifies one logged admission attempt.
type AttemptID uuid.UUID

// NewAuditRecordID returns a random record ID.
func NewAuditRecordID() AuditRecordID { return AuditRecordID(uuid.New()) }

// NewAttemptID returns a random attempt ID.
func NewAttemptID() AttemptID { return AttemptID(uuid.New()) }

func (id AuditRecordID) String() string { return uuid.UUID(id).String() }
func (id AttemptID) String() string     { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id AuditRecordID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// IsNil reports whether the ID is the zero UUID.
func (id AttemptID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// ParseAuditRecordID validates an externally supplied record ID.
func ParseAuditRecordID(s string) (AuditRecordID, error) {
	u, err := parseUUID(s)
	return AuditRecordID(u), err
}

// ParseAttemptID validates an externally supplied attempt ID.
func ParseAttemptID(s string) (AttemptID, error) {
	u, err := parseUUID(s)
	return AttemptID(u), err
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	if len(s) > 64 {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is too long")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

func (id AuditRecordID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id AttemptID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }

func (id *AuditRecordID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id *AttemptID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}
