package models

import (
	"time"

	"auditgate/pkg/domain"
)

// AuditRecord is a completed audit as persisted by the audit pipeline.
// The gate only reads these, except through RecordCompletion.
type AuditRecord struct {
	ID              domain.AuditRecordID
	BusinessKey     domain.BusinessKey
	BusinessName    string
	Location        string
	SourceAddress   string
	CreatedAt       time.Time
	VisibilityScore *float64
}

// Reason classifies a denied admission.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonDuplicate    Reason = "duplicate"
	ReasonRateLimit    Reason = "rate_limit"
	ReasonInvalidToken Reason = "invalid_token"
)

// IsLeadSignal reports whether a denial for this reason is worth a sales follow-up.
func (r Reason) IsLeadSignal() bool {
	return r == ReasonDuplicate || r == ReasonRateLimit
}

// Decision is the verdict returned to the caller. It is never persisted.
type Decision struct {
	Allowed         bool       `json:"allowed"`
	Reason          Reason     `json:"reason,omitempty"`
	Message         string     `json:"message"`
	SalesMessage    string     `json:"sales_message,omitempty"`
	LastAuditDate   *time.Time `json:"last_audit_date,omitempty"`
	PriorScore      *float64   `json:"prior_score,omitempty"`
	ResetTime       *time.Time `json:"reset_time,omitempty"`
	HoursRemaining  int        `json:"hours_remaining,omitempty"`
	IsAdmin         bool       `json:"is_admin,omitempty"`
	IsBypass        bool       `json:"is_bypass,omitempty"`
	ContactRequired bool       `json:"contact_required,omitempty"`
	FailClosed      bool       `json:"-"`
}

// HistoryResult is the outcome of the per-business lookup.
type HistoryResult struct {
	HasAudit      bool
	LastAuditDate *time.Time
	PriorScore    *float64
	AuditID       string
	Message       string
	SalesMessage  string
	// Unverified is set when the store could not be read and HasAudit was
	// forced to true.
	Unverified bool
}

// RateResult is the outcome of the per-address window evaluation.
type RateResult struct {
	IsLimited      bool
	Count          int
	ResetTime      *time.Time
	HoursRemaining int
	Message        string
	SalesMessage   string
	Unverified     bool
}

// AdmissionRequest carries everything the gate needs to decide.
type AdmissionRequest struct {
	BusinessName  string
	Location      string
	SourceAddress string
	AdminKey      string
	BypassToken   string
	UserAgent     string
}

// CompletedAudit is written once an audit has actually run.
type CompletedAudit struct {
	BusinessName    string
	Location        string
	SourceAddress   string
	VisibilityScore *float64
}

// Attempt is handed to the attempt logger after every decision.
type Attempt struct {
	BusinessName  string
	Location      string
	BusinessKey   domain.BusinessKey
	SourceAddress string
	UserAgent     string
	Decision      Decision
}
