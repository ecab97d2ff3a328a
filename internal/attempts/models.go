package attempts

import (
	"time"

	"github.com/mssola/useragent"

	"auditgate/internal/admission/models"
	"auditgate/pkg/domain"
)

// Entry is one logged admission attempt.
type Entry struct {
	ID            domain.AttemptID   `json:"id"`
	Timestamp     time.Time          `json:"timestamp"`
	BusinessName  string             `json:"business_name"`
	Location      string             `json:"location"`
	BusinessKey   domain.BusinessKey `json:"business_key"`
	SourceAddress string             `json:"source_address"`
	UserAgent     string             `json:"user_agent,omitempty"`
	Browser       string             `json:"browser,omitempty"`
	IsBot         bool               `json:"is_bot"`
	Allowed       bool               `json:"allowed"`
	Reason        models.Reason      `json:"reason,omitempty"`
	IsAdmin       bool               `json:"is_admin"`
	IsBypass      bool               `json:"is_bypass"`
	IsLead        bool               `json:"is_lead"`
	FailClosed    bool               `json:"fail_closed"`
	RequestID     string             `json:"request_id,omitempty"`
}

// LeadEvent is published for denied attempts that signal sales interest.
type LeadEvent struct {
	AttemptID     string             `json:"attempt_id"`
	Timestamp     time.Time          `json:"timestamp"`
	BusinessName  string             `json:"business_name"`
	Location      string             `json:"location"`
	BusinessKey   domain.BusinessKey `json:"business_key"`
	SourceAddress string             `json:"source_address"`
	Reason        models.Reason      `json:"reason"`
	FailClosed    bool               `json:"fail_closed"`
	Summary       string             `json:"summary"`
}

const (
	summaryReaudit       = "Business trying to re-audit"
	summaryMultipleAudit = "Address trying multiple audits"
)

// NewEntry builds an Entry from an attempt. A lead is any denial for
// duplicate or rate_limit, including fail-closed ones; FailClosed is carried
// so consumers can tell them apart.
func NewEntry(attempt models.Attempt, at time.Time, requestID string) Entry {
	d := attempt.Decision
	e := Entry{
		ID:            domain.NewAttemptID(),
		Timestamp:     at,
		BusinessName:  attempt.BusinessName,
		Location:      attempt.Location,
		BusinessKey:   attempt.BusinessKey,
		SourceAddress: attempt.SourceAddress,
		UserAgent:     attempt.UserAgent,
		Allowed:       d.Allowed,
		Reason:        d.Reason,
		IsAdmin:       d.IsAdmin,
		IsBypass:      d.IsBypass,
		IsLead:        !d.Allowed && d.Reason.IsLeadSignal(),
		FailClosed:    d.FailClosed,
		RequestID:     requestID,
	}
	if attempt.UserAgent != "" {
		ua := useragent.New(attempt.UserAgent)
		name, version := ua.Browser()
		if version != "" {
			name += " " + version
		}
		e.Browser = name
		e.IsBot = ua.Bot()
	}
	return e
}

// Lead returns the lead event for e. ok is false when e is not a lead.
func (e Entry) Lead() (LeadEvent, bool) {
	if !e.IsLead {
		return LeadEvent{}, false
	}
	summary := summaryMultipleAudit
	if e.Reason == models.ReasonDuplicate {
		summary = summaryReaudit
	}
	return LeadEvent{
		AttemptID:     e.ID.String(),
		Timestamp:     e.Timestamp,
		BusinessName:  e.BusinessName,
		Location:      e.Location,
		BusinessKey:   e.BusinessKey,
		SourceAddress: e.SourceAddress,
		Reason:        e.Reason,
		FailClosed:    e.FailClosed,
		Summary:       summary,
	}, true
}
