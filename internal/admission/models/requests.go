package models

import (
	"math"
	"strings"
	"time"

	dErrors "auditgate/pkg/domain-errors"
)

// AdmissionHTTPRequest is the body of POST /audits/admission.
type AdmissionHTTPRequest struct {
	BusinessName string `json:"business_name"`
	Location     string `json:"location"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// Validate trims fields, fills Location from City and State, and rejects
// requests without a business name or location.
func (r *AdmissionHTTPRequest) Validate() error {
	r.BusinessName = strings.TrimSpace(r.BusinessName)
	r.Location = strings.TrimSpace(r.Location)
	r.City = strings.TrimSpace(r.City)
	r.State = strings.TrimSpace(r.State)

	if r.Location == "" {
		switch {
		case r.City != "" && r.State != "":
			r.Location = r.City + ", " + r.State
		case r.City != "":
			r.Location = r.City
		default:
			r.Location = r.State
		}
	}
	if r.BusinessName == "" {
		return dErrors.New(dErrors.CodeValidation, "business_name is required")
	}
	if r.Location == "" {
		return dErrors.New(dErrors.CodeValidation, "location or city/state is required")
	}
	return nil
}

// MaxExpiresInMS is the largest expires_in_ms that converts to a
// time.Duration without overflowing.
const MaxExpiresInMS = math.MaxInt64 / int64(time.Millisecond)

// IssueTokenRequest is the body of POST /admin/audit-tokens.
type IssueTokenRequest struct {
	BusinessName string `json:"business_name"`
	Location     string `json:"location"`
	ExpiresInMS  int64  `json:"expires_in_ms"`
}

func (r *IssueTokenRequest) Validate() error {
	r.BusinessName = strings.TrimSpace(r.BusinessName)
	r.Location = strings.TrimSpace(r.Location)
	if r.BusinessName == "" || r.Location == "" {
		return dErrors.New(dErrors.CodeValidation, "business_name and location are required")
	}
	if r.ExpiresInMS < 0 {
		return dErrors.New(dErrors.CodeValidation, "expires_in_ms cannot be negative")
	}
	if r.ExpiresInMS > MaxExpiresInMS {
		return dErrors.New(dErrors.CodeValidation, "expires_in_ms is out of range")
	}
	return nil
}

// TTL converts ExpiresInMS. Zero means the signer's default lifetime.
func (r *IssueTokenRequest) TTL() time.Duration {
	return time.Duration(r.ExpiresInMS) * time.Millisecond
}

// VerifyTokenRequest is the body of POST /admin/audit-tokens/verify.
type VerifyTokenRequest struct {
	Token string `json:"token"`
}

func (r *VerifyTokenRequest) Validate() error {
	r.Token = strings.TrimSpace(r.Token)
	if r.Token == "" {
		return dErrors.New(dErrors.CodeValidation, "token is required")
	}
	return nil
}

// RecordAuditRequest is the body of POST /admin/audit-records.
type RecordAuditRequest struct {
	BusinessName    string   `json:"business_name"`
	Location        string   `json:"location"`
	SourceAddress   string   `json:"source_address"`
	VisibilityScore *float64 `json:"visibility_score"`
}

func (r *RecordAuditRequest) Validate() error {
	r.BusinessName = strings.TrimSpace(r.BusinessName)
	r.Location = strings.TrimSpace(r.Location)
	r.SourceAddress = strings.TrimSpace(r.SourceAddress)
	if r.BusinessName == "" || r.Location == "" {
		return dErrors.New(dErrors.CodeValidation, "business_name and location are required")
	}
	if r.SourceAddress == "" {
		return dErrors.New(dErrors.CodeValidation, "source_address is required")
	}
	if r.VisibilityScore != nil && (*r.VisibilityScore < 0 || *r.VisibilityScore > 100) {
		return dErrors.New(dErrors.CodeValidation, "visibility_score must be between 0 and 100")
	}
	return nil
}
