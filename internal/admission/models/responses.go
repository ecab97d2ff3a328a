package models

import "time"

// IssueTokenResponse is returned by POST /admin/audit-tokens.
type IssueTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Usage     string    `json:"usage"`
}

// RecordAuditResponse is returned by POST /admin/audit-records.
type RecordAuditResponse struct {
	ID          string    `json:"id"`
	BusinessKey string    `json:"business_key"`
	CreatedAt   time.Time `json:"created_at"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
