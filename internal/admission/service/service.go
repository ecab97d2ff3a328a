// Package service implements the admission gate for the free business audit.
//
// CanRunAudit applies the checks in a fixed order: admin override, then the
// permanent per-business history, then the per-address rate window. Store
// failures deny the request (fail closed) and are never surfaced as errors.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"auditgate/internal/admission/config"
	"auditgate/internal/admission/metrics"
	"auditgate/internal/admission/models"
	"auditgate/internal/admission/ports"
	"auditgate/pkg/domain"
	dErrors "auditgate/pkg/domain-errors"
	"auditgate/pkg/platform/secrets"
	"auditgate/pkg/platform/sentinel"
	"auditgate/pkg/requestcontext"
)

const (
	MessageAdminGranted    = "Admin access granted"
	MessageApproved        = "Audit approved"
	MessageValidToken      = "Valid audit token"
	MessageAlreadyAudited  = "This business has already been audited."
	MessageHistoryUnknown  = "Unable to verify audit status. Please contact support."
	MessageRateUnknown     = "Unable to verify audit limits. Please contact support."
	MessageInvalidToken    = "Invalid or expired audit token."
	MessageTokenMismatch   = "This audit token was issued for a different business."
	MessageTokensDisabled  = "Audit tokens are not enabled."
	SalesMessageDuplicate  = "Ready to improve your visibility score? Schedule a free consultation to discuss your personalized SEO strategy."
	SalesMessageRateLimit  = "Need to audit another business? Contact us for immediate access and professional SEO services."
	rateLimitMessageFormat = "You've already used your free audit today. Try again in %d %s."
)

const tracerName = "auditgate/internal/admission"

// Service is the admission gate. It holds no mutable state; one instance
// serves all requests.
type Service struct {
	records  ports.RecordStore
	writer   ports.RecordWriter
	tokens   ports.TokenVerifier
	attempts ports.AttemptLogger
	config   config.Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithRecordWriter enables RecordCompletion.
func WithRecordWriter(writer ports.RecordWriter) Option {
	return func(s *Service) {
		s.writer = writer
	}
}

// WithTokenVerifier enables bypass token redemption in Admit.
func WithTokenVerifier(verifier ports.TokenVerifier) Option {
	return func(s *Service) {
		s.tokens = verifier
	}
}

func WithAttemptLogger(logger ports.AttemptLogger) Option {
	return func(s *Service) {
		s.attempts = logger
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func New(records ports.RecordStore, cfg config.Config, opts ...Option) (*Service, error) {
	if records == nil {
		return nil, fmt.Errorf("record store is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid admission config: %w", err)
	}

	svc := &Service{
		records: records,
		config:  cfg,
		logger:  slog.Default(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Config returns the policy the service was built with.
func (s *Service) Config() config.Config {
	return s.config
}

// CanRunAudit decides whether a new audit may start. It never mutates state
// and never returns an error; every outcome is a Decision.
func (s *Service) CanRunAudit(ctx context.Context, req models.AdmissionRequest) *models.Decision {
	ctx, span := s.tracer.Start(ctx, "admission.CanRunAudit")
	defer span.End()

	key := domain.NormalizeBusinessKey(req.BusinessName, req.Location)
	decision := s.evaluate(ctx, req, key)
	s.finish(ctx, span, req, key, decision)
	return decision
}

// Admit is CanRunAudit plus bypass token redemption. A present token replaces
// the history and rate checks; the admin override still takes precedence.
func (s *Service) Admit(ctx context.Context, req models.AdmissionRequest) *models.Decision {
	if req.BypassToken == "" || s.isAdmin(req.AdminKey) {
		return s.CanRunAudit(ctx, req)
	}

	ctx, span := s.tracer.Start(ctx, "admission.Admit")
	defer span.End()

	key := domain.NormalizeBusinessKey(req.BusinessName, req.Location)
	decision := s.redeemToken(ctx, req.BypassToken, key)
	s.finish(ctx, span, req, key, decision)
	return decision
}

func (s *Service) evaluate(ctx context.Context, req models.AdmissionRequest, key domain.BusinessKey) *models.Decision {
	if s.isAdmin(req.AdminKey) {
		return &models.Decision{Allowed: true, IsAdmin: true, Message: MessageAdminGranted}
	}

	history := s.HasExistingAudit(ctx, key)
	if history.HasAudit {
		return &models.Decision{
			Reason:          models.ReasonDuplicate,
			Message:         history.Message,
			SalesMessage:    history.SalesMessage,
			LastAuditDate:   history.LastAuditDate,
			PriorScore:      history.PriorScore,
			ContactRequired: true,
			FailClosed:      history.Unverified,
		}
	}

	rate := s.CheckRateLimit(ctx, req.SourceAddress)
	if rate.IsLimited {
		return &models.Decision{
			Reason:          models.ReasonRateLimit,
			Message:         rate.Message,
			SalesMessage:    rate.SalesMessage,
			ResetTime:       rate.ResetTime,
			HoursRemaining:  rate.HoursRemaining,
			ContactRequired: true,
			FailClosed:      rate.Unverified,
		}
	}

	return &models.Decision{Allowed: true, Message: MessageApproved}
}

// isAdmin compares in constant time. An unset admin key disables the override.
func (s *Service) isAdmin(presented string) bool {
	if !s.config.AdminOverrideEnabled() {
		return false
	}
	return secrets.Equal(presented, s.config.AdminKey)
}

// HasExistingAudit looks up prior audits for the business. Any record blocks
// the business permanently. A store error reports HasAudit with a generic
// message.
func (s *Service) HasExistingAudit(ctx context.Context, key domain.BusinessKey) models.HistoryResult {
	ctx, span := s.tracer.Start(ctx, "admission.HasExistingAudit",
		trace.WithAttributes(attribute.String("business_key", key.String())))
	defer span.End()

	start := time.Now()
	records, err := s.records.HistoryByBusinessKey(ctx, key, s.config.HistoryLimit)
	s.observeLatency("history", start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "history lookup failed")
		s.logger.ErrorContext(ctx, "audit history lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"business_key", key.String(),
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.IncrementFailClosed("history")
		}
		return models.HistoryResult{
			HasAudit:   true,
			Message:    MessageHistoryUnknown,
			Unverified: true,
		}
	}
	if len(records) == 0 {
		return models.HistoryResult{}
	}

	latest := records[0]
	for _, r := range records[1:] {
		if r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	lastAudit := latest.CreatedAt
	return models.HistoryResult{
		HasAudit:      true,
		LastAuditDate: &lastAudit,
		PriorScore:    latest.VisibilityScore,
		AuditID:       latest.ID.String(),
		Message:       MessageAlreadyAudited,
		SalesMessage:  SalesMessageDuplicate,
	}
}

// CheckRateLimit counts audits from address inside the trailing window. When
// the limit is reached the address is blocked until the earliest qualifying
// audit leaves the window.
func (s *Service) CheckRateLimit(ctx context.Context, address string) models.RateResult {
	ctx, span := s.tracer.Start(ctx, "admission.CheckRateLimit")
	defer span.End()

	now := requestcontext.Now(ctx)
	start := time.Now()
	records, err := s.records.RecordsBySourceAddress(ctx, address, s.config.Window)
	s.observeLatency("rate_window", start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rate window lookup failed")
		s.logger.ErrorContext(ctx, "rate window lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"source_address", address,
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.IncrementFailClosed("rate_window")
		}
		return models.RateResult{
			IsLimited:  true,
			Message:    MessageRateUnknown,
			Unverified: true,
		}
	}

	cutoff := now.Add(-s.config.Window)
	var (
		count    int
		earliest time.Time
	)
	for _, r := range records {
		if r.CreatedAt.Before(cutoff) {
			continue
		}
		if count == 0 || r.CreatedAt.Before(earliest) {
			earliest = r.CreatedAt
		}
		count++
	}
	span.SetAttributes(attribute.Int("window_count", count))

	if count < s.config.MaxPerWindow {
		return models.RateResult{Count: count}
	}

	resetTime := earliest.Add(s.config.Window)
	hours := hoursUntil(now, resetTime)
	return models.RateResult{
		IsLimited:      true,
		Count:          count,
		ResetTime:      &resetTime,
		HoursRemaining: hours,
		Message:        rateLimitMessage(hours),
		SalesMessage:   SalesMessageRateLimit,
	}
}

// hoursUntil rounds the remaining time up to whole hours and never goes negative.
func hoursUntil(now, reset time.Time) int {
	remaining := reset.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours()))
}

func rateLimitMessage(hours int) string {
	unit := "hours"
	if hours == 1 {
		unit = "hour"
	}
	return fmt.Sprintf(rateLimitMessageFormat, hours, unit)
}

func (s *Service) redeemToken(ctx context.Context, token string, key domain.BusinessKey) *models.Decision {
	invalid := func(message, result string) *models.Decision {
		if s.metrics != nil {
			s.metrics.ObserveTokenVerification(result)
		}
		return &models.Decision{Reason: models.ReasonInvalidToken, Message: message}
	}

	if s.tokens == nil {
		return invalid(MessageTokensDisabled, "disabled")
	}

	result := s.tokens.Verify(token)
	if !result.Valid {
		s.logger.WarnContext(ctx, "bypass token rejected",
			"request_id", requestcontext.RequestID(ctx),
			"reason", string(result.Reason),
		)
		return invalid(MessageInvalidToken, string(result.Reason))
	}
	if domain.NormalizeBusinessKey(result.BusinessName, result.Location) != key {
		s.logger.WarnContext(ctx, "bypass token presented for another business",
			"request_id", requestcontext.RequestID(ctx),
			"business_key", key.String(),
		)
		return invalid(MessageTokenMismatch, "mismatch")
	}

	if s.metrics != nil {
		s.metrics.ObserveTokenVerification("valid")
	}
	return &models.Decision{Allowed: true, IsBypass: true, Message: MessageValidToken}
}

// RecordCompletion stores a finished audit unless the business already has
// one. The unique business key closes the race between two concurrent
// admissions for the same business.
func (s *Service) RecordCompletion(ctx context.Context, audit models.CompletedAudit) (*models.AuditRecord, error) {
	if s.writer == nil {
		return nil, dErrors.New(dErrors.CodeUnavailable, "audit record writes are not configured")
	}

	key := domain.NormalizeBusinessKey(audit.BusinessName, audit.Location)
	if key.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "business name and location must contain letters or digits")
	}

	record := models.AuditRecord{
		ID:              domain.NewAuditRecordID(),
		BusinessKey:     key,
		BusinessName:    audit.BusinessName,
		Location:        audit.Location,
		SourceAddress:   audit.SourceAddress,
		CreatedAt:       requestcontext.Now(ctx).UTC(),
		VisibilityScore: audit.VisibilityScore,
	}

	if err := s.writer.InsertIfAbsent(ctx, record); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			if s.metrics != nil {
				s.metrics.IncrementRecordConflicts()
			}
			return nil, dErrors.New(dErrors.CodeConflict, MessageAlreadyAudited)
		}
		s.logger.ErrorContext(ctx, "failed to record completed audit",
			"request_id", requestcontext.RequestID(ctx),
			"business_key", key.String(),
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit")
	}

	if s.metrics != nil {
		s.metrics.IncrementRecordsWritten()
	}
	s.logger.InfoContext(ctx, "audit recorded",
		"request_id", requestcontext.RequestID(ctx),
		"business_key", key.String(),
		"audit_id", record.ID.String(),
	)
	return &record, nil
}

func (s *Service) finish(ctx context.Context, span trace.Span, req models.AdmissionRequest, key domain.BusinessKey, decision *models.Decision) {
	span.SetAttributes(
		attribute.Bool("allowed", decision.Allowed),
		attribute.String("reason", string(decision.Reason)),
		attribute.Bool("is_admin", decision.IsAdmin),
	)
	if s.metrics != nil {
		s.metrics.ObserveDecision(decision.Allowed, string(decision.Reason))
	}
	if s.attempts == nil {
		return
	}
	s.attempts.LogAttempt(ctx, models.Attempt{
		BusinessName:  req.BusinessName,
		Location:      req.Location,
		BusinessKey:   key,
		SourceAddress: req.SourceAddress,
		UserAgent:     req.UserAgent,
		Decision:      *decision,
	})
}

func (s *Service) observeLatency(lookup string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveStoreLatency(lookup, time.Since(start))
	}
}
