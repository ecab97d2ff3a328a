package handler

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"auditgate/internal/admission/models"
	"auditgate/internal/attempts"
	"auditgate/internal/bypass"
	dErrors "auditgate/pkg/domain-errors"
	"auditgate/pkg/platform/httputil"
	"auditgate/pkg/platform/middleware/admin"
	"auditgate/pkg/requestcontext"
)

// HeaderAuditToken carries a bypass token on admission requests.
const HeaderAuditToken = "X-Audit-Token"

const (
	defaultLeadLimit = 50
	maxLeadLimit     = 500
	tokenUsage       = "Send this value in the X-Audit-Token header of POST /audits/admission before it expires."
)

// Service is the admission gate as seen by HTTP.
type Service interface {
	Admit(ctx context.Context, req models.AdmissionRequest) *models.Decision
	RecordCompletion(ctx context.Context, audit models.CompletedAudit) (*models.AuditRecord, error)
}

// TokenIssuer mints and checks bypass tokens.
type TokenIssuer interface {
	Issue(businessName, location string, ttl time.Duration) (*bypass.IssuedToken, error)
	Verify(token string) bypass.VerifyResult
}

// LeadSource lists recent lead-flagged attempts.
type LeadSource interface {
	RecentLeads(ctx context.Context, limit int) ([]attempts.Entry, error)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Handler serves the admission and admin endpoints.
type Handler struct {
	service Service
	tokens  TokenIssuer
	leads   LeadSource
	checks  map[string]HealthCheck
	logger  *slog.Logger
}

type Option func(*Handler)

func WithTokenIssuer(t TokenIssuer) Option {
	return func(h *Handler) {
		h.tokens = t
	}
}

func WithLeadSource(l LeadSource) Option {
	return func(h *Handler) {
		h.leads = l
	}
}

// WithHealthCheck adds a named dependency to GET /health.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(h *Handler) {
		h.checks[name] = check
	}
}

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service: service,
		logger:  logger,
		checks:  make(map[string]HealthCheck),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the public routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/audits/admission", h.HandleAdmission)
	r.Get("/health", h.HandleHealth)
}

// RegisterAdmin mounts the operator routes behind the admin key.
func (h *Handler) RegisterAdmin(r chi.Router, adminKey string) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(admin.RequireAdminKey(adminKey, h.logger))
		r.Post("/audit-tokens", h.HandleIssueToken)
		r.Post("/audit-tokens/verify", h.HandleVerifyToken)
		r.Get("/leads", h.HandleListLeads)
		r.Post("/audit-records", h.HandleRecordAudit)
	})
}

// HandleAdmission runs the gate for one request. Denials are normal
// responses, not errors: 403 for duplicate and invalid_token, 429 for
// rate_limit with Retry-After.
func (h *Handler) HandleAdmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.AdmissionHTTPRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	decision := h.service.Admit(ctx, models.AdmissionRequest{
		BusinessName:  req.BusinessName,
		Location:      req.Location,
		SourceAddress: requestcontext.ClientIP(ctx),
		AdminKey:      r.Header.Get(admin.HeaderAdminKey),
		BypassToken:   r.Header.Get(HeaderAuditToken),
		UserAgent:     requestcontext.UserAgent(ctx),
	})

	status := http.StatusOK
	switch decision.Reason {
	case models.ReasonDuplicate, models.ReasonInvalidToken:
		status = http.StatusForbidden
	case models.ReasonRateLimit:
		status = http.StatusTooManyRequests
		if decision.ResetTime != nil {
			w.Header().Set("Retry-After", retryAfter(requestcontext.Now(ctx), *decision.ResetTime))
		}
	}
	httputil.WriteJSON(w, status, decision)
}

// retryAfter returns whole seconds until reset, at least 1.
func retryAfter(now, reset time.Time) string {
	secs := int(math.Ceil(reset.Sub(now).Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

func (h *Handler) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if h.tokens == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "audit tokens are not configured"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.IssueTokenRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	issued, err := h.tokens.Issue(req.BusinessName, req.Location, req.TTL())
	if err != nil {
		h.logger.WarnContext(ctx, "failed to issue audit token",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "audit token issued",
		"log_type", "audit",
		"request_id", requestID,
		"business_name", issued.BusinessName,
		"location", issued.Location,
		"expires_at", issued.ExpiresAt,
	)
	httputil.WriteJSON(w, http.StatusCreated, models.IssueTokenResponse{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
		Usage:     tokenUsage,
	})
}

func (h *Handler) HandleVerifyToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if h.tokens == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "audit tokens are not configured"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.VerifyTokenRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.tokens.Verify(req.Token))
}

func (h *Handler) HandleListLeads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.leads == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "attempt log is not configured"))
		return
	}

	limit := defaultLeadLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be a positive integer"))
			return
		}
		limit = min(n, maxLeadLimit)
	}

	leads, err := h.leads.RecentLeads(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list leads",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list leads"))
		return
	}
	if leads == nil {
		leads = []attempts.Entry{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"leads": leads})
}

func (h *Handler) HandleRecordAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.RecordAuditRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	rec, err := h.service.RecordCompletion(ctx, models.CompletedAudit{
		BusinessName:    req.BusinessName,
		Location:        req.Location,
		SourceAddress:   req.SourceAddress,
		VisibilityScore: req.VisibilityScore,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, models.RecordAuditResponse{
		ID:          rec.ID.String(),
		BusinessKey: rec.BusinessKey.String(),
		CreatedAt:   rec.CreatedAt,
	})
}

// HandleHealth runs every registered check with a short deadline.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := models.HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	status := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.WarnContext(ctx, "health check failed", "check", name, "error", err)
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	httputil.WriteJSON(w, status, resp)
}
