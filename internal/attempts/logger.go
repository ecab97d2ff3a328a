// Package attempts records every admission decision and flags lead signals.
//
// LogAttempt never blocks and never fails: it emits a structured log line
// and metrics synchronously, then queues the entry for a background worker
// that writes it to the attempt store and, for leads, the lead publisher.
// Nothing here can change a verdict.
package attempts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"auditgate/internal/admission/models"
	"auditgate/internal/attempts/metrics"
	"auditgate/pkg/requestcontext"
)

const (
	DefaultQueueSize    = 1024
	DefaultWriteTimeout = 5 * time.Second
)

// Logger implements the admission service's AttemptLogger.
type Logger struct {
	store        Store
	leads        LeadPublisher
	logger       *slog.Logger
	metrics      *metrics.Metrics
	writeTimeout time.Duration

	queue  chan Entry
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

type Option func(*Logger)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Logger) {
		l.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Logger) {
		l.metrics = m
	}
}

// WithLeadPublisher routes lead entries to an external sink.
func WithLeadPublisher(p LeadPublisher) Option {
	return func(l *Logger) {
		l.leads = p
	}
}

func WithQueueSize(n int) Option {
	return func(l *Logger) {
		if n > 0 {
			l.queue = make(chan Entry, n)
		}
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(l *Logger) {
		if d > 0 {
			l.writeTimeout = d
		}
	}
}

func New(store Store, opts ...Option) (*Logger, error) {
	if store == nil {
		return nil, fmt.Errorf("attempt store is required")
	}
	l := &Logger{
		store:        store,
		logger:       slog.Default(),
		writeTimeout: DefaultWriteTimeout,
		queue:        make(chan Entry, DefaultQueueSize),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// LogAttempt records attempt. It returns immediately.
func (l *Logger) LogAttempt(ctx context.Context, attempt models.Attempt) {
	entry := NewEntry(attempt, requestcontext.Now(ctx), requestcontext.RequestID(ctx))

	l.logger.InfoContext(ctx, "audit attempt",
		"log_type", "audit",
		"attempt_id", entry.ID.String(),
		"request_id", entry.RequestID,
		"business_key", entry.BusinessKey.String(),
		"source_address", entry.SourceAddress,
		"allowed", entry.Allowed,
		"reason", string(entry.Reason),
		"is_admin", entry.IsAdmin,
		"is_bypass", entry.IsBypass,
		"is_lead", entry.IsLead,
		"fail_closed", entry.FailClosed,
		"browser", entry.Browser,
		"is_bot", entry.IsBot,
	)
	if l.metrics != nil {
		l.metrics.IncrementAttempts(entry.Allowed)
	}
	if lead, ok := entry.Lead(); ok {
		l.logger.InfoContext(ctx, "lead signal detected",
			"log_type", "audit",
			"request_id", entry.RequestID,
			"business_name", lead.BusinessName,
			"location", lead.Location,
			"source_address", lead.SourceAddress,
			"reason", string(lead.Reason),
			"summary", lead.Summary,
		)
		if l.metrics != nil {
			l.metrics.IncrementLeads(string(lead.Reason))
		}
	}

	l.enqueue(ctx, entry)
}

func (l *Logger) enqueue(ctx context.Context, entry Entry) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		l.drop(ctx, entry, "logger closed")
		return
	}
	select {
	case l.queue <- entry:
		if l.metrics != nil {
			l.metrics.SetQueueDepth(len(l.queue))
		}
	default:
		l.drop(ctx, entry, "queue full")
	}
}

func (l *Logger) drop(ctx context.Context, entry Entry, why string) {
	l.logger.WarnContext(ctx, "attempt entry dropped",
		"attempt_id", entry.ID.String(),
		"request_id", entry.RequestID,
		"cause", why,
	)
	if l.metrics != nil {
		l.metrics.IncrementDropped()
	}
}

// Run writes queued entries until the queue is closed or ctx is cancelled.
// On cancellation it flushes what is already queued before returning. Run
// must be called at most once.
func (l *Logger) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			l.flush()
			return nil
		case entry, ok := <-l.queue:
			if !ok {
				return nil
			}
			l.write(entry)
		}
	}
}

// flush writes entries already in the queue without waiting for more.
func (l *Logger) flush() {
	for {
		select {
		case entry, ok := <-l.queue:
			if !ok {
				return
			}
			l.write(entry)
		default:
			return
		}
	}
}

func (l *Logger) write(entry Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), l.writeTimeout)
	defer cancel()

	if l.metrics != nil {
		l.metrics.SetQueueDepth(len(l.queue))
	}
	if err := l.store.Append(ctx, entry); err != nil {
		l.sinkFailed(ctx, "store", entry, err)
	}
	if l.leads == nil {
		return
	}
	if lead, ok := entry.Lead(); ok {
		if err := l.leads.PublishLead(ctx, lead); err != nil {
			l.sinkFailed(ctx, "leads", entry, err)
		}
	}
}

func (l *Logger) sinkFailed(ctx context.Context, sink string, entry Entry, err error) {
	l.logger.ErrorContext(ctx, "failed to write attempt entry",
		"sink", sink,
		"attempt_id", entry.ID.String(),
		"request_id", entry.RequestID,
		"error", err,
	)
	if l.metrics != nil {
		l.metrics.IncrementSinkFailures(sink)
	}
}

// Close stops accepting entries and waits until Run has written the queue
// or ctx expires.
func (l *Logger) Close(ctx context.Context) error {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.queue)
	}
	l.mu.Unlock()

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("attempt queue not drained"), ctx.Err())
	}
}

// RecentLeads returns the most recent lead-flagged entries, newest first.
func (l *Logger) RecentLeads(ctx context.Context, limit int) ([]Entry, error) {
	return l.store.ListLeads(ctx, limit)
}
