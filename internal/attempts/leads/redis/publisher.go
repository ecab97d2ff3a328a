package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"auditgate/internal/attempts"
)

const (
	DefaultStream = "auditgate:leads"
	DefaultMaxLen = 100000
)

// Publisher appends lead events to a Redis stream for sales tooling to consume.
type Publisher struct {
	client redis.Cmdable
	stream string
	maxLen int64
}

type Option func(*Publisher)

func WithStream(stream string) Option {
	return func(p *Publisher) {
		if stream != "" {
			p.stream = stream
		}
	}
}

// WithMaxLen caps the stream length (approximate trimming).
func WithMaxLen(n int64) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.maxLen = n
		}
	}
}

func New(client redis.Cmdable, opts ...Option) *Publisher {
	p := &Publisher{
		client: client,
		stream: DefaultStream,
		maxLen: DefaultMaxLen,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishLead adds one stream entry. Scalar fields are flat for consumers
// that filter by reason; the full event is in the payload field.
func (p *Publisher) PublishLead(ctx context.Context, lead attempts.LeadEvent) error {
	payload, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("marshal lead: %w", err)
	}
	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"attempt_id":   lead.AttemptID,
			"business_key": lead.BusinessKey.String(),
			"reason":       string(lead.Reason),
			"fail_closed":  strconv.FormatBool(lead.FailClosed),
			"summary":      lead.Summary,
			"payload":      string(payload),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}
