package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"auditgate/internal/admission/models"
	"auditgate/internal/attempts"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		f.records = append(f.records, r)
		results = append(results, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return results
}

func TestPublisher_PublishLead(t *testing.T) {
	producer := &fakeProducer{}
	pub := New(producer, "")

	lead := attempts.LeadEvent{
		AttemptID:   "a1",
		BusinessKey: "acme-boise-id",
		Reason:      models.ReasonRateLimit,
		Summary:     "Address trying multiple audits",
	}
	require.NoError(t, pub.PublishLead(context.Background(), lead))

	require.Len(t, producer.records, 1)
	rec := producer.records[0]
	assert.Equal(t, DefaultTopic, rec.Topic)
	assert.Equal(t, "acme-boise-id", string(rec.Key))
	require.Len(t, rec.Headers, 1)
	assert.Equal(t, "rate_limit", string(rec.Headers[0].Value))

	var decoded attempts.LeadEvent
	require.NoError(t, json.Unmarshal(rec.Value, &decoded))
	assert.Equal(t, lead.Summary, decoded.Summary)
}

func TestPublisher_ProduceError(t *testing.T) {
	pub := New(&fakeProducer{err: errors.New("broker down")}, "leads")

	err := pub.PublishLead(context.Background(), attempts.LeadEvent{AttemptID: "a1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestNewClient_RequiresBrokers(t *testing.T) {
	_, err := NewClient(nil, "auditgate")
	assert.Error(t, err)
}
