//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditgate/internal/admission/models"
	"auditgate/internal/attempts"
	"auditgate/pkg/testutil/containers"
)

func TestPublisher_RealRedisTrimsStream(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	pub := New(rc.Client, WithStream("it:leads"), WithMaxLen(10))

	for i := 0; i < 500; i++ {
		require.NoError(t, pub.PublishLead(ctx, attempts.LeadEvent{
			AttemptID:     "attempt",
			Timestamp:     time.Now().UTC(),
			BusinessKey:   "marios-pizza-austin-tx",
			SourceAddress: "10.0.0.1",
			Reason:        models.ReasonRateLimit,
			Summary:       "Address trying multiple audits",
		}))
	}

	n, err := rc.Client.XLen(ctx, "it:leads").Result()
	require.NoError(t, err)
	// approximate trimming keeps whole macro nodes, so only an upper bound holds
	assert.Less(t, n, int64(500))
}
