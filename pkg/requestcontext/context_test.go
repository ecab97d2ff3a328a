package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNowFallsBackToWallClock(t *testing.T) {
	before := time.Now()
	got := Now(context.Background())
	assert.False(t, got.Before(before))
}

func TestNowUsesInjectedTime(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)
	ctx := WithTime(context.Background(), fixed)
	assert.Equal(t, fixed, Now(ctx))
}

func TestClientMetadataRoundTrip(t *testing.T) {
	ctx := WithClientMetadata(context.Background(), "198.51.100.4", "Mozilla/5.0")
	ctx = WithRequestID(ctx, "req-1")

	assert.Equal(t, "198.51.100.4", ClientIP(ctx))
	assert.Equal(t, "Mozilla/5.0", UserAgent(ctx))
	assert.Equal(t, "req-1", RequestID(ctx))
}

func TestMissingValuesAreEmpty(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ClientIP(ctx))
	assert.Empty(t, UserAgent(ctx))
	assert.Empty(t, RequestID(ctx))
}
