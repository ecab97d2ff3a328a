package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := fromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Admission.Window)
	assert.Equal(t, 1, cfg.Admission.MaxPerWindow)
	assert.Equal(t, LeadSinkNone, cfg.Attempts.LeadSink)
	assert.False(t, cfg.TokensEnabled())
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := fromLookup(lookupFrom(map[string]string{
		"AUDITGATE_ADMIN_KEY":             "k",
		"AUDITGATE_RATE_WINDOW":           "12h",
		"AUDITGATE_MAX_AUDITS_PER_WINDOW": "3",
		"AUDITGATE_STORE_DRIVER":          "Postgres",
		"AUDITGATE_POSTGRES_URL":          "postgres://localhost/auditgate",
		"AUDITGATE_LEAD_SINK":             "kafka",
		"AUDITGATE_KAFKA_BROKERS":         "b1:9092, b2:9092,",
	}))
	require.NoError(t, err)

	assert.Equal(t, 12*time.Hour, cfg.Admission.Window)
	assert.Equal(t, 3, cfg.Admission.MaxPerWindow)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.TokensEnabled())
}

func TestFromLookup_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad duration", map[string]string{"AUDITGATE_RATE_WINDOW": "a day"}},
		{"bad int", map[string]string{"AUDITGATE_MAX_AUDITS_PER_WINDOW": "one"}},
		{"postgres without url", map[string]string{"AUDITGATE_STORE_DRIVER": "postgres"}},
		{"unknown driver", map[string]string{"AUDITGATE_STORE_DRIVER": "mongo"}},
		{"redis sink without url", map[string]string{"AUDITGATE_LEAD_SINK": "redis"}},
		{"kafka sink without brokers", map[string]string{"AUDITGATE_LEAD_SINK": "kafka"}},
		{"short token secret", map[string]string{"AUDITGATE_TOKEN_SECRET": "short"}},
		{"zero window", map[string]string{"AUDITGATE_RATE_WINDOW": "0s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromLookup(lookupFrom(tt.env))
			assert.Error(t, err)
		})
	}
}
