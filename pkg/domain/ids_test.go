package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "auditgate/pkg/domain-errors"
)

func TestParseAuditRecordID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty string", "", true},
		{"not a uuid", "not-a-uuid", true},
		{"nil uuid", uuid.Nil.String(), true},
		{"SQL injection attempt", "'; DROP TABLE audit_records;--", true},
		{"oversized input", strings.Repeat("a", 1000), true},
		{"valid lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
		{"valid uppercase", "550E8400-E29B-41D4-A716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAuditRecordID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestIDRoundTrip(t *testing.T) {
	rec := NewAuditRecordID()
	parsed, err := ParseAuditRecordID(rec.String())
	require.NoError(t, err)
	assert.Equal(t, rec, parsed)

	att := NewAttemptID()
	parsedAtt, err := ParseAttemptID(att.String())
	require.NoError(t, err)
	assert.Equal(t, att, parsedAtt)
	assert.False(t, att.IsNil())
}

func TestAttemptID_JSON(t *testing.T) {
	id := NewAttemptID()
	b, err := json.Marshal(struct {
		ID AttemptID `json:"id"`
	}{id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+id.String()+`"}`, string(b))

	var out struct {
		ID AttemptID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, id, out.ID)
}
