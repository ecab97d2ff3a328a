package secrets

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "auditgate/pkg/domain-errors"
)

func TestGenerate(t *testing.T) {
	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
	assert.NotEqual(t, a, b)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("admin-key", "admin-key"))
	assert.False(t, Equal("admin-kex", "admin-key"))
	assert.False(t, Equal("admin", "admin-key"))
	assert.False(t, Equal("", ""))
}

func TestDeriveKey(t *testing.T) {
	t.Run("deterministic per purpose", func(t *testing.T) {
		k1, err := DeriveKey("master", "bypass-token", 32)
		require.NoError(t, err)
		k2, err := DeriveKey("master", "bypass-token", 32)
		require.NoError(t, err)
		assert.Equal(t, k1, k2)
		assert.Len(t, k1, 32)
	})

	t.Run("purpose separates keys", func(t *testing.T) {
		k1, err := DeriveKey("master", "bypass-token", 32)
		require.NoError(t, err)
		k2, err := DeriveKey("master", "something-else", 32)
		require.NoError(t, err)
		assert.NotEqual(t, k1, k2)
	})

	t.Run("empty master rejected", func(t *testing.T) {
		_, err := DeriveKey("", "bypass-token", 32)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
