package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditgate/internal/bypass"
)

const testSecret = "cli-test-secret-0123456789"

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func issueToken(t *testing.T, args ...string) bypass.IssuedToken {
	t.Helper()
	out, err := runCLI(t, append([]string{"token", "issue", "--business", "Mario's Pizza", "--location", "Austin, TX"}, args...)...)
	require.NoError(t, err)
	var issued bypass.IssuedToken
	require.NoError(t, json.Unmarshal([]byte(out), &issued))
	return issued
}

func TestTokenIssueAndVerify(t *testing.T) {
	issued := issueToken(t, "--token-secret", testSecret)
	assert.Equal(t, "Mario's Pizza", issued.BusinessName)

	out, err := runCLI(t, "token", "verify", issued.Token, "--token-secret", testSecret)
	require.NoError(t, err)
	var result bypass.VerifyResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Valid)
	assert.Equal(t, "Austin, TX", result.Location)
}

func TestTokenVerify_WrongSecretFails(t *testing.T) {
	issued := issueToken(t, "--token-secret", testSecret)

	out, err := runCLI(t, "token", "verify", issued.Token, "--token-secret", "some-other-secret-abcdef")
	require.ErrorIs(t, err, errTokenInvalid)
	assert.Contains(t, err.Error(), string(bypass.ReasonSignature))
	assert.Contains(t, out, `"valid": false`)
}

func TestSecretsFromEnvironment(t *testing.T) {
	t.Run("token secret", func(t *testing.T) {
		t.Setenv("AUDITGATE_TOKEN_SECRET", testSecret)
		issued := issueToken(t)

		_, err := runCLI(t, "token", "verify", issued.Token, "--token-secret", testSecret)
		assert.NoError(t, err)
	})

	t.Run("admin key derivation matches the server", func(t *testing.T) {
		t.Setenv("AUDITGATE_ADMIN_KEY", "cli-admin-key")
		issued := issueToken(t)

		signer, err := bypass.NewSignerFromAdminKey("cli-admin-key")
		require.NoError(t, err)
		assert.True(t, signer.Verify(issued.Token).Valid)
	})
}

func TestTokenIssue_Errors(t *testing.T) {
	t.Run("no signing material", func(t *testing.T) {
		_, err := runCLI(t, "token", "issue", "--business", "A", "--location", "B")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "token secret or admin key is required")
	})

	t.Run("ttl above max", func(t *testing.T) {
		_, err := runCLI(t, "token", "issue", "--business", "A", "--location", "B",
			"--token-secret", testSecret, "--token-max-ttl", "1h", "--ttl", "2h")
		assert.Error(t, err)
	})

	t.Run("missing business flag", func(t *testing.T) {
		_, err := runCLI(t, "token", "issue", "--location", "B", "--token-secret", testSecret)
		assert.Error(t, err)
	})
}

func TestNormalize(t *testing.T) {
	out, err := runCLI(t, "normalize", "Mario's Pizza", "Austin, TX")
	require.NoError(t, err)
	assert.Equal(t, "marios-pizza-austin-tx", strings.TrimSpace(out))
}

func TestSecretGenerate(t *testing.T) {
	first, err := runCLI(t, "secret", "generate")
	require.NoError(t, err)
	second, err := runCLI(t, "secret", "generate")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(strings.TrimSpace(first)), bypass.MinSecretBytes)
	assert.NotEqual(t, first, second)
}
