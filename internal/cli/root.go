// Package cli implements auditgatectl, the operator tool for minting and
// inspecting bypass tokens offline.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"auditgate/internal/bypass"
)

const (
	envPrefix    = "AUDITGATE"
	keySecret    = "token_secret"
	keyAdminKey  = "admin_key"
	keyMaxTTL    = "token_max_ttl"
	flagSecret   = "token-secret"
	flagAdminKey = "admin-key"
	flagMaxTTL   = "token-max-ttl"
)

// NewRootCommand builds the command tree. Flags fall back to AUDITGATE_*
// environment variables, so AUDITGATE_TOKEN_SECRET and AUDITGATE_ADMIN_KEY
// work the same way they do for the server.
func NewRootCommand(out io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "auditgatectl",
		Short:         "Operator tool for the free-audit admission gate",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.String(flagSecret, "", "Token signing secret (env AUDITGATE_TOKEN_SECRET)")
	pf.String(flagAdminKey, "", "Admin key to derive the signing key from when no token secret is set (env AUDITGATE_ADMIN_KEY)")
	pf.Duration(flagMaxTTL, bypass.DefaultMaxTTL, "Longest token lifetime accepted at issuance (env AUDITGATE_TOKEN_MAX_TTL)")
	_ = v.BindPFlag(keySecret, pf.Lookup(flagSecret))
	_ = v.BindPFlag(keyAdminKey, pf.Lookup(flagAdminKey))
	_ = v.BindPFlag(keyMaxTTL, pf.Lookup(flagMaxTTL))

	root.AddCommand(
		newTokenCommand(v),
		newNormalizeCommand(),
		newSecretCommand(),
	)
	return root
}

// Execute runs auditgatectl against os.Args.
func Execute() {
	root := NewRootCommand(os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// signerFrom builds the signer the server would build from the same settings.
func signerFrom(v *viper.Viper) (*bypass.Signer, error) {
	opts := []bypass.Option{bypass.WithMaxTTL(v.GetDuration(keyMaxTTL))}
	if secret := v.GetString(keySecret); secret != "" {
		return bypass.NewSigner([]byte(secret), opts...)
	}
	if adminKey := v.GetString(keyAdminKey); adminKey != "" {
		return bypass.NewSignerFromAdminKey(adminKey, opts...)
	}
	return nil, fmt.Errorf("a token secret or admin key is required (--%s or --%s)", flagSecret, flagAdminKey)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
