package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"auditgate/internal/bypass"
)

// errTokenInvalid makes `token verify` exit non-zero after printing the result.
var errTokenInvalid = errors.New("token is not valid")

func newTokenCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue and verify audit bypass tokens",
	}
	cmd.AddCommand(newTokenIssueCommand(v), newTokenVerifyCommand(v))
	return cmd
}

func newTokenIssueCommand(v *viper.Viper) *cobra.Command {
	var (
		business string
		location string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Mint a token that lets one business skip the admission checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			signer, err := signerFrom(v)
			if err != nil {
				return err
			}
			issued, err := signer.Issue(business, location, ttl)
			if err != nil {
				return err
			}
			return printJSON(cmd, issued)
		},
	}
	cmd.Flags().StringVar(&business, "business", "", "Business name the token is bound to (required)")
	cmd.Flags().StringVar(&location, "location", "", "Business location the token is bound to (required)")
	cmd.Flags().DurationVar(&ttl, "ttl", bypass.DefaultTTL, "Token lifetime")
	_ = cmd.MarkFlagRequired("business")
	_ = cmd.MarkFlagRequired("location")
	return cmd
}

func newTokenVerifyCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "verify TOKEN",
		Short: "Check a token's signature and expiry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := signerFrom(v)
			if err != nil {
				return err
			}
			result := signer.Verify(args[0])
			if err := printJSON(cmd, result); err != nil {
				return err
			}
			if !result.Valid {
				return fmt.Errorf("%w: %s", errTokenInvalid, result.Reason)
			}
			return nil
		},
	}
}
