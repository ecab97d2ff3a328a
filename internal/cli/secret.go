package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"auditgate/pkg/platform/secrets"
)

func newSecretCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Generate operator secrets",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Print a random secret suitable for AUDITGATE_ADMIN_KEY or AUDITGATE_TOKEN_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := secrets.Generate()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), secret)
			return err
		},
	})
	return cmd
}
