package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"auditgate/pkg/domain"
)

func newNormalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize NAME LOCATION",
		Short: "Print the business key the gate derives for a name and location",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), domain.NormalizeBusinessKey(args[0], args[1]))
			return err
		},
	}
}
