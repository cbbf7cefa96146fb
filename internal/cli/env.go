package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/modelgen/internal/config"
)

// EnvCmd returns the env command.
func EnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables read by modelgen",
		Args:  cobra.NoArgs,
		// Skip configuration loading so a broken environment can be inspected.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), config.Usage())
			return nil
		},
	}
}
