package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleakr/cleakr/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a cleakr configuration file without running an analysis.

Exit codes:
  0 - Configuration is valid
  2 - Configuration is invalid`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if _, err := config.Load(ctx, args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration is valid: %s\n", args[0])
			return nil
		},
	}
}
