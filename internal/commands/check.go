package commands

import (
	"github.com/spf13/cobra"

	"crlock/internal/logic"
)

// NewCheckCommand creates a new cobra command for the check subcommand.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [flags] [paths...]",
		Short: "Validate that include/exclude patterns match files",
		Args:  cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig(args, false)
			if err != nil {
				return err
			}

			return logic.RunCheck(cfg)
		},
	}
}
