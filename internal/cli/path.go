package cli

import (
	"fmt"

	"github.com/glorpus-work/emulatorx/pkg/orchestrator"
	"github.com/spf13/cobra"
)

// NewPathCmd creates the path command.
func NewPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the install root",
		Long:  "Print the directory emulators are installed below, creating it if needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			root, err := newOrchestrator(cfg, orchestrator.Hooks{}).InstallPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), root)
			return nil
		},
	}
}
