package cli

import (
	"fmt"

	"github.com/glorpus-work/emulatorx/pkg/orchestrator"
	"github.com/spf13/cobra"
)

// NewUninstallCmd creates the uninstall command.
func NewUninstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall PACKAGE...",
		Short: "Remove installed emulators",
		Long: `Remove the install directory of one or more emulators.
A pre-remove hook that reports an error keeps the emulator installed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runUninstall,
	}

	return cmd
}

func runUninstall(cmd *cobra.Command, packages []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	orch := newOrchestrator(cfg, orchestrator.Hooks{})

	fmt.Fprintf(out, "Removing %d package(s)...\n", len(packages))

	var failed int
	for _, name := range packages {
		if err := orch.Uninstall(cmd.Context(), name); err != nil {
			fmt.Fprintf(out, "%s %s: %v\n", red("✗"), name, err)
			failed++
			continue
		}
		fmt.Fprintf(out, "%s %s\n", green("✓"), bold(name))
	}

	if failed > 0 {
		return fmt.Errorf("failed to remove %d package(s)", failed)
	}
	return nil
}
