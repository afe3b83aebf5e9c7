package cli

import (
	"fmt"

	"github.com/glorpus-work/emulatorx/internal/logger"
	"github.com/glorpus-work/emulatorx/pkg/orchestrator"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run PACKAGE [-- ARGS...]",
		Short: "Launch an installed emulator",
		Long: `Start the emulator's executable detached from this process.
Arguments after -- are passed to the emulator.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRun,
	}

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	name, extra := args[0], args[1:]
	pid, err := newOrchestrator(cfg, orchestrator.Hooks{}).Run(cmd.Context(), name, extra...)
	if err != nil {
		return err
	}

	logger.Debug("emulator started", logger.Fields{"package": name, "pid": pid, "args": extra})
	fmt.Fprintf(cmd.OutOrStdout(), "%s Started %s (pid %d)\n", green("✓"), bold(name), pid)
	return nil
}
