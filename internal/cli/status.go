package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/glorpus-work/emulatorx/pkg/orchestrator"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which emulators are installed",
		Long:  "Report the installation state of every known emulator",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}

	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	statuses := newOrchestrator(cfg, orchestrator.Hooks{}).Status(cmd.Context())
	if err := cmd.Context().Err(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON(cfg) {
		return writeJSON(out, statuses)
	}

	tw := tabwriter.NewWriter(out, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tCONSOLE\tSTATUS\tPATH")
	for _, s := range statuses {
		state := dim("not installed")
		path := ""
		if s.Installed {
			state = green("installed")
			path = s.Path
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Name, s.Console, state, path)
	}
	return tw.Flush()
}
