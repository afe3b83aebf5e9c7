package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/glorpus-work/emulatorx/internal/logger"
	"github.com/glorpus-work/emulatorx/pkg/orchestrator"
	"github.com/spf13/cobra"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "install PACKAGE...",
		Short: "Download and install emulators",
		Long: `Download one or more emulators from their upstream release and install them
below the install root. An installed emulator is replaced by a fresh copy.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, args, concurrency)
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Number of parallel installs (0=max_concurrent from config)")

	return cmd
}

// installResult is one line of `install -o json` output.
type installResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Error  string `json:"error,omitempty"`
}

func runInstall(cmd *cobra.Command, packages []string, concurrency int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	jsonOut := isJSON(cfg)

	bars := newDownloadBars(os.Stderr)
	defer bars.Close()

	// events arrive from concurrent installs
	var (
		mu      sync.Mutex
		failed  int
		results []installResult
	)
	hooks := orchestrator.Hooks{
		OnEvent: func(e orchestrator.Event) {
			mu.Lock()
			defer mu.Unlock()
			if e.Phase == orchestrator.PhaseError {
				failed++
			}
			if jsonOut {
				if r, ok := resultFromEvent(e); ok {
					results = append(results, r)
				}
				return
			}
			printInstallEvent(out, e)
		},
		OnProgress: bars.Update,
	}
	if jsonOut {
		hooks.OnProgress = nil
	}

	orch := newOrchestrator(cfg, hooks)
	if concurrency <= 0 {
		concurrency = orch.Options.Concurrency
	}

	if !jsonOut {
		fmt.Fprintf(out, "Installing %d package(s)...\n", len(packages))
	}
	acquireErr := orch.AcquireAll(cmd.Context(), packages, concurrency)

	if jsonOut {
		if results == nil {
			results = []installResult{}
		}
		sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
		if err := writeJSON(out, results); err != nil {
			return err
		}
	}
	if acquireErr != nil {
		logger.Debug("install finished with errors", logger.Fields{"error": acquireErr})
		return fmt.Errorf("failed to install %d package(s)", failed)
	}
	return nil
}

func resultFromEvent(e orchestrator.Event) (installResult, bool) {
	switch e.Phase {
	case orchestrator.PhaseDone:
		return installResult{Name: e.ID, Status: "installed", Path: e.Msg}, true
	case orchestrator.PhaseError:
		return installResult{Name: e.ID, Status: "failed", Error: e.Msg}, true
	}
	return installResult{}, false
}

func printInstallEvent(out io.Writer, e orchestrator.Event) {
	switch e.Phase {
	case orchestrator.PhaseDone:
		fmt.Fprintf(out, "%s %s %s\n", green("✓"), bold(e.ID), dim(e.Msg))
	case orchestrator.PhaseError:
		fmt.Fprintf(out, "%s %s: %v\n", red("✗"), e.ID, e.Msg)
	default:
		logger.Debug(e.Phase, logger.Fields{"package": e.ID, "detail": e.Msg})
	}
}
