package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/glorpus-work/emulatorx/internal/cli"
	"github.com/glorpus-work/emulatorx/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	verbose      bool
	noColor      bool
	outputFormat string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emulatorx",
		Short: "Download, install and launch emulators",
		Long: `emulatorx manages a local collection of console emulators:
- install, uninstall and run emulators from their upstream releases
- keep a ROM library next to them
- hook scripts around installation and removal`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			level := "info"
			if verbose {
				level = "debug"
			}
			format := logger.FormatText
			if outputFormat == string(logger.FormatJSON) {
				format = logger.FormatJSON
			}
			logger.InitLogger(level, format)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: auto-detect)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format (text, json)")

	// Set up CLI package variables
	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.NoColor = &noColor
	cli.OutputFormat = &outputFormat

	cmd.AddCommand(
		cli.NewStatusCmd(),
		cli.NewInstallCmd(),
		cli.NewUninstallCmd(),
		cli.NewRunCmd(),
		cli.NewPathCmd(),
		cli.NewListCmd(),
		cli.NewSettingsCmd(),
		cli.NewROMCmd(),
		cli.NewConfigCmd(),
		cli.NewHookCmd(),
		cli.NewBackupCmd(),
		cli.NewDoctorCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
