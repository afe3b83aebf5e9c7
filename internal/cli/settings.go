package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/glorpus-work/emulatorx/internal/logger"
	"github.com/glorpus-work/emulatorx/pkg/config"
	"github.com/glorpus-work/emulatorx/pkg/settings"
	"github.com/spf13/cobra"
)

// NewSettingsCmd creates the settings command for the launcher preferences in settings.json.
func NewSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage launcher preferences",
		Long:  "View and modify the preferences stored in settings.json below the install root",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show all preferences",
			Args:  cobra.NoArgs,
			RunE:  runSettingsShow,
		},
		&cobra.Command{
			Use:   "get KEY",
			Short: "Get a preference",
			Args:  cobra.ExactArgs(1),
			RunE:  runSettingsGet,
		},
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Set a preference",
			Args:  cobra.ExactArgs(setCommandArgs),
			RunE:  runSettingsSet,
		},
	)

	return cmd
}

func loadSettings() (*config.Config, settings.Settings, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, settings.Settings{}, "", err
	}
	path := settings.PathIn(cfg.GetInstallRoot())
	s, err := settings.Load(path)
	return cfg, s, path, err
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	cfg, s, _, err := loadSettings()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON(cfg) {
		return writeJSON(out, s)
	}

	values := s.ToMap()
	tw := tabwriter.NewWriter(out, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SETTING\tVALUE")
	for _, key := range settings.Keys() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", key, values[key])
	}
	return tw.Flush()
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	_, s, _, err := loadSettings()
	if err != nil {
		return err
	}
	value, err := s.Get(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runSettingsSet(_ *cobra.Command, args []string) error {
	_, s, path, err := loadSettings()
	if err != nil {
		return err
	}
	if err := s.Set(args[0], args[1]); err != nil {
		return err
	}
	if err := settings.Save(path, s); err != nil {
		return err
	}
	logger.Success("Setting updated", logger.Fields{"key": args[0], "value": args[1]})
	return nil
}
