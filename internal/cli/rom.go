package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/glorpus-work/emulatorx/internal/logger"
	"github.com/glorpus-work/emulatorx/pkg/config"
	"github.com/glorpus-work/emulatorx/pkg/roms"
	"github.com/spf13/cobra"
)

// NewROMCmd creates the rom command.
func NewROMCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rom",
		Short: "Manage the ROM library",
		Long: `Download, list and delete ROM files kept in the roms directory below the install root.
Relative URLs are resolved against the romServerUrl preference, which also serves the
catalog shown by "rom list --remote" and fetched by "rom get".`,
	}

	cmd.AddCommand(newROMDownloadCmd(), newROMGetCmd(), newROMDeleteCmd(), newROMListCmd())
	return cmd
}

func newROMDownloadCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "download URL",
		Short: "Download a ROM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, mgr, err := loadROMManager()
			if err != nil {
				return err
			}

			stop := withSpinner(cmd.Context(), os.Stderr, fmt.Sprintf("Downloading %s...", args[0]))
			path, err := mgr.Download(cmd.Context(), args[0], name)
			stop()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("✓"), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "File name to store the ROM under (default: last URL segment)")
	return cmd
}

func newROMGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME...",
		Short: "Download ROMs from the ROM server catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, mgr, err := loadROMManager()
			if err != nil {
				return err
			}
			for _, name := range args {
				stop := withSpinner(cmd.Context(), os.Stderr, fmt.Sprintf("Downloading %s...", name))
				path, err := mgr.DownloadFromServer(cmd.Context(), name)
				stop()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("✓"), path)
			}
			return nil
		},
	}
}

func newROMDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME...",
		Short: "Delete downloaded ROMs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, mgr, err := loadROMManager()
			if err != nil {
				return err
			}
			for _, name := range args {
				if !mgr.IsDownloaded(name) {
					logger.Warn("ROM not present", logger.Fields{"name": name})
				}
				if err := mgr.Delete(name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("✓"), name)
			}
			return nil
		},
	}
}

func newROMListCmd() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List downloaded ROMs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, mgr, err := loadROMManager()
			if err != nil {
				return err
			}
			if remote {
				return listRemoteROMs(cmd, cfg, mgr)
			}
			entries, err := mgr.List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON(cfg) {
				if entries == nil {
					entries = []roms.Entry{}
				}
				return writeJSON(out, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintf(out, "No ROMs in %s\n", mgr.Dir())
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, TabWidth, ' ', 0)
			_, _ = fmt.Fprintln(tw, "NAME\tSIZE\tMODIFIED")
			for _, e := range entries {
				_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\n", e.Name, e.Size, e.ModTime.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "List the ROM server catalog instead of local files")
	return cmd
}

func listRemoteROMs(cmd *cobra.Command, cfg *config.Config, mgr *roms.Manager) error {
	entries, err := mgr.Catalog(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON(cfg) {
		return writeJSON(out, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "The ROM server offers no ROMs")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tSIZE\tLOCAL")
	for _, e := range entries {
		local := ""
		if e.Downloaded {
			local = green("✓")
		}
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\n", e.Name, e.Size, local)
	}
	return tw.Flush()
}

func loadROMManager() (*config.Config, *roms.Manager, error) {
	cfg, prefs, _, err := loadSettings()
	if err != nil {
		return nil, nil, err
	}
	return cfg, roms.NewManager(cfg.GetInstallRoot(), loadDownloadManager(cfg), prefs.ROMServerURL), nil
}
