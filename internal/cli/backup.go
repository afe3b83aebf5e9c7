package cli

import (
	"fmt"
	"path/filepath"

	"github.com/glorpus-work/emulatorx/internal/logger"
	"github.com/glorpus-work/emulatorx/pkg/archive"
	"github.com/glorpus-work/emulatorx/pkg/errors"
	"github.com/glorpus-work/emulatorx/pkg/registry"
	"github.com/spf13/cobra"
)

// NewBackupCmd creates the backup command.
func NewBackupCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "backup PACKAGE",
		Short: "Zip an installed emulator",
		Long: `Write the install directory of an emulator, including its user data and
configuration, to a zip archive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(cmd, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "file", "f", "", "Archive to write (default: <package>-backup.zip)")
	return cmd
}

func runBackup(cmd *cobra.Command, name, output string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	d, err := registry.Default().Resolve(name)
	if err != nil {
		return err
	}
	installer := loadInstallManager(cfg)
	if !installer.IsInstalled(d) {
		return &errors.NotInstalledError{ID: d.ID}
	}
	if output == "" {
		output = d.DirKey + "-backup" + registry.Zip.Extension()
	}
	output, err = filepath.Abs(output)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidPath, err.Error())
	}

	stop := withSpinner(cmd.Context(), cmd.ErrOrStderr(), fmt.Sprintf("Archiving %s...", d.ID))
	err = archive.NewManager().Create(cmd.Context(), installer.PackagePath(d), output)
	stop()
	if err != nil {
		return err
	}

	logger.Success("Backup written", logger.Fields{"package": d.ID, "path": output})
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("✓"), output)
	return nil
}
