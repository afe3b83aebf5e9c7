package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/glorpus-work/emulatorx/pkg/install"
	"github.com/glorpus-work/emulatorx/pkg/platform"
	"github.com/glorpus-work/emulatorx/pkg/registry"
	"github.com/glorpus-work/emulatorx/pkg/roms"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/spf13/cobra"
)

type doctorReport struct {
	Host        platform.HostInfo `json:"host"`
	Platform    string            `json:"platform"`
	ConfigPath  string            `json:"configPath"`
	InstallRoot string            `json:"installRoot"`
	StagingDir  string            `json:"stagingDir"`
	HooksDir    string            `json:"hooksDir"`
	FreeBytes   uint64            `json:"freeBytes"`
	Installed   []string          `json:"installed"`
	Unsupported []string          `json:"unsupported"`
	Orphans     []string          `json:"orphans"`
}

// NewDoctorCmd creates the doctor command.
func NewDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the local installation",
		Long: `Print host and directory information and look for problems: directories in the
install root that belong to no known emulator, and installed emulators without an
executable for the current platform.`,
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	host, err := platform.Describe(ctx)
	if err != nil {
		return err
	}

	installer := loadInstallManager(cfg)
	root, err := installer.Root()
	if err != nil {
		return err
	}

	report := doctorReport{
		Host:        host,
		Platform:    cfg.GetPlatform(),
		ConfigPath:  configPath,
		InstallRoot: root,
		StagingDir:  cfg.GetStagingDir(),
		HooksDir:    cfg.GetHooksDir(),
		FreeBytes:   freeBytes(ctx, root),
	}
	if err := inspectInstallRoot(&report, installer, registry.Default().All()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON(cfg) {
		return writeJSON(out, report)
	}
	return printDoctorReport(out, report)
}

// inspectInstallRoot fills in installed packages, unsupported installs and orphan directories.
func inspectInstallRoot(report *doctorReport, installer *install.Manager, all []registry.Descriptor) error {
	dirs, err := installer.List()
	if err != nil {
		return err
	}

	known := make(map[string]bool, len(all)+1)
	known[roms.DirName] = true
	for _, d := range all {
		known[d.DirKey] = true
		if !installer.IsInstalled(d) {
			continue
		}
		report.Installed = append(report.Installed, d.ID)
		if _, ok := d.Executable(report.Platform); !ok {
			report.Unsupported = append(report.Unsupported, d.ID)
		}
	}
	for _, dir := range dirs {
		if !known[dir] {
			report.Orphans = append(report.Orphans, dir)
		}
	}
	slices.Sort(report.Installed)
	return nil
}

func freeBytes(ctx context.Context, path string) uint64 {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return 0
	}
	return usage.Free
}

func printDoctorReport(out io.Writer, r doctorReport) error {
	tw := tabwriter.NewWriter(out, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Host\t%s %s %s\n", r.Host.Platform, r.Host.Distro, r.Host.Version)
	_, _ = fmt.Fprintf(tw, "Platform\t%s\n", r.Platform)
	_, _ = fmt.Fprintf(tw, "Config\t%s\n", r.ConfigPath)
	_, _ = fmt.Fprintf(tw, "Install root\t%s\n", r.InstallRoot)
	_, _ = fmt.Fprintf(tw, "Staging\t%s\n", r.StagingDir)
	_, _ = fmt.Fprintf(tw, "Hooks\t%s\n", r.HooksDir)
	_, _ = fmt.Fprintf(tw, "Free space\t%d MiB\n", r.FreeBytes>>20)
	_, _ = fmt.Fprintf(tw, "Installed\t%d\n", len(r.Installed))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Orphans) == 0 && len(r.Unsupported) == 0 {
		fmt.Fprintf(out, "\n%s No problems found\n", green("✓"))
		return nil
	}
	fmt.Fprintln(out)
	for _, dir := range r.Orphans {
		fmt.Fprintf(out, "%s %s does not belong to any known emulator\n", yellow("!"), dir)
	}
	for _, id := range r.Unsupported {
		fmt.Fprintf(out, "%s %s is installed but has no executable for %s\n", yellow("!"), id, r.Platform)
	}
	return nil
}
