package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/glorpus-work/emulatorx/pkg/registry"
	"github.com/spf13/cobra"
)

// Sort orders accepted by list --sort.
const (
	sortByName    = "name"
	sortByVersion = "version"
)

type listEntry struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	Console     string   `json:"console"`
	Version     string   `json:"version"`
	Archive     string   `json:"archive"`
	Platforms   []string `json:"platforms"`
	Description string   `json:"description"`
	Installed   bool     `json:"installed"`
}

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var (
		nameFilter string
		sortBy     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available emulators",
		Long: `List every emulator in the registry with its console, version and supported platforms.

Use --name to filter by name and --sort to order by name or version.
Rolling releases ("latest") sort before numbered versions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, nameFilter, sortBy)
		},
	}

	cmd.Flags().StringVar(&nameFilter, "name", "", "Filter emulators by name (partial match)")
	cmd.Flags().StringVar(&sortBy, "sort", sortByName, "Sort order (name, version)")

	return cmd
}

func runList(cmd *cobra.Command, nameFilter, sortBy string) error {
	if sortBy != sortByName && sortBy != sortByVersion {
		return fmt.Errorf("invalid sort order %q, must be one of: %s, %s", sortBy, sortByName, sortByVersion)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	installer := loadInstallManager(cfg)

	descriptors := filterDescriptors(registry.Default().All(), nameFilter)
	sortDescriptors(descriptors, sortBy)

	entries := make([]listEntry, 0, len(descriptors))
	for _, d := range descriptors {
		platforms := d.Platforms()
		sort.Strings(platforms)
		entries = append(entries, listEntry{
			Name:        d.ID,
			DisplayName: d.DisplayName,
			Console:     d.Console,
			Version:     d.Version,
			Archive:     d.ArchiveKind.String(),
			Platforms:   platforms,
			Description: d.Description,
			Installed:   installer.IsInstalled(d),
		})
	}

	out := cmd.OutOrStdout()
	if isJSON(cfg) {
		return writeJSON(out, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No emulators found")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tCONSOLE\tVERSION\tARCHIVE\tPLATFORMS\tDESCRIPTION")
	for _, e := range entries {
		name := e.Name
		if e.Installed {
			name = cyan(name)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", name, e.Console, e.Version, e.Archive,
			strings.Join(e.Platforms, ","), truncate(e.Description, MaxDescriptionLength))
	}
	return tw.Flush()
}

func filterDescriptors(all []registry.Descriptor, nameFilter string) []registry.Descriptor {
	if nameFilter == "" {
		return all
	}
	needle := strings.ToLower(nameFilter)
	out := make([]registry.Descriptor, 0, len(all))
	for _, d := range all {
		if strings.Contains(strings.ToLower(d.ID), needle) || strings.Contains(strings.ToLower(d.DisplayName), needle) {
			out = append(out, d)
		}
	}
	return out
}

// sortDescriptors orders by name, or by version with rolling releases first and newest versions next.
func sortDescriptors(ds []registry.Descriptor, by string) {
	sort.SliceStable(ds, func(i, j int) bool {
		if by == sortByVersion {
			if c := compareVersions(ds[i], ds[j]); c != 0 {
				return c > 0
			}
		}
		return strings.ToLower(ds[i].ID) < strings.ToLower(ds[j].ID)
	})
}

// compareVersions returns >0 when a sorts as newer than b.
func compareVersions(a, b registry.Descriptor) int {
	va, errA := a.SemVer()
	vb, errB := b.SemVer()
	switch {
	case errA != nil || errB != nil:
		// unparsable versions sort last
		return boolRank(errA == nil) - boolRank(errB == nil)
	case va == nil || vb == nil:
		// nil is a rolling release
		return boolRank(va == nil) - boolRank(vb == nil)
	}
	return va.Compare(vb)
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
