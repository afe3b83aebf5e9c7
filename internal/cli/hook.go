package cli

import (
	"fmt"

	"github.com/glorpus-work/emulatorx/internal/logger"
	"github.com/glorpus-work/emulatorx/pkg/hooks"
	"github.com/glorpus-work/emulatorx/pkg/registry"
	"github.com/spf13/cobra"
)

// NewHookCmd creates the hook command.
func NewHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Manage install hooks",
		Long: `Hooks are Tengo scripts stored as <hooks_dir>/<package>/<type>.tengo.
post-install runs after extraction, pre-remove before an uninstall.`,
	}

	cmd.AddCommand(newHookInitCmd(), newHookPathCmd())
	return cmd
}

func newHookInitCmd() *cobra.Command {
	var hookType string

	cmd := &cobra.Command{
		Use:   "init PACKAGE",
		Short: "Create a hook script from a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, d, ht, err := loadHookTarget(args[0], hookType)
			if err != nil {
				return err
			}
			path, err := runner.Scaffold(d.DirKey, ht)
			if err != nil {
				return err
			}
			logger.Success("Hook script created", logger.Fields{"package": d.ID, "type": string(ht), "path": path})
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&hookType, "type", string(hooks.PostInstall), "Hook type (post-install, pre-remove)")
	return cmd
}

func newHookPathCmd() *cobra.Command {
	var hookType string

	cmd := &cobra.Command{
		Use:   "path PACKAGE",
		Short: "Print where a hook script is looked up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, d, ht, err := loadHookTarget(args[0], hookType)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), runner.ScriptPath(d.DirKey, ht))
			return nil
		},
	}

	cmd.Flags().StringVar(&hookType, "type", string(hooks.PostInstall), "Hook type (post-install, pre-remove)")
	return cmd
}

func loadHookTarget(name, hookType string) (*hooks.Runner, registry.Descriptor, hooks.HookType, error) {
	ht, err := hooks.ParseType(hookType)
	if err != nil {
		return nil, registry.Descriptor{}, "", err
	}
	d, err := registry.Default().Resolve(name)
	if err != nil {
		return nil, registry.Descriptor{}, "", err
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, registry.Descriptor{}, "", err
	}
	return hooks.NewRunner(cfg.GetHooksDir()), d, ht, nil
}
