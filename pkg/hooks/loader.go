package hooks

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/glorpus-work/emulatorx/internal/logger"
	pkgerrors "github.com/glorpus-work/emulatorx/pkg/errors"
	"github.com/glorpus-work/emulatorx/pkg/fsutil"
)

// Runner loads hook scripts from <dir>/<dirkey>/<hook-type>.tengo and executes them.
type Runner struct {
	dir string
}

// NewRunner creates a runner reading scripts below dir. An empty dir disables hooks.
func NewRunner(dir string) *Runner {
	return &Runner{dir: dir}
}

// ScriptPath returns where the script for dirKey and hookType is expected.
func (r *Runner) ScriptPath(dirKey string, hookType HookType) string {
	return filepath.Join(r.dir, dirKey, string(hookType)+ScriptExtension)
}

// Run executes the hook if a script exists for it.
func (r *Runner) Run(ctx context.Context, hookType HookType, hctx Context) error {
	if r.dir == "" {
		return nil
	}
	path := r.ScriptPath(hctx.DirKey, hookType)
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return pkgerrors.Wrapf(pkgerrors.ErrHookLoad, "error reading hook file %s: %v", path, err)
	}

	logger.Debug("executing hook script", logger.Fields{
		"hook":    string(hookType),
		"path":    path,
		"package": hctx.PackageName,
	})

	executor := NewTengoExecutor()
	executor.AddScript(hookType, string(content))
	if err := executor.Execute(ctx, hookType, hctx); err != nil {
		return pkgerrors.Wrapf(err, "hook %s for %s", hookType, hctx.PackageName)
	}
	return nil
}

// Scaffold writes a template script for dirKey and hookType. Existing scripts are left alone.
func (r *Runner) Scaffold(dirKey string, hookType HookType) (string, error) {
	path := r.ScriptPath(dirKey, hookType)
	if fsutil.Exists(path) {
		return path, pkgerrors.Wrapf(pkgerrors.ErrHookExists, "hook script %s", path)
	}
	if err := fsutil.EnsureFileDir(path); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to create hook directory for %s", path)
	}
	if err := os.WriteFile(path, []byte(HookTemplate(hookType)), fsutil.FileModeDefault); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to write hook script %s", path)
	}
	return path, nil
}

// HookTemplate generates a template for a hook script.
func HookTemplate(hookType HookType) string {
	switch hookType {
	case PostInstall:
		return `// Post-install hook
// This script runs after the package archive has been extracted.
// Available variables:
// - packageName: string - id of the package, e.g. "Dolphin"
// - packageVersion: string - registry version or "latest"
// - installPath: string - the package directory
// - platform: string - windows, linux or macos
// - installRoot: string - the directory holding every package
// - romDir: string - the ROM library directory
// - romServerUrl: string - the romServerUrl preference, may be empty
//
// Set a non-empty top-level err to fail the installation. The package directory
// is removed again in that case.

// Example: make sure a portable marker exists
/*
os := import("os")
f := os.create(installPath + "/portable.txt")
f.close()
*/`

	case PreRemove:
		return `// Pre-remove hook
// This script runs before the package directory is deleted.
// Available variables: same as post-install hook
//
// Set a non-empty top-level err to abort the uninstall.

// Example: refuse to remove while saves are unsynced
/*
os := import("os")
err := ""
if !is_error(os.stat(installPath + "/User/.dirty")) {
    err = "saves not synced yet"
}
*/`

	default:
		return "// Unknown hook type: " + string(hookType)
	}
}
