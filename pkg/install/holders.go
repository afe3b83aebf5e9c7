package install

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/glorpus-work/emulatorx/internal/logger"
	"github.com/shirou/gopsutil/v4/process"
)

// FindHolders lists running processes whose executable, working directory or open files live below dir.
// Lookup failures are logged and yield a shorter list.
func FindHolders(ctx context.Context, dir string) []string {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil
	}
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		logger.Debug("process enumeration failed", logger.Fields{"error": err})
		return nil
	}

	var holders []string
	for _, p := range procs {
		if holdsPath(ctx, p, root) {
			name, _ := p.NameWithContext(ctx)
			if name == "" {
				name = "unknown"
			}
			holders = append(holders, fmt.Sprintf("%s (pid %d)", name, p.Pid))
		}
	}
	sort.Strings(holders)
	return holders
}

func holdsPath(ctx context.Context, p *process.Process, root string) bool {
	if exe, err := p.ExeWithContext(ctx); err == nil && isBelow(root, exe) {
		return true
	}
	if cwd, err := p.CwdWithContext(ctx); err == nil && isBelow(root, cwd) {
		return true
	}
	files, err := p.OpenFilesWithContext(ctx)
	if err != nil {
		return false
	}
	for _, f := range files {
		if isBelow(root, f.Path) {
			return true
		}
	}
	return false
}

func isBelow(root, path string) bool {
	if path == "" {
		return false
	}
	rel, err := filepath.Rel(root, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
