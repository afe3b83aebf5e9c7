// Package launcher starts installed emulators as detached processes.
package launcher

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/glorpus-work/emulatorx/internal/logger"
	pkgerrors "github.com/glorpus-work/emulatorx/pkg/errors"
)

// Launcher spawns processes and forgets about them.
type Launcher struct{}

// New returns a Launcher.
func New() *Launcher {
	return &Launcher{}
}

// Launch starts exePath with its own directory as working directory and returns the pid.
// The child is detached from the calling terminal and is not tracked after it starts.
// ctx only guards the spawn itself; cancelling it later does not affect the child.
func (l *Launcher) Launch(ctx context.Context, exePath string, args ...string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	// exec.Command, not CommandContext: the emulator outlives this process.
	cmd := exec.Command(exePath, args...)
	cmd.Dir = filepath.Dir(exePath)
	cmd.Env = os.Environ()
	cmd.SysProcAttr = detachedAttr()

	if err := cmd.Start(); err != nil {
		return 0, &pkgerrors.SpawnFailedError{Path: exePath, Err: err}
	}
	pid := cmd.Process.Pid
	logger.Debug("process started", logger.Fields{"path": exePath, "pid": pid})

	go func() {
		err := cmd.Wait()
		logger.Debug("process exited", logger.Fields{"pid": pid, "error": err})
	}()
	return pid, nil
}
