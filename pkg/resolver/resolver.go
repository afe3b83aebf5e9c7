// Package resolver maps an installed package to the executable that launches it.
package resolver

import (
	"os"
	"path/filepath"

	pkgerrors "github.com/glorpus-work/emulatorx/pkg/errors"
	"github.com/glorpus-work/emulatorx/pkg/fsutil"
	"github.com/glorpus-work/emulatorx/pkg/platform"
	"github.com/glorpus-work/emulatorx/pkg/registry"
)

// Resolver looks executables up in the descriptor table. It never searches the filesystem.
type Resolver struct {
	installRoot string
}

// New creates a resolver for packages installed below installRoot.
func New(installRoot string) *Resolver {
	return &Resolver{installRoot: installRoot}
}

// Resolve returns the absolute executable path of d for platformID.
func (r *Resolver) Resolve(d registry.Descriptor, platformID string) (string, error) {
	platformID = platform.Normalize(platformID)
	rel, ok := d.Executable(platformID)
	if !ok {
		return "", &pkgerrors.UnsupportedPlatformError{ID: d.ID, Platform: platformID}
	}

	pkgDir := filepath.Join(r.installRoot, d.DirKey)
	exe := filepath.Join(pkgDir, filepath.FromSlash(rel))
	info, err := os.Stat(exe)
	if err != nil || info.IsDir() {
		return "", &pkgerrors.ExecutableNotFoundError{Path: exe, Listing: fsutil.ListDir(pkgDir)}
	}
	return exe, nil
}
