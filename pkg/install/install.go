// Package install manages the per-package directories below the install root.
package install

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/glorpus-work/emulatorx/internal/logger"
	pkgerrors "github.com/glorpus-work/emulatorx/pkg/errors"
	"github.com/glorpus-work/emulatorx/pkg/fsutil"
	"github.com/glorpus-work/emulatorx/pkg/registry"
)

// HolderFinder reports processes that keep files below dir open.
type HolderFinder func(ctx context.Context, dir string) []string

// Manager owns the install root. Each package lives in <root>/<dirkey>.
type Manager struct {
	root      string
	holders   HolderFinder
	removeAll func(string) error
}

// NewManager creates a manager for root. The directory is created lazily.
func NewManager(root string) *Manager {
	return &Manager{
		root:      root,
		holders:   FindHolders,
		removeAll: os.RemoveAll,
	}
}

// WithHolderFinder replaces the process lookup used to annotate cleanup failures.
func (m *Manager) WithHolderFinder(f HolderFinder) *Manager {
	m.holders = f
	return m
}

// Root creates the install root if needed and returns it.
func (m *Manager) Root() (string, error) {
	if err := fsutil.EnsureDir(m.root); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to create install root %s", m.root)
	}
	return m.root, nil
}

// PackagePath returns the directory d is installed to. It does not touch the filesystem.
func (m *Manager) PackagePath(d registry.Descriptor) string {
	return filepath.Join(m.root, d.DirKey)
}

// IsInstalled reports whether anything exists at the package path.
// ClearForReinstall and Uninstall treat the path the same way.
func (m *Manager) IsInstalled(d registry.Descriptor) bool {
	return fsutil.Exists(m.PackagePath(d))
}

// ClearForReinstall leaves an empty package directory behind, removing any previous installation.
func (m *Manager) ClearForReinstall(ctx context.Context, d registry.Descriptor) error {
	if _, err := m.Root(); err != nil {
		return err
	}
	dir := m.PackagePath(d)
	if fsutil.Exists(dir) {
		logger.Debug("removing previous installation", logger.Fields{"package": d.ID, "path": dir})
		if err := m.remove(ctx, dir); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(dir, fsutil.DirModeDefault); err != nil {
		return pkgerrors.Wrapf(err, "failed to create package directory %s", dir)
	}
	return nil
}

// Uninstall removes the package directory.
func (m *Manager) Uninstall(ctx context.Context, d registry.Descriptor) error {
	dir := m.PackagePath(d)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &pkgerrors.NotInstalledError{ID: d.ID}
		}
		return pkgerrors.Wrapf(err, "failed to inspect %s", dir)
	}
	if err := m.remove(ctx, dir); err != nil {
		return err
	}
	logger.Debug("package directory removed", logger.Fields{"package": d.ID, "path": dir})
	return nil
}

// List returns the names of the top-level directories below the root, sorted.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read install root: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *Manager) remove(ctx context.Context, dir string) error {
	err := m.removeAll(dir)
	if err == nil {
		return nil
	}
	cleanupErr := &pkgerrors.CleanupFailedError{Path: dir, Err: err}
	if m.holders != nil {
		cleanupErr.Holders = m.holders(ctx, dir)
	}
	return cleanupErr
}
