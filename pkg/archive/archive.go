// Package archive unpacks downloaded emulator archives and builds zip fixtures.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/emulatorx/internal/logger"
	pkgerrors "github.com/glorpus-work/emulatorx/pkg/errors"
	"github.com/glorpus-work/emulatorx/pkg/fsutil"
	"github.com/glorpus-work/emulatorx/pkg/registry"
	"github.com/mholt/archives"
)

// Manager handles archive extraction and creation operations.
type Manager struct{}

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// Extract unpacks archivePath into destDir. destDir is created if needed and never removed,
// even when extraction fails halfway.
func (am *Manager) Extract(ctx context.Context, archivePath string, kind registry.ArchiveKind, destDir string) error {
	extractor, err := extractorFor(kind)
	if err != nil {
		return err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := fsutil.EnsureDir(destDir); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}
	root, err := filepath.Abs(destDir)
	if err != nil {
		return fmt.Errorf("failed to resolve destination directory: %w", err)
	}

	count := 0
	handler := func(ctx context.Context, entry archives.FileInfo) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		count++
		return am.extractEntry(root, entry)
	}

	if err := extractor.Extract(ctx, f, handler); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, pkgerrors.ErrArchiveCorrupt) {
			return err
		}
		return &pkgerrors.ArchiveCorruptError{Path: archivePath, Err: err}
	}

	logger.Debug("archive extracted", logger.Fields{"archive": archivePath, "dest": root, "entries": count})
	return nil
}

// Create writes the contents of sourceDir into a zip archive at archivePath.
func (am *Manager) Create(ctx context.Context, sourceDir, archivePath string) error {
	absolutePath, err := filepath.Abs(sourceDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for source directory: %w", err)
	}

	archiveFiles, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		absolutePath + string(os.PathSeparator): "",
	})
	if err != nil {
		return fmt.Errorf("failed to read files from disk: %w", err)
	}

	if err := fsutil.EnsureFileDir(archivePath); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", archivePath, err)
	}
	defer func() {
		_ = file.Sync()
		_ = file.Close()
	}()

	if err := (archives.Zip{}).Archive(ctx, file, archiveFiles); err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	return nil
}

func extractorFor(kind registry.ArchiveKind) (archives.Extractor, error) {
	switch kind {
	case registry.SevenZip:
		return archives.SevenZip{}, nil
	case registry.Zip:
		return archives.Zip{}, nil
	default:
		return nil, fmt.Errorf("unsupported archive kind %s: %w", kind, pkgerrors.ErrInvalidDescriptor)
	}
}

// extractEntry writes a single archive entry below root.
func (am *Manager) extractEntry(root string, entry archives.FileInfo) error {
	targetPath, err := safeJoin(root, entry.NameInArchive)
	if err != nil {
		return err
	}
	if targetPath == root {
		return nil
	}

	switch {
	case entry.IsDir():
		return os.MkdirAll(targetPath, fsutil.DirModeDefault)
	case entry.Mode()&os.ModeSymlink != 0:
		return am.writeSymlink(root, entry, targetPath)
	default:
		return am.writeRegularFile(entry, targetPath)
	}
}

// safeJoin resolves name against root and rejects anything that would land outside of it.
func safeJoin(root, name string) (string, error) {
	slashed := strings.ReplaceAll(name, `\`, "/")
	if strings.HasPrefix(slashed, "/") || filepath.VolumeName(name) != "" || hasDotDotSegment(slashed) {
		return "", traversal(name)
	}
	target := filepath.Join(root, filepath.FromSlash(path.Clean("/"+slashed)))
	if !within(root, target) {
		return "", traversal(name)
	}
	return target, nil
}

func hasDotDotSegment(name string) bool {
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}

func traversal(name string) error {
	return &pkgerrors.ArchiveCorruptError{Path: name, Err: fmt.Errorf("entry escapes destination directory")}
}

// writeSymlink creates a symlink whose target must stay inside root.
func (am *Manager) writeSymlink(root string, entry archives.FileInfo, targetPath string) error {
	link := entry.LinkTarget
	if link == "" || filepath.IsAbs(link) {
		return traversal(entry.NameInArchive)
	}
	if !within(root, filepath.Join(filepath.Dir(targetPath), filepath.FromSlash(link))) {
		return traversal(entry.NameInArchive)
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), fsutil.DirModeDefault); err != nil {
		return fmt.Errorf("failed to create parent directory for symlink %s: %w", entry.NameInArchive, err)
	}
	_ = os.Remove(targetPath)
	return os.Symlink(link, targetPath)
}

// writeRegularFile copies the entry to targetPath and preserves its mode and mtime.
func (am *Manager) writeRegularFile(entry archives.FileInfo, targetPath string) error {
	srcFile, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", entry.NameInArchive, err)
	}
	defer func() { _ = srcFile.Close() }()

	if err := os.MkdirAll(filepath.Dir(targetPath), fsutil.DirModeDefault); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", entry.NameInArchive, err)
	}

	perm := entry.Mode().Perm()
	if perm == 0 {
		perm = fsutil.FileModeDefault
	}
	dstFile, err := fsutil.CreateFilePerm(targetPath, perm)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", targetPath, err)
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return fmt.Errorf("failed to copy file %s: %w", entry.NameInArchive, err)
	}
	if err := dstFile.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", targetPath, err)
	}

	if err := os.Chmod(targetPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions for %s: %w", targetPath, err)
	}
	if mtime := entry.ModTime(); !mtime.IsZero() {
		if err := os.Chtimes(targetPath, mtime, mtime); err != nil {
			return fmt.Errorf("failed to set modification time for %s: %w", targetPath, err)
		}
	}
	return nil
}
