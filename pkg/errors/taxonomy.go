package errors

import (
	"fmt"
	"strings"
)

// Error types for specific failure conditions of the acquisition pipeline.
type (
	// UnknownPackageError is returned when an id is not in the registry.
	UnknownPackageError struct {
		ID string
	}

	// UnsupportedPlatformError is returned when a package has no executable for a platform.
	UnsupportedPlatformError struct {
		ID       string
		Platform string
	}

	// DownloadFailedError is returned for non-success HTTP responses.
	DownloadFailedError struct {
		URL    string
		Status int
	}

	// SuspiciouslySmallDownloadError is returned when an archive payload is below the minimum size.
	SuspiciouslySmallDownloadError struct {
		Size int64
		Min  int64
	}

	// TruncatedDownloadError is returned when the body length differs from the declared Content-Length.
	TruncatedDownloadError struct {
		Expected int64
		Actual   int64
	}

	// ArchiveCorruptError is returned when an archive cannot be decoded or contains unsafe entries.
	ArchiveCorruptError struct {
		Path string
		Err  error
	}

	// CleanupFailedError is returned when a package directory cannot be removed.
	// Holders lists processes that appear to keep files under Path open.
	CleanupFailedError struct {
		Path    string
		Err     error
		Holders []string
	}

	// ExecutableNotFoundError is returned when the resolved executable does not exist.
	// Listing holds the top-level entries of the package directory.
	ExecutableNotFoundError struct {
		Path    string
		Listing []string
	}

	// SpawnFailedError is returned when the OS refuses to start a process.
	SpawnFailedError struct {
		Path string
		Err  error
	}

	// NotInstalledError is returned when uninstalling a package that has no install directory.
	NotInstalledError struct {
		ID string
	}
)

func (e *UnknownPackageError) Error() string {
	return fmt.Sprintf("unknown package %q", e.ID)
}

func (e *UnknownPackageError) Is(target error) bool { return target == ErrUnknownPackage }

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("package %s does not support platform %q", e.ID, e.Platform)
}

func (e *UnsupportedPlatformError) Is(target error) bool { return target == ErrUnsupportedPlatform }

func (e *DownloadFailedError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("download failed: unexpected status code: %d", e.Status)
	}
	return fmt.Sprintf("download of %s failed: unexpected status code: %d", e.URL, e.Status)
}

func (e *DownloadFailedError) Is(target error) bool { return target == ErrDownloadFailed }

func (e *SuspiciouslySmallDownloadError) Error() string {
	return fmt.Sprintf("downloaded file is suspiciously small (%d bytes, minimum %d)", e.Size, e.Min)
}

func (e *SuspiciouslySmallDownloadError) Is(target error) bool {
	return target == ErrSuspiciouslySmallDownload
}

func (e *TruncatedDownloadError) Error() string {
	return fmt.Sprintf("download incomplete: expected %d bytes, got %d bytes", e.Expected, e.Actual)
}

func (e *TruncatedDownloadError) Is(target error) bool { return target == ErrTruncatedDownload }

func (e *ArchiveCorruptError) Error() string {
	return fmt.Sprintf("failed to extract %s: %v", e.Path, e.Err)
}

func (e *ArchiveCorruptError) Is(target error) bool { return target == ErrArchiveCorrupt }

// Unwrap returns the underlying decode error.
func (e *ArchiveCorruptError) Unwrap() error { return e.Err }

func (e *CleanupFailedError) Error() string {
	msg := fmt.Sprintf("failed to remove %s: %v", e.Path, e.Err)
	if len(e.Holders) > 0 {
		msg += " (in use by " + strings.Join(e.Holders, ", ") + ")"
	}
	return msg
}

func (e *CleanupFailedError) Is(target error) bool { return target == ErrCleanupFailed }

// Unwrap returns the underlying filesystem error.
func (e *CleanupFailedError) Unwrap() error { return e.Err }

func (e *ExecutableNotFoundError) Error() string {
	if len(e.Listing) == 0 {
		return fmt.Sprintf("executable not found at %s", e.Path)
	}
	return fmt.Sprintf("executable not found at %s (directory contains: %s)", e.Path, strings.Join(e.Listing, ", "))
}

func (e *ExecutableNotFoundError) Is(target error) bool { return target == ErrExecutableNotFound }

func (e *SpawnFailedError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Path, e.Err)
}

func (e *SpawnFailedError) Is(target error) bool { return target == ErrSpawnFailed }

// Unwrap returns the underlying exec error.
func (e *SpawnFailedError) Unwrap() error { return e.Err }

func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("package %s is not installed", e.ID)
}

func (e *NotInstalledError) Is(target error) bool { return target == ErrNotInstalled }
