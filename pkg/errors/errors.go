// Package errors holds the sentinel errors and typed failures shared by every emulatorx package.
package errors

import "fmt"

// Failure categories. Typed errors in taxonomy.go match these through errors.Is.
var (
	ErrUnknownPackage            = fmt.Errorf("unknown package")
	ErrUnsupportedPlatform       = fmt.Errorf("unsupported platform")
	ErrDownloadFailed            = fmt.Errorf("download failed")
	ErrSuspiciouslySmallDownload = fmt.Errorf("suspiciously small download")
	ErrTruncatedDownload         = fmt.Errorf("truncated download")
	ErrArchiveCorrupt            = fmt.Errorf("archive corrupt")
	ErrCleanupFailed             = fmt.Errorf("cleanup failed")
	ErrExecutableNotFound        = fmt.Errorf("executable not found")
	ErrSpawnFailed               = fmt.Errorf("failed to spawn process")
	ErrNotInstalled              = fmt.Errorf("not installed")
)

// Common error types.
var (
	// Config errors.
	ErrEmptyConfigPath     = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath   = fmt.Errorf("invalid config file path")
	ErrConfigParse         = fmt.Errorf("failed to parse config")
	ErrConfigValidation    = fmt.Errorf("invalid configuration")
	ErrConfigEncode        = fmt.Errorf("failed to encode config")
	ErrConfigDirectory     = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate    = fmt.Errorf("failed to create config file")
	ErrConfigFileRename    = fmt.Errorf("failed to replace config file")
	ErrConfigFileExists    = fmt.Errorf("config file already exists")
	ErrConfigMarshal       = fmt.Errorf("failed to marshal config")
	ErrUnknownConfigKey    = fmt.Errorf("unknown configuration key")
	ErrInvalidConfigValue  = fmt.Errorf("invalid configuration value")
	ErrHTTPTimeoutNegative = fmt.Errorf("http timeout cannot be negative")
	ErrMaxConcurrent       = fmt.Errorf("max_concurrent must be at least 1")
	ErrMinArchiveSize      = fmt.Errorf("min_archive_size cannot be negative")
	ErrInvalidLogLevel     = fmt.Errorf("invalid log level")
	ErrInvalidOutputFormat = fmt.Errorf("invalid output format")

	// Settings errors.
	ErrUnknownSetting = fmt.Errorf("unknown setting")

	// Path errors.
	ErrInvalidPath     = fmt.Errorf("invalid path")
	ErrInvalidFilename = fmt.Errorf("invalid file name")

	// Registry errors.
	ErrInvalidDescriptor = fmt.Errorf("invalid package descriptor")

	// Hook errors.
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
	ErrHookLoad      = fmt.Errorf("failed to load hook")
	ErrHookExists    = fmt.Errorf("hook script already exists")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
