package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const (
	// AppName is the directory name used under per-user data locations.
	AppName = "EmulatorX"
	// ConfigDirName is the directory name used under the user config directory.
	ConfigDirName = "emulatorx"
	// StagingDirName is the directory name used under the OS temp directory.
	StagingDirName = "emulatorx_downloads"
)

// LocalAppDataDir returns the per-user, machine-local application data directory.
// On Windows: %LOCALAPPDATA%
// On macOS: ~/Library/Application Support
// Elsewhere: $XDG_DATA_HOME or ~/.local/share
func LocalAppDataDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return dir, nil
		}
		return "", errors.New("LOCALAPPDATA environment variable not set")
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}

// DefaultInstallRoot returns <LocalAppData>/EmulatorX/emulators.
func DefaultInstallRoot() (string, error) {
	base, err := LocalAppDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName, "emulators"), nil
}

// DefaultStagingDir returns <TMP>/emulatorx_downloads.
func DefaultStagingDir() string {
	return filepath.Join(os.TempDir(), StagingDirName)
}

// DefaultHooksDir returns <UserConfigDir>/emulatorx/hooks.
func DefaultHooksDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, ConfigDirName, "hooks"), nil
}
