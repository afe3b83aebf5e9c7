// Package config provides configuration management for emulatorx.
// It handles loading, validating and saving the YAML application config, which decides
// where packages are installed, where downloads are staged and how the network is used.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glorpus-work/emulatorx/pkg/errors"
	"github.com/glorpus-work/emulatorx/pkg/fsutil"
	"github.com/glorpus-work/emulatorx/pkg/platform"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Settings Settings `yaml:"settings"`
}

// Settings represents general application settings.
type Settings struct {
	// Filesystem layout
	InstallRoot string `yaml:"install_root,omitempty"`
	StagingDir  string `yaml:"staging_dir,omitempty"`
	HooksDir    string `yaml:"hooks_dir,omitempty"`

	// Network settings
	HTTPTimeout    time.Duration `yaml:"http_timeout"` // 0 disables the timeout
	UserAgent      string        `yaml:"user_agent,omitempty"`
	MinArchiveSize int64         `yaml:"min_archive_size"`
	MaxConcurrent  int           `yaml:"max_concurrent"`

	// Platform overrides the detected host platform (windows, linux, macos).
	Platform string `yaml:"platform,omitempty"`

	// Output settings
	OutputFormat string `yaml:"output_format"` // text, json
	LogLevel     string `yaml:"log_level"`     // debug, info, warn, error
}

// Default configuration values.
const (
	// DefaultMinArchiveSize rejects archive downloads below roughly one megabyte.
	DefaultMinArchiveSize = 1_000_000

	// DefaultMaxConcurrent is the default number of packages acquired in parallel.
	DefaultMaxConcurrent = 3

	// DefaultUserAgent is sent with every download.
	DefaultUserAgent = "emulatorx/1.0"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	installRoot, err := fsutil.DefaultInstallRoot()
	if err != nil {
		installRoot = filepath.Join(".", fsutil.AppName, "emulators")
	}
	hooksDir, err := fsutil.DefaultHooksDir()
	if err != nil {
		hooksDir = filepath.Join(installRoot, "hooks")
	}

	return &Config{
		Settings: Settings{
			InstallRoot:    installRoot,
			StagingDir:     fsutil.DefaultStagingDir(),
			HooksDir:       hooksDir,
			HTTPTimeout:    0,
			UserAgent:      DefaultUserAgent,
			MinArchiveSize: DefaultMinArchiveSize,
			MaxConcurrent:  DefaultMaxConcurrent,
			OutputFormat:   "text",
			LogLevel:       "info",
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrConfigValidation, err)
	}

	return &config, nil
}

// SaveConfig saves configuration to a file, replacing it atomically.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigFileRename, err.Error())
	}

	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigMarshal, err.Error())
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	s := c.Settings
	if s.HTTPTimeout < 0 {
		return errors.ErrHTTPTimeoutNegative
	}
	if s.MinArchiveSize < 0 {
		return errors.ErrMinArchiveSize
	}
	if s.MaxConcurrent < 1 {
		return errors.ErrMaxConcurrent
	}
	if s.Platform != "" && !platform.IsValid(s.Platform) {
		return fmt.Errorf("%w: platform %q, must be one of: %s", errors.ErrInvalidConfigValue,
			s.Platform, strings.Join(platform.ValidPlatforms(), ", "))
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[s.OutputFormat] {
		return fmt.Errorf("%w %q, must be one of: text, json", errors.ErrInvalidOutputFormat, s.OutputFormat)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return fmt.Errorf("%w %q, must be one of: debug, info, warn, error", errors.ErrInvalidLogLevel, s.LogLevel)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, fsutil.ConfigDirName, "config.yaml"), nil
}

// GetInstallRoot returns the directory packages are installed below.
func (c *Config) GetInstallRoot() string {
	return c.Settings.InstallRoot
}

// GetStagingDir returns the directory archives are downloaded to before extraction.
func (c *Config) GetStagingDir() string {
	return c.Settings.StagingDir
}

// GetHooksDir returns the directory holding per-package hook scripts.
func (c *Config) GetHooksDir() string {
	return c.Settings.HooksDir
}

// GetPlatform returns the configured platform override or the host platform.
func (c *Config) GetPlatform() string {
	if c.Settings.Platform != "" {
		return platform.Normalize(c.Settings.Platform)
	}
	return platform.Current()
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.InstallRoot == "" {
		c.Settings.InstallRoot = defaults.Settings.InstallRoot
	}
	if c.Settings.StagingDir == "" {
		c.Settings.StagingDir = defaults.Settings.StagingDir
	}
	if c.Settings.HooksDir == "" {
		c.Settings.HooksDir = defaults.Settings.HooksDir
	}
	if c.Settings.UserAgent == "" {
		c.Settings.UserAgent = defaults.Settings.UserAgent
	}
	if c.Settings.MinArchiveSize == 0 {
		c.Settings.MinArchiveSize = defaults.Settings.MinArchiveSize
	}
	if c.Settings.MaxConcurrent == 0 {
		c.Settings.MaxConcurrent = defaults.Settings.MaxConcurrent
	}
	if c.Settings.OutputFormat == "" {
		c.Settings.OutputFormat = defaults.Settings.OutputFormat
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
}
