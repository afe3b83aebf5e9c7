package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/glorpus-work/emulatorx/internal/logger"
	"github.com/glorpus-work/emulatorx/pkg/archive"
	"github.com/glorpus-work/emulatorx/pkg/config"
	"github.com/glorpus-work/emulatorx/pkg/download"
	"github.com/glorpus-work/emulatorx/pkg/hooks"
	"github.com/glorpus-work/emulatorx/pkg/install"
	"github.com/glorpus-work/emulatorx/pkg/launcher"
	"github.com/glorpus-work/emulatorx/pkg/orchestrator"
	"github.com/glorpus-work/emulatorx/pkg/registry"
	"github.com/glorpus-work/emulatorx/pkg/resolver"
	"github.com/glorpus-work/emulatorx/pkg/roms"
	"github.com/glorpus-work/emulatorx/pkg/settings"
)

// These variables will be set by the main package
var (
	ConfigPath   *string
	Verbose      *bool
	NoColor      *bool
	OutputFormat *string
)

// loadConfig loads the configuration, applies the global flags and reconfigures the logger.
func loadConfig() (*config.Config, error) {
	applyColorFlag()

	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with CLI flags if provided
	if OutputFormat != nil && *OutputFormat != "" {
		cfg.Settings.OutputFormat = *OutputFormat
	}
	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.InitLogger(cfg.Settings.LogLevel, logger.OutputFormat(cfg.Settings.OutputFormat))
	return cfg, nil
}

func getConfigPath() (string, error) {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath, nil
	}
	defaultPath, err := config.GetDefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("failed to get default config path: %w", err)
	}
	return defaultPath, nil
}

func loadDownloadManager(cfg *config.Config) *download.ManagerImpl {
	return download.NewManager(cfg.Settings.HTTPTimeout, cfg.Settings.UserAgent)
}

func loadInstallManager(cfg *config.Config) *install.Manager {
	return install.NewManager(cfg.GetInstallRoot())
}

// newOrchestrator wires the default registry and the real collaborators from cfg.
func newOrchestrator(cfg *config.Config, h orchestrator.Hooks) *orchestrator.Orchestrator {
	root := cfg.GetInstallRoot()
	return &orchestrator.Orchestrator{
		Registry:   registry.Default(),
		DL:         loadDownloadManager(cfg),
		Extractor:  archive.NewManager(),
		Installer:  install.NewManager(root),
		Resolver:   resolver.New(root),
		Launcher:   launcher.New(),
		HookRunner: hooks.NewRunner(cfg.GetHooksDir()),
		Hooks:      h,
		Options: orchestrator.Options{
			StagingDir:     cfg.GetStagingDir(),
			Platform:       cfg.GetPlatform(),
			MinArchiveSize: cfg.Settings.MinArchiveSize,
			Concurrency:    cfg.Settings.MaxConcurrent,
			HookVars:       hookVars(root),
		},
	}
}

// hookVars exposes the install layout and the ROM server preference to hook scripts.
func hookVars(root string) map[string]interface{} {
	vars := map[string]interface{}{
		"installRoot":  root,
		"romDir":       filepath.Join(root, roms.DirName),
		"romServerUrl": "",
	}
	prefs, err := settings.Load(settings.PathIn(root))
	if err != nil {
		logger.Warn("could not read settings for hooks", logger.Fields{"error": err})
		return vars
	}
	vars["romServerUrl"] = prefs.ROMServerURL
	return vars
}

func isJSON(cfg *config.Config) bool {
	return cfg.Settings.OutputFormat == string(logger.FormatJSON)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
