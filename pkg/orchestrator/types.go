//go:generate mockgen -destination=./mocks/orchestrator.go -package=mocks . Registry,Fetcher,Extractor,Installer,ExecResolver,Launcher,HookRunner

package orchestrator

import (
	"context"

	"github.com/glorpus-work/emulatorx/pkg/download"
	"github.com/glorpus-work/emulatorx/pkg/hooks"
	"github.com/glorpus-work/emulatorx/pkg/registry"
)

// Registry is the subset of the package registry used by the orchestrator.
type Registry interface {
	Resolve(id string) (registry.Descriptor, error)
	All() []registry.Descriptor
}

// Fetcher downloads package archives.
type Fetcher interface {
	FetchArchive(ctx context.Context, url, dest string, opts download.FetchOptions) (int64, error)
}

// Extractor unpacks a staged archive into a package directory.
type Extractor interface {
	Extract(ctx context.Context, archivePath string, kind registry.ArchiveKind, destDir string) error
}

// Installer is the subset of the install directory manager used by the orchestrator.
type Installer interface {
	Root() (string, error)
	PackagePath(d registry.Descriptor) string
	IsInstalled(d registry.Descriptor) bool
	ClearForReinstall(ctx context.Context, d registry.Descriptor) error
	Uninstall(ctx context.Context, d registry.Descriptor) error
}

// ExecResolver maps an installed package to its executable.
type ExecResolver interface {
	Resolve(d registry.Descriptor, platformID string) (string, error)
}

// Launcher starts processes.
type Launcher interface {
	Launch(ctx context.Context, exePath string, args ...string) (int, error)
}

// HookRunner executes user hook scripts.
type HookRunner interface {
	Run(ctx context.Context, hookType hooks.HookType, hctx hooks.Context) error
}

// Event phases.
const (
	PhaseResolving   = "resolving"
	PhaseDownloading = "downloading"
	PhaseExtracting  = "extracting"
	PhaseHooks       = "hooks"
	PhaseRemoving    = "removing"
	PhaseDone        = "done"
	PhaseError       = "error"
)

// Event represents a simple progress notification.
type Event struct {
	Phase string // one of the Phase constants
	ID    string // package id as requested
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent    func(Event)
	OnProgress func(download.Progress)
}

// Options control orchestrator execution.
type Options struct {
	StagingDir     string
	Platform       string
	MinArchiveSize int64
	Concurrency    int
	HookVars       map[string]interface{} // extra variables exposed to hook scripts
}

// Status is the installation state of one registry entry.
type Status struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Installed   bool   `json:"installed"`
	DirKey      string `json:"dirKey"`
	Path        string `json:"path"`
	Version     string `json:"version"`
	Console     string `json:"console"`
}
