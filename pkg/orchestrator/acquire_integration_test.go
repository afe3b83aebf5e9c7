package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/emulatorx/pkg/archive"
	"github.com/glorpus-work/emulatorx/pkg/download"
	pkgerrors "github.com/glorpus-work/emulatorx/pkg/errors"
	"github.com/glorpus-work/emulatorx/pkg/hooks"
	"github.com/glorpus-work/emulatorx/pkg/install"
	"github.com/glorpus-work/emulatorx/pkg/launcher"
	"github.com/glorpus-work/emulatorx/pkg/registry"
	"github.com/glorpus-work/emulatorx/pkg/resolver"
	"github.com/glorpus-work/emulatorx/test/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ppsspp = registry.Descriptor{
	ID:          "PPSSPP",
	DisplayName: "PPSSPP",
	DirKey:      "ppsspp",
	ArchiveKind: registry.Zip,
	Executables: map[string]string{"windows": "PPSSPPWindows64.exe"},
	Version:     "1.18.1",
	Console:     "PSP",
}

type stack struct {
	orch     *Orchestrator
	server   *testutil.FixtureServer
	root     string
	staging  string
	hooksDir string
}

// newStack wires real components against a local fixture server serving dolphin.7z.
func newStack(t *testing.T) *stack {
	t.Helper()
	server := testutil.NewFixtureServer(t, map[string]testutil.Fixture{
		"/dolphin.7z": {Body: testutil.ReadFixture(t, "dolphin.7z")},
		"/ppsspp.zip": {Body: testutil.ZipBytes(t, map[string]string{
			"PPSSPPWindows64.exe":   "MZ fake ppsspp binary",
			"assets/ppge_atlas.zim": "atlas",
		})},
	})

	d := dolphin
	d.SourceURL = server.URLFor("/dolphin.7z")
	p := ppsspp
	p.SourceURL = server.URLFor("/ppsspp.zip")
	reg, err := registry.New([]registry.Descriptor{d, p})
	require.NoError(t, err)

	base := t.TempDir()
	s := &stack{
		server:   server,
		root:     filepath.Join(base, "emulators"),
		staging:  filepath.Join(base, "staging"),
		hooksDir: filepath.Join(base, "hooks"),
	}
	s.orch = &Orchestrator{
		Registry:   reg,
		DL:         download.NewManager(0, ""),
		Extractor:  archive.NewManager(),
		Installer:  install.NewManager(s.root),
		Resolver:   resolver.New(s.root),
		Launcher:   launcher.New(),
		HookRunner: hooks.NewRunner(s.hooksDir),
		Options:    Options{StagingDir: s.staging, Platform: "windows", MinArchiveSize: 1},
	}
	return s
}

func (s *stack) writeHook(t *testing.T, hookType hooks.HookType, script string) {
	t.Helper()
	path := hooks.NewRunner(s.hooksDir).ScriptPath("dolphin", hookType)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(script), 0o644))
}

func TestIntegration_AcquireResolveUninstall(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	require.NoError(t, s.orch.Acquire(ctx, "dolphin"))

	exe, err := s.orch.Resolver.Resolve(dolphin, "windows")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.root, "dolphin", "Dolphin-x64", "Dolphin.exe"), exe)
	assert.NoFileExists(t, filepath.Join(s.staging, "dolphin.7z"))

	status := s.orch.Status(ctx)
	require.Len(t, status, 2)
	assert.True(t, status[0].Installed)
	assert.False(t, status[1].Installed)

	require.NoError(t, s.orch.Uninstall(ctx, "Dolphin"))
	assert.False(t, s.orch.Installer.IsInstalled(dolphin))
	assert.DirExists(t, s.root, "install root survives uninstall")

	err = s.orch.Uninstall(ctx, "Dolphin")
	assert.ErrorIs(t, err, pkgerrors.ErrNotInstalled)
}

func TestIntegration_ReinstallReplacesStaleFiles(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	require.NoError(t, s.orch.Acquire(ctx, "Dolphin"))

	stale := filepath.Join(s.root, "dolphin", "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	require.NoError(t, s.orch.Acquire(ctx, "Dolphin"))
	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(s.root, "dolphin", "Dolphin-x64", "Dolphin.exe"))
	assert.Equal(t, 2, s.server.Hits("/dolphin.7z"))
}

func TestIntegration_CorruptArchiveRollsBack(t *testing.T) {
	s := newStack(t)
	s.server.Set("/dolphin.7z", testutil.Fixture{Body: []byte("this is not a 7z archive at all")})

	err := s.orch.Acquire(context.Background(), "Dolphin")
	assert.ErrorIs(t, err, pkgerrors.ErrArchiveCorrupt)
	assert.NoDirExists(t, filepath.Join(s.root, "dolphin"))
	assert.FileExists(t, filepath.Join(s.staging, "dolphin.7z"))
}

func TestIntegration_DownloadGates(t *testing.T) {
	body := testutil.ReadFixture(t, "dolphin.7z")

	tests := []struct {
		name    string
		fixture testutil.Fixture
		minSize int64
		wantErr error
	}{
		{"below minimum size", testutil.Fixture{Body: body}, int64(len(body)) + 1, pkgerrors.ErrSuspiciouslySmallDownload},
		{"truncated body", testutil.Fixture{Body: body[:len(body)/2], DeclaredLength: int64(len(body))}, 1, pkgerrors.ErrTruncatedDownload},
		{"not found", testutil.Fixture{Status: 404}, 1, pkgerrors.ErrDownloadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStack(t)
			s.server.Set("/dolphin.7z", tt.fixture)
			s.orch.Options.MinArchiveSize = tt.minSize

			err := s.orch.Acquire(context.Background(), "Dolphin")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoDirExists(t, filepath.Join(s.root, "dolphin"))
			assert.NoFileExists(t, filepath.Join(s.staging, "dolphin.7z"))
		})
	}
}

func TestIntegration_DownloadFailureKeepsInstall(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	require.NoError(t, s.orch.Acquire(ctx, "Dolphin"))

	s.server.Set("/dolphin.7z", testutil.Fixture{Status: 500})
	err := s.orch.Acquire(ctx, "Dolphin")
	assert.ErrorIs(t, err, pkgerrors.ErrDownloadFailed)
	assert.FileExists(t, filepath.Join(s.root, "dolphin", "Dolphin-x64", "Dolphin.exe"))
}

func TestIntegration_PostInstallHookFailureRollsBack(t *testing.T) {
	s := newStack(t)
	s.writeHook(t, hooks.PostInstall, `err := "missing BIOS"`)

	err := s.orch.Acquire(context.Background(), "Dolphin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing BIOS")
	assert.NoDirExists(t, filepath.Join(s.root, "dolphin"))
}

func TestIntegration_PostInstallHookSeesHookVars(t *testing.T) {
	s := newStack(t)
	s.orch.Options.HookVars = map[string]interface{}{"romServerUrl": "http://nas.lan:1248"}
	s.writeHook(t, hooks.PostInstall, `
err := ""
if romServerUrl != "http://nas.lan:1248" {
	err = "unexpected romServerUrl " + romServerUrl
}`)

	require.NoError(t, s.orch.Acquire(context.Background(), "Dolphin"))
	assert.True(t, s.orch.Installer.IsInstalled(dolphin))
}

func TestIntegration_PreRemoveHookBlocksUninstall(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	require.NoError(t, s.orch.Acquire(ctx, "Dolphin"))

	s.writeHook(t, hooks.PreRemove, `err := "saves not backed up"`)
	err := s.orch.Uninstall(ctx, "Dolphin")
	require.Error(t, err)
	assert.True(t, s.orch.Installer.IsInstalled(dolphin))
}

func TestIntegration_AcquireAllMixedArchives(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	err := s.orch.AcquireAll(ctx, []string{"Dolphin", "ppsspp", "Atari"}, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrUnknownPackage)

	for _, d := range []registry.Descriptor{dolphin, ppsspp} {
		exe, err := s.orch.Resolver.Resolve(d, "windows")
		require.NoError(t, err, d.ID)
		assert.FileExists(t, exe)
	}
	assert.FileExists(t, filepath.Join(s.root, "ppsspp", "assets", "ppge_atlas.zim"))
}
