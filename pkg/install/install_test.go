package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	pkgerrors "github.com/glorpus-work/emulatorx/pkg/errors"
	"github.com/glorpus-work/emulatorx/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dolphin = registry.Descriptor{ID: "Dolphin", DirKey: "dolphin", ArchiveKind: registry.SevenZip}

func TestRoot_CreatesAndIsIdempotent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "EmulatorX", "emulators")
	m := NewManager(root)

	got, err := m.Root()
	require.NoError(t, err)
	assert.Equal(t, root, got)
	assert.DirExists(t, root)

	_, err = m.Root()
	require.NoError(t, err)
}

func TestPackagePath(t *testing.T) {
	m := NewManager("/opt/emulators")
	assert.Equal(t, filepath.Join("/opt/emulators", "dolphin"), m.PackagePath(dolphin))
	assert.NoDirExists(t, "/opt/emulators/dolphin")
}

func TestIsInstalled(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root)
	assert.False(t, m.IsInstalled(dolphin))

	require.NoError(t, os.Mkdir(filepath.Join(root, "dolphin"), 0o755))
	assert.True(t, m.IsInstalled(dolphin))
}

func TestStrayFileAtPackagePath(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root)
	stray := filepath.Join(root, "dolphin")
	require.NoError(t, os.WriteFile(stray, []byte("not a dir"), 0o644))
	assert.True(t, m.IsInstalled(dolphin), "any entry at the package path counts")

	require.NoError(t, m.ClearForReinstall(context.Background(), dolphin))
	assert.DirExists(t, stray)

	require.NoError(t, os.Remove(stray))
	require.NoError(t, os.WriteFile(stray, []byte("not a dir"), 0o644))
	require.NoError(t, m.Uninstall(context.Background(), dolphin))
	assert.False(t, m.IsInstalled(dolphin))
}

func TestClearForReinstall(t *testing.T) {
	root := filepath.Join(t.TempDir(), "root")
	m := NewManager(root)

	// fresh install
	require.NoError(t, m.ClearForReinstall(context.Background(), dolphin))
	assert.DirExists(t, filepath.Join(root, "dolphin"))

	// reinstall wipes previous content
	stale := filepath.Join(root, "dolphin", "User", "Config", "Dolphin.ini")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	require.NoError(t, m.ClearForReinstall(context.Background(), dolphin))
	entries, err := os.ReadDir(filepath.Join(root, "dolphin"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClearForReinstall_CleanupFailed(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "dolphin"), 0o755))

	m := NewManager(root).WithHolderFinder(func(_ context.Context, dir string) []string {
		assert.Equal(t, filepath.Join(root, "dolphin"), dir)
		return []string{"Dolphin.exe (pid 4242)"}
	})
	m.removeAll = func(string) error { return os.ErrPermission }

	err := m.ClearForReinstall(context.Background(), dolphin)

	var cleanup *pkgerrors.CleanupFailedError
	require.ErrorAs(t, err, &cleanup)
	assert.Equal(t, filepath.Join(root, "dolphin"), cleanup.Path)
	assert.Equal(t, []string{"Dolphin.exe (pid 4242)"}, cleanup.Holders)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Contains(t, err.Error(), "pid 4242")
}

func TestUninstall(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root)

	err := m.Uninstall(context.Background(), dolphin)
	var notInstalled *pkgerrors.NotInstalledError
	require.ErrorAs(t, err, &notInstalled)
	assert.Equal(t, "Dolphin", notInstalled.ID)

	exe := filepath.Join(root, "dolphin", "Dolphin-x64", "Dolphin.exe")
	require.NoError(t, os.MkdirAll(filepath.Dir(exe), 0o755))
	require.NoError(t, os.WriteFile(exe, []byte("MZ"), 0o755))

	require.NoError(t, m.Uninstall(context.Background(), dolphin))
	assert.NoDirExists(t, filepath.Join(root, "dolphin"))
	assert.DirExists(t, root)
}

func TestUninstall_CleanupFailed(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "dolphin"), 0o755))

	m := NewManager(root).WithHolderFinder(nil)
	m.removeAll = func(string) error { return os.ErrPermission }

	err := m.Uninstall(context.Background(), dolphin)
	require.ErrorIs(t, err, pkgerrors.ErrCleanupFailed)
	assert.NotContains(t, err.Error(), "in use by")
}

func TestList(t *testing.T) {
	root := t.TempDir()
	m := NewManager(filepath.Join(root, "missing"))
	names, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	m = NewManager(root)
	for _, d := range []string{"xenia", "dolphin", "oldemu"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, d), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "settings.json"), []byte("{}"), 0o644))

	names, err = m.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"dolphin", "oldemu", "xenia"}, names)
}

func TestIsBelow(t *testing.T) {
	root := filepath.Join(string(filepath.Separator)+"root", "dolphin")
	assert.True(t, isBelow(root, root))
	assert.True(t, isBelow(root, filepath.Join(root, "Dolphin-x64", "Dolphin.exe")))
	assert.False(t, isBelow(root, filepath.Join(string(filepath.Separator)+"root", "dolphin2", "x")))
	assert.False(t, isBelow(root, filepath.Dir(root)))
	assert.False(t, isBelow(root, ""))
}

func TestFindHolders_IncludesOwnExecutable(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("relies on /proc")
	}
	exe, err := os.Executable()
	require.NoError(t, err)
	exe, err = filepath.EvalSymlinks(exe)
	require.NoError(t, err)

	holders := FindHolders(context.Background(), filepath.Dir(exe))
	want := fmt.Sprintf("(pid %d)", os.Getpid())
	found := false
	for _, h := range holders {
		if strings.HasSuffix(h, want) {
			found = true
		}
	}
	assert.True(t, found, "holders %v should include the test process", holders)
}
