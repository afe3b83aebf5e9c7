package resolver

import (
	"os"
	"path/filepath"
	"testing"

	pkgerrors "github.com/glorpus-work/emulatorx/pkg/errors"
	"github.com/glorpus-work/emulatorx/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dolphin(t *testing.T) registry.Descriptor {
	t.Helper()
	d, err := registry.Default().Resolve("Dolphin")
	require.NoError(t, err)
	return d
}

func TestResolve_Found(t *testing.T) {
	root := t.TempDir()
	exe := filepath.Join(root, "dolphin", "Dolphin-x64", "Dolphin.exe")
	require.NoError(t, os.MkdirAll(filepath.Dir(exe), 0o755))
	require.NoError(t, os.WriteFile(exe, []byte("MZ"), 0o755))

	got, err := New(root).Resolve(dolphin(t), "windows")
	require.NoError(t, err)
	assert.Equal(t, exe, got)

	got, err = New(root).Resolve(dolphin(t), "win64")
	require.NoError(t, err)
	assert.Equal(t, exe, got)
}

func TestResolve_UnsupportedPlatform(t *testing.T) {
	for _, p := range []string{"linux", "macos", "darwin", "plan9"} {
		t.Run(p, func(t *testing.T) {
			_, err := New(t.TempDir()).Resolve(dolphin(t), p)
			var unsupported *pkgerrors.UnsupportedPlatformError
			require.ErrorAs(t, err, &unsupported)
			assert.Equal(t, "Dolphin", unsupported.ID)
		})
	}
}

func TestResolve_ExecutableNotFound(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, pkgDir string)
		listing []string
	}{
		{
			name:  "package dir missing",
			setup: func(*testing.T, string) {},
		},
		{
			name: "wrong layout",
			setup: func(t *testing.T, pkgDir string) {
				require.NoError(t, os.MkdirAll(filepath.Join(pkgDir, "Dolphin-x64-2509"), 0o755))
				require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "readme.txt"), nil, 0o644))
			},
			listing: []string{"Dolphin-x64-2509/", "readme.txt"},
		},
		{
			name: "executable is a directory",
			setup: func(t *testing.T, pkgDir string) {
				require.NoError(t, os.MkdirAll(filepath.Join(pkgDir, "Dolphin-x64", "Dolphin.exe"), 0o755))
			},
			listing: []string{"Dolphin-x64/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			tt.setup(t, filepath.Join(root, "dolphin"))

			_, err := New(root).Resolve(dolphin(t), "windows")

			var notFound *pkgerrors.ExecutableNotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, filepath.Join(root, "dolphin", "Dolphin-x64", "Dolphin.exe"), notFound.Path)
			if tt.listing == nil {
				assert.Empty(t, notFound.Listing)
			} else {
				assert.Equal(t, tt.listing, notFound.Listing)
			}
		})
	}
}
