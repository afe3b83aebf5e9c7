package registry

import (
	"testing"

	"github.com/glorpus-work/emulatorx/pkg/errors"
	"github.com/glorpus-work/emulatorx/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableIsValid(t *testing.T) {
	reg := Default()
	all := reg.All()
	require.Len(t, all, 11)

	seen := map[string]bool{}
	for _, d := range all {
		require.NoError(t, Validate(d), d.ID)
		assert.False(t, seen[d.DirKey], "duplicate dir key %s", d.DirKey)
		seen[d.DirKey] = true

		_, ok := d.Executable(platform.Windows)
		assert.True(t, ok, "%s must be launchable on windows", d.ID)
	}

	_, err := New(all)
	assert.NoError(t, err)
}

func TestResolve(t *testing.T) {
	reg := Default()

	tests := []struct {
		id      string
		wantID  string
		wantKey string
		kind    ArchiveKind
	}{
		{"Dolphin", "Dolphin", "dolphin", SevenZip},
		{"dolphin", "Dolphin", "dolphin", SevenZip},
		{"DUCKSTATION", "DuckStation", "duckstation", Zip},
		{"mGBA", "mGBA", "mgba", SevenZip},
		{"PPSSPP", "PPSSPP", "ppsspp", Zip},
		{"Flycast", "Flycast", "flycast", Zip},
		{"ZSNES", "ZSNES", "zsnes", Zip},
		{"Mesen", "Mesen", "mesen", Zip},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			d, err := reg.Resolve(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, d.ID)
			assert.Equal(t, tt.wantKey, d.DirKey)
			assert.Equal(t, tt.kind, d.ArchiveKind)
		})
	}
}

func TestResolve_Unknown(t *testing.T) {
	_, err := Default().Resolve("Atari2600")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnknownPackage)

	var unknown *errors.UnknownPackageError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Atari2600", unknown.ID)
}

func TestStagingName(t *testing.T) {
	d, err := Default().Resolve("Dolphin")
	require.NoError(t, err)
	assert.Equal(t, "dolphin.7z", d.StagingName())

	d, err = Default().Resolve("Xenia")
	require.NoError(t, err)
	assert.Equal(t, "xenia.zip", d.StagingName())
}

func TestDolphinExecutable(t *testing.T) {
	d, err := Default().Resolve("Dolphin")
	require.NoError(t, err)

	rel, ok := d.Executable(platform.Windows)
	require.True(t, ok)
	assert.Equal(t, "Dolphin-x64/Dolphin.exe", rel)

	_, ok = d.Executable(platform.Linux)
	assert.False(t, ok)
	assert.Equal(t, []string{platform.Windows}, d.Platforms())
}

func TestSemVer(t *testing.T) {
	d := Descriptor{Version: "0.10.4"}
	v, err := d.SemVer()
	require.NoError(t, err)
	assert.Equal(t, "0.10.4", v.String())

	d.Version = "latest"
	v, err = d.SemVer()
	require.NoError(t, err)
	assert.Nil(t, v)

	d.Version = "not a version"
	_, err = d.SemVer()
	assert.Error(t, err)
}

func validDescriptor() Descriptor {
	return Descriptor{
		ID:          "Test",
		DirKey:      "test",
		SourceURL:   "http://localhost/test.zip",
		ArchiveKind: Zip,
		Executables: map[string]string{platform.Linux: "bin/test"},
		Version:     "1.0.0",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Descriptor)
	}{
		{"empty id", func(d *Descriptor) { d.ID = "" }},
		{"uppercase dir key", func(d *Descriptor) { d.DirKey = "Test" }},
		{"dir key with separator", func(d *Descriptor) { d.DirKey = "a/b" }},
		{"dot dot dir key", func(d *Descriptor) { d.DirKey = ".." }},
		{"relative url", func(d *Descriptor) { d.SourceURL = "/test.zip" }},
		{"ftp url", func(d *Descriptor) { d.SourceURL = "ftp://host/test.zip" }},
		{"unknown kind", func(d *Descriptor) { d.ArchiveKind = 0 }},
		{"no executables", func(d *Descriptor) { d.Executables = nil }},
		{"unknown platform", func(d *Descriptor) { d.Executables = map[string]string{"plan9": "x"} }},
		{"escaping executable", func(d *Descriptor) { d.Executables = map[string]string{platform.Linux: "../x"} }},
		{"bad version", func(d *Descriptor) { d.Version = "v.x" }},
	}

	require.NoError(t, Validate(validDescriptor()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDescriptor()
			tt.mutate(&d)
			assert.ErrorIs(t, Validate(d), errors.ErrInvalidDescriptor)
		})
	}
}

func TestNew_DuplicateDirKey(t *testing.T) {
	a := validDescriptor()
	b := validDescriptor()
	b.ID = "Other"

	_, err := New([]Descriptor{a, b})
	assert.ErrorIs(t, err, errors.ErrInvalidDescriptor)
}

func TestArchiveKindString(t *testing.T) {
	assert.Equal(t, "7z", SevenZip.String())
	assert.Equal(t, "zip", Zip.String())
	assert.Equal(t, "ArchiveKind(9)", ArchiveKind(9).String())
	assert.Equal(t, "", ArchiveKind(9).Extension())
}
