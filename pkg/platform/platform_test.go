package platform

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentPlatform(t *testing.T) {
	p := CurrentPlatform()

	assert.Equal(t, Normalize(runtime.GOOS), p.OS)
	assert.Equal(t, NormalizeArch(runtime.GOARCH), p.Arch)
	assert.Equal(t, p.OS, Current())
	assert.Equal(t, p.OS+"/"+p.Arch, p.String())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"darwin", MacOS},
		{"Darwin", MacOS},
		{"osx", MacOS},
		{"macos", MacOS},
		{"win", Windows},
		{"WINDOWS", Windows},
		{" linux ", Linux},
		{"freebsd", "freebsd"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeArch(t *testing.T) {
	tests := map[string]string{
		"x86_64":  ArchAMD64,
		"x64":     ArchAMD64,
		"i686":    Arch386,
		"aarch64": ArchARM64,
		"arm64":   ArchARM64,
		"riscv64": "riscv64",
	}

	for in, want := range tests {
		assert.Equal(t, want, NormalizeArch(in), in)
	}
}

func TestIsValid(t *testing.T) {
	for _, id := range ValidPlatforms() {
		assert.True(t, IsValid(id), id)
	}
	assert.True(t, IsValid("darwin"))
	assert.False(t, IsValid("plan9"))
	assert.False(t, IsValid(""))
}

func TestDescribe(t *testing.T) {
	info, err := Describe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CurrentPlatform(), info.Platform)
}

func TestDescribe_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	info, err := Describe(ctx)
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
		return
	}
	// Some hosts answer without consulting the context.
	assert.Equal(t, CurrentPlatform(), info.Platform)
}
