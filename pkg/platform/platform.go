package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform is a host described by a registry platform id and an architecture.
type Platform struct {
	OS   string `yaml:"os" json:"os"`
	Arch string `yaml:"arch" json:"arch"`
}

// CurrentPlatform returns the platform of the running process.
func CurrentPlatform() Platform {
	return Platform{
		OS:   Normalize(runtime.GOOS),
		Arch: NormalizeArch(runtime.GOARCH),
	}
}

// Current returns the registry platform id of the running process.
func Current() string {
	return CurrentPlatform().OS
}

// String returns a string representation of the platform
func (p Platform) String() string {
	return fmt.Sprintf("%s/%s", p.OS, p.Arch)
}

// Normalize maps OS names and common aliases onto registry platform ids.
// Unknown names are lowercased and returned unchanged.
func Normalize(os string) string {
	os = strings.ToLower(strings.TrimSpace(os))
	switch os {
	case "darwin", "osx", "mac", "macos":
		return MacOS
	case "win", "win32", "win64", "windows":
		return Windows
	default:
		return os
	}
}

// NormalizeArch normalizes architecture names to a common format
func NormalizeArch(arch string) string {
	arch = strings.ToLower(arch)
	switch arch {
	case "x86_64", "x64":
		return ArchAMD64
	case "x86", "i386", "i686":
		return Arch386
	case "aarch64":
		return ArchARM64
	default:
		return arch
	}
}
