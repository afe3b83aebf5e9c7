// Package platform maps the host operating system onto the platform ids used by the package registry.
package platform

const (
	// Windows is the platform id for Microsoft Windows.
	Windows = "windows"
	// Linux is the platform id for Linux distributions.
	Linux = "linux"
	// MacOS is the platform id for Apple macOS (GOOS "darwin").
	MacOS = "macos"

	// ArchAMD64 represents the AMD64 (x86_64) architecture.
	ArchAMD64 = "amd64"
	// Arch386 represents the 32-bit x86 architecture.
	Arch386 = "386"
	// ArchARM64 represents the ARM64 (AArch64) architecture.
	ArchARM64 = "arm64"
)

// ValidPlatforms returns the platform ids an executable table may use.
func ValidPlatforms() []string {
	return []string{Windows, Linux, MacOS}
}

// IsValid reports whether id is one of ValidPlatforms after normalization.
func IsValid(id string) bool {
	switch Normalize(id) {
	case Windows, Linux, MacOS:
		return true
	default:
		return false
	}
}
