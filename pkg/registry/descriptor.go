// Package registry holds the static table of emulator packages this tool can install.
package registry

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"
)

// ArchiveKind is the container format a package is distributed in.
type ArchiveKind int

// Supported archive kinds.
const (
	SevenZip ArchiveKind = iota + 1
	Zip
)

// Extension returns the file extension used for staging files of this kind.
func (k ArchiveKind) Extension() string {
	switch k {
	case SevenZip:
		return ".7z"
	case Zip:
		return ".zip"
	default:
		return ""
	}
}

func (k ArchiveKind) String() string {
	switch k {
	case SevenZip:
		return "7z"
	case Zip:
		return "zip"
	default:
		return fmt.Sprintf("ArchiveKind(%d)", int(k))
	}
}

// LatestVersion marks packages that track a rolling upstream build.
const LatestVersion = "latest"

// Descriptor describes one installable package.
type Descriptor struct {
	ID          string
	DisplayName string
	DirKey      string
	SourceURL   string
	ArchiveKind ArchiveKind
	// Executables maps a platform id to the executable path relative to the package directory.
	Executables map[string]string

	Version     string
	Description string
	Console     string
}

// StagingName is the file name the archive is downloaded to.
func (d Descriptor) StagingName() string {
	return d.DirKey + d.ArchiveKind.Extension()
}

// Executable returns the relative executable path for platformID.
func (d Descriptor) Executable(platformID string) (string, bool) {
	rel, ok := d.Executables[platformID]
	return rel, ok
}

// Platforms returns the platform ids the package ships an executable for.
func (d Descriptor) Platforms() []string {
	out := make([]string, 0, len(d.Executables))
	for p := range d.Executables {
		out = append(out, p)
	}
	return out
}

// SemVer parses Version. Rolling releases return nil.
func (d Descriptor) SemVer() (*version.Version, error) {
	if strings.EqualFold(d.Version, LatestVersion) {
		return nil, nil
	}
	return version.NewVersion(d.Version)
}
