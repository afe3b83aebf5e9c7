package platform

import (
	"context"

	"github.com/shirou/gopsutil/v4/host"
)

// HostInfo describes the machine emulators are installed on.
type HostInfo struct {
	Platform Platform `json:"platform"`
	Distro   string   `json:"distro,omitempty"`
	Family   string   `json:"family,omitempty"`
	Version  string   `json:"version,omitempty"`
}

// Describe returns the current platform together with distribution details from gopsutil.
// Detection failures fall back to the bare platform; only context cancellation is an error.
func Describe(ctx context.Context) (HostInfo, error) {
	info := HostInfo{Platform: CurrentPlatform()}

	distro, family, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return HostInfo{}, ctx.Err()
		}
		return info, nil
	}

	info.Distro = distro
	info.Family = family
	info.Version = version
	return info, nil
}
