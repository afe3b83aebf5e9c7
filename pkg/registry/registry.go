package registry

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/glorpus-work/emulatorx/pkg/errors"
	"github.com/glorpus-work/emulatorx/pkg/platform"
)

// Registry resolves package ids against a fixed descriptor table.
type Registry struct {
	entries []Descriptor
}

// Default returns the registry of every package emulatorx knows how to install.
func Default() *Registry {
	return &Registry{entries: packages}
}

// New builds a registry over a custom table. Each descriptor is validated.
func New(entries []Descriptor) (*Registry, error) {
	seen := make(map[string]bool, len(entries))
	for _, d := range entries {
		if err := Validate(d); err != nil {
			return nil, err
		}
		key := strings.ToLower(d.DirKey)
		if seen[key] {
			return nil, errors.Wrapf(errors.ErrInvalidDescriptor, "duplicate dir key %q", d.DirKey)
		}
		seen[key] = true
	}
	out := make([]Descriptor, len(entries))
	copy(out, entries)
	return &Registry{entries: out}, nil
}

// Resolve returns the descriptor whose ID or DirKey matches id, ignoring case.
func (r *Registry) Resolve(id string) (Descriptor, error) {
	needle := strings.TrimSpace(id)
	for _, d := range r.entries {
		if strings.EqualFold(d.ID, needle) || strings.EqualFold(d.DirKey, needle) {
			return d, nil
		}
	}
	return Descriptor{}, &errors.UnknownPackageError{ID: id}
}

// All returns every descriptor in display order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(r.entries))
	copy(out, r.entries)
	return out
}

// Validate checks that a descriptor is complete and well formed.
func Validate(d Descriptor) error {
	if d.ID == "" {
		return errors.Wrap(errors.ErrInvalidDescriptor, "id cannot be empty")
	}
	if d.DirKey == "" || d.DirKey != strings.ToLower(d.DirKey) || strings.ContainsAny(d.DirKey, `/\`) || d.DirKey == "." || d.DirKey == ".." {
		return errors.Wrapf(errors.ErrInvalidDescriptor, "%s: dir key %q must be a lowercase directory name", d.ID, d.DirKey)
	}
	u, err := url.Parse(d.SourceURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Wrapf(errors.ErrInvalidDescriptor, "%s: source url %q must be an absolute http(s) url", d.ID, d.SourceURL)
	}
	if d.ArchiveKind.Extension() == "" {
		return errors.Wrapf(errors.ErrInvalidDescriptor, "%s: unknown archive kind %s", d.ID, d.ArchiveKind)
	}
	if len(d.Executables) == 0 {
		return errors.Wrapf(errors.ErrInvalidDescriptor, "%s: no executables declared", d.ID)
	}
	for p, rel := range d.Executables {
		if !platform.IsValid(p) {
			return errors.Wrapf(errors.ErrInvalidDescriptor, "%s: unknown platform %q", d.ID, p)
		}
		if rel == "" || strings.HasPrefix(rel, "/") || strings.Contains(rel, "..") {
			return errors.Wrapf(errors.ErrInvalidDescriptor, "%s: executable path %q must be relative", d.ID, rel)
		}
	}
	if d.Version != "" {
		if _, err := d.SemVer(); err != nil {
			return errors.Wrapf(errors.ErrInvalidDescriptor, "%s: %v", d.ID, err)
		}
	}
	return nil
}

// String implements fmt.Stringer for log output.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s@%s", d.ID, d.Version)
}
