// Package roms keeps the local ROM library below the install root.
package roms

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/glorpus-work/emulatorx/internal/logger"
	"github.com/glorpus-work/emulatorx/pkg/download"
	pkgerrors "github.com/glorpus-work/emulatorx/pkg/errors"
)

// DirName is the ROM directory inside the install root.
const DirName = "roms"

// ROM server endpoints, relative to romServerUrl.
const (
	catalogPath  = "api/roms"
	downloadPath = "api/roms/download/"
)

// Entry describes a downloaded ROM file.
type Entry struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

// RemoteEntry is a ROM offered by the ROM server.
type RemoteEntry struct {
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	Path         string `json:"path,omitempty"`
	LastModified int64  `json:"lastModified,omitempty"` // unix milliseconds
	Downloaded   bool   `json:"downloaded"`
}

// Manager downloads and manages ROM files in <root>/roms.
type Manager struct {
	dir     string
	dl      download.Manager
	baseURL string
}

// NewManager creates a ROM manager. Relative download URLs are resolved against baseURL.
func NewManager(root string, dl download.Manager, baseURL string) *Manager {
	return &Manager{
		dir:     filepath.Join(root, DirName),
		dl:      dl,
		baseURL: baseURL,
	}
}

// Dir returns the ROM directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Download fetches rawURL into the ROM directory and returns the local path.
// An empty filename is taken from the last segment of the URL path.
func (m *Manager) Download(ctx context.Context, rawURL, filename string) (string, error) {
	u, err := m.resolveURL(rawURL)
	if err != nil {
		return "", err
	}
	if filename == "" {
		filename = nameFromURL(u)
	}
	if err := validateFilename(filename); err != nil {
		return "", err
	}

	dest := filepath.Join(m.dir, filename)
	n, err := m.dl.Fetch(ctx, u.String(), dest, download.FetchOptions{Label: filename})
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to download ROM %s", filename)
	}
	logger.Debug("rom downloaded", logger.Fields{"name": filename, "bytes": n, "url": u.String()})
	return dest, nil
}

// Catalog lists the ROMs offered by the ROM server, sorted by name.
// Entries with names that cannot be stored locally are skipped.
func (m *Manager) Catalog(ctx context.Context) ([]RemoteEntry, error) {
	u, err := m.resolveURL(catalogPath)
	if err != nil {
		return nil, err
	}
	var remote []RemoteEntry
	if err := m.dl.FetchJSON(ctx, u.String(), &remote); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list ROM server catalog")
	}

	out := make([]RemoteEntry, 0, len(remote))
	for _, e := range remote {
		if validateFilename(e.Name) != nil {
			logger.Debug("skipping catalog entry", logger.Fields{"name": e.Name})
			continue
		}
		e.Downloaded = m.IsDownloaded(e.Name)
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// DownloadFromServer fetches a catalog ROM by name from the ROM server's download endpoint.
func (m *Manager) DownloadFromServer(ctx context.Context, name string) (string, error) {
	if err := validateFilename(name); err != nil {
		return "", err
	}
	return m.Download(ctx, downloadPath+url.PathEscape(name), name)
}

// IsDownloaded reports whether filename exists in the ROM directory.
func (m *Manager) IsDownloaded(filename string) bool {
	if validateFilename(filename) != nil {
		return false
	}
	info, err := os.Stat(filepath.Join(m.dir, filename))
	return err == nil && info.Mode().IsRegular()
}

// Delete removes filename. Deleting a ROM that is not there is not an error.
func (m *Manager) Delete(filename string) error {
	if err := validateFilename(filename); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(m.dir, filename))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete ROM %s: %w", filename, err)
	}
	return nil
}

// List returns the downloaded ROMs sorted by name.
func (m *Manager) List() ([]Entry, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read ROM directory: %w", err)
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasSuffix(e.Name(), ".tmp") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{Name: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Manager) resolveURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, pkgerrors.Wrapf(pkgerrors.ErrInvalidPath, "invalid ROM url %q", rawURL)
	}
	if u.IsAbs() {
		return u, nil
	}
	base, err := url.Parse(m.baseURL)
	if err != nil || !base.IsAbs() {
		return nil, pkgerrors.Wrapf(pkgerrors.ErrInvalidPath, "relative ROM url %q needs an absolute ROM server url, got %q", rawURL, m.baseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return base.ResolveReference(u), nil
}

func nameFromURL(u *url.URL) string {
	name := path.Base(u.Path)
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	if name == "/" || name == "." {
		return ""
	}
	return name
}

func validateFilename(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) ||
		filepath.Base(name) != name || filepath.VolumeName(name) != "" {
		return pkgerrors.Wrapf(pkgerrors.ErrInvalidFilename, "%q", name)
	}
	return nil
}
