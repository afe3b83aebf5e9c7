// Package settings reads and writes the launcher preferences stored next to the installed emulators.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	pkgerrors "github.com/glorpus-work/emulatorx/pkg/errors"
	"github.com/glorpus-work/emulatorx/pkg/fsutil"
)

// FileName is the settings file name inside the install root.
const FileName = "settings.json"

// DefaultROMServerURL is where ROM downloads are fetched from unless configured otherwise.
const DefaultROMServerURL = "http://localhost:1248"

// Settings is the persisted user preference document.
type Settings struct {
	AutoStart    bool   `json:"autoStart"`
	CheckUpdates bool   `json:"checkUpdates"`
	CloseToTray  bool   `json:"closeToTray"`
	ROMServerURL string `json:"romServerUrl"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		AutoStart:    false,
		CheckUpdates: true,
		CloseToTray:  false,
		ROMServerURL: DefaultROMServerURL,
	}
}

// PathIn returns the settings file location for an install root.
func PathIn(root string) string {
	return filepath.Join(root, FileName)
}

// Load reads the settings file. A missing file yields Default().
// Keys absent from the file keep their default values.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("failed to read settings %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	return s, nil
}

// Save writes the whole document to path, replacing any previous file atomically.
func Save(path string, s Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	data = append(data, '\n')
	if err := fsutil.WriteFileAtomic(path, data, fsutil.FileModeDefault); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", path, err)
	}
	return nil
}

// Keys returns the settable keys in sorted order.
func Keys() []string {
	keys := []string{"autoStart", "checkUpdates", "closeToTray", "romServerUrl"}
	sort.Strings(keys)
	return keys
}

// Get returns the string form of a single setting.
func (s Settings) Get(key string) (string, error) {
	switch key {
	case "autoStart":
		return strconv.FormatBool(s.AutoStart), nil
	case "checkUpdates":
		return strconv.FormatBool(s.CheckUpdates), nil
	case "closeToTray":
		return strconv.FormatBool(s.CloseToTray), nil
	case "romServerUrl":
		return s.ROMServerURL, nil
	default:
		return "", pkgerrors.Wrapf(pkgerrors.ErrUnknownSetting, "%q", key)
	}
}

// Set updates a single setting from its string form.
func (s *Settings) Set(key, value string) error {
	switch key {
	case "autoStart":
		return parseBoolInto(&s.AutoStart, key, value)
	case "checkUpdates":
		return parseBoolInto(&s.CheckUpdates, key, value)
	case "closeToTray":
		return parseBoolInto(&s.CloseToTray, key, value)
	case "romServerUrl":
		s.ROMServerURL = value
		return nil
	default:
		return pkgerrors.Wrapf(pkgerrors.ErrUnknownSetting, "%q", key)
	}
}

// ToMap returns every setting keyed by its JSON name.
func (s Settings) ToMap() map[string]string {
	out := make(map[string]string, 4)
	for _, k := range Keys() {
		out[k], _ = s.Get(k)
	}
	return out
}

func parseBoolInto(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return pkgerrors.Wrapf(pkgerrors.ErrInvalidConfigValue, "%s expects a boolean, got %q", key, value)
	}
	*dst = b
	return nil
}
