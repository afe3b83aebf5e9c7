package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/glorpus-work/emulatorx/pkg/errors"
)

// SetValue sets a configuration value by its YAML key.
// Supported keys:
//   - install_root, staging_dir, hooks_dir: string - directories
//   - http_timeout: duration - e.g. 30s, 0 disables
//   - user_agent: string
//   - min_archive_size: int - bytes
//   - max_concurrent: int
//   - platform: string - windows, linux, macos or empty for auto-detect
//   - output_format: string - text or json
//   - log_level: string - debug, info, warn, error
func (c *Config) SetValue(key, value string) error {
	switch key {
	case "install_root":
		c.Settings.InstallRoot = value
	case "staging_dir":
		c.Settings.StagingDir = value
	case "hooks_dir":
		c.Settings.HooksDir = value
	case "http_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidConfigValue, "invalid duration for %s: %s", key, value)
		}
		c.Settings.HTTPTimeout = d
	case "user_agent":
		c.Settings.UserAgent = value
	case "min_archive_size":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidConfigValue, "invalid integer for %s: %s", key, value)
		}
		c.Settings.MinArchiveSize = n
	case "max_concurrent":
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidConfigValue, "invalid integer for %s: %s", key, value)
		}
		c.Settings.MaxConcurrent = n
	case "platform":
		c.Settings.Platform = value
	case "output_format":
		c.Settings.OutputFormat = value
	case "log_level":
		c.Settings.LogLevel = value
	default:
		return errors.Wrapf(errors.ErrUnknownConfigKey, "%s", key)
	}
	return nil
}

// GetValue returns the value of a configuration key as a string.
func (c *Config) GetValue(key string) (string, error) {
	values := c.ToMap()
	v, ok := values[key]
	if !ok {
		return "", errors.Wrapf(errors.ErrUnknownConfigKey, "%s", key)
	}
	return v, nil
}

// ToMap returns all settings keyed by their YAML name.
// This is useful for displaying the configuration.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string)

	settingsValue := reflect.ValueOf(c.Settings)
	settingsType := settingsValue.Type()

	for i := 0; i < settingsValue.NumField(); i++ {
		field := settingsType.Field(i)
		yamlTag := field.Tag.Get("yaml")
		if yamlTag == "" || yamlTag == "-" {
			continue
		}

		// Handle yaml tags with options (e.g., "install_root,omitempty")
		yamlKey := strings.Split(yamlTag, ",")[0]

		fieldValue := settingsValue.Field(i)
		var strValue string

		switch v := fieldValue.Interface().(type) {
		case time.Duration:
			strValue = v.String()
		case string:
			strValue = v
		case int:
			strValue = strconv.Itoa(v)
		case int64:
			strValue = strconv.FormatInt(v, 10)
		case bool:
			strValue = strconv.FormatBool(v)
		default:
			strValue = fmt.Sprintf("%v", v)
		}

		result[yamlKey] = strValue
	}

	return result
}
