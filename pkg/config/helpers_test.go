package config

import (
	"testing"
	"time"

	"github.com/glorpus-work/emulatorx/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetValueGetValue(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"install_root", "/games/emulators", "/games/emulators"},
		{"staging_dir", "/tmp/x", "/tmp/x"},
		{"hooks_dir", "/etc/emulatorx/hooks", "/etc/emulatorx/hooks"},
		{"http_timeout", "90s", "1m30s"},
		{"user_agent", "retro/2.0", "retro/2.0"},
		{"min_archive_size", "4096", "4096"},
		{"max_concurrent", "8", "8"},
		{"platform", "linux", "linux"},
		{"output_format", "json", "json"},
		{"log_level", "warn", "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := DefaultConfig()
			require.NoError(t, cfg.SetValue(tt.key, tt.value))
			got, err := cfg.GetValue(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetValue_Errors(t *testing.T) {
	cfg := DefaultConfig()
	assert.ErrorIs(t, cfg.SetValue("http_timeout", "soon"), errors.ErrInvalidConfigValue)
	assert.ErrorIs(t, cfg.SetValue("max_concurrent", "many"), errors.ErrInvalidConfigValue)
	assert.ErrorIs(t, cfg.SetValue("min_archive_size", "1MB"), errors.ErrInvalidConfigValue)
	assert.ErrorIs(t, cfg.SetValue("cache_dir", "/x"), errors.ErrUnknownConfigKey)

	_, err := cfg.GetValue("cache_dir")
	assert.ErrorIs(t, err, errors.ErrUnknownConfigKey)
}

func TestToMap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Settings.HTTPTimeout = 2 * time.Minute
	m := cfg.ToMap()

	assert.Len(t, m, 10)
	assert.Equal(t, "2m0s", m["http_timeout"])
	assert.Equal(t, "1000000", m["min_archive_size"])
	assert.Equal(t, "", m["platform"])
}
