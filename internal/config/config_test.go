package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pixarr.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
[source]
base_url = "https://gallery.example.com"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "./data/pixarr.db", cfg.Database.Path)
	assert.Equal(t, "./data/media", cfg.Storage.Root)
	assert.Equal(t, "/albums/", cfg.Source.AlbumPathMarker)
	assert.Equal(t, 30*time.Second, cfg.Source.PageTimeout.Duration)
	assert.Equal(t, 90*time.Second, cfg.Source.ImageTimeout.Duration)
	assert.Equal(t, 10*time.Second, cfg.Source.ConnectTimeout.Duration)
	assert.Equal(t, 5, cfg.Source.MaxRedirects)
	assert.False(t, cfg.Source.InsecureSkipVerify)
	assert.Equal(t, 1, cfg.Import.Concurrency)
	assert.Equal(t, 250*time.Millisecond, cfg.Import.ImageDelay.Duration)
	assert.Equal(t, time.Second, cfg.Import.AlbumDelay.Duration)
	assert.Equal(t, 2, cfg.Import.Retries)
	assert.Empty(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"

[source]
base_url = "https://gallery.example.com"
page_timeout = "45s"
insecure_skip_verify = true

[import]
max_albums = 3
concurrency = 4
image_delay = "10ms"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 45*time.Second, cfg.Source.PageTimeout.Duration)
	assert.True(t, cfg.Source.InsecureSkipVerify)
	assert.Equal(t, 3, cfg.Import.MaxAlbums)
	assert.Equal(t, 4, cfg.Import.Concurrency)
	assert.Equal(t, 10*time.Millisecond, cfg.Import.ImageDelay.Duration)
}

func TestLoadEnvSubstitution(t *testing.T) {
	t.Setenv("PIXARR_TEST_BASE", "https://env.example.com")

	path := writeConfig(t, `
[source]
base_url = "${PIXARR_TEST_BASE}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.Source.BaseURL)
}

func TestLoadBadDuration(t *testing.T) {
	path := writeConfig(t, `
[source]
base_url = "https://gallery.example.com"
page_timeout = "not-a-duration"
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateAllowsEmptyBaseURL(t *testing.T) {
	// The import command can take the listing URL as an argument instead.
	cfg := &Config{}
	cfg.applyDefaults()
	assert.Empty(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"relative base url", func(c *Config) { c.Source.BaseURL = "/albums" }, "source.base_url"},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"negative max albums", func(c *Config) { c.Import.MaxAlbums = -1 }, "import.max_albums"},
		{"concurrency too high", func(c *Config) { c.Import.Concurrency = 99 }, "import.concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			cfg.Source.BaseURL = "https://gallery.example.com"
			tt.mutate(cfg)

			errs := cfg.Validate()
			require.NotEmpty(t, errs)
			assert.Contains(t, errs[0], tt.want)
		})
	}
}
