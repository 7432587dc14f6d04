// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Database DatabaseConfig `toml:"database"`
	Storage  StorageConfig  `toml:"storage"`
	Source   SourceConfig   `toml:"source"`
	Import   ImportConfig   `toml:"import"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type StorageConfig struct {
	Root string `toml:"root"`
}

// SourceConfig describes the gallery host being scraped.
type SourceConfig struct {
	BaseURL            string   `toml:"base_url"`
	AlbumPathMarker    string   `toml:"album_path_marker"`
	UserAgent          string   `toml:"user_agent"`
	InsecureSkipVerify bool     `toml:"insecure_skip_verify"`
	PageTimeout        Duration `toml:"page_timeout"`
	ImageTimeout       Duration `toml:"image_timeout"`
	ConnectTimeout     Duration `toml:"connect_timeout"`
	MaxRedirects       int      `toml:"max_redirects"`
}

// ImportConfig tunes the import run.
type ImportConfig struct {
	MaxAlbums   int      `toml:"max_albums"`
	Concurrency int      `toml:"concurrency"`
	ImageDelay  Duration `toml:"image_delay"`
	AlbumDelay  Duration `toml:"album_delay"`
	Retries     int      `toml:"retries"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/pixarr.db"
	}
	if c.Storage.Root == "" {
		c.Storage.Root = "./data/media"
	}
	if c.Source.AlbumPathMarker == "" {
		c.Source.AlbumPathMarker = "/albums/"
	}
	if c.Source.PageTimeout.Duration == 0 {
		c.Source.PageTimeout = DurationFrom(30 * time.Second)
	}
	if c.Source.ImageTimeout.Duration == 0 {
		c.Source.ImageTimeout = DurationFrom(90 * time.Second)
	}
	if c.Source.ConnectTimeout.Duration == 0 {
		c.Source.ConnectTimeout = DurationFrom(10 * time.Second)
	}
	if c.Source.MaxRedirects == 0 {
		c.Source.MaxRedirects = 5
	}
	if c.Import.Concurrency == 0 {
		c.Import.Concurrency = 1
	}
	if c.Import.ImageDelay.Duration == 0 {
		c.Import.ImageDelay = DurationFrom(250 * time.Millisecond)
	}
	if c.Import.AlbumDelay.Duration == 0 {
		c.Import.AlbumDelay = DurationFrom(time.Second)
	}
	if c.Import.Retries == 0 {
		c.Import.Retries = 2
	}
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}
