package config

import (
	"fmt"
	"net/url"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	// base_url may be empty; the import command accepts a listing URL argument.
	if c.Source.BaseURL != "" {
		if u, err := url.Parse(c.Source.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("source.base_url: must be an absolute http(s) URL, got %q", c.Source.BaseURL))
		}
	}

	if c.Source.MaxRedirects < 0 {
		errs = append(errs, fmt.Sprintf("source.max_redirects: must be >= 0, got %d", c.Source.MaxRedirects))
	}

	if c.Import.MaxAlbums < 0 {
		errs = append(errs, fmt.Sprintf("import.max_albums: must be >= 0 (0 = unlimited), got %d", c.Import.MaxAlbums))
	}
	if c.Import.Concurrency < 1 || c.Import.Concurrency > 8 {
		errs = append(errs, fmt.Sprintf("import.concurrency: must be between 1 and 8, got %d", c.Import.Concurrency))
	}
	if c.Import.Retries < 0 {
		errs = append(errs, fmt.Sprintf("import.retries: must be >= 0, got %d", c.Import.Retries))
	}

	return errs
}
