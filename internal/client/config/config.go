package config

import "time"

// Config holds runtime settings for the PanelDesk client.
//
// Fields:
//   - APIBaseURL: base URL of the backend REST API.
//   - RequestTimeout: per-request HTTP timeout.
//   - DebounceWindow: how long search input must settle before a request.
//   - PageSize: default list page size.
//   - MaxUploadSize: upload size limit in bytes; 0 disables the local check.
//   - CacheDir: directory for local preview files.
//
// Units: RequestTimeout and DebounceWindow are time.Duration values.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DebounceWindow time.Duration
	PageSize       int
	MaxUploadSize  int64
	CacheDir       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 30 * time.Second
	c.DebounceWindow = 300 * time.Millisecond
	c.PageSize = 20
	c.MaxUploadSize = 32 << 20
	c.CacheDir = defaultCacheDir()
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
