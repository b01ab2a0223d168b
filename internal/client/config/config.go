package config

import "time"

// Config holds runtime settings for the KeepSafe client.
//
// Fields:
//   - ServerURL: base URL of the backend HTTP API.
//   - DatabasePath: path of the local SQLite cache file.
//   - StuckCheckInterval: how often the queue sweeps for stalled uploads.
//   - FetchLimit: maximum number of entries fetched per feed refresh.
//   - VaultPasscode: when set, the local cache is sealed with an AES-GCM key
//     derived from it. Empty means the cache is stored in plaintext.
type Config struct {
	ServerURL          string
	DatabasePath       string
	StuckCheckInterval time.Duration
	FetchLimit         int
	VaultPasscode      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DatabasePath = "keepsafe.db"
	c.StuckCheckInterval = time.Minute
	c.FetchLimit = 200
	c.VaultPasscode = ""
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
