package config

import (
	"encoding/json"
	"os"
	"time"

	"keepsafe/internal/flagx"
	"keepsafe/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "30s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerURL          string         `json:"server_url"`
	DatabasePath       string         `json:"database_path"`
	StuckCheckInterval timex.Duration `json:"stuck_check_interval"`
	FetchLimit         int            `json:"fetch_limit"`
	VaultPasscode      string         `json:"vault_passcode"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JSONConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies known fields into the provided Config.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.StuckCheckInterval.Duration != 0 {
		cfg.StuckCheckInterval = time.Duration(jc.StuckCheckInterval.Duration)
	}
	if jc.FetchLimit != 0 {
		cfg.FetchLimit = jc.FetchLimit
	}
	if jc.VaultPasscode != "" {
		cfg.VaultPasscode = jc.VaultPasscode
	}
}
