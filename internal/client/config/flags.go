package config

import (
	"flag"
	"os"
	"time"

	"keepsafe/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend server (default from Config)
//	-d string   path of the local cache database (default from Config)
//	-i int      stalled-upload sweep interval in seconds (default from Config)
//	-k string   vault passcode sealing the local cache (empty = plaintext)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-i", "-k"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the backend server")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local cache database")
	fs.StringVar(&cfg.VaultPasscode, "k", cfg.VaultPasscode, "vault passcode sealing the local cache")
	stuckCheckInterval := fs.Int("i", int(cfg.StuckCheckInterval.Seconds()), "stalled-upload sweep interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.StuckCheckInterval = time.Duration(*stuckCheckInterval) * time.Second
}
