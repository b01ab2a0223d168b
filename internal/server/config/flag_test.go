package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	base := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		name        string
		args        []string
		mutate      func(*Config)
		expectPanic bool
	}{
		{
			name: "Test1 OK",
			args: []string{"cmd", "-a", ":9090", "-d", "postgres://u:p@db:5432/ks", "-s", "topsecret", "-t", "30", "-r", "redis:6379"},
			mutate: func(c *Config) {
				c.EndpointAddr = ":9090"
				c.DatabaseDSN = "postgres://u:p@db:5432/ks"
				c.SecretKey = "topsecret"
				c.AccessTokenValidityDuration = 30 * time.Minute
				c.RedisAddr = "redis:6379"
			},
		},
		{
			name: "Test2 S3 overrides",
			args: []string{"cmd", "-b", "media", "-e", "http://minio:9000/", "-o", "https://cdn.example.com"},
			mutate: func(c *Config) {
				c.S3Bucket = "media"
				c.S3BaseEndpoint = "http://minio:9000/"
				c.S3PublicBaseURL = "https://cdn.example.com"
			},
		},
		{
			name:        "Test3 incorrect token validity",
			args:        []string{"cmd", "-t", "abc"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := base()

			if !tt.expectPanic {
				expected := base()
				tt.mutate(expected)

				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
