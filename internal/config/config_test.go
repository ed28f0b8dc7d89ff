package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
debounce: 250ms
min_query_length: 3
log_level: debug
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Debounce.Std())
	assert.Equal(t, 3, cfg.MinQueryLength)
	assert.Equal(t, zap.DebugLevel, cfg.Level().Level())
	assert.Equal(t, Default().Endpoint, cfg.Endpoint)
	assert.Equal(t, Default().FetchTimeout, cfg.FetchTimeout)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debounce: soon\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.CacheTTL = 0

	require.NoError(t, cfg.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "debounce: 120ms")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		problems int
	}{
		{"defaults", func(c *Config) {}, 0},
		{"empty endpoint", func(c *Config) { c.Endpoint = " " }, 1},
		{"zero debounce", func(c *Config) { c.Debounce = 0 }, 1},
		{"negative timeout", func(c *Config) { c.FetchTimeout = Duration(-time.Second) }, 1},
		{"min length", func(c *Config) { c.MinQueryLength = 0 }, 1},
		{"cache disabled is fine", func(c *Config) { c.CacheTTL = 0 }, 0},
		{"negative cache", func(c *Config) { c.CacheTTL = Duration(-time.Second) }, 1},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, 1},
		{"everything", func(c *Config) {
			c.Endpoint = ""
			c.Debounce = 0
			c.MinQueryLength = 0
		}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.problems == 0 {
				assert.NoError(t, err)
				return
			}
			var merr *multierror.Error
			require.ErrorAs(t, err, &merr)
			assert.Len(t, merr.Errors, tt.problems)
		})
	}
}

func TestLevelFallsBackToInfo(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "nonsense"
	assert.Equal(t, zap.InfoLevel, cfg.Level().Level())
}
