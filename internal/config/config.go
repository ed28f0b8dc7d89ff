package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atinylittleshell/gsuggest/internal/lookup"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that reads and writes as "120ms" in YAML.
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

type Config struct {
	Endpoint              string   `yaml:"endpoint"`
	Debounce              Duration `yaml:"debounce"`
	FetchTimeout          Duration `yaml:"fetch_timeout"`
	MinQueryLength        int      `yaml:"min_query_length"`
	CacheTTL              Duration `yaml:"cache_ttl"`
	LogLevel              string   `yaml:"log_level"`
	CleanLogFile          bool     `yaml:"clean_log_file"`
	MaxVisibleSuggestions int      `yaml:"max_visible_suggestions"`
}

func Default() Config {
	return Config{
		Endpoint:              lookup.DefaultEndpoint,
		Debounce:              Duration(120 * time.Millisecond),
		FetchTimeout:          Duration(lookup.DefaultTimeout),
		MinQueryLength:        2,
		CacheTTL:              Duration(5 * time.Minute),
		LogLevel:              "info",
		CleanLogFile:          false,
		MaxVisibleSuggestions: 10,
	}
}

// Load reads the config file at path on top of the defaults. A missing file
// is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var result *multierror.Error

	if strings.TrimSpace(c.Endpoint) == "" {
		result = multierror.Append(result, errors.New("endpoint must not be empty"))
	}
	if c.Debounce <= 0 {
		result = multierror.Append(result, fmt.Errorf("debounce must be positive, got %s", c.Debounce))
	}
	if c.FetchTimeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("fetch_timeout must be positive, got %s", c.FetchTimeout))
	}
	if c.MinQueryLength < 1 {
		result = multierror.Append(result, fmt.Errorf("min_query_length must be at least 1, got %d", c.MinQueryLength))
	}
	if c.CacheTTL < 0 {
		result = multierror.Append(result, fmt.Errorf("cache_ttl must not be negative, got %s", c.CacheTTL))
	}
	if c.MaxVisibleSuggestions < 0 {
		result = multierror.Append(result, fmt.Errorf("max_visible_suggestions must not be negative, got %d", c.MaxVisibleSuggestions))
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("log_level: %w", err))
	}

	return result.ErrorOrNil()
}

// Level returns the configured log level, falling back to info.
func (c Config) Level() zap.AtomicLevel {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return zap.NewAtomicLevel()
	}
	return level
}

func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Write saves c to path, creating the parent directory.
func (c Config) Write(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c Config) LookupOptions() lookup.Options {
	return lookup.Options{
		Endpoint: c.Endpoint,
		Timeout:  c.FetchTimeout.Std(),
		CacheTTL: c.CacheTTL.Std(),
	}
}
