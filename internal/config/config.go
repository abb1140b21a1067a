package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "SLIDEDECK_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SLIDEDECK_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: SLIDEDECK_SERVER_PORT -> server.port.
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps SLIDEDECK_SECTION_SOME_FIELD to section.some_field. Section
// names never contain underscores.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validBackends = map[StorageBackend]bool{
	BackendMemory: true,
	BackendSQLite: true,
	BackendRedis:  true,
}

var validPapers = map[string]bool{"letter": true, "a4": true}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}

	if !validBackends[c.Storage.Backend] {
		return fmt.Errorf("invalid storage.backend %q: must be one of memory, sqlite, redis", c.Storage.Backend)
	}
	if c.Storage.Backend == BackendSQLite && c.Storage.SQLitePath == "" {
		return fmt.Errorf("storage.sqlite_path is required for the sqlite backend")
	}
	if c.Storage.Backend == BackendRedis && c.Storage.RedisAddr == "" {
		return fmt.Errorf("storage.redis_addr is required for the redis backend")
	}

	f := c.Fit
	if f.MinScale <= 0 || f.MaxScale <= 0 || f.MinScale > f.MaxScale {
		return fmt.Errorf("fit.min_scale and fit.max_scale must satisfy 0 < min_scale <= max_scale")
	}
	if f.Padding < 0 {
		return fmt.Errorf("fit.padding must be non-negative")
	}
	if f.DebounceMs < 0 || f.OrientationDelayMs < 0 {
		return fmt.Errorf("fit delays must be non-negative")
	}

	if c.Admin.Passphrase == "" {
		return fmt.Errorf("admin.passphrase is required")
	}

	if !validPapers[c.Export.Paper] {
		return fmt.Errorf("invalid export.paper %q: must be letter or a4", c.Export.Paper)
	}
	if c.Export.TimeoutSeconds <= 0 {
		return fmt.Errorf("export.timeout_seconds must be positive")
	}

	return nil
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
