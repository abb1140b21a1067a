package config

// StorageBackend selects the presentation store implementation.
type StorageBackend string

const (
	BackendMemory StorageBackend = "memory"
	BackendSQLite StorageBackend = "sqlite"
	BackendRedis  StorageBackend = "redis"
)

// Config is the top-level slidedeck configuration, corresponding to
// .slidedeck.yml.
type Config struct {
	Server        ServerConfig        `yaml:"server" koanf:"server"`
	Storage       StorageConfig       `yaml:"storage" koanf:"storage"`
	Fit           FitConfig           `yaml:"fit" koanf:"fit"`
	Admin         AdminConfig         `yaml:"admin" koanf:"admin"`
	Export        ExportConfig        `yaml:"export" koanf:"export"`
	API           APIConfig           `yaml:"api" koanf:"api"`
	Notifications NotificationsConfig `yaml:"notifications" koanf:"notifications"`
}

type ServerConfig struct {
	Host         string `yaml:"host" koanf:"host"`
	Port         int    `yaml:"port" koanf:"port"`
	CORSAllowAll bool   `yaml:"cors_allow_all" koanf:"cors_allow_all"`
}

type StorageConfig struct {
	Backend     StorageBackend `yaml:"backend" koanf:"backend"`
	SQLitePath  string         `yaml:"sqlite_path" koanf:"sqlite_path"`
	RedisAddr   string         `yaml:"redis_addr" koanf:"redis_addr"`
	RedisPrefix string         `yaml:"redis_prefix" koanf:"redis_prefix"`
	Seed        bool           `yaml:"seed" koanf:"seed"`
}

// FitConfig holds the viewport fitting options used by presenters.
type FitConfig struct {
	Enabled            bool    `yaml:"enabled" koanf:"enabled"`
	MinScale           float64 `yaml:"min_scale" koanf:"min_scale"`
	MaxScale           float64 `yaml:"max_scale" koanf:"max_scale"`
	Padding            float64 `yaml:"padding" koanf:"padding"`
	DebounceMs         int     `yaml:"debounce_ms" koanf:"debounce_ms"`
	OrientationDelayMs int     `yaml:"orientation_delay_ms" koanf:"orientation_delay_ms"`
}

// AdminConfig holds the shared passphrase of the admin editor. It is a
// convenience gate, not an authentication mechanism.
type AdminConfig struct {
	Passphrase string `yaml:"passphrase" koanf:"passphrase"`
}

type ExportConfig struct {
	PDF            bool   `yaml:"pdf" koanf:"pdf"`
	Paper          string `yaml:"paper" koanf:"paper"`
	TimeoutSeconds int    `yaml:"timeout_seconds" koanf:"timeout_seconds"`
}

// APIConfig points client-side commands at a running server.
type APIConfig struct {
	BaseURL string `yaml:"base_url" koanf:"base_url"`
}

type NotificationsConfig struct {
	WebhookURL string `yaml:"webhook_url" koanf:"webhook_url"`
}
