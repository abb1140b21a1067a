package config

import (
	"time"

	"github.com/ziadkadry99/slidedeck/internal/fit"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 5000,
		},
		Storage: StorageConfig{
			Backend:     BackendMemory,
			SQLitePath:  ".slidedeck/slidedeck.db",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "slidedeck:",
			Seed:        true,
		},
		Fit: FitConfig{
			Enabled:            true,
			MinScale:           0.4,
			MaxScale:           1.0,
			Padding:            40,
			DebounceMs:         150,
			OrientationDelayMs: 100,
		},
		Admin: AdminConfig{
			Passphrase: "admin2025",
		},
		Export: ExportConfig{
			Paper:          "letter",
			TimeoutSeconds: 30,
		},
		API: APIConfig{
			BaseURL: "http://127.0.0.1:5000",
		},
	}
}

// Options converts the fit section to fitter options.
func (f FitConfig) Options() fit.Options {
	opts := fit.DefaultOptions()
	opts.Enabled = f.Enabled
	opts.MinScale = f.MinScale
	opts.MaxScale = f.MaxScale
	opts.Padding = f.Padding
	opts.Debounce = time.Duration(f.DebounceMs) * time.Millisecond
	opts.OrientationDelay = time.Duration(f.OrientationDelayMs) * time.Millisecond
	return opts
}

// Timeout returns the export timeout as a duration.
func (e ExportConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}
