package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

func validatePort(input string) error {
	p, err := strconv.Atoi(input)
	if err != nil || p <= 0 || p > 65535 {
		return errors.New("port must be a number between 1 and 65535")
	}
	return nil
}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to slidedeck! Let's configure your presentation server.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Storage backend.
	backendPrompt := promptui.Select{
		Label: "Select storage backend",
		Items: []string{
			"memory - in-process, lost on restart",
			"sqlite - single file on disk",
			"redis  - shared Redis instance",
		},
	}
	idx, _, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend selection: %w", err)
	}
	cfg.Storage.Backend = []StorageBackend{BackendMemory, BackendSQLite, BackendRedis}[idx]

	switch cfg.Storage.Backend {
	case BackendSQLite:
		p := promptui.Prompt{Label: "SQLite database path", Default: cfg.Storage.SQLitePath}
		if cfg.Storage.SQLitePath, err = p.Run(); err != nil {
			return nil, fmt.Errorf("sqlite path: %w", err)
		}
	case BackendRedis:
		p := promptui.Prompt{Label: "Redis address", Default: cfg.Storage.RedisAddr}
		if cfg.Storage.RedisAddr, err = p.Run(); err != nil {
			return nil, fmt.Errorf("redis address: %w", err)
		}
	}

	// 2. Listen port.
	portPrompt := promptui.Prompt{
		Label:    "HTTP port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 3. Admin passphrase.
	passPrompt := promptui.Prompt{
		Label:   "Admin passphrase",
		Default: cfg.Admin.Passphrase,
		Mask:    '*',
	}
	if cfg.Admin.Passphrase, err = passPrompt.Run(); err != nil {
		return nil, fmt.Errorf("admin passphrase: %w", err)
	}

	// 4. PDF export.
	pdfPrompt := promptui.Select{
		Label: "Enable PDF export (requires chromium)",
		Items: []string{"no", "yes"},
	}
	pdfIdx, _, err := pdfPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("pdf selection: %w", err)
	}
	cfg.Export.PDF = pdfIdx == 1

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
