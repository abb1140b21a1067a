package cmd

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/slidedeck/internal/client"
	"github.com/ziadkadry99/slidedeck/internal/config"
	"github.com/ziadkadry99/slidedeck/internal/presenter"
	"github.com/ziadkadry99/slidedeck/internal/store"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `slidedeck init` to create a config file", err)
	}
	return cfg, nil
}

// openStore returns an API client for the configured server when remote is
// set, and the configured local backend otherwise.
func openStore(ctx context.Context, cfg *config.Config, remote bool) (store.Store, error) {
	if remote {
		return client.New(cfg.API.BaseURL), nil
	}
	s, err := store.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Storage.Backend, err)
	}
	return s, nil
}

// presentationID returns the presentation named on the command line, or
// the seeded default one.
func presentationID(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return store.DefaultID
}

func pdfOptions(cfg *config.Config) presenter.PDFOptions {
	return presenter.PDFOptions{
		Paper:   presenter.PaperSize(cfg.Export.Paper),
		Timeout: cfg.Export.Timeout(),
	}
}
