package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/ziadkadry99/slidedeck/internal/config"
	"github.com/ziadkadry99/slidedeck/internal/db"
	"github.com/ziadkadry99/slidedeck/internal/slides"
)

// DefaultID is the id of the seeded presentation.
const DefaultID = "default"

//go:embed seed.yaml
var seedYAML []byte

// SeedDeck returns the built-in presentation with slide ids normalized to
// slide-N and order to N.
func SeedDeck() (slides.Deck, error) {
	deck, err := slides.ParseDeck(seedYAML)
	if err != nil {
		return slides.Deck{}, fmt.Errorf("parsing seed deck: %w", err)
	}
	deck.Slides = slides.NormalizeOrder(deck.Slides)
	for i := range deck.Slides {
		deck.Slides[i].ID = fmt.Sprintf("slide-%d", i+1)
	}
	return deck, nil
}

// Seed creates the default presentation unless it already exists. It
// reports whether a presentation was created.
func Seed(ctx context.Context, s Store) (bool, error) {
	if _, err := s.Get(ctx, DefaultID); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	deck, err := SeedDeck()
	if err != nil {
		return false, err
	}
	_, err = s.Create(ctx, CreateInput{
		ID:          DefaultID,
		Title:       deck.Title,
		Description: deck.Description,
		Slides:      deck.Slides,
	})
	if errors.Is(err, ErrExists) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("seeding default presentation: %w", err)
	}
	return true, nil
}

// Open creates the store selected by cfg and seeds it when configured to.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case config.BackendMemory, "":
		s = NewMemoryStore()
	case config.BackendSQLite:
		var d *db.DB
		d, err = db.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		s = NewSQLiteStore(d)
	case config.BackendRedis:
		s, err = NewRedisStore(cfg.RedisAddr, cfg.RedisPrefix)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	if cfg.Seed {
		if _, err := Seed(ctx, s); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}
