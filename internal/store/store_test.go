package store

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/ziadkadry99/slidedeck/internal/db"
	"github.com/ziadkadry99/slidedeck/internal/slides"
)

func setupSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return NewSQLiteStore(d)
}

func strPtr(s string) *string { return &s }

func sampleSlides() []slides.Slide {
	return []slides.Slide{
		{ID: "s1", Kind: slides.KindIntro, Title: "Intro", Content: slides.Content{}, Order: 1},
		{ID: "s2", Kind: slides.KindChart, Title: "Chart", Content: slides.Content{
			"chartData": map[string]any{"labels": []any{"2023"}, "values": []any{9.1}},
		}, Order: 2},
	}
}

// runStoreContract exercises behaviour every backend must share.
func runStoreContract(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		p, err := s.Create(ctx, CreateInput{Title: "Deck", Description: strPtr("desc"), Slides: sampleSlides()})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if p.ID == "" {
			t.Fatal("expected id to be assigned")
		}
		if p.CreatedAt.IsZero() || !p.CreatedAt.Equal(p.UpdatedAt) {
			t.Errorf("expected equal non-zero timestamps, got %v / %v", p.CreatedAt, p.UpdatedAt)
		}

		got, err := s.Get(ctx, p.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Title != "Deck" || got.Description == nil || *got.Description != "desc" {
			t.Errorf("unexpected presentation %+v", got)
		}
		if len(got.Slides) != 2 || got.Slides[1].Kind != slides.KindChart {
			t.Fatalf("expected 2 slides, got %+v", got.Slides)
		}
		data, ok := got.Slides[1].Content["chartData"].(map[string]any)
		if !ok {
			t.Fatalf("expected chartData map, got %T", got.Slides[1].Content["chartData"])
		}
		if labels, _ := data["labels"].([]any); len(labels) != 1 {
			t.Errorf("expected 1 label, got %v", data["labels"])
		}
	})

	t.Run("empty description becomes null", func(t *testing.T) {
		p, err := s.Create(ctx, CreateInput{Title: "No desc", Description: strPtr(""), Slides: []slides.Slide{}})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if p.Description != nil {
			t.Errorf("expected nil description, got %q", *p.Description)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("create duplicate id", func(t *testing.T) {
		if _, err := s.Create(ctx, CreateInput{ID: "fixed", Title: "A"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, err := s.Create(ctx, CreateInput{ID: "fixed", Title: "B"}); !errors.Is(err, ErrExists) {
			t.Errorf("expected ErrExists, got %v", err)
		}
	})

	t.Run("patch only provided fields", func(t *testing.T) {
		p, err := s.Create(ctx, CreateInput{Title: "Original", Description: strPtr("keep"), Slides: sampleSlides()})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		updated, err := s.Update(ctx, p.ID, Patch{Title: strPtr("Renamed")})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if updated.Title != "Renamed" {
			t.Errorf("expected title Renamed, got %q", updated.Title)
		}
		if updated.Description == nil || *updated.Description != "keep" {
			t.Error("description should be untouched")
		}
		if len(updated.Slides) != 2 {
			t.Errorf("slides should be untouched, got %d", len(updated.Slides))
		}
		if updated.UpdatedAt.Before(p.UpdatedAt) {
			t.Error("updatedAt should not move backwards")
		}

		cleared, err := s.Update(ctx, p.ID, Patch{DescriptionSet: true})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if cleared.Description != nil {
			t.Error("expected explicit null to clear the description")
		}
		if cleared.Title != "Renamed" {
			t.Errorf("expected title to persist, got %q", cleared.Title)
		}
	})

	t.Run("update missing", func(t *testing.T) {
		if _, err := s.Update(ctx, "missing", Patch{Title: strPtr("x")}); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if _, err := s.UpdateSlides(ctx, "missing", nil); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("replace slides", func(t *testing.T) {
		p, err := s.Create(ctx, CreateInput{Title: "Replace", Slides: sampleSlides()})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		next := []slides.Slide{{ID: "only", Kind: slides.KindContent, Title: "Only", Content: slides.Content{}, Order: 1}}
		updated, err := s.UpdateSlides(ctx, p.ID, next)
		if err != nil {
			t.Fatalf("UpdateSlides: %v", err)
		}
		if len(updated.Slides) != 1 || updated.Slides[0].ID != "only" {
			t.Errorf("expected slides replaced, got %+v", updated.Slides)
		}
		got, _ := s.Get(ctx, p.ID)
		if len(got.Slides) != 1 {
			t.Errorf("expected persisted replacement, got %d slides", len(got.Slides))
		}
	})

	t.Run("rejects invalid slides", func(t *testing.T) {
		p, err := s.Create(ctx, CreateInput{Title: "Guarded", Slides: sampleSlides()})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		bad := sampleSlides()
		bad[0].Title = ""
		bad[1].Content["chartData"] = map[string]any{"labels": []any{"2023"}, "values": "oops"}
		var verr *slides.ValidationError
		if _, err := s.UpdateSlides(ctx, p.ID, bad); !errors.As(err, &verr) {
			t.Fatalf("expected a validation error, got %v", err)
		}
		if len(verr.Errors) != 2 {
			t.Errorf("expected 2 field errors, got %+v", verr.Errors)
		}
		if _, err := s.Update(ctx, p.ID, Patch{Title: strPtr("  ")}); !errors.As(err, &verr) {
			t.Errorf("expected a validation error for a blank title, got %v", err)
		}
		if _, err := s.Create(ctx, CreateInput{Title: "", Slides: sampleSlides()}); !errors.As(err, &verr) {
			t.Errorf("expected a validation error on create, got %v", err)
		}

		got, _ := s.Get(ctx, p.ID)
		if got.Title != "Guarded" || got.Slides[0].Title != "Intro" {
			t.Errorf("expected stored presentation untouched, got %q / %q", got.Title, got.Slides[0].Title)
		}
		if err := slides.ValidateSlides(got.Slides); err != nil {
			t.Errorf("stored slides no longer valid: %v", err)
		}
	})

	t.Run("list", func(t *testing.T) {
		list, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(list) < 5 {
			t.Errorf("expected at least 5 presentations, got %d", len(list))
		}
		for i := 1; i < len(list); i++ {
			if list[i].CreatedAt.Before(list[i-1].CreatedAt) {
				t.Error("expected list ordered by creation time")
			}
		}
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	runStoreContract(t, setupSQLiteStore(t))
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	p, err := s.Create(ctx, CreateInput{Title: "Deck", Slides: sampleSlides()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	p.Slides[0].Title = "mutated"
	p.Slides[1].Content["chartData"].(map[string]any)["labels"] = []any{}

	got, _ := s.Get(ctx, p.ID)
	if got.Slides[0].Title != "Intro" {
		t.Errorf("store state leaked through returned value: %q", got.Slides[0].Title)
	}
	if labels := got.Slides[1].Content["chartData"].(map[string]any)["labels"].([]any); len(labels) != 1 {
		t.Errorf("nested content leaked through returned value: %v", labels)
	}
}

func TestSeed(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	created, err := Seed(ctx, s)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if !created {
		t.Fatal("expected default presentation to be created")
	}

	p, err := s.Get(ctx, DefaultID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(p.Slides) != 11 {
		t.Fatalf("expected 11 seeded slides, got %d", len(p.Slides))
	}
	kinds := map[slides.Kind]bool{}
	for i, sl := range p.Slides {
		if sl.Order != i+1 {
			t.Errorf("slide %d: expected order %d, got %d", i, i+1, sl.Order)
		}
		if want := "slide-" + strconv.Itoa(i+1); sl.ID != want {
			t.Errorf("slide %d: expected id %s, got %s", i, want, sl.ID)
		}
		kinds[sl.Kind] = true
	}
	for _, k := range slides.Kinds {
		if !kinds[k] {
			t.Errorf("expected a %s slide in the seed deck", k)
		}
	}
	if err := slides.ValidatePresentation(p.Title, p.Slides); err != nil {
		t.Errorf("seed deck should be strictly valid: %v", err)
	}

	again, err := Seed(ctx, s)
	if err != nil || again {
		t.Errorf("expected second seed to be a no-op, got %v, %v", again, err)
	}
}
