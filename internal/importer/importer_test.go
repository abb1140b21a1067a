package importer

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ziadkadry99/slidedeck/internal/db"
	"github.com/ziadkadry99/slidedeck/internal/slides"
	"github.com/ziadkadry99/slidedeck/internal/store"
)

const reviewDeck = `title: Quarterly Review
description: Numbers for the board
slides:
  - type: intro
    title: Welcome
    content:
      sections:
        - title: Agenda
          items: [Results, Outlook]
  - type: chart
    title: Growth
    content:
      chartData:
        labels: ["2023", "2024"]
        values: [1.5, 2]
`

const outlookDeck = `{"slides": [{"id": "o1", "type": "discussion", "title": "Questions", "content": {"questions": []}}]}`

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func setupDecks(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "review.yaml", reviewDeck)
	writeFile(t, dir, "nested/outlook.json", outlookDeck)
	writeFile(t, dir, "broken.yml", "title: [unterminated")
	writeFile(t, dir, "invalid.yaml", "title: Bad\nslides:\n  - type: video\n    title: Clip\n")
	writeFile(t, dir, "notes.txt", "not a deck")
	return dir
}

func setupSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return store.NewSQLiteStore(d)
}

func TestDiscover(t *testing.T) {
	dir := setupDecks(t)

	root, files, err := Discover(dir, nil, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if root != dir {
		t.Errorf("root = %q, want %q", root, dir)
	}
	want := []string{"broken.yml", "invalid.yaml", "nested/outlook.json", "review.yaml"}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("files = %v, want %v", files, want)
	}

	_, files, err = Discover(dir, nil, []string{"nested/**", "*.yml"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want = []string{"invalid.yaml", "review.yaml"}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("with excludes, files = %v, want %v", files, want)
	}

	_, files, err = Discover(dir, []string{"**/*.json"}, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if !reflect.DeepEqual(files, []string{"nested/outlook.json"}) {
		t.Errorf("with includes, files = %v", files)
	}
}

func TestDiscoverSingleFile(t *testing.T) {
	dir := setupDecks(t)
	root, files, err := Discover(filepath.Join(dir, "review.yaml"), nil, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if root != dir || !reflect.DeepEqual(files, []string{"review.yaml"}) {
		t.Errorf("got %q %v", root, files)
	}

	if _, _, err := Discover(filepath.Join(dir, "missing"), nil, nil); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestImport(t *testing.T) {
	dir := setupDecks(t)
	s := store.NewMemoryStore()
	ctx := context.Background()

	summary, err := Import(ctx, s, Options{Root: dir})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got := summary.Count(StatusCreated); got != 2 {
		t.Errorf("created = %d, want 2", got)
	}
	if got := summary.Count(StatusFailed); got != 2 {
		t.Errorf("failed = %d, want 2", got)
	}

	list, _ := s.List(ctx)
	if len(list) != 2 {
		t.Fatalf("expected 2 presentations, got %d", len(list))
	}

	byTitle := map[string]slides.Presentation{}
	for _, p := range list {
		byTitle[p.Title] = p
	}

	review, ok := byTitle["Quarterly Review"]
	if !ok {
		t.Fatalf("review deck missing, got %v", byTitle)
	}
	if review.Description == nil || *review.Description != "Numbers for the board" {
		t.Errorf("unexpected description %v", review.Description)
	}
	for i, sl := range review.Slides {
		if sl.ID == "" {
			t.Errorf("slide %d has no id", i)
		}
		if sl.Order != i+1 {
			t.Errorf("slide %d order = %d", i, sl.Order)
		}
	}

	// Title falls back to the file name.
	if _, ok := byTitle["outlook"]; !ok {
		t.Errorf("expected outlook deck titled by file name, got %v", byTitle)
	}
}

func TestImportWithLedger(t *testing.T) {
	dir := setupDecks(t)
	s := setupSQLiteStore(t)
	ctx := context.Background()
	opts := Options{Root: dir, Include: []string{"review.yaml"}}

	first, err := Import(ctx, s, opts)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(first.Results) != 1 || first.Results[0].Status != StatusCreated {
		t.Fatalf("unexpected first run %+v", first.Results)
	}
	id := first.Results[0].PresentationID

	second, err := Import(ctx, s, opts)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if second.Results[0].Status != StatusUnchanged || second.Results[0].PresentationID != id {
		t.Errorf("expected unchanged %s, got %+v", id, second.Results[0])
	}

	writeFile(t, dir, "review.yaml", reviewDeck+"  - type: discussion\n    title: Q&A\n    content:\n      questions: []\n")
	third, err := Import(ctx, s, opts)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if third.Results[0].Status != StatusUpdated || third.Results[0].PresentationID != id {
		t.Errorf("expected update of %s, got %+v", id, third.Results[0])
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(p.Slides) != 3 {
		t.Errorf("expected 3 slides after update, got %d", len(p.Slides))
	}

	list, _ := s.List(ctx)
	if len(list) != 1 {
		t.Errorf("re-import should not duplicate, got %d presentations", len(list))
	}
}

type countingReporter struct {
	total, updates int
	finished       bool
}

func (r *countingReporter) Start(total int)    { r.total = total }
func (r *countingReporter) Update(int, string) { r.updates++ }
func (r *countingReporter) Finish()            { r.finished = true }

func TestImportReportsProgress(t *testing.T) {
	dir := setupDecks(t)
	rep := &countingReporter{}
	if _, err := Import(context.Background(), store.NewMemoryStore(), Options{Root: dir, Reporter: rep}); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if rep.total != 4 || rep.updates != 4 || !rep.finished {
		t.Errorf("unexpected progress %+v", rep)
	}
}

func TestImportCanceled(t *testing.T) {
	dir := setupDecks(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Import(ctx, store.NewMemoryStore(), Options{Root: dir}); err == nil {
		t.Error("expected error for canceled context")
	}
}
