// Package importer loads deck files from disk into a presentation store.
package importer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ziadkadry99/slidedeck/internal/progress"
	"github.com/ziadkadry99/slidedeck/internal/slides"
	"github.com/ziadkadry99/slidedeck/internal/store"
)

// DefaultPatterns match every deck file format ParseDeck understands.
var DefaultPatterns = []string{"**/*.{yaml,yml,json}"}

// Ledger is implemented by stores that remember which files were imported,
// allowing unchanged files to be skipped and changed files to update their
// presentation in place.
type Ledger interface {
	ImportedDeck(ctx context.Context, path string) (presentationID, checksum string, err error)
	RecordImport(ctx context.Context, path, presentationID, checksum string) error
}

// Options controls an import run.
type Options struct {
	Root     string   // Directory or single deck file.
	Include  []string // Glob patterns relative to Root (default DefaultPatterns).
	Exclude  []string // Glob patterns relative to Root.
	Reporter progress.Reporter
}

// Status is the outcome of importing one file.
type Status string

const (
	StatusCreated   Status = "created"
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
	StatusFailed    Status = "failed"
)

// Result describes one imported file.
type Result struct {
	Path           string
	PresentationID string
	Status         Status
	Err            error
}

// Summary aggregates the results of an import run.
type Summary struct {
	Results []Result
}

// Count returns the number of results with status st.
func (s *Summary) Count(st Status) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == st {
			n++
		}
	}
	return n
}

// Import discovers deck files under opts.Root and stores each as a
// presentation. A file that fails to parse or validate is recorded as
// failed and does not stop the run; store errors other than validation do.
func Import(ctx context.Context, s store.Store, opts Options) (*Summary, error) {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = progress.Nop{}
	}

	root, files, err := Discover(opts.Root, opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}

	ledger, _ := s.(Ledger)
	summary := &Summary{}

	reporter.Start(len(files))
	defer reporter.Finish()

	for i, rel := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		reporter.Update(i+1, rel)

		res, err := importFile(ctx, s, ledger, root, rel)
		if err != nil {
			return summary, err
		}
		if res.Err != nil {
			log.Printf("importer: %s: %v", rel, res.Err)
		}
		summary.Results = append(summary.Results, res)
	}
	return summary, nil
}

// Discover returns the directory imports are relative to and the matching
// deck files beneath it, sorted. When path names a file, that file is the
// only result.
func Discover(path string, include, exclude []string) (string, []string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !info.IsDir() {
		return filepath.Dir(abs), []string{filepath.Base(abs)}, nil
	}

	if len(include) == 0 {
		include = DefaultPatterns
	}
	fsys := os.DirFS(abs)
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, filepath.ToSlash(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return "", nil, fmt.Errorf("matching %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] || excluded(m, exclude) {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return abs, files, nil
}

func excluded(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(filepath.ToSlash(pattern), rel); err == nil && ok {
			return true
		}
	}
	return false
}

func importFile(ctx context.Context, s store.Store, ledger Ledger, root, rel string) (Result, error) {
	res := Result{Path: rel, Status: StatusFailed}

	data, err := fs.ReadFile(os.DirFS(root), rel)
	if err != nil {
		res.Err = fmt.Errorf("reading deck: %w", err)
		return res, nil
	}
	sum := checksum(data)

	var prevID string
	if ledger != nil {
		id, prevSum, err := ledger.ImportedDeck(ctx, ledgerKey(root, rel))
		if err != nil {
			return res, err
		}
		if id != "" && prevSum == sum {
			res.PresentationID = id
			res.Status = StatusUnchanged
			return res, nil
		}
		prevID = id
	}

	deck, err := slides.ParseDeck(data)
	if err != nil {
		res.Err = err
		return res, nil
	}
	prepare(&deck, rel)
	if err := slides.ValidatePresentation(deck.Title, deck.Slides); err != nil {
		res.Err = err
		return res, nil
	}

	p, status, err := save(ctx, s, prevID, deck)
	var verr *slides.ValidationError
	if errors.As(err, &verr) {
		res.Err = err
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("importing %s: %w", rel, err)
	}
	res.PresentationID = p.ID
	res.Status = status

	if ledger != nil {
		if err := ledger.RecordImport(ctx, ledgerKey(root, rel), p.ID, sum); err != nil {
			return res, err
		}
	}
	return res, nil
}

func save(ctx context.Context, s store.Store, prevID string, deck slides.Deck) (*slides.Presentation, Status, error) {
	if prevID != "" {
		p, err := s.Update(ctx, prevID, store.Patch{
			Title:          &deck.Title,
			Description:    deck.Description,
			DescriptionSet: true,
			Slides:         deck.Slides,
		})
		if err == nil {
			return p, StatusUpdated, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, StatusFailed, err
		}
	}
	p, err := s.Create(ctx, store.CreateInput{
		Title:       deck.Title,
		Description: deck.Description,
		Slides:      deck.Slides,
	})
	if err != nil {
		return nil, StatusFailed, err
	}
	return p, StatusCreated, nil
}

// prepare fills in what deck files may leave out: the title defaults to
// the file name, missing slide ids are generated and order follows file
// position.
func prepare(deck *slides.Deck, rel string) {
	if strings.TrimSpace(deck.Title) == "" {
		base := filepath.Base(rel)
		deck.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if deck.Slides == nil {
		deck.Slides = []slides.Slide{}
	}
	for i := range deck.Slides {
		if deck.Slides[i].ID == "" {
			deck.Slides[i].ID = slides.UniqueID(deck.Slides)
		}
	}
	deck.Slides = slides.NormalizeOrder(deck.Slides)
}

func checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ledgerKey identifies a deck file independently of the import root.
func ledgerKey(root, rel string) string {
	return filepath.ToSlash(filepath.Join(root, rel))
}
