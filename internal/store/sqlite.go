package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ziadkadry99/slidedeck/internal/db"
	"github.com/ziadkadry99/slidedeck/internal/slides"
)

// SQLiteStore persists presentations in SQLite. Slides are stored as a JSON
// column on the presentation row.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a store backed by the given database.
func NewSQLiteStore(d *db.DB) *SQLiteStore {
	return &SQLiteStore{db: d}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPresentation(row rowScanner) (*slides.Presentation, error) {
	var (
		p          slides.Presentation
		desc       sql.NullString
		slidesJSON string
	)
	if err := row.Scan(&p.ID, &p.Title, &desc, &slidesJSON, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if desc.Valid {
		p.Description = &desc.String
	}
	if err := json.Unmarshal([]byte(slidesJSON), &p.Slides); err != nil {
		return nil, fmt.Errorf("unmarshaling slides: %w", err)
	}
	if p.Slides == nil {
		p.Slides = []slides.Slide{}
	}
	return &p, nil
}

const selectPresentation = `SELECT id, title, description, slides, created_at, updated_at FROM presentations`

func (s *SQLiteStore) List(ctx context.Context) ([]slides.Presentation, error) {
	rows, err := s.db.QueryContext(ctx, selectPresentation+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing presentations: %w", err)
	}
	defer rows.Close()

	var out []slides.Presentation
	for rows.Next() {
		p, err := scanPresentation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning presentation: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing presentations: %w", err)
	}
	if out == nil {
		out = []slides.Presentation{}
	}
	return out, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*slides.Presentation, error) {
	p, err := scanPresentation(s.db.QueryRowContext(ctx, selectPresentation+` WHERE id = ?`, id))
	if err != nil {
		return nil, wrapf(err, "getting presentation %s", id)
	}
	return p, nil
}

func (s *SQLiteStore) Create(ctx context.Context, in CreateInput) (*slides.Presentation, error) {
	if err := checkCreate(in); err != nil {
		return nil, err
	}
	p := newPresentation(in, now())
	slidesJSON, err := json.Marshal(p.Slides)
	if err != nil {
		return nil, fmt.Errorf("marshaling slides: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO presentations (id, title, description, slides, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
		p.ID, p.Title, p.Description, string(slidesJSON), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating presentation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrExists
	}
	return &p, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id string, patch Patch) (*slides.Presentation, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	p, err := scanPresentation(tx.QueryRowContext(ctx, selectPresentation+` WHERE id = ?`, id))
	if err != nil {
		return nil, wrapf(err, "getting presentation %s", id)
	}
	patch.apply(p, now())

	slidesJSON, err := json.Marshal(p.Slides)
	if err != nil {
		return nil, fmt.Errorf("marshaling slides: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE presentations SET title = ?, description = ?, slides = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.Description, string(slidesJSON), p.UpdatedAt, p.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating presentation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing update: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) UpdateSlides(ctx context.Context, id string, list []slides.Slide) (*slides.Presentation, error) {
	if list == nil {
		list = []slides.Slide{}
	}
	return s.Update(ctx, id, Patch{Slides: list})
}

// ImportedDeck returns the presentation and checksum recorded for a
// previously imported deck file. Both are empty if the file was never
// imported.
func (s *SQLiteStore) ImportedDeck(ctx context.Context, path string) (presentationID, checksum string, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT presentation_id, checksum FROM deck_imports WHERE path = ?`, path,
	).Scan(&presentationID, &checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("looking up import of %s: %w", path, err)
	}
	return presentationID, checksum, nil
}

// RecordImport remembers that path was imported as presentationID.
func (s *SQLiteStore) RecordImport(ctx context.Context, path, presentationID, checksum string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO deck_imports (path, presentation_id, checksum, imported_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET presentation_id = excluded.presentation_id,
		   checksum = excluded.checksum, imported_at = excluded.imported_at`,
		path, presentationID, checksum, now(),
	)
	if err != nil {
		return fmt.Errorf("recording import of %s: %w", path, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
