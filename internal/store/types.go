package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/slidedeck/internal/slides"
)

var (
	// ErrNotFound is returned when no presentation has the requested id.
	ErrNotFound = errors.New("presentation not found")
	// ErrExists is returned when creating a presentation with an id that is
	// already taken.
	ErrExists = errors.New("presentation already exists")
)

// Store persists presentation aggregates keyed by id. Implementations are
// safe for concurrent use and never hand out references to their internal
// state. Create and Update return a *slides.ValidationError for slides or
// titles the HTTP API would reject.
type Store interface {
	List(ctx context.Context) ([]slides.Presentation, error)
	Get(ctx context.Context, id string) (*slides.Presentation, error)
	Create(ctx context.Context, in CreateInput) (*slides.Presentation, error)
	Update(ctx context.Context, id string, patch Patch) (*slides.Presentation, error)
	UpdateSlides(ctx context.Context, id string, list []slides.Slide) (*slides.Presentation, error)
	Close() error
}

// CreateInput is the payload of a create call. The id and timestamps are
// assigned by the store; ID is only set by seeding and imports.
type CreateInput struct {
	ID          string         `json:"-"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Slides      []slides.Slide `json:"slides"`
}

// Validate checks the payload of a create call.
func (in CreateInput) Validate() error {
	err := slides.ValidatePresentation(in.Title, in.Slides)
	if in.Slides != nil {
		return err
	}
	missing := slides.FieldError{Field: "slides", Message: "required"}
	var verr *slides.ValidationError
	if errors.As(err, &verr) {
		verr.Errors = append(verr.Errors, missing)
		return verr
	}
	return &slides.ValidationError{Errors: []slides.FieldError{missing}}
}

// checkCreate validates what every backend stores on create. Unlike
// Validate it accepts a missing slide list.
func checkCreate(in CreateInput) error {
	return slides.ValidatePresentation(in.Title, in.Slides)
}

// Patch is a partial update. Nil fields are left untouched; a description
// that is present but null clears it.
type Patch struct {
	Title          *string
	Description    *string
	DescriptionSet bool
	Slides         []slides.Slide
}

func (p *Patch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["title"]; ok {
		if err := json.Unmarshal(v, &p.Title); err != nil {
			return fieldTypeError("title", err)
		}
	}
	if v, ok := raw["description"]; ok {
		p.DescriptionSet = true
		if err := json.Unmarshal(v, &p.Description); err != nil {
			return fieldTypeError("description", err)
		}
	}
	if v, ok := raw["slides"]; ok {
		if err := json.Unmarshal(v, &p.Slides); err != nil {
			return fieldTypeError("slides", err)
		}
	}
	return nil
}

func (p Patch) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if p.Title != nil {
		out["title"] = *p.Title
	}
	if p.DescriptionSet {
		out["description"] = p.Description
	}
	if p.Slides != nil {
		out["slides"] = p.Slides
	}
	return json.Marshal(out)
}

// Validate checks the fields present in the patch.
func (p Patch) Validate() error {
	var errs []slides.FieldError
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		errs = append(errs, slides.FieldError{Field: "title", Message: "must not be empty"})
	}
	if p.Slides != nil {
		var verr *slides.ValidationError
		if err := slides.ValidateSlides(p.Slides); errors.As(err, &verr) {
			errs = append(errs, verr.Errors...)
		}
	}
	if len(errs) > 0 {
		return &slides.ValidationError{Errors: errs}
	}
	return nil
}

func (p Patch) apply(pres *slides.Presentation, now time.Time) {
	if p.Title != nil {
		pres.Title = *p.Title
	}
	if p.DescriptionSet {
		pres.Description = cloneString(p.Description)
	}
	if p.Slides != nil {
		pres.Slides = slides.CloneSlides(p.Slides)
	}
	pres.UpdatedAt = now
}

func newPresentation(in CreateInput, now time.Time) slides.Presentation {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	var desc *string
	if in.Description != nil && *in.Description != "" {
		desc = cloneString(in.Description)
	}
	list := slides.CloneSlides(in.Slides)
	if list == nil {
		list = []slides.Slide{}
	}
	return slides.Presentation{
		ID:          id,
		Title:       in.Title,
		Description: desc,
		Slides:      list,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func fieldTypeError(field string, err error) error {
	return &slides.ValidationError{Errors: []slides.FieldError{{Field: field, Message: err.Error()}}}
}

func now() time.Time {
	return time.Now().UTC()
}

func wrapf(err error, format string, args ...any) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrExists) {
		return err
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
