package slides

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownKind is returned when a slide kind is not one of the known kinds.
var ErrUnknownKind = errors.New("unknown slide kind")

// Kind is the category of a slide. It decides which optional content
// sections a slide may carry and how it is rendered.
type Kind string

const (
	KindIntro      Kind = "intro"
	KindContent    Kind = "content"
	KindChart      Kind = "chart"
	KindDiscussion Kind = "discussion"
	KindConclusion Kind = "conclusion"
	KindReferences Kind = "references"
)

// Kinds lists every known kind in sidebar order.
var Kinds = []Kind{KindIntro, KindContent, KindChart, KindDiscussion, KindConclusion, KindReferences}

var kindLabels = map[Kind]string{
	KindIntro:      "Introdução",
	KindContent:    "Conteúdo",
	KindChart:      "Gráficos",
	KindDiscussion: "Discussão",
	KindConclusion: "Conclusão",
	KindReferences: "Referências",
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := kindLabels[k]
	return ok
}

// Label returns the display label for k, or k itself when unknown.
func (k Kind) Label() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return string(k)
}

// ParseKind converts s to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Content is the free-form content map of a slide. Its shape is
// conventionally determined by the slide kind; see Body.
type Content map[string]any

// Slide is a single slide of a presentation.
type Slide struct {
	ID       string  `json:"id" yaml:"id"`
	Kind     Kind    `json:"type" yaml:"type"`
	Title    string  `json:"title" yaml:"title"`
	Subtitle string  `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Content  Content `json:"content" yaml:"content"`
	Order    int     `json:"order" yaml:"order"`
}

// Presentation is the aggregate persisted by the presentation store.
type Presentation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Slides      []Slide   `json:"slides"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of s.
func (s Slide) Clone() Slide {
	c := s
	c.Content = CloneContent(s.Content)
	return c
}

// Clone returns a deep copy of p.
func (p Presentation) Clone() Presentation {
	c := p
	if p.Description != nil {
		d := *p.Description
		c.Description = &d
	}
	c.Slides = CloneSlides(p.Slides)
	return c
}

// CloneSlides deep-copies a slide list.
func CloneSlides(in []Slide) []Slide {
	if in == nil {
		return nil
	}
	out := make([]Slide, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

// CloneContent deep-copies a content map.
func CloneContent(c Content) Content {
	if c == nil {
		return nil
	}
	out := make(Content, len(c))
	for k, v := range c {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies a JSON-like value (maps, slices and scalars).
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = CloneValue(e)
		}
		return out
	case Content:
		return CloneContent(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = CloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case []float64:
		return append([]float64(nil), t...)
	default:
		return v
	}
}

// NormalizeOrder re-sequences order to 1..n following the current list
// sequence. The input is not modified.
func NormalizeOrder(in []Slide) []Slide {
	out := make([]Slide, len(in))
	for i, s := range in {
		s.Order = i + 1
		out[i] = s
	}
	return out
}
