package presenter

import (
	"context"
	"errors"

	"github.com/ziadkadry99/slidedeck/internal/slides"
)

var (
	// ErrPopupBlocked is returned when the print surface could not be opened.
	ErrPopupBlocked = errors.New("print surface could not be opened")
	// ErrPDFDependencyMissing is returned when no headless browser is
	// available for PDF export.
	ErrPDFDependencyMissing = errors.New("pdf export dependency missing")
	// ErrNoSlides is returned by operations that need a current slide.
	ErrNoSlides = errors.New("presentation has no slides")
)

// Source loads presentations.
type Source interface {
	Get(ctx context.Context, id string) (*slides.Presentation, error)
}

// Persister stores the full ordered slide list of a presentation.
type Persister interface {
	UpdateSlides(ctx context.Context, id string, list []slides.Slide) (*slides.Presentation, error)
}

// Layout is the presentation layout.
type Layout int

const (
	// LayoutEditor shows the slide list next to the current slide.
	LayoutEditor Layout = iota
	// LayoutFullscreen shows only the current slide.
	LayoutFullscreen
)

func (l Layout) String() string {
	if l == LayoutFullscreen {
		return "fullscreen"
	}
	return "editor"
}

// EventType identifies controller events.
type EventType string

const (
	EventNavigate     EventType = "navigate"
	EventMode         EventType = "mode"
	EventLayout       EventType = "layout"
	EventSlideUpdated EventType = "slide_updated"
	EventSaved        EventType = "saved"
	EventSaveFailed   EventType = "save_failed"
)

// Event describes a controller state change.
type Event struct {
	Type           EventType     `json:"type"`
	PresentationID string        `json:"presentationId"`
	Index          int           `json:"index"`
	Mode           string        `json:"mode,omitempty"`
	Layout         string        `json:"layout,omitempty"`
	Slide          *slides.Slide `json:"slide,omitempty"`
	Error          string        `json:"error,omitempty"`
}

// Key is a key press delivered to the presentation surface.
type Key struct {
	Name string
	Ctrl bool
	Meta bool
}

// Key names, following the DOM KeyboardEvent.key values.
const (
	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
	KeySpace      = " "
	KeyPageDown   = "PageDown"
	KeyPageUp     = "PageUp"
	KeyHome       = "Home"
	KeyEnd        = "End"
	KeyEscape     = "Escape"
)
