// Package fit computes the scale that makes variable-height slide content
// fit the visible viewport without scrolling.
package fit

import (
	"fmt"
	"math"
	"time"
)

// Options configures the fitter.
type Options struct {
	MinScale         float64
	MaxScale         float64
	Padding          float64
	Enabled          bool
	Debounce         time.Duration
	OrientationDelay time.Duration
	// MinContentDelta is the smallest content height change reported by a
	// content observer that triggers a recompute.
	MinContentDelta float64
}

// DefaultOptions returns the default fitting options.
func DefaultOptions() Options {
	return Options{
		MinScale:         0.4,
		MaxScale:         1.0,
		Padding:          40,
		Enabled:          true,
		Debounce:         150 * time.Millisecond,
		OrientationDelay: 100 * time.Millisecond,
		MinContentDelta:  1,
	}
}

// State is the result of one fit computation. It is never persisted.
type State struct {
	Scale          float64 `json:"scale"`
	ViewportHeight int     `json:"viewportHeight"`
	ContentHeight  int     `json:"contentHeight"`
	IsScaled       bool    `json:"isScaled"`
}

// Identity is the state of unscaled content.
var Identity = State{Scale: 1}

// Ratio returns viewport height over content height, or 0 when the content
// has not been measured.
func (s State) Ratio() float64 {
	if s.ContentHeight <= 0 {
		return 0
	}
	return float64(s.ViewportHeight) / float64(s.ContentHeight)
}

// WidthPercent is the width to give scaled content so that it still spans
// the full container after the transform.
func (s State) WidthPercent() float64 {
	if s.Scale <= 0 {
		return 100
	}
	return 100 / s.Scale
}

// String formats the diagnostic overlay line.
func (s State) String() string {
	ratio := "N/A"
	if s.ContentHeight > 0 {
		ratio = fmt.Sprintf("%.2f", s.Ratio())
	}
	return fmt.Sprintf("scale %.2f scaled=%t viewport %dpx content %dpx ratio %s",
		s.Scale, s.IsScaled, s.ViewportHeight, s.ContentHeight, ratio)
}

// Scale returns the largest factor in [MinScale, MaxScale] that makes
// content fit available, or 1 when it already fits. A zero or unmeasured
// content height counts as fitting.
func Scale(opts Options, available, content float64) float64 {
	if !opts.Enabled || content <= 0 || content <= available {
		return 1
	}
	return math.Max(opts.MinScale, math.Min(opts.MaxScale, available/content))
}

// AvailableHeight is the vertical space left for content below top.
// The visible height is the smaller of the window and screen heights, which
// corrects for mobile browsers reporting an inner height larger than the
// physical screen.
func AvailableHeight(innerHeight, screenHeight, top, padding float64) float64 {
	return visibleHeight(innerHeight, screenHeight) - top - padding
}

func visibleHeight(innerHeight, screenHeight float64) float64 {
	if screenHeight > 0 && screenHeight < innerHeight {
		return screenHeight
	}
	return innerHeight
}

// Compute derives the fit state from raw measurements.
func Compute(opts Options, m Measurement) State {
	if !opts.Enabled {
		return Identity
	}
	visible := visibleHeight(m.InnerHeight, m.ScreenHeight)
	available := visible - m.Top - opts.Padding
	scale := Scale(opts, available, m.ContentHeight)
	return State{
		Scale:          scale,
		ViewportHeight: int(math.Round(visible)),
		ContentHeight:  int(math.Round(m.ContentHeight)),
		IsScaled:       scale < 1,
	}
}

// Measurement is one snapshot of the rendering environment.
type Measurement struct {
	InnerHeight   float64
	ScreenHeight  float64
	Top           float64
	ContentHeight float64
}
