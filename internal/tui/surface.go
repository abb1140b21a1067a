package tui

import "sync"

// rowPixels converts terminal rows to the pixel units fit options are
// expressed in, so the configured padding keeps its meaning.
const rowPixels = 20.0

// termWindow is the terminal viewport as seen by the fitter.
type termWindow struct {
	mu   sync.Mutex
	rows int
}

func (w *termWindow) setRows(rows int) {
	w.mu.Lock()
	w.rows = rows
	w.mu.Unlock()
}

func (w *termWindow) InnerHeight() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return float64(w.rows) * rowPixels
}

// ScreenHeight is unknown in a terminal; the fitter then uses InnerHeight.
func (w *termWindow) ScreenHeight() float64 { return 0 }

// termSurface is the rendered slide body. Scaling a terminal is not
// possible, so a scale below 1 switches the view to compact rendering.
type termSurface struct {
	mu    sync.Mutex
	top   int
	lines int
	scale float64
}

func (s *termSurface) set(top, lines int) {
	s.mu.Lock()
	s.top = top
	s.lines = lines
	s.mu.Unlock()
}

func (s *termSurface) Top() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(s.top) * rowPixels
}

func (s *termSurface) NaturalHeight() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(s.lines) * rowPixels
}

func (s *termSurface) SetScale(scale float64) {
	s.mu.Lock()
	s.scale = scale
	s.mu.Unlock()
}

func (s *termSurface) compact() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scale > 0 && s.scale < 1
}
