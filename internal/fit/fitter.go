package fit

import (
	"math"
	"sync"
	"time"
)

// Window reports the visible viewport of the rendering environment.
type Window interface {
	InnerHeight() float64
	ScreenHeight() float64
}

// Surface is the content node being scaled.
type Surface interface {
	// Top is the offset of the content region from the top of the window.
	Top() float64
	// NaturalHeight is the unconstrained content height at the current
	// transform. The fitter resets the transform before reading it.
	NaturalHeight() float64
	SetScale(scale float64)
}

// Fitter keeps a Surface scaled to its Window. Resize and content events are
// debounced; only the last event of a burst leads to a computation. Timer
// callbacks run on their own goroutine, so Window and Surface must tolerate
// calls from outside the caller's goroutine.
type Fitter struct {
	opts     Options
	onChange func(State)

	mu          sync.Mutex
	window      Window
	surface     Surface
	state       State
	lastContent float64
	gen         uint64
	debounce    *time.Timer
	settle      *time.Timer
	closed      bool
}

// New returns a Fitter. onChange, when non-nil, is called after every
// computation with the new state.
func New(opts Options, onChange func(State)) *Fitter {
	return &Fitter{opts: opts, onChange: onChange, state: Identity}
}

// Attach mounts the window and surface and computes the initial state.
// Either may be nil; computation is deferred until both exist.
func (f *Fitter) Attach(w Window, s Surface) State {
	f.mu.Lock()
	f.window = w
	f.surface = s
	f.mu.Unlock()
	return f.Recompute()
}

// Detach unmounts the surfaces and cancels pending work. The fitter can be
// attached again.
func (f *Fitter) Detach() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelLocked()
	f.window = nil
	f.surface = nil
}

// Close cancels pending timers and stops all future computation.
func (f *Fitter) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelLocked()
	f.closed = true
	f.window = nil
	f.surface = nil
}

// State returns the most recent fit state.
func (f *Fitter) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Resize schedules a debounced recompute after a window resize.
func (f *Fitter) Resize() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduleLocked()
}

// OrientationChange waits for the platform to settle before scheduling a
// debounced recompute.
func (f *Fitter) OrientationChange() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	if f.settle != nil {
		f.settle.Stop()
	}
	f.settle = time.AfterFunc(f.opts.OrientationDelay, f.Resize)
}

// ContentResized is the content observer callback. Changes smaller than
// MinContentDelta are ignored.
func (f *Fitter) ContentResized(height float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if math.Abs(height-f.lastContent) < f.opts.MinContentDelta {
		return
	}
	f.scheduleLocked()
}

// Recompute measures and applies the scale immediately.
func (f *Fitter) Recompute() State {
	f.mu.Lock()
	st, changed := f.computeLocked()
	f.mu.Unlock()
	if changed && f.onChange != nil {
		f.onChange(st)
	}
	return st
}

func (f *Fitter) scheduleLocked() {
	if f.closed {
		return
	}
	if f.debounce != nil {
		f.debounce.Stop()
	}
	f.gen++
	gen := f.gen
	f.debounce = time.AfterFunc(f.opts.Debounce, func() {
		f.mu.Lock()
		if gen != f.gen {
			f.mu.Unlock()
			return
		}
		st, changed := f.computeLocked()
		f.mu.Unlock()
		if changed && f.onChange != nil {
			f.onChange(st)
		}
	})
}

// computeLocked returns false when the surfaces are not mounted.
func (f *Fitter) computeLocked() (State, bool) {
	if f.closed || f.window == nil || f.surface == nil {
		return f.state, false
	}
	if !f.opts.Enabled {
		f.surface.SetScale(1)
		f.state = Identity
		return f.state, true
	}

	// A scaled surface reports a scaled height.
	f.surface.SetScale(1)
	m := Measurement{
		InnerHeight:   f.window.InnerHeight(),
		ScreenHeight:  f.window.ScreenHeight(),
		Top:           f.surface.Top(),
		ContentHeight: f.surface.NaturalHeight(),
	}
	st := Compute(f.opts, m)
	f.surface.SetScale(st.Scale)
	f.state = st
	f.lastContent = m.ContentHeight
	return st, true
}

func (f *Fitter) cancelLocked() {
	f.gen++
	if f.debounce != nil {
		f.debounce.Stop()
		f.debounce = nil
	}
	if f.settle != nil {
		f.settle.Stop()
		f.settle = nil
	}
}
