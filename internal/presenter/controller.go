package presenter

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/ziadkadry99/slidedeck/internal/notifications"
	"github.com/ziadkadry99/slidedeck/internal/render"
	"github.com/ziadkadry99/slidedeck/internal/slides"
)

// Controller owns the navigation position and mode flags of one loaded
// presentation and persists slide edits.
//
// Edits are optimistic: the local slide list changes immediately and is
// never rolled back when a save fails. Failures surface as error notices.
type Controller struct {
	mu        sync.Mutex
	pres      slides.Presentation
	index     int
	mode      render.Mode
	layout    Layout
	observers []func(Event)

	persister Persister
	notices   *notifications.Dispatcher
	renderer  *render.Renderer

	// Saves run one at a time; a save superseded by a newer one is skipped.
	saveMu  sync.Mutex
	saveGen uint64
	saves   sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets the dispatcher that receives save and export notices.
func WithNotifier(d *notifications.Dispatcher) Option {
	return func(c *Controller) { c.notices = d }
}

// WithRenderer sets the renderer used by View.
func WithRenderer(r *render.Renderer) Option {
	return func(c *Controller) { c.renderer = r }
}

// WithObserver registers fn for every controller event.
func WithObserver(fn func(Event)) Option {
	return func(c *Controller) { c.observers = append(c.observers, fn) }
}

// New creates a controller positioned on the first slide in view mode and
// editor layout.
func New(p slides.Presentation, persister Persister, opts ...Option) *Controller {
	c := &Controller{
		pres:      p.Clone(),
		persister: persister,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.renderer == nil {
		c.renderer = render.New(nil)
	}
	if c.notices == nil {
		c.notices = notifications.NewDispatcher("")
	}
	return c
}

// Load fetches the presentation id from src and returns a controller for
// it.
func Load(ctx context.Context, src Source, id string, persister Persister, opts ...Option) (*Controller, error) {
	p, err := src.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading presentation %s: %w", id, err)
	}
	return New(*p, persister, opts...), nil
}

// Presentation returns a copy of the local presentation state.
func (c *Controller) Presentation() slides.Presentation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pres.Clone()
}

// Notices returns the dispatcher carrying save and export notices.
func (c *Controller) Notices() *notifications.Dispatcher { return c.notices }

func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pres.Slides)
}

func (c *Controller) Mode() render.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller) Layout() Layout {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layout
}

// Current returns a copy of the slide at the current index.
func (c *Controller) Current() (slides.Slide, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pres.Slides) == 0 {
		return slides.Slide{}, false
	}
	return c.pres.Slides[c.index].Clone(), true
}

// View renders the current slide in the current mode.
func (c *Controller) View() (render.Node, bool) {
	s, ok := c.Current()
	if !ok {
		return render.Node{}, false
	}
	return c.renderer.Render(s, c.Mode()), true
}

// Next advances one slide. It is a no-op on the last slide.
func (c *Controller) Next() bool {
	c.mu.Lock()
	return c.moveLocked(c.index + 1)
}

// Prev goes back one slide. It is a no-op on the first slide.
func (c *Controller) Prev() bool {
	c.mu.Lock()
	return c.moveLocked(c.index - 1)
}

// GoTo jumps to index. Indexes outside the slide list are ignored.
func (c *Controller) GoTo(index int) bool {
	c.mu.Lock()
	return c.moveLocked(index)
}

// First jumps to the first slide.
func (c *Controller) First() bool {
	c.mu.Lock()
	return c.moveLocked(0)
}

// Last jumps to the last slide.
func (c *Controller) Last() bool {
	c.mu.Lock()
	return c.moveLocked(len(c.pres.Slides) - 1)
}

// moveLocked must be called with c.mu held and releases it.
func (c *Controller) moveLocked(index int) bool {
	if index < 0 || index >= len(c.pres.Slides) || index == c.index {
		c.mu.Unlock()
		return false
	}
	c.index = index
	ev := c.eventLocked(EventNavigate)
	c.mu.Unlock()
	c.emit(ev)
	return true
}

// ToggleEditMode flips between view and edit mode. Slide content is not
// touched.
func (c *Controller) ToggleEditMode() render.Mode {
	c.mu.Lock()
	if c.mode == render.ModeEdit {
		c.mode = render.ModeView
	} else {
		c.mode = render.ModeEdit
	}
	mode := c.mode
	ev := c.eventLocked(EventMode)
	c.mu.Unlock()
	c.emit(ev)
	return mode
}

// EnterFullscreen switches to the single-slide layout.
func (c *Controller) EnterFullscreen() bool {
	return c.setLayout(LayoutFullscreen)
}

// ExitFullscreen switches back to the editor layout.
func (c *Controller) ExitFullscreen() bool {
	return c.setLayout(LayoutEditor)
}

func (c *Controller) setLayout(l Layout) bool {
	c.mu.Lock()
	if c.layout == l {
		c.mu.Unlock()
		return false
	}
	c.layout = l
	ev := c.eventLocked(EventLayout)
	c.mu.Unlock()
	c.emit(ev)
	return true
}

// ApplySlideUpdate replaces the slide at the current index with updated
// and submits the full list for persistence in the background. The slide
// is matched by position, not id. Use Wait to block until pending saves
// finish. An update failing strict validation is returned as a
// *slides.ValidationError and leaves the presentation unchanged.
func (c *Controller) ApplySlideUpdate(ctx context.Context, updated slides.Slide) error {
	c.mu.Lock()
	if len(c.pres.Slides) == 0 {
		c.mu.Unlock()
		return ErrNoSlides
	}
	if err := slides.ValidateStrict(updated); err != nil {
		c.mu.Unlock()
		return err
	}
	next := slides.CloneSlides(c.pres.Slides)
	next[c.index] = updated.Clone()
	c.pres.Slides = next

	snapshot := slides.CloneSlides(next)
	c.saveGen++
	gen := c.saveGen
	id := c.pres.ID
	ev := c.eventLocked(EventSlideUpdated)
	slide := next[c.index].Clone()
	ev.Slide = &slide
	c.mu.Unlock()

	c.emit(ev)
	c.persist(context.WithoutCancel(ctx), id, gen, snapshot)
	return nil
}

// Edit routes a field-path edit to the current slide and applies it.
func (c *Controller) Edit(ctx context.Context, path string, value any) error {
	s, ok := c.Current()
	if !ok {
		return ErrNoSlides
	}
	updated, err := render.ApplyEdit(s, path, value)
	if err != nil {
		return err
	}
	return c.ApplySlideUpdate(ctx, updated)
}

// AttachPhoto embeds an image into team member index of the current slide.
func (c *Controller) AttachPhoto(ctx context.Context, index int, mimeType string, data []byte) error {
	s, ok := c.Current()
	if !ok {
		return ErrNoSlides
	}
	updated, err := render.AttachPhoto(s, index, mimeType, data)
	if err != nil {
		return err
	}
	return c.ApplySlideUpdate(ctx, updated)
}

// Wait blocks until every pending save has finished.
func (c *Controller) Wait() {
	c.saves.Wait()
}

func (c *Controller) persist(ctx context.Context, id string, gen uint64, list []slides.Slide) {
	c.saves.Add(1)
	go func() {
		defer c.saves.Done()
		c.saveMu.Lock()
		defer c.saveMu.Unlock()

		c.mu.Lock()
		stale := gen != c.saveGen
		c.mu.Unlock()
		if stale {
			return
		}

		if _, err := c.persister.UpdateSlides(ctx, id, list); err != nil {
			log.Printf("presenter: saving slides of %s: %v", id, err)
			c.notices.Error(ctx, "Erro ao salvar", "Não foi possível salvar as alterações.")
			c.emit(Event{Type: EventSaveFailed, PresentationID: id, Error: err.Error()})
			return
		}
		c.notices.Info(ctx, "Slides atualizados", "As alterações foram salvas com sucesso.")
		c.emit(Event{Type: EventSaved, PresentationID: id})
	}()
}

func (c *Controller) eventLocked(t EventType) Event {
	return Event{
		Type:           t,
		PresentationID: c.pres.ID,
		Index:          c.index,
		Mode:           c.mode.String(),
		Layout:         c.layout.String(),
	}
}

func (c *Controller) emit(ev Event) {
	for _, fn := range c.observers {
		fn(ev)
	}
}
