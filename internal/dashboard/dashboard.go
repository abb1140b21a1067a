// Package dashboard serves the browser audience view: a presentation index
// and a full-window viewer that follows the presenter over websocket.
package dashboard

import (
	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/slidedeck/internal/fit"
	"github.com/ziadkadry99/slidedeck/internal/render"
	"github.com/ziadkadry99/slidedeck/internal/store"
)

// Dashboard renders stored presentations for the browser.
type Dashboard struct {
	store    store.Store
	renderer *render.Renderer
	fit      fit.Options
}

// New creates a new Dashboard. The fit options are handed to the viewer
// script, which scales slides the same way the terminal presenter does.
func New(s store.Store, opts fit.Options) *Dashboard {
	return &Dashboard{
		store:    s,
		renderer: render.New(nil),
		fit:      opts,
	}
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Get("/view/{id}", d.ServeViewer)
	r.Get("/api/dashboard/stats", d.handleStats)
}
