// Package server assembles the HTTP API, the audience viewer and the live
// relay into one chi router.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/slidedeck/internal/auth"
	"github.com/ziadkadry99/slidedeck/internal/config"
	"github.com/ziadkadry99/slidedeck/internal/dashboard"
	"github.com/ziadkadry99/slidedeck/internal/live"
	"github.com/ziadkadry99/slidedeck/internal/notifications"
	"github.com/ziadkadry99/slidedeck/internal/presenter"
	"github.com/ziadkadry99/slidedeck/internal/progress"
	"github.com/ziadkadry99/slidedeck/internal/slides"
	"github.com/ziadkadry99/slidedeck/internal/store"
)

// Server is the presentation server.
type Server struct {
	cfg        *config.Config
	store      store.Store
	hub        *live.Hub
	notices    *notifications.Dispatcher
	router     chi.Router
	httpServer *http.Server
}

// New creates a server over s. A nil dispatcher is replaced by one posting
// to the configured webhook.
func New(cfg *config.Config, s store.Store, notices *notifications.Dispatcher) *Server {
	if notices == nil {
		notices = notifications.NewDispatcher(cfg.Notifications.WebhookURL)
	}
	srv := &Server{
		cfg:     cfg,
		store:   s,
		hub:     live.NewHub(),
		notices: notices,
	}

	srv.router = srv.buildRouter()
	return srv
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.Server.CORSAllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Websocket connections outlive any request timeout, so only the API
	// group gets one.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(time.Duration(s.cfg.Export.TimeoutSeconds+30) * time.Second))

		exporter := presenter.NewExporter(nil, progress.Nop{})
		store.RegisterRoutes(r, s.store, s.hooks(), presenter.PrintRoutes(s.store, exporter, s.pdfOptions()))
		auth.NewGate(s.cfg.Admin.Passphrase).RegisterRoutes(r)
		notifications.RegisterRoutes(r, s.notices)
		dashboard.New(s.store, s.cfg.Fit.Options()).RegisterRoutes(r)
	})

	s.hub.RegisterRoutes(r)

	return r
}

func (s *Server) hooks() store.Hooks {
	return store.Hooks{
		OnChange: func(p *slides.Presentation) {
			s.notices.Info(context.Background(), "Apresentação atualizada", p.Title)
		},
		OnSlidesReplaced: s.hub.SlidesReplaced,
	}
}

// pdfOptions returns nil when PDF export is disabled.
func (s *Server) pdfOptions() *presenter.PDFOptions {
	if !s.cfg.Export.PDF {
		return nil
	}
	return &presenter.PDFOptions{
		Paper:   presenter.PaperSize(s.cfg.Export.Paper),
		Timeout: s.cfg.Export.Timeout(),
	}
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Hub returns the live relay.
func (s *Server) Hub() *live.Hub { return s.hub }

// Notices returns the notification dispatcher.
func (s *Server) Notices() *notifications.Dispatcher { return s.notices }

// Start begins listening on the configured address.
func (s *Server) Start() error {
	addr := s.cfg.Addr()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("slidedeck server listening on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serving http: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server and disconnects live followers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
