package client

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/slidedeck/internal/slides"
	"github.com/ziadkadry99/slidedeck/internal/store"
)

func setupServer(t *testing.T) (*Client, store.Store) {
	t.Helper()
	s := store.NewMemoryStore()
	if _, err := store.Seed(context.Background(), s); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	r := chi.NewRouter()
	store.RegisterRoutes(r, s, store.Hooks{})
	r.Post("/api/admin/verify", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Senha incorreta"}`))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/"), s
}

func TestClientGetAndList(t *testing.T) {
	c, _ := setupServer(t)
	ctx := context.Background()

	p, err := c.Get(ctx, store.DefaultID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(p.Slides) != 11 {
		t.Errorf("expected 11 slides, got %d", len(p.Slides))
	}

	list, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 presentation, got %d", len(list))
	}

	_, err = c.Get(ctx, "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClientUpdateSlides(t *testing.T) {
	c, s := setupServer(t)
	ctx := context.Background()

	p, _ := c.Get(ctx, store.DefaultID)
	p.Slides[2].Title = "New Title"
	if _, err := c.UpdateSlides(ctx, p.ID, p.Slides); err != nil {
		t.Fatalf("UpdateSlides: %v", err)
	}
	got, _ := s.Get(ctx, store.DefaultID)
	if got.Slides[2].Title != "New Title" {
		t.Errorf("expected server-side update, got %q", got.Slides[2].Title)
	}

	p.Slides[0].Title = ""
	_, err := c.UpdateSlides(ctx, p.ID, p.Slides)
	var verr *slides.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Errors[0].Field != "slides.0.title" {
		t.Errorf("unexpected field %q", verr.Errors[0].Field)
	}
}

func TestClientCreateAndPatch(t *testing.T) {
	c, _ := setupServer(t)
	ctx := context.Background()

	desc := "d"
	p, err := c.Create(ctx, store.CreateInput{Title: "Nova", Description: &desc, Slides: []slides.Slide{}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	title := "Renomeada"
	updated, err := c.Update(ctx, p.ID, store.Patch{Title: &title, DescriptionSet: true})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Renomeada" || updated.Description != nil {
		t.Errorf("unexpected patch result %+v", updated)
	}
}

func TestClientSlideTextAndPrint(t *testing.T) {
	c, _ := setupServer(t)
	ctx := context.Background()

	text, err := c.SlideText(ctx, store.DefaultID, 0)
	if err != nil {
		t.Fatalf("SlideText: %v", err)
	}
	if !strings.HasPrefix(text, "# O Ecossistema") {
		t.Errorf("unexpected text %q", text)
	}

	// The print route is not mounted on this server.
	var buf bytes.Buffer
	err = c.Print(ctx, store.DefaultID, false, &buf)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("expected 404 APIError, got %v", err)
	}
}

func TestClientVerifyAdmin(t *testing.T) {
	c, _ := setupServer(t)
	err := c.VerifyAdmin(context.Background(), "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}
