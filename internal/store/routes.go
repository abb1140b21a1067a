package store

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ziadkadry99/slidedeck/internal/slides"
)

// Hooks lets other components observe successful writes.
type Hooks struct {
	// OnChange is called with the stored presentation after a create or
	// update.
	OnChange func(p *slides.Presentation)
	// OnSlidesReplaced is called after a full slide list replacement.
	OnSlidesReplaced func(p *slides.Presentation)
}

func (h Hooks) changed(p *slides.Presentation, slidesReplaced bool) {
	if h.OnChange != nil {
		h.OnChange(p)
	}
	if slidesReplaced && h.OnSlidesReplaced != nil {
		h.OnSlidesReplaced(p)
	}
}

// RegisterRoutes mounts the presentation API on the given router. extra
// registers additional per-presentation routes under the same prefix.
func RegisterRoutes(r chi.Router, s Store, hooks Hooks, extra ...func(r chi.Router)) {
	r.Route("/api/presentations", func(r chi.Router) {
		r.Get("/", handleList(s))
		r.Post("/", handleCreate(s, hooks))
		r.Get("/{id}", handleGet(s))
		r.Put("/{id}", handleUpdate(s, hooks))
		r.Put("/{id}/slides", handleUpdateSlides(s, hooks))
		r.Get("/{id}/slides/{index}/text", handleSlideText(s))
		for _, fn := range extra {
			fn(r)
		}
	})
}

type errorResponse struct {
	Message string              `json:"message"`
	Errors  []slides.FieldError `json:"errors,omitempty"`
}

func handleList(s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.List(r.Context())
		if err != nil {
			log.Printf("store: listing presentations: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch presentations")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func handleGet(s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, err, "Failed to fetch presentation")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func handleCreate(s Store, hooks Hooks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in CreateInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeDecodeError(w, err)
			return
		}
		if err := in.Validate(); err != nil {
			writeStoreError(w, err, "Failed to create presentation")
			return
		}
		p, err := s.Create(r.Context(), in)
		if err != nil {
			writeStoreError(w, err, "Failed to create presentation")
			return
		}
		hooks.changed(p, false)
		writeJSON(w, http.StatusCreated, p)
	}
}

func handleUpdate(s Store, hooks Hooks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch Patch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeDecodeError(w, err)
			return
		}
		if err := patch.Validate(); err != nil {
			writeStoreError(w, err, "Failed to update presentation")
			return
		}
		p, err := s.Update(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			writeStoreError(w, err, "Failed to update presentation")
			return
		}
		hooks.changed(p, patch.Slides != nil)
		writeJSON(w, http.StatusOK, p)
	}
}

func handleUpdateSlides(s Store, hooks Hooks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var list []slides.Slide
		if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
			writeDecodeError(w, err)
			return
		}
		if list == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Message: "Validation error",
				Errors:  []slides.FieldError{{Field: "slides", Message: "expected an array of slides"}},
			})
			return
		}
		if err := slides.ValidateSlides(list); err != nil {
			writeStoreError(w, err, "Failed to update slides")
			return
		}
		p, err := s.UpdateSlides(r.Context(), chi.URLParam(r, "id"), list)
		if err != nil {
			writeStoreError(w, err, "Failed to update slides")
			return
		}
		hooks.changed(p, true)
		writeJSON(w, http.StatusOK, p)
	}
}

func handleSlideText(s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, err, "Failed to fetch presentation")
			return
		}
		idx, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil || idx < 0 || idx >= len(p.Slides) {
			writeError(w, http.StatusNotFound, "Slide not found")
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(slides.ExportToText(p.Slides[idx])))
	}
}

func writeStoreError(w http.ResponseWriter, err error, fallback string) {
	var verr *slides.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Validation error", Errors: verr.Errors})
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "Presentation not found")
	case errors.Is(err, ErrExists):
		writeError(w, http.StatusConflict, "Presentation already exists")
	default:
		log.Printf("store: %s: %v", fallback, err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

// writeDecodeError reports a malformed body as a validation error, naming
// the offending field when the decoder knows it.
func writeDecodeError(w http.ResponseWriter, err error) {
	var (
		verr    *slides.ValidationError
		typeErr *json.UnmarshalTypeError
	)
	field := "body"
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Validation error", Errors: verr.Errors})
		return
	case errors.As(err, &typeErr) && typeErr.Field != "":
		field = typeErr.Field
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Message: "Validation error",
		Errors:  []slides.FieldError{{Field: field, Message: err.Error()}},
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
