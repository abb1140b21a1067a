package notifications

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts notice endpoints under /api/notifications.
func RegisterRoutes(r chi.Router, d *Dispatcher) {
	r.Route("/api/notifications", func(r chi.Router) {
		r.Get("/", handleList(d))
		r.Delete("/{id}", handleDismiss(d))
	})
}

func handleList(d *Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notices := d.Recent()
		if notices == nil {
			notices = []Notice{}
		}
		writeJSON(w, http.StatusOK, notices)
	}
}

func handleDismiss(d *Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !d.Dismiss(chi.URLParam(r, "id")) {
			http.Error(w, `{"message":"notification not found"}`, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
