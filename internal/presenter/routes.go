package presenter

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/slidedeck/internal/store"
)

// PrintRoutes returns a route registrar serving GET /{id}/print relative to
// the presentation API prefix. With ?format=pdf and pdf enabled, the
// document is converted to PDF.
func PrintRoutes(src Source, e *Exporter, pdf *PDFOptions) func(r chi.Router) {
	return func(r chi.Router) {
		r.Get("/{id}/print", handlePrint(src, e, pdf))
	}
}

func handlePrint(src Source, e *Exporter, pdf *PDFOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		p, err := src.Get(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Presentation not found")
			return
		}
		if err != nil {
			log.Printf("presenter: loading %s for print: %v", id, err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch presentation")
			return
		}

		doc, err := e.ExportToPrintable(*p)
		if err != nil {
			log.Printf("presenter: exporting %s: %v", p.ID, err)
			writeError(w, http.StatusInternalServerError, "Failed to export presentation")
			return
		}

		if r.URL.Query().Get("format") == "pdf" {
			if pdf == nil {
				writeError(w, http.StatusNotImplemented, "PDF export is disabled")
				return
			}
			doc, err = ExportPDF(r.Context(), doc, *pdf)
			if errors.Is(err, ErrPDFDependencyMissing) {
				writeError(w, http.StatusServiceUnavailable, "PDF export requires chromium")
				return
			}
			if err != nil {
				log.Printf("presenter: pdf export of %s: %v", p.ID, err)
				writeError(w, http.StatusInternalServerError, "Failed to export presentation")
				return
			}
			w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
		}

		w.Header().Set("Content-Type", doc.MimeType)
		w.Write(doc.Data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
