package dashboard

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/ziadkadry99/slidedeck/internal/slides"
)

// statsResponse is the JSON response for the stats endpoint.
type statsResponse struct {
	Presentations int            `json:"presentations"`
	Slides        int            `json:"slides"`
	ByKind        map[string]int `json:"by_kind"`
	Recent        []recentEntry  `json:"recent"`
}

type recentEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	UpdatedAt string `json:"updated_at"`
}

const recentLimit = 5

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	list, err := d.store.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	resp := statsResponse{
		Presentations: len(list),
		ByKind:        make(map[string]int),
		Recent:        []recentEntry{},
	}
	for _, p := range list {
		resp.Slides += len(p.Slides)
		for _, s := range p.Slides {
			resp.ByKind[string(s.Kind)]++
		}
	}

	sorted := append([]slides.Presentation(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})
	if len(sorted) > recentLimit {
		sorted = sorted[:recentLimit]
	}
	for _, p := range sorted {
		resp.Recent = append(resp.Recent, recentEntry{
			ID:        p.ID,
			Title:     p.Title,
			UpdatedAt: p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
