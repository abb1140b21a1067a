package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/slidedeck/internal/fit"
	"github.com/ziadkadry99/slidedeck/internal/store"
)

func setupTest(t *testing.T) (*Dashboard, store.Store) {
	t.Helper()
	s := store.NewMemoryStore()
	if _, err := store.Seed(context.Background(), s); err != nil {
		t.Fatalf("seeding store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return New(s, fit.DefaultOptions()), s
}

func setupRouter(d *Dashboard) chi.Router {
	r := chi.NewRouter()
	d.RegisterRoutes(r)
	return r
}

func TestStatsEndpoint(t *testing.T) {
	d, _ := setupTest(t)
	r := setupRouter(d)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp statsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Presentations != 1 {
		t.Errorf("expected 1 presentation, got %d", resp.Presentations)
	}
	if resp.Slides != 11 {
		t.Errorf("expected 11 slides, got %d", resp.Slides)
	}
	if resp.ByKind["content"] != 4 {
		t.Errorf("expected 4 content slides, got %d", resp.ByKind["content"])
	}
	if len(resp.Recent) != 1 || resp.Recent[0].ID != store.DefaultID {
		t.Errorf("unexpected recent list %+v", resp.Recent)
	}
}

func TestStatsEmptyStore(t *testing.T) {
	d := New(store.NewMemoryStore(), fit.DefaultOptions())
	r := setupRouter(d)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), `"recent":[]`) {
		t.Errorf("expected empty recent array, got %s", w.Body.String())
	}
}

func TestServeIndex(t *testing.T) {
	d, _ := setupTest(t)
	r := setupRouter(d)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected html content type, got %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, `href="/view/default"`) {
		t.Errorf("expected link to default presentation")
	}
	if !strings.Contains(body, "(11 slides)") {
		t.Errorf("expected slide count in index")
	}
}

func TestServeViewer(t *testing.T) {
	d, _ := setupTest(t)
	r := setupRouter(d)

	req := httptest.NewRequest(http.MethodGet, "/view/default", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if got := strings.Count(body, `<article class="slide`); got != 11 {
		t.Errorf("expected 11 rendered slides, got %d", got)
	}
	if strings.Contains(body, "contenteditable") {
		t.Error("viewer should render in view mode")
	}
	if !strings.Contains(body, `data-min-scale="0.4"`) {
		t.Errorf("expected fit options in viewer")
	}
	if !strings.Contains(body, "/ws/presentations/") {
		t.Error("expected websocket follow script")
	}
}

func TestServeViewerFitTimings(t *testing.T) {
	s := store.NewMemoryStore()
	if _, err := store.Seed(context.Background(), s); err != nil {
		t.Fatalf("seeding store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	opts := fit.DefaultOptions()
	opts.Debounce = 250 * time.Millisecond
	opts.OrientationDelay = 300 * time.Millisecond
	r := setupRouter(New(s, opts))

	req := httptest.NewRequest(http.MethodGet, "/view/default", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	body := w.Body.String()
	for _, want := range []string{
		`data-debounce-ms="250"`,
		`data-orientation-delay-ms="300"`,
		`data-min-content-delta="1"`,
		`addEventListener("resize", schedule)`,
		`addEventListener("orientationchange", orientationChanged)`,
		"new ResizeObserver(",
		"getBoundingClientRect().top",
		"screen.height",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %s in viewer", want)
		}
	}
}

func TestServeViewerNotFound(t *testing.T) {
	d, _ := setupTest(t)
	r := setupRouter(d)

	req := httptest.NewRequest(http.MethodGet, "/view/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
