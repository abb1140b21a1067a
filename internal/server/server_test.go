package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/slidedeck/internal/config"
	"github.com/ziadkadry99/slidedeck/internal/presenter"
	"github.com/ziadkadry99/slidedeck/internal/store"
)

func setupServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	s := store.NewMemoryStore()
	if _, err := store.Seed(context.Background(), s); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	srv := New(cfg, s, nil)
	t.Cleanup(func() {
		srv.Shutdown(context.Background())
		s.Close()
	})
	return srv
}

func TestHealthCheck(t *testing.T) {
	srv := setupServer(t, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := setupServer(t, func(c *config.Config) { c.Server.CORSAllowAll = true })

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestRoutesMounted(t *testing.T) {
	srv := setupServer(t, nil)

	tests := []struct {
		method string
		path   string
		body   string
		code   int
	}{
		{"GET", "/api/presentations", "", http.StatusOK},
		{"GET", "/api/presentations/default", "", http.StatusOK},
		{"GET", "/api/presentations/missing", "", http.StatusNotFound},
		{"GET", "/api/presentations/default/slides/0/text", "", http.StatusOK},
		{"GET", "/api/presentations/default/print", "", http.StatusOK},
		{"GET", "/api/presentations/default/print?format=pdf", "", http.StatusNotImplemented},
		{"POST", "/api/admin/verify", `{"passphrase":"admin2025"}`, http.StatusOK},
		{"POST", "/api/admin/verify", `{"passphrase":"wrong"}`, http.StatusUnauthorized},
		{"GET", "/api/notifications", "", http.StatusOK},
		{"GET", "/", "", http.StatusOK},
		{"GET", "/view/default", "", http.StatusOK},
		{"GET", "/api/dashboard/stats", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, req)
			if w.Code != tt.code {
				t.Errorf("expected %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestSlideReplacementNotifiesFollowers(t *testing.T) {
	srv := setupServer(t, nil)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/presentations/default"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}

	deadline := time.Now().Add(2 * time.Second)
	for srv.Hub().Followers("default") != 1 {
		if time.Now().After(deadline) {
			t.Fatal("follower never joined")
		}
		time.Sleep(5 * time.Millisecond)
	}

	p, err := srv.store.Get(context.Background(), "default")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	payload, _ := json.Marshal(p.Slides)
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/presentations/default/slides", strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT slides: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev presenter.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("reading event: %v", err)
	}
	if ev.Type != presenter.EventSlideUpdated {
		t.Errorf("expected slide_updated, got %q", ev.Type)
	}

	if len(srv.Notices().Recent()) == 0 {
		t.Error("expected a change notice")
	}
}
