package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/slidedeck/internal/presenter"
	"github.com/ziadkadry99/slidedeck/internal/slides"
)

func setupHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	h := NewHub()
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	server := httptest.NewServer(r)
	t.Cleanup(func() {
		server.Close()
		h.Close()
	})
	return h, server
}

func follow(t *testing.T, server *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/presentations/" + id
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Errorf("expected 101, got %d", resp.StatusCode)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFollowers(t *testing.T, h *Hub, id string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Followers(id) != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d followers of %s, got %d", n, id, h.Followers(id))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) presenter.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev presenter.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("reading event: %v", err)
	}
	return ev
}

func TestPublisherRelaysNavigation(t *testing.T) {
	h, server := setupHub(t)
	conn := follow(t, server, "deck")

	pub, err := Dial(context.Background(), server.URL, "deck")
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer pub.Close()
	waitFollowers(t, h, "deck", 2)

	// saved is not relayed, so the follower sees the navigate first.
	if err := pub.Publish(presenter.Event{Type: presenter.EventSaved, PresentationID: "deck"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := pub.Publish(presenter.Event{Type: presenter.EventNavigate, PresentationID: "other", Index: 3}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	ev := readEvent(t, conn)
	if ev.Type != presenter.EventNavigate || ev.Index != 3 {
		t.Errorf("unexpected event %+v", ev)
	}
	if ev.PresentationID != "deck" {
		t.Errorf("expected presentation id from the url, got %q", ev.PresentationID)
	}
}

func TestLateFollowerStartsOnCurrentSlide(t *testing.T) {
	h, server := setupHub(t)
	h.Broadcast(presenter.Event{Type: presenter.EventNavigate, PresentationID: "deck", Index: 5})

	conn := follow(t, server, "deck")
	ev := readEvent(t, conn)
	if ev.Index != 5 {
		t.Errorf("expected index 5, got %d", ev.Index)
	}
}

func TestSlidesReplacedBroadcast(t *testing.T) {
	h, server := setupHub(t)
	conn := follow(t, server, "deck")
	waitFollowers(t, h, "deck", 1)

	h.SlidesReplaced(&slides.Presentation{ID: "deck"})
	ev := readEvent(t, conn)
	if ev.Type != presenter.EventSlideUpdated || ev.PresentationID != "deck" {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestFollowersLeave(t *testing.T) {
	h, server := setupHub(t)
	conn := follow(t, server, "deck")
	other := follow(t, server, "other")
	waitFollowers(t, h, "deck", 1)
	waitFollowers(t, h, "other", 1)

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	waitFollowers(t, h, "deck", 0)

	if h.Followers("other") != 1 {
		t.Errorf("closing one room should not affect another")
	}
	_ = other
}

func TestBroadcastAfterClose(t *testing.T) {
	h := NewHub()
	h.Close()
	// Must not panic.
	h.Broadcast(presenter.Event{Type: presenter.EventNavigate, PresentationID: "deck"})
	if h.Followers("deck") != 0 {
		t.Errorf("expected no followers after close")
	}
}

func TestControllerObserver(t *testing.T) {
	h, server := setupHub(t)
	conn := follow(t, server, "deck")

	pub, err := Dial(context.Background(), server.URL, "deck")
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer pub.Close()
	waitFollowers(t, h, "deck", 2)

	p := slides.Presentation{ID: "deck", Title: "Deck", Slides: []slides.Slide{
		{ID: "slide-1", Kind: slides.KindIntro, Order: 1},
		{ID: "slide-2", Kind: slides.KindIntro, Order: 2},
	}}
	var sendErr error
	c := presenter.New(p, nil, presenter.WithObserver(pub.Observer(func(err error) { sendErr = err })))
	c.Next()

	ev := readEvent(t, conn)
	if ev.Type != presenter.EventNavigate || ev.Index != 1 {
		t.Errorf("unexpected event %+v", ev)
	}
	if sendErr != nil {
		t.Errorf("unexpected send error: %v", sendErr)
	}
}

func TestFollowURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:8080", "ws://localhost:8080/ws/presentations/deck"},
		{"https://slides.example.com/", "wss://slides.example.com/ws/presentations/deck"},
		{"http://host/prefix", "ws://host/prefix/ws/presentations/deck"},
	}
	for _, tt := range tests {
		got, err := FollowURL(tt.base, "deck")
		if err != nil {
			t.Fatalf("FollowURL(%q): %v", tt.base, err)
		}
		if got != tt.want {
			t.Errorf("FollowURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}
