// Package live relays presenter events to audience clients over
// websockets so they can follow a presentation.
package live

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/slidedeck/internal/presenter"
	"github.com/ziadkadry99/slidedeck/internal/slides"
)

const sendBuffer = 16

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// relayed lists the event types clients may publish.
var relayed = map[presenter.EventType]bool{
	presenter.EventNavigate: true,
	presenter.EventMode:     true,
	presenter.EventLayout:   true,
}

type follower struct {
	send chan presenter.Event
}

// Hub fans events out to the followers of each presentation and remembers
// the last position so late joiners start on the current slide.
type Hub struct {
	mu     sync.Mutex
	rooms  map[string]map[*follower]struct{}
	last   map[string]presenter.Event
	closed bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*follower]struct{}),
		last:  make(map[string]presenter.Event),
	}
}

// RegisterRoutes mounts the follow endpoint.
func (h *Hub) RegisterRoutes(r chi.Router) {
	r.Get("/ws/presentations/{id}", h.handleWebSocket)
}

// Broadcast delivers ev to every follower of ev.PresentationID. Followers
// that fall behind miss events rather than block the caller.
func (h *Hub) Broadcast(ev presenter.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if ev.Type == presenter.EventNavigate {
		h.last[ev.PresentationID] = ev
	}
	for f := range h.rooms[ev.PresentationID] {
		select {
		case f.send <- ev:
		default:
		}
	}
}

// SlidesReplaced broadcasts a slide_updated event for p. It matches the
// store route hook signature.
func (h *Hub) SlidesReplaced(p *slides.Presentation) {
	h.Broadcast(presenter.Event{Type: presenter.EventSlideUpdated, PresentationID: p.ID, Index: -1})
}

// Followers returns the number of connected followers of id.
func (h *Hub) Followers(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[id])
}

// Close disconnects every follower.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, room := range h.rooms {
		for f := range room {
			close(f.send)
		}
		delete(h.rooms, id)
	}
}

func (h *Hub) join(id string) (*follower, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	f := &follower{send: make(chan presenter.Event, sendBuffer)}
	if h.rooms[id] == nil {
		h.rooms[id] = make(map[*follower]struct{})
	}
	h.rooms[id][f] = struct{}{}
	if ev, ok := h.last[id]; ok {
		f.send <- ev
	}
	return f, true
}

func (h *Hub) leave(id string, f *follower) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[id]
	if !ok {
		return
	}
	if _, ok := room[f]; !ok {
		return
	}
	delete(room, f)
	close(f.send)
	if len(room) == 0 {
		delete(h.rooms, id)
	}
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("live: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	f, ok := h.join(id)
	if !ok {
		return
	}
	defer h.leave(id, f)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range f.send {
			if err := conn.WriteJSON(ev); err != nil {
				log.Printf("live: websocket write: %v", err)
				return
			}
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("live: websocket read: %v", err)
			}
			break
		}

		var ev presenter.Event
		if err := json.Unmarshal(msg, &ev); err != nil || !relayed[ev.Type] {
			continue
		}
		ev.PresentationID = id
		ev.Slide = nil
		h.Broadcast(ev)
	}

	h.leave(id, f)
	<-done
}
