package live

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/slidedeck/internal/presenter"
)

// Publisher forwards a presenter's events to the hub of a remote server.
type Publisher struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// FollowURL converts a server base URL to the follow endpoint of id.
func FollowURL(baseURL, id string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("parsing base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http", "":
		u.Scheme = "ws"
	}
	u.Path += "/ws/presentations/" + url.PathEscape(id)
	return u.String(), nil
}

// Dial connects to the follow endpoint of presentation id.
func Dial(ctx context.Context, baseURL, id string) (*Publisher, error) {
	wsURL, err := FollowURL(baseURL, id)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", wsURL, err)
	}
	// Drain the echoes of our own events so the connection stays healthy.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return &Publisher{conn: conn}, nil
}

// Publish sends ev. Only navigation, mode and layout events are relayed by
// the hub.
func (p *Publisher) Publish(ev presenter.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.WriteJSON(ev)
}

// Observer adapts the publisher to a controller observer. Send errors are
// reported to onErr, which may be nil.
func (p *Publisher) Observer(onErr func(error)) func(presenter.Event) {
	return func(ev presenter.Event) {
		if err := p.Publish(ev); err != nil && onErr != nil {
			onErr(err)
		}
	}
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = p.conn.WriteMessage(websocket.CloseMessage, msg)
	return p.conn.Close()
}
