package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultKeep = 20

// Dispatcher fans notices out to in-process subscribers and keeps the most
// recent undismissed ones. When a webhook URL is set, each notice is also
// POSTed there.
type Dispatcher struct {
	mu         sync.Mutex
	subs       map[int]chan Notice
	nextSub    int
	recent     []Notice
	keep       int
	webhookURL string
	client     *http.Client
}

// NewDispatcher creates a Dispatcher. webhookURL may be empty.
func NewDispatcher(webhookURL string) *Dispatcher {
	return &Dispatcher{
		subs:       make(map[int]chan Notice),
		keep:       defaultKeep,
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Dispatch records n and delivers it. Slow subscribers miss notices rather
// than block the caller. Only webhook delivery can fail.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notice) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if n.Severity == "" {
		n.Severity = SeverityInfo
	}

	d.mu.Lock()
	d.recent = append(d.recent, n)
	if len(d.recent) > d.keep {
		d.recent = d.recent[len(d.recent)-d.keep:]
	}
	for _, ch := range d.subs {
		select {
		case ch <- n:
		default:
		}
	}
	url := d.webhookURL
	d.mu.Unlock()

	if url == "" {
		return nil
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encoding notice: %w", err)
	}
	return d.SendWebhook(ctx, url, payload)
}

// Info dispatches an informational notice. Webhook failures are logged.
func (d *Dispatcher) Info(ctx context.Context, title, message string) {
	d.dispatchLogged(ctx, Notice{Severity: SeverityInfo, Title: title, Message: message})
}

// Error dispatches an error notice. Webhook failures are logged.
func (d *Dispatcher) Error(ctx context.Context, title, message string) {
	d.dispatchLogged(ctx, Notice{Severity: SeverityError, Title: title, Message: message})
}

func (d *Dispatcher) dispatchLogged(ctx context.Context, n Notice) {
	if err := d.Dispatch(ctx, n); err != nil {
		log.Printf("notifications: delivering %q: %v", n.Title, err)
	}
}

// Subscribe returns a channel receiving every future notice and a function
// that cancels the subscription.
func (d *Dispatcher) Subscribe(buffer int) (<-chan Notice, func()) {
	ch := make(chan Notice, buffer)
	d.mu.Lock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = ch
	d.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.subs, id)
			d.mu.Unlock()
			close(ch)
		})
	}
}

// Recent returns the undismissed notices, oldest first.
func (d *Dispatcher) Recent() []Notice {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Notice(nil), d.recent...)
}

// Dismiss removes the notice with the given id. It reports whether the
// notice was found.
func (d *Dispatcher) Dismiss(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, n := range d.recent {
		if n.ID == id {
			d.recent = append(d.recent[:i], d.recent[i+1:]...)
			return true
		}
	}
	return false
}

// SendWebhook POSTs payload to the given URL.
func (d *Dispatcher) SendWebhook(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
