// Package client talks to a running slidedeck server over its HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ziadkadry99/slidedeck/internal/slides"
	"github.com/ziadkadry99/slidedeck/internal/store"
)

// ErrUnauthorized is returned when the admin passphrase is rejected.
var ErrUnauthorized = errors.New("passphrase rejected")

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
	Errors  []slides.FieldError
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Message, e.Status, (&slides.ValidationError{Errors: e.Errors}).Error())
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// Unwrap maps 404 to store.ErrNotFound and 400 field errors to a
// *slides.ValidationError so callers can use the same checks as with a
// local store.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound:
		return store.ErrNotFound
	case e.Status == http.StatusBadRequest && len(e.Errors) > 0:
		return &slides.ValidationError{Errors: e.Errors}
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	}
	return nil
}

// Client is an HTTP client for the presentation API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// BaseURL returns the server address the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
			if apiErr.Message == "" {
				apiErr.Message = http.StatusText(resp.StatusCode)
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if w, ok := out.(io.Writer); ok {
		_, err := io.Copy(w, resp.Body)
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func presentationPath(id string) string {
	return "/api/presentations/" + url.PathEscape(id)
}

func (c *Client) List(ctx context.Context) ([]slides.Presentation, error) {
	var out []slides.Presentation
	if err := c.do(ctx, http.MethodGet, "/api/presentations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*slides.Presentation, error) {
	var out slides.Presentation
	if err := c.do(ctx, http.MethodGet, presentationPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, in store.CreateInput) (*slides.Presentation, error) {
	var out slides.Presentation
	if err := c.do(ctx, http.MethodPost, "/api/presentations", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id string, patch store.Patch) (*slides.Presentation, error) {
	var out slides.Presentation
	if err := c.do(ctx, http.MethodPut, presentationPath(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSlides(ctx context.Context, id string, list []slides.Slide) (*slides.Presentation, error) {
	if list == nil {
		list = []slides.Slide{}
	}
	var out slides.Presentation
	if err := c.do(ctx, http.MethodPut, presentationPath(id)+"/slides", list, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SlideText returns the plain-text export of slide index.
func (c *Client) SlideText(ctx context.Context, id string, index int) (string, error) {
	var buf bytes.Buffer
	path := fmt.Sprintf("%s/slides/%d/text", presentationPath(id), index)
	if err := c.do(ctx, http.MethodGet, path, nil, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Print downloads the printable export, as PDF when pdf is set.
func (c *Client) Print(ctx context.Context, id string, pdf bool, w io.Writer) error {
	path := presentationPath(id) + "/print"
	if pdf {
		path += "?format=pdf"
	}
	return c.do(ctx, http.MethodGet, path, nil, w)
}

// VerifyAdmin checks the admin passphrase against the server.
func (c *Client) VerifyAdmin(ctx context.Context, passphrase string) error {
	return c.do(ctx, http.MethodPost, "/api/admin/verify", map[string]string{"passphrase": passphrase}, nil)
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
