package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/slidedeck/internal/slides"
	"github.com/ziadkadry99/slidedeck/internal/store"
)

func setupTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	s := store.NewMemoryStore()
	if _, err := store.Seed(context.Background(), s); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewServer(s), s
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"list_presentations", listPresentationsTool, "list_presentations"},
		{"get_slide_text", getSlideTextTool, "get_slide_text"},
		{"get_presentation_markdown", getPresentationMarkdownTool, "get_presentation_markdown"},
		{"edit_slide_field", editSlideFieldTool, "edit_slide_field"},
		{"add_slide", addSlideTool, "add_slide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv, s := setupTestServer(t)
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.store != s {
		t.Error("store not set correctly")
	}
}

func TestHandleListPresentations(t *testing.T) {
	srv, _ := setupTestServer(t)
	ctx := context.Background()

	result, err := srv.handleListPresentations(ctx, mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	text := resultText(t, result)
	if !strings.Contains(text, store.DefaultID) || !strings.Contains(text, "(11 slides)") {
		t.Errorf("unexpected listing:\n%s", text)
	}

	t.Run("empty store", func(t *testing.T) {
		empty := NewServer(store.NewMemoryStore())
		result, err := empty.handleListPresentations(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Error("empty store should not be a tool error")
		}
		if !strings.Contains(resultText(t, result), "No presentations found") {
			t.Error("expected empty store hint")
		}
	})
}

func TestHandleGetSlideText(t *testing.T) {
	srv, s := setupTestServer(t)
	ctx := context.Background()
	p, _ := s.Get(ctx, store.DefaultID)

	tests := []struct {
		name    string
		args    map[string]any
		wantErr bool
	}{
		{"first slide", map[string]any{"presentation_id": store.DefaultID, "index": 0}, false},
		{"float index", map[string]any{"presentation_id": store.DefaultID, "index": float64(2)}, false},
		{"missing id", map[string]any{"index": 0}, true},
		{"missing index", map[string]any{"presentation_id": store.DefaultID}, true},
		{"unknown presentation", map[string]any{"presentation_id": "nope", "index": 0}, true},
		{"out of range", map[string]any{"presentation_id": store.DefaultID, "index": 11}, true},
		{"negative", map[string]any{"presentation_id": store.DefaultID, "index": -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := mcp.CallToolRequest{}
			req.Params.Arguments = tt.args

			result, err := srv.handleGetSlideText(ctx, req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.IsError != tt.wantErr {
				t.Fatalf("IsError = %v, want %v: %v", result.IsError, tt.wantErr, result.Content)
			}
		})
	}

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"presentation_id": store.DefaultID, "index": 0}
	result, _ := srv.handleGetSlideText(ctx, req)
	if want := slides.ExportToText(p.Slides[0]); resultText(t, result) != want {
		t.Errorf("got %q, want %q", resultText(t, result), want)
	}
}

func TestHandleGetPresentationMarkdown(t *testing.T) {
	srv, s := setupTestServer(t)
	ctx := context.Background()
	p, _ := s.Get(ctx, store.DefaultID)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"presentation_id": store.DefaultID}
	result, err := srv.handleGetPresentationMarkdown(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}

	text := resultText(t, result)
	if !strings.HasPrefix(text, "# "+p.Title) {
		t.Errorf("expected presentation title heading, got %q", text[:40])
	}
	if got := strings.Count(text, "<!-- slide "); got != len(p.Slides) {
		t.Errorf("expected %d slide markers, got %d", len(p.Slides), got)
	}
}

func TestHandleEditSlideField(t *testing.T) {
	srv, s := setupTestServer(t)
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{
		"presentation_id": store.DefaultID,
		"index":           1,
		"path":            "title",
		"value":           "Novo Título",
	}
	result, err := srv.handleEditSlideField(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}

	p, _ := s.Get(ctx, store.DefaultID)
	if p.Slides[1].Title != "Novo Título" {
		t.Errorf("title not saved, got %q", p.Slides[1].Title)
	}
	if p.Slides[0].Title == "Novo Título" {
		t.Error("edit leaked into another slide")
	}

	t.Run("invalid path", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"presentation_id": store.DefaultID,
			"index":           1,
			"path":            "a..b",
			"value":           "x",
		}
		result, err := srv.handleEditSlideField(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for invalid path")
		}
	})

	t.Run("rejected values are not saved", func(t *testing.T) {
		tests := []struct {
			name  string
			index int
			path  string
			value string
			field string
		}{
			{"empty title", 1, "title", "", "slides.1.title"},
			{"non-numeric chart values", 3, "chartData.values", "oops", "slides.3.content.chartData.values"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := mcp.CallToolRequest{}
				req.Params.Arguments = map[string]any{
					"presentation_id": store.DefaultID,
					"index":           tt.index,
					"path":            tt.path,
					"value":           tt.value,
				}
				result, err := srv.handleEditSlideField(ctx, req)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !result.IsError {
					t.Fatal("expected tool error")
				}
				if text := resultText(t, result); !strings.Contains(text, tt.field) {
					t.Errorf("expected %s in %q", tt.field, text)
				}
			})
		}

		p, _ := s.Get(ctx, store.DefaultID)
		if err := slides.ValidateSlides(p.Slides); err != nil {
			t.Errorf("stored deck no longer valid: %v", err)
		}
	})

	t.Run("missing value", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"presentation_id": store.DefaultID,
			"index":           1,
			"path":            "title",
		}
		result, _ := srv.handleEditSlideField(ctx, req)
		if !result.IsError {
			t.Error("expected error for missing value")
		}
	})
}

func TestHandleAddSlide(t *testing.T) {
	srv, s := setupTestServer(t)
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"presentation_id": store.DefaultID, "type": "chart"}
	result, err := srv.handleAddSlide(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}

	p, _ := s.Get(ctx, store.DefaultID)
	if len(p.Slides) != 12 {
		t.Fatalf("expected 12 slides, got %d", len(p.Slides))
	}
	last := p.Slides[11]
	if last.Kind != slides.KindChart || last.Order != 12 {
		t.Errorf("unexpected appended slide %+v", last)
	}

	req.Params.Arguments = map[string]any{"presentation_id": store.DefaultID, "type": "video"}
	result, _ = srv.handleAddSlide(ctx, req)
	if !result.IsError {
		t.Error("expected error for unknown slide type")
	}
}
