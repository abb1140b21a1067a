package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/slidedeck/internal/render"
	"github.com/ziadkadry99/slidedeck/internal/slides"
	"github.com/ziadkadry99/slidedeck/internal/store"
)

func (s *Server) handleListPresentations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing presentations failed: %v", err)), nil
	}
	if len(list) == 0 {
		return mcp.NewToolResultText("No presentations found. Run `slidedeck import` to add one."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d presentation(s):\n", len(list))
	for _, p := range list {
		fmt.Fprintf(&sb, "\n- %s: %s (%d slides)", p.ID, p.Title, len(p.Slides))
		if p.Description != nil && *p.Description != "" {
			fmt.Fprintf(&sb, "\n  %s", *p.Description)
		}
	}
	sb.WriteString("\n")
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleGetSlideText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, errResult := s.presentation(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	slide, errResult := slideAt(p, request)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(slides.ExportToText(slide)), nil
}

func (s *Server) handleGetPresentationMarkdown(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, errResult := s.presentation(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", p.Title)
	for i, slide := range p.Slides {
		fmt.Fprintf(&sb, "\n---\n\n<!-- slide %d: %s -->\n\n", i, slide.Kind.Label())
		sb.WriteString(render.Markdown(s.renderer.Render(slide, render.ModeView)))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleEditSlideField(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}
	value, err := request.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: value"), nil
	}

	p, errResult := s.presentation(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	slide, errResult := slideAt(p, request)
	if errResult != nil {
		return errResult, nil
	}

	edited, err := render.ApplyEdit(slide, path, value)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("edit failed: %v", err)), nil
	}

	list := slides.CloneSlides(p.Slides)
	list[request.GetInt("index", 0)] = edited
	if errResult := s.saveSlides(ctx, p.ID, list); errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Updated %s of slide %s.", path, edited.ID)), nil
}

func (s *Server) handleAddSlide(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kindName, err := request.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: type"), nil
	}
	kind, err := slides.ParseKind(kindName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	p, errResult := s.presentation(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	added := slides.CreateEmpty(kind, p.Slides...)
	list := slides.NormalizeOrder(append(slides.CloneSlides(p.Slides), added))
	if errResult := s.saveSlides(ctx, p.ID, list); errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Added %s slide %s at position %d.", kind, added.ID, len(list)-1)), nil
}

// presentation loads the presentation named by the presentation_id
// argument. A non-nil result is the tool error to return.
func (s *Server) presentation(ctx context.Context, request mcp.CallToolRequest) (*slides.Presentation, *mcp.CallToolResult) {
	id, err := request.RequireString("presentation_id")
	if err != nil {
		return nil, mcp.NewToolResultError("missing required parameter: presentation_id")
	}
	p, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, mcp.NewToolResultError(fmt.Sprintf("No presentation found with id %q.", id))
	}
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("loading presentation failed: %v", err))
	}
	return p, nil
}

// saveSlides persists list. A non-nil result is the tool error to return;
// rejected slides are reported field by field.
func (s *Server) saveSlides(ctx context.Context, id string, list []slides.Slide) *mcp.CallToolResult {
	_, err := s.store.UpdateSlides(ctx, id, list)
	var verr *slides.ValidationError
	switch {
	case errors.As(err, &verr):
		var sb strings.Builder
		sb.WriteString("The change was rejected:\n")
		for _, fe := range verr.Errors {
			fmt.Fprintf(&sb, "- %s: %s\n", fe.Field, fe.Message)
		}
		return mcp.NewToolResultError(sb.String())
	case err != nil:
		return mcp.NewToolResultError(fmt.Sprintf("saving presentation failed: %v", err))
	}
	return nil
}

func slideAt(p *slides.Presentation, request mcp.CallToolRequest) (slides.Slide, *mcp.CallToolResult) {
	index, err := request.RequireInt("index")
	if err != nil {
		return slides.Slide{}, mcp.NewToolResultError("missing required parameter: index")
	}
	if index < 0 || index >= len(p.Slides) {
		return slides.Slide{}, mcp.NewToolResultError(fmt.Sprintf("slide %d out of range (presentation has %d slides)", index, len(p.Slides)))
	}
	return p.Slides[index], nil
}
