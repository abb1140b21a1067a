package render

import (
	"fmt"

	"github.com/ziadkadry99/slidedeck/internal/slides"
)

// Context is passed to kind handlers.
type Context struct {
	Mode  Mode
	Chart Chart
}

// Handler renders the body of one slide kind.
type Handler func(c *Context, s slides.Slide) []Node

// Renderer dispatches slides to the handler registered for their kind.
type Renderer struct {
	handlers map[slides.Kind]Handler
	chart    Chart
}

// New returns a Renderer with handlers for every known kind. A nil chart
// uses the default SVG bar chart.
func New(chart Chart) *Renderer {
	if chart == nil {
		chart = NewSVGChart(DefaultUnit)
	}
	r := &Renderer{
		handlers: make(map[slides.Kind]Handler),
		chart:    chart,
	}
	for kind, keys := range sectionOrder {
		r.Register(kind, sectionHandler(keys))
	}
	return r
}

// Register sets the handler for kind, replacing any previous one.
func (r *Renderer) Register(kind slides.Kind, h Handler) {
	r.handlers[kind] = h
}

// Render builds the render tree of s in the given mode. Unknown kinds
// render a placeholder instead of failing.
func (r *Renderer) Render(s slides.Slide, mode Mode) Node {
	c := &Context{Mode: mode, Chart: r.chart}
	root := Node{Type: NodeSlide, Role: string(s.Kind)}
	root.Children = append(root.Children, textNode(NodeTitle, "title", s.Title, "title", mode == ModeEdit))
	if s.Subtitle != "" || mode == ModeEdit {
		root.Children = append(root.Children, textNode(NodeSubtitle, "subtitle", s.Subtitle, "subtitle", mode == ModeEdit))
	}

	h, ok := r.handlers[s.Kind]
	if !ok {
		root.Children = append(root.Children, Node{
			Type: NodePlaceholder,
			Text: fmt.Sprintf("Tipo de slide não reconhecido: %s", s.Kind),
		})
		return root
	}
	root.Children = append(root.Children, h(c, s)...)
	return root
}

func textNode(t NodeType, role, text, path string, editable bool) Node {
	n := Node{Type: t, Role: role, Text: text}
	if editable {
		n.Path = path
		n.Editable = true
	}
	return n
}
