// Package render maps slides to a normalized render tree and routes
// in-place edits back into slide content.
package render

import "html/template"

// Mode is the renderer mode of the visible slide.
type Mode int

const (
	ModeView Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "view"
}

// NodeType identifies the kind of render tree node.
type NodeType string

const (
	NodeSlide       NodeType = "slide"
	NodeTitle       NodeType = "title"
	NodeSubtitle    NodeType = "subtitle"
	NodeSection     NodeType = "section"
	NodeHeading     NodeType = "heading"
	NodeGroup       NodeType = "group"
	NodeList        NodeType = "list"
	NodeItem        NodeType = "item"
	NodeText        NodeType = "text"
	NodeImage       NodeType = "image"
	NodePhotoInput  NodeType = "photo-input"
	NodeChart       NodeType = "chart"
	NodePlaceholder NodeType = "placeholder"
)

// Node is one element of the render tree. Editable text nodes carry the
// field path that an edit of their text must be routed to.
type Node struct {
	Type     NodeType      `json:"type"`
	Role     string        `json:"role,omitempty"`
	Text     string        `json:"text,omitempty"`
	Path     string        `json:"path,omitempty"`
	Editable bool          `json:"editable,omitempty"`
	Src      string        `json:"src,omitempty"`
	Raw      template.HTML `json:"raw,omitempty"`
	Children []Node        `json:"children,omitempty"`
}

// Walk calls fn for n and every descendant in depth-first order.
func (n Node) Walk(fn func(Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// EditablePaths returns the field paths of all editable nodes under n.
func (n Node) EditablePaths() []string {
	var paths []string
	n.Walk(func(c Node) {
		if c.Editable && c.Path != "" {
			paths = append(paths, c.Path)
		}
	})
	return paths
}
