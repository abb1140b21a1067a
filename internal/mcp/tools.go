package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/slidedeck/internal/slides"
)

var listPresentationsTool = mcp.NewTool("list_presentations",
	mcp.WithDescription("List stored presentations with their ids, titles and slide counts."),
)

var getSlideTextTool = mcp.NewTool("get_slide_text",
	mcp.WithDescription("Get a plain text rendition of a single slide."),
	mcp.WithString("presentation_id",
		mcp.Required(),
		mcp.Description("Presentation id"),
	),
	mcp.WithNumber("index",
		mcp.Required(),
		mcp.Description("Zero-based slide position"),
	),
)

var getPresentationMarkdownTool = mcp.NewTool("get_presentation_markdown",
	mcp.WithDescription("Get the whole presentation rendered as Markdown, one section per slide."),
	mcp.WithString("presentation_id",
		mcp.Required(),
		mcp.Description("Presentation id"),
	),
)

var editSlideFieldTool = mcp.NewTool("edit_slide_field",
	mcp.WithDescription("Replace a text field of a slide and save the presentation. "+
		"Paths are \"title\", \"subtitle\", \"<section>.<field>\" or \"<list>.<index>.<field>\"."),
	mcp.WithString("presentation_id",
		mcp.Required(),
		mcp.Description("Presentation id"),
	),
	mcp.WithNumber("index",
		mcp.Required(),
		mcp.Description("Zero-based slide position"),
	),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Field path inside the slide"),
	),
	mcp.WithString("value",
		mcp.Required(),
		mcp.Description("New text value"),
	),
)

var addSlideTool = mcp.NewTool("add_slide",
	mcp.WithDescription("Append an empty slide of the given type to a presentation."),
	mcp.WithString("presentation_id",
		mcp.Required(),
		mcp.Description("Presentation id"),
	),
	mcp.WithString("type",
		mcp.Required(),
		mcp.Description("Slide type"),
		mcp.Enum(kindNames()...),
	),
)

func kindNames() []string {
	names := make([]string, len(slides.Kinds))
	for i, k := range slides.Kinds {
		names[i] = string(k)
	}
	return names
}
