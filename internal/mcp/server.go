// Package mcp exposes presentations to AI agents over the Model Context
// Protocol.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/slidedeck/internal/render"
	"github.com/ziadkadry99/slidedeck/internal/store"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server backed by a presentation store.
type Server struct {
	store    store.Store
	renderer *render.Renderer
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server reading and writing through s.
func NewServer(s store.Store) *Server {
	srv := &Server{
		store:    s,
		renderer: render.New(nil),
	}

	srv.mcp = server.NewMCPServer(
		"slidedeck",
		Version,
		server.WithToolCapabilities(false),
	)

	srv.registerTools()

	return srv
}

func (s *Server) registerTools() {
	s.mcp.AddTool(listPresentationsTool, s.handleListPresentations)
	s.mcp.AddTool(getSlideTextTool, s.handleGetSlideText)
	s.mcp.AddTool(getPresentationMarkdownTool, s.handleGetPresentationMarkdown)
	s.mcp.AddTool(editSlideFieldTool, s.handleEditSlideField)
	s.mcp.AddTool(addSlideTool, s.handleAddSlide)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
