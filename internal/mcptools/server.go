package mcptools

import (
	"github.com/mark3labs/mcp-go/server"

	"adaptd/internal/engine"
	"adaptd/internal/pattern"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewServer wires the adaptation tools into an MCP server instance.
func NewServer(eng *engine.Engine, det *pattern.Detector) *server.MCPServer {
	s := server.NewMCPServer(
		"adaptd",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	genTool := NewGenerateTool(eng)
	s.AddTool(genTool.Definition(), genTool.Handle)

	detectTool := NewDetectTool(det)
	s.AddTool(detectTool.Definition(), detectTool.Handle)

	patternsTool := NewPatternsTool(eng)
	s.AddTool(patternsTool.Definition(), patternsTool.Handle)

	return s
}

// ServeStdio runs the MCP server over stdio until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
