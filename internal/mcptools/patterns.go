package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"adaptd/internal/engine"
	"adaptd/pkg/types"
)

// PatternsTool handles the adapt_patterns MCP tool.
type PatternsTool struct {
	eng *engine.Engine
}

// NewPatternsTool creates a PatternsTool bound to the engine.
func NewPatternsTool(eng *engine.Engine) *PatternsTool {
	return &PatternsTool{eng: eng}
}

// Definition returns the MCP tool definition for adapt_patterns.
func (t *PatternsTool) Definition() mcp.Tool {
	return mcp.NewTool("adapt_patterns",
		mcp.WithDescription(
			"List the active pattern registry: each detectable few-shot pattern kind with its selection "+
				"weight, example count range, and minimum structural strength.",
		),
	)
}

// Handle processes the adapt_patterns tool call.
func (t *PatternsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jb, err := json.MarshalIndent(types.PatternsResponse{Patterns: t.eng.Patterns()}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode registry: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jb)), nil
}
