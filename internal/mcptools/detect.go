package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"adaptd/internal/pattern"
)

// DetectTool handles the adapt_detect MCP tool. It runs detection and
// extraction only, without touching the model, so callers can preview what
// the engine would do with a prompt.
type DetectTool struct {
	det *pattern.Detector
}

// NewDetectTool creates a DetectTool over the given registry.
func NewDetectTool(det *pattern.Detector) *DetectTool {
	return &DetectTool{det: det}
}

// detectReport is the JSON shape returned by adapt_detect.
type detectReport struct {
	Detected  bool           `json:"detected"`
	Pattern   string         `json:"pattern,omitempty"`
	Strength  float64        `json:"strength,omitempty"`
	Examples  []exampleEntry `json:"examples,omitempty"`
	LiveQuery string         `json:"live_query,omitempty"`
	Error     string         `json:"error,omitempty"`
}

type exampleEntry struct {
	Context string `json:"context,omitempty"`
	Input   string `json:"input"`
	Output  string `json:"output"`
}

// Definition returns the MCP tool definition for adapt_detect.
func (t *DetectTool) Definition() mcp.Tool {
	return mcp.NewTool("adapt_detect",
		mcp.WithDescription(
			"Dry-run pattern detection and example extraction on a prompt. Returns the selected pattern, "+
				"its structural strength, the extracted examples, and the live query — without training or "+
				"generating anything.",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Prompt text to analyze"),
		),
	)
}

// Handle processes the adapt_detect tool call.
func (t *DetectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if text == "" {
		return mcp.NewToolResultError("'text' is required"), nil
	}

	var report detectReport
	if match, ok := t.det.Select(text); ok {
		report.Detected = true
		report.Pattern = string(match.Spec.Kind)
		report.Strength = match.Strength
		ext, err := pattern.Extract(text, match.Spec)
		if err != nil {
			report.Error = err.Error()
		} else {
			for _, ex := range ext.Examples {
				report.Examples = append(report.Examples, exampleEntry{
					Context: ex.Context,
					Input:   ex.Input,
					Output:  ex.Output,
				})
			}
			report.LiveQuery = ext.Query
		}
	}

	jb, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode report: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jb)), nil
}
