package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"adaptd/internal/engine"
	"adaptd/pkg/types"
)

// GenerateTool handles the adapt_generate MCP tool.
type GenerateTool struct {
	eng *engine.Engine
}

// NewGenerateTool creates a GenerateTool bound to the engine.
func NewGenerateTool(eng *engine.Engine) *GenerateTool {
	return &GenerateTool{eng: eng}
}

// Definition returns the MCP tool definition for adapt_generate.
func (t *GenerateTool) Definition() mcp.Tool {
	return mcp.NewTool("adapt_generate",
		mcp.WithDescription(
			"Generate a completion with inference-time task adaptation. When the prompt embeds few-shot "+
				"examples, a temporary low-rank adapter is trained on them before generation; otherwise the "+
				"frozen base model answers directly. The response reports whether an adapter was attached.",
		),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("Prompt text, optionally embedding few-shot examples (e.g. 'Example 1: ... Problem: ...')"),
		),
		mcp.WithBoolean("disable_adaptation",
			mcp.Description("Skip adaptation entirely and use the base model path (default false)"),
		),
		mcp.WithNumber("max_tokens",
			mcp.Description("Maximum number of new tokens to generate"),
		),
		mcp.WithNumber("temperature",
			mcp.Description("Sampling temperature"),
		),
		mcp.WithNumber("top_p",
			mcp.Description("Nucleus sampling probability"),
		),
		mcp.WithNumber("seed",
			mcp.Description("Random seed for reproducibility"),
		),
	)
}

// Handle processes the adapt_generate tool call.
func (t *GenerateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt := req.GetString("prompt", "")
	if prompt == "" {
		return mcp.NewToolResultError("'prompt' is required"), nil
	}

	greq := types.GenerateRequest{
		Prompt:            prompt,
		DisableAdaptation: boolArg(req, "disable_adaptation", false),
		MaxTokens:         intArg(req, "max_tokens", 0),
		Temperature:       floatArg(req, "temperature", 0),
		TopP:              floatArg(req, "top_p", 0),
		Seed:              int64(intArg(req, "seed", 0)),
	}
	content, st, err := t.eng.GenerateText(ctx, greq)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generation failed: %v", err)), nil
	}

	jb, err := json.MarshalIndent(types.GenerateResponse{Done: true, Content: content, Adaptation: st}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jb)), nil
}
