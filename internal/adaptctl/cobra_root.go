// Package adaptctl implements the developer CLI: offline inspection of the
// adaptation pipeline (detect, extract, synth), dry runs against the
// deterministic stub model, and an MCP stdio server.
package adaptctl

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Execute runs the adaptctl command tree.
func Execute() error {
	return buildRootCmd().Execute()
}

// buildRootCmd constructs a Cobra command tree wired to the fn* actions.
func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "adaptctl",
		Short:         "Inspect and exercise the inference-time adaptation pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	detectCmd := &cobra.Command{
		Use:     "detect <text>",
		Short:   "Run pattern detection on a prompt",
		Example: "  adaptctl detect 'Example 1: 2,4,6→8. Example 2: 1,3,5→7. Problem: 5,10,15→?'",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnDetect(joined(args))
		},
	}

	extractCmd := &cobra.Command{
		Use:     "extract <text>",
		Short:   "Detect a pattern and extract its examples and live query",
		Example: "  adaptctl extract 'Input: cat → Output: chat. Input: dog → Output: chien. Input: bird → Output: ?'",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnExtract(joined(args))
		},
	}

	synthCmd := &cobra.Command{
		Use:     "synth <text>",
		Short:   "Show the leave-one-out training set synthesized from a prompt",
		Example: "  adaptctl synth 'Example 1: 2,4,6→8. Example 2: 1,3,5→7. Problem: 5,10,15→?'",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnSynth(joined(args))
		},
	}

	runCmd := &cobra.Command{
		Use:     "run <text>",
		Short:   "Run the full pipeline against the deterministic stub model",
		Example: "  adaptctl run 'Example 1: 2,4,6→8. Example 2: 1,3,5→7. Problem: 5,10,15→?'",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			disable, _ := cmd.Flags().GetBool("disable-adaptation")
			return fnRun(joined(args), disable)
		},
	}
	runCmd.Flags().Bool("disable-adaptation", false, "Skip adaptation and use the base path")

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the adaptation tools over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			modelPath, _ := cmd.Flags().GetString("model-path")
			return fnServeMCP(modelPath)
		},
	}
	mcpCmd.Flags().String("model-path", os.Getenv("ADAPTD_MODEL_PATH"), "Path to a *.gguf base model (empty = deterministic stub)")

	root.AddCommand(detectCmd, extractCmd, synthCmd, runCmd, mcpCmd)

	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(os.Stdout) }})
	root.AddCommand(completionCmd)

	return root
}

func joined(args []string) string {
	return strings.Join(args, " ")
}
