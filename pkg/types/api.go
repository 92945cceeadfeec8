package types

// GenerateRequest represents a generation request payload.
type GenerateRequest struct {
	// Required prompt text. May embed few-shot examples; when a pattern is
	// detected the engine trains a per-request adapter before generating.
	// example: Example 1: 2,4,6→8. Example 2: 1,3,5→7. Problem: 5,10,15→?
	Prompt string `json:"prompt" example:"Example 1: 2,4,6→8. Example 2: 1,3,5→7. Problem: 5,10,15→?"`
	// Caller override: skip adaptation entirely and use the base path.
	// example: false
	DisableAdaptation bool `json:"disable_adaptation,omitempty" example:"false"`
	// Maximum number of new tokens to generate.
	// example: 128
	MaxTokens int `json:"max_tokens,omitempty" example:"128"`
	// Sampling temperature (higher = more random).
	// example: 0.7
	Temperature float64 `json:"temperature,omitempty" example:"0.7"`
	// Nucleus sampling probability.
	// example: 0.9
	TopP float64 `json:"top_p,omitempty" example:"0.9"`
	// Optional stop sequences. Generation stops when any sequence is matched.
	// example: ["\n\n","END"]
	Stop []string `json:"stop,omitempty" example:"[\"\\n\\n\",\"END\"]"`
	// Random seed for reproducibility; 0 or omitted lets the server choose.
	// example: 42
	Seed int64 `json:"seed,omitempty" example:"42"`
}

// AdaptationStatus annotates a response with the outcome of the adaptation
// attempt, for optional transparency display by the caller.
type AdaptationStatus struct {
	// True when an adapter was attached for this generation.
	Enabled bool `json:"enabled"`
	// Confidence score of the trained adapter; null when training never ran.
	Confidence *float64 `json:"confidence"`
	// Fallback or rejection reason; null/empty when an adapter was attached.
	Reason Reason `json:"reason,omitempty"`
}

// GenerateResponse is the shape of the final NDJSON line of POST /generate
// (and the whole response for non-streaming callers).
type GenerateResponse struct {
	Done       bool             `json:"done"`
	Content    string           `json:"content"`
	Adaptation AdaptationStatus `json:"adaptation"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// PatternInfo describes one entry of the active pattern registry.
type PatternInfo struct {
	// Pattern kind identifier.
	// example: explicit_examples
	Kind PatternKind `json:"kind" example:"explicit_examples"`
	// Structural confidence weight used for selection among matches.
	// example: 1.0
	Weight float64 `json:"weight" example:"1.0"`
	// Minimum number of examples required before synthesis proceeds.
	// example: 2
	MinExamples int `json:"min_examples" example:"2"`
	// Maximum number of examples kept (extras are truncated in order).
	// example: 8
	MaxExamples int `json:"max_examples" example:"8"`
	// Minimum structural strength below which the pattern does not match.
	// example: 0.5
	MinStrength float64 `json:"min_strength" example:"0.5"`
}

// PatternsResponse wraps the registry returned by GET /patterns.
type PatternsResponse struct {
	Patterns []PatternInfo `json:"patterns"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Engine state (ready or error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Name of the frozen base model.
	// example: llama-3.1-8b-q4_k_m.gguf
	Model string `json:"model,omitempty" example:"llama-3.1-8b-q4_k_m.gguf"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Total generation requests served.
	// example: 120
	RequestsTotal uint64 `json:"requests_total" example:"120"`
	// Requests where an adapter was attached.
	// example: 80
	AdaptationsAccepted uint64 `json:"adaptations_accepted" example:"80"`
	// Fallbacks grouped by reason.
	Fallbacks map[string]uint64 `json:"fallbacks,omitempty"`
	// Confidence threshold currently gating adapters.
	// example: 0.7
	ConfidenceThreshold float64 `json:"confidence_threshold" example:"0.7"`
	// Convergence threshold used for early stopping.
	// example: 0.01
	ConvergenceThreshold float64 `json:"convergence_threshold" example:"0.01"`
	// Hard wall-clock budget for one adaptation attempt, in milliseconds.
	// example: 5000
	MaxWallClockMS int64 `json:"max_wall_clock_ms" example:"5000"`
}
