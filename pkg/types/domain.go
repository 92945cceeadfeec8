package types

// PatternKind identifies one of the closed set of few-shot pattern shapes
// the detector can recognize in a raw query.
type PatternKind string

const (
	PatternExplicitExamples PatternKind = "explicit_examples"
	PatternInputOutputPairs PatternKind = "input_output_pairs"
	PatternNumberedSequence PatternKind = "numbered_sequence"
	PatternAnalogy          PatternKind = "analogy"
	PatternRuleChain        PatternKind = "rule_chain"
)

// Example is one (context, input, output) record parsed from a query.
// Examples are immutable once created and keep their document order.
type Example struct {
	Context string `json:"context,omitempty"`
	Input   string `json:"input"`
	Output  string `json:"output"`
}

// TrainingInstance is one synthesized supervised pair: the prompt holds the
// serialized sibling examples plus the held-out input, the target is the
// held-out output.
type TrainingInstance struct {
	Prompt string `json:"prompt"`
	Target string `json:"target"`
}

// Reason explains why an adaptation attempt did not produce an attached
// adapter. Empty on the accepted path.
type Reason string

const (
	ReasonPatternNotDetected   Reason = "pattern_not_detected"
	ReasonInsufficientExamples Reason = "insufficient_examples"
	ReasonExtractionError      Reason = "extraction_error"
	ReasonTimeout              Reason = "timeout"
	ReasonMemoryLimitExceeded  Reason = "memory_limit_exceeded"
	ReasonLowConfidence        Reason = "low_confidence"
	ReasonTrainingFailed       Reason = "training_failed"
	ReasonDisabled             Reason = "disabled"
)

// AdaptationRecord is the per-request observability record handed to the
// metrics sinks. Emission is fire-and-forget; sinks must never block.
type AdaptationRecord struct {
	// Pattern kind that was selected, empty when none matched.
	Pattern string `json:"pattern,omitempty"`
	// Number of examples extracted from the query.
	Examples int `json:"examples"`
	// Number of training steps that ran.
	Steps int `json:"steps"`
	// Wall-clock time spent on the adaptation attempt, in milliseconds.
	ElapsedMS int64 `json:"elapsed_ms"`
	// Confidence score of the trained adapter (0 when training never ran).
	Confidence float64 `json:"confidence"`
	// Convergence score derived from the final loss.
	Convergence float64 `json:"convergence"`
	// Whether the adapter was attached for generation.
	Accepted bool `json:"accepted"`
	// Rejection or fallback reason; empty when accepted.
	Reason string `json:"reason,omitempty"`
}
