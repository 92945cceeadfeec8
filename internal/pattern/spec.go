// Package pattern implements structural few-shot pattern detection and
// example extraction over raw query text. Detection is purely lexical:
// delimiter and numbering heuristics, analogy connectives, explicit
// "Example k:" markers. No model call is ever made here.
package pattern

import "adaptd/pkg/types"

// Spec describes one pattern kind in the registry: its selection weight,
// the admissible example count range, and the minimum structural strength
// below which the kind does not count as a match (false positive control).
type Spec struct {
	Kind        types.PatternKind
	Weight      float64
	MinExamples int
	MaxExamples int
	MinStrength float64
}

// DefaultSpecs returns the built-in registry in priority order. The order
// doubles as the deterministic tie-break when weights are equal:
// ExplicitExamples > InputOutputPairs > NumberedSequence > Analogy > RuleChain.
func DefaultSpecs() []Spec {
	return []Spec{
		{Kind: types.PatternExplicitExamples, Weight: 1.0, MinExamples: 2, MaxExamples: 8, MinStrength: 0.5},
		{Kind: types.PatternInputOutputPairs, Weight: 0.9, MinExamples: 2, MaxExamples: 8, MinStrength: 0.5},
		{Kind: types.PatternNumberedSequence, Weight: 0.8, MinExamples: 2, MaxExamples: 10, MinStrength: 0.5},
		{Kind: types.PatternAnalogy, Weight: 0.7, MinExamples: 2, MaxExamples: 6, MinStrength: 0.5},
		{Kind: types.PatternRuleChain, Weight: 0.6, MinExamples: 2, MaxExamples: 8, MinStrength: 0.6},
	}
}

// Info converts a Spec to its API representation.
func (s Spec) Info() types.PatternInfo {
	return types.PatternInfo{
		Kind:        s.Kind,
		Weight:      s.Weight,
		MinExamples: s.MinExamples,
		MaxExamples: s.MaxExamples,
		MinStrength: s.MinStrength,
	}
}
