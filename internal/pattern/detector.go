package pattern

import (
	"regexp"
	"strings"

	"adaptd/pkg/types"
)

var (
	reExplicitMarker = regexp.MustCompile(`(?i)\bexample\s*\d+\s*[:.]`)
	reInputMarker    = regexp.MustCompile(`(?i)\binput\s*:`)
	reOutputMarker   = regexp.MustCompile(`(?i)\boutput\s*:`)
	reNumberedItem   = regexp.MustCompile(`(?m)^\s*\d+\s*[.)]\s*\S`)
	reIsTo           = regexp.MustCompile(`(?i)\bis\s+to\b`)
	reRuleClause     = regexp.MustCompile(`(?i)\bif\b[^.;\n]{1,160}?\bthen\b`)
)

// Match pairs a registry entry with the structural strength measured on a
// concrete query.
type Match struct {
	Spec     Spec
	Strength float64
}

// Detector classifies raw query text against the pattern registry. It is
// stateless apart from the immutable registry and safe for concurrent use.
type Detector struct {
	specs []Spec
}

// NewDetector builds a detector over the given registry. An empty registry
// falls back to DefaultSpecs.
func NewDetector(specs []Spec) *Detector {
	if len(specs) == 0 {
		specs = DefaultSpecs()
	}
	out := make([]Spec, len(specs))
	copy(out, specs)
	return &Detector{specs: out}
}

// Specs returns a copy of the active registry in priority order.
func (d *Detector) Specs() []Spec {
	out := make([]Spec, len(d.specs))
	copy(out, d.specs)
	return out
}

// Detect returns every pattern whose structural strength meets its minimum,
// in registry priority order. A pure function of the input text.
func (d *Detector) Detect(text string) []Match {
	var matches []Match
	for _, s := range d.specs {
		str := strengthFor(s.Kind, text)
		if str >= s.MinStrength && str > 0 {
			matches = append(matches, Match{Spec: s, Strength: str})
		}
	}
	return matches
}

// Select applies the selection policy: the match with the highest weight
// wins; weight ties resolve to the earlier registry entry. Returns false
// when nothing matched.
func (d *Detector) Select(text string) (Match, bool) {
	matches := d.Detect(text)
	if len(matches) == 0 {
		return Match{}, false
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if m.Spec.Weight > best.Spec.Weight {
			best = m
		}
	}
	return best, true
}

// strengthFor measures how strongly the text exhibits the structural
// markers of one pattern kind, in [0,1]. The scales are chosen so that a
// single unambiguous marker clears the default thresholds (letting the
// extractor reject on example count instead) while weak incidental text
// does not.
func strengthFor(kind types.PatternKind, text string) float64 {
	switch kind {
	case types.PatternExplicitExamples:
		n := len(reExplicitMarker.FindAllStringIndex(text, -1))
		if n == 0 {
			return 0
		}
		return capped(0.4 + 0.2*float64(n))
	case types.PatternInputOutputPairs:
		in := len(reInputMarker.FindAllStringIndex(text, -1))
		out := len(reOutputMarker.FindAllStringIndex(text, -1))
		if in == 0 || out == 0 {
			return 0
		}
		m := in
		if out < m {
			m = out
		}
		return capped(0.4 + 0.2*float64(m))
	case types.PatternNumberedSequence:
		n := len(reNumberedItem.FindAllStringIndex(text, -1))
		if n < 2 {
			return 0
		}
		return capped(0.25 * float64(n))
	case types.PatternAnalogy:
		units := len(reIsTo.FindAllStringIndex(text, -1)) + 2*strings.Count(text, "::")
		if units < 2 {
			return 0
		}
		return capped(0.25 * float64(units))
	case types.PatternRuleChain:
		n := len(reRuleClause.FindAllStringIndex(text, -1))
		if n == 0 {
			return 0
		}
		return capped(0.3 * float64(n))
	}
	return 0
}

func capped(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
