package pattern

import (
	"regexp"
	"strings"

	"adaptd/pkg/types"
)

var (
	reQueryMarker  = regexp.MustCompile(`(?i)\b(?:problem|solve|query|task|now)\s*:`)
	reNumberedLine = regexp.MustCompile(`(?m)^\s*\d+\s*[.)]\s*(.+)$`)
	reAnalogyFull  = regexp.MustCompile(`(?i)^(.+?)\s+is\s+to\s+(.+?)\s+as\s+(.+?)\s+is\s+to\s*(.*)$`)
	reRuleFull     = regexp.MustCompile(`(?i)\bif\s+([^.;\n]+?)\s*,?\s*then\s+([^.;\n]*)`)
)

// pairSeparators are tried right-to-left when splitting an example segment
// into input and output. Order matters: multi-rune arrows before "=".
var pairSeparators = []string{"→", "=>", "->", "="}

// Extraction is the result of parsing a query against one pattern: the
// ordered training examples and the trailing live query fragment, which is
// never included among the examples.
type Extraction struct {
	Examples []types.Example
	Query    string
}

// Extract parses query text according to the selected pattern spec.
// It fails with an ErrTooFew error when fewer than spec.MinExamples usable
// examples parse, and silently truncates to spec.MaxExamples (keeping the
// first examples in document order) when more are present.
func Extract(text string, spec Spec) (Extraction, error) {
	body, query := splitLiveQuery(text)

	var examples []types.Example
	var err error
	switch spec.Kind {
	case types.PatternExplicitExamples:
		examples, query, err = extractExplicit(body, query)
	case types.PatternInputOutputPairs:
		examples, query, err = extractPairs(body, query)
	case types.PatternNumberedSequence:
		examples, query, err = extractNumbered(body, query)
	case types.PatternAnalogy:
		examples, query, err = extractAnalogies(body, query)
	case types.PatternRuleChain:
		examples, query, err = extractRules(body, query)
	default:
		return Extraction{}, ErrMalformed(spec.Kind, "unknown pattern kind")
	}
	if err != nil {
		return Extraction{}, err
	}
	if len(examples) > spec.MaxExamples {
		examples = examples[:spec.MaxExamples]
	}
	if len(examples) < spec.MinExamples {
		return Extraction{}, ErrTooFew(spec.Kind, len(examples), spec.MinExamples)
	}
	return Extraction{Examples: examples, Query: query}, nil
}

// splitLiveQuery separates the trailing "Problem:"/"Solve:" fragment from
// the example body. When no marker is present the per-kind parsers fall
// back to treating a trailing unpaired item as the live query.
func splitLiveQuery(text string) (body, query string) {
	locs := reQueryMarker.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text, ""
	}
	last := locs[len(locs)-1]
	return text[:last[0]], strings.TrimSpace(text[last[1]:])
}

// splitPair splits an example segment on its right-most separator.
// ok is false when no separator occurs.
func splitPair(s string) (in, out string, ok bool) {
	bestIdx, bestLen := -1, 0
	for _, sep := range pairSeparators {
		if idx := strings.LastIndex(s, sep); idx > bestIdx {
			bestIdx, bestLen = idx, len(sep)
		}
	}
	if bestIdx < 0 {
		return "", "", false
	}
	in = trimSegment(s[:bestIdx])
	out = trimSegment(s[bestIdx+bestLen:])
	return in, out, true
}

// trimSegment trims whitespace and trailing sentence punctuation, keeping
// "?" intact since it marks an intentionally incomplete item.
func trimSegment(s string) string {
	return strings.Trim(s, " \t\r\n.,;")
}

// incomplete reports whether a parsed output marks an unsolved item.
func incomplete(out string) bool {
	out = strings.TrimSpace(out)
	return out == "" || out == "?" || strings.EqualFold(out, "what")
}

func extractExplicit(body, query string) ([]types.Example, string, error) {
	locs := reExplicitMarker.FindAllStringIndex(body, -1)
	if len(locs) == 0 {
		return nil, query, ErrMalformed(types.PatternExplicitExamples, "no example markers in body")
	}
	var examples []types.Example
	for i, loc := range locs {
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		seg := strings.TrimSpace(body[loc[1]:end])
		in, out, ok := splitPair(seg)
		if !ok || in == "" {
			continue
		}
		if incomplete(out) {
			// A trailing unsolved example is the live query when no
			// explicit Problem: marker supplied one.
			if i == len(locs)-1 && query == "" {
				query = trimSegment(seg)
			}
			continue
		}
		examples = append(examples, types.Example{Input: in, Output: out})
	}
	return examples, query, nil
}

func extractPairs(body, query string) ([]types.Example, string, error) {
	locs := reInputMarker.FindAllStringIndex(body, -1)
	if len(locs) == 0 {
		return nil, query, ErrMalformed(types.PatternInputOutputPairs, "no input markers in body")
	}
	var examples []types.Example
	for i, loc := range locs {
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		seg := body[loc[1]:end]
		outLoc := reOutputMarker.FindStringIndex(seg)
		if outLoc == nil {
			if i == len(locs)-1 && query == "" {
				query = trimSegment(seg)
			}
			continue
		}
		in := trimInput(seg[:outLoc[0]])
		out := trimSegment(seg[outLoc[1]:])
		if in == "" {
			continue
		}
		if incomplete(out) {
			if i == len(locs)-1 && query == "" {
				query = in
			}
			continue
		}
		examples = append(examples, types.Example{Input: in, Output: out})
	}
	return examples, query, nil
}

// trimInput strips whitespace plus any dangling arrow left between the
// input text and the Output: marker (e.g. "x → Output:").
func trimInput(s string) string {
	s = trimSegment(s)
	for _, sep := range pairSeparators {
		s = strings.TrimSuffix(s, sep)
		s = strings.TrimRight(s, " \t")
	}
	return trimSegment(s)
}

func extractNumbered(body, query string) ([]types.Example, string, error) {
	items := reNumberedLine.FindAllStringSubmatch(body, -1)
	if len(items) == 0 {
		return nil, query, ErrMalformed(types.PatternNumberedSequence, "no numbered items in body")
	}
	var examples []types.Example
	for i, item := range items {
		seg := strings.TrimSpace(item[1])
		in, out, ok := splitPair(seg)
		if !ok || in == "" || incomplete(out) {
			if i == len(items)-1 && query == "" {
				query = trimSegment(seg)
			}
			continue
		}
		examples = append(examples, types.Example{Input: in, Output: out})
	}
	return examples, query, nil
}

func extractAnalogies(body, query string) ([]types.Example, string, error) {
	clauses := splitClauses(body)
	var examples []types.Example
	for i, clause := range clauses {
		in, out, ok := parseAnalogy(clause)
		if !ok {
			continue
		}
		if incomplete(out) {
			if i == len(clauses)-1 && query == "" {
				query = trimSegment(clause)
			}
			continue
		}
		examples = append(examples, types.Example{Input: in, Output: out})
	}
	if len(examples) == 0 && query == "" {
		return nil, query, ErrMalformed(types.PatternAnalogy, "no analogy clauses parsed")
	}
	return examples, query, nil
}

// parseAnalogy handles both the "A is to B as C is to D" form and the
// compact "A : B :: C : D" form. The input keeps everything up to the
// final term so the completion task mirrors the original phrasing.
func parseAnalogy(clause string) (in, out string, ok bool) {
	clause = strings.TrimSpace(clause)
	if m := reAnalogyFull.FindStringSubmatch(clause); m != nil {
		in = strings.TrimSpace(m[1]) + " is to " + strings.TrimSpace(m[2]) +
			" as " + strings.TrimSpace(m[3]) + " is to"
		return in, trimSegment(m[4]), true
	}
	if parts := strings.SplitN(clause, "::", 2); len(parts) == 2 {
		right := strings.TrimSpace(parts[1])
		if idx := strings.LastIndex(right, ":"); idx >= 0 {
			in = strings.TrimSpace(parts[0]) + " :: " + strings.TrimSpace(right[:idx]) + " :"
			return in, trimSegment(right[idx+1:]), true
		}
	}
	return "", "", false
}

func extractRules(body, query string) ([]types.Example, string, error) {
	matches := reRuleFull.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil, query, ErrMalformed(types.PatternRuleChain, "no if/then rules parsed")
	}
	var examples []types.Example
	for i, m := range matches {
		cond := strings.TrimSpace(m[1])
		result := trimSegment(m[2])
		if incomplete(result) {
			if i == len(matches)-1 && query == "" {
				query = "if " + cond + " then"
			}
			continue
		}
		examples = append(examples, types.Example{Input: "if " + cond + " then", Output: result})
	}
	return examples, query, nil
}

func splitClauses(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == ';' || r == '\n'
	})
	var out []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, strings.TrimSpace(p))
		}
	}
	return out
}
