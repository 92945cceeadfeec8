package pattern

import (
	"fmt"

	"adaptd/pkg/types"
)

// malformedError signals that the query matched a pattern structurally but
// its body could not be parsed into examples.
type malformedError struct {
	kind types.PatternKind
	msg  string
}

func (e malformedError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %s", e.kind, e.msg)
}

// ErrMalformed constructs an extraction error for the given kind.
func ErrMalformed(kind types.PatternKind, msg string) error {
	return malformedError{kind: kind, msg: msg}
}

// IsMalformed reports whether err indicates a malformed pattern body.
func IsMalformed(err error) bool {
	_, ok := err.(malformedError)
	return ok
}

// countError signals that fewer usable examples were parsed than the
// pattern's minimum.
type countError struct {
	kind types.PatternKind
	got  int
	min  int
}

func (e countError) Error() string {
	return fmt.Sprintf("%s: parsed %d examples, need at least %d", e.kind, e.got, e.min)
}

// ErrTooFew constructs an insufficient-examples error.
func ErrTooFew(kind types.PatternKind, got, min int) error {
	return countError{kind: kind, got: got, min: min}
}

// IsTooFew reports whether err indicates too few parsed examples.
func IsTooFew(err error) bool {
	_, ok := err.(countError)
	return ok
}
