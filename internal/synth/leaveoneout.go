// Package synth turns extracted examples into a synthetic supervised
// training set via leave-one-out expansion: N examples become exactly N
// instances, each holding one example out as the target while the rest
// serve as context.
package synth

import (
	"fmt"
	"strings"

	"adaptd/pkg/types"
)

// tooFewError signals that leave-one-out cannot run: at least one "other"
// example is needed to form context.
type tooFewError struct{ got int }

func (e tooFewError) Error() string {
	return fmt.Sprintf("leave-one-out needs at least 2 examples, got %d", e.got)
}

// ErrTooFew constructs an insufficient-examples error for synthesis.
func ErrTooFew(got int) error { return tooFewError{got: got} }

// IsTooFew reports whether err indicates too few examples for synthesis.
func IsTooFew(err error) bool {
	_, ok := err.(tooFewError)
	return ok
}

// Build expands N examples into N training instances. Instance i serializes
// every example except i (in original order) as context, followed by the
// held-out input; the held-out output is the supervised target.
func Build(examples []types.Example) ([]types.TrainingInstance, error) {
	if len(examples) < 2 {
		return nil, ErrTooFew(len(examples))
	}
	instances := make([]types.TrainingInstance, 0, len(examples))
	for i := range examples {
		var b strings.Builder
		for j, ex := range examples {
			if j == i {
				continue
			}
			writeExample(&b, ex)
			b.WriteByte('\n')
		}
		b.WriteString("Input: ")
		b.WriteString(examples[i].Input)
		b.WriteString("\nOutput:")
		instances = append(instances, types.TrainingInstance{
			Prompt: b.String(),
			Target: examples[i].Output,
		})
	}
	return instances, nil
}

// Serialize renders examples in the canonical block format used both for
// training prompts and for the adapter preamble at generation time.
func Serialize(examples []types.Example) string {
	var b strings.Builder
	for i, ex := range examples {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeExample(&b, ex)
	}
	return b.String()
}

func writeExample(b *strings.Builder, ex types.Example) {
	if ex.Context != "" {
		b.WriteString("Context: ")
		b.WriteString(ex.Context)
		b.WriteByte('\n')
	}
	b.WriteString("Input: ")
	b.WriteString(ex.Input)
	b.WriteString("\nOutput: ")
	b.WriteString(ex.Output)
	b.WriteByte('\n')
}
