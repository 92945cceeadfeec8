package engine

import "fmt"

// generationError wraps a base model failure during generation. Unlike
// adaptation-stage errors, which are recovered locally via fallback, this
// is the one class that propagates to the caller as a request failure.
type generationError struct{ err error }

func (e generationError) Error() string { return "generation failed: " + e.err.Error() }
func (e generationError) Unwrap() error { return e.err }

// ErrGeneration wraps a base model error.
func ErrGeneration(err error) error { return generationError{err: err} }

// IsGenerationFailure reports whether err is a request-level generation
// failure.
func IsGenerationFailure(err error) bool {
	_, ok := err.(generationError)
	return ok
}

// lowConfidenceError records a gate rejection on the confidence threshold.
type lowConfidenceError struct{ score, threshold float64 }

func (e lowConfidenceError) Error() string {
	return fmt.Sprintf("adapter confidence %.3f below threshold %.3f", e.score, e.threshold)
}

// memoryLimitError records a gate rejection on serialized size.
type memoryLimitError struct{ size, limit int }

func (e memoryLimitError) Error() string {
	return fmt.Sprintf("adapter size %dB exceeds limit %dB", e.size, e.limit)
}
