// Package model defines the frozen base model contract consumed by the
// adaptation engine, plus its concrete implementations. The base model is
// strictly read-only: adapters are applied per call and never mutate or
// leak into other requests.
package model

import (
	"context"

	"adaptd/internal/adapter"
)

// Params captures generation parameters passed to the base model.
type Params struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
	Seed        int64
	Stop        []string
}

// BaseModel is the opaque scorer/generator the engine trains against and
// generates with. Implementations must be safe for concurrent use; the
// frozen weights are the only state shared across requests.
type BaseModel interface {
	// Name identifies the loaded model for status reporting.
	Name() string
	// Embed maps text into the embedding space adapters act on.
	Embed(ctx context.Context, text string) ([]float32, error)
	// Generate produces a completion for the prompt. ad may be nil (the
	// unadapted base path). When non-nil the model conditions on the
	// adapter without mutating shared state. onToken, when non-nil, is
	// invoked per streamed token; implementations must return when the
	// context is canceled.
	Generate(ctx context.Context, prompt string, params Params, ad *adapter.Adapter, onToken func(string) error) (string, error)
	// Close releases model resources.
	Close() error
}

// unavailableError signals a missing runtime dependency (e.g. llama.cpp not
// built in) so the HTTP layer can answer 503 instead of 500.
type unavailableError struct{ msg string }

func (e unavailableError) Error() string { return e.msg }

// ErrUnavailable constructs an unavailableError.
func ErrUnavailable(msg string) error { return unavailableError{msg: msg} }

// IsUnavailable reports whether err indicates a missing/failed runtime
// dependency.
func IsUnavailable(err error) bool {
	_, ok := err.(unavailableError)
	return ok
}

// adaptedPrompt prepends the adapter's trained example preamble to the
// prompt. Prefix conditioning is how a black-box runtime honors an
// attached adapter.
func adaptedPrompt(prompt string, ad *adapter.Adapter) string {
	if ad == nil || ad.Preamble() == "" {
		return prompt
	}
	return ad.Preamble() + "\nInput: " + prompt + "\nOutput:"
}
