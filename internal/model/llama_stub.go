//go:build !llama

package model

import (
	"context"

	"adaptd/internal/adapter"
)

// This file provides a no-CGO stub for the llama model. It is compiled when
// the 'llama' build tag is NOT set, keeping default builds and CI CGO-free.
// The real model lives in llama.go (tagged 'llama').

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = false

type llamaModel struct{ name string }

// NewLlama fails fast: the llama runtime is not available in this build.
// No mocked behavior in production binaries built without CGO support.
func NewLlama(path string, ctxSize, threads int) (BaseModel, error) {
	return nil, ErrUnavailable("llama support not built (missing 'llama' build tag)")
}

func (l *llamaModel) Name() string { return l.name }

func (l *llamaModel) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, ErrUnavailable("llama support not built (missing 'llama' build tag)")
}

func (l *llamaModel) Generate(ctx context.Context, prompt string, params Params, ad *adapter.Adapter, onToken func(string) error) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	return "", ErrUnavailable("llama support not built (missing 'llama' build tag)")
}

func (l *llamaModel) Close() error { return nil }
