package model

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"

	"adaptd/internal/adapter"
)

// Deterministic is a self-contained base model with hash-derived embeddings
// and reproducible generation. It backs `adaptctl run` and the test suites;
// it is selected explicitly (-model deterministic), never silently
// substituted for llama.
type Deterministic struct {
	dim int
}

// DefaultEmbeddingDim is the embedding width of the deterministic model.
const DefaultEmbeddingDim = 64

// NewDeterministic builds a deterministic model. dim <= 0 selects the
// default width.
func NewDeterministic(dim int) *Deterministic {
	if dim <= 0 {
		dim = DefaultEmbeddingDim
	}
	return &Deterministic{dim: dim}
}

func (d *Deterministic) Name() string { return "deterministic" }

// Embed sums per-token pseudo-random vectors, so texts sharing tokens land
// near each other. Pure function of the text.
func (d *Deterministic) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vec := make([]float32, d.dim)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		rng := rand.New(rand.NewSource(int64(h.Sum64())))
		for i := range vec {
			vec[i] += float32(rng.NormFloat64())
		}
	}
	return vec, nil
}

func (d *Deterministic) Generate(ctx context.Context, prompt string, params Params, ad *adapter.Adapter, onToken func(string) error) (string, error) {
	full := adaptedPrompt(prompt, ad)
	h := fnv.New64a()
	_, _ = h.Write([]byte(full))
	if params.Seed != 0 {
		_, _ = fmt.Fprintf(h, "seed:%d", params.Seed)
	}
	content := fmt.Sprintf("completion-%08x", h.Sum64()&0xffffffff)
	for _, tok := range strings.SplitAfter(content, "-") {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		if onToken != nil {
			if err := onToken(tok); err != nil {
				return "", err
			}
		}
	}
	return content, nil
}

func (d *Deterministic) Close() error { return nil }
