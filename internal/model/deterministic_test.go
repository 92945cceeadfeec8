package model

import (
	"context"
	"strings"
	"testing"

	"adaptd/internal/adapter"
)

func TestDeterministicEmbedIsPure(t *testing.T) {
	m := NewDeterministic(0)
	a, err := m.Embed(context.Background(), "the quick brown fox")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(a) != DefaultEmbeddingDim {
		t.Fatalf("dim: %d", len(a))
	}
	b, err := m.Embed(context.Background(), "the quick brown fox")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embedding not deterministic at %d: %v vs %v", i, a[i], b[i])
		}
	}
	c, _ := m.Embed(context.Background(), "something else entirely")
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different texts produced identical embeddings")
	}
}

func TestDeterministicGenerateIsReproducible(t *testing.T) {
	m := NewDeterministic(0)
	var streamed strings.Builder
	out1, err := m.Generate(context.Background(), "hello", Params{Seed: 7}, nil, func(tok string) error {
		streamed.WriteString(tok)
		return nil
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if streamed.String() != out1 {
		t.Fatalf("streamed tokens %q != content %q", streamed.String(), out1)
	}
	out2, err := m.Generate(context.Background(), "hello", Params{Seed: 7}, nil, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out1 != out2 {
		t.Fatalf("generation not reproducible: %q vs %q", out1, out2)
	}
}

func TestDeterministicGenerateConditionsOnAdapter(t *testing.T) {
	m := NewDeterministic(0)
	plain, err := m.Generate(context.Background(), "hello", Params{}, nil, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	ad := adapter.New(2, 4, "Input: a\nOutput: b\n")
	adapted, err := m.Generate(context.Background(), "hello", Params{}, ad, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if plain == adapted {
		t.Fatalf("adapter preamble must change the completion")
	}
}

func TestAdaptedPrompt(t *testing.T) {
	if got := adaptedPrompt("q", nil); got != "q" {
		t.Fatalf("nil adapter: %q", got)
	}
	ad := adapter.New(1, 2, "Input: a\nOutput: b\n")
	want := "Input: a\nOutput: b\n\nInput: q\nOutput:"
	if got := adaptedPrompt("q", ad); got != want {
		t.Fatalf("adapted prompt: %q", got)
	}
	ad.Dispose()
	if got := adaptedPrompt("q", ad); got != "q" {
		t.Fatalf("disposed adapter must not condition: %q", got)
	}
}
