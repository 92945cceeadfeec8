//go:build llama

package model

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"

	"adaptd/internal/adapter"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

// llamaModel wraps a single loaded llama.cpp model. Predict calls are
// serialized with a mutex: the underlying context is not reentrant, and the
// weights stay frozen either way.
type llamaModel struct {
	mu      sync.Mutex
	m       *llama.LLama
	name    string
	threads int
}

// NewLlama loads a gguf model with embeddings enabled.
func NewLlama(path string, ctxSize, threads int) (BaseModel, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("model path is empty")
	}
	m, err := llama.New(path,
		llama.SetContext(zn(ctxSize, 2048)),
		llama.EnableEmbeddings,
	)
	if err != nil {
		return nil, err
	}
	return &llamaModel{m: m, name: filepath.Base(path), threads: zn(threads, 4)}, nil
}

func (l *llamaModel) Name() string { return l.name }

func (l *llamaModel) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Embeddings(text, llama.SetThreads(l.threads))
}

func (l *llamaModel) Generate(ctx context.Context, prompt string, params Params, ad *adapter.Adapter, onToken func(string) error) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.m == nil {
		return "", errors.New("llama model not initialized")
	}

	// Bridge token streaming to onToken and respect cancellation.
	l.m.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		if onToken != nil {
			if err := onToken(tok); err != nil {
				return false
			}
		}
		return true
	})
	defer l.m.SetTokenCallback(nil)

	text, err := l.m.Predict(adaptedPrompt(prompt, ad), predictOptions(params, l.threads)...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	return text, nil
}

func (l *llamaModel) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.m != nil {
		l.m.Free()
		l.m = nil
	}
	return nil
}

// predictOptions converts generation params into go-llama.cpp options.
func predictOptions(params Params, threads int) []llama.PredictOption {
	po := []llama.PredictOption{
		llama.SetTokens(zn(params.MaxTokens, 128)),
		llama.SetThreads(zn(threads, 1)),
		llama.SetTopP(zf(float32(params.TopP), llama.DefaultOptions.TopP)),
		llama.SetTemperature(zf(float32(params.Temperature), llama.DefaultOptions.Temperature)),
	}
	if params.Seed != 0 {
		po = append(po, llama.SetSeed(int(params.Seed)))
	}
	if len(params.Stop) > 0 {
		po = append(po, llama.SetStopWords(params.Stop...))
	}
	return po
}

func zn(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func zf(v, def float32) float32 {
	if v > 0 {
		return v
	}
	return def
}
