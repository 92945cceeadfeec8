package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"adaptd/internal/adapter"
	"adaptd/internal/model"
	"adaptd/pkg/types"
)

const fewShotPrompt = "Example 1: 2,4,6 → 8. Example 2: 1,3,5 → 7. Example 3: 10,20,30 → 40. Problem: 5,10,15 → ?"

// fakeModel embeds every text to the same unit vector (so training converges
// immediately) and records what generation saw.
type fakeModel struct {
	mu          sync.Mutex
	genPrompt   string
	genAdapter  *adapter.Adapter
	genPreamble string
	generateErr error
}

func (f *fakeModel) Name() string { return "fake" }

func (f *fakeModel) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v := make([]float32, 16)
	v[0] = 1
	return v, nil
}

func (f *fakeModel) Generate(ctx context.Context, prompt string, params model.Params, ad *adapter.Adapter, onToken func(string) error) (string, error) {
	f.mu.Lock()
	f.genPrompt = prompt
	f.genAdapter = ad
	if ad != nil {
		f.genPreamble = ad.Preamble()
	}
	f.mu.Unlock()
	if f.generateErr != nil {
		return "", f.generateErr
	}
	if onToken != nil {
		if err := onToken("ok"); err != nil {
			return "", err
		}
	}
	return "ok", nil
}

func (f *fakeModel) Close() error { return nil }

// captureSink records every emitted adaptation record.
type captureSink struct {
	mu   sync.Mutex
	recs []types.AdaptationRecord
}

func (s *captureSink) Emit(rec types.AdaptationRecord) {
	s.mu.Lock()
	s.recs = append(s.recs, rec)
	s.mu.Unlock()
}

func (s *captureSink) last(t *testing.T) types.AdaptationRecord {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.recs) == 0 {
		t.Fatalf("no record emitted")
	}
	return s.recs[len(s.recs)-1]
}

func newTestEngine(cfg Config, base model.BaseModel, sink *captureSink) *Engine {
	return New(cfg, base, sink, zerolog.Nop())
}

func TestGenerateAttachesAdapterOnFewShotPrompt(t *testing.T) {
	fm := &fakeModel{}
	sink := &captureSink{}
	eng := newTestEngine(Config{}, fm, sink)

	content, st, err := eng.GenerateText(context.Background(), types.GenerateRequest{Prompt: fewShotPrompt})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if content != "ok" {
		t.Fatalf("unexpected content %q", content)
	}
	if !st.Enabled {
		t.Fatalf("expected adapter attached, got reason=%s", st.Reason)
	}
	if st.Confidence == nil || *st.Confidence < 0.7 {
		t.Fatalf("unexpected confidence %v", st.Confidence)
	}

	// Generation sees the live query; the examples travel in the adapter
	// preamble.
	if fm.genPrompt != "5,10,15 → ?" {
		t.Fatalf("unexpected generation prompt %q", fm.genPrompt)
	}
	if fm.genAdapter == nil {
		t.Fatalf("no adapter handed to generation")
	}
	if !strings.Contains(fm.genPreamble, "Input: 2,4,6\nOutput: 8") {
		t.Fatalf("preamble missing examples: %q", fm.genPreamble)
	}

	// The adapter never outlives the request.
	if !fm.genAdapter.Disposed() {
		t.Fatalf("adapter must be disposed after the request")
	}

	rec := sink.last(t)
	if !rec.Accepted || rec.Pattern != string(types.PatternExplicitExamples) || rec.Examples != 3 || rec.Steps < 2 {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestGenerateFallsBackWhenNoPattern(t *testing.T) {
	fm := &fakeModel{}
	sink := &captureSink{}
	eng := newTestEngine(Config{}, fm, sink)

	prompt := "What is the capital of France?"
	content, st, err := eng.GenerateText(context.Background(), types.GenerateRequest{Prompt: prompt})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if content != "ok" {
		t.Fatalf("unexpected content %q", content)
	}
	if st.Enabled || st.Reason != types.ReasonPatternNotDetected {
		t.Fatalf("expected pattern_not_detected fallback, got %+v", st)
	}
	if st.Confidence != nil {
		t.Fatalf("confidence must be null when training never ran")
	}
	if fm.genPrompt != prompt {
		t.Fatalf("fallback must use the original prompt, got %q", fm.genPrompt)
	}
	if fm.genAdapter != nil {
		t.Fatalf("fallback must not carry an adapter")
	}
	if rec := sink.last(t); rec.Accepted || rec.Reason != string(types.ReasonPatternNotDetected) {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestGenerateFallsBackOnInsufficientExamples(t *testing.T) {
	fm := &fakeModel{}
	sink := &captureSink{}
	eng := newTestEngine(Config{}, fm, sink)

	_, st, err := eng.GenerateText(context.Background(), types.GenerateRequest{Prompt: "Input: 5 → Output:"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if st.Enabled || st.Reason != types.ReasonInsufficientExamples {
		t.Fatalf("expected insufficient_examples fallback, got %+v", st)
	}
}

func TestGenerateHonorsDisableOverride(t *testing.T) {
	fm := &fakeModel{}
	sink := &captureSink{}
	eng := newTestEngine(Config{}, fm, sink)

	_, st, err := eng.GenerateText(context.Background(), types.GenerateRequest{Prompt: fewShotPrompt, DisableAdaptation: true})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if st.Enabled || st.Reason != types.ReasonDisabled {
		t.Fatalf("expected disabled fallback, got %+v", st)
	}
	if fm.genPrompt != fewShotPrompt {
		t.Fatalf("disabled path must use the original prompt, got %q", fm.genPrompt)
	}
}

func TestGenerateFallsBackOnMemoryLimit(t *testing.T) {
	fm := &fakeModel{}
	sink := &captureSink{}
	eng := newTestEngine(Config{MemoryLimitBytes: 32}, fm, sink)

	_, st, err := eng.GenerateText(context.Background(), types.GenerateRequest{Prompt: fewShotPrompt})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if st.Enabled || st.Reason != types.ReasonMemoryLimitExceeded {
		t.Fatalf("expected memory_limit_exceeded fallback, got %+v", st)
	}
	// The rejected adapter was still disposed.
	if fm.genAdapter != nil {
		t.Fatalf("rejected adapter must not reach generation")
	}
}

func TestGenerateAbortsOnCancelledContext(t *testing.T) {
	fm := &fakeModel{}
	eng := newTestEngine(Config{}, fm, &captureSink{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := eng.GenerateText(ctx, types.GenerateRequest{Prompt: fewShotPrompt})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGenerateWrapsModelFailure(t *testing.T) {
	fm := &fakeModel{generateErr: errors.New("boom")}
	eng := newTestEngine(Config{}, fm, &captureSink{})

	_, _, err := eng.GenerateText(context.Background(), types.GenerateRequest{Prompt: "What is 2+2?"})
	if err == nil || !IsGenerationFailure(err) {
		t.Fatalf("expected generation failure, got %v", err)
	}
}

func TestStatusCountsRequests(t *testing.T) {
	fm := &fakeModel{}
	eng := newTestEngine(Config{}, fm, &captureSink{})

	if _, _, err := eng.GenerateText(context.Background(), types.GenerateRequest{Prompt: fewShotPrompt}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, _, err := eng.GenerateText(context.Background(), types.GenerateRequest{Prompt: "plain question"}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	st := eng.Status()
	if st.RequestsTotal != 2 {
		t.Fatalf("expected 2 requests, got %d", st.RequestsTotal)
	}
	if st.AdaptationsAccepted != 1 {
		t.Fatalf("expected 1 accepted adaptation, got %d", st.AdaptationsAccepted)
	}
	if st.Fallbacks[string(types.ReasonPatternNotDetected)] != 1 {
		t.Fatalf("expected 1 pattern_not_detected fallback, got %+v", st.Fallbacks)
	}
}

func TestGenerateStreamsNDJSON(t *testing.T) {
	fm := &fakeModel{}
	eng := newTestEngine(Config{}, fm, &captureSink{})

	var sb strings.Builder
	if err := eng.Generate(context.Background(), types.GenerateRequest{Prompt: "plain question"}, &sb, nil); err != nil {
		t.Fatalf("generate: %v", err)
	}
	out := sb.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected token lines plus final line, got %q", out)
	}
	if !strings.Contains(lines[0], `"token"`) {
		t.Fatalf("expected a token line first, got %q", lines[0])
	}
	final := lines[len(lines)-1]
	if !strings.Contains(final, `"done":true`) || !strings.Contains(final, `"adaptation"`) {
		t.Fatalf("unexpected final line %q", final)
	}
}

func TestPatternsExposesRegistry(t *testing.T) {
	eng := newTestEngine(Config{}, &fakeModel{}, &captureSink{})
	infos := eng.Patterns()
	if len(infos) != 5 {
		t.Fatalf("expected 5 registry entries, got %d", len(infos))
	}
	if infos[0].Kind != types.PatternExplicitExamples || infos[0].Weight != 1.0 {
		t.Fatalf("unexpected first entry %+v", infos[0])
	}
}
