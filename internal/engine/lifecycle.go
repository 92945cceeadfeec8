package engine

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"adaptd/internal/adapter"
	"adaptd/internal/model"
	"adaptd/internal/pattern"
	"adaptd/internal/synth"
	"adaptd/internal/training"
	"adaptd/pkg/types"
)

// lifecycleState tracks the per-request pipeline:
// Idle → Detecting → Extracting → Synthesizing → Training → Scoring →
// Gating → {Attached, FallenBack}.
type lifecycleState string

const (
	stateIdle         lifecycleState = "idle"
	stateDetecting    lifecycleState = "detecting"
	stateExtracting   lifecycleState = "extracting"
	stateSynthesizing lifecycleState = "synthesizing"
	stateTraining     lifecycleState = "training"
	stateScoring      lifecycleState = "scoring"
	stateGating       lifecycleState = "gating"
	stateAttached     lifecycleState = "attached"
	stateFallenBack   lifecycleState = "fallen_back"
)

// lifecycle owns one request's adaptation attempt, including the trained
// adapter. Every terminal path runs finish(), which disposes the adapter
// and emits the metrics record; no path may leave an adapter alive past the
// request.
type lifecycle struct {
	eng     *Engine
	state   lifecycleState
	dec     Decision
	trained *adapter.Adapter
	rec     types.AdaptationRecord
	query   string
	start   time.Time
}

func (e *Engine) newLifecycle() *lifecycle {
	return &lifecycle{eng: e, state: stateIdle, start: time.Now()}
}

// fallBack records a terminal rejection. The reason is always recorded;
// silent fallback is a defect.
func (lc *lifecycle) fallBack(reason types.Reason, err error) {
	lc.state = stateFallenBack
	lc.dec = Decision{Reason: reason, Err: err}
	if err != nil {
		lc.eng.log.Debug().Err(err).Str("reason", string(reason)).Msg("adaptation fallback")
	} else {
		lc.eng.log.Debug().Str("reason", string(reason)).Msg("adaptation fallback")
	}
}

// finish disposes the adapter (idempotent) and emits the per-request
// record. Deferred on every entry point.
func (lc *lifecycle) finish() {
	if lc.trained != nil {
		lc.trained.Dispose()
	}
	lc.rec.Accepted = lc.dec.Accepted
	lc.rec.Reason = string(lc.dec.Reason)
	lc.eng.sink.Emit(lc.rec)
	lc.eng.countRequest(lc.dec)
}

// status renders the adaptation-status annotation for the caller.
func (lc *lifecycle) status() types.AdaptationStatus {
	st := types.AdaptationStatus{Enabled: lc.dec.Accepted}
	if lc.rec.Steps > 0 {
		c := lc.rec.Confidence
		st.Confidence = &c
	}
	if !lc.dec.Accepted {
		st.Reason = lc.dec.Reason
	}
	return st
}

// adapt runs detection through gating. Adaptation-stage failures are
// recovered locally as fallbacks; only context cancellation returns an
// error, aborting the request.
func (lc *lifecycle) adapt(ctx context.Context, prompt string) error {
	eng := lc.eng
	defer func() {
		if lc.rec.ElapsedMS == 0 {
			lc.rec.ElapsedMS = time.Since(lc.start).Milliseconds()
		}
	}()

	lc.state = stateDetecting
	if err := ctx.Err(); err != nil {
		return err
	}
	match, ok := eng.detector.Select(prompt)
	if !ok {
		lc.fallBack(types.ReasonPatternNotDetected, nil)
		return nil
	}
	lc.rec.Pattern = string(match.Spec.Kind)

	lc.state = stateExtracting
	ext, err := pattern.Extract(prompt, match.Spec)
	if err != nil {
		if pattern.IsTooFew(err) {
			lc.fallBack(types.ReasonInsufficientExamples, err)
		} else {
			lc.fallBack(types.ReasonExtractionError, err)
		}
		return nil
	}
	lc.rec.Examples = len(ext.Examples)
	lc.query = ext.Query

	lc.state = stateSynthesizing
	if err := ctx.Err(); err != nil {
		return err
	}
	instances, err := synth.Build(ext.Examples)
	if err != nil {
		lc.fallBack(types.ReasonInsufficientExamples, err)
		return nil
	}

	lc.state = stateTraining
	trainer := training.NewTrainer(training.Config{
		RankSet:              eng.cfg.RankSet,
		MinSteps:             eng.cfg.MinSteps,
		MaxSteps:             eng.cfg.MaxSteps,
		LearningRate:         eng.cfg.LearningRate,
		ConvergenceThreshold: eng.cfg.ConvergenceThreshold,
		MaxWallClock:         eng.cfg.MaxWallClock,
	}, eng.base)
	ad, run, err := trainer.Train(ctx, instances, synth.Serialize(ext.Examples))
	if run != nil {
		lc.rec.Steps = run.Steps()
		lc.rec.ElapsedMS = run.Elapsed.Milliseconds()
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(ctxErr, context.DeadlineExceeded) {
			// Client cancellation: the trainer disposed its partial state;
			// abort the request entirely.
			return ctxErr
		}
		if training.IsTimeout(err) {
			lc.fallBack(types.ReasonTimeout, err)
		} else {
			lc.fallBack(types.ReasonTrainingFailed, err)
		}
		return nil
	}
	lc.trained = ad

	lc.state = stateScoring
	ad.Convergence = training.ConvergenceScore(run)
	ad.Confidence = training.ConfidenceScore(run)
	lc.rec.Confidence = ad.Confidence
	lc.rec.Convergence = ad.Convergence

	lc.state = stateGating
	dec := eng.gate.Evaluate(ad, run)
	if !dec.Accepted {
		lc.fallBack(dec.Reason, dec.Err)
		return nil
	}
	lc.dec = dec
	lc.state = stateAttached
	eng.log.Debug().
		Str("pattern", lc.rec.Pattern).
		Int("steps", lc.rec.Steps).
		Float64("confidence", lc.rec.Confidence).
		Msg("adapter attached")
	return nil
}

// run executes the full pipeline for one request and generates the
// response. The deferred finish guarantees adapter disposal on success,
// rejection, cancellation, and error paths alike.
func (e *Engine) run(ctx context.Context, req types.GenerateRequest, onToken func(string) error) (string, types.AdaptationStatus, error) {
	lc := e.newLifecycle()
	defer lc.finish()

	if req.DisableAdaptation {
		lc.fallBack(types.ReasonDisabled, nil)
	} else if err := lc.adapt(ctx, req.Prompt); err != nil {
		return "", lc.status(), err
	}

	prompt := req.Prompt
	if lc.dec.Accepted && lc.query != "" {
		// The adapter preamble carries the examples; generation sees only
		// the live query.
		prompt = lc.query
	}
	params := model.Params{
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		Seed:        req.Seed,
		Stop:        req.Stop,
	}
	content, err := e.base.Generate(ctx, prompt, params, lc.dec.Adapter, onToken)
	if err != nil {
		if ctx.Err() != nil {
			return "", lc.status(), ctx.Err()
		}
		return "", lc.status(), ErrGeneration(err)
	}
	return content, lc.status(), nil
}

// Generate streams NDJSON token lines to w, ending with a final
// GenerateResponse line carrying the adaptation status.
func (e *Engine) Generate(ctx context.Context, req types.GenerateRequest, w io.Writer, flush func()) error {
	onToken := func(tok string) error {
		if _, err := w.Write(tokenLineJSON(tok)); err != nil {
			return err
		}
		if flush != nil {
			flush()
		}
		return nil
	}
	content, st, err := e.run(ctx, req, onToken)
	if err != nil {
		return err
	}
	jb, _ := json.Marshal(types.GenerateResponse{Done: true, Content: content, Adaptation: st})
	if _, err := w.Write(append(jb, '\n')); err != nil {
		return err
	}
	if flush != nil {
		flush()
	}
	return nil
}

// GenerateText runs the pipeline without streaming, for non-HTTP callers.
func (e *Engine) GenerateText(ctx context.Context, req types.GenerateRequest) (string, types.AdaptationStatus, error) {
	return e.run(ctx, req, nil)
}

// tokenLineJSON formats a token NDJSON line using json.Marshal for
// correctness.
func tokenLineJSON(tok string) []byte {
	type tokenMsg struct {
		Token string `json:"token"`
	}
	b, _ := json.Marshal(tokenMsg{Token: tok})
	return append(b, '\n')
}
