// Package engine orchestrates inference-time task adaptation: pattern
// detection, example extraction, leave-one-out synthesis, adapter training,
// confidence gating, and generation with guaranteed adapter disposal.
package engine

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"adaptd/internal/metrics"
	"adaptd/internal/model"
	"adaptd/internal/pattern"
	"adaptd/pkg/types"
)

// Engine owns the frozen base model and the immutable adaptation config.
// Each request runs through its own lifecycle; the engine itself holds no
// per-request state beyond aggregate counters.
type Engine struct {
	cfg      Config
	base     model.BaseModel
	detector *pattern.Detector
	gate     Gate
	sink     metrics.Sink
	log      zerolog.Logger

	startTime time.Time

	mu        sync.Mutex
	requests  uint64
	accepted  uint64
	fallbacks map[types.Reason]uint64
}

// New constructs an Engine. A nil sink disables record emission.
func New(cfg Config, base model.BaseModel, sink metrics.Sink, log zerolog.Logger) *Engine {
	cfg = cfg.withDefaults()
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Engine{
		cfg:      cfg,
		base:     base,
		detector: pattern.NewDetector(cfg.Patterns),
		gate: Gate{
			ConfidenceThreshold: cfg.ConfidenceThreshold,
			MemoryLimitBytes:    cfg.MemoryLimitBytes,
			MinSteps:            cfg.MinSteps,
		},
		sink:      sink,
		log:       log,
		startTime: time.Now(),
		fallbacks: make(map[types.Reason]uint64),
	}
}

// Ready reports whether the engine can serve requests.
func (e *Engine) Ready() bool { return e.base != nil }

// Patterns returns the active pattern registry for GET /patterns.
func (e *Engine) Patterns() []types.PatternInfo {
	specs := e.detector.Specs()
	out := make([]types.PatternInfo, 0, len(specs))
	for _, s := range specs {
		out = append(out, s.Info())
	}
	return out
}

// Status returns a read-only projection of the engine state.
func (e *Engine) Status() types.StatusResponse {
	e.mu.Lock()
	defer e.mu.Unlock()
	fallbacks := make(map[string]uint64, len(e.fallbacks))
	for r, n := range e.fallbacks {
		fallbacks[string(r)] = n
	}
	name := ""
	if e.base != nil {
		name = e.base.Name()
	}
	return types.StatusResponse{
		State:                "ready",
		Model:                name,
		UptimeSeconds:        int64(time.Since(e.startTime).Seconds()),
		ServerTimeUnix:       time.Now().Unix(),
		RequestsTotal:        e.requests,
		AdaptationsAccepted:  e.accepted,
		Fallbacks:            fallbacks,
		ConfidenceThreshold:  e.cfg.ConfidenceThreshold,
		ConvergenceThreshold: e.cfg.ConvergenceThreshold,
		MaxWallClockMS:       e.cfg.MaxWallClock.Milliseconds(),
	}
}

func (e *Engine) countRequest(dec Decision) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.requests++
	if dec.Accepted {
		e.accepted++
		return
	}
	e.fallbacks[dec.Reason]++
}
