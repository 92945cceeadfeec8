package training

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"adaptd/internal/adapter"
	"adaptd/pkg/types"
)

// Embedder is the trainer's view of the frozen base model: a read-only
// scorer of text into the embedding space the adapter acts on.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Config holds the immutable training tunables.
type Config struct {
	RankSet              []int
	MinSteps             int
	MaxSteps             int
	LearningRate         float64
	ConvergenceThreshold float64
	MaxWallClock         time.Duration
}

// Trainer runs the bounded update loop producing a low-rank delta.
// The loop is deterministic for a fixed instance set: the perturbation
// directions are seeded from the instance texts, so re-running the same
// query yields the same trajectory and the same decision downstream.
type Trainer struct {
	cfg Config
	emb Embedder
}

// NewTrainer builds a trainer over the given embedder.
func NewTrainer(cfg Config, emb Embedder) *Trainer {
	return &Trainer{cfg: cfg, emb: emb}
}

// timeoutError signals that the wall-clock budget expired before min_steps
// completed, so no usable adapter exists.
type timeoutError struct{ steps int }

func (e timeoutError) Error() string {
	return fmt.Sprintf("training timed out after %d steps", e.steps)
}

// ErrTimedOut constructs a training timeout error.
func ErrTimedOut(steps int) error { return timeoutError{steps: steps} }

// IsTimeout reports whether err indicates the training budget expired.
func IsTimeout(err error) bool {
	if _, ok := err.(timeoutError); ok {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// perturbation scale for the finite-difference gradient estimate.
const fdEpsilon = 1e-2

// Train runs at most cfg.MaxSteps update iterations over the instances,
// recording one loss per step. It returns a usable adapter together with
// the finished run, or disposes the partial adapter and returns an error
// when the run failed (budget expired before MinSteps, cancellation, or an
// embedder failure). The returned run is always non-nil for inspection.
func (t *Trainer) Train(ctx context.Context, instances []types.TrainingInstance, preamble string) (*adapter.Adapter, *Run, error) {
	run := &Run{Outcome: OutcomeTraining, LearningRate: t.cfg.LearningRate}
	if len(instances) == 0 {
		return nil, run, errors.New("no training instances")
	}
	start := time.Now()
	deadline := start.Add(t.cfg.MaxWallClock)
	tctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	prompts, targets, err := t.embedAll(tctx, instances)
	if err != nil {
		run.Elapsed = time.Since(start)
		if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, run, ctx.Err()
		}
		if IsTimeout(err) || time.Now().After(deadline) {
			return nil, run, ErrTimedOut(0)
		}
		return nil, run, err
	}

	dim := len(prompts[0])
	rank := chooseRank(len(instances), t.cfg.RankSet)
	run.Rank = rank
	ad := adapter.New(rank, dim, preamble)
	params := ad.Params()

	rng := rand.New(rand.NewSource(int64(seedFrom(instances))))
	monitor := NewMonitor(t.cfg.ConvergenceThreshold, t.cfg.MinSteps, t.cfg.MaxSteps)
	dir := make([]float32, len(params))

	finish := func(outcome Outcome) (*adapter.Adapter, *Run, error) {
		run.Outcome = outcome
		run.Elapsed = time.Since(start)
		if monitor.Usable(outcome, run.Steps()) {
			return ad, run, nil
		}
		ad.Dispose()
		return nil, run, ErrTimedOut(run.Steps())
	}

	for {
		// Single preemption check per step.
		if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			ad.Dispose()
			run.Elapsed = time.Since(start)
			return nil, run, ctx.Err()
		}
		if time.Now().After(deadline) {
			return finish(OutcomeTimedOut)
		}

		// Finite-difference descent along a seeded random direction.
		fillUnitDirection(rng, dir)
		base := meanLoss(ad, prompts, targets)
		addScaled(params, dir, fdEpsilon)
		perturbed := meanLoss(ad, prompts, targets)
		addScaled(params, dir, -fdEpsilon)
		grad := (perturbed - base) / fdEpsilon
		addScaled(params, dir, -t.cfg.LearningRate*grad)

		run.Losses = append(run.Losses, meanLoss(ad, prompts, targets))

		switch outcome := monitor.Assess(run.Losses, time.Now().After(deadline)); outcome {
		case OutcomeTraining:
			// next step
		default:
			return finish(outcome)
		}
	}
}

// embedAll embeds and L2-normalizes every prompt and target once up front;
// the texts never change during the run.
func (t *Trainer) embedAll(ctx context.Context, instances []types.TrainingInstance) (prompts, targets [][]float32, err error) {
	prompts = make([][]float32, len(instances))
	targets = make([][]float32, len(instances))
	for i, inst := range instances {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		p, err := t.emb.Embed(ctx, inst.Prompt)
		if err != nil {
			return nil, nil, fmt.Errorf("embed prompt %d: %w", i, err)
		}
		g, err := t.emb.Embed(ctx, inst.Target)
		if err != nil {
			return nil, nil, fmt.Errorf("embed target %d: %w", i, err)
		}
		if len(p) == 0 || len(p) != len(g) {
			return nil, nil, fmt.Errorf("embedder returned inconsistent dimensions (%d vs %d)", len(p), len(g))
		}
		prompts[i] = l2normalize(p)
		targets[i] = l2normalize(g)
	}
	return prompts, targets, nil
}

// meanLoss is the training objective: mean squared distance between the
// adapter-transformed (re-normalized) prompt embedding and the target
// embedding. Unit vectors bound each term to [0,4]; loss is non-negative.
func meanLoss(ad *adapter.Adapter, prompts, targets [][]float32) float64 {
	var total float64
	for i := range prompts {
		v := l2normalize(ad.Apply(prompts[i]))
		var d float64
		for j := range v {
			diff := float64(v[j] - targets[i][j])
			d += diff * diff
		}
		total += d
	}
	return total / float64(len(prompts))
}

// chooseRank picks a rank from the bounded set based on dataset size:
// larger example sets justify higher-capacity deltas.
func chooseRank(n int, rankSet []int) int {
	if len(rankSet) == 0 {
		rankSet = []int{8, 16, 32, 64}
	}
	idx := (n - 2) / 2
	if idx < 0 {
		idx = 0
	}
	if idx >= len(rankSet) {
		idx = len(rankSet) - 1
	}
	return rankSet[idx]
}

// seedFrom derives the deterministic RNG seed from the instance texts.
func seedFrom(instances []types.TrainingInstance) uint64 {
	h := fnv.New64a()
	for _, inst := range instances {
		_, _ = h.Write([]byte(inst.Prompt))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(inst.Target))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

func fillUnitDirection(rng *rand.Rand, dir []float32) {
	var norm float64
	for i := range dir {
		v := rng.NormFloat64()
		dir[i] = float32(v)
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return
	}
	for i := range dir {
		dir[i] /= float32(norm)
	}
}

func addScaled(params, dir []float32, scale float64) {
	s := float32(scale)
	for i := range params {
		params[i] += s * dir[i]
	}
}

func l2normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
