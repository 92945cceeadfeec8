// Package training implements the bounded adapter training loop, the
// convergence state machine, and the confidence scoring formulas.
package training

import "time"

// Outcome is the terminal state of a training run.
type Outcome string

const (
	OutcomeTraining  Outcome = "training"
	OutcomeConverged Outcome = "converged"
	OutcomeExhausted Outcome = "exhausted"
	OutcomeTimedOut  Outcome = "timed_out"
)

// Run records one training trajectory. It is mutated only by the trainer
// and becomes immutable once training halts.
type Run struct {
	Losses       []float64
	Outcome      Outcome
	Elapsed      time.Duration
	Rank         int
	LearningRate float64
}

// Steps returns the number of completed update steps.
func (r *Run) Steps() int { return len(r.Losses) }

// FinalLoss returns the loss of the last completed step, or 0 for an empty
// run.
func (r *Run) FinalLoss() float64 {
	if len(r.Losses) == 0 {
		return 0
	}
	return r.Losses[len(r.Losses)-1]
}

// EarlyStopped reports whether the run halted because marginal improvement
// fell below the convergence threshold, as opposed to exhausting its step
// budget or timing out.
func (r *Run) EarlyStopped() bool { return r.Outcome == OutcomeConverged }
