package training

// Monitor decides, step by step, whether training should stop.
// State machine: Training → {Converged, Exhausted, TimedOut}, with the
// wall-clock transition taking precedence at any point.
type Monitor struct {
	threshold float64
	minSteps  int
	maxSteps  int
}

// NewMonitor builds a monitor for one run.
func NewMonitor(threshold float64, minSteps, maxSteps int) *Monitor {
	return &Monitor{threshold: threshold, minSteps: minSteps, maxSteps: maxSteps}
}

// Assess inspects the loss trajectory after a completed step and returns
// the run's state. deadlineExceeded forces TimedOut regardless of the
// trajectory, preserving already-computed steps.
func (m *Monitor) Assess(losses []float64, deadlineExceeded bool) Outcome {
	if deadlineExceeded {
		return OutcomeTimedOut
	}
	k := len(losses)
	if k >= 2 && k >= m.minSteps {
		if improvement := losses[k-2] - losses[k-1]; improvement < m.threshold {
			return OutcomeConverged
		}
	}
	if k >= m.maxSteps {
		return OutcomeExhausted
	}
	return OutcomeTraining
}

// Usable reports whether a run in the given terminal state produced an
// adapter fit for gating: convergence and exhaustion always do, a timeout
// only when at least minSteps completed.
func (m *Monitor) Usable(outcome Outcome, steps int) bool {
	switch outcome {
	case OutcomeConverged, OutcomeExhausted:
		return true
	case OutcomeTimedOut:
		return steps >= m.minSteps
	default:
		return false
	}
}
