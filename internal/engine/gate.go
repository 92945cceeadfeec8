package engine

import (
	"adaptd/internal/adapter"
	"adaptd/internal/training"
	"adaptd/pkg/types"
)

// Decision is the sole artifact handed to the generation stage: either an
// accepted adapter or a rejection reason. Accepted decisions always carry a
// non-nil adapter; rejected ones never do.
type Decision struct {
	Accepted bool
	Reason   types.Reason
	Adapter  *adapter.Adapter
	// Err carries the detailed cause for logging; nil when accepted.
	Err error
}

// Gate accepts or rejects a trained adapter. All conditions must hold to
// accept: confidence meets the threshold, the serialized size fits the
// memory limit, and the run completed at least the minimum step count.
type Gate struct {
	ConfidenceThreshold float64
	MemoryLimitBytes    int
	MinSteps            int
}

// Evaluate scores the adapter and applies the gate conditions. The
// confidence check runs first: a low-confidence adapter is rejected as such
// regardless of its size. The adapter's score fields are filled in either
// way; disposal of rejected adapters is the caller's responsibility.
func (g Gate) Evaluate(ad *adapter.Adapter, run *training.Run) Decision {
	if ad == nil || run == nil || run.Steps() < g.MinSteps {
		return Decision{Reason: types.ReasonTimeout, Err: training.ErrTimedOut(stepsOf(run))}
	}
	ad.Convergence = training.ConvergenceScore(run)
	ad.Confidence = training.ConfidenceScore(run)
	if ad.Confidence < g.ConfidenceThreshold {
		return Decision{
			Reason: types.ReasonLowConfidence,
			Err:    lowConfidenceError{score: ad.Confidence, threshold: g.ConfidenceThreshold},
		}
	}
	if size := ad.SerializedSize(); size > g.MemoryLimitBytes {
		return Decision{
			Reason: types.ReasonMemoryLimitExceeded,
			Err:    memoryLimitError{size: size, limit: g.MemoryLimitBytes},
		}
	}
	return Decision{Accepted: true, Adapter: ad}
}

func stepsOf(run *training.Run) int {
	if run == nil {
		return 0
	}
	return run.Steps()
}
