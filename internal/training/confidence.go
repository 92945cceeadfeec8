package training

// Multipliers applied to the convergence score depending on how the run
// stopped. Runs that only stopped because the step budget ran out get less
// trust than runs that genuinely converged.
const (
	earlyStopMultiplier = 0.9
	exhaustedMultiplier = 0.7
)

// ConvergenceScore maps the final loss to [0,1]: 0 loss scores 1.0, loss of
// 2.0 or worse scores 0.
func ConvergenceScore(r *Run) float64 {
	return clamp((2.0-r.FinalLoss())/2.0, 0, 1)
}

// ConfidenceScore combines the convergence score with the stopping mode.
func ConfidenceScore(r *Run) float64 {
	m := exhaustedMultiplier
	if r.EarlyStopped() {
		m = earlyStopMultiplier
	}
	return ConvergenceScore(r) * m
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
