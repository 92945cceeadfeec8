package training

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvergenceScore(t *testing.T) {
	assert.Equal(t, 1.0, ConvergenceScore(&Run{Losses: []float64{0.5, 0.0}}))
	assert.Equal(t, 0.5, ConvergenceScore(&Run{Losses: []float64{2.0, 1.0}}))
	assert.Equal(t, 0.0, ConvergenceScore(&Run{Losses: []float64{3.0, 2.0}}))
	// Losses beyond 2.0 clamp to zero rather than going negative.
	assert.Equal(t, 0.0, ConvergenceScore(&Run{Losses: []float64{4.0, 3.5}}))
}

func TestConfidenceScoreMultipliers(t *testing.T) {
	converged := &Run{Losses: []float64{1.0, 0.0}, Outcome: OutcomeConverged}
	exhausted := &Run{Losses: []float64{1.0, 0.0}, Outcome: OutcomeExhausted}
	timedOut := &Run{Losses: []float64{1.0, 0.0}, Outcome: OutcomeTimedOut}

	assert.InDelta(t, 0.9, ConfidenceScore(converged), 1e-12)
	assert.InDelta(t, 0.7, ConfidenceScore(exhausted), 1e-12)
	// Timed-out runs are treated like exhausted ones: no early-stop bonus.
	assert.InDelta(t, 0.7, ConfidenceScore(timedOut), 1e-12)
}

func TestConfidenceScoreScalesWithConvergence(t *testing.T) {
	r := &Run{Losses: []float64{2.0, 1.0}, Outcome: OutcomeConverged}
	assert.InDelta(t, 0.45, ConfidenceScore(r), 1e-12)
}
