package engine

import (
	"testing"

	"adaptd/internal/adapter"
	"adaptd/internal/training"
	"adaptd/pkg/types"
)

func testGate() Gate {
	return Gate{ConfidenceThreshold: 0.7, MemoryLimitBytes: 1 << 20, MinSteps: 2}
}

func goodRun() *training.Run {
	return &training.Run{Losses: []float64{0.5, 0.05}, Outcome: training.OutcomeConverged}
}

func TestGateAcceptsConvergedRun(t *testing.T) {
	ad := adapter.New(8, 16, "preamble")
	dec := testGate().Evaluate(ad, goodRun())
	if !dec.Accepted {
		t.Fatalf("expected accept, got reason=%s err=%v", dec.Reason, dec.Err)
	}
	if dec.Adapter != ad {
		t.Fatalf("accepted decision must carry the adapter")
	}
	if ad.Confidence <= 0 || ad.Convergence <= 0 {
		t.Fatalf("scores not filled in: %+v", ad)
	}
}

func TestGateRejectsNilRunAsTimeout(t *testing.T) {
	ad := adapter.New(8, 16, "")
	dec := testGate().Evaluate(ad, nil)
	if dec.Accepted || dec.Reason != types.ReasonTimeout {
		t.Fatalf("expected timeout rejection, got %+v", dec)
	}
}

func TestGateRejectsShortRunAsTimeout(t *testing.T) {
	ad := adapter.New(8, 16, "")
	run := &training.Run{Losses: []float64{0.1}, Outcome: training.OutcomeTimedOut}
	dec := testGate().Evaluate(ad, run)
	if dec.Accepted || dec.Reason != types.ReasonTimeout {
		t.Fatalf("expected timeout rejection, got %+v", dec)
	}
}

func TestGateRejectsLowConfidence(t *testing.T) {
	ad := adapter.New(8, 16, "")
	// Final loss 2.0 scores zero convergence, hence zero confidence.
	run := &training.Run{Losses: []float64{2.5, 2.0}, Outcome: training.OutcomeExhausted}
	dec := testGate().Evaluate(ad, run)
	if dec.Accepted || dec.Reason != types.ReasonLowConfidence {
		t.Fatalf("expected low-confidence rejection, got %+v", dec)
	}
	if dec.Err == nil {
		t.Fatalf("rejection must carry a cause")
	}
}

func TestGateConfidenceCheckedBeforeSize(t *testing.T) {
	g := testGate()
	g.MemoryLimitBytes = 1
	ad := adapter.New(8, 16, "")
	run := &training.Run{Losses: []float64{2.5, 2.0}, Outcome: training.OutcomeExhausted}
	dec := g.Evaluate(ad, run)
	if dec.Reason != types.ReasonLowConfidence {
		t.Fatalf("confidence must be checked before size, got %s", dec.Reason)
	}
}

func TestGateRejectsOversizedAdapter(t *testing.T) {
	g := testGate()
	g.MemoryLimitBytes = 64
	ad := adapter.New(8, 16, "")
	dec := g.Evaluate(ad, goodRun())
	if dec.Accepted || dec.Reason != types.ReasonMemoryLimitExceeded {
		t.Fatalf("expected memory-limit rejection, got %+v", dec)
	}
}
