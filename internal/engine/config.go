package engine

import (
	"time"

	"adaptd/internal/pattern"
)

// Defaults applied when corresponding Config fields are unset.
const (
	DefaultMinSteps             = 2
	DefaultMaxSteps             = 8
	DefaultLearningRate         = 0.1
	DefaultConvergenceThreshold = 0.01
	DefaultConfidenceThreshold  = 0.7
	DefaultMaxWallClock         = 5 * time.Second
	DefaultMemoryLimitBytes     = 1 << 20
)

// DefaultRankSet is the bounded set of admissible adapter ranks.
var DefaultRankSet = []int{8, 16, 32, 64}

// Config encapsulates all tunables for Engine construction. It is built
// once at startup and never mutated afterwards.
type Config struct {
	// Patterns overrides the pattern registry; nil keeps the defaults.
	Patterns []pattern.Spec
	// RankSet is the admissible adapter ranks, smallest first.
	RankSet []int
	// MinSteps/MaxSteps bound the training loop.
	MinSteps int
	MaxSteps int
	// LearningRate for the trainer's update rule.
	LearningRate float64
	// ConvergenceThreshold is the per-step improvement below which training
	// early-stops.
	ConvergenceThreshold float64
	// ConfidenceThreshold gates trained adapters.
	ConfidenceThreshold float64
	// MaxWallClock is the hard budget for one adaptation attempt.
	MaxWallClock time.Duration
	// MemoryLimitBytes bounds an adapter's serialized size.
	MemoryLimitBytes int
}

// withDefaults fills unset fields with package defaults.
func (c Config) withDefaults() Config {
	if len(c.RankSet) == 0 {
		c.RankSet = append([]int(nil), DefaultRankSet...)
	}
	if c.MinSteps <= 0 {
		c.MinSteps = DefaultMinSteps
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = DefaultMaxSteps
	}
	if c.MaxSteps < c.MinSteps {
		c.MaxSteps = c.MinSteps
	}
	if c.LearningRate <= 0 {
		c.LearningRate = DefaultLearningRate
	}
	if c.ConvergenceThreshold <= 0 {
		c.ConvergenceThreshold = DefaultConvergenceThreshold
	}
	if c.ConfidenceThreshold <= 0 {
		c.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if c.MaxWallClock <= 0 {
		c.MaxWallClock = DefaultMaxWallClock
	}
	if c.MemoryLimitBytes <= 0 {
		c.MemoryLimitBytes = DefaultMemoryLimitBytes
	}
	return c
}
