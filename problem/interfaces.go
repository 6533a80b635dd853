package problem

import (
	"math/rand/v2"

	"github.com/poiesic/frontier/core"
)

// Problem is the environment being explored. S is the snapshot type: a
// complete copy of a worker's state, sufficient to resume execution.
// Snapshots handed to the engine are treated as immutable.
type Problem[S any] interface {
	// CreateWorker returns a new worker owned by a single exploration thread.
	CreateWorker() Worker[S]

	// Score rates a snapshot. Safe for concurrent use.
	Score(state S) float64

	// Commit consolidates observations accumulated by all workers.
	Commit()
}

// Worker is one live instance of the problem.
type Worker[S any] interface {
	// Init prepares the worker. Called once, before any other method.
	Init() error

	// Save returns a snapshot of the worker's current state.
	Save() S

	// Restore replaces the worker's state with the snapshot.
	Restore(state S) error

	// RandomInput draws an input using the caller's random stream.
	RandomInput(rng *rand.Rand) core.Input

	// Exec advances the worker by one input.
	Exec(input core.Input)

	// Observe records whatever incidental signal the problem needs for
	// scoring or consolidation, based on the current state.
	Observe()
}

// ProgressAware is implemented by workers that want to publish their own
// status or frame counts in addition to what the exploration thread reports.
type ProgressAware interface {
	AttachProgress(p *Progress)
}
