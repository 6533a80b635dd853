package explore

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"

	"github.com/poiesic/frontier/core"
	"github.com/poiesic/frontier/problem"
	"github.com/poiesic/frontier/tree"
)

// State is a thread's position in its loop.
type State int32

const (
	StateIdle State = iota
	StateInit
	StateLoadRoot
	StateSelectTarget
	StateRestore
	StateAct
	StateObserve
	StateExtend
	StateMaintain
	StateCheckStop
	StateStopped
	StateFailed
)

var stateNames = [...]string{
	StateIdle:         "idle",
	StateInit:         "init",
	StateLoadRoot:     "load_root",
	StateSelectTarget: "select_target",
	StateRestore:      "restore",
	StateAct:          "act",
	StateObserve:      "observe",
	StateExtend:       "extend",
	StateMaintain:     "maintain",
	StateCheckStop:    "check_stop",
	StateStopped:      "stopped",
	StateFailed:       "failed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Thread drives one problem worker against the shared tree.
type Thread[S any] struct {
	id       int
	explorer *Explorer[S]
	worker   problem.Worker[S]
	rng      *rand.Rand
	logger   *slog.Logger

	progress   problem.Progress
	state      atomic.Int32
	active     atomic.Int32
	iterations atomic.Int64
}

func newThread[S any](e *Explorer[S], id int) *Thread[S] {
	name := fmt.Sprintf("worker_%d", id)
	t := &Thread[S]{
		id:       id,
		explorer: e,
		worker:   e.problem.CreateWorker(),
		rng:      rand.New(rand.NewPCG(core.StreamSeed(name, e.opts.seed))),
		logger:   e.logger.With("worker", id),
	}
	t.active.Store(int32(tree.NoNode))
	if pa, ok := t.worker.(problem.ProgressAware); ok {
		pa.AttachProgress(&t.progress)
	}
	return t
}

// ID returns the thread's index in the pool.
func (t *Thread[S]) ID() int { return t.id }

// State returns the thread's current loop state.
func (t *Thread[S]) State() State { return State(t.state.Load()) }

// Target returns the node the thread is currently extending, or
// tree.NoNode before its first selection.
func (t *Thread[S]) Target() tree.NodeID { return tree.NodeID(t.active.Load()) }

// Progress returns the thread's published counters.
func (t *Thread[S]) Progress() *problem.Progress { return &t.progress }

// Iterations returns the number of completed loop iterations.
func (t *Thread[S]) Iterations() int64 { return t.iterations.Load() }

func (t *Thread[S]) enter(s State, status string) {
	t.state.Store(int32(s))
	t.progress.SetStatus(status)
}

// maintenancePhase publishes the phase of a pass this thread is running.
func (t *Thread[S]) maintenancePhase(p tree.Phase) {
	switch p {
	case tree.PhaseCommit:
		t.progress.SetStatus("Tree: Commit observations")
	case tree.PhaseReheap:
		t.progress.SetStatus("Tree: Reheap")
	}
}

func (t *Thread[S]) run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			t.enter(StateFailed, "Failed")
			t.explorer.fail(r)
			panic(r)
		}
	}()
	threadsRunning.Inc()
	defer threadsRunning.Dec()

	t.enter(StateInit, "Init")
	if err := t.worker.Init(); err != nil {
		panic(fmt.Errorf("worker %d: %w: %w", t.id, ErrWorkerInit, err))
	}
	tr := t.explorer.ensureTree(t.worker)

	// The worker should already be in the root state, but establish the
	// invariant explicitly.
	t.enter(StateLoadRoot, "Load root")
	last, rootState := tr.Root()
	core.Check(rootState != nil, "root has no snapshot")
	if err := t.worker.Restore(*rootState); err != nil {
		panic(fmt.Errorf("worker %d: restore root: %w: %w", t.id, tree.ErrRestoreFailed, err))
	}
	t.logger.Info("exploration thread started")

	stepSize := int64(t.explorer.opts.stepSize)
	maxIterations := t.explorer.opts.maxIterations
	wander := t.explorer.opts.wander
	if maxIterations > 0 {
		t.progress.SetDenom(maxIterations * stepSize)
	}
	seq := make(core.Seq, stepSize)

	for i := int64(0); maxIterations <= 0 || i < maxIterations; i++ {
		// The worker's live state matches node last here.
		t.progress.SetNumer(i * stepSize)

		t.enter(StateSelectTarget, "Find start node")
		from := last
		if wander > 0 && t.rng.Float64() < wander {
			from, _ = tr.DescendRandom(t.rng, tr.AscendRandom(t.rng, last))
		}
		next, snapshot := tr.SelectExtensionTarget(t.rng, from)
		t.active.Store(int32(next))

		t.enter(StateRestore, "Load")
		core.Check(snapshot != nil, "target %d has no snapshot", next)
		if next != last {
			if err := t.worker.Restore(*snapshot); err != nil {
				panic(fmt.Errorf("worker %d: restore node %d: %w: %w", t.id, next, tree.ErrRestoreFailed, err))
			}
		}

		t.enter(StateAct, "Make inputs")
		for j := range seq {
			seq[j] = t.worker.RandomInput(t.rng)
		}
		t.progress.SetStatus("Execute inputs")
		for _, in := range seq {
			t.worker.Exec(in)
		}
		t.progress.AddFrames(stepSize)
		framesTotal.Add(float64(stepSize))

		t.enter(StateObserve, "Observe state")
		t.worker.Observe()

		t.enter(StateExtend, "Extend tree")
		out := t.worker.Save()
		id, err := tr.Extend(t.worker, next, seq, &out)
		if err != nil {
			panic(fmt.Errorf("worker %d: extend node %d: %w", t.id, next, err))
		}
		last = id

		t.enter(StateMaintain, "Tree: maintenance")
		if tr.MaybeRunMaintenance(ctx, t.maintenancePhase) {
			t.logger.Debug("ran maintenance pass", "nodes", tr.NodeCount())
		}

		t.iterations.Add(1)
		iterationsTotal.Inc()

		t.enter(StateCheckStop, "Check for stop")
		if ctx.Err() != nil {
			break
		}
	}

	t.progress.SetNumer(t.iterations.Load() * stepSize)
	t.enter(StateStopped, "Stopped")
	t.logger.Info("exploration thread stopped", "iterations", t.iterations.Load())
}
