package explore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/frontier/problem"
	"github.com/poiesic/frontier/tree"
)

// Explorer coordinates a pool of exploration threads over one tree.
type Explorer[S any] struct {
	problem problem.Problem[S]
	opts    options
	logger  *slog.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	threads []*Thread[S]
	pool    *ants.Pool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	done    chan struct{}

	treeMu sync.Mutex
	tree   atomic.Pointer[tree.Tree[S]]

	failMu  sync.Mutex
	failure error
}

// ThreadStatus is a point-in-time view of one thread.
type ThreadStatus struct {
	ID         int
	State      State
	Status     string
	Numer      int64
	Denom      int64
	Frames     int64
	Iterations int64
	Target     tree.NodeID
}

// Status is a point-in-time view of the whole explorer.
type Status struct {
	// Nodes is the number of nodes added to the tree, excluding the root.
	Nodes   int64
	Threads []ThreadStatus
}

// antsLogger adapts slog.Logger to ants.Logger.
type antsLogger struct {
	logger *slog.Logger
}

var _ ants.Logger = (*antsLogger)(nil)

func (l *antsLogger) Printf(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

// New creates an explorer for the problem.
func New[S any](p problem.Problem[S], opts ...Option) (*Explorer[S], error) {
	if p == nil {
		return nil, ErrProblemRequired
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.stepSize <= 0 {
		return nil, ErrInvalidStepSize
	}
	return &Explorer[S]{
		problem: p,
		opts:    o,
		logger:  o.logger,
		done:    make(chan struct{}),
	}, nil
}

// Start spawns workers exploration threads. It may be called only once.
// Threads stop when Stop is called or ctx is canceled.
func (e *Explorer[S]) Start(ctx context.Context, workers int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return ErrAlreadyStarted
	}
	if workers <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkerCount, workers)
	}

	pool, err := ants.NewPool(workers,
		ants.WithPanicHandler(e.handlePanic),
		ants.WithLogger(&antsLogger{logger: e.logger}))
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	threads := make([]*Thread[S], workers)
	for i := range threads {
		threads[i] = newThread(e, i)
	}

	e.started = true
	e.pool = pool
	e.cancel = cancel
	e.threads = threads

	for _, t := range threads {
		e.wg.Add(1)
		if err := pool.Submit(func() {
			defer e.wg.Done()
			t.run(runCtx)
		}); err != nil {
			e.wg.Done()
			cancel()
			e.finish()
			return fmt.Errorf("submit thread %d: %w", t.id, err)
		}
	}
	go e.finish()

	e.logger.Info("explorer started", "workers", workers, "step_size", e.opts.stepSize)
	return nil
}

// finish waits for every thread, releases the pool and closes done. It runs
// exactly once per started explorer.
func (e *Explorer[S]) finish() {
	e.wg.Wait()
	e.pool.Release()
	close(e.done)
}

// Stop signals every thread to stop and waits until all have exited. It
// returns the first thread failure, if any.
func (e *Explorer[S]) Stop() error {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return ErrNotRunning
	}
	e.stopped = true
	cancel := e.cancel
	e.mu.Unlock()

	e.logger.Info("stopping explorer")
	cancel()
	<-e.done
	e.logger.Info("explorer stopped", "nodes", e.NodeCount())
	return e.Err()
}

// Done is closed once every thread has exited, whether because of Stop,
// cancellation of the Start context, or an iteration bound.
func (e *Explorer[S]) Done() <-chan struct{} {
	return e.done
}

// Err returns the first thread failure, or nil.
func (e *Explorer[S]) Err() error {
	e.failMu.Lock()
	defer e.failMu.Unlock()
	return e.failure
}

// Tree returns the shared tree, or nil if no thread has built it yet.
func (e *Explorer[S]) Tree() *tree.Tree[S] {
	return e.tree.Load()
}

// Threads returns the exploration threads.
func (e *Explorer[S]) Threads() []*Thread[S] {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Thread[S], len(e.threads))
	copy(out, e.threads)
	return out
}

// NodeCount returns the number of nodes added to the tree so far.
func (e *Explorer[S]) NodeCount() int64 {
	if t := e.Tree(); t != nil {
		return t.NodeCount()
	}
	return 0
}

// IsActive reports whether some thread is currently extending node n.
func (e *Explorer[S]) IsActive(n tree.NodeID) bool {
	for _, t := range e.Threads() {
		if t.Target() == n {
			return true
		}
	}
	return false
}

// Status reads every thread's published counters. Values are eventually
// consistent.
func (e *Explorer[S]) Status() Status {
	threads := e.Threads()
	st := Status{
		Nodes:   e.NodeCount(),
		Threads: make([]ThreadStatus, len(threads)),
	}
	for i, t := range threads {
		p := t.Progress().Snapshot()
		st.Threads[i] = ThreadStatus{
			ID:         t.ID(),
			State:      t.State(),
			Status:     p.Status,
			Numer:      p.Numer,
			Denom:      p.Denom,
			Frames:     p.Frames,
			Iterations: t.Iterations(),
			Target:     t.Target(),
		}
	}
	return st
}

// ensureTree returns the shared tree, building it from w's current state if
// this is the first thread to get here.
func (e *Explorer[S]) ensureTree(w problem.Worker[S]) *tree.Tree[S] {
	if t := e.tree.Load(); t != nil {
		return t
	}
	e.treeMu.Lock()
	defer e.treeMu.Unlock()
	if t := e.tree.Load(); t != nil {
		return t
	}
	e.logger.Info("initializing tree")
	t := tree.New(e.problem, w.Save(),
		tree.WithParams(e.opts.params),
		tree.WithLogger(e.logger))
	e.tree.Store(t)
	return t
}

// fail records the first thread failure and stops the remaining threads.
// It runs on the failing thread before the thread is counted as exited.
func (e *Explorer[S]) fail(v any) {
	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("%w: %v", ErrThreadFailed, v)
	}
	e.failMu.Lock()
	first := e.failure == nil
	if first {
		e.failure = err
	}
	e.failMu.Unlock()
	if first {
		e.cancel()
	}
}

func (e *Explorer[S]) handlePanic(v any) {
	e.logger.Error("exploration thread failed", "err", v)
	e.opts.fatal(v)
}
