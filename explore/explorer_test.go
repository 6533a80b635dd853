package explore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/frontier/problem/mock"
	"github.com/poiesic/frontier/tree"
)

// waitDone fails the test if the explorer does not finish within a few
// seconds.
func waitDone(t *testing.T, e *Explorer[mock.State]) {
	t.Helper()
	select {
	case <-e.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("explorer did not finish")
	}
}

// captureFatal returns an option that records fatal values instead of
// terminating the process.
func captureFatal() (Option, <-chan any) {
	ch := make(chan any, 16)
	return WithFatalHandler(func(v any) { ch <- v }), ch
}

func TestNew(t *testing.T) {
	t.Run("requires problem", func(t *testing.T) {
		_, err := New[mock.State](nil)
		assert.ErrorIs(t, err, ErrProblemRequired)
	})

	t.Run("rejects step size", func(t *testing.T) {
		_, err := New[mock.State](mock.NewMockProblem(), WithStepSize(0))
		assert.ErrorIs(t, err, ErrInvalidStepSize)
	})

	t.Run("idle explorer", func(t *testing.T) {
		e, err := New[mock.State](mock.NewMockProblem())
		require.NoError(t, err)
		assert.Nil(t, e.Tree())
		assert.Equal(t, int64(0), e.NodeCount())
		assert.Empty(t, e.Status().Threads)
		assert.False(t, e.IsActive(tree.RootID))
	})
}

func TestStartStopMisuse(t *testing.T) {
	e, err := New[mock.State](mock.NewMockProblem(), WithStepSize(1))
	require.NoError(t, err)

	assert.ErrorIs(t, e.Stop(), ErrNotRunning)
	assert.ErrorIs(t, e.Start(context.Background(), 0), ErrInvalidWorkerCount)

	require.NoError(t, e.Start(context.Background(), 1))
	assert.ErrorIs(t, e.Start(context.Background(), 1), ErrAlreadyStarted)

	require.NoError(t, e.Stop())
	assert.ErrorIs(t, e.Stop(), ErrNotRunning)
}

func TestSingleIteration(t *testing.T) {
	p := mock.NewMockProblem().WithInitial(mock.State{Value: 10})
	params := tree.DefaultParams()
	params.MaintenancePeriod = 0
	e, err := New[mock.State](p,
		WithStepSize(1),
		WithMaxIterations(1),
		WithTreeParams(params))
	require.NoError(t, err)

	require.NoError(t, e.Start(context.Background(), 1))
	waitDone(t, e)
	require.NoError(t, e.Stop())

	tr := e.Tree()
	require.NotNil(t, tr)
	assert.Equal(t, int64(1), tr.NodeCount())
	assert.Equal(t, 2, tr.IndexSize())
	assert.Len(t, tr.Children(tree.RootID), 1)
	require.NoError(t, tr.CheckInvariants())

	workers := p.Workers()
	require.Len(t, workers, 1)
	assert.Equal(t, int64(1), workers[0].Inits())
	assert.Equal(t, int64(1), workers[0].Execs())
	assert.Equal(t, int64(1), workers[0].Observes())

	// The only possible target was the root.
	assert.True(t, e.IsActive(tree.RootID))
	assert.False(t, e.IsActive(tree.RootID+1))
}

func TestBoundedRun(t *testing.T) {
	p := mock.NewMockProblem()
	params := tree.DefaultParams()
	params.MaintenancePeriod = 25
	e, err := New[mock.State](p,
		WithStepSize(2),
		WithMaxIterations(50),
		WithWander(0.25),
		WithTreeParams(params))
	require.NoError(t, err)

	require.NoError(t, e.Start(context.Background(), 4))
	waitDone(t, e)
	require.NoError(t, e.Stop())

	status := e.Status()
	require.Len(t, status.Threads, 4)
	var iterations int64
	for _, ts := range status.Threads {
		assert.Equal(t, StateStopped, ts.State)
		assert.Equal(t, "Stopped", ts.Status)
		assert.Equal(t, int64(50), ts.Iterations)
		assert.Equal(t, int64(100), ts.Numer)
		assert.Equal(t, int64(100), ts.Denom)
		assert.Equal(t, int64(100), ts.Frames)
		assert.NotEqual(t, tree.NoNode, ts.Target)
		iterations += ts.Iterations
	}

	tr := e.Tree()
	assert.Equal(t, tr.NodeCount(), status.Nodes)
	assert.Positive(t, status.Nodes)
	assert.LessOrEqual(t, status.Nodes, iterations)
	assert.Positive(t, p.Commits())
	require.NoError(t, tr.CheckInvariants())

	for _, w := range p.Workers() {
		assert.Equal(t, int64(1), w.Inits())
		assert.Equal(t, int64(100), w.Execs())
	}
}

func TestStopTerminatesThreads(t *testing.T) {
	e, err := New[mock.State](mock.NewMockProblem(), WithStepSize(3))
	require.NoError(t, err)

	require.NoError(t, e.Start(context.Background(), 3))
	require.Eventually(t, func() bool {
		return e.NodeCount() > 20
	}, 5*time.Second, time.Millisecond)

	require.NoError(t, e.Stop())
	waitDone(t, e)
	for _, ts := range e.Status().Threads {
		assert.Equal(t, StateStopped, ts.State)
		assert.Zero(t, ts.Denom)
	}
	require.NoError(t, e.Tree().CheckInvariants())
}

func TestContextCancelStopsThreads(t *testing.T) {
	e, err := New[mock.State](mock.NewMockProblem(), WithStepSize(1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, e.Start(ctx, 2))
	cancel()
	waitDone(t, e)

	// Stop still succeeds once after the threads have exited.
	require.NoError(t, e.Stop())
}

func TestSeedDeterminism(t *testing.T) {
	run := func(seed uint64) (int64, float64) {
		p := mock.NewMockProblem().WithScoreFunc(func(s mock.State, _ int64) float64 {
			return s.Value - float64(s.Steps)
		})
		e, err := New[mock.State](p,
			WithStepSize(4),
			WithMaxIterations(200),
			WithSeed(seed))
		require.NoError(t, err)
		require.NoError(t, e.Start(context.Background(), 1))
		waitDone(t, e)
		require.NoError(t, e.Stop())
		_, score := e.Tree().Best()
		return e.NodeCount(), score
	}

	n1, s1 := run(7)
	n2, s2 := run(7)
	assert.Equal(t, n1, n2)
	assert.Equal(t, s1, s2)
}

func TestWorkerInitFailure(t *testing.T) {
	p := mock.NewMockProblem()
	p.InitFunc = func() error { return errors.New("no rom") }
	fatal, fatals := captureFatal()
	e, err := New[mock.State](p, WithStepSize(1), fatal)
	require.NoError(t, err)

	require.NoError(t, e.Start(context.Background(), 2))
	waitDone(t, e)

	select {
	case v := <-fatals:
		assert.ErrorIs(t, v.(error), ErrWorkerInit)
	case <-time.After(5 * time.Second):
		t.Fatal("fatal handler not called")
	}

	err = e.Stop()
	assert.ErrorIs(t, err, ErrWorkerInit)
	assert.Equal(t, StateFailed, e.Status().Threads[0].State)
}

func TestRestoreFailure(t *testing.T) {
	p := mock.NewMockProblem().WithRestoreFunc(func(mock.State) error {
		return errors.New("bad snapshot")
	})
	fatal, fatals := captureFatal()
	e, err := New[mock.State](p, WithStepSize(1), fatal)
	require.NoError(t, err)

	require.NoError(t, e.Start(context.Background(), 1))
	waitDone(t, e)
	require.Eventually(t, func() bool { return len(fatals) == 1 }, 5*time.Second, time.Millisecond)

	err = e.Stop()
	assert.ErrorIs(t, err, tree.ErrRestoreFailed)
	assert.Equal(t, int64(0), e.NodeCount())
}

func TestThreadFailureStopsOthers(t *testing.T) {
	p := mock.NewMockProblem()
	p.RestoreFunc = func(s mock.State) error {
		// Fail only once the tree has grown past depth ten.
		if s.Steps >= 30 {
			return errors.New("corrupt")
		}
		return nil
	}
	fatal, _ := captureFatal()
	e, err := New[mock.State](p, WithStepSize(3), fatal)
	require.NoError(t, err)

	require.NoError(t, e.Start(context.Background(), 3))
	waitDone(t, e)
	assert.ErrorIs(t, e.Stop(), tree.ErrRestoreFailed)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "select_target", StateSelectTarget.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "State(99)", State(99).String())
}

func TestMaintenancePhaseStatus(t *testing.T) {
	e, err := New[mock.State](mock.NewMockProblem())
	require.NoError(t, err)
	th := newThread(e, 0)

	th.maintenancePhase(tree.PhaseCommit)
	assert.Equal(t, "Tree: Commit observations", th.Progress().Status())
	th.maintenancePhase(tree.PhaseReheap)
	assert.Equal(t, "Tree: Reheap", th.Progress().Status())
}
