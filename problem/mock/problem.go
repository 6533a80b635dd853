// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mock

import (
	"math/rand/v2"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/poiesic/frontier/core"
	"github.com/poiesic/frontier/problem"
)

// State is the snapshot type of the mock problem.
type State struct {
	Value float64
	Steps int
	Trail string
}

// MockProblem is a test double for problem.Problem[State].
type MockProblem struct {
	// ScoreFunc is called by Score if set.
	// If nil, the score is the state's Value.
	ScoreFunc func(s State, commits int64) float64

	// InitFunc is called by every worker's Init if set.
	InitFunc func() error

	// RestoreFunc is called by every worker's Restore if set. A non-nil
	// error leaves the worker's state unchanged.
	RestoreFunc func(s State) error

	// NumInputs bounds RandomInput to [0, NumInputs). Default 4.
	NumInputs int

	// Initial is the state new workers start in.
	Initial State

	commits    atomic.Int64
	scoreCalls atomic.Int64

	mu      sync.Mutex
	workers []*MockWorker
}

var _ problem.Problem[State] = (*MockProblem)(nil)

// NewMockProblem creates a mock problem with default behavior.
func NewMockProblem() *MockProblem {
	return &MockProblem{NumInputs: 4}
}

// WithScoreFunc sets ScoreFunc and returns the problem for chaining.
func (p *MockProblem) WithScoreFunc(fn func(s State, commits int64) float64) *MockProblem {
	p.ScoreFunc = fn
	return p
}

// WithRestoreFunc sets RestoreFunc and returns the problem for chaining.
func (p *MockProblem) WithRestoreFunc(fn func(s State) error) *MockProblem {
	p.RestoreFunc = fn
	return p
}

// WithInitial sets the initial state and returns the problem for chaining.
func (p *MockProblem) WithInitial(s State) *MockProblem {
	p.Initial = s
	return p
}

// CreateWorker returns a new worker in the initial state.
func (p *MockProblem) CreateWorker() problem.Worker[State] {
	w := &MockWorker{problem: p, state: p.Initial}
	p.mu.Lock()
	p.workers = append(p.workers, w)
	p.mu.Unlock()
	return w
}

// Score rates a state.
func (p *MockProblem) Score(s State) float64 {
	p.scoreCalls.Add(1)
	if p.ScoreFunc != nil {
		return p.ScoreFunc(s, p.commits.Load())
	}
	return s.Value
}

// Commit counts a consolidation.
func (p *MockProblem) Commit() {
	p.commits.Add(1)
}

// Commits returns how many times Commit was called.
func (p *MockProblem) Commits() int64 {
	return p.commits.Load()
}

// ScoreCalls returns how many times Score was called.
func (p *MockProblem) ScoreCalls() int64 {
	return p.scoreCalls.Load()
}

// Workers returns every worker created so far.
func (p *MockProblem) Workers() []*MockWorker {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*MockWorker, len(p.workers))
	copy(out, p.workers)
	return out
}

// MockWorker is the worker of MockProblem. Each worker is driven by one
// goroutine; the counters may be read from others.
type MockWorker struct {
	problem *MockProblem
	state   State

	inits    atomic.Int64
	restores atomic.Int64
	execs    atomic.Int64
	observes atomic.Int64
}

var _ problem.Worker[State] = (*MockWorker)(nil)

func (w *MockWorker) Init() error {
	w.inits.Add(1)
	if w.problem.InitFunc != nil {
		return w.problem.InitFunc()
	}
	return nil
}

func (w *MockWorker) Save() State {
	return w.state
}

func (w *MockWorker) Restore(s State) error {
	w.restores.Add(1)
	if w.problem.RestoreFunc != nil {
		if err := w.problem.RestoreFunc(s); err != nil {
			return err
		}
	}
	w.state = s
	return nil
}

func (w *MockWorker) RandomInput(rng *rand.Rand) core.Input {
	n := w.problem.NumInputs
	if n <= 0 {
		n = 4
	}
	return core.Input(rng.IntN(n))
}

// Exec adds the input's value to the running total.
func (w *MockWorker) Exec(in core.Input) {
	w.execs.Add(1)
	w.state.Value += float64(in)
	w.state.Steps++
	w.state.Trail += strconv.Itoa(int(in)) + ","
}

func (w *MockWorker) Observe() {
	w.observes.Add(1)
}

// Inits returns how many times Init was called.
func (w *MockWorker) Inits() int64 { return w.inits.Load() }

// Restores returns how many times Restore was called.
func (w *MockWorker) Restores() int64 { return w.restores.Load() }

// Execs returns how many inputs were executed.
func (w *MockWorker) Execs() int64 { return w.execs.Load() }

// Observes returns how many times Observe was called.
func (w *MockWorker) Observes() int64 { return w.observes.Load() }
