package walk

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/poiesic/frontier/core"
	"github.com/poiesic/frontier/problem"
)

// Inputs understood by the walker.
const (
	Stay core.Input = iota
	North
	South
	East
	West
	numInputs
)

// State is the walker's snapshot.
type State struct {
	X, Y  int32
	Moves int64
}

type cell struct{ x, y int32 }

// Config holds the environment parameters.
type Config struct {
	// WallDensity is the fraction of cells, in [0, 1), that are walls.
	WallDensity float64
	// NoveltyWeight scales the penalty for revisiting committed cells.
	NoveltyWeight float64
	// Seed selects the wall layout.
	Seed uint64
}

// DefaultConfig returns a layout with 20% walls and a unit novelty weight.
func DefaultConfig() Config {
	return Config{WallDensity: 0.2, NoveltyWeight: 1.0, Seed: 1}
}

// Problem is the grid walker environment.
type Problem struct {
	cfg Config

	mu      sync.RWMutex
	visits  map[cell]int64
	workers []*Worker
}

var _ problem.Problem[State] = (*Problem)(nil)

// ErrInvalidConfig is returned by New for out-of-range parameters.
var ErrInvalidConfig = errors.New("invalid walk config")

// New creates a walker environment.
func New(cfg Config) (*Problem, error) {
	if cfg.WallDensity < 0 || cfg.WallDensity >= 1 {
		return nil, errors.Join(ErrInvalidConfig, errors.New("wall density must be in [0, 1)"))
	}
	if cfg.NoveltyWeight < 0 {
		return nil, errors.Join(ErrInvalidConfig, errors.New("novelty weight must be non-negative"))
	}
	return &Problem{cfg: cfg, visits: make(map[cell]int64)}, nil
}

// CreateWorker returns a walker at the origin.
func (p *Problem) CreateWorker() problem.Worker[State] {
	w := &Worker{problem: p, pending: make(map[cell]int64)}
	p.mu.Lock()
	p.workers = append(p.workers, w)
	p.mu.Unlock()
	return w
}

// Score is the Manhattan distance from the origin minus a penalty that
// grows with the number of committed visits to the walker's cell.
func (p *Problem) Score(s State) float64 {
	p.mu.RLock()
	visits := p.visits[cell{s.X, s.Y}]
	p.mu.RUnlock()
	dist := math.Abs(float64(s.X)) + math.Abs(float64(s.Y))
	return dist - p.cfg.NoveltyWeight*math.Log1p(float64(visits))
}

// Commit folds every worker's pending visits into the scoring map.
func (p *Problem) Commit() {
	p.mu.RLock()
	workers := make([]*Worker, len(p.workers))
	copy(workers, p.workers)
	p.mu.RUnlock()

	merged := make(map[cell]int64)
	for _, w := range workers {
		for c, n := range w.drain() {
			merged[c] += n
		}
	}

	p.mu.Lock()
	for c, n := range merged {
		p.visits[c] += n
	}
	p.mu.Unlock()
}

// Visits returns the committed visit count of a cell.
func (p *Problem) Visits(x, y int32) int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.visits[cell{x, y}]
}

// IsWall reports whether the cell at (x, y) is blocked. The origin never is.
func (p *Problem) IsWall(x, y int32) bool {
	if x == 0 && y == 0 {
		return false
	}
	h := p.cfg.Seed ^ uint64(uint32(x))<<32 ^ uint64(uint32(y))
	// splitmix64 finalizer
	h += 0x9e3779b97f4a7c15
	h = (h ^ (h >> 30)) * 0xbf58476d1ce4e5b9
	h = (h ^ (h >> 27)) * 0x94d049bb133111eb
	h ^= h >> 31
	return float64(h>>11)/float64(1<<53) < p.cfg.WallDensity
}

// Worker is one walker.
type Worker struct {
	problem  *Problem
	state    State
	progress *problem.Progress

	mu      sync.Mutex
	pending map[cell]int64
}

var (
	_ problem.Worker[State] = (*Worker)(nil)
	_ problem.ProgressAware = (*Worker)(nil)
)

func (w *Worker) Init() error {
	w.state = State{}
	return nil
}

func (w *Worker) Save() State { return w.state }

func (w *Worker) Restore(s State) error {
	if w.problem.IsWall(s.X, s.Y) {
		return errors.New("walk: cannot restore into a wall")
	}
	w.state = s
	return nil
}

func (w *Worker) RandomInput(rng *rand.Rand) core.Input {
	return core.Input(rng.IntN(int(numInputs)))
}

// Exec moves one cell unless the destination is a wall.
func (w *Worker) Exec(in core.Input) {
	x, y := w.state.X, w.state.Y
	switch in {
	case North:
		y--
	case South:
		y++
	case East:
		x++
	case West:
		x--
	}
	if !w.problem.IsWall(x, y) {
		w.state.X, w.state.Y = x, y
	}
	w.state.Moves++
}

// Observe buffers a visit to the current cell until the next Commit.
func (w *Worker) Observe() {
	w.mu.Lock()
	w.pending[cell{w.state.X, w.state.Y}]++
	w.mu.Unlock()
	if w.progress != nil {
		w.progress.SetStatus(fmt.Sprintf("Observe (%d,%d)", w.state.X, w.state.Y))
	}
}

func (w *Worker) AttachProgress(p *problem.Progress) {
	w.progress = p
}

func (w *Worker) drain() map[cell]int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.pending
	w.pending = make(map[cell]int64)
	return out
}
