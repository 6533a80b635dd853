package tree

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/poiesic/frontier/core"
	"github.com/poiesic/frontier/prio"
)

const tracerName = "github.com/poiesic/frontier/tree"

// NodeID addresses a node in a Tree's arena.
type NodeID int32

// NoNode is the NodeID of "no node", e.g. the parent of the root.
const NoNode NodeID = -1

// RootID is the NodeID of the root. The root is created with the tree and
// never replaced.
const RootID NodeID = 0

// Scorer is the part of the problem the tree needs.
type Scorer[S any] interface {
	Score(state S) float64
	Commit()
}

// Restorer is the part of a worker the tree needs to keep a caller's live
// state consistent with the node Extend returns.
type Restorer[S any] interface {
	Restore(state S) error
}

type node[S any] struct {
	// Always set at the root and at leaves.
	snapshot *S
	parent   NodeID
	// Sequence from the parent to this node. Empty at the root.
	edge     core.Seq
	children map[string]NodeID
	// Children in insertion order; kids[0] is the "first child".
	kids  []NodeID
	slot  *prio.Slot[NodeID]
	depth int
}

// Tree is the shared exploration tree. All methods are safe for concurrent
// use.
type Tree[S any] struct {
	mu     sync.Mutex
	nodes  []node[S]
	index  *prio.Index[NodeID]
	scorer Scorer[S]
	params Params

	stepsUntilMaintenance int
	maintenanceInProgress bool
	// Incremented under mu once per maintenance pass, after Commit.
	commitGen atomic.Uint64

	nodeCount atomic.Int64

	logger *slog.Logger
	tracer trace.Tracer
}

// Option configures a Tree.
type Option func(*options)

type options struct {
	params Params
	logger *slog.Logger
}

// WithParams sets the policy constants.
// Default is DefaultParams().
func WithParams(p Params) Option {
	return func(o *options) {
		o.params = p
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// New creates a tree whose root holds the given initial state.
func New[S any](scorer Scorer[S], root S, opts ...Option) *Tree[S] {
	core.Check(scorer != nil, "tree requires a scorer")
	o := &options{
		params: DefaultParams(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	t := &Tree[S]{
		index:                 prio.New[NodeID](),
		scorer:                scorer,
		params:                o.params,
		stepsUntilMaintenance: o.params.MaintenancePeriod,
		logger:                o.logger,
		tracer:                otel.Tracer(tracerName),
	}

	snapshot := root
	t.nodes = append(t.nodes, node[S]{
		snapshot: &snapshot,
		parent:   NoNode,
		children: make(map[string]NodeID),
	})
	t.nodes[RootID].slot = t.index.Insert(-scorer.Score(snapshot), RootID)
	return t
}

// Params returns the tree's policy constants.
func (t *Tree[S]) Params() Params {
	return t.params
}

// Root returns the root and its snapshot, which is always present.
func (t *Tree[S]) Root() (NodeID, *S) {
	t.mu.Lock()
	defer t.mu.Unlock()
	root := &t.nodes[RootID]
	core.Check(root.snapshot != nil, "root has no snapshot")
	return RootID, root.snapshot
}

// DescendRandom walks from n toward the leaves, picking uniformly random
// children. At each node holding a snapshot it stops early with probability
// DescendStop. It always returns a node with a snapshot.
func (t *Tree[S]) DescendRandom(rng *rand.Rand, n NodeID) (NodeID, *S) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.checkID(n)
	for {
		cur := &t.nodes[n]
		if len(cur.kids) == 0 {
			core.Check(cur.snapshot != nil, "leaf %d has no snapshot", n)
			return n, cur.snapshot
		}
		if cur.snapshot != nil && rng.Float64() < t.params.DescendStop {
			return n, cur.snapshot
		}
		n = cur.kids[rng.IntN(len(cur.kids))]
	}
}

// AscendRandom walks from n toward the root, moving past each node with
// probability AscendContinue. It always stops at the root.
func (t *Tree[S]) AscendRandom(rng *rand.Rand, n NodeID) NodeID {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.checkID(n)
	for t.nodes[n].parent != NoNode && rng.Float64() < t.params.AscendContinue {
		n = t.nodes[n].parent
	}
	return n
}

// SelectExtensionTarget picks the node to extend next. With probability
// SwitchToBest, or always if n has no snapshot, it samples the priority
// index starting at the best node and advancing with probability RankAdvance
// per step. Otherwise it returns n.
func (t *Tree[S]) SelectExtensionTarget(rng *rand.Rand, n NodeID) (NodeID, *S) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.checkID(n)

	cur := &t.nodes[n]
	if cur.snapshot != nil && rng.Float64() >= t.params.SwitchToBest {
		return n, cur.snapshot
	}

	size := t.index.Len()
	core.Check(size > 0, "priority index is empty")
	idx := 0
	for idx < size-1 && rng.Float64() < t.params.RankAdvance {
		idx++
	}
	id := t.index.At(idx).Value()
	snapshot := t.nodes[id].snapshot
	core.Check(snapshot != nil, "indexed node %d has no snapshot", id)
	return id, snapshot
}

// Extend records that applying seq at parent produced snapshot. If parent
// has no child for seq yet, a new child is created, indexed by its score,
// and returned.
//
// If another caller already recorded seq under parent, the new snapshot is
// discarded. Extend then follows first-child edges from the existing child to
// the nearest node with a snapshot, restores w to it and returns that node.
// Either way, on success w's live state matches the returned node.
func (t *Tree[S]) Extend(w Restorer[S], parent NodeID, seq core.Seq, snapshot *S) (NodeID, error) {
	core.Check(w != nil, "extend requires a worker")
	core.Check(snapshot != nil, "extend requires a snapshot")
	gen := t.commitGen.Load()
	score := t.scorer.Score(*snapshot)
	key := seq.Key()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.checkID(parent)

	if existing, ok := t.nodes[parent].children[key]; ok {
		collisionsTotal.Inc()
		id := existing
		for {
			cur := &t.nodes[id]
			if cur.snapshot != nil {
				if err := w.Restore(*cur.snapshot); err != nil {
					return NoNode, fmt.Errorf("%w: node %d: %w", ErrRestoreFailed, id, err)
				}
				return id, nil
			}
			core.Check(len(cur.kids) > 0, "leaf %d has no snapshot", id)
			id = cur.kids[0]
		}
	}

	// A maintenance pass committed while we were scoring; the score is stale.
	if t.commitGen.Load() != gen {
		score = t.scorer.Score(*snapshot)
	}

	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node[S]{
		snapshot: snapshot,
		parent:   parent,
		edge:     seq.Clone(),
		children: make(map[string]NodeID),
		depth:    t.nodes[parent].depth + 1,
	})
	p := &t.nodes[parent]
	p.children[key] = id
	p.kids = append(p.kids, id)
	t.nodes[id].slot = t.index.Insert(-score, id)

	t.nodeCount.Add(1)
	extensionsTotal.Inc()
	return id, nil
}

// Phase is a step of a maintenance pass.
type Phase int

const (
	// PhaseCommit consolidates the problem's observations.
	PhaseCommit Phase = iota
	// PhaseReheap rescores the index and applies the snapshot cap.
	PhaseReheap
)

func (p Phase) String() string {
	switch p {
	case PhaseCommit:
		return "commit"
	case PhaseReheap:
		return "reheap"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// PhaseFunc is called on the maintaining goroutine as a pass enters each
// phase. A nil PhaseFunc is ignored.
type PhaseFunc func(Phase)

// MaybeRunMaintenance counts down toward the next maintenance pass and runs
// it on the calling goroutine when the countdown expires. It returns true if
// this call ran the pass. While a pass is in progress other callers return
// immediately.
func (t *Tree[S]) MaybeRunMaintenance(ctx context.Context, onPhase PhaseFunc) bool {
	if t.params.MaintenancePeriod <= 0 {
		return false
	}
	t.mu.Lock()
	if t.maintenanceInProgress {
		t.mu.Unlock()
		return false
	}
	t.stepsUntilMaintenance--
	if t.stepsUntilMaintenance > 0 {
		t.mu.Unlock()
		return false
	}
	t.maintenanceInProgress = true
	t.mu.Unlock()

	t.runMaintenance(ctx, onPhase)
	return true
}

// Maintain runs a maintenance pass now, unless one is already in progress,
// in which case it returns false.
func (t *Tree[S]) Maintain(ctx context.Context, onPhase PhaseFunc) bool {
	t.mu.Lock()
	if t.maintenanceInProgress {
		t.mu.Unlock()
		return false
	}
	t.maintenanceInProgress = true
	t.mu.Unlock()

	t.runMaintenance(ctx, onPhase)
	return true
}

// runMaintenance must be called with maintenanceInProgress claimed.
func (t *Tree[S]) runMaintenance(ctx context.Context, onPhase PhaseFunc) {
	if onPhase == nil {
		onPhase = func(Phase) {}
	}
	_, span := t.tracer.Start(ctx, "tree.maintenance")
	defer span.End()
	start := time.Now()

	defer func() {
		t.mu.Lock()
		t.maintenanceInProgress = false
		t.stepsUntilMaintenance = t.params.MaintenancePeriod
		t.mu.Unlock()
	}()

	// Commit runs without the structural lock; other threads keep extending.
	onPhase(PhaseCommit)
	t.scorer.Commit()

	onPhase(PhaseReheap)
	t.mu.Lock()
	t.commitGen.Add(1)
	rescored, removed := t.reheapLocked()
	dropped := t.trimLocked()
	indexed := t.index.Len()
	total := len(t.nodes)
	t.mu.Unlock()

	elapsed := time.Since(start)
	maintenanceTotal.Inc()
	maintenanceDuration.Observe(elapsed.Seconds())
	snapshotsDroppedTotal.Add(float64(dropped))
	span.SetAttributes(
		attribute.Int("tree.nodes", total),
		attribute.Int("tree.indexed", indexed),
		attribute.Int("tree.rescored", rescored),
		attribute.Int("tree.dropped", dropped),
	)
	t.logger.Debug("maintenance pass complete",
		"nodes", total,
		"indexed", indexed,
		"rescored", rescored,
		"removed", removed,
		"dropped", dropped,
		"duration", elapsed)
}

// reheapLocked rescores every indexed node that has a snapshot and removes
// indexed nodes that have none.
func (t *Tree[S]) reheapLocked() (rescored, removed int) {
	stack := []NodeID{RootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[id]
		if n.slot != nil {
			if n.snapshot != nil {
				t.index.Adjust(n.slot, -t.scorer.Score(*n.snapshot))
				rescored++
			} else {
				t.index.Delete(n.slot)
				n.slot = nil
				removed++
			}
		}
		stack = append(stack, n.kids...)
	}
	return rescored, removed
}

// trimLocked enforces MaxIndexed by discarding the snapshots of the
// worst-scoring indexed interior nodes. The root and leaves keep theirs.
func (t *Tree[S]) trimLocked() int {
	limit := t.params.MaxIndexed
	if limit <= 0 || t.index.Len() <= limit {
		return 0
	}

	var candidates []NodeID
	for i := 0; i < t.index.Len(); i++ {
		id := t.index.At(i).Value()
		if id != RootID && len(t.nodes[id].kids) > 0 {
			candidates = append(candidates, id)
		}
	}
	// Worst first: largest key means lowest score.
	slices.SortFunc(candidates, func(a, b NodeID) int {
		ka, kb := t.nodes[a].slot.Key(), t.nodes[b].slot.Key()
		switch {
		case ka > kb:
			return -1
		case ka < kb:
			return 1
		}
		return int(b - a)
	})

	dropped := 0
	for _, id := range candidates {
		if t.index.Len() <= limit {
			break
		}
		n := &t.nodes[id]
		t.index.Delete(n.slot)
		n.slot = nil
		n.snapshot = nil
		dropped++
	}
	return dropped
}

// NodeCount returns the number of nodes added by Extend. The root is not
// counted. Safe to call without synchronization.
func (t *Tree[S]) NodeCount() int64 {
	return t.nodeCount.Load()
}

// IndexSize returns the number of nodes in the priority index.
func (t *Tree[S]) IndexSize() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.index.Len()
}

// Best returns the indexed node with the highest score, as of its last
// scoring.
func (t *Tree[S]) Best() (NodeID, float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	best := t.index.Min()
	core.Check(best != nil, "priority index is empty")
	return best.Value(), -best.Key()
}

// Path returns the action sequences leading from the root to n.
func (t *Tree[S]) Path(n NodeID) []core.Seq {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.checkID(n)
	path := make([]core.Seq, 0, t.nodes[n].depth)
	for ; n != RootID; n = t.nodes[n].parent {
		path = append(path, t.nodes[n].edge.Clone())
	}
	slices.Reverse(path)
	return path
}

// Parent returns n's parent, or NoNode for the root.
func (t *Tree[S]) Parent(n NodeID) NodeID {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.checkID(n)
	return t.nodes[n].parent
}

// Children returns n's children in insertion order.
func (t *Tree[S]) Children(n NodeID) []NodeID {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.checkID(n)
	return slices.Clone(t.nodes[n].kids)
}

// Child returns the child of n recorded for seq.
func (t *Tree[S]) Child(n NodeID, seq core.Seq) (NodeID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.checkID(n)
	id, ok := t.nodes[n].children[seq.Key()]
	return id, ok
}

// Snapshot returns n's snapshot, or nil if it has been discarded.
func (t *Tree[S]) Snapshot(n NodeID) *S {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.checkID(n)
	return t.nodes[n].snapshot
}

// Key returns n's priority key (its negated score) and whether n is indexed.
func (t *Tree[S]) Key(n NodeID) (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.checkID(n)
	if s := t.nodes[n].slot; s != nil {
		return s.Key(), true
	}
	return 0, false
}

// Depth returns the number of edges between the root and n.
func (t *Tree[S]) Depth(n NodeID) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.checkID(n)
	return t.nodes[n].depth
}

// CheckInvariants verifies the structural invariants of the whole tree:
// the root and every leaf hold a snapshot, every indexed node holds a
// snapshot and a live slot, parent and child links agree, and the node
// counter matches the arena.
func (t *Tree[S]) CheckInvariants() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.nodes[RootID].snapshot == nil {
		return fmt.Errorf("%w: root has no snapshot", ErrInvariant)
	}
	indexed := 0
	for i := range t.nodes {
		id := NodeID(i)
		n := &t.nodes[i]
		if len(n.kids) == 0 && n.snapshot == nil {
			return fmt.Errorf("%w: leaf %d has no snapshot", ErrInvariant, id)
		}
		if len(n.kids) != len(n.children) {
			return fmt.Errorf("%w: node %d has %d children but %d keys", ErrInvariant, id, len(n.kids), len(n.children))
		}
		for key, child := range n.children {
			c := &t.nodes[child]
			if c.parent != id {
				return fmt.Errorf("%w: child %d of %d points at parent %d", ErrInvariant, child, id, c.parent)
			}
			if c.edge.Key() != key {
				return fmt.Errorf("%w: child %d of %d stored under a different key", ErrInvariant, child, id)
			}
		}
		if n.slot != nil {
			indexed++
			if !t.index.Contains(n.slot) || n.slot.Value() != id {
				return fmt.Errorf("%w: node %d has a stale slot", ErrInvariant, id)
			}
			if n.snapshot == nil {
				return fmt.Errorf("%w: indexed node %d has no snapshot", ErrInvariant, id)
			}
		}
	}
	if indexed != t.index.Len() {
		return fmt.Errorf("%w: %d nodes hold slots but index has %d", ErrInvariant, indexed, t.index.Len())
	}
	if got := t.nodeCount.Load(); got != int64(len(t.nodes)-1) {
		return fmt.Errorf("%w: node count %d, arena holds %d non-root nodes", ErrInvariant, got, len(t.nodes)-1)
	}
	return nil
}

func (t *Tree[S]) checkID(n NodeID) {
	core.Check(n >= 0 && int(n) < len(t.nodes), "node %d out of range", n)
}
