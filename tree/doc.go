// Package tree implements the shared exploration tree.
//
// The tree is rooted at the problem's initial state and only grows: nodes are
// added by Extend and never removed. Each node may hold a snapshot of the
// problem state it represents. The root and every leaf always hold one;
// interior nodes may lose theirs when the retention cap is exceeded, since
// they can be reconstructed by replaying the path from an ancestor.
//
// Nodes live in an arena owned by the Tree and are addressed by NodeID.
// Children are keyed by the action sequence that produced them, so recording
// the same sequence twice under one parent yields a single child.
//
// A priority index over the nodes, keyed by negated score, lets callers
// sample extension targets weighted toward the best-scoring nodes.
// Periodically one caller runs a maintenance pass that lets the problem
// commit its observations and then rescores every indexed node.
//
// # Concurrency
//
// All structural state (arena, children, index, maintenance bookkeeping) is
// guarded by a single mutex. Scoring new snapshots happens outside it; if a
// maintenance pass commits in the meantime, Extend scores the snapshot again
// under the mutex before indexing it. The maintenance pass holds the mutex for one walk of the whole tree; other
// callers block for that duration.
package tree
