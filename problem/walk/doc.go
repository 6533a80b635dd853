// Package walk is a small demonstration environment: a walker on an
// unbounded grid scattered with walls.
//
// The walker earns score for distance from the origin and loses score for
// standing on cells that workers have already reported visiting. Visits are
// buffered per worker by Observe and only folded into the scoring map by
// Commit, so the score of a state changes over time as the search commits
// what it has seen. This rewards exploring new territory rather than piling
// up nodes at the same distant cell.
package walk
