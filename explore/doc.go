// Package explore runs a pool of exploration threads over a shared tree.
//
// An Explorer owns the tree, the threads and the shutdown signal. Start
// spawns one Thread per worker. Each thread drives its own problem worker
// through the same cycle:
//
//	INIT -> LOAD_ROOT -> { SELECT_TARGET -> RESTORE -> ACT -> OBSERVE ->
//	    EXTEND -> MAINTAIN -> CHECK_STOP } -> ... -> STOPPED
//
// The first thread to reach LOAD_ROOT builds the tree from its worker's
// initial state; every other thread uses that tree. Before each iteration a
// thread's live worker state matches the tree node it last visited.
//
// Stop cancels the shared context and waits for every thread. Threads check
// for cancellation once per iteration, so shutdown latency is bounded by the
// time to execute one action sequence.
//
// Threads publish their state, status text, progress counters and current
// target node for display; Status reads them without touching the tree lock.
//
// # Failure
//
// A worker that fails to initialize or restore, or a broken tree invariant,
// is fatal. The failing thread's panic is caught by the pool, logged, and
// handed to the fatal handler, which by default re-panics and terminates
// the process. If the handler returns instead, the remaining threads are
// stopped and Stop reports the failure.
package explore
