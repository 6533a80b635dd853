// Package problem defines the contract between the search engine and the
// environment it explores.
//
// A Problem is a black-box simulated environment. The engine never looks
// inside a state; it only saves, restores, advances and scores it:
//
//   - Problem.CreateWorker returns an independent instance for one
//     exploration thread. Workers are never shared between threads.
//   - Problem.Score maps a state to a real number, higher is better. It must
//     be a pure function of the state, except that Commit may change its
//     meaning going forward. Score is called concurrently from every thread.
//   - Problem.Commit folds the observations workers have accumulated (via
//     Worker.Observe) into the scoring function. The engine calls it only
//     from the exclusive maintenance pass, never concurrently with itself,
//     but Score calls from other threads may overlap it.
//
// Progress holds the non-functional reporting hooks (status text, progress
// fraction, frame counter) that a display reads without locking.
package problem
