// Package mock provides a deterministic test double for problem.Problem.
//
// The mock environment is a running total: each input adds its own value to
// the state, and the default score is that total. Tests can replace the
// scoring function, inject init and restore failures, and read call counts.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	p := mock.NewMockProblem()
//	w := p.CreateWorker()
//
//	// Scores that depend on how many commits have happened
//	p := mock.NewMockProblem().
//	    WithScoreFunc(func(s mock.State, commits int64) float64 {
//	        return s.Value - float64(commits)
//	    })
//
//	// Check call counts
//	commits := p.Commits()
package mock
