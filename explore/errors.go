package explore

import "errors"

var (
	// ErrProblemRequired is returned when no problem is provided.
	ErrProblemRequired = errors.New("problem required")

	// ErrInvalidWorkerCount is returned by Start for a non-positive count.
	ErrInvalidWorkerCount = errors.New("worker count must be positive")

	// ErrInvalidStepSize is returned for a non-positive step size.
	ErrInvalidStepSize = errors.New("step size must be positive")

	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("explorer already started")

	// ErrNotRunning is returned by Stop before Start or after Stop.
	ErrNotRunning = errors.New("explorer not running")

	// ErrWorkerInit wraps a worker's Init failure.
	ErrWorkerInit = errors.New("worker init failed")

	// ErrThreadFailed wraps a non-error value a thread panicked with.
	ErrThreadFailed = errors.New("exploration thread failed")
)
