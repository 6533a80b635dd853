package tree

import "errors"

var (
	// ErrRestoreFailed is returned by Extend when the caller's worker could
	// not be restored to the node chosen after a key collision.
	ErrRestoreFailed = errors.New("restore failed")

	// ErrInvariant is wrapped by the errors CheckInvariants reports.
	ErrInvariant = errors.New("tree invariant violated")
)
