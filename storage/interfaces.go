package storage

import (
	"context"

	"github.com/poiesic/frontier/core"
)

// RecordingRepository stores the trajectories exported by runs.
// Implementations must be thread-safe and support concurrent access.
type RecordingRepository interface {
	// SaveRecording stores a recording under its ID.
	// Returns ErrDuplicateKey if a recording with that ID already exists.
	// Sets CreatedAt if it is zero.
	SaveRecording(ctx context.Context, rec *core.Recording) error

	// GetRecording retrieves a recording by ID.
	// Returns ErrNotFound if the recording doesn't exist.
	GetRecording(ctx context.Context, id core.RecordingID) (*core.Recording, error)

	// ListRecordings returns up to limit recordings, most recent first.
	// A limit of zero or less returns all of them.
	ListRecordings(ctx context.Context, limit int) ([]*core.Recording, error)

	// DeleteRecording removes a recording by ID.
	// Returns ErrNotFound if the recording doesn't exist.
	DeleteRecording(ctx context.Context, id core.RecordingID) error

	// Close releases resources held by the repository. It does not close the
	// underlying backend.
	Close() error
}
