package core

//go:generate go run ../cmd/musgen

import (
	"time"

	"github.com/google/uuid"
)

// RecordingID identifies a stored recording.
type RecordingID uuid.UUID

// NewRecordingID returns a random recording ID.
func NewRecordingID() RecordingID {
	return RecordingID(uuid.New())
}

// ParseRecordingID parses the canonical string form of an ID.
func ParseRecordingID(s string) (RecordingID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return RecordingID{}, err
	}
	return RecordingID(id), nil
}

func (id RecordingID) String() string {
	return uuid.UUID(id).String()
}

// Recording is the best trajectory found by a run: the action sequences
// that lead from the root to the best-scoring node.
type Recording struct {
	ID RecordingID
	// Problem names the environment the run explored, e.g. "walk".
	Problem string
	// Seed is the run-wide seed the threads derived their streams from.
	Seed uint64
	// Score of the final node when the run stopped.
	Score float64
	// Nodes is the tree size when the run stopped, excluding the root.
	Nodes     int64
	Steps     []Seq
	CreatedAt time.Time
}

// NewRecording creates a recording with a fresh ID and the current time.
func NewRecording(problem string, seed uint64, score float64, nodes int64, steps []Seq) *Recording {
	return &Recording{
		ID:        NewRecordingID(),
		Problem:   problem,
		Seed:      seed,
		Score:     score,
		Nodes:     nodes,
		Steps:     steps,
		CreatedAt: time.Now().UTC(),
	}
}

// Inputs returns the total number of inputs across all steps.
func (r *Recording) Inputs() int {
	n := 0
	for _, s := range r.Steps {
		n += len(s)
	}
	return n
}

// Flatten returns every input in replay order.
func (r *Recording) Flatten() Seq {
	out := make(Seq, 0, r.Inputs())
	for _, s := range r.Steps {
		out = append(out, s...)
	}
	return out
}
