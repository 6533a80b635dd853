package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeqKey(t *testing.T) {
	tests := []struct {
		name string
		a, b Seq
		same bool
	}{
		{name: "identical sequences", a: Seq{1, 2, 3}, b: Seq{1, 2, 3}, same: true},
		{name: "empty sequences", a: Seq{}, b: nil, same: true},
		{name: "different order", a: Seq{1, 2}, b: Seq{2, 1}, same: false},
		{name: "prefix", a: Seq{1, 2}, b: Seq{1, 2, 0}, same: false},
		{name: "multi-byte varint vs split bytes", a: Seq{300}, b: Seq{172, 2}, same: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.same, tt.a.Key() == tt.b.Key())
		})
	}
}

func TestSeqFromKey(t *testing.T) {
	seq := Seq{0, 1, 127, 128, 65535, 1 << 31}

	decoded, err := SeqFromKey(seq.Key())
	require.NoError(t, err)
	assert.True(t, seq.Equal(decoded))

	empty, err := SeqFromKey("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSeqClone(t *testing.T) {
	seq := Seq{4, 5, 6}
	clone := seq.Clone()
	clone[0] = 9

	assert.Equal(t, Input(4), seq[0])
	assert.False(t, seq.Equal(clone))
}

func TestCheck(t *testing.T) {
	assert.NotPanics(t, func() { Check(true, "never") })

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(*InvariantError)
		require.True(t, ok)
		assert.Contains(t, err.Error(), "leaf 7 has no snapshot")
	}()
	Check(false, "leaf %d has no snapshot", 7)
}

func TestStreamSeed(t *testing.T) {
	a1, a2 := StreamSeed("worker_0", 1)
	b1, b2 := StreamSeed("worker_0", 1)
	c1, c2 := StreamSeed("worker_1", 1)
	d1, d2 := StreamSeed("worker_0", 2)

	assert.Equal(t, a1, b1)
	assert.Equal(t, a2, b2)
	assert.False(t, a1 == c1 && a2 == c2, "distinct names should give distinct streams")
	assert.False(t, a1 == d1 && a2 == d2, "distinct run seeds should give distinct streams")
}

func TestRecording(t *testing.T) {
	rec := NewRecording("walk", 3, 1.5, 10, []Seq{{1, 2}, {}, {3}})
	assert.NotEqual(t, RecordingID{}, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Equal(t, 3, rec.Inputs())
	assert.Equal(t, Seq{1, 2, 3}, rec.Flatten())

	other := NewRecording("walk", 3, 1.5, 10, nil)
	assert.NotEqual(t, rec.ID, other.ID)
	assert.Empty(t, other.Flatten())
}

func TestParseRecordingID(t *testing.T) {
	id := NewRecordingID()
	parsed, err := ParseRecordingID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
	assert.Len(t, id.String(), 36)

	_, err = ParseRecordingID("not-an-id")
	assert.Error(t, err)
}

func TestRecordingMUS(t *testing.T) {
	rec := Recording{
		ID:        NewRecordingID(),
		Problem:   "walk",
		Seed:      9,
		Score:     -1.25,
		Nodes:     77,
		Steps:     []Seq{{1, 2, 300000}, {0}},
		CreatedAt: time.UnixMicro(1700000000123456),
	}
	buf := make([]byte, RecordingMUS.Size(rec))
	n := RecordingMUS.Marshal(rec, buf)
	require.Equal(t, len(buf), n)

	skipped, err := RecordingMUS.Skip(buf)
	require.NoError(t, err)
	assert.Equal(t, n, skipped)

	decoded, used, err := RecordingMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, n, used)
	assert.Equal(t, rec.ID, decoded.ID)
	assert.Equal(t, rec.Steps, decoded.Steps)
	assert.Equal(t, rec.Score, decoded.Score)
	assert.True(t, rec.CreatedAt.Equal(decoded.CreatedAt))
}
