package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/frontier/core"
)

func TestMarshalUnmarshalID(t *testing.T) {
	id := core.NewRecordingID()
	data := MarshalID(id)
	require.Len(t, data, 17)

	decoded, err := UnmarshalID(data)
	require.NoError(t, err)
	assert.Equal(t, id, decoded)

	_, err = UnmarshalID(nil)
	assert.ErrorIs(t, err, ErrTruncatedData)

	_, err = UnmarshalID(data[:10])
	assert.ErrorIs(t, err, ErrTruncatedData)

	_, err = UnmarshalID(append(append([]byte(nil), data...), 0))
	assert.ErrorIs(t, err, ErrSerializationFailed)

	overflow := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	_, err = UnmarshalID(overflow)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalRecording(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name string
		rec  *core.Recording
	}{
		{
			name: "no steps",
			rec: &core.Recording{
				ID:        core.NewRecordingID(),
				Problem:   "walk",
				Score:     -3.5,
				CreatedAt: now,
			},
		},
		{
			name: "several steps",
			rec: &core.Recording{
				ID:        core.NewRecordingID(),
				Problem:   "walk",
				Seed:      1<<63 + 5,
				Score:     42.25,
				Nodes:     123456,
				Steps:     []core.Seq{{1, 2, 3}, {0}, {4, 4, 1 << 20}},
				CreatedAt: now,
			},
		},
		{
			name: "empty problem name",
			rec: &core.Recording{
				ID:        core.NewRecordingID(),
				Steps:     []core.Seq{{7}},
				CreatedAt: now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalRecording(tt.rec)
			decoded, err := UnmarshalRecording(data)
			require.NoError(t, err)
			assert.Equal(t, tt.rec, decoded)
		})
	}
}

func TestUnmarshalRecording_Invalid(t *testing.T) {
	valid := MarshalRecording(&core.Recording{
		ID:        core.NewRecordingID(),
		Problem:   "walk",
		Steps:     []core.Seq{{1, 2}, {3}},
		CreatedAt: time.Now(),
	})

	badVersion := append([]byte(nil), valid...)
	badVersion[0] = 99

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty data", []byte{}, ErrTruncatedData},
		{"version only", valid[:1], ErrTruncatedData},
		{"partial id", valid[:10], ErrTruncatedData},
		{"truncated steps", valid[:len(valid)-1], ErrTruncatedData},
		{"unknown version", badVersion, ErrSerializationFailed},
		{"trailing bytes", append(append([]byte(nil), valid...), 0), ErrSerializationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalRecording(tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
