package badger

import (
	"encoding/binary"
	"time"

	"github.com/poiesic/frontier/core"
)

// Key prefixes for different data types
const (
	recordingPrefix     = "rec"
	recordingDatePrefix = "recd"
)

// makeRecordingKey generates a key for a recording by ID.
// Format: prefix:id
func makeRecordingKey(id core.RecordingID) []byte {
	prefix := recordingPrefix + ":"
	buf := make([]byte, len(prefix)+len(id))
	offset := copy(buf, prefix)
	copy(buf[offset:], id[:])
	return buf
}

// makeRecordingDateKey generates a composite key for the creation date index.
// Format: prefix:timestamp:id
func makeRecordingDateKey(createdAt time.Time, id core.RecordingID) []byte {
	prefix := recordingDatePrefix + ":"
	totalSize := len(prefix) + 8 + len(id) // 8 bytes for timestamp + 16 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	copy(buf[offset:], id[:])
	return buf
}

// makeRecordingDateSeekKey generates a key that sorts after every date index
// entry, for reverse iteration.
func makeRecordingDateSeekKey() []byte {
	prefix := recordingDatePrefix + ":"
	buf := make([]byte, len(prefix)+8+16)
	offset := copy(buf, prefix)
	for i := offset; i < len(buf); i++ {
		buf[i] = 0xff
	}
	return buf
}
