// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"errors"
	"fmt"

	"github.com/mus-format/mus-go"

	"github.com/poiesic/frontier/core"
)

// recordingVersion is the first byte of every encoded recording.
const recordingVersion = 1

// MarshalID serializes a recording ID to bytes.
func MarshalID(id core.RecordingID) []byte {
	buf := make([]byte, core.RecordingIDMUS.Size(id))
	core.RecordingIDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes a recording ID from bytes.
func UnmarshalID(data []byte) (core.RecordingID, error) {
	id, n, err := core.RecordingIDMUS.Unmarshal(data)
	if err != nil {
		return core.RecordingID{}, decodeError(err)
	}
	if n != len(data) {
		return core.RecordingID{}, fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}
	return id, nil
}

// MarshalRecording serializes a Recording to bytes, prefixed with the
// format version.
func MarshalRecording(rec *core.Recording) []byte {
	buf := make([]byte, 1+core.RecordingMUS.Size(*rec))
	buf[0] = recordingVersion
	core.RecordingMUS.Marshal(*rec, buf[1:])
	return buf
}

// UnmarshalRecording deserializes a Recording from bytes.
func UnmarshalRecording(data []byte) (*core.Recording, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	if data[0] != recordingVersion {
		return nil, fmt.Errorf("%w: unknown recording version %d", ErrSerializationFailed, data[0])
	}

	rec, n, err := core.RecordingMUS.Unmarshal(data[1:])
	if err != nil {
		return nil, decodeError(err)
	}
	if trailing := len(data) - 1 - n; trailing != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, trailing)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	if len(rec.Steps) == 0 {
		rec.Steps = nil
	}
	return &rec, nil
}

func decodeError(err error) error {
	if errors.Is(err, mus.ErrTooSmallByteSlice) {
		return fmt.Errorf("%w: %w", ErrTruncatedData, err)
	}
	return fmt.Errorf("%w: %w", ErrSerializationFailed, err)
}
