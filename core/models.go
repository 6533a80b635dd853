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

package core

import (
	"slices"

	"github.com/mus-format/mus-go/varint"
)

// Input is a single action applied to a problem worker. Its meaning is
// defined entirely by the problem; the search engine treats it as opaque.
type Input uint32

// Seq is an ordered list of inputs that advances a problem from one tree
// node to a child.
type Seq []Input

// Key returns a compact, comparable encoding of the sequence suitable for
// use as a map key. Distinct sequences always produce distinct keys.
func (s Seq) Key() string {
	size := 0
	for _, in := range s {
		size += varint.Uint64.Size(uint64(in))
	}
	buf := make([]byte, size)
	n := 0
	for _, in := range s {
		n += varint.Uint64.Marshal(uint64(in), buf[n:])
	}
	return string(buf)
}

// SeqFromKey decodes a key produced by Seq.Key.
func SeqFromKey(key string) (Seq, error) {
	buf := []byte(key)
	seq := make(Seq, 0, len(buf))
	for len(buf) > 0 {
		v, n, err := varint.Uint64.Unmarshal(buf)
		if err != nil {
			return nil, err
		}
		seq = append(seq, Input(v))
		buf = buf[n:]
	}
	return seq, nil
}

// Clone returns a copy of the sequence that does not share storage.
func (s Seq) Clone() Seq {
	return slices.Clone(s)
}

// Equal reports whether two sequences contain the same inputs in order.
func (s Seq) Equal(other Seq) bool {
	return slices.Equal(s, other)
}
