package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// StreamSeed derives a pair of seeds for a private random stream from a
// stream name and a run-wide seed. The same inputs always produce the same
// seeds, so each worker gets a distinct but reproducible stream.
func StreamSeed(name string, seed uint64) (uint64, uint64) {
	h, _ := blake2b.New(16, nil) // 16 bytes = two 64-bit seeds
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], seed)
	h.Write(buf[:])
	h.Write([]byte(name))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8]), binary.LittleEndian.Uint64(sum[8:])
}
