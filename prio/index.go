// Package prio provides an addressable min-priority index.
//
// Every inserted element gets a Slot handle that stays valid until the element
// is deleted. The handle is used to adjust the element's key in place or to
// remove it. Elements can also be read by position: position 0 always holds
// the minimum key, and positions grow roughly in key order (heap order), which
// is what samplers that favor the best elements need.
package prio

import (
	"container/heap"

	"github.com/poiesic/frontier/core"
)

// Slot identifies an element's entry in an Index. A Slot is invalidated by
// Delete; using it afterwards is a programming error.
type Slot[V any] struct {
	key   float64
	seq   uint64
	value V
	pos   int
	owner *Index[V]
}

// Key returns the element's current key.
func (s *Slot[V]) Key() float64 { return s.key }

// Value returns the element stored in the slot.
func (s *Slot[V]) Value() V { return s.value }

// Index is a binary min-heap over float64 keys. Ties are broken by insertion
// order. Index is not safe for concurrent use; callers provide locking.
type Index[V any] struct {
	items   entries[V]
	nextSeq uint64
}

// New returns an empty index.
func New[V any]() *Index[V] {
	return &Index[V]{}
}

// Insert adds value with the given key and returns its slot.
func (ix *Index[V]) Insert(key float64, value V) *Slot[V] {
	s := &Slot[V]{key: key, seq: ix.nextSeq, value: value, owner: ix}
	ix.nextSeq++
	heap.Push(&ix.items, s)
	return s
}

// Adjust changes the key of the element in slot s.
func (ix *Index[V]) Adjust(s *Slot[V], key float64) {
	ix.checkSlot(s)
	s.key = key
	heap.Fix(&ix.items, s.pos)
}

// Delete removes the element in slot s. The slot is invalid afterwards.
func (ix *Index[V]) Delete(s *Slot[V]) {
	ix.checkSlot(s)
	heap.Remove(&ix.items, s.pos)
	s.pos = -1
	s.owner = nil
}

// At returns the slot at heap position i, for 0 <= i < Len. At(0) is the
// element with the smallest key.
func (ix *Index[V]) At(i int) *Slot[V] {
	core.Check(i >= 0 && i < len(ix.items), "index position %d out of range [0,%d)", i, len(ix.items))
	return ix.items[i]
}

// Min returns the slot with the smallest key, or nil if the index is empty.
func (ix *Index[V]) Min() *Slot[V] {
	if len(ix.items) == 0 {
		return nil
	}
	return ix.items[0]
}

// Len returns the number of elements currently indexed.
func (ix *Index[V]) Len() int { return len(ix.items) }

// Contains reports whether s is a live slot of this index.
func (ix *Index[V]) Contains(s *Slot[V]) bool {
	return s != nil && s.owner == ix && s.pos >= 0 && s.pos < len(ix.items) && ix.items[s.pos] == s
}

func (ix *Index[V]) checkSlot(s *Slot[V]) {
	core.Check(s != nil, "nil slot")
	core.Check(ix.Contains(s), "stale slot (pos %d)", s.pos)
}

// entries implements heap.Interface. Swap keeps each slot's position current.
type entries[V any] []*Slot[V]

func (e entries[V]) Len() int { return len(e) }

func (e entries[V]) Less(i, j int) bool {
	if e[i].key != e[j].key {
		return e[i].key < e[j].key
	}
	return e[i].seq < e[j].seq
}

func (e entries[V]) Swap(i, j int) {
	e[i], e[j] = e[j], e[i]
	e[i].pos = i
	e[j].pos = j
}

func (e *entries[V]) Push(x any) {
	s := x.(*Slot[V])
	s.pos = len(*e)
	*e = append(*e, s)
}

func (e *entries[V]) Pop() any {
	old := *e
	n := len(old)
	s := old[n-1]
	old[n-1] = nil
	*e = old[:n-1]
	return s
}
