package prio

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minKey(slots map[int]*Slot[int]) (float64, bool) {
	first := true
	var best float64
	for _, s := range slots {
		if first || s.Key() < best {
			best = s.Key()
			first = false
		}
	}
	return best, !first
}

func TestIndexInsertAndMin(t *testing.T) {
	ix := New[string]()
	assert.Nil(t, ix.Min())
	assert.Equal(t, 0, ix.Len())

	ix.Insert(-10, "root")
	ix.Insert(-3, "worse")
	best := ix.Insert(-12, "better")

	require.Equal(t, 3, ix.Len())
	assert.Same(t, best, ix.At(0))
	assert.Equal(t, "better", ix.Min().Value())
}

func TestIndexAdjust(t *testing.T) {
	ix := New[string]()
	a := ix.Insert(1, "a")
	b := ix.Insert(2, "b")

	ix.Adjust(b, 0)
	assert.Equal(t, "b", ix.Min().Value())

	ix.Adjust(b, 5)
	assert.Same(t, a, ix.Min())
	assert.Equal(t, 5.0, b.Key())
}

func TestIndexDelete(t *testing.T) {
	ix := New[string]()
	a := ix.Insert(1, "a")
	b := ix.Insert(2, "b")

	ix.Delete(a)
	assert.Equal(t, 1, ix.Len())
	assert.False(t, ix.Contains(a))
	assert.Same(t, b, ix.Min())
}

func TestIndexStaleSlotPanics(t *testing.T) {
	ix := New[string]()
	a := ix.Insert(1, "a")
	ix.Delete(a)

	assert.Panics(t, func() { ix.Adjust(a, 3) })
	assert.Panics(t, func() { ix.Delete(a) })
	assert.Panics(t, func() { ix.Adjust(nil, 3) })

	other := New[string]()
	foreign := other.Insert(1, "x")
	assert.Panics(t, func() { ix.Delete(foreign) })
}

func TestIndexAtOutOfRangePanics(t *testing.T) {
	ix := New[int]()
	ix.Insert(1, 1)
	assert.Panics(t, func() { ix.At(1) })
	assert.Panics(t, func() { ix.At(-1) })
}

func TestIndexTiesByInsertionOrder(t *testing.T) {
	ix := New[string]()
	ix.Insert(7, "first")
	ix.Insert(7, "second")
	ix.Insert(7, "third")

	assert.Equal(t, "first", ix.Min().Value())
	ix.Delete(ix.Min())
	assert.Equal(t, "second", ix.Min().Value())
}

func TestIndexRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	ix := New[int]()
	live := map[int]*Slot[int]{}
	next := 0

	for step := 0; step < 5000; step++ {
		switch op := rng.IntN(3); {
		case op == 0 || len(live) == 0:
			live[next] = ix.Insert(float64(rng.IntN(100)), next)
			next++
		case op == 1:
			for _, s := range live {
				ix.Adjust(s, float64(rng.IntN(100)))
				break
			}
		default:
			for id, s := range live {
				ix.Delete(s)
				delete(live, id)
				break
			}
		}

		require.Equal(t, len(live), ix.Len())
		if want, ok := minKey(live); ok {
			require.Equal(t, want, ix.At(0).Key())
		}
		for i := 0; i < ix.Len(); i++ {
			require.Equal(t, i, ix.At(i).pos)
		}
	}
}
