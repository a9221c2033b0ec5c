package game

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"time"
)

// Rand is the randomness the engine draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a deterministic source for seed, or a time-seeded one
// when seed is 0.
func NewRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return seededRNG(seed)
}

func seededRNG(seed int64) *rand.Rand {
	// Non-cryptographic PRNG is intentional for deterministic simulation behavior.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

// FixedRand replays scripted draws. Once a script is exhausted it keeps
// returning Default (floats) or 0 (ints), which for most rolls means
// "succeeds" and for most tables means "first entry".
type FixedRand struct {
	Floats  []float64
	Ints    []int
	Default float64
}

func (f *FixedRand) Float64() float64 {
	if len(f.Floats) == 0 {
		return f.Default
	}
	v := f.Floats[0]
	f.Floats = f.Floats[1:]
	return v
}

func (f *FixedRand) IntN(n int) int {
	if len(f.Ints) == 0 || n <= 0 {
		return 0
	}
	v := f.Ints[0]
	f.Ints = f.Ints[1:]
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

// weighted is a single-draw choice table. Each entry owns an interval of
// width equal to its weight; a draw past the total mass selects nothing.
type weighted[T any] struct {
	entries []T
	bounds  []float64
}

func (w *weighted[T]) add(v T, weight float64) {
	if weight <= 0 {
		return
	}
	total := 0.0
	if n := len(w.bounds); n > 0 {
		total = w.bounds[n-1]
	}
	w.entries = append(w.entries, v)
	w.bounds = append(w.bounds, total+weight)
}

func (w *weighted[T]) total() float64 {
	if len(w.bounds) == 0 {
		return 0
	}
	return w.bounds[len(w.bounds)-1]
}

// pick maps draw in [0,1) onto the table.
func (w *weighted[T]) pick(draw float64) (T, bool) {
	for i, b := range w.bounds {
		if draw < b {
			return w.entries[i], true
		}
	}
	var zero T
	return zero, false
}

func randRange(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}
