package study

import (
	"math/rand/v2"
	"time"
)

// RandomSource supplies every random choice the engine makes.
type RandomSource interface {
	Float64() float64
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Random is a seedable RandomSource backed by PCG.
type Random struct {
	r *rand.Rand
}

// NewRandom returns a source that replays the same sequence for the same seed.
func NewRandom(seed uint64) *Random {
	return &Random{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewTimeSeededRandom seeds from the wall clock.
func NewTimeSeededRandom() *Random {
	return NewRandom(uint64(time.Now().UnixNano()))
}

func (r *Random) Float64() float64 {
	return r.r.Float64()
}

func (r *Random) IntN(n int) int {
	return r.r.IntN(n)
}

// Shuffle is a Fisher-Yates shuffle over [0, n).
func (r *Random) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := r.r.IntN(i + 1)
		swap(i, j)
	}
}

// shuffled returns a shuffled copy of items.
func shuffled[T any](rnd RandomSource, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
