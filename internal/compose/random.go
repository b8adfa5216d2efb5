package compose

import "math/rand/v2"

// RandomSource is every random draw the composer makes. *rand.Rand from
// math/rand/v2 satisfies it.
type RandomSource interface {
	IntN(n int) int
	Float64() float64
}

// NewRandom returns a seeded source. A zero seed picks a random one.
func NewRandom(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func pick[T any](r RandomSource, items []T) T {
	return items[r.IntN(len(items))]
}
