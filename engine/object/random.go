package object

import "math/rand"

// Random is a deterministic per-object random stream. The zero Random is
// seeded with 0.
type Random struct {
	seed int64
	src  *rand.Rand
}

// NewRandom returns a stream seeded with seed.
func NewRandom(seed int64) Random {
	return Random{seed: seed, src: rand.New(rand.NewSource(seed))}
}

// Next returns a value in [0, n). It returns 0 without drawing when n <= 0.
func (r *Random) Next(n int32) int32 {
	if n <= 0 {
		return 0
	}
	if r.src == nil {
		r.src = rand.New(rand.NewSource(r.seed))
	}
	return r.src.Int31n(n)
}

// Int63 returns a non-negative 63-bit value.
func (r *Random) Int63() int64 {
	if r.src == nil {
		r.src = rand.New(rand.NewSource(r.seed))
	}
	return r.src.Int63()
}
