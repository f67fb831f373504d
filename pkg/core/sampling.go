package core

import (
	"math/rand"
)

// RandomInRange returns a uniform random float64 in [lo, hi)
func RandomInRange(random *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*random.Float64()
}

// RandomUnitSphere returns a uniformly distributed unit vector.
// Points are rejection-sampled from the [-1,1]³ cube until one falls strictly
// inside the unit sphere, then projected onto its surface. The acceptance
// ratio is π/6, so about two draws are needed on average.
func RandomUnitSphere(random *rand.Rand) Vec3 {
	for {
		p := NewVec3(
			RandomInRange(random, -1, 1),
			RandomInRange(random, -1, 1),
			RandomInRange(random, -1, 1),
		)
		lengthSq := p.LengthSquared()
		// Reject the origin too, it has no direction
		if lengthSq < 1 && lengthSq > 1e-160 {
			return p.Normalize()
		}
	}
}

// NewSeededRandom returns a generator derived from a base seed and a stream id.
// Workers use one stream per tile so draws never contend across goroutines.
func NewSeededRandom(seed int64, stream int64) *rand.Rand {
	// splitmix-style mixing so neighbouring streams are decorrelated
	z := uint64(seed) + uint64(stream+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z ^= z >> 31
	return rand.New(rand.NewSource(int64(z)))
}
