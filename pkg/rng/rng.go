// Package rng builds the explicit, seeded random streams threaded through
// generation and tuning. Nothing in this module reads a global source: every
// component receives a *rand.Rand built here, so identical seeds reproduce
// identical levels.
//
// math/rand/v2's Rand is not safe for concurrent use. Derive an independent
// stream with [Derive] instead of sharing one across goroutines.
package rng

import "math/rand/v2"

// New returns a deterministic PCG stream for seed.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Derive mixes a parent seed with a stream id into an independent seed
// (SplitMix64 finalizer).
func Derive(parent, stream uint64) uint64 {
	x := parent ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Between returns a uniform integer in [lo, hi]. It returns lo when hi < lo.
func Between(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// Shuffle permutes s in place.
func Shuffle[T any](r *rand.Rand, s []T) {
	r.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

// Sample returns k distinct values from [0, n) in random order.
// k is clamped to n.
func Sample(r *rand.Rand, n, k int) []int {
	k = max(0, min(k, n))
	return r.Perm(n)[:k]
}

// Chance reports true with probability p.
func Chance(r *rand.Rand, p float64) bool {
	return r.Float64() < p
}

// Signed returns a uniform value in [-1, 1).
func Signed(r *rand.Rand) float64 {
	return 2*r.Float64() - 1
}
