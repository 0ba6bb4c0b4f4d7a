// Package rng provides the deterministic, replay-recoverable PRNG used by
// every session. Given the same seed and the same sequence of draws, two
// Sources produce byte-identical output -- this is the foundation of the
// deterministic-replay guarantee described in spec.md 4.1.
package rng

import (
	"math/rand"
	"time"
)

// Source wraps a seeded PRNG and remembers its own seed so it can be
// persisted into a replay header and reconstructed later.
type Source struct {
	seed uint64
	r    *rand.Rand
}

// FromSeed constructs a Source from an explicit seed, as used when
// reconstructing a session from a replay.
func FromSeed(seed uint64) *Source {
	return &Source{
		seed: seed,
		r:    rand.New(rand.NewSource(int64(seed))),
	}
}

// FromEntropy constructs a Source seeded from the wall clock, recording the
// chosen seed so it can be written to the replay header. This is the path
// used when a lobby starts a fresh game.
func FromEntropy() *Source {
	seed := uint64(time.Now().UnixNano())
	return FromSeed(seed)
}

// Seed returns the seed this Source was constructed with.
func (s *Source) Seed() uint64 { return s.seed }

// Float64 draws a uniform value in [0, 1).
func (s *Source) Float64() float64 { return s.r.Float64() }

// Intn draws a uniform integer in [0, n).
func (s *Source) Intn(n int) int { return s.r.Intn(n) }

// Bool draws a uniform boolean.
func (s *Source) Bool() bool { return s.r.Intn(2) == 0 }

// Chance returns true with probability p (0 <= p <= 1).
func (s *Source) Chance(p float64) bool { return s.r.Float64() < p }
