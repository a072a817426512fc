// Package dice provides the random source used by threat synthesis,
// loot generation and skill-check resolution. Randomness is always
// drawn through the Source interface so deterministic sequences can
// be supplied under test.
package dice

import (
	"math/rand"
	"sync"
)

// Source is the injectable random-number generator.
type Source interface {
	// Intn returns a uniform integer in [0, n). Panics if n <= 0.
	Intn(n int) int
	// Float64 returns a uniform float in [0.0, 1.0).
	Float64() float64
}

// New returns a seeded Source. Use a fixed seed for reproducible runs.
func New(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// Default returns the process-wide Source, seeded from the runtime's
// entropy. Safe for concurrent use.
func Default() Source {
	return defaultSource{}
}

type defaultSource struct{}

func (defaultSource) Intn(n int) int   { return rand.Intn(n) }
func (defaultSource) Float64() float64 { return rand.Float64() }

// D20 rolls a single twenty-sided die.
func D20(src Source) int {
	return src.Intn(20) + 1
}

// Between returns a uniform integer in [min, max] inclusive.
// If max <= min, min is returned.
func Between(src Source, min, max int) int {
	if max <= min {
		return min
	}
	return min + src.Intn(max-min+1)
}

// Chance reports whether an event with probability p occurred.
// p <= 0 never occurs; p >= 1 always occurs.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}

// Scripted is a Source that replays fixed values, for tests that
// assert on exact rolls. Intn results are taken from Rolls verbatim
// (clamped into range); Float64 results from Floats. Either sequence
// wraps around when exhausted.
type Scripted struct {
	Rolls  []int
	Floats []float64

	mu sync.Mutex
	ri int
	fi int
}

func (s *Scripted) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Rolls) == 0 {
		return 0
	}
	v := s.Rolls[s.ri%len(s.Rolls)]
	s.ri++
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

func (s *Scripted) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.fi%len(s.Floats)]
	s.fi++
	return v
}
