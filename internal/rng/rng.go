// Package rng isolates every random choice the field makes behind one
// source so runs can be replayed and tests can script exact values.
package rng

import (
	"math/rand"
	"sync"
)

// Source yields floats in [0, 1).
type Source interface {
	Float64() float64
}

type seeded struct {
	r *rand.Rand
}

// New returns a deterministic source for the given seed.
func New(seed int64) Source {
	return &seeded{r: rand.New(rand.NewSource(seed))}
}

func (s *seeded) Float64() float64 { return s.r.Float64() }

// Sequence replays a fixed list of values, cycling when exhausted.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	next   int
}

func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		values = []float64{0.5}
	}
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Draws reports how many values have been consumed.
func (s *Sequence) Draws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Uniform samples [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Open samples (lo, hi): the draw is squeezed toward the middle so the
// result never equals either bound. A draw of 0.5 maps to the exact midpoint.
func Open(src Source, lo, hi float64) float64 {
	const eps = 1e-6
	return lo + (hi-lo)*(0.5+(src.Float64()-0.5)*(1-2*eps))
}

// Index picks an index in [0, n).
func Index(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Centered samples (-0.5, 0.5) scaled by amplitude.
func Centered(src Source, amplitude float64) float64 {
	return (src.Float64() - 0.5) * amplitude
}
