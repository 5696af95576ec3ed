package prediction

import (
	"math/rand/v2"
	"sync"
)

// Source yields uniformly distributed values in [0,1).
type Source interface {
	Float64() float64
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() float64

// Float64 calls f.
func (f SourceFunc) Float64() float64 { return f() }

// GlobalSource draws from the runtime's shared generator.
var GlobalSource Source = SourceFunc(rand.Float64)

// FixedSource returns r on every draw.
func FixedSource(r float64) Source {
	return SourceFunc(func() float64 { return r })
}

// NeutralSource is a FixedSource that yields no jitter on the score and the
// midpoint of the confidence and optimisation ranges.
func NeutralSource() Source { return FixedSource(0.5) }

// SequenceSource replays values in order and wraps around when exhausted.
type SequenceSource struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequenceSource creates a SequenceSource. An empty sequence always yields 0.
func NewSequenceSource(values ...float64) *SequenceSource {
	cp := make([]float64, len(values))
	copy(cp, values)
	return &SequenceSource{values: cp}
}

// Float64 returns the next value of the sequence.
func (s *SequenceSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

type seededSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSeededSource returns a deterministic, goroutine-safe Source.
func NewSeededSource(seed uint64) Source {
	return &seededSource{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}
