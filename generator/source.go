package generator

import (
	"math/rand/v2"
	"sync"
)

// Source draws uniform integers. IntRange returns a value in [lo, hi],
// both inclusive; callers guarantee lo <= hi.
type Source interface {
	IntRange(lo, hi int) int
}

// RandSource is a deterministic Source backed by a PCG generator.
// It is not safe for concurrent use; wrap it with NewLockedSource to share it.
type RandSource struct {
	rng *rand.Rand
}

// pcgStream selects the PCG stream; the seed selects the position in it.
const pcgStream = 0x9e3779b97f4a7c15

// NewSource returns a Source that produces the same draws for the same seed.
func NewSource(seed uint64) *RandSource {
	return &RandSource{rng: rand.New(rand.NewPCG(seed, pcgStream))}
}

func (s *RandSource) IntRange(lo, hi int) int {
	return lo + s.rng.IntN(hi-lo+1)
}

// LockedSource serializes access to a Source.
type LockedSource struct {
	mu  sync.Mutex
	src Source
}

func NewLockedSource(src Source) *LockedSource {
	return &LockedSource{src: src}
}

func (s *LockedSource) IntRange(lo, hi int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.IntRange(lo, hi)
}
