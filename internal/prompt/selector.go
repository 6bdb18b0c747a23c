package prompt

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
)

// ErrInvalidSampleSize is returned when k is outside [1, len(pool)].
var ErrInvalidSampleSize = errors.New("invalid sample size")

// Selector draws prompts without replacement. It is safe for concurrent use.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector wraps src. Tests pass a fixed-seed source.
func NewSelector(src rand.Source) *Selector {
	return &Selector{rng: rand.New(src)}
}

// NewSeededSelector is NewSelector over a PCG source seeded with seed.
func NewSeededSelector(seed uint64) *Selector {
	return NewSelector(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandomSelector seeds a PCG source from crypto/rand.
func NewRandomSelector() (*Selector, error) {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}
	src := rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:]))
	return NewSelector(src), nil
}

// Sample returns k distinct entries of pool in uniformly random order.
func (s *Selector) Sample(pool Pool, k int) ([]Prompt, error) {
	if k < 1 || k > len(pool) {
		return nil, fmt.Errorf("%w: k=%d pool=%d", ErrInvalidSampleSize, k, len(pool))
	}

	shuffled := make([]Prompt, len(pool))
	copy(shuffled, pool)

	s.mu.Lock()
	defer s.mu.Unlock()
	// partial Fisher-Yates: the first k slots are a uniform k-permutation
	for i := 0; i < k; i++ {
		j := i + s.rng.IntN(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:k], nil
}
