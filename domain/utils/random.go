package utils

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand/v2"
)

// SecureRandomSource draws reel indices from the operating system CSPRNG
type SecureRandomSource struct{}

// NewSecureRandomSource creates a SecureRandomSource
func NewSecureRandomSource() *SecureRandomSource {
	return &SecureRandomSource{}
}

// Intn returns a uniform integer in [0, n). It panics if n <= 0.
func (SecureRandomSource) Intn(n int) int {
	if n <= 0 {
		panic("utils: Intn called with non-positive n")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the OS source is unavailable
		return mathrand.IntN(n)
	}
	return int(v.Int64())
}

// SequenceRandomSource replays a fixed sequence of draws, wrapping modulo n.
// Used for deterministic rounds in tests and debugging.
type SequenceRandomSource struct {
	values []int
	next   int
}

// NewSequenceRandomSource creates a source that yields values in order and then repeats
func NewSequenceRandomSource(values ...int) *SequenceRandomSource {
	return &SequenceRandomSource{values: values}
}

// Intn returns the next value of the sequence modulo n
func (s *SequenceRandomSource) Intn(n int) int {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return ((v % n) + n) % n
}
