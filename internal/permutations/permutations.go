// Package permutations maps key positions to a permuted visiting
// order, so that lookups do not replay the insertion order.
package permutations

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
)

// Permutations is satisfied by anything with a proper Shuffle method:
// over 0..n-1, Shuffle returns every position exactly once
type Permutations interface {
	Shuffle(i int) int
}

const (
	Kensler = iota
	Naive
	Nil
)

// New returns the permutation of kind over n positions
func New(kind int, n int) (Permutations, error) {
	switch kind {
	case Kensler:
		return NewKensler(n)
	case Naive:
		return NewNaive(n)
	case Nil:
		return null{}, nil
	default:
		return nil, fmt.Errorf("unknown permutation %d", kind)
	}
}

// Parse maps "kensler", "naive" and "none" to their kind
func Parse(s string) (int, error) {
	switch s {
	case "kensler":
		return Kensler, nil
	case "naive":
		return Naive, nil
	case "none", "":
		return Nil, nil
	default:
		return Nil, fmt.Errorf("unknown permutation %q", s)
	}
}

type null struct{}

// Shuffle returns i
func (null) Shuffle(i int) int {
	return i
}

type naive struct {
	p []int
}

// NewNaive draws a uniform permutation of n positions with a
// Fisher-Yates shuffle over crypto/rand
func NewNaive(n int) (naive, error) {
	var p = make([]int, n)
	for i := range p {
		p[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i)+1))
		if err != nil {
			return naive{}, err
		}
		p[i], p[j.Int64()] = p[j.Int64()], p[i]
	}

	return naive{p: p}, nil
}

// Shuffle looks position i up in the permutation vector
func (k naive) Shuffle(i int) int {
	return k.p[i]
}

// randomSeed draws a kensler seed from crypto/rand
func randomSeed() (uint32, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// checkLength rejects what a uint32 kensler cannot permute
func checkLength(l int) error {
	if l < 0 || uint64(l) > math.MaxUint32 {
		return fmt.Errorf("value %d is out of the range allowable for kensler (0..%d)", l, uint32(math.MaxUint32))
	}
	return nil
}
