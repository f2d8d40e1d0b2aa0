package hash

import (
	"sort"
)

const (
	Additive   = "additive"
	Simple     = "simple" // alias of Additive
	Polynomial = "polynomial"
	DJB2       = "djb2"
	Murmur3    = "murmur3"
	Metro      = "metro"
	Highway    = "highway"
	SipHash    = "siphash"

	// PolynomialBase is the radix of the Horner evaluation in Poly
	PolynomialBase = 31
	djb2Seed       = 5381
)

// Func maps a key to an index in [0, modulus). modulus must be positive.
// Character codes are unicode code points and all accumulators
// are unsigned 64 bit integers that wrap on overflow.
type Func func(key string, modulus uint64) uint64

// zeroSalt keys the named salted hashers so that
// Resolve stays deterministic across processes
var zeroSalt = make([]byte, SaltLength)

var funcs = map[string]Func{
	Additive:   Sum,
	Simple:     Sum,
	Polynomial: Poly,
	DJB2:       DJB,
	Murmur3:    mustReduce(HashMurmur3),
	Metro:      mustReduce(HashMetro),
	Highway:    mustReduce(HashHighway),
	SipHash:    mustReduce(HashSIP),
}

func mustReduce(t int) Func {
	h, err := New(t, zeroSalt)
	if err != nil {
		panic(err)
	}
	return Reduce(h)
}

// Sum adds up the character codes of key. Anagrams always collide.
func Sum(key string, modulus uint64) uint64 {
	var h uint64
	for _, c := range key {
		h += uint64(c)
	}
	return h % modulus
}

// Poly evaluates the character codes of key as a polynomial
// in PolynomialBase using Horner's scheme.
func Poly(key string, modulus uint64) uint64 {
	var h uint64
	for _, c := range key {
		h = h*PolynomialBase + uint64(c)
	}
	return h % modulus
}

// DJB is Bernstein's djb2: h = h*33 + c starting from 5381.
func DJB(key string, modulus uint64) uint64 {
	var h uint64 = djb2Seed
	for _, c := range key {
		h = (h << 5) + h + uint64(c)
	}
	return h % modulus
}

// Resolve returns the hash function registered under name.
// Unknown names resolve to Poly.
func Resolve(name string) Func {
	if f, ok := funcs[name]; ok {
		return f
	}
	return Poly
}

// Known reports whether name is a registered hash function.
func Known(name string) bool {
	_, ok := funcs[name]
	return ok
}

// Names lists the registered hash function names, aliases excluded.
func Names() []string {
	names := make([]string, 0, len(funcs))
	for name := range funcs {
		if name == Simple {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stride is the secondary hash used by double hashing. It is
// derived from DJB over capacity-1 and offset by one, so the
// step is never zero and never a multiple of capacity.
func Stride(key string, capacity uint64) uint64 {
	if capacity < 2 {
		return 1
	}
	return DJB(key, capacity-1) + 1
}
