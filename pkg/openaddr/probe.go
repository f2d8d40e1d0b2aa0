package openaddr

import (
	"github.com/optable/hashtable/pkg/kv"
)

// Probe is the collision resolution method of a Table
type Probe uint8

const (
	// Linear probing visits h1, h1+1, h1+2, ...
	Linear Probe = iota
	// Double hashing visits h1, h1+h2, h1+2*h2, ... with h2 never zero
	Double
)

// ParseProbe maps "linear" and "double" to their Probe. The empty
// string defaults to Linear, anything else is an invalid configuration.
func ParseProbe(s string) (Probe, error) {
	switch s {
	case "", "linear":
		return Linear, nil
	case "double":
		return Double, nil
	default:
		return Linear, kv.Invalid("unknown probe method %q", s)
	}
}

func (p Probe) String() string {
	switch p {
	case Linear:
		return "linear"
	case Double:
		return "double"
	default:
		return "undefined"
	}
}

// sequence yields the slot index of each probe attempt of one key.
// With a prime capacity and 0 < step < capacity it visits every
// slot exactly once over capacity attempts.
type sequence struct {
	start    uint64
	step     uint64
	capacity uint64
}

func (s sequence) at(attempt uint64) uint64 {
	return (s.start + attempt*s.step%s.capacity) % s.capacity
}
