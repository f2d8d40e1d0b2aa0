// Package kv holds the entry type and the errors shared by
// the chaining and open addressing tables.
package kv

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrKeyAbsent is returned by indexed access to a key that is not stored.
	ErrKeyAbsent = fmt.Errorf("key absent")
	// ErrInvalidConfiguration is wrapped by every rejected construction parameter.
	ErrInvalidConfiguration = fmt.Errorf("invalid configuration")
)

// Entry is an owned key value pair
type Entry[V any] struct {
	Key   string
	Value V
}

// KeyAbsent wraps ErrKeyAbsent with the missing key
func KeyAbsent(key string) error {
	return errors.Wrapf(ErrKeyAbsent, "%q", key)
}

// Invalid wraps ErrInvalidConfiguration with a formatted reason
func Invalid(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidConfiguration, format, args...)
}

// ValidateCapacity rejects capacities below one
func ValidateCapacity(capacity int) error {
	if capacity < 1 {
		return Invalid("capacity %d must be at least 1", capacity)
	}
	return nil
}

// ValidateLoadFactor rejects load factors outside of (0, 1]
func ValidateLoadFactor(f float64) error {
	if !(f > 0 && f <= 1) {
		return Invalid("max load factor %v must be within (0, 1]", f)
	}
	return nil
}
