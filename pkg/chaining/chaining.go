package chaining

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/optable/hashtable/internal/hash"
	"github.com/optable/hashtable/internal/prime"
	"github.com/optable/hashtable/pkg/kv"
	"github.com/optable/hashtable/pkg/log"
)

// DefaultMaxLoadFactor is the count/capacity ratio above which the table grows
const DefaultMaxLoadFactor = 0.9

// bucket holds every entry whose key hashes to the same index,
// in insertion order
type bucket[V any] []kv.Entry[V]

// find returns the position of key in b or -1
func (b bucket[V]) find(key string) int {
	for i := range b {
		if b[i].Key == key {
			return i
		}
	}
	return -1
}

// Stats describes how well keys are spread over the buckets
type Stats struct {
	// TotalCollisions counts every entry beyond the first of its bucket
	TotalCollisions int
	MaxChainLength  int
	NonEmptyBuckets int
	LoadFactor      float64
}

// Table is a hash table resolving collisions by separate chaining.
// It is not safe for concurrent use.
type Table[V any] struct {
	hash          hash.Func
	hashName      string
	maxLoadFactor float64
	count         int
	buckets       []bucket[V]
	logger        logr.Logger
}

// New instantiates a chaining Table with at least capacity buckets,
// rounded up to a prime. An unknown hashName falls back to the
// polynomial hash. The logger is picked from ctx.
func New[V any](ctx context.Context, capacity int, hashName string, maxLoadFactor float64) (*Table[V], error) {
	if err := kv.ValidateCapacity(capacity); err != nil {
		return nil, err
	}
	if err := kv.ValidateLoadFactor(maxLoadFactor); err != nil {
		return nil, err
	}

	logger := log.GetLoggerFromContextWithName(ctx, "chaining")
	size := prime.Next(uint64(capacity))
	if int(size) != capacity {
		logger.V(2).Info("rounded capacity up to a prime", "requested", capacity, "capacity", size)
	}

	return &Table[V]{
		hash:          hash.Resolve(hashName),
		hashName:      hashName,
		maxLoadFactor: maxLoadFactor,
		buckets:       make([]bucket[V], size),
		logger:        logger,
	}, nil
}

// index returns the bucket index of key under the current capacity
func (t *Table[V]) index(key string) uint64 {
	return t.hash(key, uint64(len(t.buckets)))
}

// Insert stores value under key. An existing key has its value
// replaced in place, otherwise the entry is appended to its bucket
// and the table grows if the load factor went past its maximum.
func (t *Table[V]) Insert(key string, value V) {
	if t.put(key, value) {
		t.count++
		if capacity := t.growth(); capacity != len(t.buckets) {
			t.resize(capacity)
		}
	}
}

// growth returns the capacity bringing count/capacity back within the
// maximum load factor, doubling to the next prime as many times as needed
func (t *Table[V]) growth() int {
	capacity := uint64(len(t.buckets))
	for float64(t.count)/float64(capacity) > t.maxLoadFactor {
		capacity = prime.Next(2 * capacity)
	}
	return int(capacity)
}

// put stores the entry without touching count or the resize
// policy and reports whether a new entry was appended
func (t *Table[V]) put(key string, value V) bool {
	idx := t.index(key)
	b := t.buckets[idx]
	if i := b.find(key); i >= 0 {
		b[i].Value = value
		return false
	}
	t.buckets[idx] = append(b, kv.Entry[V]{Key: key, Value: value})
	return true
}

// resize migrates every entry into a fresh bucket array of
// newCapacity buckets and swaps it in
func (t *Table[V]) resize(newCapacity int) {
	old := t.buckets
	t.buckets = make([]bucket[V], newCapacity)
	for _, b := range old {
		for _, e := range b {
			t.put(e.Key, e.Value)
		}
	}

	t.logger.V(1).Info("resized", "from", len(old), "to", newCapacity, "count", t.count)
}

// Search returns the value stored under key and whether it was found
func (t *Table[V]) Search(key string) (value V, found bool) {
	b := t.buckets[t.index(key)]
	if i := b.find(key); i >= 0 {
		return b[i].Value, true
	}
	return value, false
}

// Contains reports whether key is stored
func (t *Table[V]) Contains(key string) bool {
	_, found := t.Search(key)
	return found
}

// Get returns the value stored under key or an error wrapping kv.ErrKeyAbsent
func (t *Table[V]) Get(key string) (V, error) {
	value, found := t.Search(key)
	if !found {
		return value, kv.KeyAbsent(key)
	}
	return value, nil
}

// Delete removes key and reports whether it was present
func (t *Table[V]) Delete(key string) bool {
	idx := t.index(key)
	b := t.buckets[idx]
	i := b.find(key)
	if i < 0 {
		return false
	}

	// keep the remaining entries in order and release
	// the reference held by the last slot
	copy(b[i:], b[i+1:])
	b[len(b)-1] = kv.Entry[V]{}
	t.buckets[idx] = b[:len(b)-1]
	t.count--
	return true
}

// Range calls fn for every entry, bucket by bucket, until fn returns false
func (t *Table[V]) Range(fn func(key string, value V) bool) {
	for _, b := range t.buckets {
		for _, e := range b {
			if !fn(e.Key, e.Value) {
				return
			}
		}
	}
}

// Len returns the number of entries
func (t *Table[V]) Len() int {
	return t.count
}

// Capacity returns the number of buckets
func (t *Table[V]) Capacity() int {
	return len(t.buckets)
}

// HashName returns the hash function name the table was built with
func (t *Table[V]) HashName() string {
	return t.hashName
}

// LoadFactor returns count/capacity
func (t *Table[V]) LoadFactor() float64 {
	return float64(t.count) / float64(len(t.buckets))
}

// Stats walks every bucket and returns its collision statistics
func (t *Table[V]) Stats() Stats {
	s := Stats{LoadFactor: t.LoadFactor()}
	for _, b := range t.buckets {
		n := len(b)
		if n == 0 {
			continue
		}
		s.NonEmptyBuckets++
		s.TotalCollisions += n - 1
		if n > s.MaxChainLength {
			s.MaxChainLength = n
		}
	}
	return s
}
