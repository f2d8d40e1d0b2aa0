package openaddr

import (
	"context"
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/optable/hashtable/internal/hash"
	"github.com/optable/hashtable/internal/prime"
	"github.com/optable/hashtable/pkg/kv"
	"github.com/optable/hashtable/pkg/log"
)

// DefaultMaxLoadFactor is the live/capacity ratio at which an
// insert first grows the table
const DefaultMaxLoadFactor = 0.75

// ErrCapacityExhausted is returned when a full probe cycle found no
// slot for a new key. It means the resize policy failed to keep room.
var ErrCapacityExhausted = fmt.Errorf("probe sequence exhausted without a free slot")

// state tags a slot
type state uint8

const (
	empty state = iota
	tombstone
	occupied
)

type slot[V any] struct {
	state state
	entry kv.Entry[V]
}

// Stats describes probe lengths and clustering of the slots
type Stats struct {
	// AvgProbes is the mean number of slots a successful search visits
	AvgProbes float64
	// LoadFactor counts live entries only
	LoadFactor float64
	// MaxCluster is the longest run of contiguous non empty slots
	MaxCluster int
	Tombstones int
}

// Table is a hash table resolving collisions by open addressing.
// Deleted slots become tombstones so that probe sequences crossing
// them stay intact. It is not safe for concurrent use.
type Table[V any] struct {
	hash          hash.Func
	hashName      string
	probe         Probe
	maxLoadFactor float64
	live          int
	tombstones    int
	slots         []slot[V]
	logger        logr.Logger
}

// New instantiates an open addressing Table with at least capacity
// slots, rounded up to a prime. An unknown hashName falls back to the
// polynomial hash, an unknown probe is rejected. The logger is
// picked from ctx.
func New[V any](ctx context.Context, capacity int, hashName string, probe string, maxLoadFactor float64) (*Table[V], error) {
	p, err := ParseProbe(probe)
	if err != nil {
		return nil, err
	}
	if err := kv.ValidateCapacity(capacity); err != nil {
		return nil, err
	}
	if err := kv.ValidateLoadFactor(maxLoadFactor); err != nil {
		return nil, err
	}

	logger := log.GetLoggerFromContextWithName(ctx, "openaddr")
	size := prime.Next(uint64(capacity))
	if int(size) != capacity {
		logger.V(2).Info("rounded capacity up to a prime", "requested", capacity, "capacity", size)
	}

	return &Table[V]{
		hash:          hash.Resolve(hashName),
		hashName:      hashName,
		probe:         p,
		maxLoadFactor: maxLoadFactor,
		slots:         make([]slot[V], size),
		logger:        logger,
	}, nil
}

// sequence returns the probe sequence of key under the current capacity
func (t *Table[V]) sequence(key string) sequence {
	capacity := uint64(len(t.slots))
	s := sequence{start: t.hash(key, capacity), step: 1, capacity: capacity}
	if t.probe == Double {
		s.step = hash.Stride(key, capacity)
	}
	return s
}

// Insert stores value under key, replacing the value of an existing
// key in place. The table grows first when the live load factor has
// reached its maximum. The only error is one wrapping ErrCapacityExhausted.
func (t *Table[V]) Insert(key string, value V) error {
	if capacity := t.growth(); capacity != uint64(len(t.slots)) {
		if err := t.resize(capacity, "load factor"); err != nil {
			return err
		}
	}
	return t.insert(key, value)
}

// growth returns the capacity at which live/capacity is back under the
// maximum load factor, growing to Next(2·capacity+1) as many times as
// needed. One more entry then overshoots by at most 1/capacity.
func (t *Table[V]) growth() uint64 {
	capacity := uint64(len(t.slots))
	for float64(t.live)/float64(capacity) >= t.maxLoadFactor {
		capacity = prime.Next(2*capacity + 1)
	}
	return capacity
}

// insert places the entry without looking at the load factor.
// The probe goes on past tombstones until it meets the key or an
// empty slot, so re-inserting a key never leaves a duplicate behind;
// a new key then takes the first tombstone seen on the way.
func (t *Table[V]) insert(key string, value V) error {
	seq := t.sequence(key)
	free := -1
	for i := uint64(0); i < seq.capacity; i++ {
		idx := seq.at(i)
		s := &t.slots[idx]
		switch s.state {
		case empty:
			if free < 0 {
				free = int(idx)
			}
			t.place(free, key, value)
			return nil
		case tombstone:
			if free < 0 {
				free = int(idx)
			}
		case occupied:
			if s.entry.Key == key {
				s.entry.Value = value
				return nil
			}
		}
	}

	if free >= 0 {
		t.place(free, key, value)
		return nil
	}

	err := errors.Wrapf(ErrCapacityExhausted, "key %q after %d probes (live %d, tombstones %d)",
		key, seq.capacity, t.live, t.tombstones)
	t.logger.Error(err, "insert failed")
	return err
}

func (t *Table[V]) place(idx int, key string, value V) {
	if t.slots[idx].state == tombstone {
		t.tombstones--
	}
	t.slots[idx] = slot[V]{state: occupied, entry: kv.Entry[V]{Key: key, Value: value}}
	t.live++
}

// find returns the slot index of key and the number of probes it took
func (t *Table[V]) find(key string) (idx int, probes int, found bool) {
	seq := t.sequence(key)
	for i := uint64(0); i < seq.capacity; i++ {
		j := seq.at(i)
		s := &t.slots[j]
		switch s.state {
		case empty:
			return -1, int(i) + 1, false
		case occupied:
			if s.entry.Key == key {
				return int(j), int(i) + 1, true
			}
		}
	}
	return -1, int(seq.capacity), false
}

// resize rebuilds the slots at capacity, dropping tombstones. The old
// slots are only replaced once every live entry has been placed.
func (t *Table[V]) resize(capacity uint64, reason string) error {
	next := *t
	next.live, next.tombstones = 0, 0
	next.slots = make([]slot[V], capacity)
	for i := range t.slots {
		if s := &t.slots[i]; s.state == occupied {
			if err := next.insert(s.entry.Key, s.entry.Value); err != nil {
				return err
			}
		}
	}

	t.logger.V(1).Info("resized", "reason", reason, "from", len(t.slots), "to", capacity,
		"live", t.live, "tombstones", t.tombstones)
	*t = next
	return nil
}

// Search returns the value stored under key and whether it was found
func (t *Table[V]) Search(key string) (value V, found bool) {
	idx, _, found := t.find(key)
	if !found {
		return value, false
	}
	return t.slots[idx].entry.Value, true
}

// Contains reports whether key is stored
func (t *Table[V]) Contains(key string) bool {
	_, _, found := t.find(key)
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

// Delete turns the slot of key into a tombstone and reports whether
// key was present. Once tombstones outnumber live entries the table
// is rebuilt at the same capacity.
func (t *Table[V]) Delete(key string) bool {
	idx, _, found := t.find(key)
	if !found {
		return false
	}

	t.slots[idx] = slot[V]{state: tombstone}
	t.live--
	t.tombstones++

	if t.tombstones > t.live {
		if err := t.resize(uint64(len(t.slots)), "tombstones"); err != nil {
			// the tombstoned slots are still valid, only slower
			t.logger.Error(err, "failed to purge tombstones")
		}
	}
	return true
}

// Range calls fn for every live entry in slot order until fn returns false
func (t *Table[V]) Range(fn func(key string, value V) bool) {
	for i := range t.slots {
		if s := &t.slots[i]; s.state == occupied {
			if !fn(s.entry.Key, s.entry.Value) {
				return
			}
		}
	}
}

// Len returns the number of live entries
func (t *Table[V]) Len() int {
	return t.live
}

// Tombstones returns the number of tombstoned slots
func (t *Table[V]) Tombstones() int {
	return t.tombstones
}

// Capacity returns the number of slots
func (t *Table[V]) Capacity() int {
	return len(t.slots)
}

// HashName returns the hash function name the table was built with
func (t *Table[V]) HashName() string {
	return t.hashName
}

// Probe returns the probe method of the table
func (t *Table[V]) Probe() Probe {
	return t.probe
}

// LoadFactor returns the share of slots that are not empty,
// tombstones included
func (t *Table[V]) LoadFactor() float64 {
	return float64(t.live+t.tombstones) / float64(len(t.slots))
}

func (t *Table[V]) liveLoad() float64 {
	return float64(t.live) / float64(len(t.slots))
}

// Stats re-probes every live key from its first attempt and scans
// the slots for clusters
func (t *Table[V]) Stats() Stats {
	s := Stats{LoadFactor: t.liveLoad(), Tombstones: t.tombstones}

	var probes int
	used := bitset.New(uint(len(t.slots)))
	for i := range t.slots {
		sl := &t.slots[i]
		if sl.state == empty {
			continue
		}
		used.Set(uint(i))
		if sl.state == occupied {
			_, n, _ := t.find(sl.entry.Key)
			probes += n
		}
	}
	if t.live > 0 {
		s.AvgProbes = float64(probes) / float64(t.live)
	}

	s.MaxCluster = longestRun(used, uint(len(t.slots)))
	return s
}

// longestRun returns the length of the longest run of set bits in b
func longestRun(b *bitset.BitSet, length uint) int {
	var longest uint
	start, ok := b.NextSet(0)
	for ok {
		end, more := b.NextClear(start)
		if !more {
			end = length
		}
		if end-start > longest {
			longest = end - start
		}
		if !more {
			break
		}
		start, ok = b.NextSet(end)
	}
	return int(longest)
}
