package hashtable

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/optable/hashtable/internal/hash"
	"github.com/optable/hashtable/pkg/chaining"
	"github.com/optable/hashtable/pkg/kv"
	"github.com/optable/hashtable/pkg/openaddr"
)

const (
	Chaining = iota
	OpenAddressing
)

// DefaultCapacity is used when Config.Capacity is left at zero
const DefaultCapacity = 101

// Strategy is the collision resolution enumeration
type Strategy int

var (
	StrategyChaining       Strategy = Chaining
	StrategyOpenAddressing Strategy = OpenAddressing
)

// ParseStrategy maps "chaining" and "open" to their Strategy
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "chaining":
		return StrategyChaining, nil
	case "open", "openaddr":
		return StrategyOpenAddressing, nil
	default:
		return StrategyChaining, kv.Invalid("unknown strategy %q", s)
	}
}

func (s Strategy) String() string {
	switch s {
	case StrategyChaining:
		return "chaining"
	case StrategyOpenAddressing:
		return "open"
	default:
		return "undefined"
	}
}

// Config carries every construction parameter of a Table
type Config struct {
	Strategy Strategy
	// Capacity is rounded up to a prime, zero means DefaultCapacity
	Capacity int
	// HashFunction names one of hash.Names(), anything else
	// falls back to the polynomial hash
	HashFunction string
	// Probe is "linear" or "double", open addressing only.
	// Empty means linear.
	Probe string
	// MaxLoadFactor within (0, 1], zero means the strategy default
	MaxLoadFactor float64
}

// withDefaults fills in the zero values
func (c Config) withDefaults() Config {
	if c.Capacity == 0 {
		c.Capacity = DefaultCapacity
	}
	if c.HashFunction == "" {
		c.HashFunction = hash.Polynomial
	}
	if c.MaxLoadFactor == 0 {
		switch c.Strategy {
		case StrategyOpenAddressing:
			c.MaxLoadFactor = openaddr.DefaultMaxLoadFactor
		default:
			c.MaxLoadFactor = chaining.DefaultMaxLoadFactor
		}
	}
	return c
}

// Validate reports every problem of c at once. Each of them
// wraps kv.ErrInvalidConfiguration.
func (c Config) Validate() error {
	c = c.withDefaults()

	var result *multierror.Error
	if c.Strategy != StrategyChaining && c.Strategy != StrategyOpenAddressing {
		result = multierror.Append(result, kv.Invalid("unknown strategy %d", c.Strategy))
	}
	if err := kv.ValidateCapacity(c.Capacity); err != nil {
		result = multierror.Append(result, err)
	}
	if err := kv.ValidateLoadFactor(c.MaxLoadFactor); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := openaddr.ParseProbe(c.Probe); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// Stats is the union of the chaining and open addressing
// statistics. Only the block of the table's strategy is set.
type Stats struct {
	Strategy Strategy
	Len      int
	Capacity int
	// LoadFactor counts live entries only
	LoadFactor     float64
	Chaining       *chaining.Stats
	OpenAddressing *openaddr.Stats
}

// Table is the operation surface shared by both strategies.
// Implementations are not safe for concurrent use: mutations need
// an exclusive lock, reads may only run concurrently with reads.
type Table[V any] interface {
	Insert(key string, value V) error
	Search(key string) (V, bool)
	Delete(key string) bool
	Contains(key string) bool
	Get(key string) (V, error)
	LoadFactor() float64
	Len() int
	Capacity() int
	Range(fn func(key string, value V) bool)
	Stats() Stats
}

// New builds the Table described by cfg. The logger is picked from ctx.
func New[V any](ctx context.Context, cfg Config) (Table[V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	switch cfg.Strategy {
	case StrategyOpenAddressing:
		t, err := openaddr.New[V](ctx, cfg.Capacity, cfg.HashFunction, cfg.Probe, cfg.MaxLoadFactor)
		if err != nil {
			return nil, err
		}
		return openTable[V]{t}, nil
	default:
		t, err := chaining.New[V](ctx, cfg.Capacity, cfg.HashFunction, cfg.MaxLoadFactor)
		if err != nil {
			return nil, err
		}
		return chainingTable[V]{t}, nil
	}
}

type chainingTable[V any] struct {
	*chaining.Table[V]
}

func (t chainingTable[V]) Insert(key string, value V) error {
	t.Table.Insert(key, value)
	return nil
}

func (t chainingTable[V]) Stats() Stats {
	s := t.Table.Stats()
	return Stats{
		Strategy:   StrategyChaining,
		Len:        t.Len(),
		Capacity:   t.Capacity(),
		LoadFactor: s.LoadFactor,
		Chaining:   &s,
	}
}

type openTable[V any] struct {
	*openaddr.Table[V]
}

func (t openTable[V]) Stats() Stats {
	s := t.Table.Stats()
	return Stats{
		Strategy:       StrategyOpenAddressing,
		Len:            t.Len(),
		Capacity:       t.Capacity(),
		LoadFactor:     s.LoadFactor,
		OpenAddressing: &s,
	}
}
