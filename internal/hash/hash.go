package hash

import (
	"encoding/binary"
	"fmt"

	"github.com/dchest/siphash"
	metro "github.com/dgryski/go-metro"
	"github.com/minio/highwayhash"
	"github.com/twmb/murmur3"
)

const SaltLength = 32

const (
	HashMurmur3 = iota
	HashMetro
	HashHighway
	HashSIP
)

var (
	ErrUnknownHash        = fmt.Errorf("cannot create a hasher of unknown hash type")
	ErrSaltLengthMismatch = fmt.Errorf("provided salt is not %d length", SaltLength)
)

// Hasher implements different non cryptographic hashing functions
type Hasher interface {
	Hash64([]byte) uint64
}

// New creates a hasher of type t
func New(t int, salt []byte) (Hasher, error) {
	switch t {
	case HashMurmur3:
		return NewMurmur3Hasher(salt)
	case HashMetro:
		return NewMetroHasher(salt)
	case HashHighway:
		return NewHighwayHasher(salt)
	case HashSIP:
		return NewSIPHasher(salt)
	default:
		return nil, ErrUnknownHash
	}
}

// Reduce adapts a 64-bit Hasher to a Func by reducing
// its output modulo the table capacity.
func Reduce(h Hasher) Func {
	return func(key string, modulus uint64) uint64 {
		return h.Hash64([]byte(key)) % modulus
	}
}

// murmur3 implementation of Hasher, the first 8 bytes
// of the salt seed the sum
type murmur64 struct {
	seed uint64
}

// NewMurmur3Hasher returns a Murmur3 hasher seeded from salt
func NewMurmur3Hasher(salt []byte) (murmur64, error) {
	if len(salt) != SaltLength {
		return murmur64{}, ErrSaltLengthMismatch
	}

	return murmur64{seed: binary.LittleEndian.Uint64(salt)}, nil
}

func (m murmur64) Hash64(p []byte) uint64 {
	return murmur3.SeedSum64(m.seed, p)
}

// metro hash implementation of Hasher
type metro64 struct {
	seed uint64
}

// NewMetroHasher returns a metro64 hasher seeded from salt
func NewMetroHasher(salt []byte) (metro64, error) {
	if len(salt) != SaltLength {
		return metro64{}, ErrSaltLengthMismatch
	}

	return metro64{seed: binary.LittleEndian.Uint64(salt)}, nil
}

func (m metro64) Hash64(p []byte) uint64 {
	return metro.Hash64(p, m.seed)
}

// highwayhash implementation of Hasher, the whole
// salt is used as the 256 bit key
type highway64 struct {
	key []byte
}

// NewHighwayHasher returns a highwayhash hasher keyed with salt
func NewHighwayHasher(salt []byte) (highway64, error) {
	if len(salt) != SaltLength {
		return highway64{}, ErrSaltLengthMismatch
	}

	return highway64{key: salt}, nil
}

func (h highway64) Hash64(p []byte) uint64 {
	return highwayhash.Sum64(p, h.key)
}

// sipHash implementation of Hasher
type siphash64 struct {
	key0, key1 uint64
}

// NewSIPHasher returns a SIP hasher keyed with
// the first 16 bytes of salt
func NewSIPHasher(salt []byte) (siphash64, error) {
	if len(salt) != SaltLength {
		return siphash64{}, ErrSaltLengthMismatch
	}
	var key0 = binary.BigEndian.Uint64(salt[:8])
	var key1 = binary.BigEndian.Uint64(salt[8:16])

	return siphash64{key0: key0, key1: key1}, nil
}

func (s siphash64) Hash64(p []byte) uint64 {
	return siphash.Hash(s.key0, s.key1, p)
}
