package hash

import (
	"crypto/rand"
	"fmt"
	"testing"
)

var xxx = []byte("e:0e1f461bbefa6e07cc2ef06b9ee1ed25101e24d4345af266ed2f5a58bcd26c5e")

func makeSalt() ([]byte, error) {
	var s = make([]byte, SaltLength)

	if n, err := rand.Read(s); err != nil {
		return nil, err
	} else if n != SaltLength {
		return nil, fmt.Errorf("requested %d rand bytes and got %d", SaltLength, n)
	} else {
		return s, nil
	}
}

func TestUnknownHasher(t *testing.T) {
	s, _ := makeSalt()
	h, err := New(666, s)
	if err != ErrUnknownHash {
		t.Fatalf("requested impossible hasher and got %v", h)
	}
}

func TestSaltLength(t *testing.T) {
	for _, ht := range []int{HashMurmur3, HashMetro, HashHighway, HashSIP} {
		if _, err := New(ht, make([]byte, SaltLength-1)); err != ErrSaltLengthMismatch {
			t.Errorf("hasher %d with short salt: want: %v, got: %v", ht, ErrSaltLengthMismatch, err)
		}
	}
}

func TestSaltedHashersAreDeterministic(t *testing.T) {
	s, err := makeSalt()
	if err != nil {
		t.Fatal(err)
	}

	for _, ht := range []int{HashMurmur3, HashMetro, HashHighway, HashSIP} {
		h1, err := New(ht, s)
		if err != nil {
			t.Fatalf("hasher %d: %v", ht, err)
		}
		h2, _ := New(ht, append([]byte(nil), s...))
		if a, b := h1.Hash64(xxx), h2.Hash64(xxx); a != b {
			t.Errorf("hasher %d is not deterministic: %d != %d", ht, a, b)
		}
	}
}

func TestReduce(t *testing.T) {
	s, _ := makeSalt()
	h, _ := NewMurmur3Hasher(s)
	f := Reduce(h)
	for _, m := range []uint64{1, 2, 7, 101, 1 << 20} {
		if got := f(string(xxx), m); got >= m {
			t.Errorf("Reduce(murmur3)(xxx, %d): got %d, out of range", m, got)
		}
		if got, want := f(string(xxx), m), h.Hash64(xxx)%m; got != want {
			t.Errorf("Reduce(murmur3)(xxx, %d): want: %d, got: %d", m, want, got)
		}
	}
}

func BenchmarkMurmur3(b *testing.B) {
	s, _ := makeSalt()
	h, _ := NewMurmur3Hasher(s)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Hash64(xxx)
	}
}

func BenchmarkMetro(b *testing.B) {
	s, _ := makeSalt()
	h, _ := NewMetroHasher(s)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Hash64(xxx)
	}
}

func BenchmarkHighway(b *testing.B) {
	s, _ := makeSalt()
	h, _ := NewHighwayHasher(s)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Hash64(xxx)
	}
}

func BenchmarkSipHash(b *testing.B) {
	s, _ := makeSalt()
	h, _ := NewSIPHasher(s)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Hash64(xxx)
	}
}
