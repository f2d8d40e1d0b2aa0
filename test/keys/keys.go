// Package keys generates key sets for exercising the tables.
//
// Random and Deterministic produce distinct alphanumeric keys:
//
//  9ZqkU1mT
//  b0xWcR2e
//  Lq7HhaAz
//
// Anagrams produces keys sharing every character, which all collide
// under the additive hash.
package keys

import (
	"bufio"
	"crypto/rand"
	"io"
	"sort"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
)

const (
	Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// FalsePositive rate of the filter rejecting already generated keys
	FalsePositive = 1e-6
)

// ErrKeySpace is returned when length characters cannot spell n distinct keys
var ErrKeySpace = errors.New("key space too small")

// Random returns n distinct keys of length characters read from crypto/rand
func Random(n, length int) ([]string, error) {
	return generate(rand.Reader, n, length)
}

// Deterministic returns the same n distinct keys of length characters
// for the same seed. The stream is the blake3 extendable output of seed.
func Deterministic(seed []byte, n, length int) ([]string, error) {
	h := blake3.New()
	if _, err := h.Write(seed); err != nil {
		return nil, err
	}
	return generate(h.Digest(), n, length)
}

// generate draws keys from src until it has n of them. A key the
// filter has seen, or falsely believes it has, is skipped.
func generate(src io.Reader, n, length int) ([]string, error) {
	if n < 0 || length < 1 {
		return nil, errors.Wrapf(ErrKeySpace, "%d keys of length %d", n, length)
	}
	// keep twice n in the space so the false positives never starve the loop
	space := 1
	for i := 0; i < length && space < 2*n; i++ {
		space *= len(Alphabet)
	}
	if space < 2*n {
		return nil, errors.Wrapf(ErrKeySpace, "%d keys of length %d", n, length)
	}

	seen := bloom.NewWithEstimates(uint(max(n, 1)), FalsePositive)
	keys := make([]string, 0, n)
	buf := make([]byte, length)
	for len(keys) < n {
		if _, err := io.ReadFull(src, buf); err != nil {
			return keys, errors.Wrap(err, "reading random bytes")
		}
		for i, b := range buf {
			buf[i] = Alphabet[int(b)%len(Alphabet)]
		}
		if seen.TestAndAdd(buf) {
			continue
		}
		keys = append(keys, string(buf))
	}

	return keys, nil
}

// Anagrams returns up to n distinct rearrangements of base in
// lexicographic order, starting with its sorted form
func Anagrams(base string, n int) []string {
	r := []rune(base)
	sort.Slice(r, func(i, j int) bool { return r[i] < r[j] })

	var out []string
	for len(out) < n {
		out = append(out, string(r))
		if !nextPermutation(r) {
			break
		}
	}
	return out
}

// nextPermutation rearranges r into its lexicographic successor and
// reports false once r is the last one
func nextPermutation(r []rune) bool {
	i := len(r) - 2
	for i >= 0 && r[i] >= r[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(r) - 1
	for r[j] <= r[i] {
		j--
	}
	r[i], r[j] = r[j], r[i]
	for a, b := i+1, len(r)-1; a < b; a, b = a+1, b-1 {
		r[a], r[b] = r[b], r[a]
	}
	return true
}

// Write writes one key per line to w
func Write(w io.Writer, keys []string) error {
	out := bufio.NewWriter(w)
	for _, k := range keys {
		if _, err := out.WriteString(k); err != nil {
			return err
		}
		if err := out.WriteByte('\n'); err != nil {
			return err
		}
	}
	return out.Flush()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
