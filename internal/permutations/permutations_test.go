package permutations

import (
	"testing"
)

var sizes = []int{0, 1, 2, 10, 101, 1000, 4099}

// isPermutation checks that p visits every position of n exactly once
func isPermutation(t *testing.T, name string, p Permutations, n int) {
	t.Helper()
	seen := make([]bool, n)
	for i := 0; i < n; i++ {
		j := p.Shuffle(i)
		if j < 0 || j >= n {
			t.Fatalf("%s(%d): position %d out of range", name, n, j)
		}
		if seen[j] {
			t.Fatalf("%s(%d): position %d visited twice", name, n, j)
		}
		seen[j] = true
	}
}

func TestPermutations(t *testing.T) {
	for kind, name := range map[int]string{Kensler: "kensler", Naive: "naive", Nil: "nil"} {
		for _, n := range sizes {
			p, err := New(kind, n)
			if err != nil {
				t.Fatalf("%s(%d): %v", name, n, err)
			}
			isPermutation(t, name, p, n)
		}
	}

	if _, err := New(42, 10); err == nil {
		t.Error("expected an error for an unknown kind")
	}
}

func TestKenslerSeed(t *testing.T) {
	a, _ := NewKenslerWithSeed(1000, 0xdeadbeef)
	b, _ := NewKenslerWithSeed(1000, 0xdeadbeef)
	c, _ := NewKenslerWithSeed(1000, 0xfeedface)

	var same = true
	for i := 0; i < 1000; i++ {
		if a.Shuffle(i) != b.Shuffle(i) {
			t.Fatalf("same seed, position %d: %d and %d", i, a.Shuffle(i), b.Shuffle(i))
		}
		if a.Shuffle(i) != c.Shuffle(i) {
			same = false
		}
	}
	if same {
		t.Error("different seeds gave the same permutation")
	}

	if _, err := NewKenslerWithSeed(-1, 0); err == nil {
		t.Error("expected an error for a negative length")
	}
}

func TestParse(t *testing.T) {
	for s, want := range map[string]int{"kensler": Kensler, "naive": Naive, "none": Nil, "": Nil} {
		got, err := Parse(s)
		if err != nil || got != want {
			t.Errorf("Parse(%q): want: %d, got: %d (%v)", s, want, got, err)
		}
	}
	if _, err := Parse("sorted"); err == nil {
		t.Error("expected an error")
	}
}

func BenchmarkKensler(b *testing.B) {
	p, _ := NewKensler(1 << 20)
	for i := 0; i < b.N; i++ {
		p.Shuffle(i % (1 << 20))
	}
}
