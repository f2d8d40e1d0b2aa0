package permutations

/*

Andrew Kensler introduced a hashed permutation technique in his 2013
paper, Correlated Multi-Jittered Sampling.

reference:             https://graphics.pixar.com/library/MultiJitteredSampling/paper.pdf
further comments from: https://afnan.io/posts/2019-04-05-explaining-the-hashed-permutation/

*/

// kensler shuffler
// l The size of the permutation
// p The seed of the shuffle
type kensler struct {
	l, p uint32
}

// NewKensler permutes l positions with a random seed
func NewKensler(l int) (kensler, error) {
	seed, err := randomSeed()
	if err != nil {
		return kensler{}, err
	}
	return NewKenslerWithSeed(l, seed)
}

// NewKenslerWithSeed permutes l positions, the same way for the same seed
func NewKenslerWithSeed(l int, seed uint32) (kensler, error) {
	if err := checkLength(l); err != nil {
		return kensler{}, err
	}
	return kensler{l: uint32(l), p: seed}, nil
}

// Shuffle using the kensler algorithm. The hash is cycle walked
// until it lands within l, which takes two rounds on average.
func (k kensler) Shuffle(n int) int {
	var l = k.l
	var p = k.p
	var i = uint32(n)
	if l < 2 {
		return n
	}

	var w = l - 1
	w |= w >> 1
	w |= w >> 2
	w |= w >> 4
	w |= w >> 8
	w |= w >> 16

	for {
		i ^= p
		i *= 0xe170893d
		i ^= p >> 16
		i ^= (i & w) >> 4
		i ^= p >> 8
		i *= 0x0929eb3f
		i ^= p >> 23
		i ^= (i & w) >> 1
		i *= 1 | p>>27
		i *= 0x6935fa69
		i ^= (i & w) >> 11
		i *= 0x74dcb303
		i ^= (i & w) >> 2
		i *= 0x9e501cc3
		i ^= (i & w) >> 2
		i *= 0xc860a3df
		i &= w
		i ^= i >> 5

		if i < l {
			break
		}
	}
	return int((uint64(i) + uint64(p)) % uint64(l))
}
