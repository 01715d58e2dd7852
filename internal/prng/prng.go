// Package prng implements a seeded, cross-platform-stable pseudo-random
// source. It exists because host math libraries (Math.random, math/rand's
// default source, etc.) are not guaranteed to produce identical sequences
// across platforms or language runtimes; Mulberry32 is a small, fully
// specified 32-bit generator that this module's determinism guarantees
// depend on. Nothing in this package may call into math/rand.
package prng

import "hash/fnv"

// PRNG is a Mulberry32 generator over a 32-bit internal state.
type PRNG struct {
	state uint32
}

// New creates a PRNG from a seed. Non-finite or zero seeds normalize to 1;
// otherwise the seed is truncated modulo 2^32.
func New(seed int64) *PRNG {
	return &PRNG{state: normalizeSeed(seed)}
}

func normalizeSeed(seed int64) uint32 {
	if seed == 0 {
		return 1
	}
	v := uint32(seed)
	if v == 0 {
		return 1
	}
	return v
}

// imul32 reproduces JavaScript's Math.imul 32-bit signed multiply semantics:
// the inputs and output are truncated to 32 bits, and the multiplication
// itself is computed in a wider type so Go's own overflow behavior can't
// diverge from the reference algorithm.
func imul32(a, b uint32) uint32 {
	return uint32(uint64(a) * uint64(b))
}

// nextUint32 advances the internal state and returns the raw 32-bit output word.
func (p *PRNG) nextUint32() uint32 {
	p.state += 0x6D2B79F5
	t := p.state
	t = imul32(t^(t>>15), t|1)
	t ^= t + imul32(t^(t>>7), t|61)
	return t ^ (t >> 14)
}

// Next returns the next float in [0, 1).
func (p *PRNG) Next() float64 {
	return float64(p.nextUint32()) / 4294967296.0
}

// NextFloat returns a float uniformly distributed in [lo, hi).
func (p *PRNG) NextFloat(lo, hi float64) float64 {
	return lo + (hi-lo)*p.Next()
}

// NextInt returns an integer uniformly distributed in the inclusive range
// [min(lo,hi), max(lo,hi)].
func (p *PRNG) NextInt(lo, hi int) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	span := p.NextFloat(float64(lo), float64(hi)+1)
	return int(floor(span))
}

func floor(v float64) float64 {
	i := int64(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return float64(i)
}

const hexDigits = "0123456789abcdef"

// NextHex returns n lowercase hex digits, each drawn from NextInt(0, 15).
func (p *PRNG) NextHex(n int) string {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = hexDigits[p.NextInt(0, 15)]
	}
	return string(out)
}

// Fork returns a new PRNG whose state is this PRNG's current state XORed
// with a deterministic 32-bit hash of salt. Forking does not advance the
// receiver's state.
func (p *PRNG) Fork(salt any) *PRNG {
	return &PRNG{state: p.state ^ saltHash(salt)}
}

// HashText returns the FNV-1a hash of s's UTF-8 bytes, the same derivation
// Fork uses for a text salt. Exported so callers can combine it with a seed
// (e.g. run id derivation's `seed XOR hash(objective)`) without going
// through Fork's XOR-with-current-state semantics.
func HashText(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

// saltHash derives a deterministic 32-bit value from salt: FNV-1a over the
// UTF-8 bytes when salt is text, or seed normalization when salt is numeric.
func saltHash(salt any) uint32 {
	switch v := salt.(type) {
	case string:
		return HashText(v)
	case int:
		return normalizeSeed(int64(v))
	case int64:
		return normalizeSeed(v)
	case uint32:
		if v == 0 {
			return 1
		}
		return v
	default:
		return 1
	}
}
