package prng

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"math/rand/v2"

	"github.com/alaingilbert/prng/internal/mtx"
)

// goldenGamma is Java SplittableRandom's fixed root increment constant
// (the odd-valued golden-ratio Weyl step), reused here as the seed for
// deriving a second 64-bit value out of one 8-byte input.
const goldenGamma = 0x9E3779B97F4A7C15

// mix64 is Stafford's variant 13 avalanche mix, the same bit-mixing
// function Java's SplittableRandom uses to turn a linear Weyl sequence
// into well-distributed output.
func mix64(z uint64) uint64 {
	z ^= z >> 30
	z *= 0xbf58476d1ce4e5b9
	z ^= z >> 27
	z *= 0x94d049bb133111eb
	z ^= z >> 31
	return z
}

// mixGamma derives an odd, well-decorrelated stream increment from a
// seed word, following SplittableRandom's mixGamma: force the mixed
// value odd, then flip it against a bit pattern if its popcount of
// (z ^ z>>1) looks too regular, avoiding short-period increments.
func mixGamma(z uint64) uint64 {
	z = mix64(z) | 1
	n := bits.OnesCount64(z ^ (z >> 1))
	if n < 24 {
		z ^= 0xaaaaaaaaaaaaaaaa
	}
	return z
}

// splittableState is the mutable half of a splittableEngine, paired
// with the mutex that guards it via mtx.Mtx rather than a bare
// sync.Mutex alongside separate fields.
type splittableState struct {
	pcg     *rand.PCG
	buf     uint64
	bufBits uint8
	seed    [8]byte
}

// splittableEngine adapts math/rand/v2's PCG, a splittable generator in
// the sense that two independent streams can be carved from one 64-bit
// seed, into the engine contract. The 8-byte seed contract mirrors
// Java's SplittableRandom, which derives both its internal state and
// its per-instance stream increment from a single seed word rather than
// taking them as two independently supplied halves; mix64/mixGamma
// reproduce that derivation so PCG's two 64-bit constructor arguments
// still come out well distributed from one word.
type splittableEngine struct {
	st mtx.Mtx[splittableState]
}

func newSplittableEngine() *splittableEngine {
	return &splittableEngine{}
}

func (e *splittableEngine) lock()   { e.st.Lock() }
func (e *splittableEngine) unlock() { e.st.Unlock() }

func (e *splittableEngine) algorithmName() string { return "SplittablePrng" }
func (e *splittableEngine) seedLen() int           { return 8 }

// seedBytes and setSeedBytes read e.st.Val() directly, bypassing the
// mutex: both are only ever called by BasePrng with the engine lock
// already held.
func (e *splittableEngine) seedBytes() ([]byte, error) {
	s := e.st.Val()
	return append([]byte(nil), s.seed[:]...), nil
}

func (e *splittableEngine) setSeedBytes(seed []byte) error {
	if len(seed) != 8 {
		return &InvalidSeedLengthError{Algorithm: e.algorithmName(), Got: len(seed), Min: 8, Max: 8}
	}
	s := e.st.Val()
	copy(s.seed[:], seed)
	word := binary.LittleEndian.Uint64(seed)
	pcgState := mix64(word)
	pcgStream := mixGamma(word ^ goldenGamma)
	s.pcg = rand.NewPCG(pcgState, pcgStream)
	s.buf = 0
	s.bufBits = 0
	return nil
}

func (e *splittableEngine) nextBitsRaw(k uint8) uint32 {
	e.st.Lock()
	defer e.st.Unlock()
	s := e.st.Val()
	if s.bufBits < k {
		s.buf = s.pcg.Uint64()
		s.bufBits = 64
	}
	v := uint32(s.buf >> (64 - uint64(k)))
	s.buf <<= k
	s.bufBits -= k
	return v
}

func (e *splittableEngine) dumpFields() string {
	return fmt.Sprintf("bufBits=%d", e.st.Val().bufBits)
}

// SplittablePrng wraps math/rand/v2's PCG, a splittable linear generator,
// in the entropy-accounting contract. "Splittable" here follows the
// source's terminology for generators whose state can be forked into
// independent streams (see Split); it does not mean the generator is
// cryptographically strong.
type SplittablePrng struct {
	*BasePrng
}

// NewSplittablePrng constructs a SplittablePrng, drawing an 8-byte seed
// from src.
func NewSplittablePrng(src SeedSource) (*SplittablePrng, error) {
	seed, err := src.Generate(8)
	if err != nil {
		return nil, err
	}
	return NewSplittablePrngFromSeed(seed)
}

// NewSplittablePrngFromSeed constructs a SplittablePrng directly from a
// caller-supplied 8-byte seed.
func NewSplittablePrngFromSeed(seed []byte) (*SplittablePrng, error) {
	eng := newSplittableEngine()
	if err := eng.setSeedBytes(seed); err != nil {
		return nil, err
	}
	p := &SplittablePrng{BasePrng: newBasePrng(eng, 8)}
	p.credit(len(seed))
	return p, nil
}

// Split derives a new, independent SplittablePrng stream from fresh
// entropy drawn out of p itself, the same way one would fork a PCG
// stream from a parent generator rather than reseeding from an external
// SeedSource.
func (p *SplittablePrng) Split() (*SplittablePrng, error) {
	seed := make([]byte, 8)
	p.NextBytes(seed)
	return NewSplittablePrngFromSeed(seed)
}
