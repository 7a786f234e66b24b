package prng

import (
	"fmt"
	"iter"
	"sync"
)

// EntropyBlockingPrng wraps an inner Prng and, rather than letting it
// run past zero entropy, blocks the calling goroutine until it has been
// reseeded back above a floor. Where ReseedingThreadLocalPrng reseeds
// lazily in the background and lets output continue in the meantime,
// this trades latency for the guarantee that every value it returns was
// produced with entropy still in the bank.
type EntropyBlockingPrng struct {
	mu         sync.Mutex
	inner      Prng
	seedSource SeedSource
	minEntropy int64
}

// NewEntropyBlockingPrng wraps inner, reseeding it from seedSource
// whenever its entropy count is at or below minEntropyBits. A
// minEntropyBits of 0 blocks exactly when inner itself would otherwise
// start returning output it has no entropy left to back.
func NewEntropyBlockingPrng(inner Prng, seedSource SeedSource, minEntropyBits int64) *EntropyBlockingPrng {
	return &EntropyBlockingPrng{inner: inner, seedSource: seedSource, minEntropy: minEntropyBits}
}

// ensure blocks until inner reports more than minEntropy bits,
// reseeding it synchronously as many times as it takes. Concurrent
// callers serialize on mu so they reseed one at a time instead of
// racing the seed source.
func (e *EntropyBlockingPrng) ensure() {
	if e.inner.EntropyBits() > e.minEntropy {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for e.inner.EntropyBits() <= e.minEntropy {
		seed, err := e.seedSource.Generate(e.inner.NewSeedLength())
		if err != nil {
			continue
		}
		if err := e.inner.SetSeed(seed); err != nil {
			continue
		}
	}
}

func (e *EntropyBlockingPrng) NextBytes(out []byte) { e.ensure(); e.inner.NextBytes(out) }

func (e *EntropyBlockingPrng) NextInt() int32 { e.ensure(); return e.inner.NextInt() }

func (e *EntropyBlockingPrng) NextIntN(bound int32) int32 {
	e.ensure()
	return e.inner.NextIntN(bound)
}

func (e *EntropyBlockingPrng) NextIntRange(origin, bound int32) (int32, error) {
	e.ensure()
	return e.inner.NextIntRange(origin, bound)
}

func (e *EntropyBlockingPrng) NextLong() int64 { e.ensure(); return e.inner.NextLong() }

func (e *EntropyBlockingPrng) NextLongN(bound int64) int64 {
	e.ensure()
	return e.inner.NextLongN(bound)
}

func (e *EntropyBlockingPrng) NextLongRange(origin, bound int64) (int64, error) {
	e.ensure()
	return e.inner.NextLongRange(origin, bound)
}

func (e *EntropyBlockingPrng) NextBoolean() bool { e.ensure(); return e.inner.NextBoolean() }

func (e *EntropyBlockingPrng) NextFloat32() float32 { e.ensure(); return e.inner.NextFloat32() }

func (e *EntropyBlockingPrng) NextFloat64() float64 { e.ensure(); return e.inner.NextFloat64() }

func (e *EntropyBlockingPrng) NextGaussian() float64 { e.ensure(); return e.inner.NextGaussian() }

func (e *EntropyBlockingPrng) WithProbability(p float64) bool {
	e.ensure()
	return e.inner.WithProbability(p)
}

// Ints ensures entropy once, at the start of the sequence, the same
// tradeoff ThreadLocalPrng makes for its own lazy sequences: a very
// long draw can still exhaust entropy partway through.
func (e *EntropyBlockingPrng) Ints(n int64, origin, bound int32) iter.Seq[int32] {
	e.ensure()
	return e.inner.Ints(n, origin, bound)
}

func (e *EntropyBlockingPrng) Longs(n int64, origin, bound int64) iter.Seq[int64] {
	e.ensure()
	return e.inner.Longs(n, origin, bound)
}

func (e *EntropyBlockingPrng) Doubles(n int64) iter.Seq[float64] {
	e.ensure()
	return e.inner.Doubles(n)
}

func (e *EntropyBlockingPrng) Gaussians(n int64) iter.Seq[float64] {
	e.ensure()
	return e.inner.Gaussians(n)
}

func (e *EntropyBlockingPrng) SetSeed(seed []byte) error { return e.inner.SetSeed(seed) }

func (e *EntropyBlockingPrng) SetSeedLong(seed int64) { e.inner.SetSeedLong(seed) }

func (e *EntropyBlockingPrng) Seed() ([]byte, error) { return e.inner.Seed() }

func (e *EntropyBlockingPrng) EntropyBits() int64 { return e.inner.EntropyBits() }

func (e *EntropyBlockingPrng) NewSeedLength() int { return e.inner.NewSeedLength() }

func (e *EntropyBlockingPrng) RegisterWithReseeder(loop *ReseederLoop) {
	e.inner.RegisterWithReseeder(loop)
}

func (e *EntropyBlockingPrng) ID() string { return e.inner.ID() }

func (e *EntropyBlockingPrng) Dump() string {
	return fmt.Sprintf("EntropyBlockingPrng{minEntropy=%d, inner=%s}", e.minEntropy, e.inner.Dump())
}
