package prng

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/google/uuid"
)

// BasePrng is the entropy-accounting core shared by every concrete
// generator. It implements the numeric, sequence, and reseeding surface
// of Prng purely in terms of an engine, which supplies the
// algorithm-specific bit source and state. Concrete generators embed a
// *BasePrng and construct it with themselves (or a small internal state
// type) as the engine.
//
// The entropy counter, cached Gaussian, and reseeder backlink are
// accessed atomically and need no lock; every other piece of state
// belongs to the engine and is guarded by its own lock.
type BasePrng struct {
	eng                  engine
	maxAcceptedSeedBytes int
	id                   string

	entropy        atomic.Int64
	gaussianBits   atomic.Uint64
	reseeder       atomic.Pointer[ReseederLoop]
	reseedFailed   atomic.Bool
	parallelStream atomic.Bool
}

// newBasePrng wires eng into a fresh BasePrng. maxAcceptedSeedBytes
// bounds how many bytes of any single seed are credited as entropy.
// Each instance gets its own uuid, the same way the teacher identifies
// entries, so Dump() output stays unambiguous across many instances of
// the same algorithm in one log stream.
func newBasePrng(eng engine, maxAcceptedSeedBytes int) *BasePrng {
	b := &BasePrng{eng: eng, maxAcceptedSeedBytes: maxAcceptedSeedBytes, id: uuid.New().String()}
	b.gaussianBits.Store(math.Float64bits(math.NaN()))
	return b
}

// ID returns the generator's unique, process-local identifier. It has
// no bearing on the algorithm; it exists to disambiguate log lines and
// reseed events across many instances of the same algorithm.
func (b *BasePrng) ID() string { return b.id }

// nextBits is the internal next_bits(k) of §4.B: it does not itself
// debit entropy.
func (b *BasePrng) nextBits(k uint8) uint32 {
	return b.eng.nextBitsRaw(k)
}

// debit subtracts bits from the entropy counter and, if that crosses
// zero while a reseeder is registered, asynchronously nudges it. Safe to
// call with bits <= 0 (no-op).
func (b *BasePrng) debit(bits int64) {
	if bits <= 0 {
		return
	}
	if v := b.entropy.Add(-bits); v <= 0 {
		if loop := b.reseeder.Load(); loop != nil {
			loop.nudge(b)
		}
	}
}

// credit raises the entropy counter to at least
// min(seedLen, maxAcceptedSeedBytes)*8 bits, never lowering it.
func (b *BasePrng) credit(seedLen int) {
	bits := int64(min(seedLen, b.maxAcceptedSeedBytes)) * 8
	for {
		old := b.entropy.Load()
		if bits <= old {
			return
		}
		if b.entropy.CompareAndSwap(old, bits) {
			return
		}
	}
}

// EntropyBits implements Prng.
func (b *BasePrng) EntropyBits() int64 { return b.entropy.Load() }

// NewSeedLength implements Prng.
func (b *BasePrng) NewSeedLength() int {
	b.eng.lock()
	defer b.eng.unlock()
	return b.eng.seedLen()
}

// SetSeed implements Prng.
func (b *BasePrng) SetSeed(seed []byte) error {
	b.eng.lock()
	err := b.eng.setSeedBytes(seed)
	b.eng.unlock()
	if err != nil {
		return err
	}
	b.credit(len(seed))
	b.reseedFailed.Store(false)
	return nil
}

// SetSeedLong implements Prng. It is a legacy path: algorithms whose
// natural seed is longer than 8 bytes may reject it, in which case the
// call is silently ignored (matching the source's documented behavior
// for super-constructor calls on subclasses with wider seeds).
func (b *BasePrng) SetSeedLong(seed int64) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(seed))
	_ = b.SetSeed(buf)
}

// Seed implements Prng.
func (b *BasePrng) Seed() ([]byte, error) {
	b.eng.lock()
	defer b.eng.unlock()
	return b.eng.seedBytes()
}

// RegisterWithReseeder implements Prng.
func (b *BasePrng) RegisterWithReseeder(loop *ReseederLoop) {
	old := b.reseeder.Swap(loop)
	if old != nil && old != loop {
		old.unregister(b)
	}
	if loop != nil {
		loop.register(b)
	}
}

// ReseedFailed reports whether the most recent reseed attempt by a
// registered ReseederLoop failed. It does not affect the output path.
func (b *BasePrng) ReseedFailed() bool { return b.reseedFailed.Load() }

func (b *BasePrng) markReseedFailed(failed bool) { b.reseedFailed.Store(failed) }

// SetParallelStreams toggles whether Ints/Longs/Doubles/Gaussians
// distribute work across goroutines. Off by default: a parallel stream
// that is truncated before being fully consumed can over-consume
// entropy (§4.B), so callers opt in explicitly.
func (b *BasePrng) SetParallelStreams(parallel bool) { b.parallelStream.Store(parallel) }

// Dump implements Prng.
func (b *BasePrng) Dump() string {
	b.eng.lock()
	seed, seedErr := b.eng.seedBytes()
	name := b.eng.algorithmName()
	fields := b.eng.dumpFields()
	b.eng.unlock()
	seedRepr := fmt.Sprintf("%x", seed)
	if seedErr != nil {
		seedRepr = "<unknown>"
	}
	return fmt.Sprintf("%s{id=%s, seed=%s, entropyBits=%d, reseedFailed=%v, %s}",
		name, b.id, seedRepr, b.EntropyBits(), b.ReseedFailed(), fields)
}
