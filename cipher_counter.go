package prng

import (
	"encoding/binary"
	"fmt"
	"sync"
)

// keystreamSource supplies the block-cipher-specific half of a
// cipher-counter engine: it knows how to derive its state from a seed
// and how to produce the next fixed-size keystream block. A
// cipherCounterEngine wraps one of these to provide the rest of the
// engine contract (buffering, bit extraction, locking) generically.
type keystreamSource interface {
	name() string
	blockSize() int
	minSeedLen() int
	maxSeedLen() int
	reseed(seed []byte) error
	refill(block []byte)
	dumpFields() string
}

// cipherCounterEngine implements engine on top of a keystreamSource. It
// buffers one keystream block at a time and serves next_bits(32) calls
// four bytes at a time, refilling whenever the buffer is exhausted. This
// is the same shape the pack's seeded AES-CTR readers use to turn a
// block cipher into a byte stream, except the keystream block here is
// the direct output of encrypting the counter rather than an XOR mask
// applied to caller-supplied bytes.
type cipherCounterEngine struct {
	mu   sync.Mutex
	src  keystreamSource
	seed []byte
	buf  []byte
	pos  int
}

func newCipherCounterEngine(src keystreamSource) *cipherCounterEngine {
	return &cipherCounterEngine{src: src}
}

func (e *cipherCounterEngine) lock()   { e.mu.Lock() }
func (e *cipherCounterEngine) unlock() { e.mu.Unlock() }

func (e *cipherCounterEngine) algorithmName() string { return e.src.name() }
func (e *cipherCounterEngine) seedLen() int           { return e.src.maxSeedLen() }
func (e *cipherCounterEngine) dumpFields() string     { return e.src.dumpFields() }

// seedBytes must be called with the lock held.
func (e *cipherCounterEngine) seedBytes() ([]byte, error) {
	return append([]byte(nil), e.seed...), nil
}

// setSeedBytes must be called with the lock held.
func (e *cipherCounterEngine) setSeedBytes(seed []byte) error {
	if len(seed) < e.src.minSeedLen() || len(seed) > e.src.maxSeedLen() {
		return &InvalidSeedLengthError{
			Algorithm: e.src.name(),
			Got:       len(seed),
			Min:       e.src.minSeedLen(),
			Max:       e.src.maxSeedLen(),
		}
	}
	if err := e.src.reseed(seed); err != nil {
		return err
	}
	e.seed = append([]byte(nil), seed...)
	e.buf = nil
	e.pos = 0
	return nil
}

// nextBitsRaw locks on its own: BasePrng never holds a lock around this
// call.
func (e *cipherCounterEngine) nextBitsRaw(k uint8) uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	var raw [4]byte
	for i := 0; i < 4; i++ {
		if e.buf == nil || e.pos >= len(e.buf) {
			e.buf = make([]byte, e.src.blockSize())
			e.src.refill(e.buf)
			e.pos = 0
		}
		raw[i] = e.buf[e.pos]
		e.pos++
	}
	v := binary.LittleEndian.Uint32(raw[:])
	if k >= 32 {
		return v
	}
	return v >> (32 - k)
}

func dumpCounter(name string, counter []byte) string {
	return fmt.Sprintf("counter=%x", counter)
}

// incrementCounter adds 1 to ctr, treated as a little-endian multi-byte
// integer, wrapping on overflow. Mirrors the pack's seeded-AES-CTR
// reader, which increments its nonce the same way.
func incrementCounter(ctr []byte) {
	for i := range ctr {
		ctr[i]++
		if ctr[i] != 0 {
			break
		}
	}
}
