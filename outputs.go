package prng

import (
	"encoding/binary"
	"iter"
	"math"
	"math/bits"
	"runtime"
	"sync"
)

// bitsForU64 returns ceil(log2(bound)) for bound >= 1, used to charge
// entropy for a bounded draw regardless of how many raw bits the
// rejection loop underneath actually consumed.
func bitsForU64(bound uint64) int64 {
	if bound <= 1 {
		return 0
	}
	return int64(bits.Len64(bound - 1))
}

// nextRaw64 assembles 64 raw bits from two 32-bit fetches. It does not
// debit entropy; callers are responsible for accounting.
func (b *BasePrng) nextRaw64() uint64 {
	hi := uint64(b.nextBits(32))
	lo := uint64(b.nextBits(32))
	return hi<<32 | lo
}

// boundedU64Raw returns a uniform value in [0, bound) via rejection
// sampling, with no modulo bias. bound must be >= 1. Does not debit.
func (b *BasePrng) boundedU64Raw(bound uint64) uint64 {
	if bound == 1 {
		return 0
	}
	limit := ^uint64(0) - (^uint64(0) % bound)
	for {
		if r := b.nextRaw64(); r < limit {
			return r % bound
		}
	}
}

// rawFloat64 returns a uniform value in [0, 1) using 53 bits, Java's
// nextDouble layout (26 high bits, 27 low bits). Does not debit.
func (b *BasePrng) rawFloat64() float64 {
	hi := uint64(b.nextBits(26))
	lo := uint64(b.nextBits(27))
	return float64((hi<<27)|lo) / float64(uint64(1)<<53)
}

// NextBytes implements Prng.
func (b *BasePrng) NextBytes(out []byte) {
	i := 0
	for ; i+4 <= len(out); i += 4 {
		binary.LittleEndian.PutUint32(out[i:], b.nextBits(32))
	}
	if rem := len(out) - i; rem > 0 {
		v := b.nextBits(uint8(rem * 8))
		for j := 0; j < rem; j++ {
			out[i+j] = byte(v >> (8 * j))
		}
	}
	b.debit(int64(len(out)) * 8)
}

// NextInt implements Prng.
func (b *BasePrng) NextInt() int32 {
	v := int32(b.nextBits(32))
	b.debit(32)
	return v
}

// NextIntN implements Prng.
func (b *BasePrng) NextIntN(bound int32) int32 {
	if bound <= 0 {
		panic("prng: bound must be positive")
	}
	u := uint64(bound)
	r := b.boundedU64Raw(u)
	b.debit(bitsForU64(u))
	return int32(r)
}

// NextIntRange implements Prng.
func (b *BasePrng) NextIntRange(origin, bound int32) (int32, error) {
	if bound <= origin {
		return 0, &InvalidBoundError{Origin: int64(origin), Bound: int64(bound)}
	}
	diff := uint64(int64(bound) - int64(origin))
	r := b.boundedU64Raw(diff)
	b.debit(bitsForU64(diff))
	return origin + int32(r), nil
}

// NextLong implements Prng.
func (b *BasePrng) NextLong() int64 {
	v := int64(b.nextRaw64())
	b.debit(64)
	return v
}

// NextLongN implements Prng.
func (b *BasePrng) NextLongN(bound int64) int64 {
	if bound <= 0 {
		panic("prng: bound must be positive")
	}
	u := uint64(bound)
	r := b.boundedU64Raw(u)
	b.debit(bitsForU64(u))
	return int64(r)
}

// NextLongRange implements Prng.
func (b *BasePrng) NextLongRange(origin, bound int64) (int64, error) {
	if bound <= origin {
		return 0, &InvalidBoundError{Origin: origin, Bound: bound}
	}
	diff := uint64(bound) - uint64(origin)
	r := b.boundedU64Raw(diff)
	b.debit(bitsForU64(diff))
	return origin + int64(r), nil
}

// NextBoolean implements Prng.
func (b *BasePrng) NextBoolean() bool {
	v := b.nextBits(1) != 0
	b.debit(1)
	return v
}

// NextFloat32 implements Prng.
func (b *BasePrng) NextFloat32() float32 {
	v := float32(b.nextBits(24)) / float32(1<<24)
	b.debit(24)
	return v
}

// NextFloat64 implements Prng.
func (b *BasePrng) NextFloat64() float64 {
	v := b.rawFloat64()
	b.debit(53)
	return v
}

// NextGaussian implements Prng using the Marsaglia polar method. The
// second deviate of each generated pair is cached in an atomic word and
// returned by the following call without drawing fresh state; the
// source's accounting charges 53 bits to every call regardless, cached
// or not.
func (b *BasePrng) NextGaussian() float64 {
	for {
		cached := b.gaussianBits.Load()
		if v := math.Float64frombits(cached); !math.IsNaN(v) {
			if b.gaussianBits.CompareAndSwap(cached, math.Float64bits(math.NaN())) {
				b.debit(53)
				return v
			}
			continue
		}
		var v1, v2, s float64
		for {
			v1 = 2*b.rawFloat64() - 1
			v2 = 2*b.rawFloat64() - 1
			s = v1*v1 + v2*v2
			if s < 1 && s != 0 {
				break
			}
		}
		mul := math.Sqrt(-2 * math.Log(s) / s)
		b.gaussianBits.Store(math.Float64bits(v2 * mul))
		b.debit(53)
		return v1 * mul
	}
}

// WithProbability implements Prng.
func (b *BasePrng) WithProbability(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	v := b.rawFloat64()
	b.debit(1)
	return v < p
}

// Ints implements Prng.
func (b *BasePrng) Ints(n int64, origin, bound int32) iter.Seq[int32] {
	if bound <= origin {
		panic((&InvalidBoundError{Origin: int64(origin), Bound: int64(bound)}).Error())
	}
	if b.parallelStream.Load() && n > 0 {
		return sliceSeq(parallelGenerate(n, func(int64) int32 {
			v, _ := b.NextIntRange(origin, bound)
			return v
		}))
	}
	return func(yield func(int32) bool) {
		for i := int64(0); n < 0 || i < n; i++ {
			v, _ := b.NextIntRange(origin, bound)
			if !yield(v) {
				return
			}
		}
	}
}

// Longs implements Prng.
func (b *BasePrng) Longs(n int64, origin, bound int64) iter.Seq[int64] {
	if bound <= origin {
		panic((&InvalidBoundError{Origin: origin, Bound: bound}).Error())
	}
	if b.parallelStream.Load() && n > 0 {
		return sliceSeq(parallelGenerate(n, func(int64) int64 {
			v, _ := b.NextLongRange(origin, bound)
			return v
		}))
	}
	return func(yield func(int64) bool) {
		for i := int64(0); n < 0 || i < n; i++ {
			v, _ := b.NextLongRange(origin, bound)
			if !yield(v) {
				return
			}
		}
	}
}

// Doubles implements Prng.
func (b *BasePrng) Doubles(n int64) iter.Seq[float64] {
	if b.parallelStream.Load() && n > 0 {
		return sliceSeq(parallelGenerate(n, func(int64) float64 { return b.NextFloat64() }))
	}
	return func(yield func(float64) bool) {
		for i := int64(0); n < 0 || i < n; i++ {
			if !yield(b.NextFloat64()) {
				return
			}
		}
	}
}

// Gaussians implements Prng.
func (b *BasePrng) Gaussians(n int64) iter.Seq[float64] {
	if b.parallelStream.Load() && n > 0 {
		return sliceSeq(parallelGenerate(n, func(int64) float64 { return b.NextGaussian() }))
	}
	return func(yield func(float64) bool) {
		for i := int64(0); n < 0 || i < n; i++ {
			if !yield(b.NextGaussian()) {
				return
			}
		}
	}
}

// sliceSeq adapts a pre-computed slice to iter.Seq[T].
func sliceSeq[T any](vals []T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range vals {
			if !yield(v) {
				return
			}
		}
	}
}

// parallelGenerate fills a slice of n elements by spreading calls to gen
// across GOMAXPROCS goroutines. Each index still goes through the same
// entropy-accounted draw as the sequential path; only the scheduling
// differs. Intended for large, fully-consumed sequences: a sequence
// that is abandoned partway through still pays for every slot.
func parallelGenerate[T any](n int64, gen func(i int64) T) []T {
	out := make([]T, n)
	workers := int64(runtime.GOMAXPROCS(0))
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := int64(0); i < n; i++ {
			out[i] = gen(i)
		}
		return out
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := int64(0); w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int64) {
			defer wg.Done()
			for i := start; i < end; i++ {
				out[i] = gen(i)
			}
		}(start, end)
	}
	wg.Wait()
	return out
}
