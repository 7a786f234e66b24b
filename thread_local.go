package prng

import (
	"fmt"
	"iter"
	"sync"
)

// ThreadLocalPrng gives each caller its own underlying Prng without a
// single shared lock on the hot path. Go has no stable per-goroutine
// storage, so this follows the pack's own answer to that problem: a
// sync.Pool of ready-made generators, borrowed for the duration of one
// call (or one sequence) and returned afterward. Pool affinity tends to
// keep a goroutine on the same underlying instance across calls, but
// unlike a true thread-local this is never guaranteed.
type ThreadLocalPrng struct {
	mu      sync.Mutex
	factory func() (Prng, error)
	pool    *sync.Pool
}

// NewThreadLocalPrng constructs a ThreadLocalPrng whose pool entries are
// built by factory. factory is called lazily, the first time each pool
// slot is needed.
func NewThreadLocalPrng(factory func() (Prng, error)) *ThreadLocalPrng {
	t := &ThreadLocalPrng{factory: factory}
	t.pool = &sync.Pool{New: func() any {
		t.mu.Lock()
		f := t.factory
		t.mu.Unlock()
		p, err := f()
		if err != nil {
			panic(err)
		}
		return p
	}}
	return t
}

func (t *ThreadLocalPrng) borrow() Prng {
	return t.pool.Get().(Prng)
}

func (t *ThreadLocalPrng) release(p Prng) {
	t.pool.Put(p)
}

func (t *ThreadLocalPrng) with(fn func(Prng)) {
	p := t.borrow()
	defer t.release(p)
	fn(p)
}

func (t *ThreadLocalPrng) NextBytes(out []byte) { t.with(func(p Prng) { p.NextBytes(out) }) }

func (t *ThreadLocalPrng) NextInt() (v int32) {
	t.with(func(p Prng) { v = p.NextInt() })
	return
}

func (t *ThreadLocalPrng) NextIntN(bound int32) (v int32) {
	t.with(func(p Prng) { v = p.NextIntN(bound) })
	return
}

func (t *ThreadLocalPrng) NextIntRange(origin, bound int32) (v int32, err error) {
	t.with(func(p Prng) { v, err = p.NextIntRange(origin, bound) })
	return
}

func (t *ThreadLocalPrng) NextLong() (v int64) {
	t.with(func(p Prng) { v = p.NextLong() })
	return
}

func (t *ThreadLocalPrng) NextLongN(bound int64) (v int64) {
	t.with(func(p Prng) { v = p.NextLongN(bound) })
	return
}

func (t *ThreadLocalPrng) NextLongRange(origin, bound int64) (v int64, err error) {
	t.with(func(p Prng) { v, err = p.NextLongRange(origin, bound) })
	return
}

func (t *ThreadLocalPrng) NextBoolean() (v bool) {
	t.with(func(p Prng) { v = p.NextBoolean() })
	return
}

func (t *ThreadLocalPrng) NextFloat32() (v float32) {
	t.with(func(p Prng) { v = p.NextFloat32() })
	return
}

func (t *ThreadLocalPrng) NextFloat64() (v float64) {
	t.with(func(p Prng) { v = p.NextFloat64() })
	return
}

func (t *ThreadLocalPrng) NextGaussian() (v float64) {
	t.with(func(p Prng) { v = p.NextGaussian() })
	return
}

func (t *ThreadLocalPrng) WithProbability(prob float64) (v bool) {
	t.with(func(p Prng) { v = p.WithProbability(prob) })
	return
}

// Ints implements Prng. The borrowed instance is held for the lifetime
// of the returned sequence, not just one element at a time, so a
// partially-consumed sequence still returns its instance to the pool
// once iteration stops.
func (t *ThreadLocalPrng) Ints(n int64, origin, bound int32) iter.Seq[int32] {
	return func(yield func(int32) bool) {
		p := t.borrow()
		defer t.release(p)
		for v := range p.Ints(n, origin, bound) {
			if !yield(v) {
				return
			}
		}
	}
}

func (t *ThreadLocalPrng) Longs(n int64, origin, bound int64) iter.Seq[int64] {
	return func(yield func(int64) bool) {
		p := t.borrow()
		defer t.release(p)
		for v := range p.Longs(n, origin, bound) {
			if !yield(v) {
				return
			}
		}
	}
}

func (t *ThreadLocalPrng) Doubles(n int64) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		p := t.borrow()
		defer t.release(p)
		for v := range p.Doubles(n) {
			if !yield(v) {
				return
			}
		}
	}
}

func (t *ThreadLocalPrng) Gaussians(n int64) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		p := t.borrow()
		defer t.release(p)
		for v := range p.Gaussians(n) {
			if !yield(v) {
				return
			}
		}
	}
}

// SetSeed is a no-op: a ThreadLocalPrng has no single instance to seed,
// only a pool of them, each created and reseeded independently by its
// own factory call and, if registered, its own ReseederLoop. Seeding
// whichever instance happened to be borrowed at the moment of the call
// would leave every other pool entry untouched, which is not a seed
// operation any caller could rely on.
func (t *ThreadLocalPrng) SetSeed(seed []byte) error { return nil }

// SetSeedLong is a no-op for the same reason as SetSeed.
func (t *ThreadLocalPrng) SetSeedLong(seed int64) {}

func (t *ThreadLocalPrng) Seed() (seed []byte, err error) {
	t.with(func(p Prng) { seed, err = p.Seed() })
	return
}

func (t *ThreadLocalPrng) EntropyBits() (bits int64) {
	t.with(func(p Prng) { bits = p.EntropyBits() })
	return
}

func (t *ThreadLocalPrng) NewSeedLength() (n int) {
	t.with(func(p Prng) { n = p.NewSeedLength() })
	return
}

// RegisterWithReseeder arranges for every pool entry built from this
// point forward to register itself with loop as it's constructed.
// Entries already sitting in the pool are unaffected; they keep
// whatever registration they had when they were created.
func (t *ThreadLocalPrng) RegisterWithReseeder(loop *ReseederLoop) {
	t.mu.Lock()
	prev := t.factory
	t.factory = func() (Prng, error) {
		p, err := prev()
		if err != nil {
			return nil, err
		}
		p.RegisterWithReseeder(loop)
		return p, nil
	}
	t.mu.Unlock()
}

func (t *ThreadLocalPrng) ID() (id string) {
	t.with(func(p Prng) { id = p.ID() })
	return
}

func (t *ThreadLocalPrng) Dump() (d string) {
	t.with(func(p Prng) { d = fmt.Sprintf("ThreadLocalPrng{current=%s}", p.Dump()) })
	return
}
