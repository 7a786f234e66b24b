package prng

// engine is the virtual-dispatch surface a concrete algorithm plugs into
// a BasePrng. It plays the role the source's abstract base class fills
// via inheritance: BasePrng implements every derived operation (NextInt,
// NextGaussian, the lazy sequences, ...) purely in terms of this
// interface, and each concrete generator supplies it by constructing its
// own state type and handing a pointer to itself to newBasePrng.
//
// Implementations own their algorithmic state exclusively and guard it
// with their own lock. nextBitsRaw takes that lock itself; BasePrng calls
// setSeedBytes, seedBytes, seedLen and dumpFields with the engine's lock
// already held through lock()/unlock(). BasePrng has no lock of its own.
type engine interface {
	// algorithmName identifies the concrete algorithm for Dump().
	algorithmName() string

	// nextBitsRaw returns k pseudo-random bits (1 <= k <= 32),
	// right-aligned in the low k bits of the result. It must not debit
	// entropy; BasePrng accounts for every call site itself.
	nextBitsRaw(k uint8) uint32

	// lock and unlock guard the algorithm's internal state. The only
	// state BasePrng manages outside of this lock is the atomic
	// entropy counter, the atomic cached Gaussian, and the atomic
	// reseeder backlink.
	lock()
	unlock()

	// setSeedBytes replaces the algorithm's state from seed, validating
	// its length itself and returning InvalidSeedLengthError if it is
	// out of range. Must be called with the lock held.
	setSeedBytes(seed []byte) error

	// seedBytes returns a defensive copy of the input bytes last
	// accepted by setSeedBytes, or UnsupportedOperationError if the
	// algorithm cannot report it (a RandomWrapper around a foreign
	// source with no seed-inspection capability). Must be called with
	// the lock held.
	seedBytes() ([]byte, error)

	// seedLen returns the seed length this algorithm will request on
	// its next reseed (getNewSeedLength in the source).
	seedLen() int

	// dumpFields renders algorithm-specific state for Dump().
	dumpFields() string
}
