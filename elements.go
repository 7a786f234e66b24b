package prng

// NextElement returns a uniformly selected item from items, debiting one
// NextIntN(len(items)) worth of entropy. Panics if items is empty, the
// same way NextIntN panics on a non-positive bound.
//
// Go interface methods cannot be generic, so this is a free function
// over the Prng interface rather than a method on it; every concrete
// generator satisfies Prng, so NextElement(p, items) works uniformly
// across AESCounterPrng, ChaChaCounterPrng, CellularAutomatonPrng, and
// the rest.
func NextElement[T any](p Prng, items []T) T {
	return items[p.NextIntN(int32(len(items)))]
}

// NextEnum is NextElement specialized to a fixed, caller-supplied set of
// named values standing in for Go's lack of a native enum type: pass the
// complete variant set (e.g. a package-level slice of named constants)
// and get one chosen uniformly, debiting the same one NextIntN(len)
// entropy cost as NextElement.
func NextEnum[T comparable](p Prng, variants []T) T {
	return NextElement(p, variants)
}
