package prng

import (
	"crypto/rand"
)

// SeedSource produces random bytes used to seed or reseed a PRNG.
// Implementations must be safe for concurrent use: a ReseederLoop calls
// Generate from its own goroutine while PRNG constructors may call it
// from any goroutine.
type SeedSource interface {
	// Generate returns exactly length random bytes, or an error if it
	// could not produce them.
	Generate(length int) ([]byte, error)
}

// CryptoSeedSource is the default SeedSource, backed by the platform's
// cryptographic random source (crypto/rand.Reader). It holds no state and
// is safe for concurrent use by construction.
type CryptoSeedSource struct{}

// defaultSeedSource is the shared, crypto/rand-backed SeedSource.
var defaultSeedSource = CryptoSeedSource{}

// DefaultSeedSource returns the shared CryptoSeedSource instance.
func DefaultSeedSource() SeedSource { return defaultSeedSource }

// Generate implements SeedSource.
func (CryptoSeedSource) Generate(length int) ([]byte, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return nil, &SeedError{Err: err}
	}
	return buf, nil
}
