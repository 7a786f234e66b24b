package prng

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/sha3"
)

// chaChaNonce is the fixed 8-byte IV baked into this implementation: the
// seed never contributes nonce bytes, only key and counter. x/crypto's
// ChaCha20 exposes a 12-byte IETF nonce rather than the original
// 8-byte construction, so the fixed value is zero-padded into the low
// 8 bytes, leaving the top 4 always zero.
var chaChaNonce = [chacha20.NonceSize]byte{}

// chaChaKeystreamSource drives ChaCha20 in its native counter mode.
// Unlike AES, ChaCha20 has no public single-block encrypt primitive, so
// the keystream block is obtained by XOR-ing the cipher against a zero
// buffer, which is the standard way to pull raw keystream out of a
// cipher.Stream; ChaCha20 advances its own internal 32-bit block counter
// on every such call, giving the same encrypt-the-counter output this
// family is built around.
//
// x/crypto/chacha20's block counter is a uint32, not the algorithm-
// agnostic 64-byte counter block the common CipherCounterPrng structure
// describes, so only 4 bytes of a seed's overflow past the key can land
// anywhere; see DESIGN.md under "AES/ChaCha key derivation".
type chaChaKeystreamSource struct {
	cipher  *chacha20.Cipher
	rawSeed int
}

func newChaChaKeystreamSource() *chaChaKeystreamSource {
	return &chaChaKeystreamSource{}
}

func (s *chaChaKeystreamSource) name() string    { return "ChaChaCounterPrng" }
func (s *chaChaKeystreamSource) blockSize() int  { return 64 }
func (s *chaChaKeystreamSource) minSeedLen() int { return 16 }

// maxSeedLen is the 32-byte key plus the 4 bytes of initial counter that
// x/crypto/chacha20's SetCounter can actually represent.
func (s *chaChaKeystreamSource) maxSeedLen() int { return 32 + 4 }

// reseed hashes the whole input with SHA3-256, exactly as aesKeystreamSource
// hashes with SHA-256: K is 16 bytes if the seed is under 32 bytes, else 32,
// and the key is the first K bytes of that digest. x/crypto/chacha20 requires
// an exact 32-byte key, so a K=16 digest prefix is stretched to 32 bytes with
// SHA-256; a K=32 prefix is used as is. Whatever
// input remains past K bytes becomes the initial block counter; the nonce is
// always the fixed chaChaNonce, never seed-derived.
func (s *chaChaKeystreamSource) reseed(seed []byte) error {
	keyLen := 16
	if len(seed) >= 32 {
		keyLen = 32
	}
	digest := sha3.Sum256(seed)
	key := digest[:keyLen]
	if keyLen == 16 {
		stretched := sha256.Sum256(key)
		key = stretched[:]
	}
	c, err := chacha20.NewUnauthenticatedCipher(key, chaChaNonce[:])
	if err != nil {
		return fmt.Errorf("prng: ChaChaCounterPrng: %w", err)
	}
	extra := seed[keyLen:]
	if len(extra) > 0 {
		var counterBuf [4]byte
		copy(counterBuf[:], extra)
		c.SetCounter(binary.LittleEndian.Uint32(counterBuf[:]))
	}
	s.cipher = c
	s.rawSeed = len(seed)
	return nil
}

func (s *chaChaKeystreamSource) refill(block []byte) {
	for i := range block {
		block[i] = 0
	}
	s.cipher.XORKeyStream(block, block)
}

func (s *chaChaKeystreamSource) dumpFields() string {
	return fmt.Sprintf("seedBytes=%d", s.rawSeed)
}

// ChaChaCounterPrng is an entropy-accounting PRNG backed by ChaCha20
// run in its native counter mode. Accepts 16-36 bytes of seed: the
// ChaCha key is the first 16 or 32 bytes of SHA3-256(seed) (16 if the
// seed is under 32 bytes, else 32; a 16-byte digest prefix is further
// stretched to 32 bytes via SHA-256 since x/crypto/chacha20 requires an
// exact 32-byte key). Whatever seed bytes remain past the key become
// the initial block counter; the nonce is always fixed, never derived
// from the seed.
type ChaChaCounterPrng struct {
	*BasePrng
}

// NewChaChaCounterPrng constructs a ChaChaCounterPrng, drawing a 32-byte
// seed from src.
func NewChaChaCounterPrng(src SeedSource) (*ChaChaCounterPrng, error) {
	seed, err := src.Generate(32)
	if err != nil {
		return nil, err
	}
	return NewChaChaCounterPrngFromSeed(seed)
}

// NewChaChaCounterPrngFromSeed constructs a ChaChaCounterPrng directly
// from a caller-supplied 16-36 byte seed.
func NewChaChaCounterPrngFromSeed(seed []byte) (*ChaChaCounterPrng, error) {
	src := newChaChaKeystreamSource()
	eng := newCipherCounterEngine(src)
	if err := eng.setSeedBytes(seed); err != nil {
		return nil, err
	}
	p := &ChaChaCounterPrng{BasePrng: newBasePrng(eng, 32)}
	p.credit(len(seed))
	return p, nil
}
