package prng

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"fmt"
)

// aesKeystreamSource drives an AES block cipher directly in counter
// mode: rather than XOR-ing a caller-supplied buffer against the
// keystream (the usual CTR construction, e.g. crypto/cipher.NewCTR),
// each call encrypts the 16-byte counter and then increments it,
// handing the ciphertext block itself to the caller as keystream, so
// the first block out is the encryption of the initial counter. This
// mirrors the encrypt-the-counter-directly approach the pack's seeded
// AES reader uses, generalized to a seed-derived key of either AES-128
// or AES-256 length.
type aesKeystreamSource struct {
	block   cipher.Block
	counter [16]byte
	keyLen  int
}

func newAESKeystreamSource() *aesKeystreamSource {
	return &aesKeystreamSource{keyLen: 16}
}

func (s *aesKeystreamSource) name() string    { return "AesCounterPrng" }
func (s *aesKeystreamSource) blockSize() int  { return aes.BlockSize }
func (s *aesKeystreamSource) minSeedLen() int { return 16 }

// maxSeedLen is the largest AES key (32 bytes) plus one full counter
// block (16 bytes): bytes past the key seed the initial counter instead
// of being rejected.
func (s *aesKeystreamSource) maxSeedLen() int { return 32 + aes.BlockSize }

// reseed derives the key from SHA-256 of the whole input, not the input
// bytes directly: K is 16 bytes if the seed is under 32 bytes, else 32
// (AES-128 or AES-256; there is no derived AES-192, matching the clamp
// table mirrored in chaChaKeystreamSource.reseed), and the key is the
// first K bytes of that digest. Whatever input remains past K bytes
// becomes the initial counter, left-aligned into the low-order bytes of
// the (little-endian) counter and zero-padded above.
func (s *aesKeystreamSource) reseed(seed []byte) error {
	keyLen := 16
	if len(seed) >= 32 {
		keyLen = 32
	}
	digest := sha256.Sum256(seed)
	block, err := aes.NewCipher(digest[:keyLen])
	if err != nil {
		return fmt.Errorf("prng: AesCounterPrng: %w", err)
	}
	s.block = block
	s.keyLen = keyLen
	for i := range s.counter {
		s.counter[i] = 0
	}
	copy(s.counter[:], seed[keyLen:])
	return nil
}

func (s *aesKeystreamSource) refill(block []byte) {
	s.block.Encrypt(block, s.counter[:])
	incrementCounter(s.counter[:])
}

func (s *aesKeystreamSource) dumpFields() string {
	return fmt.Sprintf("keyBits=%d, %s", s.keyLen*8, dumpCounter("aes", s.counter[:]))
}

// AESCounterPrng is an entropy-accounting PRNG whose keystream is AES,
// run in counter mode, with each ciphertext block surfaced directly as
// output. Accepts 16-48 bytes of seed: the AES key is never the raw
// seed bytes but the first 16 or 32 bytes of SHA-256(seed) (16 if the
// seed is under 32 bytes, 32 otherwise), so AES-128 or AES-256, never a
// derived AES-192. Whatever seed bytes remain past the key become the
// initial counter instead of starting the counter at zero.
type AESCounterPrng struct {
	*BasePrng
}

// NewAESCounterPrng constructs an AESCounterPrng, drawing its initial
// 16-byte seed (deriving an AES-128 key) from src.
func NewAESCounterPrng(src SeedSource) (*AESCounterPrng, error) {
	return NewAESCounterPrngSize(src, 16)
}

// NewAESCounterPrngSize is like NewAESCounterPrng but requests a seed of
// seedLen bytes from src. seedLen < 32 derives an AES-128 key with the
// remainder (if any) as the initial counter; seedLen >= 32 derives
// AES-256 the same way.
func NewAESCounterPrngSize(src SeedSource, seedLen int) (*AESCounterPrng, error) {
	seed, err := src.Generate(seedLen)
	if err != nil {
		return nil, err
	}
	return NewAESCounterPrngFromSeed(seed)
}

// NewAESCounterPrngFromSeed constructs an AESCounterPrng directly from a
// caller-supplied seed.
func NewAESCounterPrngFromSeed(seed []byte) (*AESCounterPrng, error) {
	src := newAESKeystreamSource()
	eng := newCipherCounterEngine(src)
	if err := eng.setSeedBytes(seed); err != nil {
		return nil, err
	}
	p := &AESCounterPrng{BasePrng: newBasePrng(eng, 32)}
	p.credit(len(seed))
	return p, nil
}
