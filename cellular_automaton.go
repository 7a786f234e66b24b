package prng

import (
	"encoding/binary"
	"fmt"
	"sync"
)

const (
	caCells = 2056
	// caPreEvolveSteps discards AUTOMATON_LENGTH^2/4 generations after
	// seeding, before the first bit is ever surfaced, mixing the 4-byte
	// seed across the whole ring.
	caPreEvolveSteps = caCells * caCells / 4
)

// caRuleTable maps the sum of two neighboring 0-255 cell values (at most
// 510) to the next cell value. Fixed at build time: changing it changes
// every output this algorithm has ever produced.
var caRuleTable = [511]int{
	100, 75, 16, 3, 229, 51, 197, 118, 24, 62, 198, 11, 141, 152, 241, 188,
	2, 17, 71, 47, 179, 177, 126, 231, 202, 243, 59, 25, 77, 196, 30, 134,
	199, 163, 34, 216, 21, 84, 37, 182, 224, 186, 64, 79, 225, 45, 143, 20,
	48, 147, 209, 221, 125, 29, 99, 12, 46, 190, 102, 220, 80, 215, 242, 105,
	15, 53, 0, 67, 68, 69, 70, 89, 109, 195, 170, 78, 210, 131, 42, 110,
	181, 145, 40, 114, 254, 85, 107, 87, 72, 192, 90, 201, 162, 122, 86, 252,
	94, 129, 98, 132, 193, 249, 156, 172, 219, 230, 153, 54, 180, 151, 83, 214,
	123, 88, 164, 167, 116, 117, 7, 27, 23, 213, 235, 5, 65, 124, 60, 127,
	236, 149, 44, 28, 58, 121, 191, 13, 250, 10, 232, 112, 101, 217, 183, 239,
	8, 32, 228, 174, 49, 113, 247, 158, 106, 218, 154, 66, 226, 157, 50, 26,
	253, 93, 205, 41, 133, 165, 61, 161, 187, 169, 6, 171, 81, 248, 56, 175,
	246, 36, 178, 52, 57, 212, 39, 176, 184, 185, 245, 63, 35, 189, 206, 76,
	104, 233, 194, 19, 43, 159, 108, 55, 200, 155, 14, 74, 244, 255, 222, 207,
	208, 137, 128, 135, 96, 144, 18, 95, 234, 139, 173, 92, 1, 203, 115, 223,
	130, 97, 91, 227, 146, 4, 31, 120, 211, 38, 22, 138, 140, 237, 238, 251,
	240, 160, 142, 119, 73, 103, 166, 33, 148, 9, 111, 136, 168, 150, 82, 204,
	100, 75, 16, 3, 229, 51, 197, 118, 24, 62, 198, 11, 141, 152, 241, 188,
	2, 17, 71, 47, 179, 177, 126, 231, 202, 243, 59, 25, 77, 196, 30, 134,
	199, 163, 34, 216, 21, 84, 37, 182, 224, 186, 64, 79, 225, 45, 143, 20,
	48, 147, 209, 221, 125, 29, 99, 12, 46, 190, 102, 220, 80, 215, 242, 105,
	15, 53, 0, 67, 68, 69, 70, 89, 109, 195, 170, 78, 210, 131, 42, 110,
	181, 145, 40, 114, 254, 85, 107, 87, 72, 192, 90, 201, 162, 122, 86, 252,
	94, 129, 98, 132, 193, 249, 156, 172, 219, 230, 153, 54, 180, 151, 83, 214,
	123, 88, 164, 167, 116, 117, 7, 27, 23, 213, 235, 5, 65, 124, 60, 127,
	236, 149, 44, 28, 58, 121, 191, 13, 250, 10, 232, 112, 101, 217, 183, 239,
	8, 32, 228, 174, 49, 113, 247, 158, 106, 218, 154, 66, 226, 157, 50, 26,
	253, 93, 205, 41, 133, 165, 61, 161, 187, 169, 6, 171, 81, 248, 56, 175,
	246, 36, 178, 52, 57, 212, 39, 176, 184, 185, 245, 63, 35, 189, 206, 76,
	104, 233, 194, 19, 43, 159, 108, 55, 200, 155, 14, 74, 244, 255, 222, 207,
	208, 137, 128, 135, 96, 144, 18, 95, 234, 139, 173, 92, 1, 203, 115, 223,
	130, 97, 91, 227, 146, 4, 31, 120, 211, 38, 22, 138, 140, 237, 238, 251,
	240, 160, 142, 119, 73, 103, 166, 33, 148, 9, 111, 136, 168, 150, 82,
}

// cellularAutomatonEngine implements engine directly: unlike the
// cipher-counter family it has no reusable keystreamSource half, since
// its step function is the whole algorithm rather than a pluggable
// block cipher.
//
// Cells hold values in [0, 255]. Each call advances a four-cell window,
// rewriting those four cells from their left-hand neighbors through
// caRuleTable and reading them back out as a little-endian word; the
// window then slides four cells to the left and wraps around the ring.
type cellularAutomatonEngine struct {
	mu      sync.Mutex
	cells   [caCells]int
	current int
	seed    [4]byte
}

func newCellularAutomatonEngine() *cellularAutomatonEngine {
	return &cellularAutomatonEngine{}
}

func (e *cellularAutomatonEngine) lock()   { e.mu.Lock() }
func (e *cellularAutomatonEngine) unlock() { e.mu.Unlock() }

func (e *cellularAutomatonEngine) algorithmName() string { return "CellularAutomatonPrng" }
func (e *cellularAutomatonEngine) seedLen() int           { return 4 }

func (e *cellularAutomatonEngine) seedBytes() ([]byte, error) {
	return append([]byte(nil), e.seed[:]...), nil
}

func (e *cellularAutomatonEngine) setSeedBytes(seed []byte) error {
	if len(seed) != 4 {
		return &InvalidSeedLengthError{Algorithm: e.algorithmName(), Got: len(seed), Min: 4, Max: 4}
	}
	copy(e.seed[:], seed)

	// The last four cells take the seed bytes reinterpreted as signed
	// bytes shifted into unsigned range (Java's byte + 128), not the
	// raw unsigned byte value.
	e.cells[caCells-1] = int(seed[0]) ^ 0x80
	e.cells[caCells-2] = int(seed[1]) ^ 0x80
	e.cells[caCells-3] = int(seed[2]) ^ 0x80
	e.cells[caCells-4] = int(seed[3]) ^ 0x80
	e.current = caCells - 1

	seedAsInt := int32(binary.LittleEndian.Uint32(seed[:4]))
	if seedAsInt != -1 {
		seedAsInt++
	}
	for i := 0; i < caCells-4; i++ {
		shift := uint(i % 32)
		e.cells[i] = int((seedAsInt >> shift) & 0xFF)
	}

	for i := 0; i < caPreEvolveSteps; i++ {
		e.step(32)
	}
	return nil
}

// step must be called with the lock held. It mirrors the original
// algorithm's four-cell sliding window exactly: cellC and cellB sit to
// the left of the current cell, cellA to the left of cellB. Each is
// rewritten from the rule table using its left neighbor before the
// window moves on, except at the ring boundary, where cellA has no left
// neighbor and rewrites from itself alone.
func (e *cellularAutomatonEngine) step(bits uint8) uint32 {
	idx := e.current
	cellC := idx - 1
	cellB := cellC - 1

	e.cells[idx] = caRuleTable[e.cells[cellC]+e.cells[idx]]
	e.cells[cellC] = caRuleTable[e.cells[cellB]+e.cells[cellC]]
	cellA := cellB - 1
	e.cells[cellB] = caRuleTable[e.cells[cellA]+e.cells[cellB]]

	if cellA == 0 {
		e.cells[0] = caRuleTable[e.cells[0]]
		e.current = caCells - 1
	} else {
		e.cells[cellA] = caRuleTable[e.cells[cellA-1]+e.cells[cellA]]
		e.current -= 4
	}

	v := uint32(e.cells[cellA]) |
		uint32(e.cells[cellA+1])<<8 |
		uint32(e.cells[cellA+2])<<16 |
		uint32(e.cells[cellA+3])<<24
	if bits >= 32 {
		return v
	}
	return v >> (32 - bits)
}

func (e *cellularAutomatonEngine) nextBitsRaw(k uint8) uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.step(k)
}

func (e *cellularAutomatonEngine) dumpFields() string {
	return fmt.Sprintf("current=%d", e.current)
}

// CellularAutomatonPrng generates bits by running a one-dimensional
// cellular automaton over a 2056-cell ring, seeded from 4 bytes. The
// automaton is evolved caPreEvolveSteps generations on every seed before
// its first bit is surfaced.
type CellularAutomatonPrng struct {
	*BasePrng
}

// NewCellularAutomatonPrng constructs a CellularAutomatonPrng, drawing a
// 4-byte seed from src.
func NewCellularAutomatonPrng(src SeedSource) (*CellularAutomatonPrng, error) {
	seed, err := src.Generate(4)
	if err != nil {
		return nil, err
	}
	return NewCellularAutomatonPrngFromSeed(seed)
}

// NewCellularAutomatonPrngFromSeed constructs a CellularAutomatonPrng
// directly from a caller-supplied 4-byte seed.
func NewCellularAutomatonPrngFromSeed(seed []byte) (*CellularAutomatonPrng, error) {
	eng := newCellularAutomatonEngine()
	if err := eng.setSeedBytes(seed); err != nil {
		return nil, err
	}
	p := &CellularAutomatonPrng{BasePrng: newBasePrng(eng, 4)}
	p.credit(len(seed))
	return p, nil
}
