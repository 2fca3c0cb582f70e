// Package cell implements the bit-addressable cell DAG that backs TVM
// bytecode and data (spec.md §3, §6): cells with up to 1023 data bits and
// up to 4 child references, content-addressed by a hash that is a pure
// function of their contents and children.
//
// spec.md treats the cell store as an external collaborator consumed
// through an abstract interface; this package provides both that
// interface (Cell) and a reference in-memory implementation so the module
// is runnable standalone, in the same spirit as the teacher's vm.Image
// being the concrete backing store behind the VM's abstract "memory"
// (vm/image.go).
package cell

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Type enumerates the cell kinds of spec.md §3. Only Ordinary cells are
// produced by the assembler and the stack/builder opcodes in this module;
// the others are recognized so that deserialization opcodes and the
// action-list writer (which may reference library cells) can tell them
// apart.
type Type int

const (
	Ordinary Type = iota
	PrunedBranch
	LibraryReference
	MerkleProof
	MerkleUpdate
)

func (t Type) String() string {
	switch t {
	case Ordinary:
		return "ordinary"
	case PrunedBranch:
		return "pruned"
	case LibraryReference:
		return "library"
	case MerkleProof:
		return "merkle-proof"
	case MerkleUpdate:
		return "merkle-update"
	default:
		return "unknown"
	}
}

// Hash is the 256-bit content hash identifying a cell.
type Hash [32]byte

// Cell is the immutable, content-addressed DAG node described in
// spec.md §3/§6: at most 1023 data bits and at most 4 references to child
// cells. Implementations must guarantee Hash is a pure function of
// contents and children and that the DAG has no cycles.
type Cell interface {
	// Hash returns the cell's representation hash.
	Hash() Hash
	// Type reports the cell kind.
	Type() Type
	// BitLength returns the number of valid data bits, 0..=1023.
	BitLength() int
	// RefsCount returns the number of child references, 0..=4.
	RefsCount() int
	// Reference returns the i-th child cell.
	Reference(i int) (Cell, error)
	// Bits returns the raw data bits packed MSB-first into bytes, the
	// trailing partial byte (if any) left-aligned and zero-padded.
	Bits() []byte
	// LevelMask reports the cell's level mask (0 for all Ordinary cells
	// produced by this module; carried through for cells decoded from an
	// external store that may present pruned/Merkle cells).
	LevelMask() byte
	// String renders a short debug form (type, bit length, ref count),
	// used by the engine's dump/stack-trace family and to satisfy
	// fmt.Stringer so a Cell can sit directly on the stack's Value union.
	String() string
}

const (
	// MaxDataBits is the maximum number of data bits a single cell may hold.
	MaxDataBits = 1023
	// MaxRefs is the maximum number of child references a cell may hold.
	MaxRefs = 4
)

// ordinaryCell is the reference Cell implementation: a plain byte-packed
// bit buffer plus up to 4 child cells, with the hash computed eagerly at
// construction (cells are immutable once built, so there is nothing to
// invalidate).
type ordinaryCell struct {
	typ     Type
	bits    []byte // packed MSB-first, length = ceil(bitLen/8)
	bitLen  int
	refs    []Cell
	levelMk byte
	hash    Hash
}

func newOrdinaryCell(typ Type, bits []byte, bitLen int, refs []Cell) *ordinaryCell {
	c := &ordinaryCell{typ: typ, bits: bits, bitLen: bitLen, refs: refs}
	c.levelMk = computeLevelMask(typ, refs)
	c.hash = computeHash(typ, bits, bitLen, refs, c.levelMk)
	return c
}

// String renders a short debug form used by the engine's dump/stack-trace
// family (DUMPSTK and friends): type, bit length and reference count.
func (c *ordinaryCell) String() string {
	return fmt.Sprintf("Cell[%s, %d bits, %d refs]", c.typ, c.bitLen, len(c.refs))
}

func (c *ordinaryCell) Hash() Hash      { return c.hash }
func (c *ordinaryCell) Type() Type      { return c.typ }
func (c *ordinaryCell) BitLength() int  { return c.bitLen }
func (c *ordinaryCell) RefsCount() int  { return len(c.refs) }
func (c *ordinaryCell) LevelMask() byte { return c.levelMk }

func (c *ordinaryCell) Bits() []byte {
	out := make([]byte, len(c.bits))
	copy(out, c.bits)
	return out
}

func (c *ordinaryCell) Reference(i int) (Cell, error) {
	if i < 0 || i >= len(c.refs) {
		return nil, errOutOfRange("reference index")
	}
	return c.refs[i], nil
}

func computeLevelMask(typ Type, refs []Cell) byte {
	if typ == Ordinary || typ == LibraryReference {
		var mask byte
		for _, r := range refs {
			mask |= r.LevelMask()
		}
		return mask
	}
	// Pruned/Merkle cells carry an explicit level, not modeled further
	// here: the dictionary/deserialization layer that would construct
	// them is an external collaborator (spec.md §1 non-goals).
	return 1
}

// computeHash derives the cell's representation hash from its descriptor
// bytes, data, and the hashes of its children, following the "hash is a
// pure function of contents + children" invariant of spec.md §3.
//
// Ordinary cells use a plain SHA-256 over the descriptor+data+child-hash
// concatenation. Merkle cells additionally fold in a SHA3-256 digest of
// the same material (golang.org/x/crypto/sha3): the TON representation
// hash formula distinguishes proof/update cells by hashing at a higher
// Merkle level, and SHA3 gives this reference implementation a second,
// independent digest to mix in for that distinguishing role without
// reimplementing the full multi-level hash tree, which is out of scope
// (spec.md §1: "a full specification of the cell/serialization layer
// belongs elsewhere").
func computeHash(typ Type, bits []byte, bitLen int, refs []Cell, levelMask byte) Hash {
	d1, d2 := descriptors(typ, bitLen, refs)
	h := sha256.New()
	h.Write([]byte{d1, d2})
	h.Write(bits)
	for _, r := range refs {
		rh := r.Hash()
		h.Write(rh[:])
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	if typ == MerkleProof || typ == MerkleUpdate {
		s := sha3.New256()
		s.Write([]byte{d1, d2, levelMask})
		s.Write(bits)
		for _, r := range refs {
			rh := r.Hash()
			s.Write(rh[:])
		}
		mixed := s.Sum(nil)
		for i := range out {
			out[i] ^= mixed[i]
		}
	}
	return out
}

// descriptors computes the two cell descriptor bytes (d1: refs count plus
// type bits, d2: data length) used as a hashing domain separator, in the
// same spirit as the TON cell serialization format.
func descriptors(typ Type, bitLen int, refs []Cell) (byte, byte) {
	d1 := byte(len(refs))
	if typ != Ordinary {
		d1 |= 1 << 3
	}
	fullBytes := bitLen / 8
	d2 := byte(fullBytes * 2)
	if bitLen%8 != 0 {
		d2++
	}
	return d1, d2
}

// LittleEndianUint64 is a small helper shared by serialization opcodes to
// read/write raw 64-bit words without importing encoding/binary directly
// at every call site.
func LittleEndianUint64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }
