package cell

import (
	"fmt"
	"math/big"

	"github.com/tvmkit/tvm/gas"
)

// Builder is a mutable cell-under-construction: an append-only bit buffer
// plus up to MaxRefs child cells, mirroring the teacher's pattern of a
// distinct writer type that is finalized into an immutable value (compare
// asm's Writer, which accumulates bytes and is finalized into the
// assembled program). A Builder is single-use: once Finalize succeeds its
// zero value should be discarded.
type Builder struct {
	w    bitWriter
	refs []Cell
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// String renders a short debug form, satisfying fmt.Stringer so a
// Builder can sit directly on the stack's Value union.
func (b *Builder) String() string {
	return fmt.Sprintf("Builder[%d/%d bits, %d/%d refs]", b.w.len, MaxDataBits, len(b.refs), MaxRefs)
}

// RemainingBits reports how many more data bits may be stored.
func (b *Builder) RemainingBits() int { return MaxDataBits - b.w.len }

// RemainingRefs reports how many more child references may be stored.
func (b *Builder) RemainingRefs() int { return MaxRefs - len(b.refs) }

// BitLength reports the number of bits written so far.
func (b *Builder) BitLength() int { return b.w.len }

// StoreBit appends a single bit (NEWC+STONE/STZERO building block).
func (b *Builder) StoreBit(v bool) error {
	if b.RemainingBits() < 1 {
		return errOutOfRange("builder bits")
	}
	b.w.writeBit(v)
	return nil
}

// StoreUint appends the low n bits of v as an unsigned field (STU family,
// spec.md §4.5).
func (b *Builder) StoreUint(v uint64, n int) error {
	if n < 0 || n > 64 {
		return errOutOfRange("store width")
	}
	if b.RemainingBits() < n {
		return errOutOfRange("builder bits")
	}
	b.w.writeBits(v, n)
	return nil
}

// StoreInt appends the low n bits of a signed value's two's-complement
// representation (STI family).
func (b *Builder) StoreInt(v int64, n int) error {
	return b.StoreUint(uint64(v), n)
}

// StoreBigInt appends the two's-complement representation of an arbitrary
// precision integer in n bits, used by the PUSHINT/STI paths when the
// integer exceeds 64 bits (spec.md §4.5, serial package).
func (b *Builder) StoreBigInt(v *big.Int, n int) error {
	if b.RemainingBits() < n {
		return errOutOfRange("builder bits")
	}
	bits := bigIntToTwosComplement(v, n)
	b.w.writeBytes(bits, n)
	return nil
}

// StoreSlice appends all remaining bits of a Slice, consuming it (STSLICE).
func (b *Builder) StoreSlice(s *Slice) error {
	n := s.RemainingBits()
	if b.RemainingBits() < n {
		return errOutOfRange("builder bits")
	}
	raw, err := s.r.readRaw(n)
	if err != nil {
		return err
	}
	b.w.writeBytes(raw, n)
	return nil
}

// StoreBuilder appends the contents of another builder without finalizing
// it (STBREF's sibling STB, used to splice partial builders together).
func (b *Builder) StoreBuilder(other *Builder) error {
	if b.RemainingBits() < other.w.len {
		return errOutOfRange("builder bits")
	}
	b.w.writeBytes(other.w.buf, other.w.len)
	return nil
}

// StoreRef appends a child cell reference (STREF).
func (b *Builder) StoreRef(c Cell) error {
	if b.RemainingRefs() < 1 {
		return errOutOfRange("builder refs")
	}
	b.refs = append(b.refs, c)
	return nil
}

// Finalize seals the builder into an immutable Ordinary cell, charging
// gas.CellCreatePrice against meter (spec.md §4.8: cell finalization is
// priced per new cell, regardless of its size). A nil meter performs no
// charge, used by assembler-time construction where gas accounting does
// not apply.
func (b *Builder) Finalize(meter *gas.Meter) (Cell, error) {
	if meter != nil {
		if err := meter.TryUse(gas.CellCreatePrice); err != nil {
			return nil, err
		}
	}
	bits := make([]byte, len(b.w.buf))
	copy(bits, b.w.buf)
	refs := make([]Cell, len(b.refs))
	copy(refs, b.refs)
	return newOrdinaryCell(Ordinary, bits, b.w.len, refs), nil
}

// bigIntToTwosComplement renders v as an n-bit two's-complement value,
// packed MSB-first.
func bigIntToTwosComplement(v *big.Int, n int) []byte {
	out := make([]byte, (n+7)/8)
	mod := new(big.Int).Lsh(big.NewInt(1), uint(n))
	t := new(big.Int).Mod(v, mod)
	if t.Sign() < 0 {
		t.Add(t, mod)
	}
	tb := t.Bytes()
	// tb is big-endian, unpadded; align it into the n-bit window from the
	// right so the MSB padding is zero, then pack bit-by-bit like
	// bitWriter would.
	full := make([]byte, (n+7)/8)
	copy(full[len(full)-len(tb):], tb)
	// full is now an (n+7)/8-byte big-endian buffer holding the low n bits;
	// re-pack it bit-for-bit starting at the MSB offset (8*len(full)-n).
	shift := len(full)*8 - n
	if shift == 0 {
		return full
	}
	w := bitWriter{}
	r := newBitReader(full, len(full)*8)
	if err := r.skip(shift); err != nil {
		return out
	}
	for i := 0; i < n; i++ {
		bit, err := r.readBit()
		if err != nil {
			break
		}
		w.writeBit(bit)
	}
	return w.buf
}
