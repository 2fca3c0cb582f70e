package cell

import (
	"fmt"
	"math/big"
)

// Slice is a read cursor over a Cell's data bits and references (spec.md
// §3): CTOS produces one, the LD*/PLD* family advance it, ENDS asserts it
// is exhausted. Slices are cheap to copy by value at the stack layer (the
// stack package stores *Slice, copying the struct on DUP), since advancing
// one does not mutate the underlying Cell.
type Slice struct {
	src    Cell
	r      *bitReader
	refPos int
	refEnd int
}

// NewSlice returns a Slice positioned at the start of c's data and refs.
func NewSlice(c Cell) *Slice {
	return &Slice{
		src:    c,
		r:      newBitReader(c.Bits(), c.BitLength()),
		refPos: 0,
		refEnd: c.RefsCount(),
	}
}

// Clone returns an independent copy positioned identically to s, the
// primitive behind slice DUP/XCHG at the stack layer.
func (s *Slice) Clone() *Slice {
	cp := *s.r
	return &Slice{src: s.src, r: &cp, refPos: s.refPos, refEnd: s.refEnd}
}

// String renders a short debug form (remaining bits and refs), used by
// the engine's dump/stack-trace family and to satisfy fmt.Stringer so a
// Slice can sit directly on the stack's Value union.
func (s *Slice) String() string {
	return fmt.Sprintf("Slice[%d bits, %d refs remaining]", s.RemainingBits(), s.RemainingRefs())
}

// RemainingBits reports unread data bits (SDATASIZE/SBITS's building
// block).
func (s *Slice) RemainingBits() int { return s.r.remaining() }

// RemainingRefs reports unread references (SREFS).
func (s *Slice) RemainingRefs() int { return s.refEnd - s.refPos }

// IsEmpty reports whether both bits and refs are exhausted (ENDS's
// condition).
func (s *Slice) IsEmpty() bool { return s.RemainingBits() == 0 && s.RemainingRefs() == 0 }

// LoadUint reads n bits as an unsigned integer (LDU/PLDU), advancing the
// cursor unless peek is true.
func (s *Slice) LoadUint(n int, peek bool) (uint64, error) {
	save := *s.r
	v, err := s.r.readBits(n)
	if err != nil {
		return 0, err
	}
	if peek {
		*s.r = save
	}
	return v, nil
}

// LoadInt reads n bits and sign-extends them to a signed value (LDI/PLDI).
func (s *Slice) LoadInt(n int, peek bool) (int64, error) {
	v, err := s.LoadUint(n, peek)
	if err != nil {
		return 0, err
	}
	if n < 64 && v&(1<<uint(n-1)) != 0 {
		return int64(v) - (1 << uint(n)), nil
	}
	return int64(v), nil
}

// LoadBigUint reads n bits (n may exceed 64) as an unsigned big.Int,
// needed by the generalized PUSHINT/LDI wire format (serial package).
func (s *Slice) LoadBigUint(n int, peek bool) (*big.Int, error) {
	save := *s.r
	raw, err := s.r.readRaw(n)
	if err != nil {
		return nil, err
	}
	if peek {
		*s.r = save
	}
	v := new(big.Int).SetBytes(raw)
	shift := len(raw)*8 - n
	if shift > 0 {
		v.Rsh(v, uint(shift))
	}
	return v, nil
}

// LoadBigInt reads n bits as a signed, two's-complement big.Int.
func (s *Slice) LoadBigInt(n int, peek bool) (*big.Int, error) {
	v, err := s.LoadBigUint(n, peek)
	if err != nil {
		return nil, err
	}
	if v.Bit(n-1) == 1 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(n))
		v.Sub(v, mod)
	}
	return v, nil
}

// LoadSlice carves off the next n bits as an independent raw buffer
// without constructing a child cell (used to build a fresh Builder out of
// a sub-range, e.g. by SDCUTFIRST/SDSKIPLAST-style opcodes).
func (s *Slice) LoadSlice(n int, peek bool) ([]byte, error) {
	save := *s.r
	raw, err := s.r.readRaw(n)
	if err != nil {
		return nil, err
	}
	if peek {
		*s.r = save
	}
	return raw, nil
}

// Skip discards n bits without returning them (LDSLICE's "drop" siblings).
func (s *Slice) Skip(n int) error { return s.r.skip(n) }

// LoadRef returns the next child cell reference (LDREF), advancing the
// cursor unless peek is true.
func (s *Slice) LoadRef(peek bool) (Cell, error) {
	if s.refPos >= s.refEnd {
		return nil, errOutOfRange("slice reference")
	}
	c, err := s.src.Reference(s.refPos)
	if err != nil {
		return nil, err
	}
	if !peek {
		s.refPos++
	}
	return c, nil
}

// LoadRefAsSlice reads the next reference and immediately wraps it as a
// Slice (LDREFRTOS).
func (s *Slice) LoadRefAsSlice() (*Slice, error) {
	c, err := s.LoadRef(false)
	if err != nil {
		return nil, err
	}
	return NewSlice(c), nil
}
