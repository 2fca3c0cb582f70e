package stack

import (
	"fmt"

	"github.com/tvmkit/tvm/exception"
)

// MaxTupleLength is the maximum element count of a Tuple (spec.md §4.3).
const MaxTupleLength = 255

// Tuple is an immutable-by-convention fixed-size ordered collection of
// Values (TUPLE/UNTUPLE/INDEX and friends). Like cell.Builder vs Cell,
// tuple-building opcodes (TUPLE, PUSHTUPLE) construct a Tuple once from
// popped stack values and push the finished value; nothing mutates a
// Tuple in place once built, so copies are shallow and cheap.
type Tuple struct {
	elems []Value
}

// NewTuple builds a Tuple from the given elements, raising TypeCheckError
// if the length exceeds MaxTupleLength.
func NewTuple(elems []Value) (*Tuple, error) {
	if len(elems) > MaxTupleLength {
		return nil, exception.New(exception.TypeCheckError).WithSite("TUPLE")
	}
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return &Tuple{elems: cp}, nil
}

// Len reports the element count.
func (t *Tuple) Len() int { return len(t.elems) }

// At returns the i-th element, raising RangeCheckError if out of bounds
// (INDEX/INDEXQ family).
func (t *Tuple) At(i int) (Value, error) {
	if i < 0 || i >= len(t.elems) {
		return nil, exception.New(exception.RangeCheckError).WithSite("INDEX")
	}
	return t.elems[i], nil
}

// Elements returns a copy of the tuple's elements, used by UNTUPLE and by
// the dump/debug family.
func (t *Tuple) Elements() []Value {
	cp := make([]Value, len(t.elems))
	copy(cp, t.elems)
	return cp
}

// String implements fmt.Stringer for the stack Value union.
func (t *Tuple) String() string {
	return fmt.Sprintf("Tuple[%d]", len(t.elems))
}
