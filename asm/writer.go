package asm

import (
	"github.com/tvmkit/tvm/cell"
	"github.com/tvmkit/tvm/gas"
)

// Writer accumulates assembled bits and references into a chain of
// cell.Builders, rolling over to a new cell whenever the current one runs
// out of data bits or reference slots, the way a TVM code cell does when
// a program exceeds 1023 bits (spec.md §3/§6).
//
// Grounded on original_source/src/assembler/writer.rs's
// write_command/write_composite_command rollover behavior, and on the
// teacher's internal/ngi.ErrWriter for the "wrap a fallible sink so
// callers don't have to check every write" idiom — here the fallibility
// is capacity, not I/O, so WriteUint/StoreRef return an error directly
// rather than deferring it to a final Flush.
type Writer struct {
	segments []*cell.Builder
}

// NewWriter returns an empty Writer with one fresh segment.
func NewWriter() *Writer {
	return &Writer{segments: []*cell.Builder{cell.NewBuilder()}}
}

func (w *Writer) current() *cell.Builder {
	return w.segments[len(w.segments)-1]
}

// rollover starts a new segment when the current one is full. The
// current segment must still have a free reference slot for the link to
// the new segment (Finalize attaches it); if it has none, rollover
// returns errNotFitInSlice for the caller's op name.
func (w *Writer) rollover(op string) error {
	if w.current().RemainingRefs() < 1 {
		return errNotFitInSlice(op)
	}
	w.segments = append(w.segments, cell.NewBuilder())
	return nil
}

// WriteUint appends the low n bits of v, rolling over to a new segment if
// the current one lacks room.
func (w *Writer) WriteUint(op string, v uint64, n int) error {
	if w.current().RemainingBits() < n {
		if err := w.rollover(op); err != nil {
			return err
		}
	}
	return w.current().StoreUint(v, n)
}

// WriteBit appends a single bit.
func (w *Writer) WriteBit(op string, v bool) error {
	if w.current().RemainingBits() < 1 {
		if err := w.rollover(op); err != nil {
			return err
		}
	}
	return w.current().StoreBit(v)
}

// StoreRef attaches an already-finalized child cell (e.g. a nested
// PUSHCONT block's compiled body) as a reference in the current segment.
func (w *Writer) StoreRef(op string, c cell.Cell) error {
	if w.current().RemainingRefs() < 1 {
		if err := w.rollover(op); err != nil {
			return err
		}
	}
	return w.current().StoreRef(c)
}

// Finalize seals every segment into an immutable cell chain. Segments
// are finalized back-to-front so that each earlier segment's
// continuation link can reference the already-finalized next segment —
// the only order a DAG of immutable, hash-addressed cells can be built
// in (original_source/src/assembler/writer.rs's finalize walks the same
// direction).
func (w *Writer) Finalize() (cell.Cell, error) {
	var next cell.Cell
	for i := len(w.segments) - 1; i >= 0; i-- {
		b := w.segments[i]
		if next != nil {
			if err := b.StoreRef(next); err != nil {
				return nil, err
			}
		}
		c, err := b.Finalize(noGas)
		if err != nil {
			return nil, err
		}
		next = c
	}
	return next, nil
}

// noGas is passed to Builder.Finalize during assembly: compiling a
// program never consumes execution gas, only running it does.
var noGas *gas.Meter
