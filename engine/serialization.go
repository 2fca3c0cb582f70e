package engine

import (
	"github.com/tvmkit/tvm/cell"
	"github.com/tvmkit/tvm/exception"
)

// Slice/Builder opcodes, grounded on
// original_source/src/executor/deserialization.rs (CTOS/ENDS/LDI/LDU/
// LDREF) and serialization.rs (NEWC/ENDC/STREF/STI/STU). Cell construction is
// gas-metered (cell.Builder.Finalize charges gas.CellCreatePrice); cell
// loading at CTOS time is a deliberate simplification — a production
// engine distinguishes first-load from reload per cell (gas.LoadCellPrice),
// which requires a per-transaction "cells already loaded" set this
// reference engine does not track, noted in DESIGN.md.
func init() {
	bind(0xC8, opNewc)
	bind(0xC9, opEndc)
	bind(0xCA, opSti)
	bind(0xCB, opStu)
	bind(0xCC, opStref)
	bind(0xD0, opCtos)
	bind(0xD1, opEnds)
	bind(0xD2, opLdi)
	bind(0xD3, opLdu)
	bind(0xD4, opLdref)
}

func opNewc(e *Engine, _ byte) error {
	e.Stack.Push(cell.NewBuilder())
	return nil
}

func opEndc(e *Engine, _ byte) error {
	b, err := popBuilder(e, "ENDC")
	if err != nil {
		return err
	}
	c, err := b.Finalize(e.Gas)
	if err != nil {
		return err
	}
	e.Stack.Push(c)
	return nil
}

// opSti stores a signed integer into a Builder (STI cc, cc+1 data bits),
// the store-side counterpart of opLdi.
func opSti(e *Engine, _ byte) error {
	bits, err := readImm8(e)
	if err != nil {
		return err
	}
	x, err := popInt(e, "STI")
	if err != nil {
		return err
	}
	b, err := popBuilder(e, "STI")
	if err != nil {
		return err
	}
	if err := b.StoreBigInt(x, int(bits)+1); err != nil {
		return err
	}
	e.Stack.Push(b)
	return nil
}

// opStu stores an unsigned integer into a Builder (STU cc, cc+1 data
// bits), the store-side counterpart of opLdu.
func opStu(e *Engine, _ byte) error {
	bits, err := readImm8(e)
	if err != nil {
		return err
	}
	x, err := popInt(e, "STU")
	if err != nil {
		return err
	}
	b, err := popBuilder(e, "STU")
	if err != nil {
		return err
	}
	if x.Sign() < 0 {
		return exception.New(exception.RangeCheckError).WithSite("STU")
	}
	if err := b.StoreBigInt(x, int(bits)+1); err != nil {
		return err
	}
	e.Stack.Push(b)
	return nil
}

func opStref(e *Engine, _ byte) error {
	src, err := popCell(e, "STREF")
	if err != nil {
		return err
	}
	b, err := popBuilder(e, "STREF")
	if err != nil {
		return err
	}
	if err := b.StoreRef(src); err != nil {
		return err
	}
	e.Stack.Push(b)
	return nil
}

func opCtos(e *Engine, _ byte) error {
	c, err := popCell(e, "CTOS")
	if err != nil {
		return err
	}
	e.Stack.Push(cell.NewSlice(c))
	return nil
}

func opEnds(e *Engine, _ byte) error {
	s, err := popSlice(e, "ENDS")
	if err != nil {
		return err
	}
	if !s.IsEmpty() {
		return exception.New(exception.CellUnderflow).WithSite("ENDS")
	}
	return nil
}

func opLdi(e *Engine, _ byte) error {
	bits, err := readImm8(e)
	if err != nil {
		return err
	}
	s, err := popSlice(e, "LDI")
	if err != nil {
		return err
	}
	v, err := s.LoadInt(int(bits)+1, false)
	if err != nil {
		return err
	}
	e.Stack.Push(s)
	e.Stack.PushInt(v)
	return nil
}

func opLdu(e *Engine, _ byte) error {
	bits, err := readImm8(e)
	if err != nil {
		return err
	}
	s, err := popSlice(e, "LDU")
	if err != nil {
		return err
	}
	v, err := s.LoadUint(int(bits)+1, false)
	if err != nil {
		return err
	}
	e.Stack.Push(s)
	e.Stack.PushInt(int64(v))
	return nil
}

func opLdref(e *Engine, _ byte) error {
	s, err := popSlice(e, "LDREF")
	if err != nil {
		return err
	}
	r, err := s.LoadRef(false)
	if err != nil {
		return err
	}
	e.Stack.Push(s)
	e.Stack.Push(r)
	return nil
}
