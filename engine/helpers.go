package engine

import (
	"math/big"

	"github.com/tvmkit/tvm/cell"
	"github.com/tvmkit/tvm/control"
	"github.com/tvmkit/tvm/exception"
	"github.com/tvmkit/tvm/stack"
)

// popInt pops the top value and requires it to be a non-NaN Integer,
// the common opener for every signaling arithmetic opcode.
func popInt(e *Engine, site string) (*big.Int, error) {
	v, err := e.Stack.Pop()
	if err != nil {
		return nil, err
	}
	i, err := stack.AsInteger(v, site)
	if err != nil {
		return nil, err
	}
	return i.BigInt()
}

// popIntQuiet pops the top value and reports whether it is NaN instead
// of raising an error, the opener for QADD/QSUB/QMUL-style quiet
// opcodes (spec.md §4.5: quiet arithmetic propagates NaN rather than
// throwing IntegerOverflow).
func popIntQuiet(e *Engine, site string) (*big.Int, bool, error) {
	v, err := e.Stack.Pop()
	if err != nil {
		return nil, false, err
	}
	i, err := stack.AsInteger(v, site)
	if err != nil {
		return nil, false, err
	}
	if i.IsNaN() {
		return nil, true, nil
	}
	bi, err := i.BigInt()
	return bi, false, err
}

// pushSignaling pushes v as an Integer, raising IntegerOverflow if it
// exceeds the 257-bit signed domain (signaling arithmetic's result
// path).
func pushSignaling(e *Engine, v *big.Int) error {
	n, err := stack.CheckedFromBigInt(v)
	if err != nil {
		return err
	}
	e.Stack.Push(n)
	return nil
}

// pushQuiet pushes v as an Integer, silently clamping an out-of-range
// result to NaN instead of raising an error (quiet arithmetic's result
// path).
func pushQuiet(e *Engine, v *big.Int) {
	e.Stack.Push(stack.NewFromBigInt(v))
}

func popSlice(e *Engine, site string) (*cell.Slice, error) {
	v, err := e.Stack.Pop()
	if err != nil {
		return nil, err
	}
	return stack.AsSlice(v, site)
}

func popBuilder(e *Engine, site string) (*cell.Builder, error) {
	v, err := e.Stack.Pop()
	if err != nil {
		return nil, err
	}
	return stack.AsBuilder(v, site)
}

func popCell(e *Engine, site string) (cell.Cell, error) {
	v, err := e.Stack.Pop()
	if err != nil {
		return nil, err
	}
	return stack.AsCell(v, site)
}

func popContinuation(e *Engine, site string) (*control.Continuation, error) {
	v, err := e.Stack.Pop()
	if err != nil {
		return nil, err
	}
	c, err := stack.AsContinuation(v, site)
	if err != nil {
		return nil, err
	}
	cc, ok := c.(*control.Continuation)
	if !ok {
		return nil, exception.New(exception.TypeCheckError).WithSite(site)
	}
	return cc, nil
}

// readImm8 reads an 8-bit immediate operand from the current
// continuation's code, the shared tail of every "<op> xx" mnemonic.
func readImm8(e *Engine) (uint64, error) {
	return e.cc.Code.LoadUint(8, false)
}
