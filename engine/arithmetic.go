package engine

import (
	"math/big"

	"github.com/tvmkit/tvm/exception"
	"github.com/tvmkit/tvm/stack"
)

// Arithmetic opcodes, grounded on original_source/src/executor/math.rs:
// the signaling forms (ADD/SUB/MUL/ADDCONST/LSHIFT/RSHIFT) raise
// IntegerOverflow on a NaN operand or an out-of-range result; the quiet
// forms (QADD/QSUB/QMUL) instead let NaN flow through silently, per
// spec.md §4.5's behavior{onNaN, onOverflow} split
// (original_source/src/stack/integer/behavior.rs).
func init() {
	bind(0xA0, opAdd)
	bind(0xA1, opSub)
	bind(0xA8, opMul)
	bind(0xA6, opAddConst)
	bind(0xAA, opLShiftImm)
	bind(0xAB, opRShiftImm)
	bind(0xAC, opLShiftStack)
	bind(0xAD, opRShiftStack)
	bind(0xB7, opQuietPrefix)
}

func opAdd(e *Engine, _ byte) error {
	b, err := popInt(e, "ADD")
	if err != nil {
		return err
	}
	a, err := popInt(e, "ADD")
	if err != nil {
		return err
	}
	return pushSignaling(e, new(big.Int).Add(a, b))
}

func opSub(e *Engine, _ byte) error {
	b, err := popInt(e, "SUB")
	if err != nil {
		return err
	}
	a, err := popInt(e, "SUB")
	if err != nil {
		return err
	}
	return pushSignaling(e, new(big.Int).Sub(a, b))
}

func opMul(e *Engine, _ byte) error {
	b, err := popInt(e, "MUL")
	if err != nil {
		return err
	}
	a, err := popInt(e, "MUL")
	if err != nil {
		return err
	}
	return pushSignaling(e, new(big.Int).Mul(a, b))
}

func opAddConst(e *Engine, _ byte) error {
	imm, err := readImm8(e)
	if err != nil {
		return err
	}
	n := int64(int8(imm))
	a, err := popInt(e, "ADDCONST")
	if err != nil {
		return err
	}
	return pushSignaling(e, new(big.Int).Add(a, big.NewInt(n)))
}

func opLShiftImm(e *Engine, _ byte) error {
	imm, err := readImm8(e)
	if err != nil {
		return err
	}
	a, err := popInt(e, "LSHIFT")
	if err != nil {
		return err
	}
	return pushSignaling(e, new(big.Int).Lsh(a, uint(imm)+1))
}

func opRShiftImm(e *Engine, _ byte) error {
	imm, err := readImm8(e)
	if err != nil {
		return err
	}
	a, err := popInt(e, "RSHIFT")
	if err != nil {
		return err
	}
	return pushSignaling(e, new(big.Int).Rsh(a, uint(imm)+1))
}

func opLShiftStack(e *Engine, _ byte) error {
	n, err := popInt(e, "LSHIFT")
	if err != nil {
		return err
	}
	if n.Sign() < 0 || !n.IsInt64() || n.Int64() > 1023 {
		return exception.New(exception.RangeCheckError).WithSite("LSHIFT")
	}
	a, err := popInt(e, "LSHIFT")
	if err != nil {
		return err
	}
	return pushSignaling(e, new(big.Int).Lsh(a, uint(n.Int64())))
}

func opRShiftStack(e *Engine, _ byte) error {
	n, err := popInt(e, "RSHIFT")
	if err != nil {
		return err
	}
	if n.Sign() < 0 || !n.IsInt64() || n.Int64() > 1023 {
		return exception.New(exception.RangeCheckError).WithSite("RSHIFT")
	}
	a, err := popInt(e, "RSHIFT")
	if err != nil {
		return err
	}
	return pushSignaling(e, new(big.Int).Rsh(a, uint(n.Int64())))
}

// opQuietPrefix implements B7 <op>: reinterpret the following byte as
// the quiet variant of ADD/SUB/MUL, reading both operands with
// popIntQuiet so an already-NaN operand produces NaN instead of
// IntegerOverflow.
func opQuietPrefix(e *Engine, _ byte) error {
	sub, err := readImm8(e)
	if err != nil {
		return err
	}
	switch byte(sub) {
	case 0xA0:
		return quietBinOp(e, "QADD", func(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) })
	case 0xA1:
		return quietBinOp(e, "QSUB", func(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) })
	case 0xA8:
		return quietBinOp(e, "QMUL", func(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) })
	default:
		return exception.New(exception.InvalidOpcode).WithSite("quiet prefix")
	}
}

func quietBinOp(e *Engine, site string, op func(a, b *big.Int) *big.Int) error {
	b, bNaN, err := popIntQuiet(e, site)
	if err != nil {
		return err
	}
	a, aNaN, err := popIntQuiet(e, site)
	if err != nil {
		return err
	}
	if aNaN || bNaN {
		e.Stack.Push(stack.NaN())
		return nil
	}
	pushQuiet(e, op(a, b))
	return nil
}
