package engine

import (
	"github.com/tvmkit/tvm/cell"
	"github.com/tvmkit/tvm/control"
	"github.com/tvmkit/tvm/exception"
	"github.com/tvmkit/tvm/serial"
	"github.com/tvmkit/tvm/stack"
)

// Stack manipulation and the PUSHINT/PUSHCONT literal-loading family,
// grounded on original_source/src/executor/stack.rs and
// original_source/src/executor/stackops.rs. The opcode byte values
// mirror asm/commands.go exactly — the assembler and engine must agree
// on the wire format since nothing else parses or produces it.
func init() {
	bind(0x00, opNop)
	bind(0x01, opXchg01)
	bind(0x10, opXchgPair)
	for i := byte(2); i <= 0x0F; i++ {
		bind(i, opXchgShort)
	}
	for i := byte(0x20); i <= 0x2F; i++ {
		bind(i, opPush)
	}
	for i := byte(0x30); i <= 0x3F; i++ {
		bind(i, opPop)
	}
	for n := int64(-5); n <= 10; n++ {
		bind(byte(0x75+n), opPushIntInline)
	}
	bind(0x80, opPushIntByte)
	bind(0x81, opPushIntWord)
	bind(0x82, opPushIntVar)
	bind(0x6D, opPushNull)
	bind(0x8E, opPushCont)
}

func opNop(e *Engine, _ byte) error { return nil }

func opXchg01(e *Engine, _ byte) error {
	return e.Stack.Swap(0, 1)
}

func opXchgShort(e *Engine, op byte) error {
	return e.Stack.Swap(0, int(op))
}

func opXchgPair(e *Engine, _ byte) error {
	b, err := readImm8(e)
	if err != nil {
		return err
	}
	i, j := int(b>>4), int(b&0xF)
	return e.Stack.Swap(i, j)
}

func opPush(e *Engine, op byte) error {
	return e.Stack.PushFrom(int(op & 0x0F))
}

func opPop(e *Engine, op byte) error {
	return e.Stack.PopTo(int(op & 0x0F))
}

func opPushIntInline(e *Engine, op byte) error {
	e.Stack.PushInt(int64(op) - 0x75)
	return nil
}

func opPushIntByte(e *Engine, _ byte) error {
	b, err := readImm8(e)
	if err != nil {
		return err
	}
	e.Stack.PushInt(int64(int8(b)))
	return nil
}

func opPushIntWord(e *Engine, _ byte) error {
	hi, err := readImm8(e)
	if err != nil {
		return err
	}
	lo, err := readImm8(e)
	if err != nil {
		return err
	}
	e.Stack.PushInt(int64(int16(hi<<8 | lo)))
	return nil
}

func opPushIntVar(e *Engine, _ byte) error {
	lenTag, err := readImm8(e)
	if err != nil {
		return err
	}
	l := int(lenTag >> 3)
	tgg := lenTag & 0x7
	n := 8*l + 19
	rest := n - 3
	nBytes := (rest + 7) / 8
	buf := make([]byte, 1+nBytes)
	buf[0] = byte(l<<3) | byte(tgg)
	for i := 0; i < nBytes; i++ {
		b, err := readImm8(e)
		if err != nil {
			return err
		}
		buf[1+i] = byte(b)
	}
	v, _, err := serial.DecodeVarInt(buf)
	if err != nil {
		return exception.New(exception.RangeCheckError).WithSite("PUSHINT")
	}
	n2, err := stack.CheckedFromBigInt(v)
	if err != nil {
		return err
	}
	e.Stack.Push(n2)
	return nil
}

// opPushNull pushes the Null value (PUSHNULL, original_source's
// assembler/simple.rs opcode 0x6D) — the "no dictionary/value yet"
// sentinel the DICTSET family and TUPLE opcodes start from.
func opPushNull(e *Engine, _ byte) error {
	e.Stack.Push(stack.Null)
	return nil
}

func opPushCont(e *Engine, _ byte) error {
	body, err := e.cc.Code.LoadRef(false)
	if err != nil {
		return err
	}
	e.Stack.Push(control.NewOrdinary(cell.NewSlice(body)))
	return nil
}
