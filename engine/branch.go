package engine

import (
	"github.com/tvmkit/tvm/control"
	"github.com/tvmkit/tvm/exception"
)

// Continuation transfer: RET/RETALT, the conditional-dispatch family
// (IF/IFJMP/IFELSE), CALLX/JMPX/CALLCC, CALL's short form, THROW and
// TRYARGS/TRY, and SETCP. Grounded on
// original_source/src/executor/continuation.rs and
// original_source/src/executor/exception.rs; opcode bytes mirror
// asm/commands.go exactly.
func init() {
	bind(0xDB, opDbPrefix)
	bind(0xDE, opIf)
	bind(0xE0, opIfJmp)
	bind(0xE2, opIfElse)
	bind(0xD8, opCallx)
	bind(0xD9, opJmpx)
	bind(0xDA, opCallcc)
	bind(0xF0, opCallShort)
	bind(0xF1, opTry)
	bind(0xF2, opThrow)
	bind(0xF3, opTryArgs)
	bind(0xFF, opSetCp)
}

func opDbPrefix(e *Engine, _ byte) error {
	sub, err := readImm8(e)
	if err != nil {
		return err
	}
	switch byte(sub) {
	case 0x30:
		return e.ret()
	case 0x31:
		return e.retalt()
	default:
		return exception.New(exception.InvalidOpcode).WithSite("DB prefix")
	}
}

// opIf pops a continuation then a flag, calling the continuation (with
// a return point back here) if the flag is nonzero.
func opIf(e *Engine, _ byte) error {
	c, err := popContinuation(e, "IF")
	if err != nil {
		return err
	}
	x, err := popInt(e, "IF")
	if err != nil {
		return err
	}
	if x.Sign() == 0 {
		return nil
	}
	return e.jump(e.callBody(c, e.cc))
}

// opIfJmp is IF's tail-call sibling: no return point is installed, so
// the continuation's own RET returns to whatever c0 already was.
func opIfJmp(e *Engine, _ byte) error {
	c, err := popContinuation(e, "IFJMP")
	if err != nil {
		return err
	}
	x, err := popInt(e, "IFJMP")
	if err != nil {
		return err
	}
	if x.Sign() == 0 {
		return nil
	}
	return e.jump(c)
}

func opIfElse(e *Engine, _ byte) error {
	x, err := popInt(e, "IFELSE")
	if err != nil {
		return err
	}
	cFalse, err := popContinuation(e, "IFELSE")
	if err != nil {
		return err
	}
	cTrue, err := popContinuation(e, "IFELSE")
	if err != nil {
		return err
	}
	if x.Sign() != 0 {
		return e.jump(e.callBody(cTrue, e.cc))
	}
	return e.jump(e.callBody(cFalse, e.cc))
}

func opCallx(e *Engine, _ byte) error {
	c, err := popContinuation(e, "CALLX")
	if err != nil {
		return err
	}
	return e.jump(e.callBody(c, e.cc))
}

func opJmpx(e *Engine, _ byte) error {
	c, err := popContinuation(e, "JMPX")
	if err != nil {
		return err
	}
	return e.jump(c)
}

// opCallcc is CALLX plus handing the callee the caller's own
// continuation as an explicit stack value, letting it invoke the
// caller directly instead of only implicitly via RET.
func opCallcc(e *Engine, _ byte) error {
	c, err := popContinuation(e, "CALLCC")
	if err != nil {
		return err
	}
	e.Stack.Push(e.cc)
	return e.jump(e.callBody(c, e.cc))
}

// opCallShort implements CALL nn: push the call number and transfer to
// whatever continuation c3 holds, the dictionary-of-procedures
// selector every ordinary function call is compiled against
// (original_source/src/executor/continuation.rs's call_ext_* family).
func opCallShort(e *Engine, _ byte) error {
	n, err := readImm8(e)
	if err != nil {
		return err
	}
	c3, err := e.Registers.Continuation(control.RegC3)
	if err != nil {
		return err
	}
	e.Stack.PushInt(int64(n))
	return e.jump(e.callBody(c3, e.cc))
}

func opThrow(e *Engine, _ byte) error {
	kind, err := readImm8(e)
	if err != nil {
		return err
	}
	n, err := readImm8(e)
	if err != nil {
		return err
	}
	switch byte(kind) {
	case 0x00:
		return exception.New(exception.Code(n)).WithSite("THROW")
	case 0x01:
		x, err := popInt(e, "THROWIF")
		if err != nil {
			return err
		}
		if x.Sign() != 0 {
			return exception.New(exception.Code(n)).WithSite("THROWIF")
		}
		return nil
	case 0x02:
		x, err := popInt(e, "THROWIFNOT")
		if err != nil {
			return err
		}
		if x.Sign() == 0 {
			return exception.New(exception.Code(n)).WithSite("THROWIFNOT")
		}
		return nil
	default:
		return exception.New(exception.InvalidOpcode).WithSite("THROW")
	}
}

// tryWith installs handler as c2 around body, with p/q recorded as each
// continuation's expected argument count (TRYARGS's p,q; plain TRY
// leaves both unconstrained). The previous c2 is not restored when
// body completes — nested exception scopes beyond one level deep are a
// documented simplification (DESIGN.md).
func tryWith(e *Engine, body, handler *control.Continuation, p, q int) error {
	handler.NArgs = q
	if err := e.Registers.Set(control.RegC2, handler); err != nil {
		return err
	}
	body.NArgs = p
	return e.jump(e.callBody(body, e.cc))
}

func opTry(e *Engine, _ byte) error {
	handler, err := popContinuation(e, "TRY")
	if err != nil {
		return err
	}
	body, err := popContinuation(e, "TRY")
	if err != nil {
		return err
	}
	return tryWith(e, body, handler, -1, -1)
}

func opTryArgs(e *Engine, _ byte) error {
	pq, err := readImm8(e)
	if err != nil {
		return err
	}
	p, q := int(pq>>4), int(pq&0xF)
	handler, err := popContinuation(e, "TRYARGS")
	if err != nil {
		return err
	}
	body, err := popContinuation(e, "TRYARGS")
	if err != nil {
		return err
	}
	return tryWith(e, body, handler, p, q)
}

// opSetCp validates the codepage selector; this engine implements a
// single codepage (0), the only value a compiled program may select.
func opSetCp(e *Engine, _ byte) error {
	n, err := readImm8(e)
	if err != nil {
		return err
	}
	if n != 0 {
		return exception.New(exception.InvalidOpcode).WithSite("SETCP")
	}
	return nil
}
