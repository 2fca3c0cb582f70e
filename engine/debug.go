package engine

import (
	"fmt"

	"github.com/tvmkit/tvm/exception"
	"github.com/tvmkit/tvm/stack"
)

// Debug/dump family, grounded on original_source/src/executor/dump.rs.
// DEBUGON/DEBUGOFF toggle e.debugOn; DUMPSTK/PRINTSTR/STRDUMP are no-ops
// unless it is on, and write to e.Debug (discarded if nil). The original
// has both DEBUGON and DEBUGOFF call switch_debug(true) — almost
// certainly a copy-paste slip rather than intentional, since it would
// make DEBUGOFF a no-op — so this engine gives each its own target
// state instead of reproducing that.
func init() {
	bind(0xFE, opDebugPrefix)
}

func opDebugPrefix(e *Engine, _ byte) error {
	sub, err := readImm8(e)
	if err != nil {
		return err
	}
	switch byte(sub) {
	case 0x00:
		e.debugOn = true
		return nil
	case 0x01:
		e.debugOn = false
		return nil
	case 0x02:
		return opDumpStk(e)
	case 0x03:
		return opStrDump(e)
	case 0x04:
		return opPrintStr(e)
	default:
		return exception.New(exception.InvalidOpcode).WithSite("debug prefix")
	}
}

func (e *Engine) debugf(format string, args ...any) {
	if !e.debugOn || e.Debug == nil {
		return
	}
	fmt.Fprintf(e.Debug, format, args...)
}

// opDumpStk prints every stack item top-to-bottom, then the depth,
// mirroring execute_dump_stack's DUMPSTK (dump.rs); every other opcode
// in this family only ever looks at s0.
func opDumpStk(e *Engine) error {
	n := e.Stack.Depth()
	for i := 0; i < n; i++ {
		v, err := e.Stack.At(i)
		if err != nil {
			return err
		}
		e.debugf("%s\n", dumpString(v))
	}
	e.debugf("%d\n", n)
	return nil
}

// opStrDump prints s0 as a UTF-8 string plus a trailing newline.
func opStrDump(e *Engine) error {
	if e.Stack.Depth() == 0 {
		return nil
	}
	v, err := e.Stack.At(0)
	if err != nil {
		return err
	}
	e.debugf("%s\n", dumpString(v))
	return nil
}

// opPrintStr prints s0 as a UTF-8 string without a trailing newline.
func opPrintStr(e *Engine) error {
	if e.Stack.Depth() == 0 {
		return nil
	}
	v, err := e.Stack.At(0)
	if err != nil {
		return err
	}
	e.debugf("%s", dumpString(v))
	return nil
}

// dumpString renders a stack value the way dump_var's STR branch does:
// an Integer prints as decimal, everything else falls back to its own
// String() (cell/slice/builder report their bit layout, not a decoded
// byte string, since nothing else in this engine tracks byte alignment
// separately from bit position).
func dumpString(v stack.Value) string {
	if i, ok := v.(*stack.Integer); ok {
		return i.String()
	}
	return fmt.Sprintf("%v", v)
}
