package engine

import (
	"context"

	"github.com/tvmkit/tvm/cell"
	"github.com/tvmkit/tvm/control"
	"github.com/tvmkit/tvm/exception"
	"github.com/tvmkit/tvm/gas"
)

// ExitCode returns the code the program terminated with (0 on a plain
// RET to the top-level continuation, a THROW's code on an uncaught
// exception that Run reports as a normal exit rather than an error —
// see Run's doc comment).
func (e *Engine) ExitCode() int { return e.exitCode }

// Run decodes and dispatches opcodes from the currently executing
// continuation until it reaches a Quit continuation (normal program
// exit) or an unrecoverable error. Mirrors the teacher's
// Instance.Run switch loop shape (vm/core.go): decode one opcode,
// charge its price, execute, advance — except TVM's opcodes are
// variable width and keyed through dispatchTable instead of a switch,
// and control flow between continuations replaces the flat program
// counter: the loop simply keeps re-reading e.cc.Code, the rest of the
// current continuation (c3 is not involved; it only serves CALL).
//
// An uncaught *exception.Exception (one c2 did not handle) is
// recorded as ExitCode and Run returns nil, matching
// real TVM's convention that a failed transaction's result is still a
// well-defined exit code, not a Go-level panic. Any other error (a
// malformed program, slice underflow mid-decode that isn't itself an
// Exception, a canceled context) is returned directly.
func (e *Engine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if e.cc.Type.Kind == control.Quit {
			e.exitCode = e.cc.Type.ExitCode
			return nil
		}

		if err := e.step(); err != nil {
			exc, ok := exception.AsException(err)
			if !ok {
				return err
			}
			if terr := e.throw(exc); terr != nil {
				if terr2, ok2 := exception.AsException(terr); ok2 {
					e.exitCode = terr2.Number()
					return nil
				}
				return terr
			}
		}
	}
}

// step decodes and executes exactly one opcode, advancing to the next
// cell or returning via an implicit RET/JMPREF when the current
// continuation's code is exhausted (spec.md §4.3).
func (e *Engine) step() error {
	code := e.cc.Code
	if code == nil {
		return e.ret()
	}
	if code.RemainingBits() == 0 {
		if code.RemainingRefs() > 0 {
			ref, err := code.LoadRef(false)
			if err != nil {
				return err
			}
			if err := e.Gas.TryUse(gas.ImplicitJmpPrice); err != nil {
				return err
			}
			e.cc.Code = cell.NewSlice(ref)
			return nil
		}
		if err := e.Gas.TryUse(gas.ImplicitRetPrice); err != nil {
			return err
		}
		return e.ret()
	}

	opv, err := code.LoadUint(8, false)
	if err != nil {
		return err
	}
	op := byte(opv)
	if err := e.Gas.TryUse(gas.InstructionPrice(1)); err != nil {
		return err
	}
	if err := e.Gas.TryUse(gas.StackPrice(e.Stack.Depth())); err != nil {
		return err
	}
	h := dispatchTable[op]
	if h == nil {
		return exception.New(exception.InvalidOpcode)
	}
	if err := h(e, op); err != nil {
		return err
	}
	e.steps++
	return nil
}
