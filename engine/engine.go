// Package engine is the TVM execution engine: it interprets a compiled
// cell tree (spec.md §4.3-§4.8) as a stack machine with continuations,
// control registers and gas accounting.
//
// Engine follows the teacher's vm.Instance/vm.Option shape (vm/vm.go,
// since rewritten into engine/*.go): a functional-options constructor
// building one mutable instance, and a single Run loop that decodes one
// opcode at a time from the current continuation and dispatches it
// through a fixed-size table, in the same spirit as vm.Instance.Run's
// switch over vm.Cell opcodes — except keyed by a 256-entry dispatch
// table instead of a switch statement, since the TVM opcode space is
// far larger than Ngaro's 31 opcodes and most of the high bits select
// an entire opcode family (spec.md's "## Bytecode (wire format)" table).
package engine

import (
	"io"
	"math/rand"
	"time"

	"github.com/tvmkit/tvm/cell"
	"github.com/tvmkit/tvm/control"
	"github.com/tvmkit/tvm/exception"
	"github.com/tvmkit/tvm/gas"
	"github.com/tvmkit/tvm/stack"
)

// handler executes one decoded opcode. It reads any remaining operand
// bits directly from e.cc.Code and is responsible for leaving the
// program counter (e.cc.Code) positioned at the next instruction.
type handler func(e *Engine, op byte) error

// dispatchTable is the two-level decode structure DESIGN NOTES calls
// for: a flat array indexed by the first opcode byte, built once at
// package init instead of a hash map lookup per instruction.
var dispatchTable [256]handler

func bind(op byte, h handler) {
	dispatchTable[op] = h
}

// Engine is one execution instance: the data stack, the sixteen control
// registers, the gas meter, and the continuation currently executing.
// Grounded on the teacher's vm.Instance for field shape (PC/stacks/ports
// there correspond to cc/Registers/Stack here) and on the decode loop
// conventions referenced throughout original_source/src/executor/*.rs.
type Engine struct {
	Stack        *stack.Stack
	Registers    *control.Registers
	Gas          *gas.Meter
	Debug        io.Writer
	Capabilities uint64
	Balance      int64

	cc        *control.Continuation
	steps     int64
	committed bool
	exitCode  int
	now       func() int64
	rng       *rand.Rand
	debugOn   bool
}

// Option configures an Engine at construction time, the same pattern as
// vm.Option (vm/vm.go): a list of functions applied in New before the
// first instruction executes.
type Option func(*Engine)

// WithGas installs a gas meter with the given limit/credit/ceiling/price
// (spec.md §4.8).
func WithGas(limit, credit, limitMax, price int64) Option {
	return func(e *Engine) { e.Gas = gas.New(limit, credit, limitMax, price) }
}

// WithDebugWriter directs DUMPSTK/PRINTSTR/STRDUMP output to w instead of
// discarding it.
func WithDebugWriter(w io.Writer) Option {
	return func(e *Engine) { e.Debug = w }
}

// WithCapabilities sets the capability bitmask consulted by opcodes that
// are gated behind a chain capability flag.
func WithCapabilities(bits uint64) Option {
	return func(e *Engine) { e.Capabilities = bits }
}

// WithDebugEnabled sets the initial DEBUGON/DEBUGOFF state; DUMPSTK and
// friends are no-ops while it is false. New defaults it to false, the
// same default real TVM boots a fresh transaction with.
func WithDebugEnabled(on bool) Option {
	return func(e *Engine) { e.debugOn = on }
}

// WithBalance sets the account balance BALANCE reports, in nanotokens.
func WithBalance(nanotokens int64) Option {
	return func(e *Engine) { e.Balance = nanotokens }
}

// WithNow overrides the clock NOW reads from; New defaults it to the
// wall clock, but a reproducible test run should pin it to a fixed
// block time instead.
func WithNow(fn func() int64) Option {
	return func(e *Engine) { e.now = fn }
}

// WithRandomSeed seeds RAND's generator; real TVM derives its seed from
// the block's pseudo-random hash (original_source/src/executor/rand.rs),
// which this engine does not model — a caller wanting chain-like
// randomness supplies that seed here instead of relying on the default.
func WithRandomSeed(seed int64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewSource(seed)) }
}

// New builds an Engine ready to execute code: c0 is seeded with a Quit
// continuation (ordinary program exit), and the currently executing
// continuation wraps the given code cell over a fresh data stack, the
// way vm.New seeds PC=0 over a supplied Image.
func New(code cell.Cell, opts ...Option) *Engine {
	e := &Engine{
		Stack:     stack.New(),
		Registers: control.NewRegisters(),
		Gas:       gas.New(1000000, 0, gas.SpecLimit, 1),
		now:       func() int64 { return time.Now().Unix() },
		rng:       rand.New(rand.NewSource(0)),
	}
	root := control.NewOrdinary(cell.NewSlice(code))
	root.Stack = e.Stack
	_ = e.Registers.Set(control.RegC0, control.NewQuit(0))
	_ = e.Registers.Set(control.RegC1, control.NewQuit(0))
	e.cc = root
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// InstructionCount returns the number of opcodes decoded so far.
func (e *Engine) InstructionCount() int64 { return e.steps }

// Committed reports whether COMMIT has run. COMMIT only sets this flag;
// c4/c5 are neither copied nor locked against later writes.
func (e *Engine) Committed() bool { return e.committed }

// jump installs cont as the currently executing continuation, applying
// its savelist to the register file first (spec.md §4.4: entering a
// continuation restores whatever registers it captured). Loop-marker
// continuations (AGAIN/REPEAT/UNTIL/WHILE, see loop.go) never become
// e.cc directly — jumping to one re-enters the loop machinery instead.
func (e *Engine) jump(cont *control.Continuation) error {
	switch cont.Type.Kind {
	case control.AgainLoopBody, control.RepeatLoopBody, control.UntilLoopCondition, control.WhileLoopCondition:
		return e.enterLoop(cont)
	}
	e.Registers.ApplySaveList(&cont.Save)
	e.cc = cont
	return nil
}

// callBody builds the Continuation value for "run body, then transfer to
// retTo" — the shared primitive behind CALLX, the conditional-call forms
// of IF/IFELSE, and every loop iteration (loop.go), all of which differ
// only in what retTo is. The c0 in force at the call is saved into
// retTo's savelist (for a loop marker, into the savelist of the
// continuation the loop exits to) unless that slot is already set, so
// returning there restores it.
func (e *Engine) callBody(body *control.Continuation, retTo *control.Continuation) *control.Continuation {
	link := retTo
	switch retTo.Type.Kind {
	case control.AgainLoopBody, control.RepeatLoopBody, control.UntilLoopCondition, control.WhileLoopCondition:
		link = loopAfter(retTo)
	}
	if c0, err := e.Registers.Get(control.RegC0); err == nil && link != nil && link.Save.CanPut(control.RegC0) {
		link.Save.Put(control.RegC0, c0)
	}
	var code *cell.Slice
	if body.Code != nil {
		code = body.Code.Clone()
	}
	next := &control.Continuation{
		Code:  code,
		Stack: e.Stack,
		NArgs: body.NArgs,
		Type:  control.Type{Kind: control.Ordinary},
	}
	next.Save.Put(control.RegC0, retTo)
	return next
}

// ret jumps to c0, the convention every implicit/explicit RET uses.
func (e *Engine) ret() error {
	c0, err := e.Registers.Continuation(control.RegC0)
	if err != nil {
		return err
	}
	return e.jump(c0)
}

// retalt jumps to c1 (RETALT, and a loop's "break" path) — deliberately
// bypassing loop-marker handling: break must unwind straight out to
// whatever c1 held before the loop started, not back into the loop.
func (e *Engine) retalt() error {
	c1, err := e.Registers.Continuation(control.RegC1)
	if err != nil {
		return err
	}
	e.Registers.ApplySaveList(&c1.Save)
	e.cc = c1
	return nil
}

// throw raises exc, handing it to c2 (the exception handler register)
// if one is installed, or returning it as a Go error to Run's caller
// otherwise — mirroring spec.md §4.6's two-tier handling (a TRY
// continuation's handler vs. the top-level transaction abort).
func (e *Engine) throw(exc *exception.Exception) error {
	_ = e.Gas.TryUse(gas.ExceptionPrice)
	h, err := e.Registers.Continuation(control.RegC2)
	if err != nil || h == nil {
		return exc
	}
	e.Stack = h.Stack
	if exc.Value != nil {
		e.Stack.Push(exc.Value)
	} else {
		e.Stack.PushInt(0)
	}
	e.Stack.PushInt(int64(exc.Number()))
	return e.jump(h)
}
