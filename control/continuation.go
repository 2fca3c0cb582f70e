// Package control implements continuations and the control-register file
// (spec.md §4.4): the ContinuationType closed sum, the Continuation value
// itself, its SaveList, and the engine's c0..c15 Registers.
//
// Grounded on original_source/src/stack/continuation.rs for the
// ContinuationType variants and original_source/src/stack/savelist.rs
// for the 16-slot savelist contract. Rendered as a tagged struct (a Kind
// field plus the union of payload fields each variant needs) rather than
// an interface-per-variant hierarchy, per the "tagged sum, not a trait"
// guidance: Go has no sum types, and a single flat struct keeps
// switch_to's dispatch (in the engine package) a single type switch on
// Kind instead of a set of type assertions against eight concrete types.
package control

import (
	"fmt"

	"github.com/tvmkit/tvm/cell"
	"github.com/tvmkit/tvm/stack"
)

// Kind identifies which completion semantics a Continuation's Type
// carries (spec.md §4.4 table).
type Kind int

const (
	Ordinary Kind = iota
	Quit
	PushInt
	AgainLoopBody
	RepeatLoopBody
	UntilLoopCondition
	WhileLoopCondition
	TryCatch
)

func (k Kind) String() string {
	switch k {
	case Ordinary:
		return "ordinary"
	case Quit:
		return "quit"
	case PushInt:
		return "push-int"
	case AgainLoopBody:
		return "again"
	case RepeatLoopBody:
		return "repeat"
	case UntilLoopCondition:
		return "until"
	case WhileLoopCondition:
		return "while"
	case TryCatch:
		return "try-catch"
	default:
		return "unknown"
	}
}

// Type is the closed sum of completion behaviors a Continuation may
// carry, keyed by Kind; only the fields relevant to Kind are populated
// (spec.md §4.4).
type Type struct {
	Kind Kind

	// Quit
	ExitCode int

	// PushInt
	Value int64

	// AgainLoopBody / RepeatLoopBody / UntilLoopCondition / WhileLoopCondition
	Body *Continuation

	// RepeatLoopBody: remaining iteration count.
	Counter int64

	// WhileLoopCondition: the condition continuation run before each
	// iteration of Body.
	Cond *Continuation
}

// Continuation is a first-class suspended computation: a code cursor, its
// own data stack, a savelist of control registers to restore on
// completion, an expected argument count, and a completion Type
// (spec.md §4.4).
type Continuation struct {
	Code  *cell.Slice
	Stack *stack.Stack
	Save  SaveList
	// NArgs is the expected argument count for switch_to's transfer
	// check; -1 means "take the whole current stack, unconstrained."
	NArgs int
	Type  Type
}

// NewOrdinary builds a plain Continuation over code with its own empty
// stack, the common case for PUSHCONT/closures and CALLX targets.
func NewOrdinary(code *cell.Slice) *Continuation {
	return &Continuation{Code: code, Stack: stack.New(), NArgs: -1, Type: Type{Kind: Ordinary}}
}

// NewQuit builds the special terminal continuation installed as c0/c1 at
// engine start, completing execution with exitCode.
func NewQuit(exitCode int) *Continuation {
	return &Continuation{Stack: stack.New(), NArgs: -1, Type: Type{Kind: Quit, ExitCode: exitCode}}
}

// IsContinuation satisfies the stack.Continuation marker interface,
// letting *Continuation sit directly in the stack.Value union without
// package stack importing package control (see stack/value.go).
func (*Continuation) IsContinuation() {}

// String implements fmt.Stringer for the stack.Value union and debug
// dump output.
func (c *Continuation) String() string {
	return fmt.Sprintf("Continuation[%s]", c.Type.Kind)
}

var _ stack.Continuation = (*Continuation)(nil)
