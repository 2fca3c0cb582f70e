package stack

import (
	"fmt"

	"github.com/tvmkit/tvm/cell"
	"github.com/tvmkit/tvm/exception"
)

// Value is any TVM stack cell's payload: Null, *Integer, cell.Cell,
// *cell.Slice, *cell.Builder, *Tuple, or a Continuation (defined and
// implemented by the control package). It is intentionally just
// fmt.Stringer plus nothing else — Kind-based dispatch happens through
// the type switch in KindOf/AsXxx below rather than through a method the
// value itself must implement, so that leaf packages (cell, and the
// control package's Continuation) need not import stack to participate
// in the union.
type Value = exception.Value

// Continuation is the marker interface a control-register value must
// satisfy to be treated as a continuation by the stack layer. It is
// deliberately minimal (a no-op marker method) because the concrete
// Continuation type lives in package control, which imports stack for
// Stack/Value/Integer/Tuple — package stack cannot import control
// without a cycle, so the union's continuation case is recognized
// structurally instead of by concrete type.
type Continuation interface {
	Value
	IsContinuation()
}

// Kind tags a Value's dynamic type for fast dispatch without repeated
// type switches at every call site.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindCell
	KindSlice
	KindBuilder
	KindTuple
	KindContinuation
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "integer"
	case KindCell:
		return "cell"
	case KindSlice:
		return "slice"
	case KindBuilder:
		return "builder"
	case KindTuple:
		return "tuple"
	case KindContinuation:
		return "continuation"
	default:
		return "unknown"
	}
}

// nullValue is the singleton Null value (PUSHNULL, ISNULL's target).
type nullValue struct{}

func (nullValue) String() string { return "null" }

// Null is the single Null value; comparisons use ==.
var Null Value = nullValue{}

// IsNull reports whether v is the Null value.
func IsNull(v Value) bool {
	_, ok := v.(nullValue)
	return ok
}

// KindOf classifies v for TypeCheckError diagnostics and dump output.
func KindOf(v Value) Kind {
	switch v.(type) {
	case nullValue:
		return KindNull
	case *Integer:
		return KindInt
	case cell.Cell:
		return KindCell
	case *cell.Slice:
		return KindSlice
	case *cell.Builder:
		return KindBuilder
	case *Tuple:
		return KindTuple
	}
	if _, ok := v.(Continuation); ok {
		return KindContinuation
	}
	return KindNull
}

// typeError builds the TypeCheckError raised when an opcode's operand is
// not of the kind it expects.
func typeError(site string) error {
	return exception.New(exception.TypeCheckError).WithSite(site)
}

// AsInteger type-asserts v as an Integer, raising TypeCheckError otherwise.
func AsInteger(v Value, site string) (*Integer, error) {
	i, ok := v.(*Integer)
	if !ok {
		return nil, typeError(site)
	}
	return i, nil
}

// AsCell type-asserts v as a Cell.
func AsCell(v Value, site string) (cell.Cell, error) {
	c, ok := v.(cell.Cell)
	if !ok {
		return nil, typeError(site)
	}
	return c, nil
}

// AsSlice type-asserts v as a *cell.Slice.
func AsSlice(v Value, site string) (*cell.Slice, error) {
	s, ok := v.(*cell.Slice)
	if !ok {
		return nil, typeError(site)
	}
	return s, nil
}

// AsBuilder type-asserts v as a *cell.Builder.
func AsBuilder(v Value, site string) (*cell.Builder, error) {
	b, ok := v.(*cell.Builder)
	if !ok {
		return nil, typeError(site)
	}
	return b, nil
}

// AsTuple type-asserts v as a *Tuple.
func AsTuple(v Value, site string) (*Tuple, error) {
	t, ok := v.(*Tuple)
	if !ok {
		return nil, typeError(site)
	}
	return t, nil
}

// AsContinuation type-asserts v as a Continuation.
func AsContinuation(v Value, site string) (Continuation, error) {
	c, ok := v.(Continuation)
	if !ok {
		return nil, typeError(site)
	}
	return c, nil
}

// AsBool pops an Integer and interprets it as a boolean (conditional
// dispatch opcodes).
func AsBool(v Value, site string) (bool, error) {
	i, err := AsInteger(v, site)
	if err != nil {
		return false, err
	}
	return i.Bool()
}

var _ fmt.Stringer = nullValue{}
