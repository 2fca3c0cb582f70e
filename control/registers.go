package control

import (
	"github.com/tvmkit/tvm/exception"
	"github.com/tvmkit/tvm/stack"
)

// Well-known register indices (spec.md §4.4, §6).
const (
	RegC0 = 0 // next continuation (ordinary return)
	RegC1 = 1 // alternative return
	RegC2 = 2 // exception handler
	RegC3 = 3 // current continuation / code selector
	RegC4 = 4 // root of persistent data (a Cell)
	RegC5 = 5 // output action list head (a Cell)
	RegC7 = 7 // smart contract info tuple
)

// Registers is the engine's live control-register file, c0..c15. Unlike
// SaveList (a sparse set of values a suspended continuation carries),
// Registers always holds NumRegisters entries, each addressable by
// index, mirroring the teacher's approach of a fixed-size register/array
// field on Instance rather than a map (vm/vm.go's Instance holds
// fixed-size data/address arrays for the same reason: registers are a
// small, statically bounded set, not a dynamic collection).
type Registers struct {
	slots [NumRegisters]stack.Value
}

// NewRegisters returns a Registers file with every slot set to Null.
func NewRegisters() *Registers {
	r := &Registers{}
	for i := range r.slots {
		r.slots[i] = stack.Null
	}
	return r
}

// Get returns the raw value in register i.
func (r *Registers) Get(i int) (stack.Value, error) {
	if i < 0 || i >= NumRegisters {
		return nil, exception.New(exception.RangeCheckError).WithSite("PUSHCTR")
	}
	return r.slots[i], nil
}

// Set installs v into register i.
func (r *Registers) Set(i int, v stack.Value) error {
	if i < 0 || i >= NumRegisters {
		return exception.New(exception.RangeCheckError).WithSite("POPCTR")
	}
	r.slots[i] = v
	return nil
}

// Continuation returns register i as a Continuation, raising
// TypeCheckError if it holds something else (c0/c1/c2/c3 accessors).
func (r *Registers) Continuation(i int) (*Continuation, error) {
	v, err := r.Get(i)
	if err != nil {
		return nil, err
	}
	c, ok := v.(*Continuation)
	if !ok {
		return nil, exception.New(exception.TypeCheckError).WithSite("control register")
	}
	return c, nil
}

// ApplySaveList restores every slot save has set into r, the step
// switch_to performs after installing a new current continuation
// (spec.md §4.4).
func (r *Registers) ApplySaveList(save *SaveList) {
	for i := 0; i < NumRegisters; i++ {
		if v, ok := save.Get(i); ok {
			r.slots[i] = v
		}
	}
}

// CaptureTo snapshots registers listed in indices into save, used when
// building the savelist a new continuation (e.g. a CALLX callee, or a
// loop helper) will restore on completion.
func (r *Registers) CaptureTo(save *SaveList, indices ...int) {
	for _, i := range indices {
		if i < 0 || i >= NumRegisters {
			continue
		}
		save.Put(i, r.slots[i])
	}
}
