package control

import "github.com/tvmkit/tvm/stack"

// NumRegisters is the size of the control register file, c0..c15
// (spec.md §4.4).
const NumRegisters = 16

// SaveList is the set of control-register values a Continuation carries
// to be restored into the engine's live Registers when that continuation
// completes (original_source/src/stack/savelist.rs). Only registers
// actually captured are present; most continuations save a handful (c0,
// c1, c2) rather than all 16.
type SaveList struct {
	slots [NumRegisters]stack.Value
	set   [NumRegisters]bool
}

// CanPut reports whether register i is a valid, not-yet-occupied slot.
func (s *SaveList) CanPut(i int) bool {
	return i >= 0 && i < NumRegisters && !s.set[i]
}

// Put stores v into register i, overwriting any previous value
// unconditionally (callers that must preserve an existing value should
// check CanPut first, matching the original's "define if absent"
// convention used when chaining savelists across nested continuations).
func (s *SaveList) Put(i int, v stack.Value) {
	if i < 0 || i >= NumRegisters {
		return
	}
	s.slots[i] = v
	s.set[i] = true
}

// Get returns the value saved for register i, and whether it was set.
func (s *SaveList) Get(i int) (stack.Value, bool) {
	if i < 0 || i >= NumRegisters {
		return nil, false
	}
	return s.slots[i], s.set[i]
}

// Remove clears register i's saved value, returning the previous value if
// any.
func (s *SaveList) Remove(i int) (stack.Value, bool) {
	v, ok := s.Get(i)
	if ok {
		s.slots[i] = nil
		s.set[i] = false
	}
	return v, ok
}

// Merge copies every set slot of other into s that s does not already
// have set (the "define if absent" semantics CALLX's savelist-chaining
// relies on: linking the callee back to the caller must not clobber a
// register the callee already saved for its own nested call).
func (s *SaveList) Merge(other *SaveList) {
	for i := 0; i < NumRegisters; i++ {
		if other.set[i] && !s.set[i] {
			s.slots[i] = other.slots[i]
			s.set[i] = true
		}
	}
}
