package stack

import "github.com/tvmkit/tvm/exception"

// Stack is the TVM data stack: a LIFO sequence of Values, unbounded in
// principle (gas pricing is what makes deep stacks expensive, not a fixed
// capacity). This is the one deliberate deviation from the teacher's
// array-backed Instance.data/Tos/sp trio (vm/core.go): the teacher's VM
// has a fixed, small address space and a constant-size stack array is the
// right fit there, but a TVM stack has no declared bound, so Stack here
// is a plain growable []Value with the teacher's method names
// (Depth/Push/Pop/Drop/Drop2) kept for the same operations.
type Stack struct {
	items []Value
}

// New returns an empty Stack.
func New() *Stack { return &Stack{} }

// Depth returns the number of values currently on the stack.
func (s *Stack) Depth() int { return len(s.items) }

// Push pushes v on top of the stack.
func (s *Stack) Push(v Value) { s.items = append(s.items, v) }

// PushInt is a convenience wrapper for pushing an int64 literal.
func (s *Stack) PushInt(v int64) { s.Push(NewInt(v)) }

// PushBool pushes the TVM canonical boolean encoding: -1 for true, 0 for
// false.
func (s *Stack) PushBool(v bool) {
	if v {
		s.PushInt(-1)
		return
	}
	s.PushInt(0)
}

// Pop removes and returns the top value, raising StackUnderflow if empty.
func (s *Stack) Pop() (Value, error) {
	n := len(s.items)
	if n == 0 {
		return nil, exception.New(exception.StackUnderflow)
	}
	v := s.items[n-1]
	s.items = s.items[:n-1]
	return v, nil
}

// Drop discards the top value (DROP).
func (s *Stack) Drop() error {
	_, err := s.Pop()
	return err
}

// Drop2 discards the top two values (2DROP).
func (s *Stack) Drop2() error {
	if err := s.Drop(); err != nil {
		return err
	}
	return s.Drop()
}

// Top returns the top value without removing it.
func (s *Stack) Top() (Value, error) {
	n := len(s.items)
	if n == 0 {
		return nil, exception.New(exception.StackUnderflow)
	}
	return s.items[n-1], nil
}

// At returns the value at depth i from the top (0 = top), without
// removing it, the primitive behind PUSH/DUP i and PICK.
func (s *Stack) At(i int) (Value, error) {
	n := len(s.items)
	if i < 0 || i >= n {
		return nil, exception.New(exception.StackUnderflow)
	}
	return s.items[n-1-i], nil
}

// Set overwrites the value at depth i from the top, the primitive behind
// POP i and ROLL.
func (s *Stack) Set(i int, v Value) error {
	n := len(s.items)
	if i < 0 || i >= n {
		return exception.New(exception.StackUnderflow)
	}
	s.items[n-1-i] = v
	return nil
}

// Swap exchanges the values at depths i and j from the top (XCHG).
func (s *Stack) Swap(i, j int) error {
	n := len(s.items)
	if i < 0 || i >= n || j < 0 || j >= n {
		return exception.New(exception.StackUnderflow)
	}
	s.items[n-1-i], s.items[n-1-j] = s.items[n-1-j], s.items[n-1-i]
	return nil
}

// PushFrom copies the value at depth i from the top and pushes it again
// (DUP when i=0, PUSH i otherwise), leaving the original in place. A
// Slice is cloned so the two copies advance independently.
func (s *Stack) PushFrom(i int) error {
	v, err := s.At(i)
	if err != nil {
		return err
	}
	if sl, err := AsSlice(v, "PUSH"); err == nil {
		v = sl.Clone()
	}
	s.Push(v)
	return nil
}

// PopTo removes the top value and writes it to depth i from the new top
// (POP i), the blackhole opcode.
func (s *Stack) PopTo(i int) error {
	v, err := s.Pop()
	if err != nil {
		return err
	}
	return s.Set(i, v)
}

// Items returns the stack contents, bottom first, for debug dump and for
// switch_to's bulk-transfer path. The returned slice is a copy.
func (s *Stack) Items() []Value {
	cp := make([]Value, len(s.items))
	copy(cp, s.items)
	return cp
}

// TakeTop removes and returns the top n values, bottom first (the
// "pargs" slice switch_to moves onto a callee's stack). Raises
// StackUnderflow if n exceeds the current depth.
func (s *Stack) TakeTop(n int) ([]Value, error) {
	if n < 0 || n > len(s.items) {
		return nil, exception.New(exception.StackUnderflow)
	}
	split := len(s.items) - n
	taken := make([]Value, n)
	copy(taken, s.items[split:])
	s.items = s.items[:split]
	return taken, nil
}

// PushAll appends vs (bottom first) on top of the stack, the counterpart
// to TakeTop used to land transferred args on the callee's stack.
func (s *Stack) PushAll(vs []Value) {
	s.items = append(s.items, vs...)
}

// Clear empties the stack, returning its former contents bottom first.
func (s *Stack) Clear() []Value {
	old := s.items
	s.items = nil
	return old
}
