package stack_test

import (
	"testing"

	"github.com/tvmkit/tvm/stack"
)

func TestPushPop(t *testing.T) {
	s := stack.New()
	s.PushInt(1)
	s.PushInt(2)
	v, err := s.Pop()
	if err != nil {
		t.Fatal(err)
	}
	i, err := stack.AsInteger(v, "test")
	if err != nil {
		t.Fatal(err)
	}
	n, _ := i.Int64()
	if n != 2 {
		t.Fatalf("Pop() = %d, want 2", n)
	}
	if s.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", s.Depth())
	}
}

func TestPopUnderflow(t *testing.T) {
	s := stack.New()
	if _, err := s.Pop(); err == nil {
		t.Fatal("expected StackUnderflow on empty pop")
	}
}

func TestSwap(t *testing.T) {
	s := stack.New()
	s.PushInt(1)
	s.PushInt(2)
	if err := s.Swap(0, 1); err != nil {
		t.Fatal(err)
	}
	top, _ := s.Top()
	i, _ := stack.AsInteger(top, "test")
	n, _ := i.Int64()
	if n != 1 {
		t.Fatalf("after swap top = %d, want 1", n)
	}
}

func TestTakeTopAndPushAll(t *testing.T) {
	s := stack.New()
	s.PushInt(1)
	s.PushInt(2)
	s.PushInt(3)
	taken, err := s.TakeTop(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(taken) != 2 || s.Depth() != 1 {
		t.Fatalf("TakeTop left depth %d, taken %d", s.Depth(), len(taken))
	}
	s.PushAll(taken)
	if s.Depth() != 3 {
		t.Fatalf("after PushAll depth = %d, want 3", s.Depth())
	}
}

func TestIntegerNaN(t *testing.T) {
	n := stack.NaN()
	if !n.IsNaN() {
		t.Fatal("expected NaN")
	}
	if _, err := n.BigInt(); err == nil {
		t.Fatal("expected IntegerOverflow reading a NaN's BigInt")
	}
}

func TestTupleBounds(t *testing.T) {
	elems := make([]stack.Value, stack.MaxTupleLength+1)
	for i := range elems {
		elems[i] = stack.NewInt(int64(i))
	}
	if _, err := stack.NewTuple(elems); err == nil {
		t.Fatal("expected error exceeding MaxTupleLength")
	}
}
