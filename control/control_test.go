package control_test

import (
	"testing"

	"github.com/tvmkit/tvm/control"
	"github.com/tvmkit/tvm/stack"
)

func TestSaveListDefineIfAbsent(t *testing.T) {
	var sl control.SaveList
	sl.Put(control.RegC0, stack.NewInt(1))
	if !sl.CanPut(control.RegC1) {
		t.Fatal("expected c1 free")
	}
	if sl.CanPut(control.RegC0) {
		t.Fatal("expected c0 occupied")
	}
}

func TestSaveListMergeDoesNotClobber(t *testing.T) {
	var a, b control.SaveList
	a.Put(control.RegC0, stack.NewInt(1))
	b.Put(control.RegC0, stack.NewInt(2))
	b.Put(control.RegC1, stack.NewInt(3))
	a.Merge(&b)
	v, _ := a.Get(control.RegC0)
	if v.(*stack.Integer).String() != "1" {
		t.Fatalf("Merge clobbered existing c0: got %v", v)
	}
	v1, ok := a.Get(control.RegC1)
	if !ok || v1.(*stack.Integer).String() != "3" {
		t.Fatalf("Merge did not copy absent c1: got %v, ok=%v", v1, ok)
	}
}

func TestRegistersApplySaveList(t *testing.T) {
	r := control.NewRegisters()
	var sl control.SaveList
	sl.Put(control.RegC2, stack.NewInt(42))
	r.ApplySaveList(&sl)
	v, err := r.Get(control.RegC2)
	if err != nil {
		t.Fatal(err)
	}
	if v.(*stack.Integer).String() != "42" {
		t.Fatalf("Get(RegC2) = %v, want 42", v)
	}
}

func TestContinuationSatisfiesStackValue(t *testing.T) {
	c := control.NewQuit(0)
	var v stack.Value = c
	if _, ok := v.(stack.Continuation); !ok {
		t.Fatal("*control.Continuation must satisfy stack.Continuation")
	}
}
