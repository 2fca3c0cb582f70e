package engine_test

import (
	"testing"

	"github.com/tvmkit/tvm/cell"
	"github.com/tvmkit/tvm/control"
	"github.com/tvmkit/tvm/stack"
)

// These exercise engine/actions.go's opcode dispatch (prefix 0xF8 sub-ops
// 0x07/0x09/0x0A/0x0B: SENDRAWMSG/SETCODE/RESERVE/CHANGELIB), checking
// that each appends a decodable action cell to c5 rather than clobbering
// whatever was there, by reading c5 back through the engine's register
// file the way a caller of appendAction itself would.

func c5Cell(t *testing.T, e *stack.Value) cell.Cell {
	t.Helper()
	c, err := stack.AsCell(*e, "test")
	if err != nil {
		t.Fatalf("c5 is not a Cell: %v", err)
	}
	return c
}

func TestSendRawMsgAppendsAction(t *testing.T) {
	e := run(t, "NEWC ENDC 3 SENDRAWMSG")
	v, err := e.Registers.Get(control.RegC5)
	if err != nil {
		t.Fatalf("Get(RegC5): %v", err)
	}
	c := c5Cell(t, &v)
	s := cell.NewSlice(c)
	hasPrev, err := s.LoadUint(1, false)
	if err != nil {
		t.Fatalf("LoadUint(hasPrev): %v", err)
	}
	if hasPrev != 0 {
		t.Errorf("hasPrev = %d, want 0 for the first action", hasPrev)
	}
	tag, err := s.LoadUint(32, false)
	if err != nil {
		t.Fatalf("LoadUint(tag): %v", err)
	}
	if tag != 0x0ec3c86d {
		t.Errorf("tag = %#x, want 0x0ec3c86d", tag)
	}
	mode, err := s.LoadUint(8, false)
	if err != nil {
		t.Fatalf("LoadUint(mode): %v", err)
	}
	if mode != 3 {
		t.Errorf("mode = %d, want 3", mode)
	}
	if c.RefsCount() != 1 {
		t.Errorf("RefsCount() = %d, want 1 (the message cell)", c.RefsCount())
	}
}

func TestActionsChainThroughPreviousHead(t *testing.T) {
	e := run(t, "NEWC ENDC 3 SENDRAWMSG NEWC ENDC SETCODE")
	v, err := e.Registers.Get(control.RegC5)
	if err != nil {
		t.Fatalf("Get(RegC5): %v", err)
	}
	c := c5Cell(t, &v)
	s := cell.NewSlice(c)
	hasPrev, err := s.LoadUint(1, false)
	if err != nil {
		t.Fatalf("LoadUint(hasPrev): %v", err)
	}
	if hasPrev == 0 {
		t.Fatalf("hasPrev = 0, want 1: SETCODE should chain onto the SENDRAWMSG action")
	}
	tag, err := s.LoadUint(32, false)
	if err != nil {
		t.Fatalf("LoadUint(tag): %v", err)
	}
	if tag != 0xad4de08e {
		t.Errorf("tag = %#x, want 0xad4de08e (SETCODE)", tag)
	}
	if c.RefsCount() != 2 {
		t.Errorf("RefsCount() = %d, want 2 (previous action head + code cell)", c.RefsCount())
	}
	prev, err := s.LoadRefAsSlice()
	if err != nil {
		t.Fatalf("LoadRefAsSlice: %v", err)
	}
	prevHasPrev, err := prev.LoadUint(1, false)
	if err != nil {
		t.Fatalf("LoadUint(prevHasPrev): %v", err)
	}
	if prevHasPrev != 0 {
		t.Errorf("prevHasPrev = %d, want 0 for the chain's first link", prevHasPrev)
	}
}

func TestReserveAppendsAction(t *testing.T) {
	e := run(t, "1000000000 1 RESERVE")
	v, err := e.Registers.Get(control.RegC5)
	if err != nil {
		t.Fatalf("Get(RegC5): %v", err)
	}
	c := c5Cell(t, &v)
	s := cell.NewSlice(c)
	if _, err := s.LoadUint(1, false); err != nil {
		t.Fatalf("LoadUint(hasPrev): %v", err)
	}
	tag, err := s.LoadUint(32, false)
	if err != nil {
		t.Fatalf("LoadUint(tag): %v", err)
	}
	if tag != 0x36e6b809 {
		t.Errorf("tag = %#x, want 0x36e6b809", tag)
	}
	mode, err := s.LoadUint(8, false)
	if err != nil {
		t.Fatalf("LoadUint(mode): %v", err)
	}
	if mode != 1 {
		t.Errorf("mode = %d, want 1", mode)
	}
	amount, err := s.LoadBigInt(64, false)
	if err != nil {
		t.Fatalf("LoadBigInt(amount): %v", err)
	}
	if amount.Int64() != 1000000000 {
		t.Errorf("amount = %d, want 1000000000", amount.Int64())
	}
}

func TestChangeLibAppendsAction(t *testing.T) {
	e := run(t, "NEWC ENDC 2 CHANGELIB")
	v, err := e.Registers.Get(control.RegC5)
	if err != nil {
		t.Fatalf("Get(RegC5): %v", err)
	}
	c := c5Cell(t, &v)
	s := cell.NewSlice(c)
	if _, err := s.LoadUint(1, false); err != nil {
		t.Fatalf("LoadUint(hasPrev): %v", err)
	}
	tag, err := s.LoadUint(32, false)
	if err != nil {
		t.Fatalf("LoadUint(tag): %v", err)
	}
	if tag != 0x26fa1dd4 {
		t.Errorf("tag = %#x, want 0x26fa1dd4", tag)
	}
}
