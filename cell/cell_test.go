package cell_test

import (
	"testing"

	"github.com/tvmkit/tvm/cell"
	"github.com/tvmkit/tvm/gas"
)

func TestBuilderStoreAndFinalize(t *testing.T) {
	b := cell.NewBuilder()
	if err := b.StoreUint(0xFF, 8); err != nil {
		t.Fatal(err)
	}
	if err := b.StoreBit(true); err != nil {
		t.Fatal(err)
	}
	c, err := b.Finalize(nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.BitLength() != 9 {
		t.Fatalf("BitLength() = %d, want 9", c.BitLength())
	}
	if c.Type() != cell.Ordinary {
		t.Fatalf("Type() = %v, want Ordinary", c.Type())
	}
}

func TestFinalizeChargesGas(t *testing.T) {
	m := gas.New(1000, 0, gas.SpecLimit, 1)
	b := cell.NewBuilder()
	if _, err := b.Finalize(m); err != nil {
		t.Fatal(err)
	}
	if got, want := m.Used(), gas.CellCreatePrice; got != want {
		t.Fatalf("gas used = %d, want %d", got, want)
	}
}

func TestFinalizeOutOfGas(t *testing.T) {
	m := gas.New(gas.CellCreatePrice-1, 0, gas.SpecLimit, 1)
	b := cell.NewBuilder()
	if _, err := b.Finalize(m); err == nil {
		t.Fatal("expected out-of-gas error, got nil")
	}
}

func TestSliceRoundTrip(t *testing.T) {
	b := cell.NewBuilder()
	if err := b.StoreUint(0x2A, 8); err != nil {
		t.Fatal(err)
	}
	if err := b.StoreInt(-5, 8); err != nil {
		t.Fatal(err)
	}
	c, err := b.Finalize(nil)
	if err != nil {
		t.Fatal(err)
	}
	s := cell.NewSlice(c)
	u, err := s.LoadUint(8, false)
	if err != nil {
		t.Fatal(err)
	}
	if u != 0x2A {
		t.Fatalf("LoadUint() = %#x, want 0x2A", u)
	}
	si, err := s.LoadInt(8, false)
	if err != nil {
		t.Fatal(err)
	}
	if si != -5 {
		t.Fatalf("LoadInt() = %d, want -5", si)
	}
	if !s.IsEmpty() {
		t.Fatal("expected slice to be exhausted")
	}
}

func TestSlicePeekDoesNotAdvance(t *testing.T) {
	b := cell.NewBuilder()
	_ = b.StoreUint(7, 4)
	c, _ := b.Finalize(nil)
	s := cell.NewSlice(c)
	if _, err := s.LoadUint(4, true); err != nil {
		t.Fatal(err)
	}
	if s.RemainingBits() != 4 {
		t.Fatalf("RemainingBits() after peek = %d, want 4", s.RemainingBits())
	}
}

func TestBuilderOverflow(t *testing.T) {
	b := cell.NewBuilder()
	for i := 0; i < cell.MaxRefs; i++ {
		leaf, _ := cell.NewBuilder().Finalize(nil)
		if err := b.StoreRef(leaf); err != nil {
			t.Fatal(err)
		}
	}
	leaf, _ := cell.NewBuilder().Finalize(nil)
	if err := b.StoreRef(leaf); err == nil {
		t.Fatal("expected ref overflow error")
	}
}

func TestHashDependsOnContent(t *testing.T) {
	b1 := cell.NewBuilder()
	_ = b1.StoreUint(1, 8)
	c1, _ := b1.Finalize(nil)

	b2 := cell.NewBuilder()
	_ = b2.StoreUint(2, 8)
	c2, _ := b2.Finalize(nil)

	if c1.Hash() == c2.Hash() {
		t.Fatal("distinct contents produced identical hashes")
	}
}
