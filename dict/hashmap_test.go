package dict_test

import (
	"math/big"
	"testing"

	"github.com/tvmkit/tvm/cell"
	"github.com/tvmkit/tvm/dict"
)

func leafCell(t *testing.T, v uint64) cell.Cell {
	t.Helper()
	b := cell.NewBuilder()
	if err := b.StoreUint(v, 32); err != nil {
		t.Fatal(err)
	}
	c, err := b.Finalize(nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestSetGetDelete(t *testing.T) {
	h, err := dict.NewHashmapE(8)
	if err != nil {
		t.Fatal(err)
	}
	key := big.NewInt(5)
	if _, err := h.Set(key, leafCell(t, 100)); err != nil {
		t.Fatal(err)
	}
	v, ok, err := h.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get() ok=%v err=%v", ok, err)
	}
	if v.BitLength() != 32 {
		t.Fatalf("stored value BitLength = %d, want 32", v.BitLength())
	}
	deleted, err := h.Delete(key)
	if err != nil || !deleted {
		t.Fatalf("Delete() = %v, %v", deleted, err)
	}
	if _, ok, _ := h.Get(key); ok {
		t.Fatal("expected key gone after delete")
	}
}

func TestAddReplaceSemantics(t *testing.T) {
	h, _ := dict.NewHashmapE(8)
	key := big.NewInt(1)
	added, err := h.Add(key, leafCell(t, 1))
	if err != nil || !added {
		t.Fatalf("Add() = %v, %v", added, err)
	}
	added, err = h.Add(key, leafCell(t, 2))
	if err != nil || added {
		t.Fatalf("Add() on existing key should fail, got %v, %v", added, err)
	}
	replaced, err := h.Replace(big.NewInt(99), leafCell(t, 3))
	if err != nil || replaced {
		t.Fatalf("Replace() on missing key should fail, got %v, %v", replaced, err)
	}
}

func TestOrderedTraversal(t *testing.T) {
	h, _ := dict.NewHashmapE(8)
	for _, k := range []int64{10, 5, 20, 1} {
		if _, err := h.Set(big.NewInt(k), leafCell(t, uint64(k))); err != nil {
			t.Fatal(err)
		}
	}
	minK, _, ok, _ := h.Min()
	if !ok || minK.Int64() != 1 {
		t.Fatalf("Min() = %v, want 1", minK)
	}
	maxK, _, ok, _ := h.Max()
	if !ok || maxK.Int64() != 20 {
		t.Fatalf("Max() = %v, want 20", maxK)
	}
	nextK, _, ok, _ := h.Next(big.NewInt(5))
	if !ok || nextK.Int64() != 10 {
		t.Fatalf("Next(5) = %v, want 10", nextK)
	}
	prevK, _, ok, _ := h.Prev(big.NewInt(10))
	if !ok || prevK.Int64() != 5 {
		t.Fatalf("Prev(10) = %v, want 5", prevK)
	}
}

func TestRootMaterializesWhenNonEmpty(t *testing.T) {
	h, _ := dict.NewHashmapE(4)
	if _, ok, err := h.Root(); err != nil || ok {
		t.Fatalf("expected empty dict to have no root, ok=%v err=%v", ok, err)
	}
	if _, err := h.Set(big.NewInt(3), leafCell(t, 7)); err != nil {
		t.Fatal(err)
	}
	root, ok, err := h.Root()
	if err != nil || !ok {
		t.Fatalf("Root() ok=%v err=%v", ok, err)
	}
	if root.RefsCount() == 0 {
		t.Fatal("expected non-empty dict root to have references")
	}
}
