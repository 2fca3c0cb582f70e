package cell_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/tvmkit/tvm/cell"
)

func buildSample(t *testing.T) cell.Cell {
	t.Helper()
	leaf := cell.NewBuilder()
	if err := leaf.StoreUint(0xABCD, 16); err != nil {
		t.Fatalf("StoreUint: %v", err)
	}
	leafCell, err := leaf.Finalize(nil)
	if err != nil {
		t.Fatalf("Finalize leaf: %v", err)
	}
	root := cell.NewBuilder()
	if err := root.StoreUint(1, 1); err != nil {
		t.Fatalf("StoreUint: %v", err)
	}
	if err := root.StoreRef(leafCell); err != nil {
		t.Fatalf("StoreRef: %v", err)
	}
	if err := root.StoreRef(leafCell); err != nil {
		t.Fatalf("StoreRef: %v", err)
	}
	rootCell, err := root.Finalize(nil)
	if err != nil {
		t.Fatalf("Finalize root: %v", err)
	}
	return rootCell
}

func TestSaveLoadRoundTrip(t *testing.T) {
	root := buildSample(t)
	var buf bytes.Buffer
	if err := cell.Save(&buf, root); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := cell.Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Hash() != root.Hash() {
		t.Fatalf("Hash = %x, want %x", got.Hash(), root.Hash())
	}
	if got.RefsCount() != 2 {
		t.Fatalf("RefsCount = %d, want 2", got.RefsCount())
	}
}

func TestSaveDedupesSharedReference(t *testing.T) {
	root := buildSample(t)
	var buf bytes.Buffer
	if err := cell.Save(&buf, root); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// one record for the shared leaf, one for the root: 2 cells total even
	// though root references the leaf twice. The count follows the 4-byte
	// magic as a little-endian uint32.
	if n := binary.LittleEndian.Uint32(buf.Bytes()[4:8]); n != 2 {
		t.Fatalf("record count = %d, want 2", n)
	}
	got, err := cell.Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r0, err := got.Reference(0)
	if err != nil {
		t.Fatalf("Reference(0): %v", err)
	}
	r1, err := got.Reference(1)
	if err != nil {
		t.Fatalf("Reference(1): %v", err)
	}
	if r0.Hash() != r1.Hash() {
		t.Errorf("shared leaf decoded to distinct hashes")
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("not a bag of cells")
	if _, err := cell.Load(buf); err == nil {
		t.Fatal("Load: want error on bad magic, got nil")
	}
}
