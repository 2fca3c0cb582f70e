package cell

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Bag-of-cells persistence: a flat, length-prefixed encoding of a cell DAG
// for storage or transport, in the same spirit as Ngaro's vm.Load/vm.Save
// turning an in-memory image into a flat file and back. The record shape
// here is this module's own (real TON BOC framing is a fuller
// specification than a reference engine needs), but the read/write loop
// keeps the same idiom: io.ReadFull against a bufio.Reader, EOF
// distinguished from a short read, and every I/O error wrapped with
// github.com/pkg/errors for context.
//
// Cells repeated by reference (the same child appearing under more than
// one parent) are written once and resolved by index on load, so a DAG
// survives a round trip with its sharing intact, not just a tree.
const bocMagic = uint32(0x42435654) // "TVCB" little-endian

// boc collects the distinct cells of a DAG in dependency order (every
// child before its parents) so Save can reference a child by the index it
// was already assigned.
type boc struct {
	order []Cell
	index map[Hash]uint32
}

func newBoc() *boc { return &boc{index: make(map[Hash]uint32)} }

func (b *boc) add(c Cell) (uint32, error) {
	h := c.Hash()
	if i, ok := b.index[h]; ok {
		return i, nil
	}
	n := c.RefsCount()
	if n > MaxRefs {
		return 0, errOutOfRange("cell refs")
	}
	for i := 0; i < n; i++ {
		r, err := c.Reference(i)
		if err != nil {
			return 0, err
		}
		if _, err := b.add(r); err != nil {
			return 0, err
		}
	}
	i := uint32(len(b.order))
	b.order = append(b.order, c)
	b.index[h] = i
	return i, nil
}

// Save writes root and every cell it reaches, depth-first, to w.
func Save(w io.Writer, root Cell) error {
	b := newBoc()
	if _, err := b.add(root); err != nil {
		return errors.Wrap(err, "boc: collect failed")
	}
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, bocMagic); err != nil {
		return errors.Wrap(err, "boc: write magic failed")
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(b.order))); err != nil {
		return errors.Wrap(err, "boc: write count failed")
	}
	for _, c := range b.order {
		if err := writeCellRecord(bw, c, b.index); err != nil {
			return errors.Wrap(err, "boc: write cell failed")
		}
	}
	return errors.Wrap(bw.Flush(), "boc: flush failed")
}

func writeCellRecord(w *bufio.Writer, c Cell, index map[Hash]uint32) error {
	if err := w.WriteByte(byte(c.Type())); err != nil {
		return err
	}
	bitLen := c.BitLength()
	if bitLen > MaxDataBits {
		return errOutOfRange("cell bits")
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(bitLen)); err != nil {
		return err
	}
	bits := c.Bits()
	want := (bitLen + 7) / 8
	if len(bits) != want {
		return errors.Errorf("boc: %d data bytes for %d bits, want %d", len(bits), bitLen, want)
	}
	if _, err := w.Write(bits); err != nil {
		return err
	}
	n := c.RefsCount()
	if err := w.WriteByte(byte(n)); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		r, err := c.Reference(i)
		if err != nil {
			return err
		}
		idx, ok := index[r.Hash()]
		if !ok {
			return errors.New("boc: reference to unindexed cell")
		}
		if err := binary.Write(w, binary.LittleEndian, idx); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a cell DAG written by Save and returns its root (the last
// record written).
func Load(r io.Reader) (Cell, error) {
	br := bufio.NewReader(r)
	var magic, count uint32
	if err := binary.Read(br, binary.LittleEndian, &magic); err != nil {
		return nil, errors.Wrap(err, "boc: read magic failed")
	}
	if magic != bocMagic {
		return nil, errors.Errorf("boc: bad magic %x", magic)
	}
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return nil, errors.Wrap(err, "boc: read count failed")
	}
	cells := make([]Cell, 0, count)
	for i := uint32(0); i < count; i++ {
		c, err := readCellRecord(br, cells)
		if err != nil {
			return nil, errors.Wrapf(err, "boc: cell %d", i)
		}
		cells = append(cells, c)
	}
	if len(cells) == 0 {
		return nil, errors.New("boc: empty bag")
	}
	return cells[len(cells)-1], nil
}

func readCellRecord(r *bufio.Reader, known []Cell) (Cell, error) {
	typByte, err := r.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "read type failed")
	}
	var bitLen uint16
	if err := binary.Read(r, binary.LittleEndian, &bitLen); err != nil {
		return nil, errors.Wrap(err, "read bit length failed")
	}
	nbytes := (int(bitLen) + 7) / 8
	bits := make([]byte, nbytes)
	if _, err := io.ReadFull(r, bits); err != nil {
		return nil, errors.Wrap(err, "read data failed")
	}
	refCount, err := r.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "read ref count failed")
	}
	if int(refCount) > MaxRefs {
		return nil, errOutOfRange("cell refs")
	}
	refs := make([]Cell, refCount)
	for i := range refs {
		var idx uint32
		if err := binary.Read(r, binary.LittleEndian, &idx); err != nil {
			return nil, errors.Wrap(err, "read ref index failed")
		}
		if int(idx) >= len(known) {
			return nil, errors.Errorf("ref index %d not yet defined", idx)
		}
		refs[i] = known[idx]
	}
	return newOrdinaryCell(Type(typByte), bits, int(bitLen), refs), nil
}
