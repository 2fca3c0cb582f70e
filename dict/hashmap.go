package dict

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/tvmkit/tvm/cell"
	"github.com/tvmkit/tvm/exception"
)

// HashmapE is the reference Dictionary implementation: entries held in a
// plain Go map keyed by the fixed-width big-endian byte encoding of the
// key, with ordered traversal done by sorting keys on demand. This
// trades the real HashmapE's incremental, label-compressed trie
// structure for a simpler one that is easy to verify correct — the
// tradeoff made explicit rather than hidden behind a misleading name.
type HashmapE struct {
	keyLen int
	byKey  map[string]entry
}

type entry struct {
	key   *big.Int
	value cell.Cell
}

// NewHashmapE returns an empty dictionary with the given fixed key width
// in bits (0..=1023, the same ceiling a single cell's data can hold,
// since DICTSET-family opcodes pass keys as that many bits of a Slice;
// with 0-bit keys the dictionary holds at most the one empty key).
func NewHashmapE(keyLen int) (*HashmapE, error) {
	if keyLen < 0 || keyLen > cell.MaxDataBits {
		return nil, exception.New(exception.RangeCheckError).WithSite("DICT keyLen")
	}
	return &HashmapE{keyLen: keyLen, byKey: make(map[string]entry)}, nil
}

func (h *HashmapE) KeyLen() int { return h.keyLen }

// String renders a short debug form, satisfying fmt.Stringer so a
// *HashmapE can sit directly on the stack's Value union.
func (h *HashmapE) String() string {
	return fmt.Sprintf("Dictionary[%d entries, %d-bit keys]", len(h.byKey), h.keyLen)
}

func (h *HashmapE) encode(key *big.Int) string {
	n := (h.keyLen + 7) / 8
	return string(key.FillBytes(make([]byte, n)))
}

func (h *HashmapE) Get(key *big.Int) (cell.Cell, bool, error) {
	e, ok := h.byKey[h.encode(key)]
	if !ok {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (h *HashmapE) Set(key *big.Int, value cell.Cell) (bool, error) {
	k := h.encode(key)
	_, existed := h.byKey[k]
	h.byKey[k] = entry{key: new(big.Int).Set(key), value: value}
	return existed, nil
}

func (h *HashmapE) Add(key *big.Int, value cell.Cell) (bool, error) {
	k := h.encode(key)
	if _, existed := h.byKey[k]; existed {
		return false, nil
	}
	h.byKey[k] = entry{key: new(big.Int).Set(key), value: value}
	return true, nil
}

func (h *HashmapE) Replace(key *big.Int, value cell.Cell) (bool, error) {
	k := h.encode(key)
	if _, existed := h.byKey[k]; !existed {
		return false, nil
	}
	h.byKey[k] = entry{key: new(big.Int).Set(key), value: value}
	return true, nil
}

func (h *HashmapE) Delete(key *big.Int) (bool, error) {
	k := h.encode(key)
	if _, existed := h.byKey[k]; !existed {
		return false, nil
	}
	delete(h.byKey, k)
	return true, nil
}

func (h *HashmapE) Len() int { return len(h.byKey) }

// sortedKeys returns the dictionary's keys in ascending numeric order,
// recomputed on every call: the reference implementation prioritizes a
// small, obviously-correct surface over an incrementally maintained
// ordered index.
func (h *HashmapE) sortedKeys() []*big.Int {
	keys := make([]*big.Int, 0, len(h.byKey))
	for _, e := range h.byKey {
		keys = append(keys, e.key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Cmp(keys[j]) < 0 })
	return keys
}

func (h *HashmapE) at(key *big.Int) (cell.Cell, bool) {
	e, ok := h.byKey[h.encode(key)]
	if !ok {
		return nil, false
	}
	return e.value, true
}

func (h *HashmapE) Min() (*big.Int, cell.Cell, bool, error) {
	keys := h.sortedKeys()
	if len(keys) == 0 {
		return nil, nil, false, nil
	}
	v, _ := h.at(keys[0])
	return keys[0], v, true, nil
}

func (h *HashmapE) Max() (*big.Int, cell.Cell, bool, error) {
	keys := h.sortedKeys()
	if len(keys) == 0 {
		return nil, nil, false, nil
	}
	last := keys[len(keys)-1]
	v, _ := h.at(last)
	return last, v, true, nil
}

func (h *HashmapE) RemoveMin() (*big.Int, cell.Cell, bool, error) {
	k, v, ok, err := h.Min()
	if err != nil || !ok {
		return k, v, ok, err
	}
	delete(h.byKey, h.encode(k))
	return k, v, true, nil
}

func (h *HashmapE) RemoveMax() (*big.Int, cell.Cell, bool, error) {
	k, v, ok, err := h.Max()
	if err != nil || !ok {
		return k, v, ok, err
	}
	delete(h.byKey, h.encode(k))
	return k, v, true, nil
}

func (h *HashmapE) Next(key *big.Int) (*big.Int, cell.Cell, bool, error) {
	for _, k := range h.sortedKeys() {
		if k.Cmp(key) > 0 {
			v, _ := h.at(k)
			return k, v, true, nil
		}
	}
	return nil, nil, false, nil
}

func (h *HashmapE) Prev(key *big.Int) (*big.Int, cell.Cell, bool, error) {
	keys := h.sortedKeys()
	for i := len(keys) - 1; i >= 0; i-- {
		if keys[i].Cmp(key) < 0 {
			v, _ := h.at(keys[i])
			return keys[i], v, true, nil
		}
	}
	return nil, nil, false, nil
}

func (h *HashmapE) NextOrEq(key *big.Int) (*big.Int, cell.Cell, bool, error) {
	for _, k := range h.sortedKeys() {
		if k.Cmp(key) >= 0 {
			v, _ := h.at(k)
			return k, v, true, nil
		}
	}
	return nil, nil, false, nil
}

func (h *HashmapE) PrevOrEq(key *big.Int) (*big.Int, cell.Cell, bool, error) {
	keys := h.sortedKeys()
	for i := len(keys) - 1; i >= 0; i-- {
		if keys[i].Cmp(key) <= 0 {
			v, _ := h.at(keys[i])
			return keys[i], v, true, nil
		}
	}
	return nil, nil, false, nil
}

// Root materializes the dictionary into a single Cell: a minimal binary
// trie keyed bit-by-bit from the MSB, fork nodes holding {ref0, ref1} for
// the next bit and leaves holding the value cell as ref0; a branch with
// no keys under it is an empty cell. This is not
// the real HashmapE wire encoding (no edge-label compression), matching
// the Non-goals scope: it exists so DICTSET-family opcodes have a real
// Cell to hand back to the contract, not so that cell is
// wire-compatible with another implementation.
func (h *HashmapE) Root() (cell.Cell, bool, error) {
	if len(h.byKey) == 0 {
		return nil, false, nil
	}
	type node struct {
		leaf     cell.Cell
		children [2]*node
	}
	root := &node{}
	for _, e := range h.byKey {
		cur := root
		for i := 0; i < h.keyLen; i++ {
			bit := e.key.Bit(h.keyLen - 1 - i)
			if cur.children[bit] == nil {
				cur.children[bit] = &node{}
			}
			cur = cur.children[bit]
		}
		cur.leaf = e.value
	}
	var build func(n *node) (cell.Cell, error)
	build = func(n *node) (cell.Cell, error) {
		b := cell.NewBuilder()
		if n.leaf != nil {
			if err := b.StoreBit(true); err != nil {
				return nil, err
			}
			if err := b.StoreRef(n.leaf); err != nil {
				return nil, err
			}
			return b.Finalize(nil)
		}
		if err := b.StoreBit(false); err != nil {
			return nil, err
		}
		for _, child := range n.children {
			var c cell.Cell
			var err error
			if child == nil {
				c, err = cell.NewBuilder().Finalize(nil)
			} else {
				c, err = build(child)
			}
			if err != nil {
				return nil, err
			}
			if err := b.StoreRef(c); err != nil {
				return nil, err
			}
		}
		return b.Finalize(nil)
	}
	root0, err := build(root)
	if err != nil {
		return nil, false, err
	}
	return root0, true, nil
}
