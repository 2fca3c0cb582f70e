package engine

import (
	"math/big"

	"github.com/tvmkit/tvm/cell"
	"github.com/tvmkit/tvm/dict"
	"github.com/tvmkit/tvm/exception"
	"github.com/tvmkit/tvm/stack"
)

// Dictionary opcodes, dispatched over the abstract dict.Dictionary
// contract (spec.md §6's HashmapE operation matrix), grounded on
// original_source/src/executor/dictionary.rs for the operation set.
//
// Deliberate simplification: real TVM DICTGET-family opcodes operate on
// a dictionary serialized as a cell (the "Maybe ^Cell" sitting in a
// Slice), rebuilding traversal state from the wire encoding on every
// call. Since dict.Dictionary is already specified as an external
// collaborator accessed through an abstract interface rather than a
// wire format this module reimplements, the
// engine instead passes live *dict.HashmapE objects directly as stack
// values — Null stands in for "no dictionary yet", and DICTSET-family
// opcodes create one on first use. This keeps the opcode behavior
// (lookup/insert/ordered-traversal semantics, found/not-found flags)
// faithful without requiring a second, redundant cell-tree codec.
func init() {
	bind(0xFA, opDictPrefix)
}

func opDictPrefix(e *Engine, _ byte) error {
	sub, err := readImm8(e)
	if err != nil {
		return err
	}
	switch byte(sub) {
	case 0x00:
		return opDictGet(e)
	case 0x01:
		return opDictSet(e)
	case 0x02:
		return opDictDel(e)
	case 0x03:
		return opDictMin(e)
	case 0x04:
		return opDictMax(e)
	case 0x05:
		return opDictNext(e)
	default:
		return exception.New(exception.InvalidOpcode).WithSite("DICT")
	}
}

func popDictOrNil(e *Engine, site string) (dict.Dictionary, error) {
	v, err := e.Stack.Pop()
	if err != nil {
		return nil, err
	}
	if stack.IsNull(v) {
		return nil, nil
	}
	d, ok := v.(dict.Dictionary)
	if !ok {
		return nil, exception.New(exception.TypeCheckError).WithSite(site)
	}
	return d, nil
}

func pushDict(e *Engine, d dict.Dictionary) {
	if d == nil {
		e.Stack.Push(stack.Null)
		return
	}
	e.Stack.Push(d)
}

func pushKeySlice(e *Engine, key *big.Int, keyLen int) error {
	b := cell.NewBuilder()
	if err := b.StoreBigInt(key, keyLen); err != nil {
		return err
	}
	c, err := b.Finalize(nil)
	if err != nil {
		return err
	}
	e.Stack.Push(cell.NewSlice(c))
	return nil
}

// opDictGet implements (key D n – x -1 | 0): key is a slice cut to the
// dictionary's n-bit key width, D the dictionary (or Null), n the key
// width.
func opDictGet(e *Engine) error {
	n, err := popInt(e, "DICTGET")
	if err != nil {
		return err
	}
	d, err := popDictOrNil(e, "DICTGET")
	if err != nil {
		return err
	}
	keySlice, err := popSlice(e, "DICTGET")
	if err != nil {
		return err
	}
	if d == nil {
		e.Stack.PushInt(0)
		return nil
	}
	key, err := keySlice.LoadBigUint(int(n.Int64()), false)
	if err != nil {
		return err
	}
	v, ok, err := d.Get(key)
	if err != nil {
		return err
	}
	if !ok {
		e.Stack.PushInt(0)
		return nil
	}
	e.Stack.Push(cell.NewSlice(v))
	e.Stack.PushInt(-1)
	return nil
}

// opDictSet implements (value key D n – D'): stores value (a Cell) at
// key, creating a fresh dictionary of width n if D was Null.
func opDictSet(e *Engine) error {
	n, err := popInt(e, "DICTSET")
	if err != nil {
		return err
	}
	d, err := popDictOrNil(e, "DICTSET")
	if err != nil {
		return err
	}
	keySlice, err := popSlice(e, "DICTSET")
	if err != nil {
		return err
	}
	value, err := popCell(e, "DICTSET")
	if err != nil {
		return err
	}
	keyLen := int(n.Int64())
	if d == nil {
		d, err = dict.NewHashmapE(keyLen)
		if err != nil {
			return err
		}
	}
	key, err := keySlice.LoadBigUint(keyLen, false)
	if err != nil {
		return err
	}
	if _, err := d.Set(key, value); err != nil {
		return err
	}
	pushDict(e, d)
	return nil
}

// opDictDel implements (key D n – D' found?).
func opDictDel(e *Engine) error {
	n, err := popInt(e, "DICTDEL")
	if err != nil {
		return err
	}
	d, err := popDictOrNil(e, "DICTDEL")
	if err != nil {
		return err
	}
	keySlice, err := popSlice(e, "DICTDEL")
	if err != nil {
		return err
	}
	if d == nil {
		pushDict(e, nil)
		e.Stack.PushInt(0)
		return nil
	}
	key, err := keySlice.LoadBigUint(int(n.Int64()), false)
	if err != nil {
		return err
	}
	deleted, err := d.Delete(key)
	if err != nil {
		return err
	}
	pushDict(e, d)
	if deleted {
		e.Stack.PushInt(-1)
	} else {
		e.Stack.PushInt(0)
	}
	return nil
}

// opDictMin implements (D n – key value -1 | 0).
func opDictMin(e *Engine) error {
	n, err := popInt(e, "DICTMIN")
	if err != nil {
		return err
	}
	d, err := popDictOrNil(e, "DICTMIN")
	if err != nil {
		return err
	}
	if d == nil {
		e.Stack.PushInt(0)
		return nil
	}
	key, value, ok, err := d.Min()
	if err != nil {
		return err
	}
	if !ok {
		e.Stack.PushInt(0)
		return nil
	}
	if err := pushKeySlice(e, key, int(n.Int64())); err != nil {
		return err
	}
	e.Stack.Push(cell.NewSlice(value))
	e.Stack.PushInt(-1)
	return nil
}

// opDictMax implements (D n – key value -1 | 0).
func opDictMax(e *Engine) error {
	n, err := popInt(e, "DICTMAX")
	if err != nil {
		return err
	}
	d, err := popDictOrNil(e, "DICTMAX")
	if err != nil {
		return err
	}
	if d == nil {
		e.Stack.PushInt(0)
		return nil
	}
	key, value, ok, err := d.Max()
	if err != nil {
		return err
	}
	if !ok {
		e.Stack.PushInt(0)
		return nil
	}
	if err := pushKeySlice(e, key, int(n.Int64())); err != nil {
		return err
	}
	e.Stack.Push(cell.NewSlice(value))
	e.Stack.PushInt(-1)
	return nil
}

// opDictNext implements (key D n – nextKey value -1 | 0).
func opDictNext(e *Engine) error {
	n, err := popInt(e, "DICTNEXT")
	if err != nil {
		return err
	}
	d, err := popDictOrNil(e, "DICTNEXT")
	if err != nil {
		return err
	}
	keySlice, err := popSlice(e, "DICTNEXT")
	if err != nil {
		return err
	}
	if d == nil {
		e.Stack.PushInt(0)
		return nil
	}
	key, err := keySlice.LoadBigUint(int(n.Int64()), false)
	if err != nil {
		return err
	}
	nextKey, value, ok, err := d.Next(key)
	if err != nil {
		return err
	}
	if !ok {
		e.Stack.PushInt(0)
		return nil
	}
	if err := pushKeySlice(e, nextKey, int(n.Int64())); err != nil {
		return err
	}
	e.Stack.Push(cell.NewSlice(value))
	e.Stack.PushInt(-1)
	return nil
}
