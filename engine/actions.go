package engine

import (
	"github.com/tvmkit/tvm/cell"
	"github.com/tvmkit/tvm/control"
)

// Output action list: c5 accumulates a cons-list of action cells, each
// tagged with a 32-bit identifier matching the blockchain's own action
// wire format (spec.md §6), grounded on
// original_source/src/executor/blockchain.rs. Bit-for-bit compatibility
// with the chain's real action cell layout beyond the tag and the
// fields each action needs is out of scope;
// what matters here is that SENDRAWMSG/SETCODE/RESERVE/CHANGELIB each
// append a distinguishable, decodable action rather than overwriting
// c5 outright.
const (
	tagSendMsg   uint32 = 0x0ec3c86d
	tagSetCode   uint32 = 0xad4de08e
	tagReserve   uint32 = 0x36e6b809
	tagChangeLib uint32 = 0x26fa1dd4
)

// appendAction conses a new action cell onto whatever c5 already holds:
// a presence bit, an optional reference to the previous list head, the
// action's tag, then whatever fields body writes.
func (e *Engine) appendAction(tag uint32, body func(b *cell.Builder) error) error {
	b := cell.NewBuilder()
	prevV, _ := e.Registers.Get(control.RegC5)
	if prev, ok := prevV.(cell.Cell); ok {
		if err := b.StoreBit(true); err != nil {
			return err
		}
		if err := b.StoreRef(prev); err != nil {
			return err
		}
	} else if err := b.StoreBit(false); err != nil {
		return err
	}
	if err := b.StoreUint(uint64(tag), 32); err != nil {
		return err
	}
	if err := body(b); err != nil {
		return err
	}
	c, err := b.Finalize(e.Gas)
	if err != nil {
		return err
	}
	return e.Registers.Set(control.RegC5, c)
}

func opSendRawMsg(e *Engine) error {
	mode, err := popInt(e, "SENDRAWMSG")
	if err != nil {
		return err
	}
	msg, err := popCell(e, "SENDRAWMSG")
	if err != nil {
		return err
	}
	return e.appendAction(tagSendMsg, func(b *cell.Builder) error {
		if err := b.StoreUint(uint64(mode.Int64()), 8); err != nil {
			return err
		}
		return b.StoreRef(msg)
	})
}

func opSetCode(e *Engine) error {
	code, err := popCell(e, "SETCODE")
	if err != nil {
		return err
	}
	return e.appendAction(tagSetCode, func(b *cell.Builder) error {
		return b.StoreRef(code)
	})
}

func opReserve(e *Engine) error {
	mode, err := popInt(e, "RESERVE")
	if err != nil {
		return err
	}
	amount, err := popInt(e, "RESERVE")
	if err != nil {
		return err
	}
	return e.appendAction(tagReserve, func(b *cell.Builder) error {
		if err := b.StoreUint(uint64(mode.Int64()), 8); err != nil {
			return err
		}
		return b.StoreBigInt(amount, 64)
	})
}

func opChangeLib(e *Engine) error {
	mode, err := popInt(e, "CHANGELIB")
	if err != nil {
		return err
	}
	lib, err := popCell(e, "CHANGELIB")
	if err != nil {
		return err
	}
	return e.appendAction(tagChangeLib, func(b *cell.Builder) error {
		if err := b.StoreUint(uint64(mode.Int64()), 8); err != nil {
			return err
		}
		return b.StoreRef(lib)
	})
}
