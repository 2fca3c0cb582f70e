// Package gas implements the pre-charge gas meter described in spec.md
// §4.8: a per-instruction and per-resource fee schedule with a credit/limit
// split and an explicit OutOfGas fault on deficit.
//
// The fee constants are grounded on
// original_source/src/executor/gas/gas_state.rs. A Meter is built by the
// single New constructor, which takes limit, credit, ceiling and price as
// positional arguments; there are no functional options.
package gas

import "github.com/tvmkit/tvm/exception"

// Fee schedule (spec.md §4.8, original_source/src/executor/gas/gas_state.rs).
const (
	CellLoadPrice     int64 = 100
	CellReloadPrice   int64 = 25
	CellCreatePrice   int64 = 500
	ExceptionPrice    int64 = 50
	TupleEntryPrice   int64 = 1
	ImplicitJmpPrice  int64 = 10
	ImplicitRetPrice  int64 = 5
	StackEntryPrice   int64 = 1
	FreeStackDepth          = 32
	instructionBase   int64 = 10
	DecompressBytePrice int64 = 1
)

// SpecLimit is the maximum value ACCEPT/BUYGAS may raise gas_limit to,
// pow(2,63)-1, per original_source/src/executor/gas/gas_state.rs.
const SpecLimit int64 = 9223372036854775807

// Meter tracks the gas accounting state of one execution: a limit, a
// credit allotted before the contract calls ACCEPT, the price of one gas
// unit in nanotokens, and the running remaining balance (which may go negative
// between charges, as a charge that overdraws is the OutOfGas trigger,
// not a silently clamped value).
type Meter struct {
	limitMax  int64
	limit     int64
	credit    int64
	remaining int64
	price     int64
	base      int64
}

// New creates a Meter with the given initial limit, credit, ceiling and
// per-unit price (spec.md §4.8).
func New(limit, credit, limitMax, price int64) *Meter {
	remaining := limit + credit
	return &Meter{
		limitMax:  limitMax,
		limit:     limit,
		credit:    credit,
		remaining: remaining,
		price:     price,
		base:      remaining,
	}
}

// InstructionPrice returns the baseline fee for an instruction of the
// given encoded length in bytes: 10 + instruction_length_bytes.
func InstructionPrice(instructionLen int) int64 {
	return instructionBase + int64(instructionLen)
}

// StackPrice returns the surcharge for stack depths above the free
// threshold of 32 elements.
func StackPrice(depth int) int64 {
	if depth <= FreeStackDepth {
		return 0
	}
	return StackEntryPrice * int64(depth-FreeStackDepth)
}

// TuplePrice returns the charge proportional to a tuple's length, applied
// by tuple-manipulating opcodes (spec.md §4.7).
func TuplePrice(length int) int64 {
	return TupleEntryPrice * int64(length)
}

// LoadCellPrice returns the charge for materializing a cell into a slice:
// the full price on first load, the cheaper reload price thereafter.
func LoadCellPrice(first bool) int64 {
	if first {
		return CellLoadPrice
	}
	return CellReloadPrice
}

// Use unconditionally deducts gas, allowing the balance to go negative;
// callers that must fail hard should use TryUse instead. This matches the
// original's use_gas, used internally by charge paths that check the
// balance at the next checkpoint rather than per call.
func (m *Meter) Use(amount int64) int64 {
	m.remaining -= amount
	return m.remaining
}

// TryUse deducts amount and raises OutOfGas if doing so would drive the
// balance negative.
func (m *Meter) TryUse(amount int64) error {
	if m.remaining < amount {
		return exception.New(exception.OutOfGas)
	}
	m.remaining -= amount
	return nil
}

// SetLimit installs a new gas_limit, clamped to [0, limitMax], and adjusts
// gas_remaining by the delta against the previous base (ACCEPT/SETGASLIMIT
// semantics, spec.md §4.8).
func (m *Meter) SetLimit(limit int64) {
	if limit < 0 {
		limit = 0
	}
	if limit > m.limitMax {
		limit = m.limitMax
	}
	m.limit = limit
	m.credit = 0
	m.remaining += m.limit - m.base
	m.base = m.limit
}

// BuyGas converts nanotokens to gas at the current price and raises the
// limit accordingly (BUYGAS).
func (m *Meter) BuyGas(nanotokens int64) {
	m.SetLimit(m.NanoToGas(nanotokens))
}

// GasToNano converts a gas amount to nanotokens at the current price
// (GASTOGRAM).
func (m *Meter) GasToNano(amount int64) int64 {
	return amount * m.price
}

// NanoToGas converts nanotokens to gas at the current price (rounding
// down), returning 0 for a negative input or a non-positive price
// (GRAMTOGAS).
func (m *Meter) NanoToGas(nanotokens int64) int64 {
	if nanotokens < 0 || m.price <= 0 {
		return 0
	}
	return nanotokens / m.price
}

// Price returns the configured gas price (nanotokens per unit).
func (m *Meter) Price() int64 { return m.price }

// Limit returns the current gas_limit.
func (m *Meter) Limit() int64 { return m.limit }

// LimitMax returns the configured gas_limit_max ceiling.
func (m *Meter) LimitMax() int64 { return m.limitMax }

// Credit returns the current gas_credit.
func (m *Meter) Credit() int64 { return m.credit }

// Remaining returns gas_remaining, which may be negative between a charge
// and the next checkpoint.
func (m *Meter) Remaining() int64 { return m.remaining }

// Used returns gas consumed so far (gas_base - gas_remaining).
func (m *Meter) Used() int64 { return m.base - m.remaining }
