package engine

import "github.com/tvmkit/tvm/exception"

// Gas-control opcodes, grounded verbatim on
// original_source/src/executor/gas/mod.rs: ACCEPT raises the working
// gas limit to its configured ceiling (the signal a contract sends once
// it has validated an incoming message enough to be willing to pay for
// the rest of its own execution), SETGASLIMIT/BUYGAS adjust it
// explicitly, and GRAMTOGAS/GASTOGRAM convert between gas units and
// nanotokens at the meter's fixed price.
func init() {
	bind(0xF8, opBlockchainPrefix)
}

func opBlockchainPrefix(e *Engine, _ byte) error {
	sub, err := readImm8(e)
	if err != nil {
		return err
	}
	switch byte(sub) {
	case 0x00:
		return opAccept(e)
	case 0x01:
		return opSetGasLimit(e)
	case 0x02:
		return opBuyGas(e)
	case 0x03:
		return opNow(e)
	case 0x04:
		return opGramToGas(e)
	case 0x05:
		return opGasToGram(e)
	case 0x06:
		return opRand(e)
	case 0x07:
		return opSendRawMsg(e)
	case 0x08:
		return opBalance(e)
	case 0x09:
		return opSetCode(e)
	case 0x0A:
		return opReserve(e)
	case 0x0B:
		return opChangeLib(e)
	case 0x0C:
		return opConfigDict(e)
	case 0x0F:
		return opCommit(e)
	default:
		return exception.New(exception.InvalidOpcode).WithSite("blockchain prefix")
	}
}

func opAccept(e *Engine) error {
	e.Gas.SetLimit(e.Gas.LimitMax())
	return nil
}

func opSetGasLimit(e *Engine) error {
	n, err := popInt(e, "SETGASLIMIT")
	if err != nil {
		return err
	}
	e.Gas.SetLimit(n.Int64())
	return nil
}

func opBuyGas(e *Engine) error {
	n, err := popInt(e, "BUYGAS")
	if err != nil {
		return err
	}
	e.Gas.BuyGas(n.Int64())
	return nil
}

func opGramToGas(e *Engine) error {
	n, err := popInt(e, "GRAMTOGAS")
	if err != nil {
		return err
	}
	e.Stack.PushInt(e.Gas.NanoToGas(n.Int64()))
	return nil
}

func opGasToGram(e *Engine) error {
	n, err := popInt(e, "GASTOGRAM")
	if err != nil {
		return err
	}
	e.Stack.PushInt(e.Gas.GasToNano(n.Int64()))
	return nil
}

func opCommit(e *Engine) error {
	e.committed = true
	return nil
}
