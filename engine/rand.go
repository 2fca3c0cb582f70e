package engine

import (
	"math/big"

	"github.com/tvmkit/tvm/stack"
)

// RAND pushes a non-negative pseudo-random integer built from two 63-bit
// draws of the engine's own generator (see WithRandomSeed), so it is
// always below 2^126 and does not cover the full 256-bit range; grounded on
// original_source/src/executor/rand.rs's random number register —
// simplified here to a plain seeded math/rand stream rather than the
// original's block-derived seed and congruential mixing step, since
// reproducing the chain's exact seed derivation is out of scope here.

func opNow(e *Engine) error {
	e.Stack.PushInt(e.now())
	return nil
}

func opRand(e *Engine) error {
	hi := e.rng.Int63()
	lo := e.rng.Int63()
	v := new(big.Int).Lsh(big.NewInt(hi), 63)
	v.Add(v, big.NewInt(lo))
	n, err := stack.CheckedFromBigInt(v)
	if err != nil {
		return err
	}
	e.Stack.Push(n)
	return nil
}
