package main

import (
	"fmt"
	"io"

	"github.com/tvmkit/tvm/engine"
	"github.com/tvmkit/tvm/internal/tvmi"
)

// dumpStack prints the data stack bottom-to-top followed by the exit code
// and gas used, the same "values then a final count" shape as Ngaro's
// dumpVM/dumpSlice, adapted from its data/address/memory triplet to this
// engine's single data stack plus execution summary.
func dumpStack(e *engine.Engine, w io.Writer) error {
	ew := tvmi.NewErrWriter(w)
	n := e.Stack.Depth()
	for i := n - 1; i >= 0; i-- {
		v, err := e.Stack.At(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(ew, "%v\n", v)
	}
	fmt.Fprintf(ew, "depth=%d exit=%d steps=%d gas=%d\n", n, e.ExitCode(), e.InstructionCount(), e.Gas.Used())
	return ew.Err
}
