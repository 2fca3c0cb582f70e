package cell

import "github.com/pkg/errors"

// errOutOfRange reports an access past a cell's data or reference bounds.
// Plain github.com/pkg/errors, matching the teacher's error style
// (vm/mem.go): these are programmer/decoder faults, not VM exceptions,
// since the engine package is the layer that turns them into typed
// *exception.Exception values with the right code attached.
func errOutOfRange(what string) error {
	return errors.Errorf("cell: %s out of range", what)
}
