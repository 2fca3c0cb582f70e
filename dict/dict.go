// Package dict implements the dictionary (HashmapE) abstraction consumed
// by the engine's dictionary opcode family (spec.md §6): fixed-key-width
// maps from bit-strings to cell payloads, with ordered traversal.
//
// spec.md treats the dictionary algorithm itself as an external
// collaborator — engine/dictionary.go only needs something satisfying
// Dictionary — so, exactly as with package cell, this package ships one
// concrete, minimal, correctness-oriented implementation (HashmapE) built
// on cell.Builder/cell.Cell rather than a production-grade label-compressed
// Patricia trie (that full algorithm is explicitly out of scope).
package dict

import (
	"fmt"
	"math/big"

	"github.com/tvmkit/tvm/cell"
)

// Dictionary is the abstract contract engine/dictionary.go dispatches
// against for DICTGET/DICTSET/DICTDEL and the ordered-traversal family
// (spec.md §6).
type Dictionary interface {
	// String renders a short debug form, the same contract every other
	// stack.Value (cell.Slice, cell.Builder, control.Continuation)
	// satisfies — needed so a Dictionary can sit directly on the data
	// stack as the engine's dictionary opcodes require (engine/dictionary.go).
	fmt.Stringer
	// KeyLen reports the fixed bit width every key occupies.
	KeyLen() int
	// Get returns the value stored at key, or ok=false if absent.
	Get(key *big.Int) (value cell.Cell, ok bool, err error)
	// Set stores value at key unconditionally, returning whether a prior
	// value was replaced.
	Set(key *big.Int, value cell.Cell) (replaced bool, err error)
	// Add stores value at key only if absent, returning false if key was
	// already present (DICTADD's fail-silently-on-collision behavior).
	Add(key *big.Int, value cell.Cell) (added bool, err error)
	// Replace stores value at key only if already present (DICTREPLACE).
	Replace(key *big.Int, value cell.Cell) (replaced bool, err error)
	// Delete removes key, reporting whether it was present.
	Delete(key *big.Int) (deleted bool, err error)
	// Min/Max return the lowest/highest key present.
	Min() (key *big.Int, value cell.Cell, ok bool, err error)
	Max() (key *big.Int, value cell.Cell, ok bool, err error)
	// RemoveMin/RemoveMax atomically pop the lowest/highest entry.
	RemoveMin() (key *big.Int, value cell.Cell, ok bool, err error)
	RemoveMax() (key *big.Int, value cell.Cell, ok bool, err error)
	// Next/Prev return the entry strictly after/before key.
	Next(key *big.Int) (nextKey *big.Int, value cell.Cell, ok bool, err error)
	Prev(key *big.Int) (prevKey *big.Int, value cell.Cell, ok bool, err error)
	// NextOrEq/PrevOrEq are the inclusive variants (DICTIGETNEXT family).
	NextOrEq(key *big.Int) (nextKey *big.Int, value cell.Cell, ok bool, err error)
	PrevOrEq(key *big.Int) (prevKey *big.Int, value cell.Cell, ok bool, err error)
	// Len reports the number of entries.
	Len() int
	// Root materializes the dictionary as a single Cell (the form
	// DICTGET et al. expect to read from / DICTSET writes back into
	// control register c4-style "root of persistent data" storage, and
	// the form a fresh empty dictionary is represented as — a nil Cell,
	// ok=false). Rebuilt on demand from the current entries rather than
	// kept incrementally in sync, since only correctness is in scope
	// here, not incremental-rebuild performance.
	Root() (root cell.Cell, ok bool, err error)
}
