// Package serial implements Integer <-> Slice/Builder wire encodings
// (spec.md §4.2): fixed-width signed/unsigned big- and little-endian
// encodings, range checking against the N-bit domain, and the LEB-style
// variable-width "PUSHINT big" format the assembler uses for integer
// literals outside the 16-bit immediate range.
//
// This is a leaf package: it has no notion of a running engine or gas,
// only pure encode/decode functions over math/big.Int and raw bit
// buffers, in the same spirit as the teacher's io_helpers.go being a
// small set of pure helpers shared by both the VM and the assembler.
package serial

import (
	"math/big"

	"github.com/tvmkit/tvm/exception"
)

// MaxSignedWidth and MaxUnsignedWidth are the widest domains the fixed
// width encodings support (spec.md §4.2).
const (
	MaxSignedWidth   = 257
	MaxUnsignedWidth = 256
)

// rangeError builds the RangeCheckError raised when a value does not fit
// the requested bit width, per spec.md §4.2 (STI/STU/STIX/STUX family).
func rangeError(site string) error {
	return exception.New(exception.RangeCheckError).WithSite(site)
}

// signedBounds returns the inclusive [min, max] domain of an n-bit two's
// complement integer.
func signedBounds(n int) (min, max *big.Int) {
	max = new(big.Int).Lsh(big.NewInt(1), uint(n-1))
	min = new(big.Int).Neg(max)
	max.Sub(max, big.NewInt(1))
	return min, max
}

// unsignedBounds returns the inclusive [0, max] domain of an n-bit
// unsigned integer.
func unsignedBounds(n int) *big.Int {
	max := new(big.Int).Lsh(big.NewInt(1), uint(n))
	return max.Sub(max, big.NewInt(1))
}

// EncodeSignedBigEndian renders v as an n-bit two's-complement,
// big-endian bit string (MSB first), raising RangeCheckError if v does
// not fit in n signed bits.
func EncodeSignedBigEndian(v *big.Int, n int) ([]byte, error) {
	if n < 1 || n > MaxSignedWidth {
		return nil, rangeError("STI")
	}
	min, max := signedBounds(n)
	if v.Cmp(min) < 0 || v.Cmp(max) > 0 {
		return nil, rangeError("STI")
	}
	return packTwosComplement(v, n), nil
}

// DecodeSignedBigEndian is the inverse of EncodeSignedBigEndian.
func DecodeSignedBigEndian(bits []byte, n int) (*big.Int, error) {
	if n < 1 || n > MaxSignedWidth {
		return nil, rangeError("LDI")
	}
	v := unpackUnsigned(bits, n)
	if v.Bit(n-1) == 1 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(n))
		v.Sub(v, mod)
	}
	return v, nil
}

// EncodeUnsignedBigEndian renders v as an n-bit unsigned, big-endian bit
// string, raising RangeCheckError if out of range.
func EncodeUnsignedBigEndian(v *big.Int, n int) ([]byte, error) {
	if n < 1 || n > MaxUnsignedWidth {
		return nil, rangeError("STU")
	}
	if v.Sign() < 0 || v.Cmp(unsignedBounds(n)) > 0 {
		return nil, rangeError("STU")
	}
	return packTwosComplement(v, n), nil
}

// DecodeUnsignedBigEndian is the inverse of EncodeUnsignedBigEndian.
func DecodeUnsignedBigEndian(bits []byte, n int) (*big.Int, error) {
	if n < 1 || n > MaxUnsignedWidth {
		return nil, rangeError("LDU")
	}
	return unpackUnsigned(bits, n), nil
}

// EncodeSignedLittleEndian and its unsigned/decode counterparts store the
// same two's-complement value but byte-reversed, for the *X little-endian
// opcode variants (spec.md §4.2).
func EncodeSignedLittleEndian(v *big.Int, n int) ([]byte, error) {
	b, err := EncodeSignedBigEndian(v, n)
	if err != nil {
		return nil, err
	}
	return reverseBytes(b), nil
}

func DecodeSignedLittleEndian(bits []byte, n int) (*big.Int, error) {
	return DecodeSignedBigEndian(reverseBytes(bits), n)
}

func EncodeUnsignedLittleEndian(v *big.Int, n int) ([]byte, error) {
	b, err := EncodeUnsignedBigEndian(v, n)
	if err != nil {
		return nil, err
	}
	return reverseBytes(b), nil
}

func DecodeUnsignedLittleEndian(bits []byte, n int) (*big.Int, error) {
	return DecodeUnsignedBigEndian(reverseBytes(bits), n)
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// packTwosComplement packs v's two's-complement representation into
// ceil(n/8) bytes, MSB-aligned: the n bits come first and the unused low
// bits of the trailing partial byte, if any, are zero.
func packTwosComplement(v *big.Int, n int) []byte {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(n))
	t := new(big.Int).Mod(v, mod)
	if t.Sign() < 0 {
		t.Add(t, mod)
	}
	nbytes := (n + 7) / 8
	if shift := nbytes*8 - n; shift > 0 {
		t.Lsh(t, uint(shift))
	}
	full := t.FillBytes(make([]byte, nbytes))
	return full
}

// unpackUnsigned is the inverse of packTwosComplement's byte packing,
// returning the raw unsigned n-bit value (sign interpretation is left to
// the caller).
func unpackUnsigned(bits []byte, n int) *big.Int {
	v := new(big.Int).SetBytes(bits)
	nbytes := (n + 7) / 8
	shift := nbytes*8 - n
	if shift > 0 {
		v.Rsh(v, uint(shift))
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(n))
	return v.Mod(v, mod)
}
