package serial

import "math/big"

// EncodeVarInt renders v in the LEB-style "PUSHINT big" wire format of
// spec.md §4.2, picking the smallest length code l (0..31) whose payload
// width n = 8*l+19 bits fits v as a signed two's-complement integer.
//
// Layout: first byte is `llllltgg` (5-bit length code, then the top 3
// bits of the n-bit two's-complement value); the remaining n-3 bits
// follow big-endian as whole bytes.
func EncodeVarInt(v *big.Int) ([]byte, error) {
	for l := 0; l < 32; l++ {
		n := 8*l + 19
		min, max := signedBounds(n)
		if v.Cmp(min) < 0 || v.Cmp(max) > 0 {
			continue
		}
		full := packTwosComplement(v, n) // n bits, MSB-aligned
		return packVarIntBytes(l, full, n), nil
	}
	return nil, rangeError("PUSHINT")
}

// packVarIntBytes assembles the wire bytes given the length code and the
// n-bit two's-complement payload already packed MSB-first into
// ceil(n/8) bytes by packTwosComplement.
func packVarIntBytes(l int, full []byte, n int) []byte {
	// Re-derive a bit reader over the exact n bits (packTwosComplement
	// puts them at the front of full and zero-pads the rest of the last
	// byte; it works modulo 2^n, so the sign bits are already correct).
	r := bitsFromBytes(full, n)
	tgg := (r[0] << 2) | (r[1] << 1) | r[2]
	first := byte(l<<3) | byte(tgg)
	rest := packBitSlice(r[3:])
	return append([]byte{first}, rest...)
}

// DecodeVarInt parses the PUSHINT big wire format starting at data[0],
// returning the decoded value and the number of bytes consumed.
func DecodeVarInt(data []byte) (*big.Int, int, error) {
	if len(data) < 1 {
		return nil, 0, rangeError("PUSHINT")
	}
	l := int(data[0] >> 3)
	tgg := data[0] & 0x7
	n := 8*l + 19
	totalBytes := 1 + (n-3+7)/8
	if len(data) < totalBytes {
		return nil, 0, rangeError("PUSHINT")
	}
	bits := make([]int, 0, n)
	bits = append(bits, int(tgg>>2)&1, int(tgg>>1)&1, int(tgg)&1)
	bits = append(bits, bitsFromBytes(data[1:totalBytes], n-3)...)
	full := packBitSlice(bits)
	v := unpackUnsigned(full, n)
	if v.Bit(n-1) == 1 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(n))
		v.Sub(v, mod)
	}
	return v, totalBytes, nil
}

// bitsFromBytes extracts the first n bits from a byte-packed, MSB-first,
// MSB-aligned buffer as a slice of 0/1 ints; any padding bits after them
// are ignored.
func bitsFromBytes(buf []byte, n int) []int {
	out := make([]int, n)
	for i := 0; i < n; i++ {
		bit := buf[i/8] & (1 << uint(7-i%8))
		if bit != 0 {
			out[i] = 1
		}
	}
	return out
}

// packBitSlice packs a slice of 0/1 ints MSB-first into bytes, left
// aligned with zero padding in the final partial byte.
func packBitSlice(bits []int) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b != 0 {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}
