package serial_test

import (
	"math/big"
	"testing"

	"github.com/tvmkit/tvm/serial"
)

func TestSignedBigEndianRoundTrip(t *testing.T) {
	cases := []struct {
		v int64
		n int
	}{
		{0, 8}, {127, 8}, {-128, 8}, {1000, 16}, {-1000, 16}, {0, 257}, {-1, 1},
	}
	for _, c := range cases {
		bits, err := serial.EncodeSignedBigEndian(big.NewInt(c.v), c.n)
		if err != nil {
			t.Fatalf("Encode(%d,%d): %v", c.v, c.n, err)
		}
		got, err := serial.DecodeSignedBigEndian(bits, c.n)
		if err != nil {
			t.Fatalf("Decode(%d,%d): %v", c.v, c.n, err)
		}
		if got.Int64() != c.v {
			t.Fatalf("round trip %d/%d bits = %v, want %d", c.v, c.n, got, c.v)
		}
	}
}

func TestSignedOutOfRange(t *testing.T) {
	if _, err := serial.EncodeSignedBigEndian(big.NewInt(128), 8); err == nil {
		t.Fatal("expected RangeCheckError for 128 in 8 signed bits")
	}
}

func TestUnsignedBigEndianRoundTrip(t *testing.T) {
	bits, err := serial.EncodeUnsignedBigEndian(big.NewInt(255), 8)
	if err != nil {
		t.Fatal(err)
	}
	got, err := serial.DecodeUnsignedBigEndian(bits, 8)
	if err != nil {
		t.Fatal(err)
	}
	if got.Int64() != 255 {
		t.Fatalf("got %v, want 255", got)
	}
	if _, err := serial.EncodeUnsignedBigEndian(big.NewInt(-1), 8); err == nil {
		t.Fatal("expected RangeCheckError for negative unsigned")
	}
}

func TestLittleEndianReversesBigEndian(t *testing.T) {
	be, _ := serial.EncodeUnsignedBigEndian(big.NewInt(0x0102), 16)
	le, _ := serial.EncodeUnsignedLittleEndian(big.NewInt(0x0102), 16)
	if len(be) != len(le) {
		t.Fatalf("length mismatch: %d vs %d", len(be), len(le))
	}
	for i := range be {
		if be[i] != le[len(le)-1-i] {
			t.Fatalf("little endian is not byte-reversed big endian at %d", i)
		}
	}
}

func TestVarIntRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 1000000, -1000000, 1 << 30, -(1 << 30)}
	for _, v := range values {
		enc, err := serial.EncodeVarInt(big.NewInt(v))
		if err != nil {
			t.Fatalf("EncodeVarInt(%d): %v", v, err)
		}
		got, n, err := serial.DecodeVarInt(enc)
		if err != nil {
			t.Fatalf("DecodeVarInt(%d): %v", v, err)
		}
		if n != len(enc) {
			t.Fatalf("consumed %d bytes, want %d", n, len(enc))
		}
		if got.Int64() != v {
			t.Fatalf("varint round trip %d = %v", v, got)
		}
	}
}

func TestVarIntPicksSmallestLength(t *testing.T) {
	enc, err := serial.EncodeVarInt(big.NewInt(5))
	if err != nil {
		t.Fatal(err)
	}
	if len(enc) != 3 { // l=0 -> n=19 bits -> first byte + 2 payload bytes
		t.Fatalf("len(enc) = %d, want 3 for small value", len(enc))
	}
}
