// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"testing"
)

func TestBitWriter_WriteBits(t *testing.T) {
	t.Parallel()

	bw := newBitWriter(16)
	bw.WriteBits(0b101, 3)
	bw.WriteBits(0b01, 2)
	bw.WriteBits(0b011, 3)

	want := []byte{0b10101011}
	if !bytes.Equal(bw.Bytes(), want) {
		t.Errorf("Bytes() = %08b, want %08b", bw.Bytes(), want)
	}
}

func TestBitWriter_MasksHighBits(t *testing.T) {
	t.Parallel()

	bw := newBitWriter(16)
	bw.WriteBits(0xFF, 4) // only the low 4 bits count
	bw.WriteBits(0, 4)

	want := []byte{0xF0}
	if !bytes.Equal(bw.Bytes(), want) {
		t.Errorf("Bytes() = %x, want %x", bw.Bytes(), want)
	}
}

func TestBitWriter_WriteBits64(t *testing.T) {
	t.Parallel()

	bw := newBitWriter(16)
	bw.WriteBits64(0x123456789ABCDEF0, 64)

	want := []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0}
	if !bytes.Equal(bw.Bytes(), want) {
		t.Errorf("Bytes() = %x, want %x", bw.Bytes(), want)
	}
}

func TestBitWriter_WriteSigned(t *testing.T) {
	t.Parallel()

	bw := newBitWriter(16)
	bw.WriteSigned(-1, 8)
	bw.WriteSigned(-128, 8)
	bw.WriteSigned(127, 8)

	want := []byte{0xFF, 0x80, 0x7F}
	if !bytes.Equal(bw.Bytes(), want) {
		t.Errorf("Bytes() = %x, want %x", bw.Bytes(), want)
	}
}

func TestBitWriter_WriteUnary(t *testing.T) {
	t.Parallel()

	bw := newBitWriter(16)
	bw.WriteUnary(0)
	bw.WriteUnary(3)
	bw.WriteUnary(2)

	// 1, 0001, 001 packs to exactly one byte.
	want := []byte{0b10001001}
	if !bytes.Equal(bw.Bytes(), want) {
		t.Errorf("Bytes() = %08b, want %08b", bw.Bytes(), want)
	}
}

func TestBitWriter_WriteUnaryLong(t *testing.T) {
	t.Parallel()

	bw := newBitWriter(16)
	bw.WriteUnary(71)

	got := bw.Bytes()
	if len(got) != 9 {
		t.Fatalf("Len() = %d, want 9", len(got))
	}
	for i := 0; i < 8; i++ {
		if got[i] != 0 {
			t.Errorf("byte %d = %#x, want 0", i, got[i])
		}
	}
	if got[8] != 0x01 {
		t.Errorf("final byte = %08b, want 00000001", got[8])
	}
}

func TestBitWriter_AlignAndLen(t *testing.T) {
	t.Parallel()

	bw := newBitWriter(16)
	bw.WriteBits(1, 3)
	if got := bw.BitLen(); got != 3 {
		t.Errorf("BitLen() = %d, want 3", got)
	}
	if got := bw.Len(); got != 0 {
		t.Errorf("Len() before align = %d, want 0", got)
	}

	bw.Align()
	if got := bw.Len(); got != 1 {
		t.Errorf("Len() after align = %d, want 1", got)
	}
	if got := bw.BitLen(); got != 8 {
		t.Errorf("BitLen() after align = %d, want 8", got)
	}

	// Aligning an aligned writer adds nothing.
	bw.Align()
	if got := bw.Len(); got != 1 {
		t.Errorf("Len() after second align = %d, want 1", got)
	}
}

func TestBitWriter_Reset(t *testing.T) {
	t.Parallel()

	bw := newBitWriter(16)
	bw.WriteBits(0xABCD, 16)
	bw.WriteBits(1, 3)
	bw.Reset()

	if got := bw.BitLen(); got != 0 {
		t.Errorf("BitLen() after reset = %d, want 0", got)
	}

	bw.WriteBits(0x55, 8)
	if !bytes.Equal(bw.Bytes(), []byte{0x55}) {
		t.Errorf("Bytes() after reset = %x, want 55", bw.Bytes())
	}
}

func TestBitWriter_RoundTripThroughReader(t *testing.T) {
	t.Parallel()

	bw := newBitWriter(64)
	values := []struct {
		v     uint64
		width uint
	}{
		{0x3FFE, 14}, {0, 1}, {5, 3}, {0xDEAD, 16}, {1, 1}, {0x1FFFFF, 21},
	}
	for _, tv := range values {
		bw.WriteBits(tv.v, tv.width)
	}
	bw.Align()

	r := &bitReader{data: bw.Bytes()}
	for i, tv := range values {
		got, err := r.ReadBits(tv.width)
		if err != nil {
			t.Fatalf("ReadBits(%d) error = %v", tv.width, err)
		}
		if got != tv.v {
			t.Errorf("value %d: read %#x, want %#x", i, got, tv.v)
		}
	}
}
