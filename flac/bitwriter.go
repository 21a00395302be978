// SPDX-License-Identifier: EPL-2.0

package flac

// bitWriter packs values MSB-first into a growable byte buffer.
// It keeps a bit-position cursor: pending bits live in cache until a full
// byte is available. Single writer per frame; never shared.
type bitWriter struct {
	buf   []byte
	cache uint64 // pending bits, right-aligned
	nbits uint   // number of pending bits, always < 8 between calls
}

func newBitWriter(capacity int) *bitWriter {
	return &bitWriter{buf: make([]byte, 0, capacity)}
}

// WriteBits appends the width lowest bits of v, most significant first.
// width must be <= 56; wider fields are split by the caller.
func (w *bitWriter) WriteBits(v uint64, width uint) {
	if width == 0 {
		return
	}
	w.cache = w.cache<<width | v&(1<<width-1)
	w.nbits += width

	for w.nbits >= 8 {
		w.nbits -= 8
		w.buf = append(w.buf, byte(w.cache>>w.nbits))
	}
}

// WriteBits64 appends up to 64 bits, splitting around the cache limit.
func (w *bitWriter) WriteBits64(v uint64, width uint) {
	if width > 32 {
		w.WriteBits(v>>32, width-32)
		width = 32
	}
	w.WriteBits(v, width)
}

// WriteSigned appends v as a width-bit two's complement value.
func (w *bitWriter) WriteSigned(v int64, width uint) {
	w.WriteBits(uint64(v), width)
}

// WriteUnary appends n zero bits followed by a one bit.
func (w *bitWriter) WriteUnary(n uint32) {
	for n >= 32 {
		w.WriteBits(0, 32)
		n -= 32
	}
	w.WriteBits(1, uint(n)+1)
}

// Align pads with zero bits up to the next byte boundary.
func (w *bitWriter) Align() {
	if w.nbits > 0 {
		w.WriteBits(0, 8-w.nbits)
	}
}

// Len reports the number of complete bytes written so far.
func (w *bitWriter) Len() int { return len(w.buf) }

// BitLen reports the total number of bits written so far.
func (w *bitWriter) BitLen() int { return len(w.buf)*8 + int(w.nbits) }

// Bytes returns the underlying buffer. The writer must be byte-aligned.
func (w *bitWriter) Bytes() []byte { return w.buf }

// Reset discards all written bits, keeping the allocated buffer.
func (w *bitWriter) Reset() {
	w.buf = w.buf[:0]
	w.cache = 0
	w.nbits = 0
}
