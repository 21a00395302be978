// SPDX-License-Identifier: EPL-2.0

package flac

import "fmt"

// frame is a contiguous span of samples across all channels, tagged with its
// frame number. Frames are produced by the segmenter, consumed by the packer
// and discarded.
type frame struct {
	index    int64
	channels [][]int32 // equal-length per-channel sample slices
	n        int       // samples per channel
}

// segmenter splits the planar sample buffer into fixed-size frames. The last
// frame may be shorter. A segmenter is a restartable lazy sequence: Reset
// rewinds it to the first frame.
type segmenter struct {
	channels  [][]int32
	blockSize int
	offset    int
	index     int64
}

// validatePlanar checks the sample buffer shape against the configuration.
// All violations surface before any frame is produced.
func validatePlanar(channels [][]int32, cfg Config) error {
	if len(channels) != cfg.Channels {
		return fmt.Errorf("%w: got %d channels, config says %d", ErrInvalidInput, len(channels), cfg.Channels)
	}
	for ch, samples := range channels {
		if len(samples) != len(channels[0]) {
			return fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d",
				ErrInvalidInput, ch, len(samples), len(channels[0]))
		}
	}
	return nil
}

func newSegmenter(channels [][]int32, blockSize int) *segmenter {
	return &segmenter{channels: channels, blockSize: blockSize}
}

// Next returns the next frame, or ok=false when the buffer is exhausted.
func (s *segmenter) Next() (f frame, ok bool) {
	total := 0
	if len(s.channels) > 0 {
		total = len(s.channels[0])
	}
	if s.offset >= total {
		return frame{}, false
	}

	n := min(s.blockSize, total-s.offset)
	f = frame{
		index:    s.index,
		channels: make([][]int32, len(s.channels)),
		n:        n,
	}
	for ch := range s.channels {
		f.channels[ch] = s.channels[ch][s.offset : s.offset+n]
	}

	s.offset += n
	s.index++
	return f, true
}

// Reset rewinds the segmenter to the first frame.
func (s *segmenter) Reset() {
	s.offset = 0
	s.index = 0
}

// NumFrames reports how many frames the segmenter will produce in total.
func (s *segmenter) NumFrames() int {
	if len(s.channels) == 0 || len(s.channels[0]) == 0 {
		return 0
	}
	return (len(s.channels[0]) + s.blockSize - 1) / s.blockSize
}

// blockSizeCode maps a block size to its 4-bit frame header code plus an
// optional trailing raw field (0, 8 or 16 bits holding size-1).
func blockSizeCode(n int) (code uint64, extraBits uint) {
	switch {
	case n == 192:
		return 1, 0
	case n >= 576 && n <= 4608 && n%576 == 0 && isPow2(n/576):
		return uint64(2 + log2(n/576)), 0
	case n >= 256 && n <= 32768 && n%256 == 0 && isPow2(n/256):
		return uint64(8 + log2(n/256)), 0
	case n <= 256:
		return 6, 8
	default:
		return 7, 16
	}
}

func isPow2(n int) bool { return n&(n-1) == 0 }

func log2(n int) int {
	l := 0
	for n > 1 {
		n >>= 1
		l++
	}
	return l
}

// sampleRateCode maps a sample rate to its 4-bit frame header code plus an
// optional trailing raw field. Code 0 defers to STREAMINFO.
func sampleRateCode(rate int) (code uint64, extra uint64, extraBits uint) {
	switch rate {
	case 88200:
		return 1, 0, 0
	case 176400:
		return 2, 0, 0
	case 192000:
		return 3, 0, 0
	case 8000:
		return 4, 0, 0
	case 16000:
		return 5, 0, 0
	case 22050:
		return 6, 0, 0
	case 24000:
		return 7, 0, 0
	case 32000:
		return 8, 0, 0
	case 44100:
		return 9, 0, 0
	case 48000:
		return 10, 0, 0
	case 96000:
		return 11, 0, 0
	}
	switch {
	case rate%1000 == 0 && rate/1000 <= 255:
		return 12, uint64(rate / 1000), 8
	case rate <= 65535:
		return 13, uint64(rate), 16
	case rate%10 == 0 && rate/10 <= 65535:
		return 14, uint64(rate / 10), 16
	default:
		return 0, 0, 0
	}
}

// bitDepthCode maps a bit depth to its 3-bit frame header code. Code 0
// defers to STREAMINFO.
func bitDepthCode(bps int) uint64 {
	switch bps {
	case 8:
		return 1
	case 12:
		return 2
	case 16:
		return 4
	case 20:
		return 5
	case 24:
		return 6
	case 32:
		return 7
	default:
		return 0
	}
}

// writeUTF8 emits v in the UTF-8-style variable length coding frame headers
// use for the frame number. Values up to 36 bits are representable.
func writeUTF8(bw *bitWriter, v uint64) error {
	switch {
	case v < 0x80:
		bw.WriteBits(v, 8)
	case v < 0x800:
		bw.WriteBits(0xC0|v>>6, 8)
		bw.WriteBits(0x80|v&0x3F, 8)
	case v < 0x10000:
		bw.WriteBits(0xE0|v>>12, 8)
		bw.WriteBits(0x80|v>>6&0x3F, 8)
		bw.WriteBits(0x80|v&0x3F, 8)
	case v < 0x200000:
		bw.WriteBits(0xF0|v>>18, 8)
		bw.WriteBits(0x80|v>>12&0x3F, 8)
		bw.WriteBits(0x80|v>>6&0x3F, 8)
		bw.WriteBits(0x80|v&0x3F, 8)
	case v < 0x4000000:
		bw.WriteBits(0xF8|v>>24, 8)
		bw.WriteBits(0x80|v>>18&0x3F, 8)
		bw.WriteBits(0x80|v>>12&0x3F, 8)
		bw.WriteBits(0x80|v>>6&0x3F, 8)
		bw.WriteBits(0x80|v&0x3F, 8)
	case v < 0x80000000:
		bw.WriteBits(0xFC|v>>30, 8)
		bw.WriteBits(0x80|v>>24&0x3F, 8)
		bw.WriteBits(0x80|v>>18&0x3F, 8)
		bw.WriteBits(0x80|v>>12&0x3F, 8)
		bw.WriteBits(0x80|v>>6&0x3F, 8)
		bw.WriteBits(0x80|v&0x3F, 8)
	case v < 0x1000000000:
		bw.WriteBits(0xFE, 8)
		bw.WriteBits(0x80|v>>30&0x3F, 8)
		bw.WriteBits(0x80|v>>24&0x3F, 8)
		bw.WriteBits(0x80|v>>18&0x3F, 8)
		bw.WriteBits(0x80|v>>12&0x3F, 8)
		bw.WriteBits(0x80|v>>6&0x3F, 8)
		bw.WriteBits(0x80|v&0x3F, 8)
	default:
		return fmt.Errorf("%w: frame number %d exceeds 36 bits", ErrFormatViolation, v)
	}
	return nil
}

// encodeFrame packs one complete frame: header with CRC-8, one subframe per
// channel, zero padding to a byte boundary, CRC-16 over the whole frame.
func encodeFrame(f frame, cfg Config, lvl levelSettings) ([]byte, error) {
	bw := newBitWriter(f.n*cfg.Channels*(cfg.BitsPerSample/8+1) + 64)

	bw.WriteBits(0x3FFE, 14) // sync code
	bw.WriteBits(0, 1)       // reserved
	bw.WriteBits(0, 1)       // fixed block size stream

	bsCode, bsExtra := blockSizeCode(f.n)
	srCode, srRaw, srExtra := sampleRateCode(cfg.SampleRate)

	bw.WriteBits(bsCode, 4)
	bw.WriteBits(srCode, 4)
	bw.WriteBits(uint64(cfg.Channels-1), 4) // independent channel assignment
	bw.WriteBits(bitDepthCode(cfg.BitsPerSample), 3)
	bw.WriteBits(0, 1) // reserved

	if err := writeUTF8(bw, uint64(f.index)); err != nil {
		return nil, err
	}
	if bsExtra > 0 {
		bw.WriteBits(uint64(f.n-1), bsExtra)
	}
	if srExtra > 0 {
		bw.WriteBits(srRaw, srExtra)
	}

	// Header is byte-aligned here; CRC-8 covers everything up to it.
	bw.WriteBits(uint64(crc8(bw.Bytes())), 8)

	for _, samples := range f.channels {
		plan := analyzeSubframe(samples, cfg.BitsPerSample, lvl)
		if err := writeSubframe(bw, plan, samples, cfg.BitsPerSample); err != nil {
			return nil, err
		}
	}

	bw.Align()
	bw.WriteBits(uint64(crc16(bw.Bytes())), 16)
	return bw.Bytes(), nil
}
