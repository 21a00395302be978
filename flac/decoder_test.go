// SPDX-License-Identifier: EPL-2.0

package flac

// A minimal FLAC decoder used only by tests to prove the lossless
// round-trip: every stream the encoder emits must decode back to the exact
// input samples, with valid CRCs and a matching STREAMINFO MD5.

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"errors"
	"fmt"
)

type bitReader struct {
	data []byte
	pos  int // bit position
}

func (r *bitReader) ReadBits(n uint) (uint64, error) {
	var v uint64
	for _i := uint(0); _i < n; _i++ {
		byteIdx := r.pos >> 3
		if byteIdx >= len(r.data) {
			return 0, errors.New("bit reader: out of data")
		}
		bit := r.data[byteIdx] >> (7 - uint(r.pos&7)) & 1
		v = v<<1 | uint64(bit)
		r.pos++
	}
	return v, nil
}

func (r *bitReader) ReadUnary() (uint32, error) {
	var n uint32
	for {
		b, err := r.ReadBits(1)
		if err != nil {
			return 0, err
		}
		if b == 1 {
			return n, nil
		}
		n++
	}
}

func (r *bitReader) AlignToByte() {
	if r.pos&7 != 0 {
		r.pos += 8 - r.pos&7
	}
}

func (r *bitReader) bytePos() int { return r.pos >> 3 }

func signExtendTest(v uint64, n uint) int32 {
	if n == 0 {
		return 0
	}
	if v&(1<<(n-1)) != 0 {
		return int32(v | ^uint64(0)<<n)
	}
	return int32(v)
}

type decodedStreamInfo struct {
	minBlockSize  int
	maxBlockSize  int
	minFrameSize  int
	maxFrameSize  int
	sampleRate    int
	channels      int
	bitsPerSample int
	totalSamples  int64
	md5           [16]byte
}

type decodedSubframe struct {
	kind  subframeKind
	order int
}

type decodedFrame struct {
	index     int64
	blockSize int
	subframes []decodedSubframe
}

type decodedStream struct {
	info       decodedStreamInfo
	vendor     string
	tags       []Tag
	paddingLen int
	frames     []decodedFrame
	channels   [][]int32
}

func decodeStream(data []byte) (*decodedStream, error) {
	if len(data) < 4 || !bytes.Equal(data[:4], []byte("fLaC")) {
		return nil, errors.New("missing fLaC magic")
	}

	ds := &decodedStream{paddingLen: -1}
	r := &bitReader{data: data, pos: 32}

	if err := decodeMetadata(r, ds); err != nil {
		return nil, err
	}

	ds.channels = make([][]int32, ds.info.channels)
	for r.bytePos() < len(data) {
		if err := decodeFrame(r, ds); err != nil {
			return nil, fmt.Errorf("frame %d: %w", len(ds.frames), err)
		}
	}

	var total int64
	if len(ds.channels) > 0 {
		total = int64(len(ds.channels[0]))
	}
	if total != ds.info.totalSamples {
		return nil, fmt.Errorf("decoded %d samples, STREAMINFO says %d", total, ds.info.totalSamples)
	}
	return ds, nil
}

func decodeMetadata(r *bitReader, ds *decodedStream) error {
	for {
		last, err := r.ReadBits(1)
		if err != nil {
			return err
		}
		blockType, _ := r.ReadBits(7)
		length, err := r.ReadBits(24)
		if err != nil {
			return err
		}

		body := make([]byte, length)
		for i := range body {
			v, err := r.ReadBits(8)
			if err != nil {
				return err
			}
			body[i] = byte(v)
		}

		switch blockType {
		case blockTypeStreamInfo:
			if err := parseStreamInfo(body, &ds.info); err != nil {
				return err
			}
		case blockTypeVorbisComment:
			if err := parseVorbisComment(body, ds); err != nil {
				return err
			}
		case blockTypePadding:
			ds.paddingLen = len(body)
			for _, b := range body {
				if b != 0 {
					return errors.New("non-zero padding byte")
				}
			}
		}

		if last == 1 {
			return nil
		}
	}
}

func parseStreamInfo(body []byte, si *decodedStreamInfo) error {
	if len(body) != streamInfoLen {
		return fmt.Errorf("STREAMINFO length %d, want %d", len(body), streamInfoLen)
	}
	r := &bitReader{data: body}
	rd := func(n uint) uint64 { v, _ := r.ReadBits(n); return v }

	si.minBlockSize = int(rd(16))
	si.maxBlockSize = int(rd(16))
	si.minFrameSize = int(rd(24))
	si.maxFrameSize = int(rd(24))
	si.sampleRate = int(rd(20))
	si.channels = int(rd(3)) + 1
	si.bitsPerSample = int(rd(5)) + 1
	si.totalSamples = int64(rd(36))
	for i := range si.md5 {
		si.md5[i] = byte(rd(8))
	}
	return nil
}

func parseVorbisComment(body []byte, ds *decodedStream) error {
	if len(body) < 8 {
		return errors.New("short vorbis comment block")
	}
	vendorLen := binary.LittleEndian.Uint32(body)
	off := 4 + int(vendorLen)
	ds.vendor = string(body[4:off])

	count := binary.LittleEndian.Uint32(body[off:])
	off += 4
	for _i := uint32(0); _i < count; _i++ {
		entryLen := int(binary.LittleEndian.Uint32(body[off:]))
		off += 4
		entry := string(body[off : off+entryLen])
		off += entryLen
		name, value, ok := bytes.Cut([]byte(entry), []byte("="))
		if !ok {
			return fmt.Errorf("malformed comment entry %q", entry)
		}
		ds.tags = append(ds.tags, Tag{Name: string(name), Value: string(value)})
	}
	return nil
}

func decodeFrame(r *bitReader, ds *decodedStream) error {
	headerStart := r.bytePos()

	sync, err := r.ReadBits(14)
	if err != nil {
		return err
	}
	if sync != 0x3FFE {
		return fmt.Errorf("bad sync code %#x", sync)
	}
	if v, _ := r.ReadBits(1); v != 0 {
		return errors.New("reserved bit set")
	}
	if v, _ := r.ReadBits(1); v != 0 {
		return errors.New("variable blocksize strategy unexpected")
	}

	bsCode, _ := r.ReadBits(4)
	srCode, _ := r.ReadBits(4)
	chanCode, _ := r.ReadBits(4)
	bpsCode, _ := r.ReadBits(3)
	if v, _ := r.ReadBits(1); v != 0 {
		return errors.New("reserved header bit set")
	}

	index, err := readUTF8(r)
	if err != nil {
		return err
	}

	blockSize, err := decodeBlockSize(r, bsCode)
	if err != nil {
		return err
	}
	if err := consumeSampleRate(r, srCode); err != nil {
		return err
	}

	headerEnd := r.bytePos()
	wantCRC8, _ := r.ReadBits(8)
	if got := crc8(r.data[headerStart:headerEnd]); got != byte(wantCRC8) {
		return fmt.Errorf("header CRC-8 mismatch: got %#x want %#x", got, wantCRC8)
	}

	if chanCode > 7 {
		return fmt.Errorf("unexpected channel assignment %d", chanCode)
	}
	channels := int(chanCode) + 1
	if channels != ds.info.channels {
		return fmt.Errorf("frame has %d channels, stream has %d", channels, ds.info.channels)
	}

	bps := decodeBitDepth(bpsCode)
	if bps == 0 {
		bps = ds.info.bitsPerSample
	}

	df := decodedFrame{index: int64(index), blockSize: blockSize}
	for ch := 0; ch < channels; ch++ {
		sub, samples, err := decodeSubframe(r, blockSize, uint(bps))
		if err != nil {
			return fmt.Errorf("subframe %d: %w", ch, err)
		}
		df.subframes = append(df.subframes, sub)
		ds.channels[ch] = append(ds.channels[ch], samples...)
	}

	r.AlignToByte()
	frameEnd := r.bytePos()
	wantCRC16, err := r.ReadBits(16)
	if err != nil {
		return err
	}
	if got := crc16(r.data[headerStart:frameEnd]); got != uint16(wantCRC16) {
		return fmt.Errorf("frame CRC-16 mismatch: got %#x want %#x", got, wantCRC16)
	}

	ds.frames = append(ds.frames, df)
	return nil
}

func readUTF8(r *bitReader) (uint64, error) {
	first, err := r.ReadBits(8)
	if err != nil {
		return 0, err
	}

	var follow int
	var v uint64
	switch {
	case first < 0x80:
		return first, nil
	case first >= 0xC0 && first < 0xE0:
		follow, v = 1, first&0x1F
	case first >= 0xE0 && first < 0xF0:
		follow, v = 2, first&0x0F
	case first >= 0xF0 && first < 0xF8:
		follow, v = 3, first&0x07
	case first >= 0xF8 && first < 0xFC:
		follow, v = 4, first&0x03
	case first >= 0xFC && first < 0xFE:
		follow, v = 5, first&0x01
	case first == 0xFE:
		follow, v = 6, 0
	default:
		return 0, fmt.Errorf("invalid UTF-8 lead byte %#x", first)
	}

	for _i := 0; _i < follow; _i++ {
		b, err := r.ReadBits(8)
		if err != nil {
			return 0, err
		}
		if b&0xC0 != 0x80 {
			return 0, fmt.Errorf("invalid UTF-8 continuation byte %#x", b)
		}
		v = v<<6 | b&0x3F
	}
	return v, nil
}

func decodeBlockSize(r *bitReader, code uint64) (int, error) {
	switch {
	case code == 0:
		return 0, errors.New("reserved block size code")
	case code == 1:
		return 192, nil
	case code <= 5:
		return 576 << (code - 2), nil
	case code == 6:
		v, err := r.ReadBits(8)
		return int(v) + 1, err
	case code == 7:
		v, err := r.ReadBits(16)
		return int(v) + 1, err
	default:
		return 256 << (code - 8), nil
	}
}

func consumeSampleRate(r *bitReader, code uint64) error {
	switch code {
	case 12:
		_, err := r.ReadBits(8)
		return err
	case 13, 14:
		_, err := r.ReadBits(16)
		return err
	case 15:
		return errors.New("invalid sample rate code")
	default:
		return nil
	}
}

func decodeBitDepth(code uint64) int {
	switch code {
	case 1:
		return 8
	case 2:
		return 12
	case 4:
		return 16
	case 5:
		return 20
	case 6:
		return 24
	case 7:
		return 32
	default:
		return 0
	}
}

func decodeSubframe(r *bitReader, blockSize int, bps uint) (decodedSubframe, []int32, error) {
	var sub decodedSubframe

	if pad, _ := r.ReadBits(1); pad != 0 {
		return sub, nil, errors.New("non-zero subframe padding bit")
	}
	tag, err := r.ReadBits(6)
	if err != nil {
		return sub, nil, err
	}
	if wasted, _ := r.ReadBits(1); wasted != 0 {
		return sub, nil, errors.New("unexpected wasted bits flag")
	}

	switch {
	case tag == 0:
		sub.kind = subConstant
		v, err := r.ReadBits(bps)
		if err != nil {
			return sub, nil, err
		}
		s := signExtendTest(v, bps)
		samples := make([]int32, blockSize)
		for i := range samples {
			samples[i] = s
		}
		return sub, samples, nil

	case tag == 1:
		sub.kind = subVerbatim
		samples := make([]int32, blockSize)
		for i := range samples {
			v, err := r.ReadBits(bps)
			if err != nil {
				return sub, nil, err
			}
			samples[i] = signExtendTest(v, bps)
		}
		return sub, samples, nil

	case tag >= 8 && tag <= 12:
		sub.kind = subFixed
		sub.order = int(tag & 0x07)
		warmup, err := readWarmup(r, sub.order, bps)
		if err != nil {
			return sub, nil, err
		}
		samples, err := decodePredicted(r, blockSize, warmup, nil, 0)
		return sub, samples, err

	case tag >= 32:
		sub.kind = subLPC
		sub.order = int(tag&0x1F) + 1
		warmup, err := readWarmup(r, sub.order, bps)
		if err != nil {
			return sub, nil, err
		}
		precision, err := r.ReadBits(4)
		if err != nil {
			return sub, nil, err
		}
		shift, err := r.ReadBits(5)
		if err != nil {
			return sub, nil, err
		}
		coeffs := make([]int32, sub.order)
		for i := range coeffs {
			c, err := r.ReadBits(uint(precision) + 1)
			if err != nil {
				return sub, nil, err
			}
			coeffs[i] = signExtendTest(c, uint(precision)+1)
		}
		samples, err := decodePredicted(r, blockSize, warmup, coeffs, int(shift))
		return sub, samples, err

	default:
		return sub, nil, fmt.Errorf("reserved subframe type %#x", tag)
	}
}

// readWarmup reads the predictor's warmup samples, which precede any
// coefficient fields in the subframe layout.
func readWarmup(r *bitReader, order int, bps uint) ([]int32, error) {
	warmup := make([]int32, 0, order)
	for _i := 0; _i < order; _i++ {
		v, err := r.ReadBits(bps)
		if err != nil {
			return nil, err
		}
		warmup = append(warmup, signExtendTest(v, bps))
	}
	return warmup, nil
}

// decodePredicted reads rice-coded residuals and runs the predictor forward
// from the warmup samples. A nil coeffs slice selects the fixed polynomial
// of order len(warmup).
func decodePredicted(r *bitReader, blockSize int, warmup, coeffs []int32, shift int) ([]int32, error) {
	order := len(warmup)
	samples := make([]int32, 0, blockSize)
	samples = append(samples, warmup...)

	residuals, err := decodeRiceResiduals(r, blockSize, order)
	if err != nil {
		return nil, err
	}

	for _, res := range residuals {
		i := len(samples)
		var pred int64
		if coeffs != nil {
			for j, c := range coeffs {
				pred += int64(c) * int64(samples[i-1-j])
			}
			pred >>= uint(shift)
		} else {
			switch order {
			case 1:
				pred = int64(samples[i-1])
			case 2:
				pred = 2*int64(samples[i-1]) - int64(samples[i-2])
			case 3:
				pred = 3*int64(samples[i-1]) - 3*int64(samples[i-2]) + int64(samples[i-3])
			case 4:
				pred = 4*int64(samples[i-1]) - 6*int64(samples[i-2]) + 4*int64(samples[i-3]) - int64(samples[i-4])
			}
		}
		samples = append(samples, int32(pred+int64(res)))
	}
	return samples, nil
}

func decodeRiceResiduals(r *bitReader, blockSize, order int) ([]int32, error) {
	method, err := r.ReadBits(2)
	if err != nil {
		return nil, err
	}
	if method > 1 {
		return nil, fmt.Errorf("reserved residual coding method %d", method)
	}
	paramSize := uint(4)
	escape := uint64(riceEscape1)
	if method == riceMethodRice2 {
		paramSize = 5
		escape = riceEscape2
	}

	partOrder, err := r.ReadBits(4)
	if err != nil {
		return nil, err
	}
	nparts := 1 << partOrder
	partLen := blockSize / nparts

	residuals := make([]int32, 0, blockSize-order)
	for i := 0; i < nparts; i++ {
		count := partLen
		if i == 0 {
			count -= order
		}

		param, err := r.ReadBits(paramSize)
		if err != nil {
			return nil, err
		}
		if param == escape {
			width, err := r.ReadBits(5)
			if err != nil {
				return nil, err
			}
			for _i := 0; _i < count; _i++ {
				v, err := r.ReadBits(uint(width))
				if err != nil {
					return nil, err
				}
				residuals = append(residuals, signExtendTest(v, uint(width)))
			}
			continue
		}

		for _i := 0; _i < count; _i++ {
			high, err := r.ReadUnary()
			if err != nil {
				return nil, err
			}
			low, err := r.ReadBits(uint(param))
			if err != nil {
				return nil, err
			}
			folded := uint32(high)<<param | uint32(low)
			residuals = append(residuals, int32(folded>>1)^-int32(folded&1))
		}
	}
	return residuals, nil
}

// verifyMD5 recomputes the audio MD5 the way STREAMINFO defines it.
func verifyMD5(ds *decodedStream) error {
	bytesPerSample := (ds.info.bitsPerSample + 7) / 8
	h := md5.New()
	var n int
	if len(ds.channels) > 0 {
		n = len(ds.channels[0])
	}
	buf := make([]byte, 0, 4096)
	for i := 0; i < n; i++ {
		for ch := range ds.channels {
			v := uint32(ds.channels[ch][i])
			for b := 0; b < bytesPerSample; b++ {
				buf = append(buf, byte(v>>(8*b)))
			}
		}
		if len(buf) > 4000 {
			h.Write(buf)
			buf = buf[:0]
		}
	}
	h.Write(buf)
	if !bytes.Equal(h.Sum(nil), ds.info.md5[:]) {
		return errors.New("audio MD5 mismatch")
	}
	return nil
}
