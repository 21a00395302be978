// SPDX-License-Identifier: EPL-2.0

package flac

import "encoding/binary"

// Stream-level framing: the fLaC magic, the STREAMINFO block every decoder
// needs to decode any frame independently, and the optional VORBIS_COMMENT
// and PADDING metadata blocks.

var flacMagic = [4]byte{'f', 'L', 'a', 'C'}

const (
	blockTypeStreamInfo    = 0
	blockTypePadding       = 1
	blockTypeVorbisComment = 4

	streamInfoLen = 34
)

// vendorString identifies this encoder in VORBIS_COMMENT blocks.
const vendorString = "flacenc"

// streamInfo collects the STREAMINFO fields that are only known once every
// frame has been encoded.
type streamInfo struct {
	cfg          Config
	totalSamples int64
	minFrameSize int
	maxFrameSize int
	md5          [16]byte
}

func (si *streamInfo) observeFrame(size int) {
	if si.minFrameSize == 0 || size < si.minFrameSize {
		si.minFrameSize = size
	}
	if size > si.maxFrameSize {
		si.maxFrameSize = size
	}
}

// writeBlockHeader emits a metadata block header: 1-bit last flag, 7-bit
// type, 24-bit body length.
func writeBlockHeader(bw *bitWriter, blockType int, length int, last bool) {
	flag := uint64(0)
	if last {
		flag = 1
	}
	bw.WriteBits(flag, 1)
	bw.WriteBits(uint64(blockType), 7)
	bw.WriteBits(uint64(length), 24)
}

// writeStreamInfo packs the 34-byte STREAMINFO body.
func writeStreamInfo(bw *bitWriter, si streamInfo, last bool) {
	writeBlockHeader(bw, blockTypeStreamInfo, streamInfoLen, last)

	// A 24-bit frame size field cannot express larger frames; zero means
	// unknown.
	minFrame, maxFrame := si.minFrameSize, si.maxFrameSize
	if maxFrame >= 1<<24 {
		minFrame, maxFrame = 0, 0
	}

	bw.WriteBits(uint64(si.cfg.BlockSize), 16) // min block size
	bw.WriteBits(uint64(si.cfg.BlockSize), 16) // max block size
	bw.WriteBits(uint64(minFrame), 24)
	bw.WriteBits(uint64(maxFrame), 24)
	bw.WriteBits(uint64(si.cfg.SampleRate), 20)
	bw.WriteBits(uint64(si.cfg.Channels-1), 3)
	bw.WriteBits(uint64(si.cfg.BitsPerSample-1), 5)
	bw.WriteBits64(uint64(si.totalSamples), 36)
	for _, b := range si.md5 {
		bw.WriteBits(uint64(b), 8)
	}
}

// vorbisCommentBody serializes tags in the Vorbis comment layout: all
// lengths little-endian, entries stored as "NAME=value".
func vorbisCommentBody(tags []Tag) []byte {
	body := make([]byte, 0, 64)
	body = binary.LittleEndian.AppendUint32(body, uint32(len(vendorString)))
	body = append(body, vendorString...)
	body = binary.LittleEndian.AppendUint32(body, uint32(len(tags)))
	for _, tag := range tags {
		entry := tag.Name + "=" + tag.Value
		body = binary.LittleEndian.AppendUint32(body, uint32(len(entry)))
		body = append(body, entry...)
	}
	return body
}

// writeStreamHeader emits everything that precedes the first audio frame.
func writeStreamHeader(bw *bitWriter, si streamInfo) {
	for _, b := range flacMagic {
		bw.WriteBits(uint64(b), 8)
	}

	hasComment := len(si.cfg.Tags) > 0
	hasPadding := si.cfg.Padding > 0

	writeStreamInfo(bw, si, !hasComment && !hasPadding)

	if hasComment {
		body := vorbisCommentBody(si.cfg.Tags)
		writeBlockHeader(bw, blockTypeVorbisComment, len(body), !hasPadding)
		for _, b := range body {
			bw.WriteBits(uint64(b), 8)
		}
	}

	if hasPadding {
		writeBlockHeader(bw, blockTypePadding, si.cfg.Padding, true)
		for _i := 0; _i < si.cfg.Padding; _i++ {
			bw.WriteBits(0, 8)
		}
	}
}
