// SPDX-License-Identifier: EPL-2.0

package flacenc

import (
	"fmt"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/flacenc/audio"
	"github.com/ik5/flacenc/flac"
	"github.com/ik5/flacenc/utils"
)

// EncodeSource is a high-level convenience function that drains an audio
// source and encodes everything it produced as a FLAC stream.
//
// The function builds the encoding pipeline:
//  1. Reads all samples from the source into planar buffers
//  2. Configures an encoder from the source's format
//  3. Runs the segmenter -> predictor -> Rice coder -> packer pipeline
//
// Parameters:
//   - src: The audio source to encode (implements audio.Source)
//   - level: Compression level 0-8 (see flac.Config.CompressionLevel)
//   - tags: Optional Vorbis comments stored in the stream's metadata
//
// Returns the complete FLAC stream, or an error from decoding or encoding.
//
// Example:
//
//	src, _ := decoder.Decode(file)
//	stream, err := flacenc.EncodeSource(src, flac.DefaultCompressionLevel)
//	if err != nil {
//	    // handle error
//	}
//	os.WriteFile("out.flac", stream, 0o644)
func EncodeSource(src audio.Source, level int, tags ...flac.Tag) ([]byte, error) {
	channels, err := audio.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}

	format := src.Format()
	enc, err := flac.NewEncoder(flac.Config{
		SampleRate:       format.SampleRate,
		Channels:         format.Channels,
		BitsPerSample:    format.BitDepth,
		CompressionLevel: level,
		Tags:             tags,
	})
	if err != nil {
		return nil, err
	}

	return enc.EncodePlanar(channels)
}

// EncodeBuffer encodes a go-audio IntBuffer as a FLAC stream. The buffer's
// SourceBitDepth is honored when set; otherwise 16 bits is assumed.
func EncodeBuffer(buf *goaudio.IntBuffer, level int, tags ...flac.Tag) ([]byte, error) {
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("%w: nil buffer or format", flac.ErrInvalidInput)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}

	enc, err := flac.NewEncoder(flac.Config{
		SampleRate:       buf.Format.SampleRate,
		Channels:         buf.Format.NumChannels,
		BitsPerSample:    bitDepth,
		CompressionLevel: level,
		Tags:             tags,
	})
	if err != nil {
		return nil, err
	}

	samples := make([]int32, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = int32(s)
	}
	return enc.EncodeInterleaved(samples)
}

// EncodeFloatPlanar encodes planar normalized float samples in [-1, 1],
// quantizing each channel to bitDepth bits before lossless encoding.
func EncodeFloatPlanar(data [][]float64, sampleRate, bitDepth, level int, tags ...flac.Tag) ([]byte, error) {
	enc, err := flac.NewEncoder(flac.Config{
		SampleRate:       sampleRate,
		Channels:         len(data),
		BitsPerSample:    bitDepth,
		CompressionLevel: level,
		Tags:             tags,
	})
	if err != nil {
		return nil, err
	}

	channels := make([][]int32, len(data))
	for ch := range data {
		channels[ch] = make([]int32, len(data[ch]))
		utils.FloatsToSamples(channels[ch], data[ch], bitDepth)
	}
	return enc.EncodePlanar(channels)
}

// EncodeFloatInterleaved encodes interleaved normalized float samples in
// [-1, 1] with stride = channels, quantizing to bitDepth bits.
func EncodeFloatInterleaved(data []float64, channels, sampleRate, bitDepth, level int, tags ...flac.Tag) ([]byte, error) {
	enc, err := flac.NewEncoder(flac.Config{
		SampleRate:       sampleRate,
		Channels:         channels,
		BitsPerSample:    bitDepth,
		CompressionLevel: level,
		Tags:             tags,
	})
	if err != nil {
		return nil, err
	}

	samples := make([]int32, len(data))
	utils.FloatsToSamples(samples, data, bitDepth)
	return enc.EncodeInterleaved(samples)
}
