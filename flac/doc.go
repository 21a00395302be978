// SPDX-License-Identifier: EPL-2.0

// Package flac implements a self-contained lossless FLAC encoder with no
// native dependencies.
//
// The encoder is a straight per-frame pipeline: the sample stream is split
// into fixed-size frames, each channel of a frame is run through predictor
// selection (constant, verbatim, fixed polynomial orders 0-4, or adaptive
// LPC via Levinson-Durbin), prediction residuals are entropy-coded with
// partitioned Rice/Golomb coding, and the result is bit-packed into
// self-delimiting frames with CRC-8/CRC-16 checksums behind a stream header
// carrying the STREAMINFO metadata block.
//
// Basic use:
//
//	enc, err := flac.NewEncoder(flac.Config{
//		SampleRate:       44100,
//		Channels:         2,
//		BitsPerSample:    16,
//		CompressionLevel: flac.DefaultCompressionLevel,
//	})
//	if err != nil {
//		// invalid configuration
//	}
//	stream, err := enc.EncodePlanar(channels)
//
// The compression level (0-8) trades encoding speed for ratio by widening
// the predictor-order and Rice-partition searches. Encoding is deterministic:
// identical input and configuration produce byte-identical output.
package flac
