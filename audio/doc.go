// SPDX-License-Identifier: EPL-2.0

// Package audio provides the integer-PCM primitives feeding the encoder.
//
// This package contains the building blocks shared by the format decoders
// and the FLAC encoding pipeline:
//   - Source interface for integer PCM input
//   - Format registry for decoder registration
//   - planar/interleaved layout conversion
//
// # Source Interface
//
// The Source interface is the foundation of the input side:
//
//	type Source interface {
//	    Format() Format
//	    ReadSamples(dst []int32) (int, error)
//	    Close() error
//	}
//
// Unlike float-normalized processing pipelines, sources here keep samples at
// their native bit depth: a 24-bit WAV sample arrives as the exact signed
// 24-bit integer the file stores, which is what a lossless encoder must see.
//
// # Collecting Samples
//
// The encoder consumes complete planar buffers. ReadAll drains a source:
//
//	src, _ := wav.Decoder{}.Decode(file)
//	channels, err := audio.ReadAll(src)
//	// channels[ch][i] is sample i of channel ch
package audio
