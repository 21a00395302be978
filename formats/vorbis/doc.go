// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio file decoding.
//
// This package uses github.com/jfreymuth/oggvorbis to decode Ogg Vorbis
// files. Vorbis is float-native, so decoded samples are quantized to 16-bit
// integers before entering the encoding pipeline.
//
// # Decoding Vorbis Files
//
//	decoder := vorbis.Decoder{}
//	file, _ := os.Open("audio.ogg")
//	source, err := decoder.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]int32, 4096)
//	n, err := source.ReadSamples(buf)
//
// # Output Format
//
//   - Sample format: signed 16-bit integers (in int32 slots)
//   - Channels: depends on file (mono or stereo typically)
//   - Sample rate: depends on file (commonly 44.1kHz or 48kHz)
//
// For stereo files, samples are interleaved: [L0, R0, L1, R1, ...].
//
// # Limitations
//
//   - Vorbis encoding is not supported (decoding only)
//   - Quantization to 16 bits is the lossy step; everything after it is
//     preserved exactly by the FLAC encoder
package vorbis
