// SPDX-License-Identifier: EPL-2.0

// Package flacenc provides lossless FLAC encoding for Go applications.
//
// This package offers convenient functions for encoding PCM audio to FLAC
// without any native dependencies: the whole pipeline (prediction, Rice
// coding, bitstream packing) is implemented in Go by the flac subpackage.
//
// # Supported Inputs
//
// The package encodes from several sample layouts:
//   - planar int32 slices (one per channel) via flac.Encoder
//   - interleaved int32 slices via flac.Encoder
//   - normalized float slices in [-1, 1] via EncodeFloatPlanar
//   - streaming audio.Source values via EncodeSource
//   - go-audio IntBuffer values via EncodeBuffer
//
// and decodes source material from the formats subpackages:
//   - WAV (8/16/24/32-bit PCM) via formats/wav
//   - AIFF via formats/aiff
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//
// # Quick Start
//
// The simplest way to produce a FLAC stream from a decoded file:
//
//	decoder := wav.Decoder{}
//	file, _ := os.Open("audio.wav")
//	src, _ := decoder.Decode(file)
//
//	stream, err := flacenc.EncodeSource(src, flac.DefaultCompressionLevel)
//
//	// stream is a complete FLAC file image
//
// # Direct Encoding
//
// For full control, configure the encoder directly:
//
//	enc, err := flac.NewEncoder(flac.Config{
//		SampleRate:       44100,
//		Channels:         2,
//		BitsPerSample:    16,
//		CompressionLevel: 8,
//		Tags: []flac.Tag{
//			{Name: flac.TagArtist, Value: "..."},
//			{Name: flac.TagTitle, Value: "..."},
//		},
//	})
//	stream, err := enc.EncodePlanar(channels)
//
// # Lossless Guarantee
//
// Decoding the produced stream with any compliant FLAC decoder reproduces
// the input samples bit for bit, and the STREAMINFO block carries an MD5 of
// the unencoded audio so decoders can verify it. Encoding is deterministic:
// the same input and configuration always produce byte-identical output.
//
// See the individual subpackages for more detailed documentation.
package flacenc
