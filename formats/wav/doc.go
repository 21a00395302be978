// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV (RIFF) audio file decoding.
//
// It uses the github.com/go-audio library for robust WAV file handling.
//
// # Supported Formats
//
// The decoder supports:
//   - PCM WAV at 8, 16, 24 and 32 bits per sample
//   - Mono and multi-channel files
//   - Any sample rate
//
// # Decoding WAV Files
//
// Use the Decoder to read WAV files:
//
//	decoder := wav.Decoder{}
//	file, _ := os.Open("audio.wav")
//	source, err := decoder.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	// Read interleaved integer samples at native bit depth
//	buf := make([]int32, 4096)
//	n, err := source.ReadSamples(buf)
//
// Samples keep their exact stored values: a 24-bit WAV sample arrives as a
// signed 24-bit integer, which is what a lossless encoding pipeline needs.
// When the input is not an io.ReadSeeker the decoder buffers it in memory
// first (a go-audio requirement).
//
// # Error Handling
//
//   - ErrNotWavFile: the input is not a valid WAV file
//   - ErrUnsupportedBitDepth: bit depth other than 8/16/24/32
//   - ErrUnsupportedWavLayout: unusual chunk layout
package wav
