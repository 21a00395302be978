// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MP3 files.
// It provides a simple interface for reading MP3 audio as integer PCM
// samples, suitable for re-encoding losslessly.
//
// # Decoding MP3 Files
//
//	decoder := mp3.Decoder{}
//	file, _ := os.Open("audio.mp3")
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
// MP3 decoder output:
//   - Sample format: signed 16-bit integers (in int32 slots)
//   - Channels: 2 (stereo)
//   - Sample rate: depends on the MP3 file (typically 44.1kHz or 48kHz)
//
// # Limitations
//
//   - MP3 writing is not supported (decoding only)
//   - Output is always stereo
//
// Note that MP3 is lossy: encoding the decoded samples to FLAC preserves
// the decoder's output exactly, not the audio that was lost when the MP3
// was made.
package mp3
