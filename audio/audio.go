// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"sync"
)

// Format describes a PCM stream. Samples are signed integers at BitDepth
// bits, kept at their native magnitude so lossless encoding sees exact
// values.
type Format struct {
	// SampleRate of the PCM stream in Hz.
	SampleRate int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels int
	// BitDepth of each sample in bits (8-32).
	BitDepth int
}

// Source is a finite stream of integer PCM samples.
type Source interface {
	Format() Format

	// ReadSamples fills dst with interleaved samples at the source's native
	// bit depth. Returns the number of int32 values written (not frames).
	// When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []int32) (n int, err error)

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg vorbis").
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[format] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[format]
	return d, ok
}

// ReadAll drains src and returns its samples in planar layout, one slice per
// channel. Per-channel slices always come back with equal lengths.
func ReadAll(src Source) ([][]int32, error) {
	format := src.Format()
	channels := make([][]int32, format.Channels)
	for ch := range channels {
		channels[ch] = []int32{}
	}

	buf := make([]int32, 4096*format.Channels)
	for {
		n, err := src.ReadSamples(buf)
		// Drop any trailing partial frame; decoders produce whole frames.
		n -= n % format.Channels
		for i := 0; i < n; i += format.Channels {
			for ch := range channels {
				channels[ch] = append(channels[ch], buf[i+ch])
			}
		}

		if err == io.EOF {
			return channels, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// Interleave converts planar samples to a single interleaved slice with
// stride = channel count. Per-channel lengths must match.
func Interleave(channels [][]int32) ([]int32, error) {
	if len(channels) == 0 {
		return nil, nil
	}
	n := len(channels[0])
	for _, ch := range channels {
		if len(ch) != n {
			return nil, ErrChannelMismatch
		}
	}

	out := make([]int32, 0, n*len(channels))
	for i := 0; i < n; i++ {
		for ch := range channels {
			out = append(out, channels[ch][i])
		}
	}
	return out, nil
}

// Deinterleave converts interleaved samples (stride = channels) to planar
// layout.
func Deinterleave(samples []int32, channels int) ([][]int32, error) {
	if channels < 1 {
		return nil, ErrChannelMismatch
	}
	if len(samples)%channels != 0 {
		return nil, ErrInvalidDstSize
	}

	n := len(samples) / channels
	out := make([][]int32, channels)
	for ch := range out {
		out[ch] = make([]int32, n)
	}
	for i := 0; i < n; i++ {
		for ch := range out {
			out[ch][i] = samples[i*channels+ch]
		}
	}
	return out, nil
}
