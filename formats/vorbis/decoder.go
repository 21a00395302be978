// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/ik5/flacenc/audio"
	"github.com/ik5/flacenc/utils"
	"github.com/jfreymuth/oggvorbis"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec      oggReader
	format   audio.Format
	frameBuf []float32 // buffer for reading frames from decoder
}

func (s *source) Format() audio.Format { return s.format }
func (s *source) Close() error         { return nil }

func (s *source) ReadSamples(dst []int32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	// oggvorbis.Reader.Read() expects a buffer sized in frames (not samples)
	// and returns the number of frames read
	channels := s.format.Channels
	framesRequested := len(dst) / channels

	if cap(s.frameBuf) < framesRequested*channels {
		s.frameBuf = make([]float32, framesRequested*channels)
	}
	s.frameBuf = s.frameBuf[:framesRequested*channels]

	framesRead, err := s.dec.Read(s.frameBuf)
	if framesRead == 0 {
		if err != nil {
			return 0, err
		}
		return 0, nil
	}

	// Vorbis is float-native; quantize to 16-bit integers
	samplesRead := framesRead * channels
	for i := 0; i < samplesRead; i++ {
		dst[i] = utils.FloatToSample(float64(s.frameBuf[i]), 16)
	}

	return samplesRead, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{
		dec: dec,
		format: audio.Format{
			SampleRate: dec.SampleRate(),
			Channels:   dec.Channels(),
			BitDepth:   16,
		},
		frameBuf: make([]float32, 4096),
	}, nil
}
