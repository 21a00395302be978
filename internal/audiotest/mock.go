// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"io"
	"math"

	"github.com/ik5/flacenc/audio"
)

// MockSource is a test helper that generates integer PCM data for testing.
// It implements the audio.Source interface.
type MockSource struct {
	sampleRate   int
	channels     int
	bitDepth     int
	totalSamples int // Total samples to generate (per channel)
	generated    int // Samples generated so far (per channel)
	waveform     func(sample int, channel int) int32
}

// NewMockSource creates a new mock audio source.
// totalSamples is the total number of samples per channel to generate.
// waveform generates sample values given sample index and channel.
func NewMockSource(sampleRate, channels, bitDepth, totalSamples int, waveform func(sample int, channel int) int32) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		bitDepth:     bitDepth,
		totalSamples: totalSamples,
		generated:    0,
		waveform:     waveform,
	}
}

// NewSilentSource creates a mock source that generates silence (all zeros).
func NewSilentSource(sampleRate, channels, bitDepth, totalSamples int) *MockSource {
	return NewMockSource(sampleRate, channels, bitDepth, totalSamples, func(sample int, channel int) int32 {
		return 0
	})
}

// NewSineSource creates a mock source that generates a sine wave at the
// given frequency, scaled to half the depth's full scale.
func NewSineSource(sampleRate, channels, bitDepth, totalSamples int, frequency float64) *MockSource {
	amplitude := float64(int64(1)<<(bitDepth-1)) / 2
	return NewMockSource(sampleRate, channels, bitDepth, totalSamples, func(sample int, channel int) int32 {
		t := float64(sample) / float64(sampleRate)
		return int32(amplitude * math.Sin(2*math.Pi*frequency*t))
	})
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(sampleRate, channels, bitDepth, totalSamples int, value int32) *MockSource {
	return NewMockSource(sampleRate, channels, bitDepth, totalSamples, func(sample int, channel int) int32 {
		return value
	})
}

// NewFullScaleSource creates a mock source alternating between the depth's
// maximum and minimum representable sample values.
func NewFullScaleSource(sampleRate, channels, bitDepth, totalSamples int) *MockSource {
	maxSample := int32(int64(1)<<(bitDepth-1) - 1)
	minSample := int32(-(int64(1) << (bitDepth - 1)))
	return NewMockSource(sampleRate, channels, bitDepth, totalSamples, func(sample int, channel int) int32 {
		if sample%2 == 0 {
			return maxSample
		}
		return minSample
	})
}

func (m *MockSource) Format() audio.Format {
	return audio.Format{
		SampleRate: m.sampleRate,
		Channels:   m.channels,
		BitDepth:   m.bitDepth,
	}
}

func (m *MockSource) Close() error { return nil }

// Reset resets the generated sample counter to allow re-reading.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []int32) (int, error) {
	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	framesRequested := len(dst) / m.channels
	framesAvailable := m.totalSamples - m.generated
	framesToWrite := min(framesRequested, framesAvailable)

	for frame := 0; frame < framesToWrite; frame++ {
		sampleIndex := m.generated + frame
		for ch := 0; ch < m.channels; ch++ {
			dst[frame*m.channels+ch] = m.waveform(sampleIndex, ch)
		}
	}

	m.generated += framesToWrite
	samplesWritten := framesToWrite * m.channels

	if m.generated >= m.totalSamples {
		return samplesWritten, io.EOF
	}

	return samplesWritten, nil
}
