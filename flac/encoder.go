// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"crypto/md5"
	"fmt"
	"io"
	"sync"
)

// Encoder turns raw PCM sample buffers into a FLAC stream. An Encoder is
// immutable after NewEncoder and safe for concurrent use; each encode call
// is an independent pipeline run.
//
// The pipeline per frame is: segmenter -> per-channel predictor -> residual
// coder -> bitstream packer -> writer. Frames are independent, so with
// Config.Workers > 1 they are encoded concurrently and reassembled in frame
// order before any byte is emitted.
type Encoder struct {
	cfg Config
	lvl levelSettings
}

// NewEncoder validates cfg eagerly and returns an encoder for it.
func NewEncoder(cfg Config) (*Encoder, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Encoder{cfg: cfg, lvl: levels[cfg.CompressionLevel]}, nil
}

// Config returns the defaults-resolved configuration the encoder runs with.
func (e *Encoder) Config() Config { return e.cfg }

// EncodePlanar encodes planar samples (one slice per channel, equal lengths)
// and returns the complete FLAC stream.
func (e *Encoder) EncodePlanar(channels [][]int32) ([]byte, error) {
	if err := validatePlanar(channels, e.cfg); err != nil {
		return nil, err
	}

	si := streamInfo{cfg: e.cfg}
	if len(channels) > 0 {
		si.totalSamples = int64(len(channels[0]))
	}
	if err := e.checksum(channels, &si); err != nil {
		return nil, err
	}

	frames, err := e.encodeFrames(newSegmenter(channels, e.cfg.BlockSize))
	if err != nil {
		return nil, err
	}

	total := 0
	for _, fb := range frames {
		si.observeFrame(len(fb))
		total += len(fb)
	}

	bw := newBitWriter(total + streamInfoLen + e.cfg.Padding + 128)
	writeStreamHeader(bw, si)
	out := bw.Bytes()
	for _, fb := range frames {
		out = append(out, fb...)
	}
	return out, nil
}

// EncodeInterleaved encodes interleaved samples (stride = channel count)
// and returns the complete FLAC stream.
func (e *Encoder) EncodeInterleaved(samples []int32) ([]byte, error) {
	if len(samples)%e.cfg.Channels != 0 {
		return nil, fmt.Errorf("%w: %d interleaved samples not a multiple of %d channels",
			ErrInvalidInput, len(samples), e.cfg.Channels)
	}

	n := len(samples) / e.cfg.Channels
	channels := make([][]int32, e.cfg.Channels)
	for ch := range channels {
		channels[ch] = make([]int32, n)
	}
	for i := 0; i < n; i++ {
		base := i * e.cfg.Channels
		for ch := range channels {
			channels[ch][i] = samples[base+ch]
		}
	}
	return e.EncodePlanar(channels)
}

// WritePlanar encodes planar samples and flushes the stream to w. On a sink
// failure the returned error wraps the sink's; bytes already written are
// never rolled back, so a failed encode requires a clean sink to restart.
func (e *Encoder) WritePlanar(w io.Writer, channels [][]int32) error {
	stream, err := e.EncodePlanar(channels)
	if err != nil {
		return err
	}
	if _, err := w.Write(stream); err != nil {
		return fmt.Errorf("flac: writing stream: %w", err)
	}
	return nil
}

// WriteInterleaved encodes interleaved samples and flushes the stream to w.
func (e *Encoder) WriteInterleaved(w io.Writer, samples []int32) error {
	stream, err := e.EncodeInterleaved(samples)
	if err != nil {
		return err
	}
	if _, err := w.Write(stream); err != nil {
		return fmt.Errorf("flac: writing stream: %w", err)
	}
	return nil
}

// checksum computes the STREAMINFO MD5 over the unencoded audio: samples
// interleaved, little-endian, at the byte width of the configured depth. The
// same pass rejects samples outside the configured depth's range.
func (e *Encoder) checksum(channels [][]int32, si *streamInfo) error {
	bps := e.cfg.BitsPerSample
	bytesPerSample := (bps + 7) / 8
	maxSample := int64(1)<<(bps-1) - 1
	minSample := -(int64(1) << (bps - 1))

	h := md5.New()
	buf := make([]byte, 0, 4096)

	n := 0
	if len(channels) > 0 {
		n = len(channels[0])
	}
	for i := 0; i < n; i++ {
		for ch := range channels {
			s := channels[ch][i]
			if int64(s) < minSample || int64(s) > maxSample {
				return fmt.Errorf("%w: sample %d on channel %d out of %d-bit range",
					ErrInvalidInput, s, ch, bps)
			}
			v := uint32(s)
			for b := 0; b < bytesPerSample; b++ {
				buf = append(buf, byte(v>>(8*b)))
			}
		}
		if len(buf) >= 4096-maxChannels*4 {
			h.Write(buf)
			buf = buf[:0]
		}
	}
	if len(buf) > 0 {
		h.Write(buf)
	}
	copy(si.md5[:], h.Sum(nil))
	return nil
}

// encodeFrames packs every frame the segmenter produces. With Workers > 1
// frames are computed out of order and reassembled by index, preserving the
// output ordering invariant: frame N's bytes precede frame N+1's.
func (e *Encoder) encodeFrames(seg *segmenter) ([][]byte, error) {
	out := make([][]byte, seg.NumFrames())

	if e.cfg.Workers <= 1 {
		for {
			f, ok := seg.Next()
			if !ok {
				return out, nil
			}
			fb, err := encodeFrame(f, e.cfg, e.lvl)
			if err != nil {
				return nil, err
			}
			out[f.index] = fb
		}
	}

	jobs := make(chan frame, e.cfg.Workers)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for _i := 0; _i < e.cfg.Workers; _i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobs {
				fb, err := encodeFrame(f, e.cfg, e.lvl)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					continue
				}
				out[f.index] = fb
			}
		}()
	}

	for {
		f, ok := seg.Next()
		if !ok {
			break
		}
		jobs <- f
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
