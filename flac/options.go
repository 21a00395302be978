// SPDX-License-Identifier: EPL-2.0

package flac

import "fmt"

const (
	// DefaultBlockSize is the number of samples per frame when Config.BlockSize
	// is left zero.
	DefaultBlockSize = 4096

	// DefaultCompressionLevel matches the libFLAC default.
	DefaultCompressionLevel = 5

	// DefaultPadding is the body size in bytes of the PADDING metadata block
	// when Config.Padding is left zero. Set Padding negative to disable it.
	DefaultPadding = 500

	maxChannels   = 8
	minBlockSize  = 16
	maxBlockSize  = 65535
	maxSampleRate = 655350
)

// Standard Vorbis comment field names, as written by most tagging tools.
const (
	TagArtist      = "ARTIST"
	TagAlbum       = "ALBUM"
	TagTitle       = "TITLE"
	TagYear        = "YEAR"
	TagTrackNumber = "TRACKNUMBER"
)

// Tag is a single Vorbis comment entry. Tags are an opaque side channel:
// they are stored in a VORBIS_COMMENT metadata block and never interleaved
// with audio frames.
type Tag struct {
	Name  string
	Value string
}

// Config describes one encoding run. It is immutable once handed to
// NewEncoder, which validates it eagerly; a zero BlockSize or Workers picks
// the default.
type Config struct {
	// SampleRate in Hz. Must be 1..655350.
	SampleRate int

	// Channels count. Must be 1..8. Channels are encoded independently.
	Channels int

	// BitsPerSample of the input samples. Must be 8..32.
	BitsPerSample int

	// CompressionLevel 0..8 controls predictor and partition search
	// exhaustiveness. Levels 0-2 use fixed predictors only; higher levels
	// enable adaptive LPC with growing order and estimate precision.
	// The zero value is a valid (fastest) level; use
	// DefaultCompressionLevel for the usual speed/ratio trade-off.
	CompressionLevel int

	// BlockSize is the number of samples per frame. 0 means
	// DefaultBlockSize; otherwise must be 16..65535.
	BlockSize int

	// Padding is the body size in bytes of a PADDING metadata block written
	// after the stream header, leaving room for later retagging without
	// rewriting audio frames. Negative disables the block; 0 means
	// DefaultPadding.
	Padding int

	// Tags are Vorbis comments stored in a VORBIS_COMMENT block.
	Tags []Tag

	// Workers > 1 encodes frames concurrently; output byte order is
	// unaffected. 0 or 1 encodes sequentially.
	Workers int
}

// levelSettings is the per-compression-level search budget.
type levelSettings struct {
	maxLPCOrder  int // 0 disables adaptive LPC
	maxPartOrder int
	exhaustive   bool // exact Rice cost for every candidate, not abs-sum proxy
}

var levels = [9]levelSettings{
	{maxLPCOrder: 0, maxPartOrder: 2},
	{maxLPCOrder: 0, maxPartOrder: 2},
	{maxLPCOrder: 0, maxPartOrder: 3},
	{maxLPCOrder: 6, maxPartOrder: 3},
	{maxLPCOrder: 8, maxPartOrder: 3},
	{maxLPCOrder: 8, maxPartOrder: 4},
	{maxLPCOrder: 8, maxPartOrder: 4, exhaustive: true},
	{maxLPCOrder: 12, maxPartOrder: 6, exhaustive: true},
	{maxLPCOrder: 32, maxPartOrder: 6, exhaustive: true},
}

// withDefaults returns a copy of c with zero-value options resolved.
func (c Config) withDefaults() Config {
	if c.BlockSize == 0 {
		c.BlockSize = DefaultBlockSize
	}
	if c.Padding == 0 {
		c.Padding = DefaultPadding
	}
	if c.Padding < 0 {
		c.Padding = 0
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return c
}

// validate checks a defaults-resolved config.
func (c Config) validate() error {
	if c.SampleRate < 1 || c.SampleRate > maxSampleRate {
		return fmt.Errorf("%w: sample rate %d out of range 1..%d", ErrInvalidInput, c.SampleRate, maxSampleRate)
	}
	if c.Channels < 1 || c.Channels > maxChannels {
		return fmt.Errorf("%w: channel count %d out of range 1..%d", ErrInvalidInput, c.Channels, maxChannels)
	}
	if c.BitsPerSample < 8 || c.BitsPerSample > 32 {
		return fmt.Errorf("%w: bit depth %d out of range 8..32", ErrInvalidInput, c.BitsPerSample)
	}
	if c.CompressionLevel < 0 || c.CompressionLevel > 8 {
		return fmt.Errorf("%w: compression level %d out of range 0..8", ErrInvalidInput, c.CompressionLevel)
	}
	if c.BlockSize < minBlockSize || c.BlockSize > maxBlockSize {
		return fmt.Errorf("%w: block size %d out of range %d..%d", ErrInvalidInput, c.BlockSize, minBlockSize, maxBlockSize)
	}
	return nil
}
