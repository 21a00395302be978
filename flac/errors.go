// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

var (
	// ErrInvalidInput reports a malformed sample buffer or configuration:
	// mismatched per-channel sample counts, an unsupported bit depth or
	// sample rate, or an out-of-range encoder option.
	ErrInvalidInput = errors.New("flac: invalid input")

	// ErrEncodingOverflow reports a residual or quantized predictor
	// coefficient that does not fit its representable range.
	ErrEncodingOverflow = errors.New("flac: encoding overflow")

	// ErrFormatViolation reports a broken internal invariant: a field value
	// wider than the bit slot the format declares for it.
	ErrFormatViolation = errors.New("flac: format violation")
)
