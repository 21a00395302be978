// SPDX-License-Identifier: EPL-2.0

package utils

// FloatToSample converts a normalized float sample in [-1, 1] to a signed
// integer at the given bit depth. Values outside [-1, 1] are clamped, and
// the positive end saturates at the depth's maximum representable value.
func FloatToSample(x float64, bitDepth int) int32 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	scale := float64(int64(1) << (bitDepth - 1))
	v := int64(x * scale)

	maxSample := int64(1)<<(bitDepth-1) - 1
	if v > maxSample {
		v = maxSample
	}
	return int32(v)
}

// FloatsToSamples batch-converts normalized float samples into dst, which
// must be at least len(src) long. It returns the number converted.
func FloatsToSamples(dst []int32, src []float64, bitDepth int) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = FloatToSample(src[i], bitDepth)
	}
	return n
}
