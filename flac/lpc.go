// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"
	"math"
)

// Adaptive LPC analysis: windowed autocorrelation estimates feed a
// Levinson-Durbin recursion, and the float coefficients of the chosen order
// are quantized to integer precision with a shared right shift.

const (
	// qlpPrecision is the coefficient precision in bits. The subframe header
	// stores precision-1 in 4 bits, so 15 is the format maximum.
	qlpPrecision = 15

	// maxQLPShift is the largest coefficient shift; the 5-bit shift field is
	// signed but negative shifts are pathological and never emitted.
	maxQLPShift = 15
)

// autocorrelate returns autocorrelation estimates for lags 0..maxLag of the
// Welch-windowed input signal.
func autocorrelate(samples []int32, maxLag int) []float64 {
	n := len(samples)

	// Welch window: 1 - ((i - (n-1)/2) / ((n-1)/2))^2.
	windowed := make([]float64, n)
	half := float64(n-1) / 2
	for i, s := range samples {
		x := (float64(i) - half) / half
		windowed[i] = float64(s) * (1 - x*x)
	}

	autoc := make([]float64, maxLag+1)
	for lag := 0; lag <= maxLag; lag++ {
		var sum float64
		for i := lag; i < n; i++ {
			sum += windowed[i] * windowed[i-lag]
		}
		autoc[lag] = sum
	}
	return autoc
}

// levinson runs the Levinson-Durbin recursion over autocorrelation
// estimates, returning the LPC coefficients for every order 1..maxOrder and
// the prediction error per order. coeffs[k] holds order k+1.
func levinson(autoc []float64, maxOrder int) (coeffs [][]float64, errs []float64) {
	coeffs = make([][]float64, maxOrder)
	errs = make([]float64, maxOrder+1)
	errs[0] = autoc[0]

	lpc := make([]float64, maxOrder)
	for i := 0; i < maxOrder; i++ {
		if errs[i] <= 0 {
			// Degenerate signal (silence or exactly predictable); shorter
			// orders already capture it.
			coeffs = coeffs[:i]
			errs = errs[:i+1]
			return coeffs, errs
		}

		// Reflection coefficient.
		r := -autoc[i+1]
		for j := 0; j < i; j++ {
			r -= lpc[j] * autoc[i-j]
		}
		r /= errs[i]

		lpc[i] = r
		for j := 0; j < i/2; j++ {
			tmp := lpc[j]
			lpc[j] += r * lpc[i-1-j]
			lpc[i-1-j] += r * tmp
		}
		if i%2 != 0 {
			lpc[i/2] += lpc[i/2] * r
		}

		errs[i+1] = errs[i] * (1 - r*r)

		order := make([]float64, i+1)
		for j := range order {
			order[j] = -lpc[j]
		}
		coeffs[i] = order
	}
	return coeffs, errs
}

// estimateLPCOrder picks the order whose expected coded size is smallest,
// using the standard bits-per-residual estimate from the prediction error.
func estimateLPCOrder(errs []float64, n, bps int) int {
	bestOrder := 1
	bestBits := math.Inf(1)
	for order := 1; order < len(errs); order++ {
		headerBits := float64(order*bps + order*qlpPrecision + 4 + 5)
		perSample := 0.5 * math.Log2(errs[order]/float64(n))
		if perSample < 0 {
			perSample = 0
		}
		bits := headerBits + float64(n-order)*(perSample+1)
		if bits < bestBits {
			bestBits = bits
			bestOrder = order
		}
	}
	return bestOrder
}

// quantizeCoeffs converts float LPC coefficients to integers at qlpPrecision
// bits plus a shared right shift, carrying the rounding error forward so
// quantization noise does not accumulate in one direction.
func quantizeCoeffs(coeffs []float64) (q []int32, shift int, err error) {
	cmax := 0.0
	for _, c := range coeffs {
		if a := math.Abs(c); a > cmax {
			cmax = a
		}
	}
	if cmax <= 0 {
		return nil, 0, fmt.Errorf("%w: all-zero predictor coefficients", ErrEncodingOverflow)
	}

	// cmax = m * 2^exp with m in [0.5, 1), so cmax*2^shift stays below
	// 2^(qlpPrecision-1) and fits the signed coefficient field.
	_, exp := math.Frexp(cmax)
	shift = qlpPrecision - 1 - exp
	if shift > maxQLPShift {
		shift = maxQLPShift
	}
	if shift < 0 {
		// Coefficients too large for a non-negative shift; the format could
		// express this with a negative shift but common decoders reject it.
		return nil, 0, fmt.Errorf("%w: coefficient magnitude %g requires negative shift", ErrEncodingOverflow, cmax)
	}

	const qmax = 1<<(qlpPrecision-1) - 1
	const qmin = -(1 << (qlpPrecision - 1))

	q = make([]int32, len(coeffs))
	e := 0.0
	for i, c := range coeffs {
		v := c*float64(int64(1)<<shift) + e
		r := math.Round(v)
		if r > qmax {
			r = qmax
		} else if r < qmin {
			r = qmin
		}
		e = v - r
		q[i] = int32(r)
	}
	return q, shift, nil
}

// lpcResiduals computes prediction residuals for quantized coefficients.
// ok is false when a residual exceeds int32 range.
func lpcResiduals(samples []int32, coeffs []int32, shift int) (res []int32, ok bool) {
	order := len(coeffs)
	res = make([]int32, 0, len(samples)-order)
	for i := order; i < len(samples); i++ {
		var pred int64
		for j, c := range coeffs {
			pred += int64(c) * int64(samples[i-1-j])
		}
		r := int64(samples[i]) - pred>>shift
		if int64(int32(r)) != r {
			return nil, false
		}
		res = append(res, int32(r))
	}
	return res, true
}
