// SPDX-License-Identifier: EPL-2.0

package flac

// Fixed polynomial predictors, orders 0 through 4:
//
//	order 0: x̂[n] = 0
//	order 1: x̂[n] = x[n-1]
//	order 2: x̂[n] = 2x[n-1] - x[n-2]
//	order 3: x̂[n] = 3x[n-1] - 3x[n-2] + x[n-3]
//	order 4: x̂[n] = 4x[n-1] - 6x[n-2] + 4x[n-3] - x[n-4]

const maxFixedOrder = 4

// fixedResiduals computes the residual signal for the given fixed predictor
// order. The result has len(samples)-order entries. ok is false when any
// residual falls outside int32 range, in which case the candidate must be
// discarded (verbatim coding always remains representable).
func fixedResiduals(samples []int32, order int) (res []int32, ok bool) {
	n := len(samples)
	res = make([]int32, 0, n-order)

	appendChecked := func(r int64) bool {
		if int64(int32(r)) != r {
			return false
		}
		res = append(res, int32(r))
		return true
	}

	switch order {
	case 0:
		for i := 0; i < n; i++ {
			res = append(res, samples[i])
		}
	case 1:
		for i := 1; i < n; i++ {
			if !appendChecked(int64(samples[i]) - int64(samples[i-1])) {
				return nil, false
			}
		}
	case 2:
		for i := 2; i < n; i++ {
			p := 2*int64(samples[i-1]) - int64(samples[i-2])
			if !appendChecked(int64(samples[i]) - p) {
				return nil, false
			}
		}
	case 3:
		for i := 3; i < n; i++ {
			p := 3*int64(samples[i-1]) - 3*int64(samples[i-2]) + int64(samples[i-3])
			if !appendChecked(int64(samples[i]) - p) {
				return nil, false
			}
		}
	case 4:
		for i := 4; i < n; i++ {
			p := 4*int64(samples[i-1]) - 6*int64(samples[i-2]) + 4*int64(samples[i-3]) - int64(samples[i-4])
			if !appendChecked(int64(samples[i]) - p) {
				return nil, false
			}
		}
	}
	return res, true
}

// bestFixedOrderByProxy picks the fixed order minimizing the sum of absolute
// residuals, the cheap stand-in for coded size used at low compression
// levels. It works on successive difference sums so the five candidates cost
// one pass each over progressively shorter signals.
func bestFixedOrderByProxy(samples []int32) int {
	n := len(samples)
	maxOrder := min(maxFixedOrder, n-1)

	diff := make([]int64, n)
	for i, s := range samples {
		diff[i] = int64(s)
	}

	bestOrder := 0
	bestSum := absSum(diff)
	for order := 1; order <= maxOrder; order++ {
		// In-place forward difference: diff[i] = diff[i] - diff[i-1].
		for i := n - 1; i >= order; i-- {
			diff[i] -= diff[i-1]
		}
		sum := absSum(diff[order:])
		// Scale comparison to equal sample counts is skipped: the count
		// difference is at most 4 samples out of a whole block.
		if sum < bestSum {
			bestSum = sum
			bestOrder = order
		}
	}
	return bestOrder
}

func absSum(v []int64) uint64 {
	var sum uint64
	for _, x := range v {
		if x < 0 {
			sum += uint64(-x)
		} else {
			sum += uint64(x)
		}
	}
	return sum
}
