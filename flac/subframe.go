// SPDX-License-Identifier: EPL-2.0

package flac

// Subframe predictor selection. Candidates are evaluated in a fixed order
// (constant, fixed polynomial, adaptive LPC, verbatim) and the one with the
// smallest coded size wins, so identical input and compression level always
// produce the identical choice.

type subframeKind uint8

const (
	subConstant subframeKind = iota
	subVerbatim
	subFixed
	subLPC
)

// subframePlan is one channel's prediction result: everything the packer
// needs to emit the subframe.
type subframePlan struct {
	kind      subframeKind
	order     int
	coeffs    []int32 // adaptive LPC only
	shift     int     // adaptive LPC only
	residuals []int32
	rice      ricePlan
	bits      int
}

// subframe header: 1 zero pad bit + 6 type bits + 1 wasted-bits flag.
const subframeHeaderBits = 8

func allEqual(samples []int32) bool {
	for _, s := range samples[1:] {
		if s != samples[0] {
			return false
		}
	}
	return true
}

// analyzeSubframe picks the cheapest predictor for one channel of a frame.
// n is the frame's block size; the compression level bounds the search.
func analyzeSubframe(samples []int32, bps int, lvl levelSettings) subframePlan {
	n := len(samples)

	if allEqual(samples) {
		return subframePlan{kind: subConstant, bits: subframeHeaderBits + bps}
	}

	best := subframePlan{kind: subVerbatim, bits: subframeHeaderBits + n*bps}

	consider := func(p subframePlan) {
		if p.bits < best.bits {
			best = p
		}
	}

	// Fixed polynomial predictors.
	fixedOrders := []int{bestFixedOrderByProxy(samples)}
	if lvl.exhaustive {
		fixedOrders = fixedOrders[:0]
		for order := 0; order <= min(maxFixedOrder, n-1); order++ {
			fixedOrders = append(fixedOrders, order)
		}
	}
	for _, order := range fixedOrders {
		res, ok := fixedResiduals(samples, order)
		if !ok {
			continue
		}
		plan := bestRicePlan(res, n, order, lvl.maxPartOrder)
		consider(subframePlan{
			kind:      subFixed,
			order:     order,
			residuals: res,
			rice:      plan,
			bits:      subframeHeaderBits + order*bps + plan.bits,
		})
	}

	// Adaptive LPC.
	if lvl.maxLPCOrder > 0 && n > 1 {
		maxOrder := min(lvl.maxLPCOrder, n-1)
		autoc := autocorrelate(samples, maxOrder)
		if autoc[0] > 0 {
			coeffs, errs := levinson(autoc, maxOrder)
			if len(coeffs) > 0 {
				orders := []int{estimateLPCOrder(errs, n, bps)}
				if lvl.exhaustive {
					orders = orders[:0]
					for order := 1; order <= len(coeffs); order++ {
						orders = append(orders, order)
					}
				}
				for _, order := range orders {
					consider(analyzeLPCOrder(samples, coeffs[order-1], bps, lvl))
				}
			}
		}
	}

	return best
}

// analyzeLPCOrder quantizes one candidate order's coefficients and costs the
// resulting subframe. An unusable candidate (quantization overflow, residual
// overflow) comes back with a worse-than-verbatim size so it never wins.
func analyzeLPCOrder(samples []int32, coeffs []float64, bps int, lvl levelSettings) subframePlan {
	unusable := subframePlan{bits: int(^uint(0) >> 1)}

	q, shift, err := quantizeCoeffs(coeffs)
	if err != nil {
		return unusable
	}
	res, ok := lpcResiduals(samples, q, shift)
	if !ok {
		return unusable
	}

	n := len(samples)
	order := len(q)
	plan := bestRicePlan(res, n, order, lvl.maxPartOrder)
	return subframePlan{
		kind:      subLPC,
		order:     order,
		coeffs:    q,
		shift:     shift,
		residuals: res,
		rice:      plan,
		bits:      subframeHeaderBits + order*bps + 4 + 5 + order*qlpPrecision + plan.bits,
	}
}

// writeSubframe packs one subframe: header, warmup samples, predictor
// parameters and coded residuals.
func writeSubframe(bw *bitWriter, plan subframePlan, samples []int32, bps int) error {
	n := len(samples)

	var tag uint64
	switch plan.kind {
	case subConstant:
		tag = 0x00
	case subVerbatim:
		tag = 0x01
	case subFixed:
		tag = 0x08 | uint64(plan.order)
	case subLPC:
		tag = 0x20 | uint64(plan.order-1)
	}

	bw.WriteBits(0, 1) // zero padding
	bw.WriteBits(tag, 6)
	bw.WriteBits(0, 1) // no wasted bits

	switch plan.kind {
	case subConstant:
		bw.WriteSigned(int64(samples[0]), uint(bps))
		return nil
	case subVerbatim:
		for _, s := range samples {
			bw.WriteSigned(int64(s), uint(bps))
		}
		return nil
	case subFixed:
		for _, s := range samples[:plan.order] {
			bw.WriteSigned(int64(s), uint(bps))
		}
		return writeResiduals(bw, plan.rice, plan.residuals, n, plan.order)
	case subLPC:
		for _, s := range samples[:plan.order] {
			bw.WriteSigned(int64(s), uint(bps))
		}
		bw.WriteBits(uint64(qlpPrecision-1), 4)
		bw.WriteBits(uint64(plan.shift), 5)
		for _, c := range plan.coeffs {
			bw.WriteSigned(int64(c), qlpPrecision)
		}
		return writeResiduals(bw, plan.rice, plan.residuals, n, plan.order)
	}
	return nil
}
