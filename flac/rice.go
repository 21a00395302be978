// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"
	"math/bits"
)

// Rice/Golomb residual coding. Each subframe's residuals are split into
// 2^partOrder equal partitions sharing one Rice parameter each; the quotient
// goes out in unary, the remainder in k fixed bits. A partition whose
// residuals code poorly escapes to raw two's complement at a declared width.

const (
	riceMethodRice1 = 0 // 4-bit Rice parameters
	riceMethodRice2 = 1 // 5-bit Rice parameters

	riceEscape1 = 0x0F
	riceEscape2 = 0x1F

	maxRiceParam1 = 14
	maxRiceParam2 = 30

	// maxEscapeWidth is the widest raw residual an escaped partition can
	// declare in its 5-bit width field. Full int32-range residuals need 32
	// bits and must stay Rice coded.
	maxEscapeWidth = 31
)

// ricePartition is one partition's coding choice.
type ricePartition struct {
	param   uint // Rice parameter; ignored when escaped
	escaped bool
	rawBits uint // bits per raw residual in an escaped partition
	bits    int  // coded size of the partition's residuals, excluding the parameter field
}

// ricePlan is a complete residual coding decision for one subframe.
type ricePlan struct {
	method     int
	partOrder  int
	partitions []ricePartition
	bits       int // total residual section size: method + order + params + payloads
}

// zigzag folds a signed residual into the unsigned value Rice coding
// operates on: 0,-1,1,-2,2,... -> 0,1,2,3,4,...
func zigzag(v int32) uint32 {
	return uint32(v<<1) ^ uint32(v>>31)
}

// maxPartitionOrder returns the largest usable partition order: the block
// size must divide evenly into 2^order partitions and the first partition
// must keep at least one residual after the warmup samples.
func maxPartitionOrder(blockSize, predOrder, limit int) int {
	order := 0
	for order < limit &&
		blockSize%(1<<(order+1)) == 0 &&
		blockSize>>(order+1) > predOrder {
		order++
	}
	return order
}

// bestRiceParam finds the Rice parameter minimizing the coded size of the
// folded residuals. The closed-form guess from the mean folded value is
// refined by exact bit counts over a small neighborhood.
func bestRiceParam(folded []uint32, maxParam uint) (param uint, bits int) {
	n := len(folded)
	if n == 0 {
		return 0, 0
	}

	var sum uint64
	for _, v := range folded {
		sum += uint64(v)
	}

	mean := sum / uint64(n)
	guess := uint(0)
	if mean > 0 {
		guess = uint(bits64Len(mean)) - 1
	}

	lo := 0
	if int(guess) > 1 {
		lo = int(guess) - 1
	}
	hi := min(int(guess)+2, int(maxParam))

	bestBits := -1
	for k := lo; k <= hi; k++ {
		total := n * (k + 1)
		for _, v := range folded {
			total += int(v >> uint(k))
		}
		if bestBits < 0 || total < bestBits {
			bestBits = total
			param = uint(k)
		}
	}
	return param, bestBits
}

func bits64Len(v uint64) int { return bits.Len64(v) }

// escapeWidth returns the smallest two's complement width holding every
// residual in the slice. Width 0 means all residuals are zero.
func escapeWidth(res []int32) uint {
	var width int
	for _, r := range res {
		var need int
		if r < 0 {
			need = 33 - bits.LeadingZeros32(uint32(^r)) // sign bit + magnitude
		} else if r > 0 {
			need = 33 - bits.LeadingZeros32(uint32(r))
		}
		if need > width {
			width = need
		}
	}
	return uint(width)
}

// planPartitions codes one candidate partition order, choosing per-partition
// Rice parameters or escapes.
func planPartitions(residuals []int32, folded []uint32, blockSize, predOrder, partOrder int) ricePlan {
	nparts := 1 << partOrder
	partLen := blockSize / nparts

	plan := ricePlan{
		partOrder:  partOrder,
		partitions: make([]ricePartition, nparts),
	}

	maxParam := uint(maxRiceParam2)
	start := 0
	for i := 0; i < nparts; i++ {
		count := partLen
		if i == 0 {
			count -= predOrder
		}
		slice := folded[start : start+count]
		raw := residuals[start : start+count]

		param, riceBits := bestRiceParam(slice, maxParam)
		width := escapeWidth(raw)
		escBits := 5 + count*int(width)

		p := &plan.partitions[i]
		if width <= maxEscapeWidth && escBits < riceBits {
			p.escaped = true
			p.rawBits = width
			p.bits = escBits
		} else {
			p.param = param
			p.bits = riceBits
		}
		if !p.escaped && p.param > uint(maxRiceParam1) {
			plan.method = riceMethodRice2
		}

		start += count
	}

	paramSize := 4
	if plan.method == riceMethodRice2 {
		paramSize = 5
	}
	plan.bits = 2 + 4 + nparts*paramSize
	for i := range plan.partitions {
		plan.bits += plan.partitions[i].bits
	}
	return plan
}

// bestRicePlan searches partition orders 0..limit exhaustively and returns
// the cheapest coding plan for the residuals of one subframe.
func bestRicePlan(residuals []int32, blockSize, predOrder, limit int) ricePlan {
	folded := make([]uint32, len(residuals))
	for i, r := range residuals {
		folded[i] = zigzag(r)
	}

	maxOrder := maxPartitionOrder(blockSize, predOrder, limit)
	best := planPartitions(residuals, folded, blockSize, predOrder, 0)
	for order := 1; order <= maxOrder; order++ {
		if plan := planPartitions(residuals, folded, blockSize, predOrder, order); plan.bits < best.bits {
			best = plan
		}
	}
	return best
}

// writeResiduals emits the residual coding method, partition order and all
// partitions per the plan.
func writeResiduals(bw *bitWriter, plan ricePlan, residuals []int32, blockSize, predOrder int) error {
	bw.WriteBits(uint64(plan.method), 2)
	bw.WriteBits(uint64(plan.partOrder), 4)

	paramSize := uint(4)
	escape := uint64(riceEscape1)
	maxParam := uint(maxRiceParam1)
	if plan.method == riceMethodRice2 {
		paramSize = 5
		escape = riceEscape2
		maxParam = maxRiceParam2
	}

	nparts := 1 << plan.partOrder
	partLen := blockSize / nparts
	start := 0
	for i := 0; i < nparts; i++ {
		count := partLen
		if i == 0 {
			count -= predOrder
		}
		slice := residuals[start : start+count]
		part := plan.partitions[i]

		if part.escaped {
			if part.rawBits > maxEscapeWidth {
				return fmt.Errorf("%w: escape width %d exceeds 5-bit field", ErrFormatViolation, part.rawBits)
			}
			bw.WriteBits(escape, paramSize)
			bw.WriteBits(uint64(part.rawBits), 5)
			for _, r := range slice {
				bw.WriteSigned(int64(r), part.rawBits)
			}
		} else {
			if part.param > maxParam {
				return fmt.Errorf("%w: rice parameter %d exceeds %d-bit field", ErrFormatViolation, part.param, paramSize)
			}
			bw.WriteBits(uint64(part.param), paramSize)
			for _, r := range slice {
				folded := zigzag(r)
				bw.WriteUnary(folded >> part.param)
				bw.WriteBits(uint64(folded), part.param)
			}
		}
		start += count
	}
	return nil
}
