// SPDX-License-Identifier: MIT
// Package variable - Metropolis–Hastings bookkeeping and adaptation.

package variable

import (
	"fmt"
	"math"

	"github.com/katalvlaran/chronolath/sampler"
)

// Adaptation band and step constants.
const (
	// TargetRateMin and TargetRateMax bound the stable acceptance band.
	TargetRateMin = 0.41
	TargetRateMax = 0.47
	// AdaptStep is the log10 step of sigmaMH for early batches.
	AdaptStep = 0.01
	// AdaptStepSwitch is the batch index from which the step decays as 1/√index.
	AdaptStepSwitch = 10000
)

// MHVariable is a Variable updated by Metropolis–Hastings moves.
type MHVariable struct {
	Variable

	SigmaMH float64 // proposal standard deviation, tuned while adapting
	Kernel  string  // human-readable proposal kernel

	Window      []bool    // last WindowLen outcomes, oldest first
	WindowLen   int       // one adaptation batch
	Accepts     []bool    // every acquisition-stage outcome, all chains
	GlobalRate  float64   // percent, set by ComputeGlobalRate
	BatchRates  []float64 // percent, one per adaptation batch
	RateHistory []float64 // percent, one per memoized iteration
}

// Reset clears the trace, results and every acceptance record. windowLen
// fixes the sliding window length for the coming run; SigmaMH and Kernel
// are kept.
func (v *MHVariable) Reset(windowLen int) {
	v.Variable.Reset()
	v.WindowLen = windowLen
	v.Window = v.Window[:0]
	v.Accepts = v.Accepts[:0]
	v.GlobalRate = 0
	v.BatchRates = v.BatchRates[:0]
	v.RateHistory = v.RateHistory[:0]
}

// TryUpdate applies the shared accept rule to candidate x with ratio and
// records the outcome. The full history is only fed while ctx.Acquire is set.
func (v *MHVariable) TryUpdate(x, ratio float64, ctx *sampler.Context) bool {
	accepted := sampler.Accept(ratio, ctx.Rand)
	if accepted {
		v.X = x
	}
	v.push(accepted)
	if ctx.Acquire {
		v.Accepts = append(v.Accepts, accepted)
	}
	return accepted
}

// push appends to the sliding window, dropping the oldest when full.
func (v *MHVariable) push(ok bool) {
	if v.WindowLen <= 0 {
		return
	}
	if len(v.Window) < v.WindowLen {
		v.Window = append(v.Window, ok)
		return
	}
	copy(v.Window, v.Window[1:])
	v.Window[len(v.Window)-1] = ok
}

// AcceptRate returns the acceptance fraction of the sliding window, in [0,1].
func (v *MHVariable) AcceptRate() float64 {
	if len(v.Window) == 0 {
		return 0
	}
	return float64(countTrue(v.Window)) / float64(len(v.Window))
}

// MemoRate records the current window rate (percent) for the memo history.
func (v *MHVariable) MemoRate() { v.RateHistory = append(v.RateHistory, 100*v.AcceptRate()) }

// AdaptStepFor returns δ for completed batch index k (1-based).
func AdaptStepFor(k int) float64 {
	if k < AdaptStepSwitch {
		return AdaptStep
	}
	return 1 / math.Sqrt(float64(k))
}

// Adapt tunes SigmaMH after batch k (1-based) from the window rate.
// Below the band sigmaMH is divided by 10^δ, above it is multiplied;
// inside the band it is left alone and Adapt reports stable.
func (v *MHVariable) Adapt(k int) (stable bool) {
	rate := v.AcceptRate()
	v.BatchRates = append(v.BatchRates, 100*rate)
	if rate >= TargetRateMin && rate <= TargetRateMax {
		return true
	}
	sign := 1.0
	if rate < TargetRateMin {
		sign = -1
	}
	v.SigmaMH *= math.Pow(10, sign*AdaptStepFor(k))
	return false
}

// ComputeGlobalRate sets GlobalRate (percent) from the full history.
func (v *MHVariable) ComputeGlobalRate() float64 {
	if len(v.Accepts) == 0 {
		v.GlobalRate = 0
		return 0
	}
	v.GlobalRate = 100 * float64(countTrue(v.Accepts)) / float64(len(v.Accepts))
	return v.GlobalRate
}

// AcceptsForChain returns the acquisition outcomes of chain i. Every
// acquisition iteration is recorded, memoized or not, so chain j contributes
// chains[j].Run entries.
func (v *MHVariable) AcceptsForChain(chains []Chain, i int) ([]bool, error) {
	if i < 0 || i >= len(chains) {
		return nil, fmt.Errorf("chain %d of %d: %w", i, len(chains), ErrChainIndex)
	}
	var off, j int
	for j = 0; j < i; j++ {
		off += chains[j].Run
	}
	lo, hi := off, off+chains[i].Run
	if lo > len(v.Accepts) {
		lo = len(v.Accepts)
	}
	if hi > len(v.Accepts) {
		hi = len(v.Accepts)
	}
	return v.Accepts[lo:hi], nil
}

func countTrue(xs []bool) int {
	var n int
	for _, ok := range xs {
		if ok {
			n++
		}
	}
	return n
}
