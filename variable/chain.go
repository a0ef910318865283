// SPDX-License-Identifier: MIT
// Package variable - chain layout of the flat trace buffer.

package variable

import "fmt"

// Chain is the specification of one MCMC chain together with the number of
// adaptation batches it actually used. The flat per-variable trace is the
// concatenation of every chain's memoized samples in chain order.
type Chain struct {
	Seed        int64 // 0 ⇒ sampler.DefaultSeed
	Burn        int   // burn-in iterations, all memoized
	BatchSize   int   // iterations per adaptation batch, all memoized
	MaxBatches  int   // adaptation stops here at the latest
	BatchesUsed int   // filled in by the controller
	Run         int   // acquisition iterations
	Thinning    int   // memo every Thinning-th acquisition iteration
}

// RunMemos returns the number of memoized acquisition samples, ⌊Run/Thinning⌋.
func (c Chain) RunMemos() int {
	if c.Thinning <= 0 {
		return 0
	}
	return c.Run / c.Thinning
}

// AdaptMemos returns BatchesUsed·BatchSize.
func (c Chain) AdaptMemos() int { return c.BatchesUsed * c.BatchSize }

// TraceLen returns the number of samples the chain contributes to a trace:
// Burn + BatchesUsed·BatchSize + ⌊Run/Thinning⌋.
func (c Chain) TraceLen() int { return c.Burn + c.AdaptMemos() + c.RunMemos() }

// offset returns the position of chain i in the flat buffer.
func offset(chains []Chain, i int) (int, error) {
	if i < 0 || i >= len(chains) {
		return 0, fmt.Errorf("chain %d of %d: %w", i, len(chains), ErrChainIndex)
	}
	var off, j int
	for j = 0; j < i; j++ {
		off += chains[j].TraceLen()
	}
	return off, nil
}

// window returns buf[lo:hi] clipped to the buffer, so a partially filled
// trace (aborted run) yields what exists.
func window(buf []float64, lo, hi int) []float64 {
	if lo > len(buf) {
		lo = len(buf)
	}
	if hi > len(buf) {
		hi = len(buf)
	}
	return buf[lo:hi]
}

// ChainTrace returns every sample of chain i in buf (burn, adapt and run).
func ChainTrace(buf []float64, chains []Chain, i int) ([]float64, error) {
	off, err := offset(chains, i)
	if err != nil {
		return nil, err
	}
	return window(buf, off, off+chains[i].TraceLen()), nil
}

// RunTrace returns the acquisition samples of chain i in buf.
func RunTrace(buf []float64, chains []Chain, i int) ([]float64, error) {
	off, err := offset(chains, i)
	if err != nil {
		return nil, err
	}
	c := chains[i]
	start := off + c.Burn + c.AdaptMemos()
	return window(buf, start, start+c.RunMemos()), nil
}

// RunTraces concatenates the acquisition samples of every chain.
func RunTraces(buf []float64, chains []Chain) []float64 {
	var total int
	for _, c := range chains {
		total += c.RunMemos()
	}
	out := make([]float64, 0, total)
	var i int
	for i = range chains {
		part, _ := RunTrace(buf, chains, i)
		out = append(out, part...)
	}
	return out
}
