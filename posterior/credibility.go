// SPDX-License-Identifier: MIT
// Package: posterior
//
// credibility.go — shortest credibility interval of a trace.

package posterior

import "math"

// Interval is a closed range [Lo, Hi].
type Interval struct {
	Lo, Hi float64
}

var (
	// EmptyInterval marks "no interval" (only one distinct value was present,
	// or nothing was requested). Lo > Hi never happens for a real interval.
	EmptyInterval = Interval{Lo: 1, Hi: -1}

	// Unbounded is returned by range searches that cannot run.
	Unbounded = Interval{Lo: math.Inf(-1), Hi: math.Inf(1)}
)

// IsEmpty reports whether iv is the empty sentinel (or any Lo > Hi pair).
func (iv Interval) IsEmpty() bool { return iv.Lo > iv.Hi }

// IsUnbounded reports whether iv is the (−∞, +∞) sentinel.
func (iv Interval) IsUnbounded() bool { return math.IsInf(iv.Lo, -1) && math.IsInf(iv.Hi, 1) }

// Length returns Hi − Lo, or 0 for an empty interval.
func (iv Interval) Length() float64 {
	if iv.IsEmpty() {
		return 0
	}
	return iv.Hi - iv.Lo
}

// Credibility is a credibility interval together with the probability mass
// it actually covers (the trace is discrete, so this differs slightly from
// the requested level).
type Credibility struct {
	Interval
	Requested float64 // requested level, percent
	Exact     float64 // covered share of the samples, percent
}

// CredibilityInterval returns the shortest window of the sorted trace that
// holds threshold% of the samples.
//
// Algorithm:
//  1. Sort; numToRemove = ⌊n·(100 − threshold)/100⌋.
//  2. For j ∈ [0, numToRemove], the window [x[j], x[n−1−numToRemove+j]].
//  3. Keep the first shortest window.
//
// Policy:
//   - empty trace or threshold <= 0 ⇒ EmptyInterval.
//   - threshold >= 100 ⇒ [min, max].
//   - coinciding bounds ⇒ EmptyInterval.
//
// Complexity: O(n log n).
func CredibilityInterval(trace []float64, threshold float64) Credibility {
	res := Credibility{Interval: EmptyInterval, Requested: threshold}
	n := len(trace)
	if n == 0 || threshold <= 0 {
		return res
	}
	sorted := sortedCopy(trace)

	if threshold >= 100 {
		res.Exact = 100
		if sorted[0] != sorted[n-1] {
			res.Interval = Interval{Lo: sorted[0], Hi: sorted[n-1]}
		}
		return res
	}

	numToRemove := int(math.Floor(float64(n)*(100-threshold)/100 + 1e-9))
	if numToRemove > n-1 {
		numToRemove = n - 1
	}

	var (
		j       int
		length  float64
		bestJ   int
		bestLen = math.Inf(1)
	)
	for j = 0; j <= numToRemove; j++ {
		length = sorted[n-1-numToRemove+j] - sorted[j]
		if length < bestLen {
			bestLen = length
			bestJ = j
		}
	}

	res.Exact = 100 * float64(n-numToRemove) / float64(n)
	lo, hi := sorted[bestJ], sorted[n-1-numToRemove+bestJ]
	if lo != hi {
		res.Interval = Interval{Lo: lo, Hi: hi}
	}
	return res
}
