// SPDX-License-Identifier: MIT
// Package: posterior
//
// ranges.go — joint ranges between two paired traces.
//
// TimeRange answers "which interval [a,b] contains both the start (trace1)
// and the end (trace2) of a phase with probability threshold%?" and keeps
// the shortest such interval. GapRange answers "which interval [a,b] lies
// after the end of one phase (trace1) and before the start of the next
// (trace2) with probability threshold%?" and keeps the longest one.
//
// Both sweep an auxiliary ε from 0 to γ = 1 − threshold/100 in steps of
// 0.1%. At each step a(ε) is a type-7 quantile of trace1 and b is a type-7
// quantile of the trace2 values paired with trace1 values on the right side
// of a, chosen so the joint mass is exactly 1 − γ. The sweep is a fixed-step
// approximation of the optimum.

package posterior

import (
	"math"
	"sort"
)

// RangeEpsilonStep is the ε increment of the range sweeps.
const RangeEpsilonStep = 0.001

type pair struct{ first, second float64 }

// TimeRange returns the shortest [a,b] with P(trace1 ≥ a, trace2 ≤ b) = threshold%.
// Returns Unbounded when threshold <= 0, traces are empty, or lengths differ.
//
// Complexity: O(S · n log n) with S = γ / RangeEpsilonStep.
func TimeRange(trace1, trace2 []float64, threshold float64) Interval {
	return sweepRange(trace1, trace2, threshold, false)
}

// GapRange returns the longest [a,b] with P(trace1 ≤ a, trace2 ≥ b) = threshold%.
// The returned pair may have b < a when the two traces overlap; its length
// is then negative and signals that no gap exists at that level.
// Returns Unbounded when threshold <= 0, traces are empty, or lengths differ.
func GapRange(trace1, trace2 []float64, threshold float64) Interval {
	return sweepRange(trace1, trace2, threshold, true)
}

func sweepRange(trace1, trace2 []float64, threshold float64, gap bool) Interval {
	if threshold <= 0 || len(trace1) == 0 || len(trace1) != len(trace2) {
		return Unbounded
	}
	if threshold > 100 {
		threshold = 100
	}

	var (
		n     = len(trace1)
		gamma = 1 - threshold/100
		steps = int(math.Floor(gamma/RangeEpsilonStep + 1e-9))
	)

	// pairs ordered by trace1 so each cut is a prefix or a suffix
	pairs := make([]pair, n)
	for i := 0; i < n; i++ {
		pairs[i] = pair{first: trace1[i], second: trace2[i]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].first < pairs[j].first })
	sorted1 := make([]float64, n)
	for i := range pairs {
		sorted1[i] = pairs[i].first
	}

	var (
		best     = Unbounded
		bestLen  = math.Inf(1)
		eps      float64
		a, b     float64
		cut      int
		selected []float64
	)
	if gap {
		bestLen = math.Inf(-1)
	}
	selected = make([]float64, 0, n)

	for k := 0; k <= steps; k++ {
		eps = float64(k) * RangeEpsilonStep
		if eps >= 1 {
			break
		}
		selected = selected[:0]
		if gap {
			a = interpolateType7(sorted1, 1-eps)
			cut = sort.Search(n, func(i int) bool { return sorted1[i] > a })
			for i := 0; i < cut; i++ {
				selected = append(selected, pairs[i].second)
			}
		} else {
			a = interpolateType7(sorted1, eps)
			cut = sort.Search(n, func(i int) bool { return sorted1[i] >= a })
			for i := cut; i < n; i++ {
				selected = append(selected, pairs[i].second)
			}
		}
		if len(selected) == 0 {
			continue
		}
		sort.Float64s(selected)

		if gap {
			b = interpolateType7(selected, (gamma-eps)/(1-eps))
			if b-a > bestLen {
				bestLen = b - a
				best = Interval{Lo: a, Hi: b}
			}
		} else {
			b = interpolateType7(selected, (1-gamma)/(1-eps))
			if b-a < bestLen {
				bestLen = b - a
				best = Interval{Lo: a, Hi: b}
			}
		}
	}
	return best
}
