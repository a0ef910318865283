// SPDX-License-Identifier: MIT
// Package: posterior
//
// hpd.go — highest posterior density regions.
//
// HPDRegion thresholds a density by height: points are admitted from the
// highest value downward until their trapezoidal share of the area reaches
// threshold% of the total; everything below the resulting cut is zeroed.
// HPDIntervals then sweeps that pre-thresholded curve for contiguous
// non-zero runs and reports each run's bounds and its share of the mass.

package posterior

import "sort"

// HPDInterval is one contiguous part of an HPD region.
type HPDInterval struct {
	Lo, Hi float64 // first and last non-zero position of the run
	Mass   float64 // threshold · runArea / totalArea, in percent
}

// HPDRegion returns density with every value below the HPD height cut set to 0.
//
// Policy:
//   - threshold >= 100 ⇒ density returned unchanged (copy).
//   - threshold <= 0   ⇒ empty curve.
//
// Complexity: O(n log n).
func HPDRegion(density Curve, threshold float64) Curve {
	if threshold >= 100 {
		return density.Clone()
	}
	if threshold <= 0 || len(density) == 0 {
		return Curve{}
	}
	if len(density) == 1 {
		return density.Clone()
	}

	n := len(density)
	total := density.Area()
	target := total * threshold / 100

	// each point owns half of its two adjacent intervals
	weights := make([]float64, n)
	var left, right float64
	for i := 0; i < n; i++ {
		left, right = density[i].T, density[i].T
		if i > 0 {
			left = density[i-1].T
		}
		if i < n-1 {
			right = density[i+1].T
		}
		weights[i] = density[i].Y * (right - left) / 2
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool { return density[order[x]].Y > density[order[y]].Y })

	var acc, cut float64
	for _, i := range order {
		acc += weights[i]
		cut = density[i].Y
		if acc >= target {
			break
		}
	}

	out := density.Clone()
	for i := range out {
		if out[i].Y < cut {
			out[i].Y = 0
		}
	}
	return out
}

// HPDIntervals extracts the contiguous non-zero runs of a thresholded curve.
// threshold is the HPD level the curve was cut at; each run's Mass is
// threshold · runArea / totalArea so the masses add up to threshold.
// Run areas include the slopes down to the neighboring zero points.
//
// Complexity: O(n).
func HPDIntervals(hpd Curve, threshold float64) []HPDInterval {
	if threshold <= 0 || len(hpd) == 0 {
		return nil
	}
	total := hpd.Area()
	if total <= 0 {
		return nil
	}

	var (
		out   []HPDInterval
		start = -1
		n     = len(hpd)
	)
	emit := func(s, e int) {
		from, to := s-1, e+2
		if from < 0 {
			from = 0
		}
		if to > n {
			to = n
		}
		area := hpd[from:to].Area()
		out = append(out, HPDInterval{Lo: hpd[s].T, Hi: hpd[e].T, Mass: threshold * area / total})
	}
	for i, p := range hpd {
		if p.Y != 0 {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			emit(start, i-1)
			start = -1
		}
	}
	if start >= 0 {
		emit(start, n-1)
	}
	return out
}
