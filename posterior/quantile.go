// SPDX-License-Identifier: MIT
// Package: posterior
//
// quantile.go — the nine sample-quantile conventions of Hyndman & Fan (1996),
// numbered as in R's quantile(type=…).
//
// Every convention computes, from p and n, an index j and a weight γ:
//
//	Q(p) = (1−γ)·x[j−1] + γ·x[j]      (x sorted, 1-based j, clamped at the ends)
//
// Types 1–3 are discontinuous (γ ∈ {0, ½, 1}); types 4–9 interpolate
// linearly with m shifting the plotting position:
//
//	4: m = 0     5: m = ½      6: m = p
//	7: m = 1−p   8: m = (p+1)/3   9: m = p/4 + 3/8

package posterior

import (
	"fmt"
	"math"
	"sort"
)

// QuantileType selects one of the nine R-compatible conventions.
type QuantileType int

// Supported conventions; the numeric value is the R "type" argument.
const (
	QuantileType1 QuantileType = iota + 1 // inverse of the empirical CDF
	QuantileType2                         // inverse ECDF with averaging at discontinuities
	QuantileType3                         // nearest even order statistic (SAS)
	QuantileType4                         // linear interpolation of the ECDF
	QuantileType5                         // piecewise linear, knots at (k−½)/n
	QuantileType6                         // Weibull, p[k] = k/(n+1) (Minitab, SPSS)
	QuantileType7                         // mode-based, p[k] = (k−1)/(n−1) (R and S default)
	QuantileType8                         // median-unbiased, approximately
	QuantileType9                         // normal-unbiased, approximately
)

// DefaultQuantileType is the convention used when none is configured.
const DefaultQuantileType = QuantileType7

// quantileFuzz mirrors R's guard against representation error around
// integer plotting positions.
const quantileFuzz = 4 * 2.220446049250313e-16

// Valid reports whether t is one of the nine conventions.
func (t QuantileType) Valid() bool { return t >= QuantileType1 && t <= QuantileType9 }

// String renders the R name of the convention.
func (t QuantileType) String() string { return fmt.Sprintf("type%d", int(t)) }

// Quartiles holds the lower quantile, median and upper quantile of a sample.
type Quartiles struct {
	Q1 float64 // quantile at p
	Q2 float64 // median
	Q3 float64 // quantile at 1−p
}

// Quantile returns the p-quantile of an ascending-sorted sample using the
// given convention.
//
// Errors:
//   - ErrEmptyTrace if sorted is empty.
//   - ErrBadProbability if p ∉ [0,1].
//   - ErrBadQuantileType if typ ∉ 1..9.
//
// Complexity: O(1).
func Quantile(sorted []float64, p float64, typ QuantileType) (float64, error) {
	if len(sorted) == 0 {
		return 0, ErrEmptyTrace
	}
	if p < 0 || p > 1 || math.IsNaN(p) {
		return 0, fmt.Errorf("Quantile(p=%g): %w", p, ErrBadProbability)
	}
	if !typ.Valid() {
		return 0, fmt.Errorf("Quantile(%d): %w", int(typ), ErrBadQuantileType)
	}

	var (
		n     = float64(len(sorted))
		m     float64
		j     float64
		g     float64
		gamma float64
	)
	switch typ {
	case QuantileType1, QuantileType2, QuantileType4:
		m = 0
	case QuantileType3:
		m = -0.5
	case QuantileType5:
		m = 0.5
	case QuantileType6:
		m = p
	case QuantileType7:
		m = 1 - p
	case QuantileType8:
		m = (p + 1) / 3
	case QuantileType9:
		m = p/4 + 3.0/8
	}

	j = math.Floor(n*p + m + quantileFuzz)
	g = n*p + m - j
	if math.Abs(g) < quantileFuzz {
		g = 0
	}

	switch typ {
	case QuantileType1:
		gamma = 0
		if g > 0 {
			gamma = 1
		}
	case QuantileType2:
		gamma = 0.5
		if g > 0 {
			gamma = 1
		}
	case QuantileType3:
		gamma = 1
		if g == 0 && math.Mod(j, 2) == 0 {
			gamma = 0
		}
	default:
		gamma = g
	}

	lo := clampIndex(int(j)-1, len(sorted))
	hi := clampIndex(int(j), len(sorted))
	if gamma == 0 {
		return sorted[lo], nil
	}
	if gamma == 1 {
		return sorted[hi], nil
	}
	return (1-gamma)*sorted[lo] + gamma*sorted[hi], nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// QuartilesFromTrace sorts a copy of trace and returns its quantiles at p,
// ½ and 1−p with the given convention.
func QuartilesFromTrace(trace []float64, typ QuantileType, p float64) (Quartiles, error) {
	var q Quartiles
	if len(trace) == 0 {
		return q, ErrEmptyTrace
	}
	sorted := sortedCopy(trace)

	var err error
	if q.Q1, err = Quantile(sorted, p, typ); err != nil {
		return Quartiles{}, err
	}
	if q.Q2, err = Quantile(sorted, 0.5, typ); err != nil {
		return Quartiles{}, err
	}
	if q.Q3, err = Quantile(sorted, 1-p, typ); err != nil {
		return Quartiles{}, err
	}
	return q, nil
}

// QuartilesFromCurve reads the same three quantiles off the repartition of a
// density curve.
func QuartilesFromCurve(density Curve, p float64) (Quartiles, error) {
	if len(density) == 0 {
		return Quartiles{}, ErrEmptyTrace
	}
	if p < 0 || p > 1 {
		return Quartiles{}, fmt.Errorf("QuartilesFromCurve(p=%g): %w", p, ErrBadProbability)
	}
	rep := density.Cumulative()
	return Quartiles{
		Q1: InverseCumulative(rep, p),
		Q2: InverseCumulative(rep, 0.5),
		Q3: InverseCumulative(rep, 1-p),
	}, nil
}

// interpolateType7 is the R-type-7 interpolation used by the range searches:
// h = (n−1)·p, value = x[⌊h⌋] + (h−⌊h⌋)·(x[⌈h⌉] − x[⌊h⌋]).
func interpolateType7(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	h := float64(n-1) * p
	lo := clampIndex(int(math.Floor(h)), n)
	hi := clampIndex(int(math.Ceil(h)), n)
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

func sortedCopy(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	sort.Float64s(out)
	return out
}
