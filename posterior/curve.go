// SPDX-License-Identifier: MIT
// Package: posterior
//
// curve.go — sampled functions of time.
//
// A Curve holds a function sampled at strictly increasing positions. It is
// the common currency between calibration (likelihood over a study grid),
// density estimation (posterior over a trace span) and HPD extraction.
//
// Conventions:
//   - Area uses trapezoidal integration; a single-point curve is a point
//     mass whose area is its value.
//   - Cumulative is normalized so that its last value is exactly 1 whenever
//     the area is positive.

package posterior

import (
	"math"
	"sort"
)

// Point is one sample of a Curve.
type Point struct {
	T float64 // position (calendar date, duration, …)
	Y float64 // value at T
}

// Curve is a function sampled at strictly increasing positions T.
type Curve []Point

// Clone returns an independent copy of c.
func (c Curve) Clone() Curve {
	if c == nil {
		return nil
	}
	out := make(Curve, len(c))
	copy(out, c)
	return out
}

// Area returns the trapezoidal integral of c.
// Complexity: O(n).
func (c Curve) Area() float64 {
	switch len(c) {
	case 0:
		return 0
	case 1:
		return c[0].Y
	}
	return trapezoid(c)
}

// trapezoid integrates c over its full span; fewer than two points give 0.
func trapezoid(c Curve) float64 {
	var (
		i    int
		area float64
	)
	for i = 1; i < len(c); i++ {
		area += 0.5 * (c[i-1].Y + c[i].Y) * (c[i].T - c[i-1].T)
	}
	return area
}

// Normalized returns a copy of c scaled so that its Area equals target.
// A curve with zero area is returned unscaled.
func (c Curve) Normalized(target float64) Curve {
	out := c.Clone()
	area := c.Area()
	if area == 0 || len(c) == 0 {
		return out
	}
	k := target / area
	for i := range out {
		out[i].Y *= k
	}
	return out
}

// Restrict keeps the points whose position lies in [lo, hi].
func (c Curve) Restrict(lo, hi float64) Curve {
	out := make(Curve, 0, len(c))
	for _, p := range c {
		if p.T >= lo && p.T <= hi {
			out = append(out, p)
		}
	}
	return out
}

// Shift returns a copy of c with every position moved by dt.
func (c Curve) Shift(dt float64) Curve {
	out := c.Clone()
	for i := range out {
		out[i].T += dt
	}
	return out
}

// MaxPoint returns the point holding the largest value (first one on ties).
// The zero Point is returned for an empty curve.
func (c Curve) MaxPoint() Point {
	var best Point
	if len(c) == 0 {
		return best
	}
	best = c[0]
	for _, p := range c[1:] {
		if p.Y > best.Y {
			best = p
		}
	}
	return best
}

// Cumulative returns the running integral of c normalized to end at 1.
// The first point is 0. A zero-area curve yields a flat zero repartition.
//
// Complexity: O(n).
func (c Curve) Cumulative() Curve {
	out := make(Curve, len(c))
	if len(c) == 0 {
		return out
	}
	if len(c) == 1 {
		out[0] = Point{T: c[0].T, Y: 1}
		return out
	}
	var (
		i   int
		acc float64
	)
	out[0] = Point{T: c[0].T}
	for i = 1; i < len(c); i++ {
		acc += 0.5 * (c[i-1].Y + c[i].Y) * (c[i].T - c[i-1].T)
		out[i] = Point{T: c[i].T, Y: acc}
	}
	if acc <= 0 {
		return out
	}
	for i = range out {
		out[i].Y /= acc
	}
	out[len(out)-1].Y = 1
	return out
}

// InverseCumulative returns the position where the repartition rep reaches u,
// interpolating linearly between grid points. u is clamped to [0,1].
// rep must be non-decreasing (see Cumulative). NaN is returned when rep is empty.
//
// Complexity: O(log n).
func InverseCumulative(rep Curve, u float64) float64 {
	n := len(rep)
	if n == 0 {
		return math.NaN()
	}
	if u <= rep[0].Y {
		return rep[0].T
	}
	if u >= rep[n-1].Y {
		// first position reaching the top, so flat tails are not sampled
		k := sort.Search(n, func(i int) bool { return rep[i].Y >= rep[n-1].Y })
		return rep[k].T
	}
	k := sort.Search(n, func(i int) bool { return rep[i].Y >= u })
	lo, hi := rep[k-1], rep[k]
	if hi.Y == lo.Y {
		return hi.T
	}
	return lo.T + (u-lo.Y)*(hi.T-lo.T)/(hi.Y-lo.Y)
}

// CurveFromFunc samples f on [lo, hi] with the given step. The last point
// is always hi so the grid covers the full span.
func CurveFromFunc(lo, hi, step float64, f func(t float64) float64) Curve {
	if step <= 0 || hi < lo {
		return nil
	}
	n := int(math.Floor((hi-lo)/step)) + 1
	out := make(Curve, 0, n+1)
	var (
		i int
		t float64
	)
	for i = 0; i < n; i++ {
		t = lo + float64(i)*step
		out = append(out, Point{T: t, Y: f(t)})
	}
	if out[len(out)-1].T < hi {
		out = append(out, Point{T: hi, Y: f(hi)})
	}
	return out
}
