// SPDX-License-Identifier: MIT

package posterior_test

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/chronolath/posterior"
)

// bimodal builds two well separated triangular bumps of equal mass.
func bimodal() posterior.Curve {
	return posterior.CurveFromFunc(0, 100, 0.5, func(t float64) float64 {
		switch {
		case t >= 10 && t <= 30:
			return 10 - math.Abs(t-20)
		case t >= 60 && t <= 80:
			return 10 - math.Abs(t-70)
		default:
			return 0
		}
	}).Normalized(1)
}

func TestHPDRegion_Limits(t *testing.T) {
	d := bimodal()
	assert.Equal(t, d, posterior.HPDRegion(d, 100))
	assert.Empty(t, posterior.HPDRegion(d, 0))
}

// TestHPDRegion_TwoModes expects one interval per bump, each holding half
// of the requested mass.
func TestHPDRegion_TwoModes(t *testing.T) {
	d := bimodal()
	hpd := posterior.HPDRegion(d, 95)
	require.Len(t, hpd, len(d))

	kept := hpd.Area() / d.Area()
	assert.InDelta(t, 0.95, kept, 0.02)

	ivs := posterior.HPDIntervals(hpd, 95)
	require.Len(t, ivs, 2)
	assert.Less(t, ivs[0].Hi, ivs[1].Lo)
	assert.InDelta(t, 20, (ivs[0].Lo+ivs[0].Hi)/2, 0.5)
	assert.InDelta(t, 70, (ivs[1].Lo+ivs[1].Hi)/2, 0.5)
	assert.InDelta(t, 47.5, ivs[0].Mass, 0.5)
	assert.InDelta(t, 95, ivs[0].Mass+ivs[1].Mass, 1e-9)
}

func TestHPDIntervals_Empty(t *testing.T) {
	assert.Nil(t, posterior.HPDIntervals(bimodal(), 0))
	assert.Nil(t, posterior.HPDIntervals(nil, 95))
}

func TestCredibility_Sequence(t *testing.T) {
	trace := make([]float64, 100)
	for i := range trace {
		trace[i] = float64(100 - i)
	}
	c := posterior.CredibilityInterval(trace, 95)
	assert.Equal(t, posterior.Interval{Lo: 1, Hi: 95}, c.Interval)
	assert.InDelta(t, 95, c.Exact, 1e-12)

	c = posterior.CredibilityInterval(trace, 90)
	assert.Equal(t, posterior.Interval{Lo: 1, Hi: 90}, c.Interval)
}

func TestCredibility_Limits(t *testing.T) {
	trace := []float64{3, 7, -2, 5}
	assert.Equal(t, posterior.Interval{Lo: -2, Hi: 7}, posterior.CredibilityInterval(trace, 100).Interval)
	assert.True(t, posterior.CredibilityInterval(trace, 0).IsEmpty())
	assert.True(t, posterior.CredibilityInterval([]float64{4, 4, 4}, 95).IsEmpty())
	assert.True(t, posterior.CredibilityInterval(nil, 95).IsEmpty())
}

// TestCredibility_Minimal checks coverage and minimality by brute force.
func TestCredibility_Minimal(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for round := 0; round < 20; round++ {
		n := 20 + r.Intn(200)
		trace := make([]float64, n)
		for i := range trace {
			trace[i] = r.ExpFloat64() * 10
		}
		p := 50 + r.Float64()*45
		c := posterior.CredibilityInterval(trace, p)
		require.False(t, c.IsEmpty())

		need := int(math.Ceil(float64(n) * p / 100))
		inside := 0
		for _, x := range trace {
			if x >= c.Lo && x <= c.Hi {
				inside++
			}
		}
		assert.GreaterOrEqual(t, inside, need)

		sorted := append([]float64(nil), trace...)
		sort.Float64s(sorted)
		for j := 0; j+need-1 < n; j++ {
			assert.GreaterOrEqual(t, sorted[j+need-1]-sorted[j]+1e-12, c.Length())
		}
	}
}

func TestRanges_InvalidInput(t *testing.T) {
	a := []float64{1, 2, 3}
	assert.True(t, posterior.GapRange(a, a, 0).IsUnbounded())
	assert.True(t, posterior.TimeRange(a, a, 0).IsUnbounded())
	assert.True(t, posterior.TimeRange(a, a[:2], 95).IsUnbounded())
	assert.True(t, posterior.GapRange(a, a[:2], 95).IsUnbounded())
}

// TestTimeRange_Coverage verifies the joint mass of a phase time range.
func TestTimeRange_Coverage(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	n := 2000
	begin := make([]float64, n)
	end := make([]float64, n)
	for i := 0; i < n; i++ {
		begin[i] = 100 + 10*r.NormFloat64()
		end[i] = begin[i] + 50 + 5*r.Float64()
	}
	iv := posterior.TimeRange(begin, end, 95)
	require.False(t, iv.IsUnbounded())
	require.Less(t, iv.Lo, iv.Hi)

	inside := 0
	for i := 0; i < n; i++ {
		if begin[i] >= iv.Lo && end[i] <= iv.Hi {
			inside++
		}
	}
	assert.InDelta(t, 0.95, float64(inside)/float64(n), 0.01)
}

// TestGapRange_Separated finds a gap between two disjoint phases.
func TestGapRange_Separated(t *testing.T) {
	r := rand.New(rand.NewSource(13))
	n := 2000
	endFirst := make([]float64, n)
	startNext := make([]float64, n)
	for i := 0; i < n; i++ {
		endFirst[i] = 10 * r.Float64()
		startNext[i] = 20 + 10*r.Float64()
	}
	iv := posterior.GapRange(endFirst, startNext, 95)
	require.False(t, iv.IsUnbounded())
	assert.Less(t, iv.Lo, iv.Hi)
	assert.GreaterOrEqual(t, iv.Lo, 0.0)
	assert.LessOrEqual(t, iv.Hi, 30.0)

	inside := 0
	for i := 0; i < n; i++ {
		if endFirst[i] <= iv.Lo && startNext[i] >= iv.Hi {
			inside++
		}
	}
	assert.InDelta(t, 0.95, float64(inside)/float64(n), 0.01)
}

func TestAutocorrelation(t *testing.T) {
	assert.Nil(t, posterior.Autocorrelation(make([]float64, 39), posterior.AutocorrelationLags))

	alt := make([]float64, 400)
	for i := range alt {
		alt[i] = float64(i%2*2 - 1)
	}
	rho := posterior.Autocorrelation(alt, posterior.AutocorrelationLags)
	require.Len(t, rho, posterior.AutocorrelationLags)
	assert.InDelta(t, 1.0, rho[0], 1e-12)
	assert.InDelta(t, -1.0, rho[1], 0.01)
	assert.InDelta(t, 1.0, rho[2], 0.01)

	flat := posterior.Autocorrelation(make([]float64, 50), posterior.AutocorrelationLags)
	assert.Equal(t, 1.0, flat[0])
	assert.Equal(t, 0.0, flat[1])
}

func TestAnalyzeCurve_Triangle(t *testing.T) {
	tri := posterior.CurveFromFunc(0, 2, 0.01, func(x float64) float64 { return 1 - math.Abs(x-1) })
	s := posterior.AnalyzeCurve(tri)
	assert.InDelta(t, 1.0, s.Max, 1e-9)
	assert.InDelta(t, 1.0, s.Mode, 1e-9)
	assert.InDelta(t, 1.0, s.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(1.0/6), s.Std, 0.01)
}
