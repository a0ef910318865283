// SPDX-License-Identifier: MIT

package posterior_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/chronolath/posterior"
)

// TestQuantile_Type7OddMedian verifies that the median of an odd-length
// sample is its middle element.
func TestQuantile_Type7OddMedian(t *testing.T) {
	q, err := posterior.Quantile([]float64{1, 2, 3, 4, 5}, 0.5, posterior.QuantileType7)
	require.NoError(t, err)
	assert.Equal(t, 3.0, q)
}

// TestQuantile_AllTypes checks the nine conventions against R's
// quantile(1:10, 0.25, type = k).
func TestQuantile_AllTypes(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	want := map[posterior.QuantileType]float64{
		posterior.QuantileType1: 3,
		posterior.QuantileType2: 3,
		posterior.QuantileType3: 2,
		posterior.QuantileType4: 2.5,
		posterior.QuantileType5: 3,
		posterior.QuantileType6: 2.75,
		posterior.QuantileType7: 3.25,
		posterior.QuantileType8: 2.0 + 11.0/12,
		posterior.QuantileType9: 2.9375,
	}
	for typ, w := range want {
		got, err := posterior.Quantile(x, 0.25, typ)
		require.NoError(t, err, typ.String())
		assert.InDelta(t, w, got, 1e-12, typ.String())
	}
}

// TestQuantile_Clamped ensures p=0 and p=1 map to the sample ends.
func TestQuantile_Clamped(t *testing.T) {
	x := []float64{-4, 0, 9}
	for typ := posterior.QuantileType1; typ <= posterior.QuantileType9; typ++ {
		lo, err := posterior.Quantile(x, 0, typ)
		require.NoError(t, err)
		hi, err := posterior.Quantile(x, 1, typ)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, lo, -4.0, typ.String())
		assert.LessOrEqual(t, hi, 9.0, typ.String())
	}
}

func TestQuantile_Errors(t *testing.T) {
	_, err := posterior.Quantile(nil, 0.5, posterior.QuantileType7)
	assert.ErrorIs(t, err, posterior.ErrEmptyTrace)

	_, err = posterior.Quantile([]float64{1}, 1.5, posterior.QuantileType7)
	assert.ErrorIs(t, err, posterior.ErrBadProbability)

	_, err = posterior.Quantile([]float64{1}, 0.5, posterior.QuantileType(10))
	assert.ErrorIs(t, err, posterior.ErrBadQuantileType)
}

func TestQuartilesFromTrace(t *testing.T) {
	q, err := posterior.QuartilesFromTrace([]float64{5, 1, 4, 2, 3}, posterior.QuantileType7, 0.25)
	require.NoError(t, err)
	assert.Equal(t, posterior.Quartiles{Q1: 2, Q2: 3, Q3: 4}, q)
}

// TestQuartilesFromCurve reads quartiles off a uniform density on [0,4].
func TestQuartilesFromCurve(t *testing.T) {
	flat := posterior.CurveFromFunc(0, 4, 0.5, func(float64) float64 { return 0.25 })
	q, err := posterior.QuartilesFromCurve(flat, 0.25)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, q.Q1, 1e-9)
	assert.InDelta(t, 2.0, q.Q2, 1e-9)
	assert.InDelta(t, 3.0, q.Q3, 1e-9)
}
