// SPDX-License-Identifier: MIT

package likelihood_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/chronolath/likelihood"
	"github.com/katalvlaran/chronolath/posterior"
	"github.com/katalvlaran/chronolath/sampler"
)

var grid = likelihood.Grid{TMin: -1000, TMax: 1000, Step: 1}

func TestRegistry(t *testing.T) {
	r := likelihood.DefaultRegistry()
	assert.Equal(t, []string{"gauss", "unif"}, r.IDs())

	p, err := r.Get("gauss")
	require.NoError(t, err)
	assert.Equal(t, "gauss", p.ID())

	_, err = r.Get("14C")
	assert.ErrorIs(t, err, likelihood.ErrUnknownPlugin)
	assert.ErrorIs(t, r.Register(likelihood.Unif{}), likelihood.ErrDuplicatePlugin)
	assert.Panics(t, func() { likelihood.NewRegistry(likelihood.Gauss{}, likelihood.Gauss{}) })
}

// TestCalibrate_Gauss recovers mean and variance of a plain Gaussian date.
func TestCalibrate_Gauss(t *testing.T) {
	d := likelihood.Data{"measure": 120, "error": 30}
	c, err := likelihood.Calibrate(likelihood.Gauss{}, d, grid)
	require.NoError(t, err)
	assert.True(t, c.Usable())
	assert.InDelta(t, 1.0, c.Curve.Area(), 1e-9)
	assert.InDelta(t, 120, c.Mean, 1e-6)
	assert.InDelta(t, 900, c.Variance, 1)
	assert.Equal(t, 1.0, c.Repartition[len(c.Repartition)-1].Y)
	assert.InDelta(t, 120, posterior.InverseCumulative(c.Repartition, 0.5), 0.5)
}

// TestCalibrate_GaussReference inverts a linear reference g(t) = 2t + 10.
func TestCalibrate_GaussReference(t *testing.T) {
	d := likelihood.Data{"measure": 410, "error": 20, "b": 2, "c": 10}
	c, err := likelihood.Calibrate(likelihood.Gauss{}, d, grid)
	require.NoError(t, err)
	assert.InDelta(t, 200, c.Mean, 1e-6)
	assert.InDelta(t, 100, c.Variance, 0.5)
}

func TestCalibrate_Unif(t *testing.T) {
	c, err := likelihood.Calibrate(likelihood.Unif{}, likelihood.Data{"min": -200, "max": 100}, grid)
	require.NoError(t, err)
	assert.InDelta(t, -50, c.Mean, 1)
	assert.InDelta(t, 300*300/12.0, c.Variance, 300)
}

func TestCalibrate_Errors(t *testing.T) {
	_, err := likelihood.Calibrate(likelihood.Gauss{}, likelihood.Data{"measure": 0, "error": 1}, likelihood.Grid{TMin: 5, TMax: 5, Step: 1})
	assert.ErrorIs(t, err, likelihood.ErrBadGrid)

	_, err = likelihood.Calibrate(likelihood.Gauss{}, likelihood.Data{"measure": 0}, grid)
	assert.ErrorIs(t, err, likelihood.ErrBadData)

	_, err = likelihood.Calibrate(likelihood.Gauss{}, likelihood.Data{"measure": 0, "error": 1, "b": 0}, grid)
	assert.ErrorIs(t, err, likelihood.ErrBadData)

	_, err = likelihood.Calibrate(likelihood.Unif{}, likelihood.Data{"min": 3, "max": 3}, grid)
	assert.ErrorIs(t, err, likelihood.ErrBadData)

	// Far outside the study period the likelihood underflows to zero.
	_, err = likelihood.Calibrate(likelihood.Gauss{}, likelihood.Data{"measure": 1e6, "error": 1}, grid)
	assert.ErrorIs(t, err, likelihood.ErrEmptyCalibration)
}

// stepPlugin supplies its own curve through Calibrator.
type stepPlugin struct{ likelihood.Unif }

func (stepPlugin) ID() string { return "step" }

func (stepPlugin) Calibrate(_ likelihood.Data, g likelihood.Grid) (posterior.Curve, error) {
	return posterior.Curve{{T: g.TMin, Y: 1}, {T: 0, Y: 1}, {T: g.TMax, Y: 1}}, nil
}

func TestCalibrate_Calibrator(t *testing.T) {
	c, err := likelihood.Calibrate(stepPlugin{}, likelihood.Data{"min": 0, "max": 1}, grid)
	require.NoError(t, err)
	require.Len(t, c.Curve, 3)
	assert.InDelta(t, 0.0005, c.Curve[1].Y, 1e-12)
	assert.InDelta(t, 0, c.Mean, 1e-9)
}

func TestAllows(t *testing.T) {
	assert.True(t, likelihood.Allows(likelihood.Gauss{}, sampler.MethodSymmetricMH))
	assert.False(t, likelihood.Allows(likelihood.Unif{}, sampler.MethodSymmetricMH))
	assert.Equal(t, 0.0, likelihood.Unif{}.Likelihood(5, likelihood.Data{"min": 0, "max": 1}))
	assert.False(t, math.IsNaN(likelihood.Gauss{}.Likelihood(5, likelihood.Data{"measure": 0, "error": 1})))
}
