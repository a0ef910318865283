// SPDX-License-Identifier: MIT

package variable_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/chronolath/posterior"
	"github.com/katalvlaran/chronolath/sampler"
	"github.com/katalvlaran/chronolath/variable"
)

// twoChains has trace lengths 2+3·2+10/3 = 11 and 1+0+4/2 = 3.
var twoChains = []variable.Chain{
	{Burn: 2, BatchSize: 3, BatchesUsed: 2, MaxBatches: 5, Run: 10, Thinning: 3},
	{Burn: 1, BatchSize: 3, BatchesUsed: 0, MaxBatches: 5, Run: 4, Thinning: 2},
}

func seq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func TestChain_TraceLen(t *testing.T) {
	assert.Equal(t, 11, twoChains[0].TraceLen())
	assert.Equal(t, 3, twoChains[1].TraceLen())
	assert.Equal(t, 0, variable.Chain{Run: 10}.RunMemos())
}

func TestChainSlicing(t *testing.T) {
	buf := seq(14)

	c0, err := variable.ChainTrace(buf, twoChains, 0)
	require.NoError(t, err)
	assert.Equal(t, seq(11), c0)

	r0, err := variable.RunTrace(buf, twoChains, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{8, 9, 10}, r0)

	r1, err := variable.RunTrace(buf, twoChains, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{12, 13}, r1)

	assert.Equal(t, []float64{8, 9, 10, 12, 13}, variable.RunTraces(buf, twoChains))

	_, err = variable.RunTrace(buf, twoChains, 2)
	assert.ErrorIs(t, err, variable.ErrChainIndex)
}

// TestChainSlicing_Partial keeps what exists of an aborted run.
func TestChainSlicing_Partial(t *testing.T) {
	buf := seq(9)
	r0, err := variable.RunTrace(buf, twoChains, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{8}, r0)
	r1, err := variable.RunTrace(buf, twoChains, 1)
	require.NoError(t, err)
	assert.Empty(t, r1)
}

func TestDateFormat(t *testing.T) {
	assert.Equal(t, 2950.0, variable.FormatCalBP.Apply(-1000))
	assert.Equal(t, 3000.0, variable.FormatCalB2K.Apply(-1000))
	assert.Equal(t, -1000.0, variable.FormatBCAD.Apply(-1000))

	f, err := variable.ParseDateFormat("CAL-BP")
	require.NoError(t, err)
	assert.Equal(t, variable.FormatCalBP, f)
	f, err = variable.ParseDateFormat("")
	require.NoError(t, err)
	assert.Equal(t, variable.FormatBCAD, f)
	_, err = variable.ParseDateFormat("julian")
	assert.ErrorIs(t, err, variable.ErrUnknownFormat)
}

func TestVariable_MemoFormatReset(t *testing.T) {
	var v variable.Variable
	for _, x := range []float64{-100, 50} {
		v.X = x
		v.Memo()
	}
	v.SetFormat(variable.FormatCalBP)
	assert.Equal(t, []float64{2050, 1900}, v.Formatted)

	v.Reset()
	assert.Empty(t, v.Trace)
	assert.Empty(t, v.Formatted)
	assert.Equal(t, 50.0, v.X)
	assert.Equal(t, -1.0, v.Stats.Std)
	assert.True(t, v.Credibility.IsEmpty())
}

// TestVariable_Analyze runs the full analysis on a Gaussian acquisition trace.
func TestVariable_Analyze(t *testing.T) {
	chains := []variable.Chain{{Burn: 100, Run: 4000, Thinning: 1}}
	r := sampler.NewRand(3)
	v := variable.Variable{Support: posterior.SupportR}
	for i := 0; i < chains[0].TraceLen(); i++ {
		v.X = 1e6 // burn-in values must not leak into the results
		if i >= chains[0].Burn {
			v.X = -500 + 20*r.NormFloat64()
		}
		v.Memo()
	}
	require.NoError(t, v.Analyze(chains, variable.DefaultAnalysisOptions()))

	assert.InDelta(t, 1.0, v.Density.Area(), 1e-6)
	require.Len(t, v.ChainDensities, 1)
	assert.InDelta(t, -500, v.Stats.Mean, 2)
	assert.InDelta(t, -500, v.TraceStats.Quartiles.Q2, 2)
	require.NotEmpty(t, v.HPDIntervals)
	assert.InDelta(t, -540, v.Credibility.Lo, 6)
	assert.InDelta(t, -460, v.Credibility.Hi, 6)

	v.ComputeCorrelations(chains)
	require.Len(t, v.Correlations, 1)
	assert.Equal(t, 1.0, v.Correlations[0][0])
	assert.Less(t, math.Abs(v.Correlations[0][1]), 0.1)
}

// TestVariable_AnalyzeCalBP checks that bounded supports follow the
// reversed scale.
func TestVariable_AnalyzeCalBP(t *testing.T) {
	chains := []variable.Chain{{Run: 2000, Thinning: 1}}
	r := sampler.NewRand(4)
	v := variable.Variable{Support: posterior.SupportBounded, TMin: -1000, TMax: 0, Format: variable.FormatCalBP}
	for i := 0; i < 2000; i++ {
		v.X = -1000 + 1000*r.Float64()
		v.Memo()
	}
	require.NoError(t, v.Analyze(chains, variable.DefaultAnalysisOptions()))
	require.NotEmpty(t, v.Density)
	assert.GreaterOrEqual(t, v.Density[0].T, 1950.0)
	assert.LessOrEqual(t, v.Density[len(v.Density)-1].T, 2950.0)
}

func TestVariable_AnalyzeEmpty(t *testing.T) {
	var v variable.Variable
	require.NoError(t, v.Analyze([]variable.Chain{{Run: 10, Thinning: 1}}, variable.DefaultAnalysisOptions()))
	assert.Empty(t, v.Density)
	assert.Equal(t, -1.0, v.Stats.Std)
}
